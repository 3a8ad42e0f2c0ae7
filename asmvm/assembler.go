package asmvm

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Section identifies which segment an emitted value or instruction belongs
// to: .text (code, stored as 32-bit words, byte-addressed, base 0x0000) or
// .data (byte-addressed, base 0x4000).
type Section int

const (
	SectionText Section = iota
	SectionData
)

// Assembler holds all mutable state for one assembly run. A single instance
// is reset at the start of Assemble and must not be reused concurrently.
type Assembler struct {
	Symbols *SymbolTable
	Diags   *Diagnostics

	Section  Section
	CodeAddr uint32
	DataAddr uint32

	Code   []uint32
	Data   []byte
	Fixups []fixup

	file         string
	line         int
	includeStack []string

	logger zerolog.Logger
}

// NewAssembler creates an Assembler that logs assembly phases to logger.
func NewAssembler(logger zerolog.Logger) *Assembler {
	return &Assembler{logger: logger}
}

// NewDefaultAssembler creates an Assembler with a console-friendly logger
// writing to stderr, suitable for CLI use.
func NewDefaultAssembler() *Assembler {
	return NewAssembler(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger())
}

func (a *Assembler) reset(filename string) {
	a.Symbols = NewSymbolTable()
	a.Diags = &Diagnostics{}
	a.Section = SectionText
	a.CodeAddr = CodeSegmentBase
	a.DataAddr = DataSegmentBase
	a.Code = nil
	a.Data = nil
	a.Fixups = nil
	a.file = filename
	a.line = 0

	abs, err := filepath.Abs(filename)
	if err != nil {
		abs = filename
	}
	a.includeStack = []string{abs}
}

func (a *Assembler) diag(kind Kind, format string, args ...any) {
	a.Diags.Add(Position{File: a.file, Line: a.line}, kind, format, args...)
}

// Assemble runs the full two-pass pipeline over source (the contents of
// filename) and returns the assembled binary image. Any accumulated
// diagnostic suppresses emission; Diags still holds the full list.
func (a *Assembler) Assemble(source, filename string) ([]byte, error) {
	a.reset(filename)
	a.logger.Debug().Str("file", filename).Msg("assembly started")

	for i, raw := range strings.Split(source, "\n") {
		a.line = i + 1
		a.processLine(raw)
	}

	a.logger.Debug().Int("fixups", len(a.Fixups)).Msg("resolving fixups")
	a.resolveFixups()

	if a.Diags.HasErrors() {
		a.logger.Error().Int("count", len(a.Diags.All())).Msg("assembly failed")
		return nil, a.Diags
	}

	image := a.emit()
	if a.Diags.HasErrors() {
		return nil, a.Diags
	}
	a.logger.Info().Int("bytes", len(image)).Int("symbols", len(a.Symbols.All())).Msg("assembly succeeded")
	return image, nil
}

// runFile processes an included file's lines in place, detecting circular
// inclusion via an absolute-path stack and always restoring the including
// file's (file, line) position on every exit path.
func (a *Assembler) runFile(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	for _, s := range a.includeStack {
		if s == abs {
			a.diag(KindIncludeIO, "circular inclusion detected: %s", path)
			return
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		a.diag(KindIncludeIO, "include file not found: %s", path)
		return
	}

	a.includeStack = append(a.includeStack, abs)
	savedFile, savedLine := a.file, a.line
	defer func() {
		a.file, a.line = savedFile, savedLine
		a.includeStack = a.includeStack[:len(a.includeStack)-1]
	}()

	a.file = path
	for i, raw := range strings.Split(string(content), "\n") {
		a.line = i + 1
		a.processLine(raw)
	}
}
