package asmvm

import (
	"regexp"
	"strings"
	"unicode"
)

var labelPattern = regexp.MustCompile(`^([A-Za-z_.][A-Za-z0-9_.]*):(.*)$`)
var directivePattern = regexp.MustCompile(`^(\.[A-Za-z0-9_]+)\s*(.*)$`)

// stripComment removes everything from the first unquoted ';' onward. A ';'
// inside a double-quoted string (as in .ascii "a;b") does not start a
// comment, and a backslash-escaped quote does not end the string.
func stripComment(line string) string {
	inQuotes := false
	escaped := false
	for i, c := range line {
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inQuotes:
			escaped = true
		case c == '"':
			inQuotes = !inQuotes
		case c == ';' && !inQuotes:
			return line[:i]
		}
	}
	return line
}

// splitFirstToken splits line at its first run of whitespace, returning the
// leading token and the (trimmed) remainder.
func splitFirstToken(line string) (string, string) {
	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx:])
}

// splitOperands splits an operand list on top-level commas. Commas inside
// brackets (e.g. future nested forms) are not expected by this grammar, so a
// plain split is sufficient.
func splitOperands(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// processLine classifies and dispatches a single source line: label
// definitions (possibly followed by a directive or instruction on the same
// line), directives, and instructions. A panic while handling the line is
// recovered and reported as an internal diagnostic at the current position.
func (a *Assembler) processLine(raw string) {
	defer func() {
		if r := recover(); r != nil {
			a.diag(KindInternal, "internal error: %v", r)
		}
	}()

	line := strings.TrimSpace(stripComment(raw))
	if line == "" {
		return
	}

	if m := labelPattern.FindStringSubmatch(line); m != nil {
		a.defineLabel(m[1])
		rest := strings.TrimSpace(m[2])
		if rest != "" {
			a.processLine(rest)
		}
		return
	}

	if strings.HasPrefix(line, ".") {
		m := directivePattern.FindStringSubmatch(line)
		if m == nil {
			a.diag(KindLexical, "invalid directive syntax: %s", line)
			return
		}
		a.processDirective(m[1], strings.TrimSpace(m[2]))
		return
	}

	mnemonic, rest := splitFirstToken(line)
	a.processInstruction(strings.ToUpper(mnemonic), rest)
}

// defineLabel binds name to the current section cursor, 4-byte aligning the
// data cursor first when in .data.
func (a *Assembler) defineLabel(name string) {
	var value uint32
	if a.Section == SectionText {
		value = a.CodeAddr
	} else {
		if pad := a.DataAddr % 4; pad != 0 {
			a.appendDataBytes(4 - pad)
		}
		value = a.DataAddr
	}
	if err := a.Symbols.Define(name, value); err != nil {
		a.diag(KindSymbol, "%v", err)
	}
}

// processInstruction parses operands, validates the instruction's
// addressing-mode shape, encodes it, and queues a fixup for any operand
// whose value could not be resolved yet.
func (a *Assembler) processInstruction(mnemonic, operandsStr string) {
	if mnemonic == "" {
		return
	}
	if a.Section != SectionText {
		a.diag(KindLayout, "instructions can only appear in .text section: %s", mnemonic)
		return
	}
	if _, ok := opcodeByName[mnemonic]; !ok {
		a.diag(KindLexical, "unknown opcode: %s", mnemonic)
		return
	}

	rawOperands := splitOperands(operandsStr)
	operands := make([]Operand, 0, len(rawOperands))
	modes := make([]Mode, 0, len(rawOperands))
	for _, raw := range rawOperands {
		op, err := ParseOperand(raw, a.Symbols)
		if err != nil {
			a.diag(KindLexical, "%v", err)
			return
		}
		operands = append(operands, op)
		modes = append(modes, op.Mode)
	}

	if _, err := ValidateFormat(mnemonic, modes); err != nil {
		a.diag(KindOperandShape, "%v", err)
		return
	}

	if mnemonic != "MOVE" && len(operands) == 2 && operands[0].Mode != ModeREG {
		a.diag(KindOperandShape, "unsupported addressing mode for %s", mnemonic)
		return
	}

	index := len(a.Code)
	a.Code = append(a.Code, EncodeInstruction(mnemonic, operands))
	a.CodeAddr += 4

	if mnemonic != "MOVE" {
		switch len(operands) {
		case 1:
			if operands[0].Symbol != "" {
				a.Fixups = append(a.Fixups, fixup{Index: index, Symbol: operands[0].Symbol})
			}
		case 2:
			if operands[1].Symbol != "" {
				a.Fixups = append(a.Fixups, fixup{Index: index, Symbol: operands[1].Symbol})
			}
		}
	}
}
