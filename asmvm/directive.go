package asmvm

import (
	"strings"
)

func splitArgs(args string) []string {
	parts := strings.Split(args, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstToken(args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// extractQuotedString returns the text between the opening double quote and
// the next unescaped double quote. A backslash-escaped character (such as
// \") stays in the returned text for processAsciiEscapes to expand.
func extractQuotedString(args string) (string, bool) {
	args = strings.TrimSpace(args)
	if len(args) < 2 || args[0] != '"' {
		return "", false
	}
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case '\\':
			i++
		case '"':
			return args[1:i], true
		}
	}
	return "", false
}

// processAsciiEscapes expands the narrow escape set honored by .ascii and
// .asciiz: \n \t \r \0 \\ \"; any other \c emits the literal second
// character.
func processAsciiEscapes(s string) []byte {
	out := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '0':
				out = append(out, 0)
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			default:
				out = append(out, s[i+1])
			}
			i += 2
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return out
}

func (a *Assembler) appendCodeWords(n uint32) {
	n = (n + 3) &^ 3
	for i := uint32(0); i < n; i += 4 {
		a.Code = append(a.Code, Encode(OpNOP, ModeIMM, 0, 0, 0))
	}
	a.CodeAddr += n
}

func (a *Assembler) appendDataBytes(n uint32) {
	for i := uint32(0); i < n; i++ {
		a.Data = append(a.Data, 0)
	}
	a.DataAddr += n
}

func (a *Assembler) processDirective(directive, args string) {
	switch strings.ToLower(directive) {
	case ".text":
		a.Section = SectionText
		a.CodeAddr = (a.CodeAddr + 3) &^ 3

	case ".data":
		a.Section = SectionData

	case ".byte":
		if args == "" {
			a.diag(KindLayout, ".byte directive requires at least one value")
			return
		}
		if a.Section != SectionData {
			a.diag(KindLayout, ".byte directive can only appear in .data section")
			return
		}
		for _, tok := range splitArgs(args) {
			val, _, err := valueOf(tok, a.Symbols, false)
			if err != nil {
				a.diag(KindSymbol, "%v", err)
				continue
			}
			a.Data = append(a.Data, byte(val&0xFF))
			a.DataAddr++
		}

	case ".word":
		if args == "" {
			a.diag(KindLayout, ".word directive requires at least one value")
			return
		}
		if a.Section != SectionData {
			a.diag(KindLayout, ".word directive can only appear in .data section")
			return
		}
		if a.DataAddr%2 != 0 {
			a.appendDataBytes(1)
		}
		for _, tok := range splitArgs(args) {
			val, _, err := valueOf(tok, a.Symbols, false)
			if err != nil {
				a.diag(KindSymbol, "%v", err)
				continue
			}
			a.Data = append(a.Data, byte(val&0xFF), byte((val>>8)&0xFF))
			a.DataAddr += 2
		}

	case ".dword":
		if args == "" {
			a.diag(KindLayout, ".dword directive requires at least one value")
			return
		}
		if a.Section != SectionData {
			a.diag(KindLayout, ".dword directive can only appear in .data section")
			return
		}
		if pad := a.DataAddr % 4; pad != 0 {
			a.appendDataBytes(4 - pad)
		}
		for _, tok := range splitArgs(args) {
			val, _, err := valueOf(tok, a.Symbols, false)
			if err != nil {
				a.diag(KindSymbol, "%v", err)
				continue
			}
			a.Data = append(a.Data, byte(val&0xFF), byte((val>>8)&0xFF), byte((val>>16)&0xFF), byte((val>>24)&0xFF))
			a.DataAddr += 4
		}

	case ".ascii", ".asciiz":
		if args == "" {
			a.diag(KindLayout, "%s directive requires a string", directive)
			return
		}
		if a.Section != SectionData {
			a.diag(KindLayout, "%s directive can only appear in .data section", directive)
			return
		}
		str, ok := extractQuotedString(args)
		if !ok {
			a.diag(KindLexical, "invalid string format for %s: %s", directive, args)
			return
		}
		bytes := processAsciiEscapes(str)
		a.Data = append(a.Data, bytes...)
		a.DataAddr += uint32(len(bytes))
		if strings.ToLower(directive) == ".asciiz" {
			a.Data = append(a.Data, 0)
			a.DataAddr++
		}

	case ".space", ".skip":
		if args == "" {
			a.diag(KindLayout, "%s directive requires a size", directive)
			return
		}
		size, _, err := valueOf(firstToken(args), a.Symbols, false)
		if err != nil {
			a.diag(KindLayout, "invalid size for %s: %s", directive, args)
			return
		}
		if int32(size) <= 0 {
			a.diag(KindLayout, "size for %s must be positive: %d", directive, int32(size))
			return
		}
		if a.Section == SectionText {
			a.appendCodeWords((size + 3) &^ 3)
		} else {
			a.appendDataBytes(size)
		}

	case ".align":
		if args == "" {
			a.diag(KindLayout, ".align directive requires an alignment value")
			return
		}
		alignment, _, err := valueOf(firstToken(args), a.Symbols, false)
		if err != nil {
			a.diag(KindLayout, "invalid alignment: %s", args)
			return
		}
		if alignment == 0 || (alignment&(alignment-1)) != 0 {
			a.diag(KindLayout, "alignment must be a positive power of 2: %s", args)
			return
		}
		if a.Section == SectionText {
			aligned := (a.CodeAddr + alignment - 1) &^ (alignment - 1)
			a.appendCodeWords(aligned - a.CodeAddr)
		} else {
			aligned := (a.DataAddr + alignment - 1) &^ (alignment - 1)
			a.appendDataBytes(aligned - a.DataAddr)
		}

	case ".equ", ".set":
		parts := strings.SplitN(args, ",", 2)
		if len(parts) != 2 {
			a.diag(KindLayout, "invalid format for %s: %s", directive, args)
			return
		}
		name := strings.TrimSpace(parts[0])
		valueStr := strings.TrimSpace(parts[1])
		if !isIdentifierToken(name) {
			a.diag(KindSymbol, "invalid symbol name: %s", name)
			return
		}
		val, _, err := valueOf(valueStr, a.Symbols, false)
		if err != nil {
			a.diag(KindSymbol, "%v", err)
			return
		}
		if err := a.Symbols.Define(name, val); err != nil {
			a.diag(KindSymbol, "%v", err)
		}

	case ".org":
		if args == "" {
			a.diag(KindLayout, ".org directive requires an address")
			return
		}
		addr, _, err := valueOf(firstToken(args), a.Symbols, false)
		if err != nil {
			a.diag(KindLayout, "invalid address for .org: %s", args)
			return
		}
		if a.Section == SectionText {
			if addr < a.CodeAddr {
				a.diag(KindLayout, "cannot move address backward: %s", args)
				return
			}
			a.appendCodeWords(addr - a.CodeAddr)
		} else {
			if addr < a.DataAddr {
				a.diag(KindLayout, "cannot move data address backward: %s", args)
				return
			}
			a.appendDataBytes(addr - a.DataAddr)
		}

	case ".include":
		if args == "" {
			a.diag(KindLayout, ".include directive requires a filename")
			return
		}
		filename, ok := extractQuotedString(args)
		if !ok {
			a.diag(KindLexical, "invalid filename format for .include: %s", args)
			return
		}
		a.runFile(filename)

	default:
		a.diag(KindLexical, "unknown directive: %s", directive)
	}
}
