package asmvm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Operand is the result of classifying one operand text: an addressing
// mode plus the fields that mode uses. Symbol is non-empty when the
// immediate could not be resolved at parse time and must be fixed up once
// the referenced symbol is defined.
type Operand struct {
	Mode      Mode
	Reg1      uint8
	Reg2      uint8
	Immediate uint32
	Symbol    string
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

func isIdentifierToken(s string) bool {
	return identifierPattern.MatchString(s)
}

func parseRegisterToken(tok string) (uint8, bool) {
	reg, ok := registerAliases[strings.ToUpper(strings.TrimSpace(tok))]
	return reg, ok
}

// parseNumericLiteral accepts decimal, 0x hex, 0b binary, and leading-zero
// octal (when not followed by x/X/b/B).
func parseNumericLiteral(tok string) (uint32, error) {
	switch {
	case strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X"):
		v, err := strconv.ParseUint(tok[2:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid numeric value: %s", tok)
		}
		return uint32(v), nil
	case strings.HasPrefix(tok, "0b") || strings.HasPrefix(tok, "0B"):
		v, err := strconv.ParseUint(tok[2:], 2, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid numeric value: %s", tok)
		}
		return uint32(v), nil
	case len(tok) > 1 && tok[0] == '0' && !strings.ContainsAny(string(tok[1]), "xXbB"):
		v, err := strconv.ParseUint(tok, 8, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid numeric value: %s", tok)
		}
		return uint32(v), nil
	default:
		if v, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return uint32(v), nil
		}
		return 0, fmt.Errorf("invalid numeric value: %s", tok)
	}
}

// isNumericLiteralToken reports whether tok is a plain decimal or 0x-hex
// literal — the only offset forms honored next to a symbolic base, per the
// sym±literal grammar.
func isNumericLiteralToken(tok string) bool {
	if tok == "" {
		return false
	}
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		hex := tok[2:]
		if hex == "" {
			return false
		}
		for _, c := range hex {
			if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
				return false
			}
		}
		return true
	}
	for _, c := range tok {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// valueOf resolves expr to a numeric value: an identifier looked up in
// symbols, or a numeric literal. When allowUnresolved is true and expr is
// an identifier not yet defined, it returns a zero value and the identifier
// name as unresolvedSymbol rather than an error, signalling the caller to
// queue a fixup.
func valueOf(expr string, symbols *SymbolTable, allowUnresolved bool) (value uint32, unresolvedSymbol string, err error) {
	if isIdentifierToken(expr) {
		if v, ok := symbols.Lookup(expr); ok {
			return v, "", nil
		}
		if allowUnresolved {
			return 0, expr, nil
		}
		return 0, "", fmt.Errorf("undefined symbol: %s", expr)
	}
	v, err := parseNumericLiteral(expr)
	if err != nil {
		return 0, "", err
	}
	return v, "", nil
}

// ParseOperand classifies a single operand string per the grammar: #expr
// is immediate, [expr] is a memory form with register-indirect/indexed/
// stack-relative/base-relative sub-cases, a bare register token is REG,
// and anything else is IMM (possibly a bare label).
func ParseOperand(raw string, symbols *SymbolTable) (Operand, error) {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "#") {
		val, sym, err := valueOf(strings.TrimSpace(raw[1:]), symbols, true)
		if err != nil {
			return Operand{}, err
		}
		return Operand{Mode: ModeIMM, Immediate: val, Symbol: sym}, nil
	}

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		return parseBracketOperand(strings.TrimSpace(raw[1:len(raw)-1]), symbols)
	}

	if reg, ok := parseRegisterToken(raw); ok {
		return Operand{Mode: ModeREG, Reg1: reg}, nil
	}

	val, sym, err := valueOf(raw, symbols, true)
	if err != nil {
		return Operand{}, err
	}
	return Operand{Mode: ModeIMM, Immediate: val, Symbol: sym}, nil
}

func parseBracketOperand(expr string, symbols *SymbolTable) (Operand, error) {
	if reg, ok := parseRegisterToken(expr); ok {
		return registerIndirectOperand(reg, 0, false), nil
	}

	if idx := strings.IndexByte(expr, '+'); idx >= 0 {
		base := strings.TrimSpace(expr[:idx])
		offset := strings.TrimSpace(expr[idx+1:])
		return bracketOffsetOperand(expr, base, offset, +1, symbols)
	}

	if idx := strings.IndexByte(expr, '-'); idx >= 0 {
		base := strings.TrimSpace(expr[:idx])
		offset := strings.TrimSpace(expr[idx+1:])
		return bracketOffsetOperand(expr, base, offset, -1, symbols)
	}

	val, sym, err := valueOf(expr, symbols, true)
	if err != nil {
		return Operand{}, err
	}
	return Operand{Mode: ModeMEM, Immediate: val, Symbol: sym}, nil
}

// registerIndirectOperand builds the [Rn], [SP+k], or [BP+k] operand for a
// register-relative bracket expression, given an already-signed offset.
func registerIndirectOperand(reg uint8, offset uint32, hasOffset bool) Operand {
	switch reg {
	case registerAliases["SP"]:
		return Operand{Mode: ModeSTK, Immediate: offset}
	case registerAliases["BP"]:
		return Operand{Mode: ModeBAS, Immediate: offset}
	default:
		if hasOffset {
			return Operand{Mode: ModeIDX, Reg1: reg, Immediate: offset}
		}
		return Operand{Mode: ModeREGM, Reg1: reg}
	}
}

func bracketOffsetOperand(fullExpr, base, offset string, sign int, symbols *SymbolTable) (Operand, error) {
	if reg, ok := parseRegisterToken(base); ok {
		imm, sym, err := valueOf(offset, symbols, false)
		if err != nil {
			return Operand{}, err
		}
		_ = sym // register-relative displacements must be resolvable now

		isStackOrBase := reg == registerAliases["SP"] || reg == registerAliases["BP"]
		if sign < 0 {
			if isStackOrBase {
				imm = uint32(-int32(imm)) & 0xFFFF
			} else {
				imm = uint32(-int32(imm)) & 0xFFF
			}
		}
		return registerIndirectOperand(reg, imm, true), nil
	}

	if !isNumericLiteralToken(offset) {
		return Operand{}, fmt.Errorf("complex expressions not supported: %s", fullExpr)
	}
	offVal, err := parseNumericLiteral(offset)
	if err != nil {
		return Operand{}, err
	}

	baseVal, resolved := symbols.Lookup(base)
	sym := ""
	if !resolved {
		sym = base
	}
	value := int64(baseVal) + int64(sign)*int64(offVal)
	return Operand{Mode: ModeMEM, Immediate: uint32(value), Symbol: sym}, nil
}
