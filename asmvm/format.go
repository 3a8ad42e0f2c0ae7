package asmvm

import (
	"fmt"
	"strings"
)

// formatEntry describes the operand shape a mnemonic accepts: arity (-1
// means "0 or 1", used only by RET) and, for 1- or 2-operand forms, the
// addressing modes allowed at each position. threeOperand marks a format
// entry that exists for validation purposes (MEMCPY, MEMSET) but whose
// encoding is not implemented — it always reports an error.
type formatEntry struct {
	arity        int
	oneOperand   []Mode
	destModes    []Mode
	srcModes     []Mode
	threeOperand bool
}

var regOnly = []Mode{ModeREG}
var regOrImm = []Mode{ModeREG, ModeIMM}
var jumpModes = []Mode{ModeIMM, ModeREG, ModeREGM, ModeIDX}
var memModes = []Mode{ModeMEM, ModeREGM, ModeIDX, ModeSTK, ModeBAS}
var arithModes = []Mode{ModeREG, ModeIMM, ModeMEM, ModeREGM, ModeIDX, ModeSTK, ModeBAS}

var formatTable = map[string]formatEntry{
	"NOP": {arity: 0}, "PUSHF": {arity: 0}, "POPF": {arity: 0}, "PUSHA": {arity: 0},
	"POPA": {arity: 0}, "LEAVE": {arity: 0}, "HALT": {arity: 0}, "CLI": {arity: 0},
	"STI": {arity: 0}, "IRET": {arity: 0}, "CPUID": {arity: 0}, "RESET": {arity: 0},
	"DEBUG": {arity: 0},

	"INC": {arity: 1, oneOperand: regOnly}, "DEC": {arity: 1, oneOperand: regOnly},
	"NEG": {arity: 1, oneOperand: regOnly}, "NOT": {arity: 1, oneOperand: regOnly},
	"POP": {arity: 1, oneOperand: regOnly}, "FREE": {arity: 1, oneOperand: regOnly},

	"RET": {arity: -1, oneOperand: []Mode{ModeIMM}},

	"PUSH": {arity: 1, oneOperand: regOrImm},

	"JMP": {arity: 1, oneOperand: jumpModes}, "JZ": {arity: 1, oneOperand: jumpModes},
	"JNZ": {arity: 1, oneOperand: jumpModes}, "JN": {arity: 1, oneOperand: jumpModes},
	"JP": {arity: 1, oneOperand: jumpModes}, "JO": {arity: 1, oneOperand: jumpModes},
	"JC": {arity: 1, oneOperand: jumpModes}, "JBE": {arity: 1, oneOperand: jumpModes},
	"JA": {arity: 1, oneOperand: jumpModes}, "CALL": {arity: 1, oneOperand: jumpModes},

	"ENTER": {arity: 1, oneOperand: []Mode{ModeIMM}}, "INT": {arity: 1, oneOperand: []Mode{ModeIMM}},
	"SYSCALL": {arity: 1, oneOperand: []Mode{ModeIMM}},

	"IN":   {arity: 2, destModes: regOnly, srcModes: []Mode{ModeIMM}},
	"OUT":  {arity: 2, destModes: []Mode{ModeIMM}, srcModes: regOrImm},
	"LOOP": {arity: 2, destModes: regOnly, srcModes: []Mode{ModeIMM}},

	"MOVE": {arity: 2, destModes: regOnly, srcModes: regOnly},

	"LOAD": {arity: 2, destModes: regOnly, srcModes: append([]Mode{ModeIMM}, memModes...)},
	"LOADB": {arity: 2, destModes: regOnly, srcModes: append([]Mode{ModeIMM}, memModes...)},
	"LOADW": {arity: 2, destModes: regOnly, srcModes: append([]Mode{ModeIMM}, memModes...)},
	"LEA":   {arity: 2, destModes: regOnly, srcModes: memModes},

	"ADD": {arity: 2, destModes: regOnly, srcModes: arithModes}, "SUB": {arity: 2, destModes: regOnly, srcModes: arithModes},
	"MUL": {arity: 2, destModes: regOnly, srcModes: arithModes}, "DIV": {arity: 2, destModes: regOnly, srcModes: arithModes},
	"MOD": {arity: 2, destModes: regOnly, srcModes: arithModes}, "AND": {arity: 2, destModes: regOnly, srcModes: arithModes},
	"OR": {arity: 2, destModes: regOnly, srcModes: arithModes}, "XOR": {arity: 2, destModes: regOnly, srcModes: arithModes},
	"TEST": {arity: 2, destModes: regOnly, srcModes: arithModes}, "CMP": {arity: 2, destModes: regOnly, srcModes: arithModes},
	"ADDC": {arity: 2, destModes: regOnly, srcModes: arithModes}, "SUBC": {arity: 2, destModes: regOnly, srcModes: arithModes},

	"SHL": {arity: 2, destModes: regOnly, srcModes: regOrImm}, "SHR": {arity: 2, destModes: regOnly, srcModes: regOrImm},
	"SAR": {arity: 2, destModes: regOnly, srcModes: regOrImm}, "ROL": {arity: 2, destModes: regOnly, srcModes: regOrImm},
	"ROR": {arity: 2, destModes: regOnly, srcModes: regOrImm},

	"STORE": {arity: 2, destModes: regOnly, srcModes: memModes}, "STOREB": {arity: 2, destModes: regOnly, srcModes: memModes},
	"STOREW": {arity: 2, destModes: regOnly, srcModes: memModes},

	"ALLOC": {arity: 2, destModes: regOnly, srcModes: regOrImm}, "PROTECT": {arity: 2, destModes: regOnly, srcModes: regOrImm},

	"MEMCPY": {arity: 3, threeOperand: true}, "MEMSET": {arity: 3, threeOperand: true},
}

func modeSetString(modes []Mode) string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}

func modeAllowed(mode Mode, allowed []Mode) bool {
	for _, m := range allowed {
		if m == mode {
			return true
		}
	}
	return false
}

// ValidateFormat checks operand count and per-position addressing-mode
// legality for mnemonic against the given operand modes. It returns a
// descriptive error naming the mnemonic and offending position on failure.
func ValidateFormat(mnemonic string, modes []Mode) (formatEntry, error) {
	entry, ok := formatTable[mnemonic]
	if !ok {
		return formatEntry{}, fmt.Errorf("unknown opcode: %s", mnemonic)
	}

	if entry.threeOperand {
		return entry, fmt.Errorf("%s: three-operand instruction not fully implemented", mnemonic)
	}

	if entry.arity == -1 {
		if len(modes) > 1 {
			return entry, fmt.Errorf("%s expects at most 1 operand, got %d", mnemonic, len(modes))
		}
		if len(modes) == 1 && !modeAllowed(modes[0], entry.oneOperand) {
			return entry, fmt.Errorf("%s expects operand with addressing mode(s): %s, got %s", mnemonic, modeSetString(entry.oneOperand), modes[0])
		}
		return entry, nil
	}

	if len(modes) != entry.arity {
		return entry, fmt.Errorf("%s expects %d operand(s), got %d", mnemonic, entry.arity, len(modes))
	}

	switch entry.arity {
	case 0:
		return entry, nil
	case 1:
		if !modeAllowed(modes[0], entry.oneOperand) {
			return entry, fmt.Errorf("%s expects operand with addressing mode(s): %s, got %s", mnemonic, modeSetString(entry.oneOperand), modes[0])
		}
	case 2:
		if !modeAllowed(modes[0], entry.destModes) {
			return entry, fmt.Errorf("%s expects first operand with addressing mode(s): %s, got %s", mnemonic, modeSetString(entry.destModes), modes[0])
		}
		if !modeAllowed(modes[1], entry.srcModes) {
			return entry, fmt.Errorf("%s expects second operand with addressing mode(s): %s, got %s", mnemonic, modeSetString(entry.srcModes), modes[1])
		}
	}
	return entry, nil
}
