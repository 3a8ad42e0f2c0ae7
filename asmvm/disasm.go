package asmvm

import (
	"encoding/binary"
	"fmt"
	"strings"
)

func registerName(n uint8) string {
	return fmt.Sprintf("R%d", n)
}

// signExtend sign-extends the low `bits` bits of v to a 32-bit signed value.
func signExtend(v uint32, bits int) int32 {
	shift := uint(32 - bits)
	return int32(v<<shift) >> shift
}

// formatOperandFields renders one decoded operand back to assembly text,
// given the single register slot that applies to it (reg1 for a 1-operand
// instruction, reg2 for the source half of a 2-operand instruction).
func formatOperandFields(mode Mode, reg uint8, immediate uint32) string {
	switch mode {
	case ModeIMM:
		return fmt.Sprintf("#0x%X", immediate)
	case ModeREG:
		return registerName(reg)
	case ModeMEM:
		return fmt.Sprintf("[0x%X]", immediate)
	case ModeREGM:
		return fmt.Sprintf("[%s]", registerName(reg))
	case ModeIDX:
		return formatIndexed(registerName(reg), signExtend(immediate, 12))
	case ModeSTK:
		return formatIndexed("SP", signExtend(immediate, 16))
	case ModeBAS:
		return formatIndexed("BP", signExtend(immediate, 16))
	default:
		return fmt.Sprintf("?0x%X", immediate)
	}
}

func formatIndexed(base string, offset int32) string {
	switch {
	case offset == 0:
		return fmt.Sprintf("[%s]", base)
	case offset > 0:
		return fmt.Sprintf("[%s+%d]", base, offset)
	default:
		return fmt.Sprintf("[%s-%d]", base, -offset)
	}
}

// DisassembleWord renders a single decoded instruction word back to
// assembly text, using the same format table the encoder validates
// against so the two never drift apart.
func DisassembleWord(word uint32) string {
	opcode, mode, reg1, reg2, immediate := Decode(word)

	mnemonic, ok := opcodeName[opcode]
	if !ok {
		return "???"
	}

	entry, known := formatTable[mnemonic]
	if !known {
		return "???"
	}

	switch entry.arity {
	case 0:
		return mnemonic
	case -1:
		if mode == ModeIMM && immediate == 0 {
			return mnemonic
		}
		return mnemonic + " " + formatOperandFields(mode, reg1, immediate)
	case 1:
		return mnemonic + " " + formatOperandFields(mode, reg1, immediate)
	case 2:
		if mnemonic == "MOVE" {
			return fmt.Sprintf("%s %s, %s", mnemonic, registerName(reg1), registerName(reg2))
		}
		return fmt.Sprintf("%s %s, %s", mnemonic, registerName(reg1), formatOperandFields(mode, reg2, immediate))
	default:
		return fmt.Sprintf(".word 0x%08X", word)
	}
}

// Disassemble renders the code segment of an assembled image (everything
// up to the data segment base, or the whole slice if shorter) as a listing
// of "0xADDR: mnemonic operands" lines, one per instruction word.
func Disassemble(image []byte) string {
	var sb strings.Builder

	limit := len(image)
	if limit > int(DataSegmentBase) {
		limit = int(DataSegmentBase)
	}

	for offset := 0; offset+4 <= limit; offset += 4 {
		word := binary.LittleEndian.Uint32(image[offset : offset+4])
		fmt.Fprintf(&sb, "0x%04X: %s\n", offset, DisassembleWord(word))
	}
	return sb.String()
}
