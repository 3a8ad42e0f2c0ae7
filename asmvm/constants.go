// Package asmvm implements a two-pass assembler and disassembler for a
// fixed 32-bit-instruction virtual machine ISA.
package asmvm

// Mode is a 4-bit addressing mode code.
type Mode uint8

// Addressing modes, values 0-6.
const (
	ModeIMM  Mode = 0 // #expr
	ModeREG  Mode = 1 // Rn
	ModeMEM  Mode = 2 // [addr] / [sym]
	ModeREGM Mode = 3 // [Rn]
	ModeIDX  Mode = 4 // [Rn+k] / [Rn-k]
	ModeSTK  Mode = 5 // [SP+k] / [SP-k]
	ModeBAS  Mode = 6 // [BP+k] / [BP-k]
)

func (m Mode) String() string {
	switch m {
	case ModeIMM:
		return "IMM"
	case ModeREG:
		return "REG"
	case ModeMEM:
		return "MEM"
	case ModeREGM:
		return "REGM"
	case ModeIDX:
		return "IDX"
	case ModeSTK:
		return "STK"
	case ModeBAS:
		return "BAS"
	default:
		return "???"
	}
}

// immediateSplitModes holds the addressing modes for which reg2 and
// immediate are reinterpreted as a single 16-bit immediate.
var immediateSplitModes = map[Mode]bool{
	ModeIMM: true,
	ModeMEM: true,
	ModeSTK: true,
	ModeBAS: true,
}

// Opcode values, carried bit-exact from the reference implementation.
const (
	OpNOP     = 0x00
	OpLOAD    = 0x01
	OpSTORE   = 0x02
	OpMOVE    = 0x03
	OpLOADB   = 0x04
	OpSTOREB  = 0x05
	OpLOADW   = 0x06
	OpSTOREW  = 0x07
	OpLEA     = 0x08
	OpADD     = 0x20
	OpSUB     = 0x21
	OpMUL     = 0x22
	OpDIV     = 0x23
	OpMOD     = 0x24
	OpINC     = 0x25
	OpDEC     = 0x26
	OpNEG     = 0x27
	OpCMP     = 0x28
	OpADDC    = 0x2A
	OpSUBC    = 0x2B
	OpAND     = 0x40
	OpOR      = 0x41
	OpXOR     = 0x42
	OpNOT     = 0x43
	OpSHL     = 0x44
	OpSHR     = 0x45
	OpSAR     = 0x46
	OpROL     = 0x47
	OpROR     = 0x48
	OpTEST    = 0x49
	OpJMP     = 0x60
	OpJZ      = 0x61
	OpJNZ     = 0x62
	OpJN      = 0x63
	OpJP      = 0x64
	OpJO      = 0x65
	OpJC      = 0x66
	OpJBE     = 0x67
	OpJA      = 0x68
	OpCALL    = 0x6A
	OpRET     = 0x6B
	OpSYSCALL = 0x6C
	OpLOOP    = 0x6F
	OpPUSH    = 0x80
	OpPOP     = 0x81
	OpPUSHF   = 0x82
	OpPOPF    = 0x83
	OpPUSHA   = 0x84
	OpPOPA    = 0x85
	OpENTER   = 0x86
	OpLEAVE   = 0x87
	OpHALT    = 0xA0
	OpINT     = 0xA1
	OpCLI     = 0xA2
	OpSTI     = 0xA3
	OpIRET    = 0xA4
	OpIN      = 0xA5
	OpOUT     = 0xA6
	OpCPUID   = 0xA7
	OpRESET   = 0xA8
	OpDEBUG   = 0xA9
	OpALLOC   = 0xC0
	OpFREE    = 0xC1
	OpMEMCPY  = 0xC2
	OpMEMSET  = 0xC3
	OpPROTECT = 0xC4
)

var opcodeByName = map[string]uint8{
	"NOP": OpNOP, "LOAD": OpLOAD, "STORE": OpSTORE, "MOVE": OpMOVE,
	"LOADB": OpLOADB, "STOREB": OpSTOREB, "LOADW": OpLOADW, "STOREW": OpSTOREW,
	"LEA": OpLEA,
	"ADD": OpADD, "SUB": OpSUB, "MUL": OpMUL, "DIV": OpDIV, "MOD": OpMOD,
	"INC": OpINC, "DEC": OpDEC, "NEG": OpNEG, "CMP": OpCMP, "ADDC": OpADDC, "SUBC": OpSUBC,
	"AND": OpAND, "OR": OpOR, "XOR": OpXOR, "NOT": OpNOT,
	"SHL": OpSHL, "SHR": OpSHR, "SAR": OpSAR, "ROL": OpROL, "ROR": OpROR, "TEST": OpTEST,
	"JMP": OpJMP, "JZ": OpJZ, "JNZ": OpJNZ, "JN": OpJN, "JP": OpJP, "JO": OpJO,
	"JC": OpJC, "JBE": OpJBE, "JA": OpJA, "CALL": OpCALL, "RET": OpRET,
	"SYSCALL": OpSYSCALL, "LOOP": OpLOOP,
	"PUSH": OpPUSH, "POP": OpPOP, "PUSHF": OpPUSHF, "POPF": OpPOPF,
	"PUSHA": OpPUSHA, "POPA": OpPOPA, "ENTER": OpENTER, "LEAVE": OpLEAVE,
	"HALT": OpHALT, "INT": OpINT, "CLI": OpCLI, "STI": OpSTI, "IRET": OpIRET,
	"IN": OpIN, "OUT": OpOUT, "CPUID": OpCPUID, "RESET": OpRESET, "DEBUG": OpDEBUG,
	"ALLOC": OpALLOC, "FREE": OpFREE, "MEMCPY": OpMEMCPY, "MEMSET": OpMEMSET, "PROTECT": OpPROTECT,
}

var opcodeName = func() map[uint8]string {
	names := make(map[uint8]string, len(opcodeByName))
	for name, op := range opcodeByName {
		names[op] = name
	}
	return names
}()

// Segment base addresses. The assembler only ever writes into the code and
// data segments; the stack and heap bases are named here purely as layout
// documentation for downstream consumers of the image.
const (
	CodeSegmentBase  uint32 = 0x0000
	DataSegmentBase  uint32 = 0x4000
	StackSegmentBase uint32 = 0x8000
	HeapSegmentBase  uint32 = 0xC000
)

// registerAliases maps register names (upper-cased) to their 0-15 index.
var registerAliases = map[string]uint8{
	"R0": 0, "ACC": 0,
	"R1": 1, "BP": 1,
	"R2": 2, "SP": 2,
	"R3": 3, "PC": 3,
	"R4": 4, "SR": 4,
	"R5": 5, "R6": 6, "R7": 7, "R8": 8, "R9": 9,
	"R10": 10, "R11": 11, "R12": 12, "R13": 13, "R14": 14,
	"R15": 15, "LR": 15,
}
