package asmvm_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/vmasm/asmvm"
)

func newTestAssembler() *asmvm.Assembler {
	return asmvm.NewAssembler(zerolog.Nop())
}

func codeWordAt(t *testing.T, image []byte, index int) uint32 {
	t.Helper()
	offset := index * 4
	require.LessOrEqual(t, offset+4, len(image))
	return binary.LittleEndian.Uint32(image[offset : offset+4])
}

func TestAssembleNoDataProducesUnpaddedImage(t *testing.T) {
	image, err := newTestAssembler().Assemble(".text\nNOP\n", "test.asm")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, image)

	image, err = newTestAssembler().Assemble(".text\nHALT\n", "test.asm")
	require.NoError(t, err)
	assert.Equal(t, asmvm.Encode(asmvm.OpHALT, asmvm.ModeIMM, 0, 0, 0), binary.LittleEndian.Uint32(image))
	assert.Len(t, image, 4)
}

func TestAssembleSimpleProgram(t *testing.T) {
	src := `
.text
start:
    LOAD R5, #1
    HALT
`
	asm := newTestAssembler()
	image, err := asm.Assemble(src, "test.asm")
	require.NoError(t, err)
	require.Len(t, image, 8, "no .data section means no padding: just the two code words")

	assert.Equal(t, asmvm.Encode(asmvm.OpLOAD, asmvm.ModeIMM, 5, 0, 1), codeWordAt(t, image, 0))
	assert.Equal(t, asmvm.Encode(asmvm.OpHALT, asmvm.ModeIMM, 0, 0, 0), codeWordAt(t, image, 1))

	v, ok := asm.Symbols.Lookup("start")
	require.True(t, ok)
	assert.Equal(t, uint32(0), v)
}

func TestAssembleForwardReferenceFixup(t *testing.T) {
	src := `
.text
start:
    JMP done
    LOAD R0, #1
done:
    HALT
`
	asm := newTestAssembler()
	image, err := asm.Assemble(src, "test.asm")
	require.NoError(t, err)

	jmp := codeWordAt(t, image, 0)
	opcode, mode, _, _, immediate := asmvm.Decode(jmp)
	assert.Equal(t, uint8(asmvm.OpJMP), opcode)
	assert.Equal(t, asmvm.ModeIMM, mode)
	assert.Equal(t, uint32(8), immediate, "done is the third instruction word, at byte offset 8")
}

func TestAssembleDataSegmentLayout(t *testing.T) {
	src := `
.text
    LOAD ACC, #0
    HALT
.data
msg:
    .asciiz "hi"
count:
    .word 5
`
	asm := newTestAssembler()
	image, err := asm.Assemble(src, "test.asm")
	require.NoError(t, err)

	msg, ok := asm.Symbols.Lookup("msg")
	require.True(t, ok)
	assert.Equal(t, asmvm.DataSegmentBase, msg)

	countAddr, ok := asm.Symbols.Lookup("count")
	require.True(t, ok)
	assert.Equal(t, asmvm.DataSegmentBase+4, countAddr, "\"hi\\0\" is 3 bytes, padded to the next 4-byte boundary")

	assert.Equal(t, []byte("hi\x00"), image[asmvm.DataSegmentBase:asmvm.DataSegmentBase+3])
	assert.Equal(t, uint16(5), binary.LittleEndian.Uint16(image[countAddr:countAddr+2]))
}

func TestAssembleUndefinedSymbolIsError(t *testing.T) {
	src := `
.text
    JMP nowhere
`
	asm := newTestAssembler()
	_, err := asm.Assemble(src, "test.asm")
	require.Error(t, err)
	assert.True(t, asm.Diags.HasErrors())
}

func TestAssembleRedefinedSymbolIsError(t *testing.T) {
	src := `
.text
start:
start:
    HALT
`
	asm := newTestAssembler()
	_, err := asm.Assemble(src, "test.asm")
	require.Error(t, err)
}

func TestAssembleInstructionOutsideTextIsError(t *testing.T) {
	src := `
.data
    HALT
`
	asm := newTestAssembler()
	_, err := asm.Assemble(src, "test.asm")
	require.Error(t, err)
}

func TestAssembleEquAndAlign(t *testing.T) {
	src := `
.equ STACK_TOP, 0x9000
.text
    LOAD ACC, #STACK_TOP
.data
    .byte 1
    .align 4
aligned:
    .byte 2
`
	asm := newTestAssembler()
	_, err := asm.Assemble(src, "test.asm")
	require.NoError(t, err)

	aligned, ok := asm.Symbols.Lookup("aligned")
	require.True(t, ok)
	assert.Equal(t, uint32(0), aligned%4)
}

func TestAssembleInclude(t *testing.T) {
	dir := t.TempDir()
	includedPath := filepath.Join(dir, "defs.inc")
	require.NoError(t, os.WriteFile(includedPath, []byte(".equ ANSWER, 42\n"), 0644))

	mainPath := filepath.Join(dir, "main.asm")
	src := `
.include "` + includedPath + `"
.text
    LOAD ACC, #ANSWER
    HALT
`
	require.NoError(t, os.WriteFile(mainPath, []byte(src), 0644))

	asm := newTestAssembler()
	source, err := os.ReadFile(mainPath)
	require.NoError(t, err)

	image, err := asm.Assemble(string(source), mainPath)
	require.NoError(t, err)
	assert.Equal(t, asmvm.Encode(asmvm.OpLOAD, asmvm.ModeIMM, 0, 0, 42), codeWordAt(t, image, 0))
}

func TestAssembleCircularIncludeIsDetected(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.inc")
	bPath := filepath.Join(dir, "b.inc")
	require.NoError(t, os.WriteFile(aPath, []byte(`.include "`+bPath+"\"\n"), 0644))
	require.NoError(t, os.WriteFile(bPath, []byte(`.include "`+aPath+"\"\n"), 0644))

	src := `.include "` + aPath + `"
.text
    HALT
`
	asm := newTestAssembler()
	_, err := asm.Assemble(src, filepath.Join(dir, "main.asm"))
	require.Error(t, err)
}

func TestDisassembleRoundTrip(t *testing.T) {
	src := `
.text
    LOAD R5, #1
    ADD R5, R5
    HALT
`
	asm := newTestAssembler()
	image, err := asm.Assemble(src, "test.asm")
	require.NoError(t, err)

	listing := asmvm.Disassemble(image)
	assert.Contains(t, listing, "LOAD R5, #0x1")
	assert.Contains(t, listing, "ADD R5, R5")
	assert.Contains(t, listing, "HALT")
}

func TestAssembleIsIdempotentAcrossReset(t *testing.T) {
	asm := newTestAssembler()
	src := `
.text
start:
    LOAD R0, #1
    HALT
`
	first, err := asm.Assemble(src, "test.asm")
	require.NoError(t, err)
	second, err := asm.Assemble(src, "test.asm")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
