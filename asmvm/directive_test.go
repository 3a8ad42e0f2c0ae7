package asmvm_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/vmasm/asmvm"
)

func TestAsciiEscapeSequences(t *testing.T) {
	src := `
.data
msg:
    .ascii "a\nb\tc\\d\"e\0f\qg"
`
	asm := asmvm.NewAssembler(zerolog.Nop())
	image, err := asm.Assemble(src, "test.asm")
	require.NoError(t, err)

	msg, ok := asm.Symbols.Lookup("msg")
	require.True(t, ok)

	got := image[msg : msg+10]
	want := []byte{'a', '\n', 'b', '\t', 'c', '\\', 'd', '"', 'e', 0}
	assert.Equal(t, want, got)
}

func TestOrgCannotMoveBackward(t *testing.T) {
	src := `
.text
    LOAD R0, #1
    LOAD R1, #2
    .org 0x0000
    HALT
`
	asm := asmvm.NewAssembler(zerolog.Nop())
	_, err := asm.Assemble(src, "test.asm")
	require.Error(t, err)
}

func TestOrgPadsForward(t *testing.T) {
	src := `
.text
start:
    LOAD R0, #1
    .org 0x0010
target:
    HALT
`
	asm := asmvm.NewAssembler(zerolog.Nop())
	_, err := asm.Assemble(src, "test.asm")
	require.NoError(t, err)

	target, ok := asm.Symbols.Lookup("target")
	require.True(t, ok)
	assert.Equal(t, uint32(0x0010), target)
}

func TestSpaceDirectivePadsCodeWithNops(t *testing.T) {
	src := `
.text
    .space 8
    HALT
`
	asm := asmvm.NewAssembler(zerolog.Nop())
	image, err := asm.Assemble(src, "test.asm")
	require.NoError(t, err)

	assert.Equal(t, asmvm.Encode(asmvm.OpNOP, asmvm.ModeIMM, 0, 0, 0), codeWordAt(t, image, 0))
	assert.Equal(t, asmvm.Encode(asmvm.OpNOP, asmvm.ModeIMM, 0, 0, 0), codeWordAt(t, image, 1))
	assert.Equal(t, asmvm.Encode(asmvm.OpHALT, asmvm.ModeIMM, 0, 0, 0), codeWordAt(t, image, 2))
}

func TestAlignRejectsNonPowerOfTwo(t *testing.T) {
	src := `
.data
    .byte 1
    .align 3
`
	asm := asmvm.NewAssembler(zerolog.Nop())
	_, err := asm.Assemble(src, "test.asm")
	require.Error(t, err)
}

func TestByteWordDwordDirectives(t *testing.T) {
	src := `
.data
bytes:
    .byte 1, 2, 3
words:
    .word 0x1111, 0x2222
dwords:
    .dword 0xAABBCCDD
`
	asm := asmvm.NewAssembler(zerolog.Nop())
	image, err := asm.Assemble(src, "test.asm")
	require.NoError(t, err)

	b, _ := asm.Symbols.Lookup("bytes")
	assert.Equal(t, []byte{1, 2, 3}, image[b:b+3])

	w, _ := asm.Symbols.Lookup("words")
	assert.Equal(t, uint32(asmvm.DataSegmentBase+4), w, "the words label is padded to the next 4-byte boundary after the bytes")

	d, _ := asm.Symbols.Lookup("dwords")
	assert.Equal(t, uint32(0), d%4)
}
