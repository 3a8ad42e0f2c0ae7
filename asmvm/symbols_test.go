package asmvm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/vmasm/asmvm"
)

func TestSymbolTableDefineAndLookup(t *testing.T) {
	st := asmvm.NewSymbolTable()

	require.NoError(t, st.Define("start", 0x0000))
	require.NoError(t, st.Define("msg", 0x4000))

	v, ok := st.Lookup("start")
	require.True(t, ok)
	assert.Equal(t, uint32(0x0000), v)

	v, ok = st.Lookup("msg")
	require.True(t, ok)
	assert.Equal(t, uint32(0x4000), v)

	_, ok = st.Lookup("nope")
	assert.False(t, ok)
}

func TestSymbolTableRejectsRedefinition(t *testing.T) {
	st := asmvm.NewSymbolTable()
	require.NoError(t, st.Define("loop", 4))

	err := st.Define("loop", 8)
	require.Error(t, err)

	v, ok := st.Lookup("loop")
	require.True(t, ok)
	assert.Equal(t, uint32(4), v, "a rejected redefinition must not overwrite the original binding")
}

func TestSymbolTableAllReturnsCopy(t *testing.T) {
	st := asmvm.NewSymbolTable()
	require.NoError(t, st.Define("a", 1))

	snapshot := st.All()
	snapshot["a"] = 99
	snapshot["b"] = 2

	v, _ := st.Lookup("a")
	assert.Equal(t, uint32(1), v)
	_, ok := st.Lookup("b")
	assert.False(t, ok)
}
