package asmvm

import "fmt"

// SymbolTable maps an identifier to its absolute 32-bit value. A symbol is
// bound exactly once: by a label (name:) taking the current section
// cursor, or by an .equ/.set directive binding a literal. Redefinition is
// always an error.
type SymbolTable struct {
	values map[string]uint32
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{values: make(map[string]uint32)}
}

// Define binds name to value. It returns an error if name is already bound.
func (t *SymbolTable) Define(name string, value uint32) error {
	if _, exists := t.values[name]; exists {
		return fmt.Errorf("symbol already defined: %s", name)
	}
	t.values[name] = value
	return nil
}

// Lookup returns the value bound to name and whether it is defined.
func (t *SymbolTable) Lookup(name string) (uint32, bool) {
	v, ok := t.values[name]
	return v, ok
}

// All returns a copy of the underlying name-to-value mapping.
func (t *SymbolTable) All() map[string]uint32 {
	out := make(map[string]uint32, len(t.values))
	for k, v := range t.values {
		out[k] = v
	}
	return out
}
