package asmvm

// fixup records a pending code word awaiting a symbol's resolved value: the
// index into the code-word vector and the symbol name it references.
type fixup struct {
	Index  int
	Symbol string
}

// resolveFixups re-encodes every pending code word with its symbol's now
// (hopefully) defined value. A symbol still undefined at this point is an
// assembly error.
func (a *Assembler) resolveFixups() {
	for _, f := range a.Fixups {
		val, ok := a.Symbols.Lookup(f.Symbol)
		if !ok {
			a.diag(KindSymbol, "undefined symbol: %s", f.Symbol)
			continue
		}
		opcode, mode, reg1, _, _ := Decode(a.Code[f.Index])
		a.Code[f.Index] = Encode(opcode, mode, reg1, 0, val)
	}
}
