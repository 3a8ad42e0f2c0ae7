package asmvm

import (
	"bytes"
	"encoding/binary"
)

// emit renders the assembled code and data vectors into the final binary
// image: little-endian code words starting at 0x0000. If any data was
// emitted, the code bytes are zero-padded up to the data segment base and
// the data bytes follow; otherwise the image is just the code bytes.
func (a *Assembler) emit() []byte {
	buf := new(bytes.Buffer)
	for _, word := range a.Code {
		_ = binary.Write(buf, binary.LittleEndian, word)
	}

	if len(a.Data) == 0 {
		return buf.Bytes()
	}

	if uint32(buf.Len()) > DataSegmentBase {
		a.diag(KindLayout, "code segment overflows data segment base 0x%04X", DataSegmentBase)
		return nil
	}
	for uint32(buf.Len()) < DataSegmentBase {
		buf.WriteByte(0)
	}

	buf.Write(a.Data)
	return buf.Bytes()
}
