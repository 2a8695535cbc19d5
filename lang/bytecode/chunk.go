package bytecode

import (
	"github.com/mna/dicelang/lang/span"
	"github.com/mna/dicelang/lang/value"
)

// Chunk is the immutable artifact produced by compiling one function (or
// the top-level script): a flat instruction stream, its constant pool, the
// local-frame sizing the VM must reserve, and a source map from
// instruction offset to the span that produced it. Chunk corresponds to
// spec.md §3's "Bytecode" data type.
type Chunk struct {
	Name         string
	Code         []byte
	Constants    []value.Value
	SlotCount    int
	UpvalueCount int
	NumParams    int
	SourceMap    map[int]span.Span
}

// SpanAt returns the span recorded for the instruction starting at offset,
// or the zero Span if none was recorded.
func (c *Chunk) SpanAt(offset int) span.Span { return c.SourceMap[offset] }
