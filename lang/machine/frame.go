package machine

import (
	"github.com/mna/dicelang/lang/bytecode"
	"github.com/mna/dicelang/lang/value"
)

// Frame is one call's window onto the VM: its bytecode chunk, its own
// fixed-size local array (sized once from Chunk.SlotCount and never
// reallocated, so pointers taken into it by open Upvalues stay valid for
// the frame's whole life), the upvalue cells its own closure captured (if
// it was called as a closure rather than a plain script function), and the
// set of upvalues this frame itself has opened onto its own locals so far
// (consulted by CloseUpvalue and by a nested Closure instruction capturing
// the same local twice).
//
// Locals are addressed by slot, entirely separate from the Thread's
// expression stack: LoadLocal/StoreLocal never touch the expression stack
// directly, and the expression stack never holds a value addressable by
// slot.
type Frame struct {
	Chunk    *bytecode.Chunk
	Locals   []value.Value
	Upvalues []*Upvalue
	IP       int

	open []*Upvalue
}

func newFrame(chunk *bytecode.Chunk, upvalues []*Upvalue) *Frame {
	locals := make([]value.Value, chunk.SlotCount)
	for i := range locals {
		locals[i] = value.NoneValue
	}
	return &Frame{Chunk: chunk, Locals: locals, Upvalues: upvalues}
}

// openUpvalue returns the (possibly newly created) open Upvalue aliasing
// local slot, reusing an existing one if this frame already opened it —
// this is what makes capturing the same ParentLocal slot twice from two
// different nested closures observe one shared cell.
func (f *Frame) openUpvalue(slot int) *Upvalue {
	for _, u := range f.open {
		if u.loc == &f.Locals[slot] {
			return u
		}
	}
	u := &Upvalue{loc: &f.Locals[slot]}
	f.open = append(f.open, u)
	return u
}

// closeUpvalue closes any upvalue this frame has open onto slot, so a
// nested closure that captured it keeps observing its last value after the
// slot is reused by a sibling scope.
func (f *Frame) closeUpvalue(slot int) {
	for i, u := range f.open {
		if u.loc == &f.Locals[slot] {
			u.Close()
			f.open = append(f.open[:i], f.open[i+1:]...)
			return
		}
	}
}
