// Package machine is the stack-based virtual machine: it executes a
// compiled bytecode.Chunk against the tagged value.Value model, dispatching
// arithmetic/comparison operators, field and index access, and calls
// through the shared mechanisms the compiler targeted.
package machine

import (
	"github.com/dolthub/swiss"

	"github.com/mna/dicelang/lang/bytecode"
	"github.com/mna/dicelang/lang/diag"
	"github.com/mna/dicelang/lang/symbol"
	"github.com/mna/dicelang/lang/value"
)

// maxStack bounds the expression/operand stack shared by every frame on a
// Thread, per spec.md §4.4's "fixed-capacity value stack (e.g., 512
// slots)". It is separate from each Frame's own Locals array, which is
// sized from that frame's Chunk.SlotCount and does not count against it.
const maxStack = 512

// maxCallDepth bounds recursion, mirroring the teacher's
// Thread.MaxCallStackDepth: without it, a pathological script (or a
// genuine programming error in a deeply recursive Dice function) would
// recurse this Go process's own call stack to exhaustion rather than
// surfacing a catchable Dice-level error.
const maxCallDepth = 256

// Thread is one independent VM instance: its own expression stack, call
// stack, global bindings, and die roller. Per spec.md §5, the core is
// single-threaded and non-suspending; running several scripts concurrently
// means constructing one Thread per goroutine.
type Thread struct {
	Globals *swiss.Map[symbol.Symbol, value.Value]
	Roller  value.Roller

	stack []value.Value
	depth int
}

// NewThread returns a Thread with no globals bound and the default
// math/rand-backed roller seeded from seed. Callers wire native functions
// and host-provided globals onto Globals before calling Run.
func NewThread(seed int64) *Thread {
	return &Thread{
		Globals: swiss.NewMap[symbol.Symbol, value.Value](8),
		Roller:  value.NewRandRoller(seed),
		stack:   make([]value.Value, 0, maxStack),
	}
}

func (t *Thread) push(v value.Value) error {
	if len(t.stack) >= maxStack {
		return diag.New(diag.Aborted, "value stack overflow")
	}
	t.stack = append(t.stack, v)
	return nil
}

func (t *Thread) pop() (value.Value, error) {
	n := len(t.stack)
	if n == 0 {
		return nil, diag.New(diag.StackUnderflowed, "pop from empty stack")
	}
	v := t.stack[n-1]
	t.stack = t.stack[:n-1]
	return v, nil
}

func (t *Thread) peek() (value.Value, error) {
	n := len(t.stack)
	if n == 0 {
		return nil, diag.New(diag.StackUnderflowed, "peek at empty stack")
	}
	return t.stack[n-1], nil
}

// Run executes chunk as a toplevel script (no caller, no arguments, no
// captured upvalues) and returns the value its Return instruction leaves
// on the stack.
func (t *Thread) Run(chunk *bytecode.Chunk) (value.Value, error) {
	frame := newFrame(chunk, nil)
	return t.runFrame(frame)
}
