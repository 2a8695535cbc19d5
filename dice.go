// Package dice is the host-facing API for the Dice scripting language: it
// glues the parser, compiler, and VM stages into the small surface an
// embedding Go program actually needs (compile a script, run its bytecode,
// register a native function, print its disassembly), without requiring
// callers to import lang/parser, lang/compiler, or lang/machine directly.
package dice

import (
	"github.com/mna/dicelang/lang/bytecode"
	"github.com/mna/dicelang/lang/compiler"
	"github.com/mna/dicelang/lang/machine"
	"github.com/mna/dicelang/lang/parser"
	"github.com/mna/dicelang/lang/symbol"
	"github.com/mna/dicelang/lang/value"
)

// Kind selects how a top-level source compiles, mirroring
// compiler.CompileKind without forcing callers to import lang/compiler for
// just this one enum.
type Kind = compiler.CompileKind

const (
	Script Kind = compiler.KindScript
	Module Kind = compiler.KindModule
)

// CompileScript parses source and lowers it to a bytecode Chunk named name,
// compiled as kind. The returned error is a *diag.List on parse failure or
// a *diag.Error on compile failure; both implement Unwrap() []error /
// error respectively so callers may use errors.As against either.
func CompileScript(source, name string, kind Kind) (*bytecode.Chunk, error) {
	tree, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(tree, name, kind)
}

// Disassemble renders chunk's bytecode as human-readable text, for tooling
// and tests; it does not affect execution.
func Disassemble(chunk *bytecode.Chunk) string {
	return bytecode.Disassemble(chunk)
}

// Thread is a single independent execution context: its own expression
// stack, global bindings, and die roller. Running several scripts
// concurrently means constructing one Thread per goroutine, per spec.md §5.
type Thread struct {
	vm *machine.Thread
}

// NewThread returns a Thread with no globals bound, seeded from seed for
// reproducible dice rolls (tests should pass a fixed seed; a host wanting
// real randomness can seed from the current time).
func NewThread(seed int64) *Thread {
	return &Thread{vm: machine.NewThread(seed)}
}

// RegisterNativeFn binds name in the thread's globals to a native Go
// function, callable from Dice source as name(...). Args given to fn are
// already evaluated; fn returning an error aborts the calling script with
// that error.
func (t *Thread) RegisterNativeFn(name string, fn func(args []value.Value) (value.Value, error)) {
	t.vm.Globals.Put(symbol.New(name), value.NativeFunc(name, fn))
}

// SetGlobal binds name in the thread's globals to v directly, for
// host-provided constants and data rather than callables.
func (t *Thread) SetGlobal(name string, v value.Value) {
	t.vm.Globals.Put(symbol.New(name), v)
}

// RunScript executes chunk on this thread and returns the value its
// top-level Return instruction leaves on the stack.
func (t *Thread) RunScript(chunk *bytecode.Chunk) (value.Value, error) {
	return t.vm.Run(chunk)
}

// Run is a one-shot convenience: parse, compile, and run source in a single
// call against a fresh Thread seeded from seed. Embedding code that runs
// many scripts against the same globals should construct a Thread directly
// instead.
func Run(source string, seed int64) (value.Value, error) {
	chunk, err := CompileScript(source, "<script>", Script)
	if err != nil {
		return nil, err
	}
	return NewThread(seed).RunScript(chunk)
}
