package value

import "github.com/mna/dicelang/lang/symbol"

// Callable is implemented by every value that can appear as the callee of a
// Call instruction: native functions, script functions, and closures.
type Callable interface {
	Value
	Call(args []Value) (Value, error)
}

// NativeFunction wraps a host- or builtin-provided Go function as a
// callable Value. It backs both the operator method tables (see
// primitives.go) and RegisterNativeFn on the host-facing API.
type NativeFunction struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

// NativeFunc is a convenience constructor, used pervasively when wiring a
// type's method table.
func NativeFunc(name string, fn func(args []Value) (Value, error)) *NativeFunction {
	return &NativeFunction{Name: name, Fn: fn}
}

var nativeFuncType = &TypeDescriptor{Name: "native-function", Methods: map[symbol.Symbol]Value{}}

func (f *NativeFunction) Type() *TypeDescriptor       { return nativeFuncType }
func (f *NativeFunction) String() string              { return "fn " + f.Name + "(native)" }
func (f *NativeFunction) Truth() bool                 { return true }
func (f *NativeFunction) Call(args []Value) (Value, error) { return f.Fn(args) }

// ScriptFunction is a compiled function with no captured environment: its
// name, parameter count and bytecode. The compiler stores it in the
// constant pool, and the Closure instruction always wraps it in a Closure
// at run time, with an empty upvalue list when it captures nothing.
//
// Proto is an opaque pointer to the compiled bytecode (lang/bytecode.Chunk);
// it is declared here as `any` to avoid an import cycle between value and
// bytecode (bytecode.Chunk's constant pool holds Values, so bytecode must
// import value, not the reverse). lang/machine type-asserts it back.
type ScriptFunction struct {
	Name      string
	Proto     any
	NumParams int
}

var scriptFuncType = &TypeDescriptor{Name: "function", Methods: map[symbol.Symbol]Value{}}

func (f *ScriptFunction) Type() *TypeDescriptor { return scriptFuncType }
func (f *ScriptFunction) String() string        { return "fn " + f.Name }
func (f *ScriptFunction) Truth() bool           { return true }

// Call exists so ScriptFunction satisfies Callable; invoking a script
// function requires a VM frame, so the real dispatch lives in
// lang/machine, which recognizes *ScriptFunction (and *Closure) specially
// before ever reaching this fallback.
func (f *ScriptFunction) Call(args []Value) (Value, error) {
	return nil, errNeedsFrame
}

// Closure pairs a ScriptFunction with its captured upvalue cells. The cell
// type itself (Open/Closed) is defined in lang/machine, since it needs to
// point into a live frame's locals; Closure stores them as opaque `any` for the
// same import-direction reason as ScriptFunction.Proto.
type Closure struct {
	Fn       *ScriptFunction
	Upvalues []any
}

var closureType = &TypeDescriptor{Name: "closure", Methods: map[symbol.Symbol]Value{}}

func (c *Closure) Type() *TypeDescriptor { return closureType }
func (c *Closure) String() string        { return "fn " + c.Fn.Name + "(closure)" }
func (c *Closure) Truth() bool           { return true }
func (c *Closure) Call(args []Value) (Value, error) {
	return nil, errNeedsFrame
}

var errNeedsFrame = callErr("call requires a VM frame; dispatched by lang/machine")

type callErr string

func (e callErr) Error() string { return string(e) }
