// Package value implements the Dice runtime's tagged value model: a closed
// set of concrete Value variants plus a process-singleton TypeDescriptor per
// variant carrying a method table keyed by well-known operator symbols
// (lang/symbol), mirroring the way the teacher's lang/types package attaches
// per-type behavior through small focused interfaces, but replacing Go-level
// interface dispatch (HasBinary.Binary, HasUnary.Unary, HasAttrs.Attr) with
// an explicit, data-driven table so operator dispatch, user-visible method
// calls, and native builtins all go through one mechanism.
package value

import (
	"fmt"

	"github.com/mna/dicelang/lang/symbol"
)

// Value is implemented by every runtime value variant.
type Value interface {
	// Type returns the value's type descriptor.
	Type() *TypeDescriptor
	// String returns a human-readable rendering, used by the CLI to print a
	// script's result and by test failure messages; it is not parseable back.
	String() string
	// Truth reports the value's boolean coercion, used by `!` and by list
	// equality. JumpIfFalse and JumpIfTrue (and so conditions, `&&` and
	// `||`) accept only Bool and do not consult it.
	Truth() bool
}

// TypeDescriptor is a process-wide singleton describing one Value variant:
// its name, the operator/attribute method table keyed by symbol, and the
// set of trait names it declares conformance to. Every core variant's
// descriptor is a package-level var; user-registered native types (should a
// host ever add one) would follow the same shape.
type TypeDescriptor struct {
	Name    string
	Methods map[symbol.Symbol]Value
	Traits  map[string]bool
}

// Method looks up op on t's method table.
func (t *TypeDescriptor) Method(op symbol.Symbol) (Value, bool) {
	v, ok := t.Methods[op]
	return v, ok
}

// HasTrait reports whether t declares conformance to the named trait.
func (t *TypeDescriptor) HasTrait(name string) bool { return t.Traits[name] }

// Key is the union type used for field and index access: either a Symbol
// (field name) or a signed Int (list/range index).
type Key struct {
	Sym   symbol.Symbol
	Int   int64
	IsInt bool
}

// SymKey builds a field-name Key.
func SymKey(s symbol.Symbol) Key { return Key{Sym: s} }

// IntKey builds an index Key.
func IntKey(i int64) Key { return Key{Int: i, IsInt: true} }

func (k Key) String() string {
	if k.IsInt {
		return fmt.Sprintf("%d", k.Int)
	}
	return k.Sym.String()
}
