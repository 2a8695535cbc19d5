package value

import (
	"strings"

	"github.com/mna/dicelang/lang/symbol"
)

// List is a shared, immutable sequence of values. Dice has no mutating list
// builtins in the core (spec.md §1 keeps the standard library to
// arithmetic/comparison primitives plus the few enumerated in §8); building
// a new List is always done via BuildList.
type List struct {
	Items []Value
}

var listType = &TypeDescriptor{Name: "list", Methods: map[symbol.Symbol]Value{}}

func init() {
	listType.Methods[symbol.OpLength] = NativeFunc("length", func(args []Value) (Value, error) {
		return Int(len(args[0].(*List).Items)), nil
	})
	listType.Methods[symbol.OpEq] = NativeFunc(symbol.OpEq.String(), func(args []Value) (Value, error) {
		a, b := args[0].(*List), args[1].(*List)
		if len(a.Items) != len(b.Items) {
			return Bool(false), nil
		}
		for i := range a.Items {
			eq, err := Eq(a.Items[i], b.Items[i])
			if err != nil {
				return nil, err
			}
			if !eq.Truth() {
				return Bool(false), nil
			}
		}
		return Bool(true), nil
	})
	listType.Methods[symbol.OpIter] = NativeFunc(symbol.OpIter.String(), func(args []Value) (Value, error) {
		return newSliceIterator(args[0].(*List).Items), nil
	})
}

func (l *List) Type() *TypeDescriptor { return listType }
func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range l.Items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
func (l *List) Truth() bool { return len(l.Items) > 0 }

// Len implements indexing support used by the GetIndex opcode.
func (l *List) Len() int { return len(l.Items) }

// Index returns the element at i, which must satisfy 0 <= i < Len().
func (l *List) Index(i int) Value { return l.Items[i] }

// Range is a cheap, immutable {from, to, inclusive} triple produced by the
// `..`/`..=` operators (see SPEC_FULL.md §C). It is Iterable and reports a
// length like a List, letting `for` loops and `.length()` treat it
// uniformly.
type Range struct {
	From, To  int64
	Inclusive bool
}

var rangeType = &TypeDescriptor{Name: "range", Methods: map[symbol.Symbol]Value{}}

func init() {
	rangeType.Methods[symbol.OpLength] = NativeFunc("length", func(args []Value) (Value, error) {
		return Int(args[0].(*Range).Len()), nil
	})
	rangeType.Methods[symbol.OpIter] = NativeFunc(symbol.OpIter.String(), func(args []Value) (Value, error) {
		return args[0].(*Range).iterator(), nil
	})
}

func (r *Range) Type() *TypeDescriptor { return rangeType }
func (r *Range) String() string {
	if r.Inclusive {
		return itoa(r.From) + "..=" + itoa(r.To)
	}
	return itoa(r.From) + ".." + itoa(r.To)
}
func (r *Range) Truth() bool { return r.Len() > 0 }

// Len reports the number of integers the range yields.
func (r *Range) Len() int {
	n := r.To - r.From
	if r.Inclusive {
		n++
	}
	if n < 0 {
		return 0
	}
	return int(n)
}

func (r *Range) iterator() Value {
	i := r.From
	end := r.To
	if r.Inclusive {
		end++
	}
	return &Iterator{Next: func() (Value, bool) {
		if i >= end {
			return nil, false
		}
		v := Int(i)
		i++
		return v, true
	}}
}

func itoa(i int64) string { return Int(i).String() }

// Iterator is the opaque runtime value produced by `#op_iterate`, consumed
// by the VM's IterNext opcode. It wraps a pull-based closure rather than a
// push-based callback, matching the IterStart/IterNext/IterStop opcode
// triple's single-step-at-a-time contract.
type Iterator struct {
	Next func() (Value, bool)
}

var iteratorType = &TypeDescriptor{Name: "iterator", Methods: map[symbol.Symbol]Value{}}

func (it *Iterator) Type() *TypeDescriptor { return iteratorType }
func (it *Iterator) String() string        { return "iterator" }
func (it *Iterator) Truth() bool           { return true }

func newSliceIterator(items []Value) *Iterator {
	i := 0
	return &Iterator{Next: func() (Value, bool) {
		if i >= len(items) {
			return nil, false
		}
		v := items[i]
		i++
		return v, true
	}}
}
