package value

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"

	"github.com/mna/dicelang/lang/symbol"
)

// Object is a shared handle to a polymorphic instance: a bag of named
// fields backed by a swiss.Map, exactly as the teacher's lang/machine.Map
// wraps the same structure for its own mapping value. Dice's BuildObject
// opcode is the only constructor; there are no core mutating builtins, so
// fields are set once at construction.
type Object struct {
	fields *swiss.Map[symbol.Symbol, Value]
}

// NewObject returns an Object with initial capacity for at least size
// fields.
func NewObject(size int) *Object {
	return &Object{fields: swiss.NewMap[symbol.Symbol, Value](uint32(size))}
}

// Set stores v under name, overwriting any existing field.
func (o *Object) Set(name symbol.Symbol, v Value) { o.fields.Put(name, v) }

// Field returns the value stored under name, if any.
func (o *Object) Field(name symbol.Symbol) (Value, bool) { return o.fields.Get(name) }

// Len reports the number of fields.
func (o *Object) Len() int { return o.fields.Count() }

var objectType = &TypeDescriptor{Name: "object", Methods: map[symbol.Symbol]Value{}}

func init() {
	objectType.Methods[symbol.OpEq] = NativeFunc(symbol.OpEq.String(), func(args []Value) (Value, error) {
		a, b := args[0].(*Object), args[1].(*Object)
		return Bool(a == b), nil
	})
}

func (o *Object) Type() *TypeDescriptor { return objectType }
func (o *Object) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	o.fields.Iter(func(k symbol.Symbol, v Value) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%s: %s", k, v)
		return false
	})
	sb.WriteByte('}')
	return sb.String()
}
func (o *Object) Truth() bool { return true }
