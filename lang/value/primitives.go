package value

import (
	"fmt"
	"strconv"

	"github.com/mna/dicelang/lang/symbol"
)

// None is the singleton absence-of-value, distinct from Unit (the value of
// an expression that completes without producing anything meaningful).
type None struct{}

var NoneValue = None{}

func (None) Type() *TypeDescriptor { return noneType }
func (None) String() string        { return "none" }
func (None) Truth() bool           { return false }

// Unit is the value of a block with no trailing expression.
type Unit struct{}

var UnitValue = Unit{}

func (Unit) Type() *TypeDescriptor { return unitType }
func (Unit) String() string        { return "unit" }
func (Unit) Truth() bool           { return false }

// Bool wraps a boolean.
type Bool bool

func (b Bool) Type() *TypeDescriptor { return boolType }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b Bool) Truth() bool { return bool(b) }

// Int wraps a 64-bit signed integer.
type Int int64

func (i Int) Type() *TypeDescriptor { return intType }
func (i Int) String() string        { return strconv.FormatInt(int64(i), 10) }
func (i Int) Truth() bool           { return i != 0 }

// Float wraps a 64-bit IEEE float.
type Float float64

func (f Float) Type() *TypeDescriptor { return floatType }
func (f Float) String() string        { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (f Float) Truth() bool           { return f != 0 }

// String wraps an immutable Go string.
type String string

func (s String) Type() *TypeDescriptor { return stringType }
func (s String) String() string        { return string(s) }
func (s String) Truth() bool           { return s != "" }

var (
	noneType   = &TypeDescriptor{Name: "none", Methods: map[symbol.Symbol]Value{}}
	unitType   = &TypeDescriptor{Name: "unit", Methods: map[symbol.Symbol]Value{}}
	boolType   = &TypeDescriptor{Name: "bool", Methods: map[symbol.Symbol]Value{}}
	intType    = &TypeDescriptor{Name: "int", Methods: map[symbol.Symbol]Value{}}
	floatType  = &TypeDescriptor{Name: "float", Methods: map[symbol.Symbol]Value{}}
	stringType = &TypeDescriptor{Name: "string", Methods: map[symbol.Symbol]Value{}}
)

func init() {
	// Every arithmetic/comparison method table entry defers to the shared
	// dispatch helpers in ops.go, so a user looking up `x.#op_add` and the
	// VM's fast-pathed ADD opcode observe identical results.
	intType.Methods[symbol.OpAdd] = opMethod(symbol.OpAdd, Add)
	intType.Methods[symbol.OpSub] = opMethod(symbol.OpSub, Sub)
	intType.Methods[symbol.OpMul] = opMethod(symbol.OpMul, Mul)
	intType.Methods[symbol.OpDiv] = opMethod(symbol.OpDiv, Div)
	intType.Methods[symbol.OpMod] = opMethod(symbol.OpMod, Mod)
	intType.Methods[symbol.OpNeg] = opUnaryMethod(symbol.OpNeg, Neg)
	intType.Methods[symbol.OpEq] = opMethod(symbol.OpEq, Eq)
	intType.Methods[symbol.OpLt] = opMethod(symbol.OpLt, Lt)
	intType.Methods[symbol.OpLe] = opMethod(symbol.OpLe, Le)

	floatType.Methods[symbol.OpAdd] = opMethod(symbol.OpAdd, Add)
	floatType.Methods[symbol.OpSub] = opMethod(symbol.OpSub, Sub)
	floatType.Methods[symbol.OpMul] = opMethod(symbol.OpMul, Mul)
	floatType.Methods[symbol.OpDiv] = opMethod(symbol.OpDiv, Div)
	floatType.Methods[symbol.OpNeg] = opUnaryMethod(symbol.OpNeg, Neg)
	floatType.Methods[symbol.OpEq] = opMethod(symbol.OpEq, Eq)
	floatType.Methods[symbol.OpLt] = opMethod(symbol.OpLt, Lt)
	floatType.Methods[symbol.OpLe] = opMethod(symbol.OpLe, Le)

	stringType.Methods[symbol.OpAdd] = opMethod(symbol.OpAdd, Add)
	stringType.Methods[symbol.OpEq] = opMethod(symbol.OpEq, Eq)
	stringType.Methods[symbol.OpLt] = opMethod(symbol.OpLt, Lt)
	stringType.Methods[symbol.OpLe] = opMethod(symbol.OpLe, Le)
	stringType.Methods[symbol.OpLength] = NativeFunc("length", func(args []Value) (Value, error) {
		return Int(len(args[0].(String))), nil
	})
	stringType.Methods[symbol.OpIter] = NativeFunc(symbol.OpIter.String(), func(args []Value) (Value, error) {
		runes := []rune(string(args[0].(String)))
		i := 0
		return &Iterator{Next: func() (Value, bool) {
			if i >= len(runes) {
				return nil, false
			}
			v := String(string(runes[i]))
			i++
			return v, true
		}}, nil
	})

	boolType.Methods[symbol.OpEq] = opMethod(symbol.OpEq, Eq)
	boolType.Methods[symbol.OpNot] = opUnaryMethod(symbol.OpNot, Not)
}

func opMethod(op symbol.Symbol, fn func(Value, Value) (Value, error)) Value {
	return NativeFunc(op.String(), func(args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: expected 2 arguments, got %d", op, len(args))
		}
		return fn(args[0], args[1])
	})
}

func opUnaryMethod(op symbol.Symbol, fn func(Value) (Value, error)) Value {
	return NativeFunc(op.String(), func(args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: expected 1 argument, got %d", op, len(args))
		}
		return fn(args[0])
	})
}
