package value

import (
	"github.com/mna/dicelang/lang/diag"
	"github.com/mna/dicelang/lang/symbol"
)

// typeErr builds an InvalidType diagnostic for an operator dispatch failure.
func typeErr(op string, x, y Value) error {
	return diag.Newf(diag.InvalidType, "%s: invalid operand types %s, %s", op, x.Type().Name, y.Type().Name)
}

func typeErr1(op string, x Value) error {
	return diag.Newf(diag.InvalidType, "%s: invalid operand type %s", op, x.Type().Name)
}

// Add implements `+`. Int/Int and Float/Float use the obvious arithmetic;
// Float/Int and Int/Float are not implicitly coerced (per the core's
// no-coercion rule) and return an InvalidType error, as does any other
// unsupported pair. String/String concatenates.
func Add(x, y Value) (Value, error) {
	switch a := x.(type) {
	case Int:
		if b, ok := y.(Int); ok {
			return a + b, nil
		}
	case Float:
		if b, ok := y.(Float); ok {
			return a + b, nil
		}
	case String:
		if b, ok := y.(String); ok {
			return a + b, nil
		}
	}
	return nil, typeErr("+", x, y)
}

func Sub(x, y Value) (Value, error) {
	switch a := x.(type) {
	case Int:
		if b, ok := y.(Int); ok {
			return a - b, nil
		}
	case Float:
		if b, ok := y.(Float); ok {
			return a - b, nil
		}
	}
	return nil, typeErr("-", x, y)
}

func Mul(x, y Value) (Value, error) {
	switch a := x.(type) {
	case Int:
		if b, ok := y.(Int); ok {
			return a * b, nil
		}
	case Float:
		if b, ok := y.(Float); ok {
			return a * b, nil
		}
	}
	return nil, typeErr("*", x, y)
}

func Div(x, y Value) (Value, error) {
	switch a := x.(type) {
	case Int:
		if b, ok := y.(Int); ok {
			if b == 0 {
				return nil, diag.New(diag.Aborted, "division by zero")
			}
			return a / b, nil
		}
	case Float:
		if b, ok := y.(Float); ok {
			return a / b, nil
		}
	}
	return nil, typeErr("/", x, y)
}

func Mod(x, y Value) (Value, error) {
	a, ok := x.(Int)
	if !ok {
		return nil, typeErr("%", x, y)
	}
	b, ok := y.(Int)
	if !ok {
		return nil, typeErr("%", x, y)
	}
	if b == 0 {
		return nil, diag.New(diag.Aborted, "division by zero")
	}
	return a % b, nil
}

func Neg(x Value) (Value, error) {
	switch a := x.(type) {
	case Int:
		return -a, nil
	case Float:
		return -a, nil
	}
	return nil, typeErr1("-", x)
}

func Not(x Value) (Value, error) { return Bool(!x.Truth()), nil }

// Eq implements `==`. None and Unit compare equal only to themselves,
// short-circuiting the method table per the core's semantics.
func Eq(x, y Value) (Value, error) {
	switch a := x.(type) {
	case None:
		_, ok := y.(None)
		return Bool(ok), nil
	case Unit:
		_, ok := y.(Unit)
		return Bool(ok), nil
	case Bool:
		b, ok := y.(Bool)
		return Bool(ok && a == b), nil
	case Int:
		b, ok := y.(Int)
		return Bool(ok && a == b), nil
	case Float:
		b, ok := y.(Float)
		return Bool(ok && a == b), nil
	case String:
		b, ok := y.(String)
		return Bool(ok && a == b), nil
	}
	return Bool(false), nil
}

func Lt(x, y Value) (Value, error) {
	switch a := x.(type) {
	case Int:
		if b, ok := y.(Int); ok {
			return Bool(a < b), nil
		}
	case Float:
		if b, ok := y.(Float); ok {
			return Bool(a < b), nil
		}
	case String:
		if b, ok := y.(String); ok {
			return Bool(a < b), nil
		}
	}
	return nil, typeErr("<", x, y)
}

func Le(x, y Value) (Value, error) {
	switch a := x.(type) {
	case Int:
		if b, ok := y.(Int); ok {
			return Bool(a <= b), nil
		}
	case Float:
		if b, ok := y.(Float); ok {
			return Bool(a <= b), nil
		}
	case String:
		if b, ok := y.(String); ok {
			return Bool(a <= b), nil
		}
	}
	return nil, typeErr("<=", x, y)
}

// Gt and Ge implement `>` and `>=` by swapping operands through Lt/Le rather
// than adding their own method-table entries: no type's Methods carries
// #op_gt/#op_ge, so Object/mixed operands dispatch the same way a
// fast-pathed primitive pair does.
func Gt(x, y Value) (Value, error) { return Lt(y, x) }
func Ge(x, y Value) (Value, error) { return Le(y, x) }

// Dispatch routes a binary operator through x's method table when x is not
// one of the primitive pairs the VM fast-paths inline (see lang/machine).
// It is the generic fallback used for Object operands and mixed types.
func Dispatch(op symbol.Symbol, x, y Value) (Value, error) {
	fn, ok := x.Type().Method(op)
	if !ok {
		return nil, diag.Newf(diag.InvalidType, "%s has no method %s", x.Type().Name, op)
	}
	c, ok := fn.(Callable)
	if !ok {
		return nil, diag.Newf(diag.NotAFunction, "%s.%s is not callable", x.Type().Name, op)
	}
	return c.Call([]Value{x, y})
}

// DispatchUnary is Dispatch's unary counterpart.
func DispatchUnary(op symbol.Symbol, x Value) (Value, error) {
	fn, ok := x.Type().Method(op)
	if !ok {
		return nil, diag.Newf(diag.InvalidType, "%s has no method %s", x.Type().Name, op)
	}
	c, ok := fn.(Callable)
	if !ok {
		return nil, diag.Newf(diag.NotAFunction, "%s.%s is not callable", x.Type().Name, op)
	}
	return c.Call([]Value{x})
}
