package machine

import (
	"fmt"

	"github.com/mna/dicelang/lang/bytecode"
	"github.com/mna/dicelang/lang/symbol"
	"github.com/mna/dicelang/lang/value"
)

// isPrimitive reports whether v is one of the types (None, Unit, Bool, Int,
// Float, String) whose arithmetic/comparison binaryOp hands to the direct
// lang/value helpers instead of a method table. A pair of such values takes
// that path even when the two types differ.
func isPrimitive(v value.Value) bool {
	switch v.(type) {
	case value.None, value.Unit, value.Bool, value.Int, value.Float, value.String:
		return true
	}
	return false
}

// binaryOp implements one arithmetic/comparison opcode. Primitive pairs go
// through the direct lang/value helpers; anything else is routed through
// the left operand's method table, except `>` and `>=`, which call the
// right operand's `#op_lt`/`#op_le` with the operands swapped.
func binaryOp(op bytecode.Opcode, left, right value.Value) (value.Value, error) {
	if (op == bytecode.Eq || op == bytecode.Neq) && isNoneOrUnit(left, right) {
		eq, err := value.Eq(left, right)
		if err != nil {
			return nil, err
		}
		if op == bytecode.Neq {
			return value.Not(eq)
		}
		return eq, nil
	}
	if isPrimitive(left) && isPrimitive(right) {
		return primitiveBinaryOp(op, left, right)
	}
	return dispatchBinaryOp(op, left, right)
}

// isNoneOrUnit reports whether either operand is None or Unit: == and !=
// against either short-circuit to an identity comparison without ever
// consulting a method table, regardless of what the other operand is.
func isNoneOrUnit(left, right value.Value) bool {
	isIt := func(v value.Value) bool {
		switch v.(type) {
		case value.None, value.Unit:
			return true
		}
		return false
	}
	return isIt(left) || isIt(right)
}

func primitiveBinaryOp(op bytecode.Opcode, left, right value.Value) (value.Value, error) {
	switch op {
	case bytecode.Add:
		return value.Add(left, right)
	case bytecode.Sub:
		return value.Sub(left, right)
	case bytecode.Mul:
		return value.Mul(left, right)
	case bytecode.Div:
		return value.Div(left, right)
	case bytecode.Mod:
		return value.Mod(left, right)
	case bytecode.Eq:
		return value.Eq(left, right)
	case bytecode.Neq:
		eq, err := value.Eq(left, right)
		if err != nil {
			return nil, err
		}
		return value.Not(eq)
	case bytecode.Lt:
		return value.Lt(left, right)
	case bytecode.Le:
		return value.Le(left, right)
	case bytecode.Gt:
		return value.Gt(left, right)
	case bytecode.Ge:
		return value.Ge(left, right)
	}
	return nil, fmt.Errorf("unsupported binary opcode %s", op)
}

func dispatchBinaryOp(op bytecode.Opcode, left, right value.Value) (value.Value, error) {
	switch op {
	case bytecode.Add:
		return value.Dispatch(symbol.OpAdd, left, right)
	case bytecode.Sub:
		return value.Dispatch(symbol.OpSub, left, right)
	case bytecode.Mul:
		return value.Dispatch(symbol.OpMul, left, right)
	case bytecode.Div:
		return value.Dispatch(symbol.OpDiv, left, right)
	case bytecode.Mod:
		return value.Dispatch(symbol.OpMod, left, right)
	case bytecode.Eq:
		return value.Dispatch(symbol.OpEq, left, right)
	case bytecode.Neq:
		eq, err := value.Dispatch(symbol.OpEq, left, right)
		if err != nil {
			return nil, err
		}
		return value.Not(eq)
	case bytecode.Lt:
		return value.Dispatch(symbol.OpLt, left, right)
	case bytecode.Le:
		return value.Dispatch(symbol.OpLe, left, right)
	case bytecode.Gt:
		return value.Dispatch(symbol.OpLt, right, left)
	case bytecode.Ge:
		return value.Dispatch(symbol.OpLe, right, left)
	}
	return nil, fmt.Errorf("unsupported binary opcode %s", op)
}

// compoundOp implements the four *AssignLocal opcodes: cur is the local's
// value before the assignment, rhs is the popped operand.
func compoundOp(op bytecode.Opcode, cur, rhs value.Value) (value.Value, error) {
	switch op {
	case bytecode.AddAssignLocal:
		return binaryOp(bytecode.Add, cur, rhs)
	case bytecode.SubAssignLocal:
		return binaryOp(bytecode.Sub, cur, rhs)
	case bytecode.MulAssignLocal:
		return binaryOp(bytecode.Mul, cur, rhs)
	case bytecode.DivAssignLocal:
		return binaryOp(bytecode.Div, cur, rhs)
	}
	return nil, fmt.Errorf("unsupported compound opcode %s", op)
}

// indexInto implements GetIndex: recv[idx]. Lists and Ranges index by Int;
// Strings index by Int into their rune sequence; anything else is a type
// error.
func indexInto(recv, idx value.Value) (value.Value, error) {
	i, ok := idx.(value.Int)
	if !ok {
		return nil, fmt.Errorf("index must be an int, got %s", idx.Type().Name)
	}
	switch r := recv.(type) {
	case *value.List:
		if int64(i) < 0 || int(i) >= r.Len() {
			return nil, fmt.Errorf("index %d out of bounds for list of length %d", i, r.Len())
		}
		return r.Index(int(i)), nil
	case value.String:
		runes := []rune(string(r))
		if int64(i) < 0 || int(i) >= len(runes) {
			return nil, fmt.Errorf("index %d out of bounds for string of length %d", i, len(runes))
		}
		return value.String(string(runes[i])), nil
	case *value.Range:
		if int64(i) < 0 || int(i) >= r.Len() {
			return nil, fmt.Errorf("index %d out of bounds for range of length %d", i, r.Len())
		}
		return value.Int(r.From + int64(i)), nil
	}
	return nil, fmt.Errorf("%s is not indexable", recv.Type().Name)
}
