package machine

import (
	"encoding/binary"

	"github.com/mna/dicelang/lang/bytecode"
	"github.com/mna/dicelang/lang/diag"
	"github.com/mna/dicelang/lang/symbol"
	"github.com/mna/dicelang/lang/value"
)

// runFrame executes f's bytecode to completion (a Return instruction) and
// returns the value it leaves on top of the stack. Nested calls recurse
// into runFrame again, one Go stack frame per Dice call, which is what
// maxCallDepth actually bounds.
func (t *Thread) runFrame(f *Frame) (value.Value, error) {
	t.depth++
	defer func() { t.depth-- }()
	if t.depth > maxCallDepth {
		return nil, diag.New(diag.Aborted, "call stack depth exceeded")
	}

	code := f.Chunk.Code
	for f.IP < len(code) {
		ip := f.IP
		op := bytecode.Opcode(code[ip])
		sp := f.Chunk.SpanAt(ip)
		f.IP++

		switch op {
		case bytecode.PushNone:
			if err := t.push(value.NoneValue); err != nil {
				return nil, err
			}
		case bytecode.PushUnit:
			if err := t.push(value.UnitValue); err != nil {
				return nil, err
			}
		case bytecode.PushFalse:
			if err := t.push(value.Bool(false)); err != nil {
				return nil, err
			}
		case bytecode.PushTrue:
			if err := t.push(value.Bool(true)); err != nil {
				return nil, err
			}
		case bytecode.PushI0:
			if err := t.push(value.Int(0)); err != nil {
				return nil, err
			}
		case bytecode.PushI1:
			if err := t.push(value.Int(1)); err != nil {
				return nil, err
			}
		case bytecode.PushF0:
			if err := t.push(value.Float(0)); err != nil {
				return nil, err
			}
		case bytecode.PushF1:
			if err := t.push(value.Float(1)); err != nil {
				return nil, err
			}
		case bytecode.PushConst:
			idx := code[f.IP]
			f.IP++
			if err := t.push(f.Chunk.Constants[idx]); err != nil {
				return nil, err
			}

		case bytecode.Pop:
			if _, err := t.pop(); err != nil {
				return nil, err
			}
		case bytecode.Dup:
			v, err := t.peek()
			if err != nil {
				return nil, err
			}
			if err := t.push(v); err != nil {
				return nil, err
			}

		case bytecode.LoadLocal:
			slot := code[f.IP]
			f.IP++
			if err := t.push(f.Locals[slot]); err != nil {
				return nil, err
			}
		case bytecode.StoreLocal:
			slot := code[f.IP]
			f.IP++
			v, err := t.peek()
			if err != nil {
				return nil, err
			}
			f.Locals[slot] = v

		case bytecode.AddAssignLocal, bytecode.SubAssignLocal, bytecode.MulAssignLocal, bytecode.DivAssignLocal:
			slot := code[f.IP]
			f.IP++
			rhs, err := t.pop()
			if err != nil {
				return nil, err
			}
			result, err := compoundOp(op, f.Locals[slot], rhs)
			if err != nil {
				return nil, diag.At(diag.InvalidType, sp, err.Error())
			}
			f.Locals[slot] = result
			if err := t.push(result); err != nil {
				return nil, err
			}

		case bytecode.LoadGlobal:
			idx := code[f.IP]
			f.IP++
			name := f.Chunk.Constants[idx].(value.String)
			v, ok := t.Globals.Get(symbol.New(string(name)))
			if !ok {
				return nil, diag.Atf(diag.VariableNotFound, sp, "%s is not declared", name)
			}
			if err := t.push(v); err != nil {
				return nil, err
			}

		case bytecode.Add, bytecode.Sub, bytecode.Mul, bytecode.Div, bytecode.Mod,
			bytecode.Eq, bytecode.Neq, bytecode.Lt, bytecode.Le, bytecode.Gt, bytecode.Ge:
			left, right, err := t.pop2()
			if err != nil {
				return nil, err
			}
			result, err := binaryOp(op, left, right)
			if err != nil {
				return nil, diag.At(diag.InvalidType, sp, err.Error())
			}
			if err := t.push(result); err != nil {
				return nil, err
			}

		case bytecode.Neg:
			x, err := t.pop()
			if err != nil {
				return nil, err
			}
			result, err := value.Neg(x)
			if err != nil {
				return nil, diag.At(diag.InvalidType, sp, err.Error())
			}
			if err := t.push(result); err != nil {
				return nil, err
			}
		case bytecode.Not:
			x, err := t.pop()
			if err != nil {
				return nil, err
			}
			result, _ := value.Not(x)
			if err := t.push(result); err != nil {
				return nil, err
			}

		case bytecode.Roll:
			left, right, err := t.pop2()
			if err != nil {
				return nil, err
			}
			count, ok := left.(value.Int)
			if !ok {
				return nil, diag.Atf(diag.InvalidType, sp, "roll count must be an int, got %s", left.Type().Name)
			}
			sides, ok := right.(value.Int)
			if !ok {
				return nil, diag.Atf(diag.InvalidType, sp, "roll sides must be an int, got %s", right.Type().Name)
			}
			total := value.Roll(t.Roller, int64(count), int64(sides))
			if err := t.push(value.Int(total)); err != nil {
				return nil, err
			}

		case bytecode.MakeRange, bytecode.MakeRangeIncl:
			from, to, err := t.pop2()
			if err != nil {
				return nil, err
			}
			fi, ok := from.(value.Int)
			if !ok {
				return nil, diag.Atf(diag.InvalidType, sp, "range bound must be an int, got %s", from.Type().Name)
			}
			ti, ok := to.(value.Int)
			if !ok {
				return nil, diag.Atf(diag.InvalidType, sp, "range bound must be an int, got %s", to.Type().Name)
			}
			r := &value.Range{From: int64(fi), To: int64(ti), Inclusive: op == bytecode.MakeRangeIncl}
			if err := t.push(r); err != nil {
				return nil, err
			}

		case bytecode.BuildList:
			n := int(code[f.IP])
			f.IP++
			items := make([]value.Value, n)
			for i := n - 1; i >= 0; i-- {
				v, err := t.pop()
				if err != nil {
					return nil, err
				}
				items[i] = v
			}
			if err := t.push(&value.List{Items: items}); err != nil {
				return nil, err
			}

		case bytecode.BuildObject:
			n := int(code[f.IP])
			f.IP++
			obj := value.NewObject(n)
			// Each pair was pushed key then value, so popping in reverse
			// yields value then key for every pair, innermost pair first.
			pairs := make([][2]value.Value, n)
			for i := n - 1; i >= 0; i-- {
				v, err := t.pop()
				if err != nil {
					return nil, err
				}
				k, err := t.pop()
				if err != nil {
					return nil, err
				}
				pairs[i] = [2]value.Value{k, v}
			}
			for _, p := range pairs {
				key, ok := p[0].(value.String)
				if !ok {
					return nil, diag.Atf(diag.InvalidKeyType, sp, "object field key must be a string, got %s", p[0].Type().Name)
				}
				obj.Set(symbol.New(string(key)), p[1])
			}
			if err := t.push(obj); err != nil {
				return nil, err
			}

		case bytecode.Jump:
			f.IP = jumpTarget(code, ip)
		case bytecode.JumpIfFalse:
			cond, err := t.pop()
			if err != nil {
				return nil, err
			}
			b, ok := cond.(value.Bool)
			if !ok {
				return nil, diag.Atf(diag.InvalidType, sp, "condition must be a bool, got %s", cond.Type().Name)
			}
			if !bool(b) {
				f.IP = jumpTarget(code, ip)
			} else {
				f.IP = ip + 3
			}
		case bytecode.JumpIfTrue:
			cond, err := t.pop()
			if err != nil {
				return nil, err
			}
			b, ok := cond.(value.Bool)
			if !ok {
				return nil, diag.Atf(diag.InvalidType, sp, "condition must be a bool, got %s", cond.Type().Name)
			}
			if bool(b) {
				f.IP = jumpTarget(code, ip)
			} else {
				f.IP = ip + 3
			}

		case bytecode.Call:
			n := int(code[f.IP])
			f.IP++
			result, err := t.call(n, sp)
			if err != nil {
				return nil, err
			}
			if err := t.push(result); err != nil {
				return nil, err
			}

		case bytecode.GetField, bytecode.GetFieldSafe:
			idx := code[f.IP]
			f.IP++
			name := f.Chunk.Constants[idx].(value.String)
			recv, err := t.pop()
			if err != nil {
				return nil, err
			}
			if op == bytecode.GetFieldSafe {
				if _, isNone := recv.(value.None); isNone {
					if err := t.push(value.NoneValue); err != nil {
						return nil, err
					}
					continue
				}
			}
			obj, ok := recv.(*value.Object)
			if !ok {
				bound, ok := value.BindMethod(recv, string(name))
				if !ok {
					return nil, diag.Atf(diag.NotAnObject, sp, "%s has no field %s", recv.Type().Name, name)
				}
				if err := t.push(bound); err != nil {
					return nil, err
				}
				continue
			}
			v, ok := obj.Field(symbol.New(string(name)))
			if !ok {
				return nil, diag.Atf(diag.MissingField, sp, "object has no field %s", name)
			}
			if err := t.push(v); err != nil {
				return nil, err
			}

		case bytecode.GetIndex:
			recv, err := t.pop()
			if err != nil {
				return nil, err
			}
			idx, err := t.pop()
			if err != nil {
				return nil, err
			}
			v, err := indexInto(recv, idx)
			if err != nil {
				return nil, diag.At(diag.IndexOutOfBounds, sp, err.Error())
			}
			if err := t.push(v); err != nil {
				return nil, err
			}

		case bytecode.Closure:
			if err := t.execClosure(f, sp); err != nil {
				return nil, err
			}

		case bytecode.LoadUpvalue:
			idx := code[f.IP]
			f.IP++
			if err := t.push(f.Upvalues[idx].Get()); err != nil {
				return nil, err
			}
		case bytecode.StoreUpvalue:
			idx := code[f.IP]
			f.IP++
			v, err := t.peek()
			if err != nil {
				return nil, err
			}
			f.Upvalues[idx].Set(v)
		case bytecode.CloseUpvalue:
			slot := code[f.IP]
			f.IP++
			f.closeUpvalue(int(slot))

		case bytecode.IterStart:
			iterable, err := t.pop()
			if err != nil {
				return nil, err
			}
			it, err := value.DispatchUnary(symbol.OpIter, iterable)
			if err != nil {
				return nil, diag.At(diag.InvalidType, sp, err.Error())
			}
			if err := t.push(it); err != nil {
				return nil, err
			}
		case bytecode.IterNext:
			top, err := t.peek()
			if err != nil {
				return nil, err
			}
			it, ok := top.(*value.Iterator)
			if !ok {
				return nil, diag.Atf(diag.InvalidType, sp, "%s is not an iterator", top.Type().Name)
			}
			v, ok := it.Next()
			if !ok {
				f.IP = jumpTarget(code, ip)
			} else {
				if err := t.push(v); err != nil {
					return nil, err
				}
				f.IP = ip + 3
			}
		case bytecode.IterStop:
			if _, err := t.pop(); err != nil {
				return nil, err
			}

		case bytecode.Return:
			return t.pop()

		default:
			return nil, diag.Atf(diag.UnknownInstruction, sp, "unknown opcode %d", op)
		}
	}
	return value.UnitValue, nil
}

// jumpTarget decodes the 2-byte signed relative offset following the
// opcode byte at ip and returns the absolute target, per the encoding
// bytecode.Assembler.PatchJump/JumpBack produce: target = (ip+3) + offset.
func jumpTarget(code []byte, ip int) int {
	offset := int16(binary.BigEndian.Uint16(code[ip+1 : ip+3]))
	return ip + 3 + int(offset)
}

// pop2 pops the left operand then the right: the compiler emits the right
// operand's bytecode first (so it ends up deeper on the stack) and the
// left operand's second (so it ends up on top), letting this always pop
// left before right.
func (t *Thread) pop2() (left, right value.Value, err error) {
	left, err = t.pop()
	if err != nil {
		return nil, nil, err
	}
	right, err = t.pop()
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}
