package machine

import (
	"github.com/mna/dicelang/lang/bytecode"
	"github.com/mna/dicelang/lang/diag"
	"github.com/mna/dicelang/lang/span"
	"github.com/mna/dicelang/lang/value"
)

// call implements the Call opcode: pop n arguments (left-to-right order
// restored, since they were pushed in that order) and the callee beneath
// them, then dispatch to one of the three callable shapes spec.md §4.4
// names: native, script, or closure.
func (t *Thread) call(n int, sp span.Span) (value.Value, error) {
	args := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := t.pop()
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	callee, err := t.pop()
	if err != nil {
		return nil, err
	}

	switch c := callee.(type) {
	case *value.NativeFunction:
		return c.Fn(args)

	case *value.ScriptFunction:
		return t.callScript(c, nil, args, sp)

	case *value.Closure:
		ups := make([]*Upvalue, len(c.Upvalues))
		for i, u := range c.Upvalues {
			ups[i] = u.(*Upvalue)
		}
		return t.callScript(c.Fn, ups, args, sp)

	default:
		return nil, diag.Atf(diag.NotAFunction, sp, "%s is not callable", callee.Type().Name)
	}
}

func (t *Thread) callScript(fn *value.ScriptFunction, upvalues []*Upvalue, args []value.Value, sp span.Span) (value.Value, error) {
	if len(args) != fn.NumParams {
		return nil, diag.Atf(diag.InvalidFunctionArgs, sp, "%s expects %d arguments, got %d", fn.Name, fn.NumParams, len(args))
	}
	chunk, ok := fn.Proto.(*bytecode.Chunk)
	if !ok {
		return nil, diag.Atf(diag.InternalCompilerError, sp, "%s has no compiled body", fn.Name)
	}
	frame := newFrame(chunk, upvalues)
	copy(frame.Locals, args)
	return t.runFrame(frame)
}

// execClosure implements the Closure opcode: build a Closure value from the
// function constant at the instruction's const index and the upvalue
// descriptors encoded immediately after it, each resolved against f (the
// frame currently executing — the new closure's immediately enclosing
// function).
func (t *Thread) execClosure(f *Frame, sp span.Span) error {
	code := f.Chunk.Code
	constIdx := code[f.IP]
	f.IP++

	fn, ok := f.Chunk.Constants[constIdx].(*value.ScriptFunction)
	if !ok {
		return diag.At(diag.InternalCompilerError, sp, "closure constant is not a function")
	}
	chunk, ok := fn.Proto.(*bytecode.Chunk)
	if !ok {
		return diag.At(diag.InternalCompilerError, sp, "closure function has no compiled body")
	}

	ups := make([]any, chunk.UpvalueCount)
	for i := 0; i < chunk.UpvalueCount; i++ {
		isParentLocal := code[f.IP] == 1
		idx := code[f.IP+1]
		f.IP += 2
		if isParentLocal {
			ups[i] = f.openUpvalue(int(idx))
		} else {
			ups[i] = f.Upvalues[idx]
		}
	}

	return t.push(&value.Closure{Fn: fn, Upvalues: ups})
}
