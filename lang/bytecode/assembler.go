package bytecode

import (
	"encoding/binary"

	"golang.org/x/exp/slices"

	"github.com/mna/dicelang/lang/diag"
	"github.com/mna/dicelang/lang/span"
	"github.com/mna/dicelang/lang/value"
)

const maxConstants = 256

// Assembler is the write-only emitter the compiler drives: one Assembler
// per CompilerContext, finalized into a Chunk when that context's function
// (or the top-level script) is done compiling.
type Assembler struct {
	name      string
	code      []byte
	constants []value.Value
	sourceMap map[int]span.Span
}

// NewAssembler creates an Assembler for a function or script named name
// (used only for diagnostics and disassembly headers).
func NewAssembler(name string) *Assembler {
	return &Assembler{name: name, sourceMap: map[int]span.Span{}}
}

// Pos returns the offset of the next byte to be written, used by the
// compiler to record loop entry points for `continue`/backward jumps.
func (a *Assembler) Pos() int { return len(a.code) }

func (a *Assembler) mark(sp span.Span, at int) { a.sourceMap[at] = sp }

// Emit writes a nullary opcode.
func (a *Assembler) Emit(op Opcode, sp span.Span) int {
	at := len(a.code)
	a.mark(sp, at)
	a.code = append(a.code, byte(op))
	return at
}

// EmitByte writes an opcode followed by a 1-byte operand (a slot index, a
// constant index, an arg/element count).
func (a *Assembler) EmitByte(op Opcode, operand byte, sp span.Span) int {
	at := len(a.code)
	a.mark(sp, at)
	a.code = append(a.code, byte(op), operand)
	return at
}

// EmitConst adds v to the constant pool (de-duplicating by value equality)
// and emits PushConst for it. Constant-pool overflow (more than 256
// distinct entries) surfaces as TooManyConstants.
func (a *Assembler) EmitConst(v value.Value, sp span.Span) (int, error) {
	idx, err := a.AddConstant(v)
	if err != nil {
		return 0, err
	}
	return a.EmitByte(PushConst, byte(idx), sp), nil
}

// AddConstant interns v into the pool, returning its index. Equal values
// (by the primitive-equality rule in valuesEqual) share one slot.
func (a *Assembler) AddConstant(v value.Value) (int, error) {
	if i := slices.IndexFunc(a.constants, func(c value.Value) bool { return valuesEqual(c, v) }); i >= 0 {
		return i, nil
	}
	if len(a.constants) >= maxConstants {
		return 0, diag.New(diag.TooManyConstants, "constant pool exceeds 256 entries")
	}
	a.constants = append(a.constants, v)
	return len(a.constants) - 1, nil
}

// Jump emits op (Jump, JumpIfFalse, or JumpIfTrue) with a placeholder
// 2-byte offset and returns the position of that offset for PatchJump.
func (a *Assembler) Jump(op Opcode, sp span.Span) int {
	at := len(a.code)
	a.mark(sp, at)
	a.code = append(a.code, byte(op), 0, 0)
	return at + 1
}

// PatchJump back-patches the 2-byte operand at pos (as returned by Jump) so
// that it holds the relative displacement from the instruction immediately
// following the operand to the assembler's current position: reading the
// operand yields current_position - pos - 2, matching spec.md §8's jump
// patching invariant.
func (a *Assembler) PatchJump(pos int) {
	offset := int16(len(a.code) - pos - 2)
	binary.BigEndian.PutUint16(a.code[pos:pos+2], uint16(offset))
}

// JumpBack emits an unconditional Jump whose displacement is already known
// (a backward jump to a loop's entry point, or `continue`), rather than a
// placeholder requiring a later patch.
func (a *Assembler) JumpBack(target int, sp span.Span) {
	at := len(a.code)
	a.mark(sp, at)
	a.code = append(a.code, byte(Jump))
	offset := int16(target - (at + 1) - 2)
	a.code = append(a.code, 0, 0)
	binary.BigEndian.PutUint16(a.code[at+1:at+3], uint16(offset))
}

// Closure emits the Closure opcode: a function constant index followed by
// one (isParentLocal, index) pair per upvalue.
func (a *Assembler) Closure(fnConstIdx byte, ups []UpvalueOperand, sp span.Span) {
	at := len(a.code)
	a.mark(sp, at)
	a.code = append(a.code, byte(Closure), fnConstIdx)
	for _, u := range ups {
		flag := byte(0)
		if u.IsParentLocal {
			flag = 1
		}
		a.code = append(a.code, flag, u.Index)
	}
}

// UpvalueOperand is one (is_parent_local, index) pair encoded after a
// Closure opcode's function constant index.
type UpvalueOperand struct {
	IsParentLocal bool
	Index         byte
}

// Finish finalizes the assembler into an immutable Chunk.
func (a *Assembler) Finish(slotCount, upvalueCount, numParams int) *Chunk {
	return &Chunk{
		Name:         a.name,
		Code:         a.code,
		Constants:    a.constants,
		SlotCount:    slotCount,
		UpvalueCount: upvalueCount,
		NumParams:    numParams,
		SourceMap:    a.sourceMap,
	}
}

// valuesEqual reports whether a and b are equal primitive values, the
// notion of equality the constant pool de-duplicates by. Composite values
// (lists, objects, functions) are never considered equal here: each
// occurrence gets its own slot, since de-duplicating them would require
// deep equality the pool has no business computing.
func valuesEqual(a, b value.Value) bool {
	switch x := a.(type) {
	case value.None:
		_, ok := b.(value.None)
		return ok
	case value.Unit:
		_, ok := b.(value.Unit)
		return ok
	case value.Bool:
		y, ok := b.(value.Bool)
		return ok && x == y
	case value.Int:
		y, ok := b.(value.Int)
		return ok && x == y
	case value.Float:
		y, ok := b.(value.Float)
		return ok && x == y
	case value.String:
		y, ok := b.(value.String)
		return ok && x == y
	}
	return false
}
