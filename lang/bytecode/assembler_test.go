package bytecode

import (
	"testing"

	"github.com/kylelemons/godebug/diff"
	"github.com/stretchr/testify/require"

	"github.com/mna/dicelang/lang/span"
	"github.com/mna/dicelang/lang/value"
)

func TestConstantPoolDedup(t *testing.T) {
	a := NewAssembler("test")
	i1, err := a.AddConstant(value.Int(42))
	require.NoError(t, err)
	i2, err := a.AddConstant(value.String("x"))
	require.NoError(t, err)
	i3, err := a.AddConstant(value.Int(42))
	require.NoError(t, err)
	require.Equal(t, i1, i3)
	require.NotEqual(t, i1, i2)
}

func TestConstantPoolOverflow(t *testing.T) {
	a := NewAssembler("test")
	for i := 0; i < maxConstants; i++ {
		_, err := a.AddConstant(value.Int(int64(i)))
		require.NoError(t, err)
	}
	_, err := a.AddConstant(value.Int(int64(maxConstants)))
	require.Error(t, err)
}

func TestJumpPatchingInvariant(t *testing.T) {
	a := NewAssembler("test")
	a.Emit(PushTrue, span.Span{})     // offset 0, 1 byte
	p := a.Jump(JumpIfFalse, span.Span{}) // opcode at 1, operand at p=2
	a.Emit(PushI1, span.Span{})       // offset 4, 1 byte; len(code) becomes 5
	a.PatchJump(p)

	// Per spec.md §8: reading the 16-bit operand at p after PatchJump yields
	// current_position - p - 2, i.e. 5 - 2 - 2 = 1.
	got := int(int16(uint16(a.code[p])<<8 | uint16(a.code[p+1])))
	require.Equal(t, 1, got)
}

func TestJumpBack(t *testing.T) {
	a := NewAssembler("test")
	entry := a.Pos()
	a.Emit(PushTrue, span.Span{})
	a.JumpBack(entry, span.Span{})
	// PushTrue (1 byte) precedes the Jump opcode byte and its 2-byte operand.
	require.Equal(t, byte(Jump), a.code[1])
}

func TestDisassembleSimpleChunk(t *testing.T) {
	a := NewAssembler("main")
	a.Emit(PushI1, span.Span{})
	a.EmitByte(StoreLocal, 0, span.Span{})
	a.Emit(Pop, span.Span{})
	a.Emit(Return, span.Span{})
	c := a.Finish(1, 0, 0)

	want := "0000 | PUSH_I1\n" +
		"0001 | STORE_LOCAL | 0\n" +
		"0003 | POP\n" +
		"0004 | RETURN\n"
	got := Disassemble(c)
	if patch := diff.Diff(want, got); patch != "" {
		t.Errorf("disassembly diff:\n%s", patch)
	}
}

func TestDisassembleJump(t *testing.T) {
	a := NewAssembler("main")
	p := a.Jump(Jump, span.Span{})
	a.Emit(PushNone, span.Span{})
	a.PatchJump(p)
	c := a.Finish(0, 0, 0)

	got := Disassemble(c)
	want := "0000 | JUMP | 1\n0003 | PUSH_NONE\n"
	if patch := diff.Diff(want, got); patch != "" {
		t.Errorf("disassembly diff:\n%s", patch)
	}
}
