package dice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/dicelang/lang/diag"
	"github.com/mna/dicelang/lang/value"
)

func mustRun(t *testing.T, src string) value.Value {
	t.Helper()
	v, err := Run(src, 1)
	require.NoError(t, err)
	return v
}

func TestWhileLoopToOneMillion(t *testing.T) {
	v := mustRun(t, `let mut x = 0; while x < 1000000 { x += 1; } x`)
	require.Equal(t, value.Int(1000000), v)
}

func TestIfElseIfChain(t *testing.T) {
	v := mustRun(t, `if 5 == 6 { 10 } else if 5 == 5 { 42 } else { 12 }`)
	require.Equal(t, value.Int(42), v)
}

func TestNestedClosures(t *testing.T) {
	v := mustRun(t, `let adder = fn(x) { fn(y) { x + y } }; adder(10)(32)`)
	require.Equal(t, value.Int(42), v)
}

func TestUpvalueMutationAcrossCalls(t *testing.T) {
	v := mustRun(t, `let mut i = 0; let c = fn() { i += 1; i }; c(); c(); c()`)
	require.Equal(t, value.Int(3), v)
}

func TestListLengthMethodCall(t *testing.T) {
	v := mustRun(t, `[1,2,3].length()`)
	require.Equal(t, value.Int(3), v)
}

func TestImmutableAssignmentIsCompileError(t *testing.T) {
	_, err := CompileScript(`let x = 1; x = 2`, "<test>", Script)
	require.Error(t, err)
	var de *diag.Error
	require.True(t, errors.As(err, &de))
	require.Equal(t, diag.ImmutableVariable, de.Kind)
}

func TestBreakOutsideLoopIsCompileError(t *testing.T) {
	_, err := CompileScript(`break`, "<test>", Script)
	require.Error(t, err)
	var de *diag.Error
	require.True(t, errors.As(err, &de))
	require.Equal(t, diag.InvalidBreak, de.Kind)
}

func TestCoalesceOperator(t *testing.T) {
	require.Equal(t, value.Int(10), mustRun(t, `none ?? 10`))
	require.Equal(t, value.Int(5), mustRun(t, `5 ?? 10`))
}

func TestForLoopOverRange(t *testing.T) {
	v := mustRun(t, `let mut sum = 0; for x in 1..=3 { sum += x; } sum`)
	require.Equal(t, value.Int(6), v)
}

func TestForLoopOverList(t *testing.T) {
	v := mustRun(t, `let mut sum = 0; for x in [1,2,3] { sum += x; } sum`)
	require.Equal(t, value.Int(6), v)
}

func TestRegisterNativeFn(t *testing.T) {
	chunk, err := CompileScript(`double(21)`, "<test>", Script)
	require.NoError(t, err)

	th := NewThread(1)
	th.RegisterNativeFn("double", func(args []value.Value) (value.Value, error) {
		return value.Int(2 * int64(args[0].(value.Int))), nil
	})
	result, err := th.RunScript(chunk)
	require.NoError(t, err)
	require.Equal(t, value.Int(42), result)
}

func TestDiceRollWithinBounds(t *testing.T) {
	v := mustRun(t, `3d6`)
	n := int64(v.(value.Int))
	require.GreaterOrEqual(t, n, int64(3))
	require.LessOrEqual(t, n, int64(18))
}

func TestDisassembleContainsOpcodeNames(t *testing.T) {
	chunk, err := CompileScript(`1 + 2`, "<test>", Script)
	require.NoError(t, err)
	out := Disassemble(chunk)
	require.Contains(t, out, "ADD")
}
