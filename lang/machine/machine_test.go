package machine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/dicelang/lang/compiler"
	"github.com/mna/dicelang/lang/diag"
	"github.com/mna/dicelang/lang/machine"
	"github.com/mna/dicelang/lang/parser"
	"github.com/mna/dicelang/lang/symbol"
	"github.com/mna/dicelang/lang/value"
)

func run(t *testing.T, src string) value.Value {
	t.Helper()
	tree, err := parser.Parse(src)
	require.NoError(t, err)
	chunk, err := compiler.Compile(tree, "<test>", compiler.KindScript)
	require.NoError(t, err)
	v, err := machine.NewThread(1).Run(chunk)
	require.NoError(t, err)
	return v
}

func TestArithmeticAndComparison(t *testing.T) {
	require.Equal(t, value.Int(7), run(t, `1 + 2 * 3`))
	require.Equal(t, value.Bool(true), run(t, `3 > 2`))
	require.Equal(t, value.Bool(true), run(t, `2 >= 2`))
}

func TestWhileLoopAccumulates(t *testing.T) {
	require.Equal(t, value.Int(55), run(t, `let mut s = 0; let mut i = 1; while i <= 10 { s += i; i += 1; } s`))
}

func TestBreakAndContinue(t *testing.T) {
	require.Equal(t, value.Int(3), run(t, `let mut i = 0; let mut n = 0; while true { i += 1; if i > 5 { break; } if i % 2 == 0 { continue; } n += 1; } n`))
}

func TestForLoopOverStringIteratesRunes(t *testing.T) {
	require.Equal(t, value.Int(3), run(t, `let mut n = 0; for c in "abc" { n += 1; } n`))
}

func TestNestedClosureCapturesOuterParameter(t *testing.T) {
	require.Equal(t, value.Int(42), run(t, `let adder = fn(x) { fn(y) { x + y } }; adder(10)(32)`))
}

func TestClosureMutationObservedAcrossCalls(t *testing.T) {
	require.Equal(t, value.Int(3), run(t, `let mut i = 0; let c = fn() { i += 1; i }; c(); c(); c()`))
}

func TestClosureSurvivesEnclosingScopeExit(t *testing.T) {
	// The captured local's block exits (and its slot may be reused by a
	// sibling) before the closure is ever called: CloseUpvalue must have
	// snapshotted it.
	src := `
		let mk = fn() {
			let mut n = 0;
			let bump = fn() { n += 1; n };
			bump
		};
		let f = mk();
		f(); f(); f()
	`
	require.Equal(t, value.Int(3), run(t, src))
}

func TestListIndexAndLength(t *testing.T) {
	require.Equal(t, value.Int(2), run(t, `[1,2,3][1]`))
	require.Equal(t, value.Int(3), run(t, `[1,2,3].length()`))
}

func TestRangeIndexAndLength(t *testing.T) {
	require.Equal(t, value.Int(3), run(t, `(1..4)[2]`))
	require.Equal(t, value.Int(3), run(t, `(1..4).length()`))
	require.Equal(t, value.Int(4), run(t, `(1..=4).length()`))
}

func TestObjectFieldAccess(t *testing.T) {
	require.Equal(t, value.Int(5), run(t, `{ x: 5 }.x`))
}

func TestSafeAccessShortCircuitsOnNone(t *testing.T) {
	require.Equal(t, value.NoneValue, run(t, `none?.x`))
}

func TestNoneEqualityShortCircuitsAgainstObject(t *testing.T) {
	require.Equal(t, value.Bool(false), run(t, `none == { x: 1 }`))
	require.Equal(t, value.Bool(true), run(t, `none != { x: 1 }`))
	require.Equal(t, value.Bool(false), run(t, `{ x: 1 } == none`))
}

func TestUnitEqualityShortCircuitsAgainstObject(t *testing.T) {
	require.Equal(t, value.Bool(false), run(t, `{} == { x: 1 }`))
}

func TestCoalesceOperator(t *testing.T) {
	require.Equal(t, value.Int(10), run(t, `none ?? 10`))
	require.Equal(t, value.Int(5), run(t, `5 ?? 10`))
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	tree, err := parser.Parse(`let x = 1; x()`)
	require.NoError(t, err)
	chunk, err := compiler.Compile(tree, "<test>", compiler.KindScript)
	require.NoError(t, err)
	_, err = machine.NewThread(1).Run(chunk)
	require.Error(t, err)
	de, ok := err.(*diag.Error)
	require.True(t, ok)
	require.Equal(t, diag.NotAFunction, de.Kind)
}

func TestIndexOutOfBoundsIsRuntimeError(t *testing.T) {
	tree, err := parser.Parse(`[1,2,3][10]`)
	require.NoError(t, err)
	chunk, err := compiler.Compile(tree, "<test>", compiler.KindScript)
	require.NoError(t, err)
	_, err = machine.NewThread(1).Run(chunk)
	require.Error(t, err)
	de, ok := err.(*diag.Error)
	require.True(t, ok)
	require.Equal(t, diag.IndexOutOfBounds, de.Kind)
}

func TestUnboundGlobalIsRuntimeError(t *testing.T) {
	tree, err := parser.Parse(`undefined_global`)
	require.NoError(t, err)
	chunk, err := compiler.Compile(tree, "<test>", compiler.KindScript)
	require.NoError(t, err)
	_, err = machine.NewThread(1).Run(chunk)
	require.Error(t, err)
	de, ok := err.(*diag.Error)
	require.True(t, ok)
	require.Equal(t, diag.VariableNotFound, de.Kind)
}

func TestGlobalsInjectedByHost(t *testing.T) {
	tree, err := parser.Parse(`greeting`)
	require.NoError(t, err)
	chunk, err := compiler.Compile(tree, "<test>", compiler.KindScript)
	require.NoError(t, err)

	th := machine.NewThread(1)
	th.Globals.Put(symbol.New("greeting"), value.String("hi"))
	v, err := th.Run(chunk)
	require.NoError(t, err)
	require.Equal(t, value.String("hi"), v)
}

func TestDiceRollSumIsWithinBounds(t *testing.T) {
	v := run(t, `3d6`)
	n := int64(v.(value.Int))
	require.GreaterOrEqual(t, n, int64(3))
	require.LessOrEqual(t, n, int64(18))
}

func TestUnaryDiceRollDefaultsToOneDie(t *testing.T) {
	v := run(t, `d6`)
	n := int64(v.(value.Int))
	require.GreaterOrEqual(t, n, int64(1))
	require.LessOrEqual(t, n, int64(6))
}
