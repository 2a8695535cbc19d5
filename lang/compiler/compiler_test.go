package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/dicelang/lang/bytecode"
	"github.com/mna/dicelang/lang/compiler"
	"github.com/mna/dicelang/lang/diag"
	"github.com/mna/dicelang/lang/parser"
)

func compile(t *testing.T, src string) *bytecode.Chunk {
	t.Helper()
	tree, err := parser.Parse(src)
	require.NoError(t, err)
	chunk, err := compiler.Compile(tree, "<test>", compiler.KindScript)
	require.NoError(t, err)
	return chunk
}

func TestCompileEmitsReturn(t *testing.T) {
	chunk := compile(t, `1 + 2`)
	out := bytecode.Disassemble(chunk)
	require.Contains(t, out, "ADD")
	require.Contains(t, out, "RETURN")
}

func TestCompileWhileLoopJumpsBack(t *testing.T) {
	chunk := compile(t, `let mut x = 0; while x < 10 { x += 1; } x`)
	out := bytecode.Disassemble(chunk)
	require.Contains(t, out, "JUMP_IF_FALSE")
	require.Contains(t, out, "JUMP ")
}

func TestCompileForLoopUsesIteratorOpcodes(t *testing.T) {
	chunk := compile(t, `for x in [1,2,3] { x }`)
	out := bytecode.Disassemble(chunk)
	require.Contains(t, out, "ITER_START")
	require.Contains(t, out, "ITER_NEXT")
	require.Contains(t, out, "ITER_STOP")
}

func TestCompileClosureCapturesParentLocal(t *testing.T) {
	chunk := compile(t, `let x = 1; fn() { x }`)
	out := bytecode.Disassemble(chunk)
	require.Contains(t, out, "CLOSURE")
	require.Contains(t, out, "(true,0)")
}

func TestImmutableAssignmentRejected(t *testing.T) {
	tree, err := parser.Parse(`let x = 1; x = 2`)
	require.NoError(t, err)
	_, err = compiler.Compile(tree, "<test>", compiler.KindScript)
	require.Error(t, err)
	de, ok := err.(*diag.Error)
	require.True(t, ok)
	require.Equal(t, diag.ImmutableVariable, de.Kind)
}

func TestAssignToUndeclaredVariableRejected(t *testing.T) {
	tree, err := parser.Parse(`y = 1`)
	require.NoError(t, err)
	_, err = compiler.Compile(tree, "<test>", compiler.KindScript)
	require.Error(t, err)
	de, ok := err.(*diag.Error)
	require.True(t, ok)
	require.Equal(t, diag.UndeclaredVariable, de.Kind)
}

func TestReadOfUndeclaredVariableCompilesToLoadGlobal(t *testing.T) {
	// Per spec.md's design notes, an unresolved read is not a compile-time
	// error: it compiles to a LoadGlobal lookup resolved at runtime, since
	// globals are host-injected and compilation has no host symbol table.
	chunk := compile(t, `y`)
	out := bytecode.Disassemble(chunk)
	require.Contains(t, out, "LOAD_GLOBAL")
}

func TestBreakOutsideLoopRejected(t *testing.T) {
	tree, err := parser.Parse(`break`)
	require.NoError(t, err)
	_, err = compiler.Compile(tree, "<test>", compiler.KindScript)
	require.Error(t, err)
	de, ok := err.(*diag.Error)
	require.True(t, ok)
	require.Equal(t, diag.InvalidBreak, de.Kind)
}

func TestContinueOutsideLoopRejected(t *testing.T) {
	tree, err := parser.Parse(`continue`)
	require.NoError(t, err)
	_, err = compiler.Compile(tree, "<test>", compiler.KindScript)
	require.Error(t, err)
	de, ok := err.(*diag.Error)
	require.True(t, ok)
	require.Equal(t, diag.InvalidContinue, de.Kind)
}

func TestReturnOutsideFunctionRejected(t *testing.T) {
	tree, err := parser.Parse(`return 1`)
	require.NoError(t, err)
	_, err = compiler.Compile(tree, "<test>", compiler.KindScript)
	require.Error(t, err)
	de, ok := err.(*diag.Error)
	require.True(t, ok)
	require.Equal(t, diag.InvalidReturn, de.Kind)
}

func TestEmptySourceCompilesToUnit(t *testing.T) {
	chunk := compile(t, ``)
	out := bytecode.Disassemble(chunk)
	require.Contains(t, out, "PUSH_UNIT")
	require.Contains(t, out, "RETURN")
}
