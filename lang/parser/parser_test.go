package parser

import (
	"testing"

	"github.com/mna/dicelang/lang/ast"
	"github.com/mna/dicelang/lang/token"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Tree {
	t.Helper()
	tree, err := Parse(src)
	require.NoError(t, err)
	return tree
}

func TestParseLiterals(t *testing.T) {
	tree := mustParse(t, "42")
	root := tree.Get(tree.Root).(*ast.Block)
	require.True(t, root.Trailing.Valid())
	require.Empty(t, root.Stmts)
	lit := tree.Get(root.Trailing).(*ast.IntLit)
	require.EqualValues(t, 42, lit.Value)
}

func TestParseBinaryPrecedence(t *testing.T) {
	// `1 + 2 * 3` must group as `1 + (2 * 3)`.
	tree := mustParse(t, "1 + 2 * 3")
	root := tree.Get(tree.Root).(*ast.Block)
	add := tree.Get(root.Trailing).(*ast.Binary)
	require.Equal(t, token.PLUS, add.Op)
	mul := tree.Get(add.Right).(*ast.Binary)
	require.Equal(t, token.STAR, mul.Op)
}

func TestParseDiceInfixAndUnary(t *testing.T) {
	tree := mustParse(t, "3d6")
	root := tree.Get(tree.Root).(*ast.Block)
	b := tree.Get(root.Trailing).(*ast.Binary)
	require.Equal(t, token.D, b.Op)
	left := tree.Get(b.Left).(*ast.IntLit)
	require.EqualValues(t, 3, left.Value)

	tree = mustParse(t, "d20")
	root = tree.Get(tree.Root).(*ast.Block)
	u := tree.Get(root.Trailing).(*ast.Unary)
	require.Equal(t, token.D, u.Op)
}

func TestParseDiceInfixWithMultiplicative(t *testing.T) {
	// `2 * 3d6` groups as `2 * (3d6)`.
	tree := mustParse(t, "2 * 3d6")
	root := tree.Get(tree.Root).(*ast.Block)
	mul := tree.Get(root.Trailing).(*ast.Binary)
	require.Equal(t, token.STAR, mul.Op)
	_, ok := tree.Get(mul.Right).(*ast.Binary)
	require.True(t, ok)
}

func TestParseRange(t *testing.T) {
	tree := mustParse(t, "1..10")
	root := tree.Get(tree.Root).(*ast.Block)
	b := tree.Get(root.Trailing).(*ast.Binary)
	require.Equal(t, token.DOTDOT, b.Op)
}

func TestParseBlockVsObjectLit(t *testing.T) {
	tree := mustParse(t, "{ x: 1, y: 2 }")
	root := tree.Get(tree.Root).(*ast.Block)
	obj := tree.Get(root.Trailing).(*ast.ObjectLit)
	require.Len(t, obj.Fields, 2)
	require.Equal(t, "x", obj.Fields[0].Key.String())

	tree = mustParse(t, "{ let x = 1; x + 1 }")
	root = tree.Get(tree.Root).(*ast.Block)
	blk := tree.Get(root.Trailing).(*ast.Block)
	require.Len(t, blk.Stmts, 1)
	require.True(t, blk.Trailing.Valid())
}

func TestParseDiscardVsTrailing(t *testing.T) {
	tree := mustParse(t, "1; 2; 3")
	root := tree.Get(tree.Root).(*ast.Block)
	require.Len(t, root.Stmts, 2)
	for _, s := range root.Stmts {
		_, ok := tree.Get(s).(*ast.Discard)
		require.True(t, ok)
	}
	require.True(t, root.Trailing.Valid())
	lit := tree.Get(root.Trailing).(*ast.IntLit)
	require.EqualValues(t, 3, lit.Value)
}

func TestParseIfElse(t *testing.T) {
	tree := mustParse(t, "if x { 1 } else { 2 }")
	root := tree.Get(tree.Root).(*ast.Block)
	ifNode := tree.Get(root.Trailing).(*ast.If)
	require.True(t, ifNode.Else.Valid())
}

func TestParseWhileAndLoop(t *testing.T) {
	tree := mustParse(t, "while true { break }")
	root := tree.Get(tree.Root).(*ast.Block)
	_, ok := tree.Get(root.Trailing).(*ast.While)
	require.True(t, ok)

	tree = mustParse(t, "loop { break }")
	root = tree.Get(tree.Root).(*ast.Block)
	w, ok := tree.Get(root.Trailing).(*ast.While)
	require.True(t, ok)
	cond := tree.Get(w.Cond).(*ast.BoolLit)
	require.True(t, cond.Value)
}

func TestParseFor(t *testing.T) {
	tree := mustParse(t, "for x in 1..10 { x }")
	root := tree.Get(tree.Root).(*ast.Block)
	f := tree.Get(root.Trailing).(*ast.For)
	require.Equal(t, "x", f.Var.String())
}

func TestParseFuncDeclAndCall(t *testing.T) {
	tree := mustParse(t, "fn add(x, y) { x + y } add(1, 2)")
	root := tree.Get(tree.Root).(*ast.Block)
	require.Len(t, root.Stmts, 1)
	decl := tree.Get(root.Stmts[0]).(*ast.FuncDecl)
	require.Equal(t, "add", decl.Name.String())
	require.Len(t, decl.Sig.Params, 2)

	call := tree.Get(root.Trailing).(*ast.Call)
	require.Len(t, call.Args, 2)
}

func TestParseFuncLit(t *testing.T) {
	tree := mustParse(t, "let f = fn(x) { x }")
	root := tree.Get(tree.Root).(*ast.Block)
	decl := tree.Get(root.Stmts[0]).(*ast.VarDecl)
	_, ok := tree.Get(decl.Value).(*ast.FuncLit)
	require.True(t, ok)
}

func TestParsePostfixChain(t *testing.T) {
	tree := mustParse(t, "a.b[0]?.c(1)")
	root := tree.Get(tree.Root).(*ast.Block)
	call := tree.Get(root.Trailing).(*ast.Call)
	safe := tree.Get(call.Fn).(*ast.SafeAccess)
	require.Equal(t, "c", safe.Field.String())
	idx := tree.Get(safe.Left).(*ast.Index)
	field := tree.Get(idx.Left).(*ast.FieldAccess)
	require.Equal(t, "b", field.Field.String())
}

func TestParseAssignAndCompoundAssign(t *testing.T) {
	tree := mustParse(t, "x += 1")
	root := tree.Get(tree.Root).(*ast.Block)
	a := tree.Get(root.Trailing).(*ast.Assign)
	require.Equal(t, token.PLUS_EQ, a.Op)
}

func TestParseVarDeclMutability(t *testing.T) {
	tree := mustParse(t, "let mut x = 1")
	root := tree.Get(tree.Root).(*ast.Block)
	v := tree.Get(root.Stmts[0]).(*ast.VarDecl)
	require.True(t, v.Mutable)
	require.Equal(t, "x", v.Name.String())

	tree = mustParse(t, "let x = 1")
	root = tree.Get(tree.Root).(*ast.Block)
	v = tree.Get(root.Stmts[0]).(*ast.VarDecl)
	require.False(t, v.Mutable)

	tree = mustParse(t, "const y = 2")
	root = tree.Get(tree.Root).(*ast.Block)
	v = tree.Get(root.Stmts[0]).(*ast.VarDecl)
	require.False(t, v.Mutable)
}

func TestParseReturnNoValue(t *testing.T) {
	tree := mustParse(t, "fn f() { return }")
	root := tree.Get(tree.Root).(*ast.Block)
	decl := tree.Get(root.Stmts[0]).(*ast.FuncDecl)
	body := tree.Get(decl.Body).(*ast.Block)
	ret := tree.Get(body.Stmts[0]).(*ast.Return)
	require.False(t, ret.Value.Valid())
}

func TestParseErrorRecovery(t *testing.T) {
	_, err := Parse("let = 1")
	require.Error(t, err)
}

func TestParseLogicalPrecedence(t *testing.T) {
	// `||` binds tighter than `&&` in this grammar (unusual relative to most
	// C-family languages), so `a || b && c` groups as `(a || b) && c`.
	tree := mustParse(t, "a || b && c")
	root := tree.Get(tree.Root).(*ast.Block)
	and := tree.Get(root.Trailing).(*ast.Binary)
	require.Equal(t, token.AND, and.Op)
	or, ok := tree.Get(and.Left).(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, token.OR, or.Op)
}
