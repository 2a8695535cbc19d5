package parser

import (
	"github.com/mna/dicelang/lang/ast"
	"github.com/mna/dicelang/lang/token"
)

// statementShaped reports whether n is one of the node kinds that are
// always pushed directly onto a block's statement list rather than wrapped
// in Discard, because their value is never meaningful in statement
// position (a declaration, or a non-local exit).
func statementShaped(n ast.Node) bool {
	switch n.(type) {
	case *ast.VarDecl, *ast.FuncDecl, *ast.Break, *ast.Continue, *ast.Return:
		return true
	}
	return false
}

// parseBlockBody parses a sequence of statements up to (but not consuming)
// closing, which is either RBRACE for a nested block or EMPTY for the
// top-level program. A statement-position expression not immediately
// followed by the closing token is wrapped in ast.Discard; an expression
// immediately followed by the closing token becomes the block's trailing
// value instead.
//
// Semicolons are optional and purely separative: a block-shaped primary
// (if/while/for/loop/block) used in statement position does not require one
// before the next statement begins, since each of those forms is parsed
// greedily by parseBlockExprRequired and so never runs on into what
// follows.
func (p *parser) parseBlockBody(closing token.Kind) *ast.Block {
	start := p.cur.Span
	block := &ast.Block{Sp: start, Trailing: ast.InvalidNodeId}

	for !p.at(closing) && !p.at(token.EMPTY) {
		if p.accept(token.SEMI) {
			continue
		}

		id := p.parseExpr()
		node := p.tree.Get(id)

		if statementShaped(node) {
			block.Stmts = append(block.Stmts, id)
			p.accept(token.SEMI)
			continue
		}

		if p.at(closing) || p.at(token.EMPTY) {
			block.Trailing = id
			break
		}

		sp := p.tree.Span(id)
		block.Stmts = append(block.Stmts, p.tree.Add(&ast.Discard{Sp: sp, Expr: id}))
		p.accept(token.SEMI)
	}

	return block
}
