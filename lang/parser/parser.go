// Package parser implements a recursive-descent, precedence-climbing parser
// that turns a token stream into an ast.Tree. The parser keeps two tokens of
// lookahead (current and next) so that postfix forms and compound operators
// can be recognized without backtracking.
package parser

import (
	"github.com/mna/dicelang/lang/ast"
	"github.com/mna/dicelang/lang/diag"
	"github.com/mna/dicelang/lang/span"
	"github.com/mna/dicelang/lang/token"
)

// Parse tokenizes and parses source into a syntax tree rooted at a top-level
// statement list. On failure it returns a *diag.List (via error) collecting
// every parse error encountered; the caller should not use the returned
// tree in that case.
func Parse(source string) (*ast.Tree, error) {
	p := &parser{tree: ast.New(source)}
	p.lex.Init(source)
	p.advance()
	p.advance()

	root := p.parseBlockBody(token.EMPTY)
	root.Sp = root.Sp.Union(p.cur.Span)
	p.tree.Root = p.tree.Add(root)

	if p.errs.Len() > 0 {
		return nil, p.errs.Err()
	}
	return p.tree, nil
}

type parser struct {
	lex  token.Lexer
	tree *ast.Tree
	errs diag.List

	cur, peek token.Token
}

func (p *parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

func (p *parser) at(k token.Kind) bool { return p.cur.Kind == k }

func (p *parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches k, else records an
// UnexpectedToken error (UnexpectedEndOfInput at end of input) and returns the zero Token so callers can proceed
// with best-effort recovery.
func (p *parser) expect(k token.Kind) token.Token {
	if p.at(k) {
		t := p.cur
		p.advance()
		return t
	}
	if p.cur.Kind == token.EMPTY {
		p.errorf(diag.UnexpectedEndOfInput, p.cur.Span, "expected %s, found end of input", k.GoString())
	} else {
		p.errorf(diag.UnexpectedToken, p.cur.Span, "expected %s, found %s", k.GoString(), p.cur.Kind.GoString())
	}
	return token.Token{}
}

func (p *parser) errorf(kind diag.Kind, sp span.Span, format string, args ...any) {
	p.errs.Add(diag.Atf(kind, sp, format, args...))
	// make forward progress so a single bad token cannot loop the parser
	if p.cur.Kind != token.EMPTY {
		p.advance()
	}
}
