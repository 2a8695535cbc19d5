package parser

import (
	"github.com/mna/dicelang/lang/ast"
	"github.com/mna/dicelang/lang/diag"
	"github.com/mna/dicelang/lang/span"
	"github.com/mna/dicelang/lang/symbol"
	"github.com/mna/dicelang/lang/token"
)

// parsePrimary parses a literal, a parenthesized expression, a braced form
// (block or object literal), or one of the control-flow forms that double
// as expressions (if, while, for, loop), plus the statement-shaped forms
// (let, const, fn, break, continue, return) that are only legal directly in
// statement position but are parsed here to share the one recursive-descent
// entry point.
func (p *parser) parsePrimary() ast.NodeId {
	switch p.cur.Kind {
	case token.INT:
		t := p.cur
		p.advance()
		return p.tree.Add(&ast.IntLit{Sp: t.Span, Value: t.Int})
	case token.FLOAT:
		t := p.cur
		p.advance()
		return p.tree.Add(&ast.FloatLit{Sp: t.Span, Value: t.Float})
	case token.STRING:
		t := p.cur
		p.advance()
		return p.tree.Add(&ast.StringLit{Sp: t.Span, Value: t.Str})
	case token.BOOL:
		t := p.cur
		p.advance()
		return p.tree.Add(&ast.BoolLit{Sp: t.Span, Value: t.Bool})
	case token.NONE:
		t := p.cur
		p.advance()
		return p.tree.Add(&ast.NoneLit{Sp: t.Span})
	case token.IDENT:
		t := p.cur
		p.advance()
		return p.tree.Add(&ast.IdentLit{Sp: t.Span, Name: symbol.New(t.Slice)})
	case token.LPAREN:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RPAREN)
		return inner
	case token.LBRACK:
		return p.parseListLit()
	case token.LBRACE:
		return p.parseBraced()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.LOOP:
		return p.parseLoop()
	case token.LET, token.CONST:
		return p.parseVarDecl()
	case token.FN:
		return p.parseFn()
	case token.BREAK:
		t := p.cur
		p.advance()
		return p.tree.Add(&ast.Break{Sp: t.Span})
	case token.CONTINUE:
		t := p.cur
		p.advance()
		return p.tree.Add(&ast.Continue{Sp: t.Span})
	case token.RETURN:
		t := p.cur
		p.advance()
		value := ast.InvalidNodeId
		sp := t.Span
		if p.canStartExpr() {
			value = p.parseExpr()
			sp = sp.Union(p.tree.Span(value))
		}
		return p.tree.Add(&ast.Return{Sp: sp, Value: value})
	}

	// No valid primary at this position: report and synthesize a Unit node so
	// the caller always gets a usable NodeId back.
	sp := p.cur.Span
	if p.cur.Kind == token.EMPTY {
		p.errorf(diag.UnexpectedEndOfInput, sp, "expected expression, found end of input")
	} else {
		p.errorf(diag.UnexpectedToken, sp, "expected expression, found %s", p.cur.Kind.GoString())
	}
	return p.tree.Add(&ast.UnitLit{Sp: sp})
}

// canStartExpr reports whether the current token could begin an expression,
// used to tell `return;` / `return }` (no value) apart from `return x`.
func (p *parser) canStartExpr() bool {
	switch p.cur.Kind {
	case token.SEMI, token.RBRACE, token.EMPTY, token.COMMA, token.RPAREN, token.RBRACK:
		return false
	}
	return true
}

func (p *parser) parseListLit() ast.NodeId {
	start := p.cur.Span
	p.advance() // [
	var items []ast.NodeId
	for !p.at(token.RBRACK) && !p.at(token.EMPTY) {
		items = append(items, p.parseExpr())
		if !p.accept(token.COMMA) {
			break
		}
	}
	endSp := p.cur.Span
	p.expect(token.RBRACK)
	return p.tree.Add(&ast.ListLit{Sp: start.Union(endSp), Items: items})
}

// parseBraced disambiguates `{ ... }` between a block expression and an
// object literal. Both start with LBRACE; an object literal is recognized
// by a lookahead of IDENT-or-STRING followed by COLON immediately inside
// the brace. Since the parser otherwise keeps only two tokens of
// lookahead, it snapshots the lexer here and rewinds if the tentative
// object-literal parse doesn't pan out.
func (p *parser) parseBraced() ast.NodeId {
	start := p.cur.Span
	if p.peek.Kind == token.IDENT || p.peek.Kind == token.STRING {
		mark := p.lex.Mark()
		savedCur, savedPeek := p.cur, p.peek

		p.advance() // consume LBRACE; cur = key candidate
		isObjectKey := p.cur.Kind == token.IDENT || p.cur.Kind == token.STRING
		if isObjectKey && p.peek.Kind == token.COLON {
			return p.parseObjectLitBody(start)
		}

		p.lex.Reset(mark)
		p.cur, p.peek = savedCur, savedPeek
	}
	return p.parseBlockExpr(start)
}

// parseObjectLitBody parses the fields of an object literal. The caller has
// already consumed the opening LBRACE and confirmed that cur is the first
// field's key.
func (p *parser) parseObjectLitBody(start span.Span) ast.NodeId {
	var fields []ast.ObjectField
	for !p.at(token.RBRACE) && !p.at(token.EMPTY) {
		var name string
		switch p.cur.Kind {
		case token.IDENT, token.STRING:
			name = p.cur.Slice
			if p.cur.Kind == token.STRING {
				name = p.cur.Str
			}
			p.advance()
		default:
			p.errorf(diag.UnexpectedToken, p.cur.Span, "expected field name, found %s", p.cur.Kind.GoString())
		}
		p.expect(token.COLON)
		value := p.parseExpr()
		fields = append(fields, ast.ObjectField{Key: symbol.New(name), Value: value})
		if !p.accept(token.COMMA) {
			break
		}
	}
	endSp := p.cur.Span
	p.expect(token.RBRACE)
	return p.tree.Add(&ast.ObjectLit{Sp: start.Union(endSp), Fields: fields})
}

func (p *parser) parseBlockExpr(start span.Span) ast.NodeId {
	p.expect(token.LBRACE)
	block := p.parseBlockBody(token.RBRACE)
	endSp := p.cur.Span
	p.expect(token.RBRACE)
	block.Sp = start.Union(endSp)
	return p.tree.Add(block)
}

func (p *parser) parseIf() ast.NodeId {
	start := p.cur.Span
	p.advance() // if
	cond := p.parseExpr()
	then := p.parseBlockExprRequired()
	elseBranch := ast.InvalidNodeId
	endSp := p.tree.Span(then)
	if p.accept(token.ELSE) {
		if p.at(token.IF) {
			elseBranch = p.parseIf()
		} else {
			elseBranch = p.parseBlockExprRequired()
		}
		endSp = p.tree.Span(elseBranch)
	}
	return p.tree.Add(&ast.If{Sp: start.Union(endSp), Cond: cond, Then: then, Else: elseBranch})
}

// parseBlockExprRequired parses a `{ ... }` block where a bare expression is
// not allowed (the branches of if/while/for/loop must be blocks).
func (p *parser) parseBlockExprRequired() ast.NodeId {
	start := p.cur.Span
	if !p.at(token.LBRACE) {
		p.errorf(diag.UnexpectedToken, p.cur.Span, "expected block, found %s", p.cur.Kind.GoString())
		return p.tree.Add(&ast.UnitLit{Sp: start})
	}
	return p.parseBlockExpr(start)
}

func (p *parser) parseWhile() ast.NodeId {
	start := p.cur.Span
	p.advance() // while
	cond := p.parseExpr()
	body := p.parseBlockExprRequired()
	return p.tree.Add(&ast.While{Sp: start.Union(p.tree.Span(body)), Cond: cond, Body: body})
}

// parseLoop desugars `loop { ... }` to `while true { ... }`.
func (p *parser) parseLoop() ast.NodeId {
	start := p.cur.Span
	p.advance() // loop
	cond := p.tree.Add(&ast.BoolLit{Sp: start, Value: true})
	body := p.parseBlockExprRequired()
	return p.tree.Add(&ast.While{Sp: start.Union(p.tree.Span(body)), Cond: cond, Body: body})
}

func (p *parser) parseFor() ast.NodeId {
	start := p.cur.Span
	p.advance() // for
	name := p.expect(token.IDENT)
	p.expect(token.IN)
	iter := p.parseExpr()
	body := p.parseBlockExprRequired()
	return p.tree.Add(&ast.For{
		Sp:   start.Union(p.tree.Span(body)),
		Var:  symbol.New(name.Slice),
		Iter: iter,
		Body: body,
	})
}

func (p *parser) parseVarDecl() ast.NodeId {
	start := p.cur.Span
	isLet := p.cur.Kind == token.LET
	p.advance() // let / const
	// `let mut name` declares a mutable binding; plain `let` and `const` are
	// immutable. `mut` is a modifier only when another identifier follows,
	// so `let mut = ...` still binds a variable named mut.
	mutable := false
	if isLet && p.at(token.IDENT) && p.cur.Slice == "mut" && p.peek.Kind == token.IDENT {
		p.advance()
		mutable = true
	}
	name := p.expect(token.IDENT)
	p.expect(token.ASSIGN)
	value := p.parseExpr()
	return p.tree.Add(&ast.VarDecl{
		Sp:      start.Union(p.tree.Span(value)),
		Name:    symbol.New(name.Slice),
		Mutable: mutable,
		Value:   value,
	})
}

// parseFn parses both a named declaration (`fn name(...) { ... }`) and an
// anonymous literal (`fn(...) { ... }`), distinguished by whether an
// identifier follows the `fn` keyword.
func (p *parser) parseFn() ast.NodeId {
	start := p.cur.Span
	p.advance() // fn

	var name string
	hasName := p.at(token.IDENT)
	if hasName {
		name = p.cur.Slice
		p.advance()
	}

	sig := p.parseFuncSig()
	body := p.parseBlockExprRequired()
	sp := start.Union(p.tree.Span(body))

	if hasName {
		return p.tree.Add(&ast.FuncDecl{Sp: sp, Name: symbol.New(name), Sig: sig, Body: body})
	}
	return p.tree.Add(&ast.FuncLit{Sp: sp, Sig: sig, Body: body})
}

func (p *parser) parseFuncSig() ast.FuncSig {
	p.expect(token.LPAREN)
	var params []symbol.Symbol
	for !p.at(token.RPAREN) && !p.at(token.EMPTY) {
		t := p.expect(token.IDENT)
		params = append(params, symbol.New(t.Slice))
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return ast.FuncSig{Params: params}
}
