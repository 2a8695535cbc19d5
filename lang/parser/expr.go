package parser

import (
	"github.com/mna/dicelang/lang/ast"
	"github.com/mna/dicelang/lang/symbol"
	"github.com/mna/dicelang/lang/token"
)

// parseExpr parses a full expression, including a trailing assignment.
func (p *parser) parseExpr() ast.NodeId { return p.parseAssign() }

// parseAssign is the lowest (right-associative) precedence level: `=`,
// `+=`, `-=`, `*=`, `/=`. Anything but an identifier on the left parses
// here and is rejected by the compiler (InvalidAssignmentTarget), since the
// parser only knows the shape of the left-hand side, not whether it denotes
// a mutable binding.
func (p *parser) parseAssign() ast.NodeId {
	left := p.parseCoalesce()
	if p.at(token.ASSIGN) || p.cur.Kind.IsAssignOp() {
		op := p.cur.Kind
		p.advance()
		right := p.parseAssign()
		sp := p.tree.Span(left).Union(p.tree.Span(right))
		return p.tree.Add(&ast.Assign{Sp: sp, Op: op, Target: left, Value: right})
	}
	return left
}

// parseCoalesce handles `??`, left-associative.
func (p *parser) parseCoalesce() ast.NodeId {
	left := p.parseRange()
	for p.at(token.QQ) {
		op := p.cur.Kind
		p.advance()
		right := p.parseRange()
		left = p.binary(left, op, right)
	}
	return left
}

// parseRange handles `..` and `..=`, non-associative in practice (a range
// endpoint is never itself a range) but implemented left-associative since
// the grammar does not forbid chaining.
func (p *parser) parseRange() ast.NodeId {
	left := p.parseLogicalAnd()
	for p.at(token.DOTDOT) || p.at(token.DOTDOTEQ) {
		op := p.cur.Kind
		p.advance()
		right := p.parseLogicalAnd()
		left = p.binary(left, op, right)
	}
	return left
}

// parseLogicalAnd handles `&&`.
func (p *parser) parseLogicalAnd() ast.NodeId {
	left := p.parseLogicalOr()
	for p.at(token.AND) {
		op := p.cur.Kind
		p.advance()
		right := p.parseLogicalOr()
		left = p.binary(left, op, right)
	}
	return left
}

// parseLogicalOr handles `||`. It sits between `&&` and comparison in this
// grammar, so `||` binds tighter than `&&` (the reverse of most C-family
// languages): `a && b || c && d` groups as `(a && (b || c)) && d`.
func (p *parser) parseLogicalOr() ast.NodeId {
	left := p.parseComparison()
	for p.at(token.OR) {
		op := p.cur.Kind
		p.advance()
		right := p.parseComparison()
		left = p.binary(left, op, right)
	}
	return left
}

func (p *parser) parseComparison() ast.NodeId {
	left := p.parseAdditive()
	for p.at(token.EQ) || p.at(token.NEQ) || p.at(token.LT) || p.at(token.LE) || p.at(token.GT) || p.at(token.GE) {
		op := p.cur.Kind
		p.advance()
		right := p.parseAdditive()
		left = p.binary(left, op, right)
	}
	return left
}

func (p *parser) parseAdditive() ast.NodeId {
	left := p.parseMultiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := p.cur.Kind
		p.advance()
		right := p.parseMultiplicative()
		left = p.binary(left, op, right)
	}
	return left
}

func (p *parser) parseMultiplicative() ast.NodeId {
	left := p.parseDiceInfix()
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		op := p.cur.Kind
		p.advance()
		right := p.parseDiceInfix()
		left = p.binary(left, op, right)
	}
	return left
}

// parseDiceInfix handles the binary form of the dice-roll operator, e.g.
// `3d6`: left is the die count, right is the side count. It sits between
// multiplicative and unary, so `2 * 3d6` is `2 * (3d6)` and `3d6 + 1` is
// `(3d6) + 1`.
func (p *parser) parseDiceInfix() ast.NodeId {
	left := p.parseUnary()
	for p.at(token.D) {
		op := p.cur.Kind
		p.advance()
		right := p.parseUnary()
		left = p.binary(left, op, right)
	}
	return left
}

func (p *parser) binary(left ast.NodeId, op token.Kind, right ast.NodeId) ast.NodeId {
	sp := p.tree.Span(left).Union(p.tree.Span(right))
	return p.tree.Add(&ast.Binary{Sp: sp, Op: op, Left: left, Right: right})
}

// parseUnary handles the prefix operators `-`, `!`, and `d` (a bare die
// roll, e.g. `d20` rolls one 20-sided die).
func (p *parser) parseUnary() ast.NodeId {
	if p.at(token.MINUS) || p.at(token.BANG) || p.at(token.D) {
		start := p.cur.Span
		op := p.cur.Kind
		p.advance()
		right := p.parseUnary()
		sp := start.Union(p.tree.Span(right))
		return p.tree.Add(&ast.Unary{Sp: sp, Op: op, Right: right})
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary expression followed by any chain of calls,
// indexing, and field accesses: f(x).y[0]?.z(...).
func (p *parser) parsePostfix() ast.NodeId {
	expr := p.parsePrimary()
	for {
		switch {
		case p.at(token.LPAREN):
			expr = p.parseCallArgs(expr)
		case p.at(token.LBRACK):
			p.advance()
			idx := p.parseExpr()
			endSp := p.cur.Span
			p.expect(token.RBRACK)
			sp := p.tree.Span(expr).Union(endSp)
			expr = p.tree.Add(&ast.Index{Sp: sp, Left: expr, Index: idx})
		case p.at(token.DOT):
			p.advance()
			name := p.expect(token.IDENT)
			sp := p.tree.Span(expr).Union(name.Span)
			expr = p.tree.Add(&ast.FieldAccess{Sp: sp, Left: expr, Field: symbol.New(name.Slice)})
		case p.at(token.QDOT):
			p.advance()
			name := p.expect(token.IDENT)
			sp := p.tree.Span(expr).Union(name.Span)
			expr = p.tree.Add(&ast.SafeAccess{Sp: sp, Left: expr, Field: symbol.New(name.Slice)})
		default:
			return expr
		}
	}
}

func (p *parser) parseCallArgs(fn ast.NodeId) ast.NodeId {
	start := p.tree.Span(fn)
	p.expect(token.LPAREN)
	var args []ast.NodeId
	for !p.at(token.RPAREN) && !p.at(token.EMPTY) {
		args = append(args, p.parseExpr())
		if !p.accept(token.COMMA) {
			break
		}
	}
	endSp := p.cur.Span
	p.expect(token.RPAREN)
	return p.tree.Add(&ast.Call{Sp: start.Union(endSp), Fn: fn, Args: args})
}
