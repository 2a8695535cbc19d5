package ast

import (
	"github.com/mna/dicelang/lang/span"
	"github.com/mna/dicelang/lang/symbol"
	"github.com/mna/dicelang/lang/token"
)

// ==========================
// Literals
// ==========================

// IdentLit is a bare identifier used as an expression (a variable read).
type IdentLit struct {
	Sp   span.Span
	Name symbol.Symbol
}

// NoneLit is the literal `none`.
type NoneLit struct{ Sp span.Span }

// UnitLit is the implicit value of an empty or discard-terminated block.
type UnitLit struct{ Sp span.Span }

// IntLit is an integer literal.
type IntLit struct {
	Sp    span.Span
	Value int64
}

// FloatLit is a floating point literal.
type FloatLit struct {
	Sp    span.Span
	Value float64
}

// StringLit is a string literal.
type StringLit struct {
	Sp    span.Span
	Value string
}

// BoolLit is a boolean literal.
type BoolLit struct {
	Sp    span.Span
	Value bool
}

// ListLit is a list literal, e.g. [1, 2, 3].
type ListLit struct {
	Sp    span.Span
	Items []NodeId
}

// ObjectField is a single key/value pair of an ObjectLit.
type ObjectField struct {
	Key   symbol.Symbol
	Value NodeId
}

// ObjectLit is an object literal, e.g. { x: 1, y: 2 }.
type ObjectLit struct {
	Sp     span.Span
	Fields []ObjectField
}

// ==========================
// Postfix chain
// ==========================

// FieldAccess is a `.` field read, e.g. x.y.
type FieldAccess struct {
	Sp    span.Span
	Left  NodeId
	Field symbol.Symbol
}

// SafeAccess is a `?.` field read that short-circuits to none when Left is
// none, e.g. x?.y.
type SafeAccess struct {
	Sp    span.Span
	Left  NodeId
	Field symbol.Symbol
}

// Index is an index expression, e.g. x[y].
type Index struct {
	Sp    span.Span
	Left  NodeId
	Index NodeId
}

// Call is a function call, e.g. f(a, b).
type Call struct {
	Sp   span.Span
	Fn   NodeId
	Args []NodeId
}

// ==========================
// Operators
// ==========================

// Unary is a unary prefix expression, e.g. -x, !x, dx.
type Unary struct {
	Sp    span.Span
	Op    token.Kind
	Right NodeId
}

// Binary is a binary infix expression, e.g. x + y.
type Binary struct {
	Sp    span.Span
	Op    token.Kind
	Left  NodeId
	Right NodeId
}

// Assign is an assignment expression, e.g. x = y or x += y. Target must be
// an IdentLit; any other left-hand side is a compile error
// (InvalidAssignmentTarget), per the core's explicit non-goal of field or
// indexed assignment.
type Assign struct {
	Sp     span.Span
	Op     token.Kind // ASSIGN, PLUS_EQ, MINUS_EQ, STAR_EQ, or SLASH_EQ
	Target NodeId
	Value  NodeId
}

// ==========================
// Declarations
// ==========================

// VarDecl is a `let`/`const` binding.
type VarDecl struct {
	Sp      span.Span
	Name    symbol.Symbol
	Mutable bool
	Value   NodeId
}

// FuncSig is the parameter list shared by FuncDecl and FuncLit.
type FuncSig struct {
	Params []symbol.Symbol
}

// FuncDecl is a named function declaration, e.g. fn add(x, y) { x + y }.
type FuncDecl struct {
	Sp   span.Span
	Name symbol.Symbol
	Sig  FuncSig
	Body NodeId // Block
}

// FuncLit is an anonymous function literal, e.g. fn(x) { x + 1 }.
type FuncLit struct {
	Sp   span.Span
	Sig  FuncSig
	Body NodeId // Block
}

// ==========================
// Control flow
// ==========================

// If is an if/else expression. Else is InvalidNodeId when there is no else
// branch, in which case the expression evaluates to Unit on the false path.
type If struct {
	Sp   span.Span
	Cond NodeId
	Then NodeId // Block
	Else NodeId // Block, If (else-if), or InvalidNodeId
}

// While is a while loop.
type While struct {
	Sp   span.Span
	Cond NodeId
	Body NodeId // Block
}

// For is a `for x in e { ... }` loop.
type For struct {
	Sp     span.Span
	Var    symbol.Symbol
	Iter   NodeId
	Body   NodeId // Block
}

// Block is an ordered list of statements with an optional trailing
// expression. When Trailing is InvalidNodeId, the block evaluates to Unit.
type Block struct {
	Sp       span.Span
	Stmts    []NodeId
	Trailing NodeId
}

// Break is a `break` statement, only valid inside a loop.
type Break struct{ Sp span.Span }

// Continue is a `continue` statement, only valid inside a loop.
type Continue struct{ Sp span.Span }

// Return is a `return` statement, only valid inside a function. Value is
// InvalidNodeId when no expression is supplied (implicit Unit).
type Return struct {
	Sp    span.Span
	Value NodeId
}

// Discard wraps a statement-position expression whose value is explicitly
// dropped (every non-trailing block statement).
type Discard struct {
	Sp   span.Span
	Expr NodeId
}

func (n *IdentLit) Kind() Kind     { return KindIdentLit }
func (n *IdentLit) Span() span.Span { return n.Sp }

func (n *NoneLit) Kind() Kind      { return KindNoneLit }
func (n *NoneLit) Span() span.Span { return n.Sp }

func (n *UnitLit) Kind() Kind      { return KindUnitLit }
func (n *UnitLit) Span() span.Span { return n.Sp }

func (n *IntLit) Kind() Kind      { return KindIntLit }
func (n *IntLit) Span() span.Span { return n.Sp }

func (n *FloatLit) Kind() Kind      { return KindFloatLit }
func (n *FloatLit) Span() span.Span { return n.Sp }

func (n *StringLit) Kind() Kind      { return KindStringLit }
func (n *StringLit) Span() span.Span { return n.Sp }

func (n *BoolLit) Kind() Kind      { return KindBoolLit }
func (n *BoolLit) Span() span.Span { return n.Sp }

func (n *ListLit) Kind() Kind      { return KindListLit }
func (n *ListLit) Span() span.Span { return n.Sp }

func (n *ObjectLit) Kind() Kind      { return KindObjectLit }
func (n *ObjectLit) Span() span.Span { return n.Sp }

func (n *FieldAccess) Kind() Kind      { return KindFieldAccess }
func (n *FieldAccess) Span() span.Span { return n.Sp }

func (n *SafeAccess) Kind() Kind      { return KindSafeAccess }
func (n *SafeAccess) Span() span.Span { return n.Sp }

func (n *Index) Kind() Kind      { return KindIndex }
func (n *Index) Span() span.Span { return n.Sp }

func (n *Call) Kind() Kind      { return KindCall }
func (n *Call) Span() span.Span { return n.Sp }

func (n *Unary) Kind() Kind      { return KindUnary }
func (n *Unary) Span() span.Span { return n.Sp }

func (n *Binary) Kind() Kind      { return KindBinary }
func (n *Binary) Span() span.Span { return n.Sp }

func (n *Assign) Kind() Kind      { return KindAssign }
func (n *Assign) Span() span.Span { return n.Sp }

func (n *VarDecl) Kind() Kind      { return KindVarDecl }
func (n *VarDecl) Span() span.Span { return n.Sp }

func (n *FuncDecl) Kind() Kind      { return KindFuncDecl }
func (n *FuncDecl) Span() span.Span { return n.Sp }

func (n *FuncLit) Kind() Kind      { return KindFuncLit }
func (n *FuncLit) Span() span.Span { return n.Sp }

func (n *If) Kind() Kind      { return KindIf }
func (n *If) Span() span.Span { return n.Sp }

func (n *While) Kind() Kind      { return KindWhile }
func (n *While) Span() span.Span { return n.Sp }

func (n *For) Kind() Kind      { return KindFor }
func (n *For) Span() span.Span { return n.Sp }

func (n *Block) Kind() Kind      { return KindBlock }
func (n *Block) Span() span.Span { return n.Sp }

func (n *Break) Kind() Kind      { return KindBreak }
func (n *Break) Span() span.Span { return n.Sp }

func (n *Continue) Kind() Kind      { return KindContinue }
func (n *Continue) Span() span.Span { return n.Sp }

func (n *Return) Kind() Kind      { return KindReturn }
func (n *Return) Span() span.Span { return n.Sp }

func (n *Discard) Kind() Kind      { return KindDiscard }
func (n *Discard) Span() span.Span { return n.Sp }
