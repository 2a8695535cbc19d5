// Package compiler walks the parser's syntax tree and emits bytecode: one
// Assembler/ScopeStack pair per function body (including the top-level
// script), linked by a stack of CompilerContexts so nested function
// literals can resolve variables captured from an enclosing frame into
// upvalue descriptor chains.
package compiler

import (
	"github.com/mna/dicelang/lang/ast"
	"github.com/mna/dicelang/lang/bytecode"
	"github.com/mna/dicelang/lang/diag"
	"github.com/mna/dicelang/lang/span"
	"github.com/mna/dicelang/lang/symbol"
	"github.com/mna/dicelang/lang/token"
	"github.com/mna/dicelang/lang/value"
)

// CompileKind selects the scope the top-level block compiles as: Script and
// Module behave identically today (both are a plain top-level frame with no
// special linking), kept as distinct values per spec.md §6's
// `compile_script(source, kind: Script|Module|Function)` surface. Function
// is not a valid top-level kind; function bodies are always compiled via a
// nested CompilerContext reached from a FuncDecl/FuncLit, never directly.
type CompileKind uint8

const (
	KindScript CompileKind = iota
	KindModule
)

// CompilerContext holds the Assembler and ScopeStack for one function body
// (or the top-level script) currently being compiled, plus the upvalue
// descriptors it has accumulated so far.
type CompilerContext struct {
	Asm        *bytecode.Assembler
	Scopes     *ScopeStack
	Upvalues   []UpvalueDescriptor
	IsFunction bool
}

// compiler threads the syntax tree and a stack of CompilerContexts (outer to
// inner) through the recursive lowering.
type compiler struct {
	tree  *ast.Tree
	stack []*CompilerContext
}

// Compile lowers tree into a finished Chunk for name, compiled as kind.
func Compile(tree *ast.Tree, name string, kind CompileKind) (*bytecode.Chunk, error) {
	c := &compiler{tree: tree}
	root := &CompilerContext{Asm: bytecode.NewAssembler(name), Scopes: NewScopeStack()}
	c.stack = []*CompilerContext{root}

	topKind := ScopeScript
	if kind == KindModule {
		topKind = ScopeModule
	}
	root.Scopes.Push(topKind)

	if !tree.Root.Valid() {
		root.Asm.Emit(bytecode.PushUnit, span.Span{})
		root.Asm.Emit(bytecode.Return, span.Span{})
		return root.Asm.Finish(root.Scopes.SlotCount(), 0, 0), nil
	}

	if err := c.compileBlockBody(root, tree.Root); err != nil {
		return nil, err
	}
	popScope(root, tree.Span(tree.Root))
	root.Asm.Emit(bytecode.Return, tree.Span(tree.Root))
	return root.Asm.Finish(root.Scopes.SlotCount(), 0, 0), nil
}

func (c *compiler) top() *CompilerContext { return c.stack[len(c.stack)-1] }

// popScope closes the innermost scope and emits CloseUpvalue for every local
// it declared that a nested closure captured, freezing its value before the
// slot can be reused by a later sibling scope in the same still-running
// frame.
func popScope(ctx *CompilerContext, sp span.Span) *ScopeContext {
	sc := ctx.Scopes.Pop()
	for _, v := range sc.Variables {
		if v.Captured {
			ctx.Asm.EmitByte(bytecode.CloseUpvalue, byte(v.Slot), sp)
		}
	}
	return sc
}

// compileBlockBody compiles a Block's statements (each left stack-neutral)
// followed by its trailing expression (or PushUnit if none), assuming the
// caller has already pushed the scope this block's locals declare into.
func (c *compiler) compileBlockBody(ctx *CompilerContext, id ast.NodeId) error {
	block := c.tree.Get(id).(*ast.Block)

	predeclared := map[ast.NodeId]*Variable{}
	for _, sid := range block.Stmts {
		if fd, ok := c.tree.Get(sid).(*ast.FuncDecl); ok {
			predeclared[sid] = ctx.Scopes.Declare(fd.Name, false)
		}
	}

	for _, sid := range block.Stmts {
		if err := c.compileStmt(ctx, sid, predeclared); err != nil {
			return err
		}
	}

	if block.Trailing.Valid() {
		if err := c.compileExpr(ctx, block.Trailing); err != nil {
			return err
		}
	} else {
		ctx.Asm.Emit(bytecode.PushUnit, block.Sp)
	}
	return nil
}

func (c *compiler) compileStmt(ctx *CompilerContext, id ast.NodeId, predeclared map[ast.NodeId]*Variable) error {
	switch n := c.tree.Get(id).(type) {
	case *ast.VarDecl:
		if err := c.compileExpr(ctx, n.Value); err != nil {
			return err
		}
		v := ctx.Scopes.Declare(n.Name, n.Mutable)
		ctx.Asm.EmitByte(bytecode.StoreLocal, byte(v.Slot), n.Sp)
		ctx.Asm.Emit(bytecode.Pop, n.Sp)
		return nil

	case *ast.FuncDecl:
		v := predeclared[id]
		if err := c.compileFunction(ctx, n.Sig, n.Body, n.Name.String(), n.Sp); err != nil {
			return err
		}
		v.Initialized = true
		ctx.Asm.EmitByte(bytecode.StoreLocal, byte(v.Slot), n.Sp)
		ctx.Asm.Emit(bytecode.Pop, n.Sp)
		return nil

	case *ast.Break:
		// break/continue only ever execute at a statement boundary, where the
		// stack holds exactly the live loop state (nothing for `while`, the
		// live iterator for `for`) that the loop's own exit/entry code already
		// expects — no extra unwinding needed here.
		loop := ctx.Scopes.CurrentLoop()
		if loop == nil {
			return diag.At(diag.InvalidBreak, n.Sp, "break outside of a loop")
		}
		pos := ctx.Asm.Jump(bytecode.Jump, n.Sp)
		loop.ExitPoints = append(loop.ExitPoints, pos)
		return nil

	case *ast.Continue:
		loop := ctx.Scopes.CurrentLoop()
		if loop == nil {
			return diag.At(diag.InvalidContinue, n.Sp, "continue outside of a loop")
		}
		ctx.Asm.JumpBack(loop.EntryPoint, n.Sp)
		return nil

	case *ast.Return:
		if !ctx.IsFunction {
			return diag.At(diag.InvalidReturn, n.Sp, "return outside of a function")
		}
		if n.Value.Valid() {
			if err := c.compileExpr(ctx, n.Value); err != nil {
				return err
			}
		} else {
			ctx.Asm.Emit(bytecode.PushUnit, n.Sp)
		}
		ctx.Asm.Emit(bytecode.Return, n.Sp)
		return nil

	case *ast.Discard:
		if err := c.compileExpr(ctx, n.Expr); err != nil {
			return err
		}
		ctx.Asm.Emit(bytecode.Pop, n.Sp)
		return nil
	}
	return diag.New(diag.InternalCompilerError, "unreachable statement node kind")
}

// binOpcodes maps a token operator to the opcode compileExpr emits once both
// operands are on the stack. Logical `&&`/`||` and coalesce `??` short
// circuit instead and are handled separately.
var binOpcodes = map[token.Kind]bytecode.Opcode{
	token.PLUS:    bytecode.Add,
	token.MINUS:   bytecode.Sub,
	token.STAR:    bytecode.Mul,
	token.SLASH:   bytecode.Div,
	token.PERCENT: bytecode.Mod,
	token.EQ:      bytecode.Eq,
	token.NEQ:     bytecode.Neq,
	token.LT:      bytecode.Lt,
	token.LE:      bytecode.Le,
	token.GT:      bytecode.Gt,
	token.GE:      bytecode.Ge,
	token.D:       bytecode.Roll,
}

func (c *compiler) compileExpr(ctx *CompilerContext, id ast.NodeId) error {
	switch n := c.tree.Get(id).(type) {
	case *ast.IdentLit:
		return c.compileIdent(ctx, n)

	case *ast.NoneLit:
		ctx.Asm.Emit(bytecode.PushNone, n.Sp)
		return nil

	case *ast.UnitLit:
		ctx.Asm.Emit(bytecode.PushUnit, n.Sp)
		return nil

	case *ast.IntLit:
		switch n.Value {
		case 0:
			ctx.Asm.Emit(bytecode.PushI0, n.Sp)
		case 1:
			ctx.Asm.Emit(bytecode.PushI1, n.Sp)
		default:
			if _, err := ctx.Asm.EmitConst(value.Int(n.Value), n.Sp); err != nil {
				return err
			}
		}
		return nil

	case *ast.FloatLit:
		switch n.Value {
		case 0:
			ctx.Asm.Emit(bytecode.PushF0, n.Sp)
		case 1:
			ctx.Asm.Emit(bytecode.PushF1, n.Sp)
		default:
			if _, err := ctx.Asm.EmitConst(value.Float(n.Value), n.Sp); err != nil {
				return err
			}
		}
		return nil

	case *ast.StringLit:
		_, err := ctx.Asm.EmitConst(value.String(n.Value), n.Sp)
		return err

	case *ast.BoolLit:
		if n.Value {
			ctx.Asm.Emit(bytecode.PushTrue, n.Sp)
		} else {
			ctx.Asm.Emit(bytecode.PushFalse, n.Sp)
		}
		return nil

	case *ast.ListLit:
		for _, it := range n.Items {
			if err := c.compileExpr(ctx, it); err != nil {
				return err
			}
		}
		ctx.Asm.EmitByte(bytecode.BuildList, byte(len(n.Items)), n.Sp)
		return nil

	case *ast.ObjectLit:
		for _, f := range n.Fields {
			if _, err := ctx.Asm.EmitConst(value.String(f.Key.String()), n.Sp); err != nil {
				return err
			}
			if err := c.compileExpr(ctx, f.Value); err != nil {
				return err
			}
		}
		ctx.Asm.EmitByte(bytecode.BuildObject, byte(len(n.Fields)), n.Sp)
		return nil

	case *ast.FieldAccess:
		if err := c.compileExpr(ctx, n.Left); err != nil {
			return err
		}
		idx, err := ctx.Asm.AddConstant(value.String(n.Field.String()))
		if err != nil {
			return err
		}
		ctx.Asm.EmitByte(bytecode.GetField, byte(idx), n.Sp)
		return nil

	case *ast.SafeAccess:
		if err := c.compileExpr(ctx, n.Left); err != nil {
			return err
		}
		idx, err := ctx.Asm.AddConstant(value.String(n.Field.String()))
		if err != nil {
			return err
		}
		ctx.Asm.EmitByte(bytecode.GetFieldSafe, byte(idx), n.Sp)
		return nil

	case *ast.Index:
		if err := c.compileExpr(ctx, n.Index); err != nil {
			return err
		}
		if err := c.compileExpr(ctx, n.Left); err != nil {
			return err
		}
		ctx.Asm.Emit(bytecode.GetIndex, n.Sp)
		return nil

	case *ast.Call:
		if err := c.compileExpr(ctx, n.Fn); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := c.compileExpr(ctx, a); err != nil {
				return err
			}
		}
		ctx.Asm.EmitByte(bytecode.Call, byte(len(n.Args)), n.Sp)
		return nil

	case *ast.Unary:
		return c.compileUnary(ctx, n)

	case *ast.Binary:
		return c.compileBinary(ctx, n)

	case *ast.Assign:
		return c.compileAssign(ctx, n)

	case *ast.FuncLit:
		return c.compileFunction(ctx, n.Sig, n.Body, "", n.Sp)

	case *ast.If:
		return c.compileIf(ctx, n)

	case *ast.While:
		return c.compileWhile(ctx, n)

	case *ast.For:
		return c.compileFor(ctx, n)

	case *ast.Block:
		ctx.Scopes.Push(ScopeBlock)
		err := c.compileBlockBody(ctx, id)
		popScope(ctx, n.Sp)
		return err
	}
	return diag.New(diag.InternalCompilerError, "unreachable expression node kind")
}

func (c *compiler) compileIdent(ctx *CompilerContext, n *ast.IdentLit) error {
	if v := ctx.Scopes.Resolve(n.Name); v != nil {
		ctx.Asm.EmitByte(bytecode.LoadLocal, byte(v.Slot), n.Sp)
		return nil
	}
	if idx, ok := c.resolveUpvalue(len(c.stack)-1, n.Name); ok {
		ctx.Asm.EmitByte(bytecode.LoadUpvalue, byte(idx), n.Sp)
		return nil
	}
	gidx, err := ctx.Asm.AddConstant(value.String(n.Name.String()))
	if err != nil {
		return err
	}
	ctx.Asm.EmitByte(bytecode.LoadGlobal, byte(gidx), n.Sp)
	return nil
}

// resolveUpvalue searches the enclosing CompilerContext chain, starting at
// level-1, for name. On success it threads an UpvalueDescriptor through
// every intervening context (so a doubly-nested closure gets an Outer chain
// rather than reaching past its immediate parent) and returns the index in
// c.stack[level]'s own upvalue array.
func (c *compiler) resolveUpvalue(level int, name symbol.Symbol) (int, bool) {
	if level <= 0 {
		return 0, false
	}
	parent := c.stack[level-1]
	if v := parent.Scopes.Resolve(name); v != nil {
		v.Captured = true
		return c.addUpvalue(level, UpvalueDescriptor{ParentLocal: true, Index: v.Slot, Mutable: v.Mutable}), true
	}
	pidx, ok := c.resolveUpvalue(level-1, name)
	if !ok {
		return 0, false
	}
	mutable := c.stack[level-1].Upvalues[pidx].Mutable
	return c.addUpvalue(level, UpvalueDescriptor{ParentLocal: false, Index: pidx, Mutable: mutable}), true
}

func (c *compiler) addUpvalue(level int, d UpvalueDescriptor) int {
	ctx := c.stack[level]
	ups, idx := addUpvalue(ctx.Upvalues, d)
	ctx.Upvalues = ups
	return idx
}

func (c *compiler) compileUnary(ctx *CompilerContext, n *ast.Unary) error {
	switch n.Op {
	case token.MINUS:
		if err := c.compileExpr(ctx, n.Right); err != nil {
			return err
		}
		ctx.Asm.Emit(bytecode.Neg, n.Sp)
	case token.BANG:
		if err := c.compileExpr(ctx, n.Right); err != nil {
			return err
		}
		ctx.Asm.Emit(bytecode.Not, n.Sp)
	case token.D:
		// Unary `d6` rolls one die: the sides expression is the only source
		// operand, with an implicit count of 1 playing the left-operand role.
		if err := c.compileExpr(ctx, n.Right); err != nil {
			return err
		}
		ctx.Asm.Emit(bytecode.PushI1, n.Sp)
		ctx.Asm.Emit(bytecode.Roll, n.Sp)
	default:
		return diag.Atf(diag.InternalCompilerError, n.Sp, "unexpected unary operator %#v", n.Op)
	}
	return nil
}

// compileOperands emits right then left, so the first pop at runtime yields
// the left operand and the second the right, letting the VM call its
// binary helpers (Add(a, b), Lt(a, b), ...) without swapping.
func (c *compiler) compileOperands(ctx *CompilerContext, left, right ast.NodeId) error {
	if err := c.compileExpr(ctx, right); err != nil {
		return err
	}
	return c.compileExpr(ctx, left)
}

func (c *compiler) compileBinary(ctx *CompilerContext, n *ast.Binary) error {
	switch n.Op {
	case token.AND:
		return c.compileLogical(ctx, n, bytecode.JumpIfFalse)
	case token.OR:
		return c.compileLogical(ctx, n, bytecode.JumpIfTrue)
	case token.QQ:
		return c.compileCoalesce(ctx, n)
	case token.DOTDOT, token.DOTDOTEQ:
		if err := c.compileOperands(ctx, n.Left, n.Right); err != nil {
			return err
		}
		op := bytecode.MakeRange
		if n.Op == token.DOTDOTEQ {
			op = bytecode.MakeRangeIncl
		}
		ctx.Asm.Emit(op, n.Sp)
		return nil
	}

	op, ok := binOpcodes[n.Op]
	if !ok {
		return diag.Atf(diag.InternalCompilerError, n.Sp, "unexpected binary operator %#v", n.Op)
	}
	if err := c.compileOperands(ctx, n.Left, n.Right); err != nil {
		return err
	}
	ctx.Asm.Emit(op, n.Sp)
	return nil
}

// compileLogical lowers `&&`/`||` to short-circuit form per spec.md §4.3:
// Dup the left operand, JumpIfFalse/JumpIfTrue on the duplicate (consuming
// it), Pop the original and evaluate right only when the jump isn't taken.
func (c *compiler) compileLogical(ctx *CompilerContext, n *ast.Binary, jumpOp bytecode.Opcode) error {
	if err := c.compileExpr(ctx, n.Left); err != nil {
		return err
	}
	ctx.Asm.Emit(bytecode.Dup, n.Sp)
	pos := ctx.Asm.Jump(jumpOp, n.Sp)
	ctx.Asm.Emit(bytecode.Pop, n.Sp)
	if err := c.compileExpr(ctx, n.Right); err != nil {
		return err
	}
	ctx.Asm.PatchJump(pos)
	return nil
}

// compileCoalesce lowers `a ?? b`: keep `a` unless it is exactly None, in
// which case evaluate and keep `b`. Any other value of `a`, including
// false, 0 and "", is kept as the result.
func (c *compiler) compileCoalesce(ctx *CompilerContext, n *ast.Binary) error {
	if err := c.compileExpr(ctx, n.Left); err != nil {
		return err
	}
	ctx.Asm.Emit(bytecode.Dup, n.Sp)
	ctx.Asm.Emit(bytecode.PushNone, n.Sp)
	ctx.Asm.Emit(bytecode.Eq, n.Sp)
	pos := ctx.Asm.Jump(bytecode.JumpIfFalse, n.Sp)
	ctx.Asm.Emit(bytecode.Pop, n.Sp)
	if err := c.compileExpr(ctx, n.Right); err != nil {
		return err
	}
	ctx.Asm.PatchJump(pos)
	return nil
}

func (c *compiler) compileAssign(ctx *CompilerContext, n *ast.Assign) error {
	if !ast.IsAssignable(c.tree, n.Target) {
		return diag.At(diag.InvalidAssignmentTarget, n.Sp, "assignment target must be an identifier")
	}
	name := c.tree.Get(n.Target).(*ast.IdentLit).Name

	if v := ctx.Scopes.Resolve(name); v != nil {
		if !v.Mutable {
			return diag.Atf(diag.ImmutableVariable, n.Sp, "%s is not declared mutable", name)
		}
		return c.compileStore(ctx, n, bytecode.StoreLocal, bytecode.AddAssignLocal,
			bytecode.SubAssignLocal, bytecode.MulAssignLocal, bytecode.DivAssignLocal, byte(v.Slot))
	}
	if idx, ok := c.resolveUpvalue(len(c.stack)-1, name); ok {
		d := ctx.Upvalues[idx]
		if !d.Mutable {
			return diag.Atf(diag.ImmutableVariable, n.Sp, "%s is not declared mutable", name)
		}
		if n.Op == token.ASSIGN {
			if err := c.compileExpr(ctx, n.Value); err != nil {
				return err
			}
		} else {
			// No dedicated *AssignUpvalue opcodes exist, so compound assignment
			// to a captured variable is expanded into load/compute/store: push
			// rhs, then the upvalue's current value, apply the arithmetic
			// opcode, and store the result back.
			op, ok := binOpcodes[n.Op.ArithOp()]
			if !ok {
				return diag.Atf(diag.InternalCompilerError, n.Sp, "unexpected compound assignment operator %#v", n.Op)
			}
			if err := c.compileExpr(ctx, n.Value); err != nil {
				return err
			}
			ctx.Asm.EmitByte(bytecode.LoadUpvalue, byte(idx), n.Sp)
			ctx.Asm.Emit(op, n.Sp)
		}
		ctx.Asm.EmitByte(bytecode.StoreUpvalue, byte(idx), n.Sp)
		return nil
	}
	return diag.Atf(diag.UndeclaredVariable, n.Sp, "%s is not declared", name)
}

func (c *compiler) compileStore(ctx *CompilerContext, n *ast.Assign, plain, add, sub, mul, div bytecode.Opcode, slot byte) error {
	if err := c.compileExpr(ctx, n.Value); err != nil {
		return err
	}
	switch n.Op {
	case token.ASSIGN:
		ctx.Asm.EmitByte(plain, slot, n.Sp)
	case token.PLUS_EQ:
		ctx.Asm.EmitByte(add, slot, n.Sp)
	case token.MINUS_EQ:
		ctx.Asm.EmitByte(sub, slot, n.Sp)
	case token.STAR_EQ:
		ctx.Asm.EmitByte(mul, slot, n.Sp)
	case token.SLASH_EQ:
		ctx.Asm.EmitByte(div, slot, n.Sp)
	default:
		return diag.Atf(diag.InternalCompilerError, n.Sp, "unexpected assignment operator %#v", n.Op)
	}
	return nil
}

func (c *compiler) compileIf(ctx *CompilerContext, n *ast.If) error {
	if err := c.compileExpr(ctx, n.Cond); err != nil {
		return err
	}
	elsePos := ctx.Asm.Jump(bytecode.JumpIfFalse, n.Sp)

	ctx.Scopes.Push(ScopeBlock)
	err := c.compileBlockBody(ctx, n.Then)
	popScope(ctx, n.Sp)
	if err != nil {
		return err
	}

	endPos := ctx.Asm.Jump(bytecode.Jump, n.Sp)
	ctx.Asm.PatchJump(elsePos)

	switch {
	case !n.Else.Valid():
		ctx.Asm.Emit(bytecode.PushUnit, n.Sp)
	default:
		if _, ok := c.tree.Get(n.Else).(*ast.Block); ok {
			ctx.Scopes.Push(ScopeBlock)
			err = c.compileBlockBody(ctx, n.Else)
			popScope(ctx, n.Sp)
		} else {
			err = c.compileExpr(ctx, n.Else)
		}
		if err != nil {
			return err
		}
	}
	ctx.Asm.PatchJump(endPos)
	return nil
}

// compileWhile always leaves exactly one value (Unit) on the stack, since
// `while` is not statement-shaped and a bare `while ... {}` statement is
// parsed as a Discard around it.
func (c *compiler) compileWhile(ctx *CompilerContext, n *ast.While) error {
	entry := ctx.Asm.Pos()
	loop := ctx.Scopes.Push(ScopeLoop)
	loop.EntryPoint = entry

	if err := c.compileExpr(ctx, n.Cond); err != nil {
		return err
	}
	exitPos := ctx.Asm.Jump(bytecode.JumpIfFalse, n.Sp)

	ctx.Scopes.Push(ScopeBlock)
	err := c.compileBlockBody(ctx, n.Body)
	popScope(ctx, n.Sp)
	if err != nil {
		return err
	}
	ctx.Asm.Emit(bytecode.Pop, n.Sp) // body value is discarded each iteration
	ctx.Asm.JumpBack(entry, n.Sp)

	ctx.Asm.PatchJump(exitPos)
	for _, p := range loop.ExitPoints {
		ctx.Asm.PatchJump(p)
	}
	ctx.Scopes.Pop()
	ctx.Asm.Emit(bytecode.PushUnit, n.Sp)
	return nil
}

// compileFor lowers `for x in e { ... }` over IterStart/IterNext/IterStop.
// The iterator IterStart produces lives on the expression stack itself for
// the whole loop, never in a frame slot: frame locals and the expression
// stack are separate regions, and nothing about the iterator needs to be
// addressable by LoadLocal/StoreLocal. Each iteration, IterNext pushes the
// next value on top of the (still-live, one level down) iterator; that
// value is immediately stored into the loop variable's own declared slot
// and popped off the expression stack, leaving the iterator on top again
// for the next IterNext/IterStop.
func (c *compiler) compileFor(ctx *CompilerContext, n *ast.For) error {
	if err := c.compileExpr(ctx, n.Iter); err != nil {
		return err
	}
	ctx.Asm.Emit(bytecode.IterStart, n.Sp)

	loop := ctx.Scopes.Push(ScopeLoop)

	entry := ctx.Asm.Pos()
	loop.EntryPoint = entry
	exitPos := ctx.Asm.Jump(bytecode.IterNext, n.Sp)

	ctx.Scopes.Push(ScopeBlock)
	v := ctx.Scopes.Declare(n.Var, false)
	ctx.Asm.EmitByte(bytecode.StoreLocal, byte(v.Slot), n.Sp)
	ctx.Asm.Emit(bytecode.Pop, n.Sp)
	err := c.compileBlockBody(ctx, n.Body)
	popScope(ctx, n.Sp)
	if err != nil {
		return err
	}
	ctx.Asm.Emit(bytecode.Pop, n.Sp) // body trailing value
	ctx.Asm.JumpBack(entry, n.Sp)

	ctx.Asm.PatchJump(exitPos)
	for _, p := range loop.ExitPoints {
		ctx.Asm.PatchJump(p)
	}
	ctx.Scopes.Pop()
	ctx.Asm.Emit(bytecode.IterStop, n.Sp)
	ctx.Asm.Emit(bytecode.PushUnit, n.Sp)
	return nil
}

// compileFunction compiles sig/body as a new function frame, finalizes it
// into a Chunk stored as a constant in the enclosing (parent) assembler,
// and emits a Closure instruction there referencing it, leaving exactly one
// value (the closure) on the parent's stack.
func (c *compiler) compileFunction(ctx *CompilerContext, sig ast.FuncSig, bodyID ast.NodeId, name string, sp span.Span) error {
	fnCtx := &CompilerContext{Asm: bytecode.NewAssembler(name), Scopes: NewScopeStack(), IsFunction: true}
	c.stack = append(c.stack, fnCtx)

	fnCtx.Scopes.Push(ScopeFunction)
	for _, p := range sig.Params {
		fnCtx.Scopes.Declare(p, true)
	}

	err := c.compileBlockBody(fnCtx, bodyID)
	bodySpan := c.tree.Span(bodyID)
	popScope(fnCtx, bodySpan)
	fnCtx.Asm.Emit(bytecode.Return, bodySpan)
	c.stack = c.stack[:len(c.stack)-1]
	if err != nil {
		return err
	}

	if len(fnCtx.Upvalues) > 255 {
		return tooManyUpvalues(sp)
	}
	chunk := fnCtx.Asm.Finish(fnCtx.Scopes.SlotCount(), len(fnCtx.Upvalues), len(sig.Params))
	fn := &value.ScriptFunction{Name: name, Proto: chunk, NumParams: len(sig.Params)}

	idx, err := ctx.Asm.AddConstant(fn)
	if err != nil {
		return err
	}
	ups := make([]bytecode.UpvalueOperand, len(fnCtx.Upvalues))
	for i, u := range fnCtx.Upvalues {
		ups[i] = bytecode.UpvalueOperand{IsParentLocal: u.ParentLocal, Index: byte(u.Index)}
	}
	ctx.Asm.Closure(byte(idx), ups, sp)
	return nil
}
