// Package ast defines the arena-allocated syntax tree produced by the
// parser. Nodes reference each other by opaque NodeId rather than by
// pointer: the arena owns every node, cloning a subtree handle is just
// copying a NodeId, and there is no risk of introducing a reference cycle
// during a compile pass that rewrites parts of the tree.
package ast

import "github.com/mna/dicelang/lang/span"

// NodeId identifies a node stored in a Tree's arena. Ids count up from 0 in
// insertion order; InvalidNodeId (the largest NodeId) marks a missing
// optional child (e.g. an `if` with no `else`, or a `return` with no
// expression).
type NodeId uint32

// InvalidNodeId is the sentinel NodeId meaning "no node".
const InvalidNodeId NodeId = ^NodeId(0)

// Valid reports whether id refers to a real node.
func (id NodeId) Valid() bool { return id != InvalidNodeId }

// Tree is the arena of nodes produced by parsing one source chunk. The tree
// is logically a tree rooted at Root, even though nodes are addressed by
// integer index into a flat slice.
type Tree struct {
	Source string
	nodes  []Node
	Root   NodeId
}

// New creates an empty Tree over the given source text.
func New(source string) *Tree {
	return &Tree{Source: source, Root: InvalidNodeId}
}

// Add inserts n into the arena and returns its NodeId.
//
// Invariant: every NodeId returned by Add (and, by construction, every
// NodeId stored as a child reference) resolves in the arena via Get.
func (t *Tree) Add(n Node) NodeId {
	t.nodes = append(t.nodes, n)
	return NodeId(len(t.nodes) - 1)
}

// Get resolves id to its Node. It panics if id is out of range, which can
// only happen on a tree built outside of the parser's own bookkeeping.
func (t *Tree) Get(id NodeId) Node { return t.nodes[id] }

// Len returns the number of nodes currently in the arena.
func (t *Tree) Len() int { return len(t.nodes) }

// Span returns the span of the node identified by id.
func (t *Tree) Span(id NodeId) span.Span { return t.Get(id).Span() }

// Node is the interface implemented by every syntax tree node variant.
type Node interface {
	// Kind identifies which concrete node variant this is.
	Kind() Kind
	// Span reports the node's source byte range.
	Span() span.Span
}

// Kind enumerates every node variant in the tree.
type Kind uint8

//nolint:revive
const (
	KindIdentLit Kind = iota
	KindNoneLit
	KindUnitLit
	KindIntLit
	KindFloatLit
	KindStringLit
	KindBoolLit
	KindListLit
	KindObjectLit
	KindSafeAccess
	KindFieldAccess
	KindIndex
	KindCall
	KindUnary
	KindBinary
	KindAssign
	KindVarDecl
	KindFuncDecl
	KindFuncLit
	KindIf
	KindWhile
	KindFor
	KindBlock
	KindBreak
	KindContinue
	KindReturn
	KindDiscard
)

var kindNames = [...]string{
	KindIdentLit:    "ident",
	KindNoneLit:     "none",
	KindUnitLit:     "unit",
	KindIntLit:      "int",
	KindFloatLit:    "float",
	KindStringLit:   "string",
	KindBoolLit:     "bool",
	KindListLit:     "list",
	KindObjectLit:   "object",
	KindSafeAccess:  "safe-access",
	KindFieldAccess: "field-access",
	KindIndex:       "index",
	KindCall:        "call",
	KindUnary:       "unary",
	KindBinary:      "binary",
	KindAssign:      "assign",
	KindVarDecl:     "var-decl",
	KindFuncDecl:    "func-decl",
	KindFuncLit:     "func-lit",
	KindIf:          "if",
	KindWhile:       "while",
	KindFor:         "for",
	KindBlock:       "block",
	KindBreak:       "break",
	KindContinue:    "continue",
	KindReturn:      "return",
	KindDiscard:     "discard",
}

func (k Kind) String() string { return kindNames[k] }
