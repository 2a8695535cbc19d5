package compiler

import (
	"golang.org/x/exp/slices"

	"github.com/mna/dicelang/lang/diag"
	"github.com/mna/dicelang/lang/span"
	"github.com/mna/dicelang/lang/symbol"
)

// ScopeKind identifies the kind of a ScopeContext. Script, Module, and
// Function are terminal: they bound local-slot numbering for the function
// currently being compiled. Block and Loop nest inside a terminal scope
// without starting a new slot range.
type ScopeKind uint8

const (
	ScopeScript ScopeKind = iota
	ScopeModule
	ScopeFunction
	ScopeBlock
	ScopeLoop
)

func (k ScopeKind) terminal() bool {
	return k == ScopeScript || k == ScopeModule || k == ScopeFunction
}

// Variable is one local binding: its name, its frame-relative slot, whether
// it was declared mutable (`let mut` vs `let`/`const`), whether it has been
// closed over by a nested function (and so needs a CloseUpvalue when its
// scope exits), and an Initialized flag. Declare sets Initialized to true
// for every variable, including the function slots that the declaration
// pre-scan reserves before their declarations run, so no variable is ever
// marked uninitialized.
type Variable struct {
	Name        symbol.Symbol
	Slot        int
	Mutable     bool
	Captured    bool
	Initialized bool
}

// ScopeContext is one lexical scope: a Script/Module/Function frame or a
// nested Block/Loop. EntryPoint and ExitPoints are only meaningful for
// ScopeLoop: EntryPoint is the bytecode offset `continue` jumps back to,
// and ExitPoints accumulates the patch positions of every `break` emitted
// inside, patched once the loop's end is known.
type ScopeContext struct {
	Kind       ScopeKind
	Depth      int
	EntryPoint int
	ExitPoints []int
	Variables  []Variable

	startSlot int // nextSlot when this scope was pushed, for slot reuse on Pop
}

// ScopeStack is the stack of lexical scopes owned by one CompilerContext
// (one per function being compiled). Slot numbers are assigned from a
// single counter shared by every scope in the stack, since Block/Loop
// scopes share their enclosing function's frame; Pop releases slots for
// reuse by a later sibling scope but SlotCount (the high-water mark) never
// decreases, per spec.md §3's slot monotonicity invariant.
type ScopeStack struct {
	scopes   []*ScopeContext
	nextSlot int
	maxSlot  int
}

// NewScopeStack returns an empty ScopeStack.
func NewScopeStack() *ScopeStack { return &ScopeStack{} }

// Push opens a new scope of the given kind and returns it.
func (s *ScopeStack) Push(kind ScopeKind) *ScopeContext {
	sc := &ScopeContext{Kind: kind, Depth: len(s.scopes), startSlot: s.nextSlot}
	s.scopes = append(s.scopes, sc)
	return sc
}

// Pop closes the innermost scope, releasing its slots for reuse by a
// subsequent sibling scope in the same function frame.
func (s *ScopeStack) Pop() *ScopeContext {
	sc := s.scopes[len(s.scopes)-1]
	s.scopes = s.scopes[:len(s.scopes)-1]
	s.nextSlot = sc.startSlot
	return sc
}

// Current returns the innermost scope.
func (s *ScopeStack) Current() *ScopeContext { return s.scopes[len(s.scopes)-1] }

// SlotCount reports the high-water mark of slots ever live at once in this
// function frame; this is what the finished Chunk reserves.
func (s *ScopeStack) SlotCount() int { return s.maxSlot }

// Declare allocates the next local slot in the innermost scope for name.
func (s *ScopeStack) Declare(name symbol.Symbol, mutable bool) *Variable {
	sc := s.Current()
	v := Variable{Name: name, Slot: s.nextSlot, Mutable: mutable, Initialized: true}
	sc.Variables = append(sc.Variables, v)
	s.nextSlot++
	if s.nextSlot > s.maxSlot {
		s.maxSlot = s.nextSlot
	}
	return &sc.Variables[len(sc.Variables)-1]
}

// Resolve searches every scope in this stack, innermost first, for name.
func (s *ScopeStack) Resolve(name symbol.Symbol) *Variable {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		vars := s.scopes[i].Variables
		for j := len(vars) - 1; j >= 0; j-- {
			if vars[j].Name.Equal(name) {
				return &vars[j]
			}
		}
	}
	return nil
}

// CurrentLoop returns the nearest enclosing Loop scope, stopping at (and
// not crossing) the function frame's own boundary. It returns nil if
// break/continue would not be valid here.
func (s *ScopeStack) CurrentLoop() *ScopeContext {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if s.scopes[i].Kind == ScopeLoop {
			return s.scopes[i]
		}
		if s.scopes[i].Kind.terminal() {
			return nil
		}
	}
	return nil
}

// UpvalueDescriptor is either a ParentLocal capture (Index is a slot in the
// immediately enclosing function) or an Outer capture (Index is an index
// into the enclosing function's own upvalue array), per spec.md §3.
type UpvalueDescriptor struct {
	ParentLocal bool
	Index       int
	Mutable     bool
}

// addUpvalue de-duplicates descriptors per context: capturing the same
// source variable twice returns the existing index instead of appending,
// satisfying the upvalue-determinism testable property in spec.md §8.
func addUpvalue(ups []UpvalueDescriptor, d UpvalueDescriptor) ([]UpvalueDescriptor, int) {
	if i := slices.IndexFunc(ups, func(u UpvalueDescriptor) bool {
		return u.ParentLocal == d.ParentLocal && u.Index == d.Index
	}); i >= 0 {
		return ups, i
	}
	ups = append(ups, d)
	return ups, len(ups) - 1
}

func tooManyUpvalues(sp span.Span) error {
	return diag.At(diag.TooManyUpvalues, sp, "function captures more than 255 upvalues")
}
