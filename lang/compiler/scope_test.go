package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/dicelang/lang/symbol"
)

func TestSlotReuseAndMonotonicity(t *testing.T) {
	s := NewScopeStack()
	s.Push(ScopeScript)

	s.Declare(symbol.New("a"), false)
	s.Push(ScopeBlock)
	s.Declare(symbol.New("b"), false)
	require.Equal(t, 2, s.SlotCount())
	s.Pop() // releases b's slot

	s.Push(ScopeBlock)
	v := s.Declare(symbol.New("c"), false)
	require.Equal(t, 1, v.Slot) // reused b's slot
	require.Equal(t, 2, s.SlotCount(), "high-water mark must not decrease")
}

func TestResolveFindsInnermostShadow(t *testing.T) {
	s := NewScopeStack()
	s.Push(ScopeScript)
	s.Declare(symbol.New("x"), false)

	s.Push(ScopeBlock)
	inner := s.Declare(symbol.New("x"), true)

	found := s.Resolve(symbol.New("x"))
	require.Same(t, inner, found)
}

func TestCurrentLoopStopsAtFunctionBoundary(t *testing.T) {
	s := NewScopeStack()
	s.Push(ScopeScript)
	s.Push(ScopeLoop)
	s.Push(ScopeFunction)

	require.Nil(t, s.CurrentLoop(), "a function body is not inside its enclosing script's loop")
}

func TestAddUpvalueDeduplicates(t *testing.T) {
	var ups []UpvalueDescriptor
	var i1, i2, i3 int
	ups, i1 = addUpvalue(ups, UpvalueDescriptor{ParentLocal: true, Index: 0})
	ups, i2 = addUpvalue(ups, UpvalueDescriptor{ParentLocal: true, Index: 1})
	ups, i3 = addUpvalue(ups, UpvalueDescriptor{ParentLocal: true, Index: 0})

	require.Equal(t, 0, i1)
	require.Equal(t, 1, i2)
	require.Equal(t, i1, i3, "capturing the same source variable twice must return the existing index")
	require.Len(t, ups, 2)
}
