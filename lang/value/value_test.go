package value

import (
	"testing"

	"github.com/mna/dicelang/lang/symbol"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveTruth(t *testing.T) {
	require.False(t, NoneValue.Truth())
	require.False(t, UnitValue.Truth())
	require.True(t, Bool(true).Truth())
	require.False(t, Int(0).Truth())
	require.True(t, Int(1).Truth())
	require.True(t, String("x").Truth())
	require.False(t, String("").Truth())
}

func TestArithOps(t *testing.T) {
	v, err := Add(Int(1), Int(2))
	require.NoError(t, err)
	require.Equal(t, Int(3), v)

	_, err = Add(Int(1), Float(2))
	require.Error(t, err)

	v, err = Div(Int(10), Int(0))
	require.Error(t, err)
	require.Nil(t, v)
}

func TestEqShortCircuitsNoneUnit(t *testing.T) {
	v, err := Eq(NoneValue, NoneValue)
	require.NoError(t, err)
	require.True(t, v.Truth())

	v, err = Eq(NoneValue, UnitValue)
	require.NoError(t, err)
	require.False(t, v.Truth())
}

func TestListLengthViaMethodTable(t *testing.T) {
	l := &List{Items: []Value{Int(1), Int(2), Int(3)}}
	fn, ok := l.Type().Method(symbol.OpLength)
	require.True(t, ok)
	c := fn.(Callable)
	res, err := c.Call([]Value{l})
	require.NoError(t, err)
	require.Equal(t, Int(3), res)
}

func TestRangeLenAndIterate(t *testing.T) {
	r := &Range{From: 1, To: 3}
	require.Equal(t, 2, r.Len())

	incl := &Range{From: 1, To: 3, Inclusive: true}
	require.Equal(t, 3, incl.Len())

	it := incl.iterator()
	var got []int64
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, int64(v.(Int)))
	}
	require.Equal(t, []int64{1, 2, 3}, got)
}

func TestObjectSetField(t *testing.T) {
	o := NewObject(2)
	o.Set(symbol.New("x"), Int(1))
	v, ok := o.Field(symbol.New("x"))
	require.True(t, ok)
	require.Equal(t, Int(1), v)

	_, ok = o.Field(symbol.New("y"))
	require.False(t, ok)
}

func TestRollDeterministic(t *testing.T) {
	r := NewRandRoller(42)
	total := Roll(r, 3, 6)
	require.GreaterOrEqual(t, total, int64(3))
	require.LessOrEqual(t, total, int64(18))
	require.Equal(t, total, Roll(NewRandRoller(42), 3, 6))
}
