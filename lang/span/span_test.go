package span

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnion(t *testing.T) {
	cases := []struct {
		a, b, want Span
	}{
		{Make(1, 4), Make(2, 3), Make(1, 4)},
		{Make(1, 2), Make(5, 8), Make(1, 8)},
		{Make(5, 8), Make(1, 2), Make(1, 8)},
		{Make(0, 0), Make(0, 0), Make(0, 0)},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.a.Union(c.b))
	}
}

func TestSlice(t *testing.T) {
	src := "let x = 1"
	require.Equal(t, "let", Make(0, 3).Slice(src))
	require.Equal(t, "x", Make(4, 5).Slice(src))
}

func TestEmpty(t *testing.T) {
	require.True(t, At(3).Empty())
	require.False(t, Make(3, 4).Empty())
}
