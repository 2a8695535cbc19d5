package symbol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	require.True(t, New("x").Equal(New("x")))
	require.False(t, New("x").Equal(New("y")))
}

func TestIsZero(t *testing.T) {
	require.True(t, Symbol{}.IsZero())
	require.False(t, New("x").IsZero())
}
