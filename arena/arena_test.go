package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tetimprove/arena"
)

func TestArena_StableSlots(t *testing.T) {
	a := arena.New[int](4)
	p := a.Slot(1)
	*p = 42
	assert.Equal(t, 1, a.Blocks())
	assert.Equal(t, 4, a.Cap())

	// Growing past several blocks must not move slot 1.
	*a.Slot(17) = 7
	assert.Equal(t, 5, a.Blocks())
	assert.Same(t, p, a.Slot(1), "slot pointer must stay stable")
	assert.Equal(t, 42, *a.Slot(1))
	assert.Equal(t, 7, *a.Slot(17))
}

func TestArena_DefaultBlockSize(t *testing.T) {
	a := arena.New[struct{}](0)
	require.Equal(t, arena.DefaultBlockSize, a.BlockSize())
	assert.Zero(t, a.Cap())
}

func TestArena_NegativePanics(t *testing.T) {
	a := arena.New[int](2)
	assert.Panics(t, func() { a.Slot(-1) })
}
