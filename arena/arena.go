// Package arena provides block-pooled, index-addressed storage.
//
// An Arena[T] hands out slots by dense integer index. Storage grows one
// fixed-size block at a time and is never released, so a *T obtained from
// Slot stays valid for the arena's lifetime: growing the arena appends a new
// block and never moves an existing one.
//
// The work stack and the edit journal are both built on it.
//
// Complexity:
//   - Slot(i) is O(1) for i < Cap(), O(blocks added) otherwise.
//   - Memory is Cap()·sizeof(T) plus one slice header per block.
package arena

import "fmt"

// DefaultBlockSize is used when New is given a non-positive size.
const DefaultBlockSize = 1024

// Arena is a growable array of T stored in fixed-size blocks.
// The zero value is not usable; call New.
type Arena[T any] struct {
	blockSize int
	blocks    [][]T
}

// New returns an empty arena whose blocks hold blockSize slots each.
func New[T any](blockSize int) *Arena[T] {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Arena[T]{blockSize: blockSize}
}

// Slot returns a stable pointer to slot i, allocating blocks as needed.
// Panics on negative i.
func (a *Arena[T]) Slot(i int) *T {
	if i < 0 {
		panic(fmt.Sprintf("arena: negative slot %d", i))
	}
	b := i / a.blockSize
	for len(a.blocks) <= b {
		a.blocks = append(a.blocks, make([]T, a.blockSize))
	}
	return &a.blocks[b][i%a.blockSize]
}

// Cap returns the number of allocated slots.
func (a *Arena[T]) Cap() int { return len(a.blocks) * a.blockSize }

// Blocks returns the number of allocated blocks.
func (a *Arena[T]) Blocks() int { return len(a.blocks) }

// BlockSize returns the number of slots per block.
func (a *Arena[T]) BlockSize() int { return a.blockSize }
