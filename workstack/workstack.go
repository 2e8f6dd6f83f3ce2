// Package workstack implements the worklist of candidate tetrahedra a pass
// operates on: a growable, block-pooled, index-addressed stack.
//
// Contract:
//   - Push returns a stable pointer to a fresh slot; callers fill it in
//     place, before or after further pushes.
//   - Pop on an empty stack panics: underflow is a programmer error.
//   - Restart empties the stack but keeps every block, so refilling up to
//     the high-water mark allocates nothing.
//   - Sort orders entries by non-decreasing Quality from index 0 upward.
//
// A Stack is not safe for concurrent use.
package workstack

import (
	"sort"

	"github.com/katalvlaran/tetimprove/arena"
	"github.com/katalvlaran/tetimprove/mesh"
)

// DefaultBlockSize is the number of candidates per storage block.
const DefaultBlockSize = 1024

// Candidate is one worklist entry: a tetrahedron and its cached quality.
type Candidate struct {
	Verts   mesh.Tet
	Quality float64
}

// Stack is a LIFO of Candidates backed by an arena.
type Stack struct {
	slots *arena.Arena[Candidate]
	top   int // index of the top entry, -1 when empty
	high  int // largest index ever pushed, -1 before the first push
}

// New returns an empty stack with the given block size.
//
// Contracts:
//   - blockSize <= 0 selects DefaultBlockSize.
//   - No block is allocated until the first Push.
//
// Complexity: O(1).
func New(blockSize int) *Stack {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Stack{slots: arena.New[Candidate](blockSize), top: -1, high: -1}
}

// Push grows the stack by one and returns the new top slot for in-place
// filling.
//
// Contracts:
//   - The slot keeps whatever a previous use left in it; callers overwrite
//     every field they read.
//   - The returned pointer stays valid across later pushes and Restart.
//
// Complexity:
//   - O(1) amortized; one block allocation each time HighWater crosses a
//     block boundary, none below it.
func (s *Stack) Push() *Candidate {
	s.top++
	if s.top > s.high {
		s.high = s.top
	}
	return s.slots.Slot(s.top)
}

// PushValue pushes a copy of c.
func (s *Stack) PushValue(c Candidate) {
	*s.Push() = c
}

// Pop removes and returns the top entry.
//
// Contracts:
//   - The slot is kept for reuse; Pop never releases storage.
//
// Errors: none; popping an empty stack panics.
//
// Complexity: O(1).
func (s *Stack) Pop() Candidate {
	if s.top < 0 {
		panic("workstack: pop on empty stack")
	}
	c := *s.slots.Slot(s.top)
	s.top--
	return c
}

// Restart empties the stack without releasing storage.
func (s *Stack) Restart() { s.top = -1 }

// Top returns the index of the top entry, -1 when empty.
func (s *Stack) Top() int { return s.top }

// Len returns the number of entries.
func (s *Stack) Len() int { return s.top + 1 }

// At returns a pointer to entry i, 0 <= i <= Top(). Panics otherwise.
func (s *Stack) At(i int) *Candidate {
	if i < 0 || i > s.top {
		panic("workstack: index out of range")
	}
	return s.slots.Slot(i)
}

// HighWater returns the largest index ever pushed, -1 if none.
func (s *Stack) HighWater() int { return s.high }

// Cap returns the number of allocated slots.
func (s *Stack) Cap() int { return s.slots.Cap() }

// Sort reorders the entries into non-decreasing Quality, lowest at index 0.
// The entries are extracted as quality/index pairs, sorted, and pushed
// back in order.
//
// Contracts:
//   - Stable: ties keep their relative order.
//   - Len and HighWater are unchanged.
//
// Complexity:
//   - O(n log n) time, O(n) scratch.
func (s *Stack) Sort() {
	n := s.Len()
	if n < 2 {
		return
	}
	type pair struct {
		q float64
		i int
	}
	pairs := make([]pair, n)
	saved := make([]Candidate, n)
	for i := 0; i < n; i++ {
		c := s.slots.Slot(i)
		pairs[i] = pair{q: c.Quality, i: i}
		saved[i] = *c
	}
	sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].q < pairs[b].q })

	s.Restart()
	for _, p := range pairs {
		*s.Push() = saved[p.i]
	}
}

// Copy replaces the contents of dst with those of src, bottom to top.
//
// Contracts:
//   - src is not modified; dst keeps its storage.
//
// Complexity: O(n) for n = src.Len().
func Copy(dst, src *Stack) {
	dst.Restart()
	for i := 0; i < src.Len(); i++ {
		*dst.Push() = *src.slots.Slot(i)
	}
}

// Append pushes every entry of src onto dst unless dst already holds a
// tetrahedron with the same vertex set.
//
// Contracts:
//   - Entries keep their src order; the first of several duplicates wins.
//   - Vertex order inside a tetrahedron does not matter for the check.
//
// Complexity:
//   - O(n·m) for n = src.Len(), m = dst.Len(): a linear scan of dst per
//     src entry. Worklists stay small.
func Append(dst, src *Stack) {
	for i := 0; i < src.Len(); i++ {
		c := *src.slots.Slot(i)
		dup := false
		for j := 0; j < dst.Len(); j++ {
			if dst.slots.Slot(j).Verts.SameVertices(c.Verts) {
				dup = true
				break
			}
		}
		if !dup {
			*dst.Push() = c
		}
	}
}
