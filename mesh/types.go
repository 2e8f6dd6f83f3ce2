package mesh

import (
	"errors"
	"fmt"
)

// Sentinel errors for mesh operations.
var (
	// ErrVertexNotFound indicates a handle that does not name a live vertex.
	ErrVertexNotFound = errors.New("mesh: vertex not found")

	// ErrVertexInUse indicates an attempt to delete a vertex that still has incident tetrahedra.
	ErrVertexInUse = errors.New("mesh: vertex still has incident tetrahedra")

	// ErrVertexAlive indicates an attempt to revive a vertex that is already live.
	ErrVertexAlive = errors.New("mesh: vertex already alive")

	// ErrTetNotFound indicates a tetrahedron that is not in the complex.
	ErrTetNotFound = errors.New("mesh: tetrahedron not found")

	// ErrFaceConflict indicates that adding a tetrahedron would give an oriented
	// face two apices, i.e. the result would not be a valid complex.
	ErrFaceConflict = errors.New("mesh: oriented face already has an apex")

	// ErrDegenerateTet indicates a tetrahedron with a repeated or ghost vertex.
	ErrDegenerateTet = errors.New("mesh: degenerate tetrahedron")

	// ErrInverted indicates a tetrahedron with non-positive volume.
	ErrInverted = errors.New("mesh: non-positive tetrahedron volume")
)

// VertexID is a dense handle into the vertex slab.
type VertexID int

// Ghost is the outer sentinel: the apex beyond every boundary face.
const Ghost VertexID = -1

// Tet is an oriented tetrahedron. Even permutations of its vertices denote
// the same tetrahedron; odd ones denote its mirror image.
type Tet [4]VertexID

// Face is an oriented triangle. Cyclic rotations denote the same face.
type Face [3]VertexID

// Edge is an unordered vertex pair plus one canonical tetrahedron containing it.
type Edge struct {
	A, B VertexID
	Tet  Tet
}

// Canonical returns the even permutation of t that starts with its smallest
// vertex and continues with the smallest of the remaining three.
func (t Tet) Canonical() Tet {
	m := 0
	for i := 1; i < 4; i++ {
		if t[i] < t[m] {
			m = i
		}
	}
	switch m {
	case 1:
		t = Tet{t[1], t[0], t[3], t[2]}
	case 2:
		t = Tet{t[2], t[3], t[0], t[1]}
	case 3:
		t = Tet{t[3], t[2], t[1], t[0]}
	}
	// Rotate the tail cyclically; cyclic 3-rotations are even.
	switch {
	case t[2] < t[1] && t[2] < t[3]:
		t = Tet{t[0], t[2], t[3], t[1]}
	case t[3] < t[1] && t[3] < t[2]:
		t = Tet{t[0], t[3], t[1], t[2]}
	}
	return t
}

// Has reports whether v is a vertex of t.
func (t Tet) Has(v VertexID) bool {
	return t[0] == v || t[1] == v || t[2] == v || t[3] == v
}

// Index returns the position of v in t, or -1.
func (t Tet) Index(v VertexID) int {
	for i := range t {
		if t[i] == v {
			return i
		}
	}
	return -1
}

// SameVertices reports whether t and u have the same vertex set,
// regardless of order or orientation.
func (t Tet) SameVertices(u Tet) bool {
	for _, v := range t {
		if !u.Has(v) {
			return false
		}
	}
	return true
}

// Faces returns the four oriented faces of t with their apices: entry i is
// the face opposite t[i], oriented so its normal points towards t[i].
func (t Tet) Faces() [4]Face {
	a, b, c, d := t[0], t[1], t[2], t[3]
	return [4]Face{{b, d, c}, {a, c, d}, {a, d, b}, {a, b, c}}
}

// WithEdgeFirst returns the even permutation of t that lists u and v first,
// and false if t does not contain both.
func (t Tet) WithEdgeFirst(u, v VertexID) (Tet, bool) {
	i, j := t.Index(u), t.Index(v)
	if i < 0 || j < 0 || i == j {
		return t, false
	}
	var rest [2]VertexID
	n := 0
	for k := 0; k < 4; k++ {
		if k != i && k != j {
			rest[n] = t[k]
			n++
		}
	}
	cand := Tet{u, v, rest[0], rest[1]}
	if parity(t, cand) {
		return cand, true
	}
	return Tet{u, v, rest[1], rest[0]}, true
}

// WithFirst returns the even permutation of t that lists v first.
func (t Tet) WithFirst(v VertexID) (Tet, bool) {
	i := t.Index(v)
	if i < 0 {
		return t, false
	}
	switch i {
	case 1:
		return Tet{t[1], t[0], t[3], t[2]}, true
	case 2:
		return Tet{t[2], t[3], t[0], t[1]}, true
	case 3:
		return Tet{t[3], t[2], t[1], t[0]}, true
	}
	return t, true
}

// parity reports whether u is an even permutation of t (same vertex set assumed).
func parity(t, u Tet) bool {
	var p [4]int
	for i := range u {
		p[i] = t.Index(u[i])
	}
	inv := 0
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if p[i] > p[j] {
				inv++
			}
		}
	}
	return inv%2 == 0
}

// Canonical returns the rotation of f that starts with its smallest vertex.
func (f Face) Canonical() Face {
	switch {
	case f[1] < f[0] && f[1] < f[2]:
		return Face{f[1], f[2], f[0]}
	case f[2] < f[0] && f[2] < f[1]:
		return Face{f[2], f[0], f[1]}
	}
	return f
}

// Reversed returns f with opposite orientation.
func (f Face) Reversed() Face {
	return Face{f[0], f[2], f[1]}
}

// Has reports whether v is a vertex of f.
func (f Face) Has(v VertexID) bool {
	return f[0] == v || f[1] == v || f[2] == v
}

// String implements fmt.Stringer.
func (t Tet) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", t[0], t[1], t[2], t[3])
}

func (t Tet) valid() bool {
	for i := 0; i < 4; i++ {
		if t[i] < 0 {
			return false
		}
		for j := i + 1; j < 4; j++ {
			if t[i] == t[j] {
				return false
			}
		}
	}
	return true
}
