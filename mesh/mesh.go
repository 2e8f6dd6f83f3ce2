// File: mesh.go
// Role: Mesh type, constructors, vertex lifecycle.
// Determinism:
//   - Vertices() returns live handles in ascending order.
//   - Handles are never reused; a deleted slot stays dead until revived.
package mesh

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/geom"
)

// Mesh is an in-memory tetrahedral complex.
type Mesh struct {
	// Vertex slab.
	pos  []r3.Vec
	live []bool
	// star[v] holds the tet slots incident to v.
	star []map[int]struct{}

	// Tet slab; tets[i] is canonical when used[i].
	tets  []Tet
	used  []bool
	free  []int
	index map[Tet]int

	// faces maps a canonical oriented face to its apex.
	faces map[Face]VertexID

	nlive int
	ntets int
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{
		index: make(map[Tet]int),
		faces: make(map[Face]VertexID),
	}
}

// FromArrays builds a mesh from a point list and a tetrahedron list, in the
// nodes/tetras form produced by lattice generators. Negatively oriented
// tetrahedra are flipped; zero-volume tetrahedra are rejected.
// Complexity: O(V + T).
func FromArrays(points []r3.Vec, tets [][4]int) (*Mesh, error) {
	m := New()
	for _, p := range points {
		m.AddVertex(p)
	}
	for k, raw := range tets {
		t := Tet{VertexID(raw[0]), VertexID(raw[1]), VertexID(raw[2]), VertexID(raw[3])}
		if !t.valid() {
			return nil, fmt.Errorf("FromArrays: tet %d %v: %w", k, t, ErrDegenerateTet)
		}
		for _, v := range t {
			if int(v) >= len(points) {
				return nil, fmt.Errorf("FromArrays: tet %d vertex %d: %w", k, v, ErrVertexNotFound)
			}
		}
		o := m.orient(t)
		if o == 0 {
			return nil, fmt.Errorf("FromArrays: tet %d %v: %w", k, t, ErrInverted)
		}
		if o < 0 {
			t[2], t[3] = t[3], t[2]
		}
		if err := m.AddTet(t); err != nil {
			return nil, fmt.Errorf("FromArrays: tet %d: %w", k, err)
		}
	}
	return m, nil
}

// AddVertex appends a live vertex at p and returns its handle.
// Complexity: O(1) amortized.
func (m *Mesh) AddVertex(p r3.Vec) VertexID {
	m.pos = append(m.pos, p)
	m.live = append(m.live, true)
	m.star = append(m.star, nil)
	m.nlive++
	return VertexID(len(m.pos) - 1)
}

// KillVertex marks v dead. The vertex must have no incident tetrahedra.
func (m *Mesh) KillVertex(v VertexID) error {
	if !m.Alive(v) {
		return fmt.Errorf("KillVertex(%d): %w", v, ErrVertexNotFound)
	}
	if len(m.star[v]) > 0 {
		return fmt.Errorf("KillVertex(%d): %w", v, ErrVertexInUse)
	}
	m.live[v] = false
	m.nlive--
	return nil
}

// ReviveVertex brings a dead slot back to life at p.
func (m *Mesh) ReviveVertex(v VertexID, p r3.Vec) error {
	if v < 0 || int(v) >= len(m.pos) {
		return fmt.Errorf("ReviveVertex(%d): %w", v, ErrVertexNotFound)
	}
	if m.live[v] {
		return fmt.Errorf("ReviveVertex(%d): %w", v, ErrVertexAlive)
	}
	m.live[v] = true
	m.pos[v] = p
	m.nlive++
	return nil
}

// Alive reports whether v names a live vertex.
func (m *Mesh) Alive(v VertexID) bool {
	return v >= 0 && int(v) < len(m.live) && m.live[v]
}

// Position returns the coordinates of v. Dead slots keep their last position.
func (m *Mesh) Position(v VertexID) r3.Vec {
	return m.pos[v]
}

// SetPosition moves v to p. Geometry is not validated.
func (m *Mesh) SetPosition(v VertexID, p r3.Vec) {
	m.pos[v] = p
}

// NumVertices returns the number of live vertices.
func (m *Mesh) NumVertices() int { return m.nlive }

// VertexCap returns the size of the vertex slab (live and dead slots).
func (m *Mesh) VertexCap() int { return len(m.pos) }

// NumTets returns the number of live tetrahedra.
func (m *Mesh) NumTets() int { return m.ntets }

// Vertices returns the live vertex handles in ascending order.
func (m *Mesh) Vertices() []VertexID {
	out := make([]VertexID, 0, m.nlive)
	for i, ok := range m.live {
		if ok {
			out = append(out, VertexID(i))
		}
	}
	return out
}

// Points returns the coordinates of the vertices of t.
func (m *Mesh) Points(t Tet) [4]r3.Vec {
	return [4]r3.Vec{m.pos[t[0]], m.pos[t[1]], m.pos[t[2]], m.pos[t[3]]}
}

// Volume returns the signed volume of t.
func (m *Mesh) Volume(t Tet) float64 {
	p := m.Points(t)
	return geom.Volume(p[0], p[1], p[2], p[3])
}

func (m *Mesh) orient(t Tet) float64 {
	p := m.Points(t)
	return geom.Orient(p[0], p[1], p[2], p[3])
}

// Snapshot is a comparable picture of a mesh: live vertex positions and the
// sorted canonical tetrahedra.
type Snapshot struct {
	Positions map[VertexID]r3.Vec
	Tets      []Tet
}

// Snapshot captures the current state of m.
// Complexity: O(V + T log T).
func (m *Mesh) Snapshot() Snapshot {
	s := Snapshot{Positions: make(map[VertexID]r3.Vec, m.nlive)}
	for _, v := range m.Vertices() {
		s.Positions[v] = m.pos[v]
	}
	s.Tets = m.Tets()
	sort.Slice(s.Tets, func(i, j int) bool { return lessTet(s.Tets[i], s.Tets[j]) })
	return s
}

func lessTet(a, b Tet) bool {
	for k := 0; k < 4; k++ {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return false
}

// Validate checks the complex: every tetrahedron has live vertices and
// positive volume, and every face map entry is backed by a live tetrahedron.
// Complexity: O(T).
func (m *Mesh) Validate() error {
	for i, t := range m.tets {
		if !m.used[i] {
			continue
		}
		for _, v := range t {
			if !m.Alive(v) {
				return fmt.Errorf("Validate: tet %v vertex %d: %w", t, v, ErrVertexNotFound)
			}
		}
		if m.orient(t) <= 0 {
			return fmt.Errorf("Validate: tet %v: %w", t, ErrInverted)
		}
		for k, f := range t.Faces() {
			if apex, ok := m.faces[f.Canonical()]; !ok || apex != t[k] {
				return fmt.Errorf("Validate: tet %v face %v: %w", t, f, ErrFaceConflict)
			}
		}
	}
	if len(m.faces) != 4*m.ntets {
		return fmt.Errorf("Validate: %d faces for %d tets: %w", len(m.faces), m.ntets, ErrFaceConflict)
	}
	return nil
}
