// File: methods_adjacent.go
// Role: adjacency and boundary queries over the oriented-face map.
// Determinism:
//   - IncidentTets and BoundaryFaces follow slab order.
//   - EdgeRing walks the ring in orientation order.
package mesh

import (
	"fmt"
	"sort"
)

// Apex returns the apex of oriented face f: the vertex d such that
// (f[0],f[1],f[2],d) is live. The boolean is false when no such tetrahedron
// exists.
func (m *Mesh) Apex(f Face) (VertexID, bool) {
	d, ok := m.faces[f.Canonical()]
	return d, ok
}

// Opposite returns the apex of the tetrahedron across face k of t (the face
// opposite t[k]), or Ghost when that face is on the boundary.
func (m *Mesh) Opposite(t Tet, k int) VertexID {
	f := t.Faces()[k]
	if d, ok := m.Apex(f.Reversed()); ok {
		return d
	}
	return Ghost
}

// IsBoundaryFace reports whether oriented face f of a live tetrahedron has
// no tetrahedron on its other side.
func (m *Mesh) IsBoundaryFace(f Face) bool {
	_, ok := m.Apex(f.Reversed())
	return !ok
}

// IncidentTets returns the live tetrahedra containing v, in slab order.
// Complexity: O(deg(v) log deg(v)).
func (m *Mesh) IncidentTets(v VertexID) []Tet {
	if !m.Alive(v) {
		return nil
	}
	slots := make([]int, 0, len(m.star[v]))
	for s := range m.star[v] {
		slots = append(slots, s)
	}
	sort.Ints(slots)
	out := make([]Tet, len(slots))
	for i, s := range slots {
		out[i] = m.tets[s]
	}
	return out
}

// Neighbors returns the vertices sharing an edge with v, ascending.
func (m *Mesh) Neighbors(v VertexID) []VertexID {
	set := make(map[VertexID]struct{})
	for _, t := range m.IncidentTets(v) {
		for _, u := range t {
			if u != v {
				set[u] = struct{}{}
			}
		}
	}
	out := make([]VertexID, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TetsOfEdge returns the live tetrahedra containing both u and v.
func (m *Mesh) TetsOfEdge(u, v VertexID) []Tet {
	var out []Tet
	for _, t := range m.IncidentTets(u) {
		if t.Has(v) {
			out = append(out, t)
		}
	}
	return out
}

// EdgeRing returns the vertices around edge (u,v) in orientation order: for
// consecutive ring entries r[i], r[i+1] the tetrahedron (u,v,r[i],r[i+1]) is
// live. closed is true for interior edges, in which case (u,v,r[n-1],r[0]) is
// live as well. For boundary edges r[0] and r[n-1] lie on boundary faces.
// Returns ErrTetNotFound if no tetrahedron contains the edge.
// Complexity: O(deg(u) + ring).
func (m *Mesh) EdgeRing(u, v VertexID) (ring []VertexID, closed bool, err error) {
	var start Tet
	found := false
	for _, t := range m.IncidentTets(u) {
		if e, ok := t.WithEdgeFirst(u, v); ok {
			start, found = e, true
			break
		}
	}
	if !found {
		return nil, false, fmt.Errorf("EdgeRing(%d,%d): %w", u, v, ErrTetNotFound)
	}

	ring = []VertexID{start[2], start[3]}
	limit := m.ntets + 2
	for len(ring) <= limit {
		last := ring[len(ring)-1]
		r, ok := m.Apex(Face{u, v, last})
		if !ok {
			break
		}
		if r == ring[0] {
			return ring, true, nil
		}
		ring = append(ring, r)
	}

	// Open ring: walk backwards from the first tet to the other boundary face.
	for len(ring) <= limit {
		s, ok := m.Apex(Face{u, ring[0], v})
		if !ok {
			break
		}
		ring = append([]VertexID{s}, ring...)
	}
	return ring, false, nil
}

// BoundaryFaces returns every boundary face once, oriented outward.
// Complexity: O(T).
func (m *Mesh) BoundaryFaces() []Face {
	var out []Face
	for i, t := range m.tets {
		if !m.used[i] {
			continue
		}
		for _, f := range t.Faces() {
			if m.IsBoundaryFace(f) {
				out = append(out, f.Reversed())
			}
		}
	}
	return out
}

// VertexBoundaryFaces returns the boundary faces incident to v, oriented outward.
func (m *Mesh) VertexBoundaryFaces(v VertexID) []Face {
	var out []Face
	for _, t := range m.IncidentTets(v) {
		for k, f := range t.Faces() {
			if t[k] == v {
				continue
			}
			if m.IsBoundaryFace(f) {
				out = append(out, f.Reversed())
			}
		}
	}
	return out
}

// IsBoundaryVertex reports whether v lies on at least one boundary face.
func (m *Mesh) IsBoundaryVertex(v VertexID) bool {
	for _, t := range m.IncidentTets(v) {
		for k, f := range t.Faces() {
			if t[k] != v && m.IsBoundaryFace(f) {
				return true
			}
		}
	}
	return false
}

// IsBoundaryEdge reports whether edge (u,v) lies on a boundary face.
func (m *Mesh) IsBoundaryEdge(u, v VertexID) bool {
	_, closed, err := m.EdgeRing(u, v)
	return err == nil && !closed
}

// Edges returns every edge once with one canonical tetrahedron that contains
// it, in order of first appearance in slab order.
// Complexity: O(T).
func (m *Mesh) Edges() []Edge {
	type key struct{ a, b VertexID }
	seen := make(map[key]struct{}, m.ntets*2)
	var out []Edge
	for i, t := range m.tets {
		if !m.used[i] {
			continue
		}
		for _, p := range edgePairs {
			a, b := t[p[0]], t[p[1]]
			if a > b {
				a, b = b, a
			}
			k := key{a, b}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, Edge{A: a, B: b, Tet: t})
		}
	}
	return out
}

var edgePairs = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
