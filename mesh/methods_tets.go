// File: methods_tets.go
// Role: Tetrahedron lifecycle: AddTet/DeleteTet/HasTet/Tets and the atomic
// replace primitive every flip is built on.
// Determinism:
//   - Tets() returns tetrahedra in slab order (insertion order with slot reuse).
package mesh

import "fmt"

// HasTet reports whether t (in any even permutation) is live.
func (m *Mesh) HasTet(t Tet) bool {
	_, ok := m.index[t.Canonical()]
	return ok
}

// Tets returns all live tetrahedra in slab order.
// Complexity: O(slab size).
func (m *Mesh) Tets() []Tet {
	out := make([]Tet, 0, m.ntets)
	for i, t := range m.tets {
		if m.used[i] {
			out = append(out, t)
		}
	}
	return out
}

// AddTet inserts the positively oriented tetrahedron t.
//
// Errors:
//   - ErrDegenerateTet if t repeats a vertex or contains Ghost.
//   - ErrVertexNotFound if a vertex is not live.
//   - ErrFaceConflict if any oriented face of t already has an apex.
//
// Complexity: O(1).
func (m *Mesh) AddTet(t Tet) error {
	return m.replace("AddTet", nil, []Tet{t})
}

// DeleteTet removes t. Returns ErrTetNotFound when t is not live.
// Complexity: O(1).
func (m *Mesh) DeleteTet(t Tet) error {
	return m.replace("DeleteTet", []Tet{t}, nil)
}

// replace deletes del and inserts add as one atomic step: either the whole
// change is valid and applied, or the mesh is left untouched.
func (m *Mesh) replace(method string, del, add []Tet) error {
	gone := make(map[Face]struct{}, 4*len(del))
	seen := make(map[Tet]struct{}, len(del))
	for _, t := range del {
		c := t.Canonical()
		if _, ok := m.index[c]; !ok {
			return fmt.Errorf("%s: delete %v: %w", method, t, ErrTetNotFound)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%s: delete %v twice: %w", method, t, ErrTetNotFound)
		}
		seen[c] = struct{}{}
		for _, f := range c.Faces() {
			gone[f.Canonical()] = struct{}{}
		}
	}
	fresh := make(map[Face]struct{}, 4*len(add))
	for _, t := range add {
		if !t.valid() {
			return fmt.Errorf("%s: add %v: %w", method, t, ErrDegenerateTet)
		}
		for _, v := range t {
			if !m.Alive(v) {
				return fmt.Errorf("%s: add %v vertex %d: %w", method, t, v, ErrVertexNotFound)
			}
		}
		for _, f := range t.Faces() {
			cf := f.Canonical()
			if _, ok := fresh[cf]; ok {
				return fmt.Errorf("%s: add %v face %v: %w", method, t, f, ErrFaceConflict)
			}
			if _, ok := m.faces[cf]; ok {
				if _, freed := gone[cf]; !freed {
					return fmt.Errorf("%s: add %v face %v: %w", method, t, f, ErrFaceConflict)
				}
			}
			fresh[cf] = struct{}{}
		}
	}

	for _, t := range del {
		m.unlink(t.Canonical())
	}
	for _, t := range add {
		m.link(t.Canonical())
	}
	return nil
}

func (m *Mesh) link(t Tet) {
	var slot int
	if n := len(m.free); n > 0 {
		slot = m.free[n-1]
		m.free = m.free[:n-1]
		m.tets[slot] = t
		m.used[slot] = true
	} else {
		slot = len(m.tets)
		m.tets = append(m.tets, t)
		m.used = append(m.used, true)
	}
	m.index[t] = slot
	for k, f := range t.Faces() {
		m.faces[f.Canonical()] = t[k]
	}
	for _, v := range t {
		if m.star[v] == nil {
			m.star[v] = make(map[int]struct{}, 24)
		}
		m.star[v][slot] = struct{}{}
	}
	m.ntets++
}

func (m *Mesh) unlink(t Tet) {
	slot := m.index[t]
	delete(m.index, t)
	for _, f := range t.Faces() {
		delete(m.faces, f.Canonical())
	}
	for _, v := range t {
		delete(m.star[v], slot)
	}
	m.used[slot] = false
	m.free = append(m.free, slot)
	m.ntets--
}
