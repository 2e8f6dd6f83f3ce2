// File: topo.go
// Role: topological improvement of one element: 2-3 face flips, 3-2 flips,
// general edge removal and boundary 2-2 flips.
//
// Every candidate is scored on the region it replaces. The move with the
// best new local minimum is applied, provided that minimum is strictly
// higher than the old one and every new element is positively oriented.
//
// Edge removal re-triangulates the polygon formed by the ring of an interior
// edge (u,w). A triangle (r_i,r_k,r_j) of that polygon yields the pair
// (r_i,r_k,r_j,w),(r_i,r_j,r_k,u). The triangulation maximising the worst
// element is found by dynamic programming over polygon intervals.
// Complexity: O(n³) per edge of ring size n.
package improve

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/geom"
	"github.com/katalvlaran/tetimprove/mesh"
)

// topoMove is one evaluated candidate. Attempts are counted when a move is
// evaluated; successes when it is applied.
type topoMove struct {
	newMin float64
	stat   *OpStats
	apply  func() error
}

// improveTopology evaluates every local re-triangulation touching t and
// applies the best strictly improving one.
func (s *Session) improveTopology(t mesh.Tet) bool {
	var best *topoMove
	consider := func(m *topoMove, oldMin float64) {
		if m == nil || !(m.newMin > oldMin) {
			return
		}
		if best == nil || m.newMin > best.newMin {
			best = m
		}
	}

	for k := range t {
		consider(s.face23(t, k))
	}
	for _, p := range edgeOrder(t) {
		consider(s.edgeMove(p[0], p[1]))
	}
	if best == nil {
		return false
	}

	mark := s.Mark()
	if err := best.apply(); err != nil {
		_ = s.Rollback(mark)
		return false
	}
	best.stat.Successes++
	return true
}

// improveAround runs improveTopology over the current star of v.
func (s *Session) improveAround(v mesh.VertexID) {
	for _, t := range s.mesh.IncidentTets(v) {
		if s.mesh.HasTet(t) {
			s.improveTopology(t)
		}
	}
}

func (s *Session) hasEdge(a, b mesh.VertexID) bool {
	return len(s.mesh.TetsOfEdge(a, b)) > 0
}

// face23 scores the 2-3 flip of the face of t opposite t[k].
func (s *Session) face23(t mesh.Tet, k int) (*topoMove, float64) {
	e := s.mesh.Opposite(t, k)
	if e == mesh.Ghost {
		return nil, 0
	}
	f := t.Faces()[k]
	a, b, c, d := f[0], f[1], f[2], t[k]
	if s.hasEdge(d, e) {
		return nil, 0
	}
	oldMin := s.minQuality([]mesh.Tet{t, {a, c, b, e}})
	added := []mesh.Tet{{a, b, e, d}, {b, c, e, d}, {c, a, e, d}}
	q, ok := s.scoreTets(added, s.mesh.Position)
	s.stats.Flip23.Attempts++
	if !ok {
		return nil, 0
	}
	return &topoMove{
		newMin: q,
		stat:   &s.stats.Flip23,
		apply:  func() error { return s.journal.Flip23(a, b, c, d, e) },
	}, oldMin
}

// edgeMove scores the removal of edge (u,w): a 3-2 flip or a general edge
// removal for interior edges, a 2-2 flip for boundary edges.
func (s *Session) edgeMove(u, w mesh.VertexID) (*topoMove, float64) {
	ring, closed, err := s.mesh.EdgeRing(u, w)
	if err != nil {
		return nil, 0
	}
	switch {
	case closed && len(ring) == 3:
		return s.flip32(u, w, ring)
	case closed && s.opts.EdgeRemoval && len(ring) <= s.opts.MaxEdgeRemovalRing:
		return s.removeEdge(u, w, ring)
	case !closed && len(ring) == 3:
		return s.flip22(u, w, ring)
	}
	return nil, 0
}

func (s *Session) ringTets(u, w mesh.VertexID, ring []mesh.VertexID, closed bool) []mesh.Tet {
	n := len(ring)
	out := make([]mesh.Tet, 0, n)
	for i := 0; i+1 < n; i++ {
		out = append(out, mesh.Tet{u, w, ring[i], ring[i+1]})
	}
	if closed {
		out = append(out, mesh.Tet{u, w, ring[n-1], ring[0]})
	}
	return out
}

func (s *Session) flip32(u, w mesh.VertexID, ring []mesh.VertexID) (*topoMove, float64) {
	a, b, c := ring[0], ring[1], ring[2]
	oldMin := s.minQuality(s.ringTets(u, w, ring, true))
	s.stats.Flip32.Attempts++
	if _, taken := s.mesh.Apex(mesh.Face{a, b, c}); taken {
		return nil, 0
	}
	if _, taken := s.mesh.Apex(mesh.Face{a, c, b}); taken {
		return nil, 0
	}
	q, ok := s.scoreTets([]mesh.Tet{{a, b, c, w}, {a, c, b, u}}, s.mesh.Position)
	if !ok {
		return nil, 0
	}
	return &topoMove{
		newMin: q,
		stat:   &s.stats.Flip32,
		apply:  func() error { return s.journal.Flip32(a, b, c, w, u) },
	}, oldMin
}

// flip22 swaps the diagonal of the flat boundary quadrilateral around the
// boundary edge (x,y) whose open ring is [r0,r1,r2].
func (s *Session) flip22(x, y mesh.VertexID, ring []mesh.VertexID) (*topoMove, float64) {
	r0, r1, r2 := ring[0], ring[1], ring[2]
	pos := s.mesh.Position
	n0, ok0 := geom.UnitNormal(pos(x), pos(y), pos(r0))
	n2, ok2 := geom.UnitNormal(pos(x), pos(r2), pos(y))
	if !ok0 || !ok2 || 1-math.Abs(r3.Dot(n0, n2)) > s.cls.Tolerance {
		return nil, 0
	}
	if s.hasEdge(r0, r2) {
		return nil, 0
	}
	oldMin := s.minQuality(s.ringTets(x, y, ring, false))
	s.stats.Flip22.Attempts++
	q, ok := s.scoreTets([]mesh.Tet{{x, r2, r0, r1}, {r0, r2, y, r1}}, pos)
	if !ok {
		return nil, 0
	}
	return &topoMove{
		newMin: q,
		stat:   &s.stats.Flip22,
		apply:  func() error { return s.journal.Flip22(x, r0, y, r2, r1) },
	}, oldMin
}

// removeEdge finds the best re-triangulation of the ring polygon of the
// interior edge (u,w) and scores replacing its n elements by 2(n-2).
func (s *Session) removeEdge(u, w mesh.VertexID, ring []mesh.VertexID) (*topoMove, float64) {
	n := len(ring)
	old := s.ringTets(u, w, ring, true)
	oldMin := s.minQuality(old)
	s.stats.EdgeRemoval.Attempts++

	// diag[i][j] is false when the chord (r_i,r_j) is already an edge.
	diag := make([][]bool, n)
	for i := range diag {
		diag[i] = make([]bool, n)
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				diag[i][j] = true
				continue
			}
			diag[i][j] = !s.hasEdge(ring[i], ring[j])
		}
	}
	pair := func(i, k, j int) []mesh.Tet {
		return []mesh.Tet{
			{ring[i], ring[k], ring[j], w},
			{ring[i], ring[j], ring[k], u},
		}
	}

	best := make([][]float64, n)
	split := make([][]int, n)
	for i := range best {
		best[i] = make([]float64, n)
		split[i] = make([]int, n)
		if i+1 < n {
			best[i][i+1] = math.Inf(1)
		}
	}
	for span := 2; span < n; span++ {
		for i := 0; i+span < n; i++ {
			j := i + span
			best[i][j], split[i][j] = math.Inf(-1), -1
			if !diag[i][j] {
				continue
			}
			for k := i + 1; k < j; k++ {
				q, ok := s.scoreTets(pair(i, k, j), s.mesh.Position)
				if !ok {
					continue
				}
				q = math.Min(q, math.Min(best[i][k], best[k][j]))
				if q > best[i][j] {
					best[i][j], split[i][j] = q, k
				}
			}
		}
	}
	q := best[0][n-1]
	if split[0][n-1] < 0 || math.IsInf(q, -1) {
		return nil, 0
	}

	var added []mesh.Tet
	var collect func(i, j int)
	collect = func(i, j int) {
		if j-i < 2 {
			return
		}
		k := split[i][j]
		added = append(added, pair(i, k, j)...)
		collect(i, k)
		collect(k, j)
	}
	collect(0, n-1)

	return &topoMove{
		newMin: q,
		stat:   &s.stats.EdgeRemoval,
		apply: func() error {
			for _, t := range old {
				if err := s.journal.DeleteTet(t); err != nil {
					return err
				}
			}
			for _, t := range added {
				if err := s.journal.AddTet(t); err != nil {
					return err
				}
			}
			return nil
		},
	}, oldMin
}
