// File: insert.go
// Role: vertex insertion into poor elements, and edge splitting.
//
// An insertion places a new vertex in the body, on a boundary face or on a
// boundary edge of the element, then smooths it and improves the topology
// around it. The whole attempt runs under one journal mark and is undone
// unless the new cavity beats the original element.
package improve

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/geom"
	"github.com/katalvlaran/tetimprove/mesh"
	"github.com/katalvlaran/tetimprove/quality"
)

// insertAt tries body, facet and segment insertion into t, in that order,
// keeping the first that succeeds. A desperate attempt accepts any strict
// improvement; otherwise the cavity minimum must rise by at least
// MinInsertionImprovement.
func (s *Session) insertAt(t mesh.Tet, desperate bool) bool {
	q0 := s.Quality(t)
	need := q0 + s.opts.MinInsertionImprovement
	if desperate {
		need = q0
	}
	accept := func(v mesh.VertexID) bool {
		s.smoothVertex(v)
		s.improveAround(v)
		return s.minQuality(s.mesh.IncidentTets(v)) > need
	}

	if s.opts.InsertBody {
		if s.stats.InsertBody.tally(s.tryInsert(func() (mesh.VertexID, error) { return s.insertBody(t) }, accept)) {
			return true
		}
	}
	if s.opts.InsertFacet {
		if k, ok := s.boundaryFace(t); ok {
			if s.stats.InsertFacet.tally(s.tryInsert(func() (mesh.VertexID, error) { return s.insertFacet(t, k) }, accept)) {
				return true
			}
		}
	}
	if s.opts.InsertSegment {
		if a, b, ok := s.longestBoundaryEdge(t); ok {
			split := func() (mesh.VertexID, error) { return s.splitEdge(a, b) }
			if s.stats.InsertSegment.tally(s.tryInsert(split, accept)) {
				return true
			}
		}
	}
	return false
}

// tryInsert runs place under a mark and keeps the result only if accept
// approves the new vertex.
func (s *Session) tryInsert(place func() (mesh.VertexID, error), accept func(mesh.VertexID) bool) bool {
	mark := s.Mark()
	v, err := place()
	if err == nil {
		if _, err = s.cls.Reclassify(s.mesh, s.journal, v); err == nil && accept(v) {
			return true
		}
	}
	if err != nil {
		s.log.Debug("insertion failed", "err", err)
	}
	_ = s.Rollback(mark)
	return false
}

func (s *Session) insertBody(t mesh.Tet) (mesh.VertexID, error) {
	p := s.mesh.Points(t)
	v := s.journal.InsertVertex(geom.Centroid(p[0], p[1], p[2], p[3]))
	return v, s.journal.Flip14(t[0], t[1], t[2], t[3], v)
}

// insertFacet splits the boundary face of t opposite t[k] at its centroid.
func (s *Session) insertFacet(t mesh.Tet, k int) (mesh.VertexID, error) {
	f := t.Faces()[k]
	pos := s.mesh.Position
	v := s.journal.InsertVertex(geom.Centroid(pos(f[0]), pos(f[1]), pos(f[2])))
	return v, s.journal.Flip13(f[0], f[1], f[2], t[k], v)
}

// splitEdge puts a new vertex at the midpoint of (a,b) and splits every
// element around the edge.
func (s *Session) splitEdge(a, b mesh.VertexID) (mesh.VertexID, error) {
	around := s.mesh.TetsOfEdge(a, b)
	v := s.journal.InsertVertex(geom.Midpoint(s.mesh.Position(a), s.mesh.Position(b)))
	for _, t := range around {
		e, _ := t.WithEdgeFirst(a, b)
		if err := s.journal.Flip12(e[0], e[1], e[2], e[3], v); err != nil {
			return v, err
		}
	}
	return v, nil
}

// boundaryFace returns the index of the largest boundary face of t.
func (s *Session) boundaryFace(t mesh.Tet) (int, bool) {
	best, area := -1, 0.0
	for k, f := range t.Faces() {
		if !s.mesh.IsBoundaryFace(f) {
			continue
		}
		pos := s.mesh.Position
		if a := geom.TriangleArea(pos(f[0]), pos(f[1]), pos(f[2])); a > area {
			best, area = k, a
		}
	}
	return best, best >= 0
}

// longestBoundaryEdge returns the longest edge of t on the boundary.
func (s *Session) longestBoundaryEdge(t mesh.Tet) (mesh.VertexID, mesh.VertexID, bool) {
	var a, b mesh.VertexID
	best := 0.0
	for _, p := range edgeOrder(t) {
		if !s.mesh.IsBoundaryEdge(p[0], p[1]) {
			continue
		}
		if d := geom.Dist2(s.mesh.Position(p[0]), s.mesh.Position(p[1])); d > best {
			a, b, best = p[0], p[1], d
		}
	}
	return a, b, best > 0
}

// SplitEdge inserts a vertex at the midpoint of edge (a,b), classifies it
// and keeps it when every new element has quality at least floor. The new
// vertex is returned with true on success; on failure all edits are undone.
func (s *Session) SplitEdge(a, b mesh.VertexID, floor float64) (mesh.VertexID, bool) {
	var v mesh.VertexID
	ok := s.tryInsert(
		func() (mesh.VertexID, error) {
			var err error
			v, err = s.splitEdge(a, b)
			return v, err
		},
		func(v mesh.VertexID) bool {
			return s.minQuality(s.mesh.IncidentTets(v)) >= floor
		})
	s.stats.Split.tally(ok)
	if !ok {
		return mesh.Ghost, false
	}
	return v, true
}

// ShortestEdgeAt returns the length of the shortest edge at v, measured in
// the deformed space for anisotropic runs.
func (s *Session) ShortestEdgeAt(v mesh.VertexID) float64 {
	best := math.Inf(1)
	p := s.warp(s.mesh.Position(v))
	for _, u := range s.mesh.Neighbors(v) {
		best = math.Min(best, geom.Dist(p, s.warp(s.mesh.Position(u))))
	}
	return best
}

func (s *Session) warp(p r3.Vec) r3.Vec { return quality.Transform(s.tensor, p) }

// Reoptimize smooths v and then tries the topological operators on every
// element around it. Size control calls it after a split.
func (s *Session) Reoptimize(v mesh.VertexID) {
	if !s.mesh.Alive(v) {
		return
	}
	s.smoothVertex(v)
	s.improveAround(v)
}

// LocalMin returns the lowest quality among the elements incident to v.
func (s *Session) LocalMin(v mesh.VertexID) float64 {
	return s.minQuality(s.mesh.IncidentTets(v))
}
