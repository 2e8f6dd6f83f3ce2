// File: contract.go
// Role: edge contraction with boundary-aware survivor choice.
//
// Contracting (u,v) deletes one endpoint and re-attaches its elements to
// the other. The endpoint with the more constrained class survives in
// place (Free < Facet < Segment < Fixed). Equal classes meet at the
// midpoint when their constraints agree; two Fixed vertices never merge.
package improve

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/classify"
	"github.com/katalvlaran/tetimprove/geom"
	"github.com/katalvlaran/tetimprove/mesh"
)

// classOf returns the record of v, classifying it first if it is pending.
func (s *Session) classOf(v mesh.VertexID) (classify.Record, bool) {
	rec := s.classes.Get(v)
	if rec.Class == classify.Unclassified || rec.Class == classify.Undead {
		d, err := s.cls.Reclassify(s.mesh, s.journal, v)
		if err != nil {
			return rec, false
		}
		rec = d
	}
	return rec, rec.Class != classify.Dead
}

// constraintSlack is the relative off-plane or off-line distance a
// contraction may move a boundary vertex.
const constraintSlack = 1e-10

func rank(c classify.Freedom) int {
	switch c {
	case classify.Free:
		return 0
	case classify.Facet:
		return 1
	case classify.Segment:
		return 2
	}
	return 3
}

// contraction is a planned edge collapse.
type contraction struct {
	keep, gone mesh.VertexID
	at         r3.Vec
}

// planContraction picks the survivor and its position, or reports the
// collapse infeasible.
func (s *Session) planContraction(u, v mesh.VertexID) (contraction, bool) {
	ru, oku := s.classOf(u)
	rv, okv := s.classOf(v)
	if !oku || !okv {
		return contraction{}, false
	}
	pu, pv := s.mesh.Position(u), s.mesh.Position(v)
	switch a, b := rank(ru.Class), rank(rv.Class); {
	case a > b:
		return contraction{keep: u, gone: v, at: pu}, onConstraint(rv, pv, pu)
	case a < b:
		return contraction{keep: v, gone: u, at: pv}, onConstraint(ru, pu, pv)
	}

	keep, gone := u, v
	if v < u {
		keep, gone = v, u
	}
	mid := geom.Midpoint(pu, pv)
	tol := s.cls.Tolerance
	switch ru.Class {
	case classify.Free:
		return contraction{keep: keep, gone: gone, at: mid}, true
	case classify.Facet:
		if 1-r3.Dot(ru.Vec, rv.Vec) <= tol {
			return contraction{keep: keep, gone: gone, at: mid}, true
		}
	case classify.Segment:
		dir := r3.Unit(r3.Sub(pv, pu))
		if 1-math.Abs(r3.Dot(ru.Vec, rv.Vec)) <= tol && 1-math.Abs(r3.Dot(ru.Vec, dir)) <= tol {
			return contraction{keep: keep, gone: gone, at: mid}, true
		}
	}
	return contraction{}, false
}

// onConstraint reports whether moving a vertex with record rec from p to q
// keeps it on its plane (Facet) or line (Segment).
func onConstraint(rec classify.Record, p, q r3.Vec) bool {
	off := r3.Sub(q, p)
	l := r3.Norm(off)
	if l == 0 {
		return true
	}
	switch rec.Class {
	case classify.Facet:
		return math.Abs(r3.Dot(off, r3.Unit(rec.Vec))) <= constraintSlack*l
	case classify.Segment:
		return r3.Norm(r3.Cross(off, r3.Unit(rec.Vec))) <= constraintSlack*l
	}
	return true
}

// linkHolds checks the vertex link condition: the common neighbours of u
// and v are exactly the ring of the edge. It also refuses to pinch two
// boundary vertices joined through the interior.
func (s *Session) linkHolds(u, v mesh.VertexID) bool {
	ring, closed, err := s.mesh.EdgeRing(u, v)
	if err != nil {
		return false
	}
	if closed && s.mesh.IsBoundaryVertex(u) && s.mesh.IsBoundaryVertex(v) {
		return false
	}
	inRing := make(map[mesh.VertexID]struct{}, len(ring))
	for _, r := range ring {
		inRing[r] = struct{}{}
	}
	nv := s.mesh.Neighbors(v)
	common := 0
	for _, x := range s.mesh.Neighbors(u) {
		if x == v {
			continue
		}
		for _, y := range nv {
			if x == y {
				if _, ok := inRing[x]; !ok {
					return false
				}
				common++
			}
		}
	}
	return common == len(inRing)
}

// contract collapses (u,v) if the new star is valid and accept approves
// its minimum quality given the old one. Edits are journaled; a failure
// midway rolls back.
func (s *Session) contract(u, v mesh.VertexID, accept func(newMin, oldMin float64) bool) bool {
	if u == v || !s.mesh.Alive(u) || !s.mesh.Alive(v) || !s.linkHolds(u, v) {
		return false
	}
	plan, ok := s.planContraction(u, v)
	if !ok {
		return false
	}

	goneStar := s.mesh.IncidentTets(plan.gone)
	keepStar := s.mesh.IncidentTets(plan.keep)
	oldMin := math.Min(s.minQuality(goneStar), s.minQuality(keepStar))

	var added, moved []mesh.Tet
	for _, t := range goneStar {
		if t.Has(plan.keep) {
			continue
		}
		t[t.Index(plan.gone)] = plan.keep
		added = append(added, t)
	}
	for _, t := range keepStar {
		if !t.Has(plan.gone) {
			moved = append(moved, t)
		}
	}
	pos := func(x mesh.VertexID) r3.Vec {
		if x == plan.keep || x == plan.gone {
			return plan.at
		}
		return s.mesh.Position(x)
	}
	newMin, valid := s.scoreTets(append(added, moved...), pos)
	if !valid || len(added)+len(moved) == 0 || !accept(newMin, oldMin) {
		return false
	}

	mark := s.Mark()
	if err := s.applyContraction(plan, goneStar, added); err != nil {
		s.log.Debug("contraction rolled back", "keep", int(plan.keep), "gone", int(plan.gone), "err", err)
		_ = s.Rollback(mark)
		return false
	}
	return true
}

func (s *Session) applyContraction(plan contraction, goneStar, added []mesh.Tet) error {
	for _, t := range goneStar {
		if err := s.journal.DeleteTet(t); err != nil {
			return err
		}
	}
	if s.mesh.Position(plan.keep) != plan.at {
		s.journal.Smooth(plan.keep, plan.at)
	}
	for _, t := range added {
		if err := s.journal.AddTet(t); err != nil {
			return err
		}
	}
	if err := s.journal.DeleteVertex(plan.gone); err != nil {
		return err
	}
	_, err := s.cls.Reclassify(s.mesh, s.journal, plan.keep)
	return err
}

// contractImproving collapses (u,v) when that raises the local minimum.
func (s *Session) contractImproving(u, v mesh.VertexID) bool {
	ok := s.contract(u, v, func(newMin, oldMin float64) bool { return newMin > oldMin })
	s.stats.Contract.tally(ok)
	return ok
}

// ContractEdge collapses edge (a,b) when every element of the new star has
// quality at least floor. Used by size control, where shortening the mesh
// matters more than local improvement.
func (s *Session) ContractEdge(a, b mesh.VertexID, floor float64) bool {
	ok := s.contract(a, b, func(newMin, _ float64) bool { return newMin >= floor })
	s.stats.Contract.tally(ok)
	return ok
}
