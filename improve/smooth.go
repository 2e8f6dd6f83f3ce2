// File: smooth.go
// Role: constrained hill-climbing vertex smoother.
//
// The objective of a vertex v at position p is the minimum quality of its
// incident elements; for boundary vertices with fidelity data it also
// includes QuadricOffset − QuadricScale·Q_v(p), so the surface pulls back
// when the vertex drifts from it. Each iteration climbs along the
// finite-difference gradient of whichever term is currently the minimum,
// projected onto the vertex's freedom (facet plane, segment line), with a
// halving line search. Every trial point is mapped back onto the plane or
// line through the starting position. Only strict improvements are kept.
package improve

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/classify"
	"github.com/katalvlaran/tetimprove/geom"
	"github.com/katalvlaran/tetimprove/mesh"
)

const (
	maxSmoothIterations = 8
	maxLineSearchHalves = 12
	// initialStep is the first trial step as a fraction of the mean
	// incident edge length.
	initialStep = 0.25
	// fdStep is the finite-difference step as a fraction of the same length.
	fdStep = 1e-6
	// minProjectedGradient is the smallest ratio |projected g| / |g| still
	// followed. Below it the projection is rounding noise along the
	// constraint normal.
	minProjectedGradient = 1e-8
)

// smoothVertex tries to move v to a better position and journals the move.
func (s *Session) smoothVertex(v mesh.VertexID) bool {
	if !s.mesh.Alive(v) {
		return false
	}
	rec, ok := s.classOf(v)
	if !ok || !s.movable(rec.Class) {
		return false
	}
	tets := s.mesh.IncidentTets(v)
	if len(tets) == 0 {
		return false
	}

	useQuadric := s.opts.QuadricSmoothing && rec.Class != classify.Free && s.quadrics.HasData(v)
	obj := func(p r3.Vec) (float64, int) {
		best, arg := math.Inf(1), -1
		for i, t := range tets {
			if q := s.qualityWith(t, v, p); q < best {
				best, arg = q, i
			}
		}
		if useQuadric {
			if f := s.opts.QuadricOffset - s.opts.QuadricScale*s.quadrics.Error(v, p); f < best {
				best, arg = f, len(tets)
			}
		}
		return best, arg
	}

	scale := s.meanEdgeLength(v)
	if scale == 0 {
		return false
	}
	p0 := s.mesh.Position(v)
	p := p0
	cur, active := obj(p)
	start := cur

	for it := 0; it < maxSmoothIterations; it++ {
		var g r3.Vec
		if active == len(tets) {
			g = s.quadrics.Gradient(v, p)
		} else {
			g = s.termGradient(tets[active], v, p, scale*fdStep)
		}
		d := project(g, rec)
		n := r3.Norm(d)
		if n == 0 || math.IsNaN(n) || n < minProjectedGradient*r3.Norm(g) {
			break
		}
		d = r3.Scale(1/n, d)

		moved := false
		for step, h := scale*initialStep, 0; h < maxLineSearchHalves; step, h = step/2, h+1 {
			q := constrain(r3.Add(p, r3.Scale(step, d)), p0, rec)
			val, arg := obj(q)
			if val > cur {
				p, cur, active, moved = q, val, arg, true
				break
			}
		}
		if !moved {
			break
		}
	}

	ok = cur > start && p != p0
	if ok {
		s.journal.Smooth(v, p)
	}
	s.stats.Smooth.tally(ok)
	return ok
}

// movable applies the smoothing switches to a freedom class.
func (s *Session) movable(c classify.Freedom) bool {
	switch c {
	case classify.Free:
		return true
	case classify.Facet:
		return s.opts.FacetSmoothing
	case classify.Segment:
		return s.opts.SegmentSmoothing
	case classify.Fixed:
		return s.opts.FixedSmoothing
	}
	return false
}

// project restricts direction g to the motion rec allows. Fixed vertices
// reach here only with FixedSmoothing on and move freely.
func project(g r3.Vec, rec classify.Record) r3.Vec {
	switch rec.Class {
	case classify.Facet:
		n := r3.Unit(rec.Vec)
		return r3.Sub(g, r3.Scale(r3.Dot(g, n), n))
	case classify.Segment:
		d := r3.Unit(rec.Vec)
		return r3.Scale(r3.Dot(g, d), d)
	}
	return g
}

// constrain maps q back onto the plane (Facet) or line (Segment) of rec
// through p0, so rounding in the step never leaves the constraint.
func constrain(q, p0 r3.Vec, rec classify.Record) r3.Vec {
	off := r3.Sub(q, p0)
	switch rec.Class {
	case classify.Facet:
		n := r3.Unit(rec.Vec)
		return r3.Sub(q, r3.Scale(r3.Dot(off, n), n))
	case classify.Segment:
		d := r3.Unit(rec.Vec)
		return r3.Add(p0, r3.Scale(r3.Dot(off, d), d))
	}
	return q
}

// termGradient is the central-difference gradient of the quality of t with
// respect to the position of v.
func (s *Session) termGradient(t mesh.Tet, v mesh.VertexID, p r3.Vec, h float64) r3.Vec {
	f := func(q r3.Vec) float64 { return s.qualityWith(t, v, q) }
	dx := r3.Vec{X: h}
	dy := r3.Vec{Y: h}
	dz := r3.Vec{Z: h}
	return r3.Vec{
		X: (f(r3.Add(p, dx)) - f(r3.Sub(p, dx))) / (2 * h),
		Y: (f(r3.Add(p, dy)) - f(r3.Sub(p, dy))) / (2 * h),
		Z: (f(r3.Add(p, dz)) - f(r3.Sub(p, dz))) / (2 * h),
	}
}

// meanEdgeLength is the mean length of the edges at v.
func (s *Session) meanEdgeLength(v mesh.VertexID) float64 {
	nb := s.mesh.Neighbors(v)
	if len(nb) == 0 {
		return 0
	}
	p := s.mesh.Position(v)
	var sum float64
	for _, u := range nb {
		sum += geom.Dist(p, s.mesh.Position(u))
	}
	return sum / float64(len(nb))
}
