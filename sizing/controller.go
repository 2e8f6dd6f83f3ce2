// File: controller.go
// Role: the size-control loop.
//
//	measure edges; target = TargetEdgeLength, or the median when unset
//	repeat at most MaxSizingIterations times:
//	    stop if fewer than SizingStopFraction of the elements are out of bounds
//	    contract short edges, shortest first, falling back to ring edges
//	    split long edges, longest first, undoing splits that break a floor
//	    one Smoothing and one Topological pass
//
// Determinism:
//   - Worklists are built from Edges() order and stably sorted.
package sizing

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/tetimprove/improve"
	"github.com/katalvlaran/tetimprove/mesh"
	"github.com/katalvlaran/tetimprove/workstack"
)

// Result reports one Run.
type Result struct {
	Target float64 // target edge length
	Lo, Hi float64 // Target·ShorterFactor, Target·LongerFactor

	Before, After Stats

	Iterations int
	Contracted int
	Split      int
	Rejected   int // splits undone by the quality or shrink floor

	OutOfBounds float64 // fraction at the last measurement
	Converged   bool    // OutOfBounds fell below SizingStopFraction
}

// Controller drives one session toward a target edge length.
type Controller struct {
	sess        *improve.Session
	short, long *workstack.Stack
}

// New returns a Controller over s.
func New(s *improve.Session) *Controller {
	return &Controller{
		sess:  s,
		short: workstack.New(workstack.DefaultBlockSize),
		long:  workstack.New(workstack.DefaultBlockSize),
	}
}

// Run executes the size-control loop. Every contraction and split is
// committed or undone before the next candidate; on cancellation the
// partial Result is returned with the context error.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	s := c.sess
	opts := s.Options()
	m, tensor := s.Mesh(), s.Tensor()

	res := Result{Before: EdgeStatistics(m, tensor)}
	res.Target = opts.TargetEdgeLength
	if res.Target == 0 {
		res.Target = res.Before.Median
	}
	res.Lo = res.Target * opts.ShorterFactor
	res.Hi = res.Target * opts.LongerFactor

	for {
		res.OutOfBounds = OutOfBounds(m, tensor, res.Lo, res.Hi)
		if res.OutOfBounds < opts.SizingStopFraction {
			res.Converged = true
			break
		}
		if res.Iterations >= opts.MaxSizingIterations {
			break
		}
		res.Iterations++
		if err := c.iterate(ctx, &res); err != nil {
			return c.finish(res), fmt.Errorf("Run: %w", err)
		}
	}
	return c.finish(res), nil
}

func (c *Controller) finish(res Result) Result {
	s := c.sess
	res.After = EdgeStatistics(s.Mesh(), s.Tensor())
	s.Logger().Info("size control end",
		"target", res.Target, "iterations", res.Iterations, "converged", res.Converged,
		"out_of_bounds", res.OutOfBounds, "contracted", res.Contracted,
		"split", res.Split, "rejected", res.Rejected,
		"median_before", res.Before.Median, "median_after", res.After.Median)
	return res
}

// iterate runs one contract/split round and the recovery passes.
func (c *Controller) iterate(ctx context.Context, res *Result) error {
	s := c.sess
	m, tensor := s.Mesh(), s.Tensor()
	floor := s.Options().SizingQualityFloor
	c.collect(res.Lo, res.Hi)

	for i := 0; i < c.short.Len(); i++ {
		a, b := c.short.At(i).Verts[0], c.short.At(i).Verts[1]
		if !c.liveEdge(a, b) || EdgeLength(m, tensor, a, b) >= res.Lo {
			continue
		}
		if s.ContractEdge(a, b, floor) || c.contractRing(a, b, res.Target, floor) {
			res.Contracted++
		}
		if err := s.Commit(ctx); err != nil {
			return err
		}
	}

	for i := 0; i < c.long.Len(); i++ {
		a, b := c.long.At(i).Verts[0], c.long.At(i).Verts[1]
		if !c.liveEdge(a, b) || EdgeLength(m, tensor, a, b) <= res.Hi {
			continue
		}
		mark := s.Mark()
		if v, ok := s.SplitEdge(a, b, floor); ok {
			s.Reoptimize(v)
			if !m.Alive(v) || s.LocalMin(v) < floor || s.ShortestEdgeAt(v) < res.Lo {
				if err := s.Rollback(mark); err != nil {
					return err
				}
				res.Rejected++
			} else {
				res.Split++
			}
		}
		if err := s.Commit(ctx); err != nil {
			return err
		}
	}

	s.Logger().Debug("size control round",
		"iteration", res.Iterations, "short", c.short.Len(), "long", c.long.Len(),
		"contracted", res.Contracted, "split", res.Split)

	for _, kind := range [...]improve.PassKind{improve.Smoothing, improve.Topological} {
		if _, err := s.RunPass(ctx, kind, improve.NoThreshold); err != nil {
			return err
		}
	}
	return nil
}

// collect fills the short worklist (shortest first) and the long worklist
// (longest first). Each entry is a canonical element with the edge listed
// first; Quality holds the signed sort key.
func (c *Controller) collect(lo, hi float64) {
	m, tensor := c.sess.Mesh(), c.sess.Tensor()
	c.short.Restart()
	c.long.Restart()
	for _, e := range m.Edges() {
		l := EdgeLength(m, tensor, e.A, e.B)
		var w *workstack.Stack
		key := l
		switch {
		case l < lo:
			w = c.short
		case l > hi:
			w, key = c.long, -l
		default:
			continue
		}
		t, _ := e.Tet.WithEdgeFirst(e.A, e.B)
		*w.Push() = workstack.Candidate{Verts: t, Quality: key}
	}
	c.short.Sort()
	c.long.Sort()
}

func (c *Controller) liveEdge(a, b mesh.VertexID) bool {
	m := c.sess.Mesh()
	return m.Alive(a) && m.Alive(b) && len(m.TetsOfEdge(a, b)) > 0
}

// contractRing is the fallback when (a,b) cannot collapse directly: it
// tries the edges joining a or b to the ring of (a,b), shortest first,
// skipping any not shorter than target.
func (c *Controller) contractRing(a, b mesh.VertexID, target, floor float64) bool {
	s := c.sess
	m, tensor := s.Mesh(), s.Tensor()
	ring, _, err := m.EdgeRing(a, b)
	if err != nil {
		return false
	}
	type edge struct {
		u, v mesh.VertexID
		l    float64
	}
	var cand []edge
	for _, r := range ring {
		for _, u := range [2]mesh.VertexID{a, b} {
			if l := EdgeLength(m, tensor, u, r); l < target {
				cand = append(cand, edge{u, r, l})
			}
		}
	}
	sort.SliceStable(cand, func(i, j int) bool { return cand[i].l < cand[j].l })
	for _, e := range cand {
		if s.ContractEdge(e.u, e.v, floor) {
			return true
		}
	}
	return false
}
