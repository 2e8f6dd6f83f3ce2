// File: pass.go
// Role: one pass: worklist construction, dispatch, dual success signals.
// Determinism:
//   - Worklists are built in slab order and stably sorted worst first.
package improve

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/tetimprove/config"
	"github.com/katalvlaran/tetimprove/mesh"
)

// NoThreshold selects every element when passed to RunPass.
var NoThreshold = math.Inf(1)

// Evaluate computes the two success signals of a pass of the given kind
// from the measurements before and after it.
//
//	minSuccess  = after.Min − before.Min > MinMinImprovement
//	meanSuccess = some capped mean rose by more than MinStepImprovement
//	              (MinInsertionImprovement for insertion passes)
//
// Contracts:
//   - before and after carry the same number of Means.
//   - Pure: neither measurement nor opts is modified.
//
// Complexity: O(len(after.Means)).
func Evaluate(kind PassKind, before, after Measurement, opts config.Options) (minSuccess, meanSuccess bool) {
	minSuccess = after.Min-before.Min > MinMinImprovement
	eps := opts.MinStepImprovement
	if kind.inserting() {
		eps = opts.MinInsertionImprovement
	}
	for i := range after.Means {
		if after.Means[i]-before.Means[i] > eps {
			meanSuccess = true
			break
		}
	}
	return minSuccess, meanSuccess
}

// buildWorklist fills s.work for kind and returns the pre-pass measurement.
// ContractAll lists one canonical element per edge with that edge first;
// ContractWorst keeps only the single worst element; every other kind
// lists the elements below threshold.
func (s *Session) buildWorklist(kind PassKind, threshold float64) Measurement {
	s.work.Restart()
	before := s.Measure()

	if kind == ContractAll {
		for _, e := range s.mesh.Edges() {
			t, _ := e.Tet.WithEdgeFirst(e.A, e.B)
			c := s.work.Push()
			c.Verts = t
			c.Quality = s.Quality(e.Tet)
		}
		s.work.Sort()
		return before
	}

	for _, t := range s.mesh.Tets() {
		q := s.Quality(t)
		if q < threshold {
			c := s.work.Push()
			c.Verts = t
			c.Quality = q
		}
	}
	s.work.Sort()
	if kind == ContractWorst && s.work.Len() > 1 {
		worst := s.work.At(0)
		keep := *worst
		s.work.Restart()
		*s.work.Push() = keep
	}
	return before
}

// RunPass runs one pass of kind over every element whose quality is below
// threshold (NoThreshold for all), worst first.
//
// Contracts:
//   - Candidates invalidated by earlier edits in the same pass are skipped.
//   - Each candidate's edits are committed or rolled back before the next
//     one starts, so the mesh is valid whenever RunPass returns.
//   - ContractAll ignores threshold and lists one element per edge;
//     ContractWorst keeps only the worst listed element.
//   - The pass checkpoint is reported only when the pass completes.
//
// Errors: the context error when ctx is done between candidates, or a
// mesh invariant violation when CheckInvariants is set; both wrapped. The
// returned PassResult then holds the partial Successes and After.
//
// Complexity:
//   - O(T log T) to build and sort the worklist, plus one operator call
//     per surviving candidate and two full measurements.
func (s *Session) RunPass(ctx context.Context, kind PassKind, threshold float64) (PassResult, error) {
	res := PassResult{Kind: kind}
	res.Before = s.buildWorklist(kind, threshold)
	res.Worklist = s.work.Len()

	for i := 0; i < s.work.Len(); i++ {
		c := *s.work.At(i)
		if !s.mesh.HasTet(c.Verts) {
			continue
		}
		if s.dispatch(kind, c.Verts) {
			res.Successes++
		}
		if err := s.Commit(ctx); err != nil {
			res.After = s.Measure()
			return res, fmt.Errorf("RunPass(%s): %w", kind, err)
		}
	}

	res.After = s.Measure()
	res.MinSuccess, res.MeanSuccess = Evaluate(kind, res.Before, res.After, s.opts)
	s.stats.Passes++
	s.log.Debug("pass",
		"kind", kind.String(), "worklist", res.Worklist, "successes", res.Successes,
		"min_before", res.Before.Min, "min_after", res.After.Min,
		"min_success", res.MinSuccess, "mean_success", res.MeanSuccess)
	s.report(CheckpointPass, &res, res.After)
	return res, nil
}

// dispatch hands one candidate to the operator matching kind.
func (s *Session) dispatch(kind PassKind, t mesh.Tet) bool {
	switch kind {
	case Smoothing:
		ok := false
		for _, v := range t {
			if s.smoothVertex(v) {
				ok = true
			}
		}
		return ok
	case Topological:
		return s.improveTopology(t)
	case ContractAll:
		return s.contractImproving(t[0], t[1])
	case ContractWorst:
		for _, p := range edgeOrder(t) {
			if s.contractImproving(p[0], p[1]) {
				return true
			}
		}
		return false
	case Insertion:
		return s.insertAt(t, false)
	case DesperateInsertion:
		return s.insertAt(t, true)
	}
	panic(fmt.Sprintf("improve: unknown pass kind %d", kind))
}

// edgeOrder lists the six edges of t.
func edgeOrder(t mesh.Tet) [6][2]mesh.VertexID {
	return [6][2]mesh.VertexID{
		{t[0], t[1]}, {t[0], t[2]}, {t[0], t[3]},
		{t[1], t[2]}, {t[1], t[3]}, {t[2], t[3]},
	}
}
