// File: driver.go
// Role: the outer improvement loop.
//
//	initial:  Smoothing, Topological, ContractAll (isotropic, contraction on)
//	          stop if the goal angles hold
//	round:    Smoothing
//	          → Topological                  if neither axis fired
//	          → ContractWorst, Insertion     if still neither
//	            (DesperateInsertion on the first stagnant round, capped)
//	          the round ends early once the goal holds
//	          stop on goal, or after MaxStagnantRounds rounds without success
//
// Cancellation is observed between candidates; the mesh is always left
// valid because every candidate is committed or rolled back before the
// context is checked.
package improve

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
)

// maxRounds bounds the main loop when every round succeeds by a sliver.
const maxRounds = 1000

// Improve runs the improvement schedule until the goal angles hold or the
// mesh stagnates. On cancellation it returns the partial Result together
// with the context error.
func (s *Session) Improve(ctx context.Context) (Result, error) {
	res := Result{Initial: s.Measure()}
	run := func(kind PassKind, threshold float64) (PassResult, error) {
		pr, err := s.RunPass(ctx, kind, threshold)
		res.Passes = append(res.Passes, pr)
		return pr, err
	}
	contraction := s.opts.EdgeContraction && !s.opts.Anisotropic

	initial := []PassKind{Smoothing, Topological}
	if contraction {
		initial = append(initial, ContractAll)
	}
	for _, kind := range initial {
		if _, err := run(kind, NoThreshold); err != nil {
			return s.finish(res, err)
		}
	}
	if s.atGoal() {
		res.Reason = GoalReached
		return s.finish(res, nil)
	}

	stagnant, desperate := 0, 0
	for round := 1; round <= maxRounds; round++ {
		res.Rounds = round
		progressed, err := s.round(run, contraction, stagnant, &desperate)
		if err != nil {
			return s.finish(res, err)
		}
		if s.atGoal() {
			res.Reason = GoalReached
			return s.finish(res, nil)
		}
		if progressed {
			stagnant = 0
			continue
		}
		stagnant++
		s.log.Debug("stagnant round", "round", round, "stagnant", stagnant)
		if stagnant >= s.opts.MaxStagnantRounds {
			break
		}
	}
	res.Reason = Stagnated
	return s.finish(res, nil)
}

// round runs one iteration of the main loop and reports whether any pass
// in it succeeded. The round ends as soon as the goal angles hold, so no
// later pass edits a mesh that already meets them.
func (s *Session) round(run func(PassKind, float64) (PassResult, error), contraction bool, stagnant int, desperate *int) (bool, error) {
	pr, err := run(Smoothing, NoThreshold)
	if err != nil || pr.Succeeded() || s.atGoal() {
		return pr.Succeeded(), err
	}
	if pr, err = run(Topological, NoThreshold); err != nil || pr.Succeeded() || s.atGoal() {
		return pr.Succeeded(), err
	}

	progressed := false
	if contraction {
		if pr, err = run(ContractWorst, NoThreshold); err != nil {
			return false, err
		}
		progressed = pr.Succeeded()
		if s.atGoal() {
			return progressed, nil
		}
	}
	if !s.opts.InsertBody && !s.opts.InsertFacet && !s.opts.InsertSegment {
		return progressed, nil
	}
	kind := Insertion
	if stagnant == 1 && *desperate < s.opts.MaxDesperatePasses {
		kind = DesperateInsertion
		*desperate++
	}
	if pr, err = run(kind, s.insertionThreshold()); err != nil {
		return false, err
	}
	return progressed || pr.Succeeded(), nil
}

func (s *Session) atGoal() bool {
	ok, _ := s.GoalReached(s.Measure().Min)
	return ok
}

// insertionThreshold returns a quality bound selecting the worst
// InsertionThresholdPercentile of the elements, at least one.
func (s *Session) insertionThreshold() float64 {
	tets := s.mesh.Tets()
	if len(tets) == 0 {
		return NoThreshold
	}
	qs := make([]float64, len(tets))
	for i, t := range tets {
		qs[i] = s.Quality(t)
	}
	slices.Sort(qs)
	k := int(math.Ceil(s.opts.InsertionThresholdPercentile * float64(len(qs))))
	k = max(1, min(k, len(qs)))
	return math.Nextafter(qs[k-1], math.Inf(1))
}

// finish records the final state, reports the teardown checkpoint and
// classifies err.
func (s *Session) finish(res Result, err error) (Result, error) {
	res.Final = s.Measure()
	res.Extremes = s.Extremes()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			res.Reason = Canceled
		}
		err = fmt.Errorf("Improve: %w", err)
	}
	s.log.Info("session end",
		"reason", res.Reason.String(), "rounds", res.Rounds, "passes", len(res.Passes),
		"min_before", res.Initial.Min, "min_after", res.Final.Min,
		"min_angle", res.Extremes.Min, "max_angle", res.Extremes.Max,
		"tets", s.mesh.NumTets(), "rollbacks", s.stats.Rollbacks)
	s.report(CheckpointTeardown, nil, res.Final)
	return res, err
}
