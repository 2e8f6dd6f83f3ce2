package improve_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tetimprove/builder"
	"github.com/katalvlaran/tetimprove/config"
	"github.com/katalvlaran/tetimprove/improve"
)

// initialPasses is Smoothing, Topological and ContractAll.
const initialPasses = 3

type round struct {
	kinds      []improve.PassKind
	progressed bool
}

// rounds splits the passes after the initial ones into main-loop rounds;
// every round opens with a Smoothing pass.
func rounds(res improve.Result) []round {
	var out []round
	for _, p := range res.Passes[initialPasses:] {
		if p.Kind == improve.Smoothing || len(out) == 0 {
			out = append(out, round{})
		}
		r := &out[len(out)-1]
		r.kinds = append(r.kinds, p.Kind)
		r.progressed = r.progressed || p.Succeeded()
	}
	return out
}

func count(res improve.Result, kind improve.PassKind) int {
	n := 0
	for _, p := range res.Passes {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

// unreachable asks for angles no lattice mesh attains, so the run
// stagnates and the insertion passes are exercised.
func unreachable(o *config.Options) {
	o.GoalMinAngle = 65
	o.GoalMaxAngle = 100
}

func TestImprove_DesperateInsertionOnStagnantRound(t *testing.T) {
	for _, limit := range []int{0, 1, 2} {
		t.Run("limit"+strconv.Itoa(limit), func(t *testing.T) {
			m := build(t, []builder.BuilderOption{builder.WithSeed(5)}, builder.KuhnLattice(2, 2, 2), builder.Jitter(0.3))
			vol := totalVolume(m)
			s := session(t, m, func(o *config.Options) {
				unreachable(o)
				o.MaxDesperatePasses = limit
			})

			res, err := s.Improve(context.Background())
			require.NoError(t, err)
			require.Equal(t, improve.Stagnated, res.Reason)
			require.NoError(t, m.Validate())
			assert.InDelta(t, vol, totalVolume(m), 1e-9)

			rs := rounds(res)
			require.Len(t, rs, res.Rounds)
			stagnant, used, inserted := 0, 0, 0
			for i, r := range rs {
				last := r.kinds[len(r.kinds)-1]
				if last == improve.Insertion || last == improve.DesperateInsertion {
					inserted++
					want := stagnant == 1 && used < limit
					assert.Equal(t, want, last == improve.DesperateInsertion,
						"round %d: stagnant=%d used=%d", i+1, stagnant, used)
					if last == improve.DesperateInsertion {
						used++
					}
				}
				if r.progressed {
					stagnant = 0
				} else {
					stagnant++
				}
			}

			assert.Positive(t, inserted, "stagnant rounds reach the insertion pass")
			desperate := count(res, improve.DesperateInsertion)
			assert.GreaterOrEqual(t, desperate, min(limit, 1),
				"a run that stops on stagnation passes a non-progressing round at stagnant=1")
			assert.LessOrEqual(t, desperate, limit)
			assert.Positive(t, s.Stats().InsertBody.Attempts+s.Stats().InsertFacet.Attempts+s.Stats().InsertSegment.Attempts)
		})
	}
}

func TestImprove_InsertionDisabled(t *testing.T) {
	m := build(t, []builder.BuilderOption{builder.WithSeed(5)}, builder.KuhnLattice(2, 2, 2), builder.Jitter(0.3))
	s := session(t, m, func(o *config.Options) {
		unreachable(o)
		o.InsertBody, o.InsertFacet, o.InsertSegment = false, false, false
	})

	res, err := s.Improve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, improve.Stagnated, res.Reason)
	assert.Zero(t, count(res, improve.Insertion))
	assert.Zero(t, count(res, improve.DesperateInsertion))
	assert.Zero(t, s.Stats().InsertBody.Attempts)
	require.NoError(t, m.Validate())
}

// Once the goal angles hold after a main-loop pass, that pass is the last.
func TestImprove_StopsOnGoalWithinRound(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4} {
		m := build(t, []builder.BuilderOption{builder.WithSeed(seed)}, builder.KuhnLattice(2, 2, 2), builder.Jitter(0.3))
		var (
			s     *improve.Session
			goals []bool
		)
		s = session(t, m, func(o *config.Options) { o.GoalMinAngle = 20 }, improve.WithProgress(func(r improve.Report) {
			if r.Checkpoint == improve.CheckpointPass {
				ok, _ := s.GoalReached(r.Measurement.Min)
				goals = append(goals, ok)
			}
		}))

		res, err := s.Improve(context.Background())
		require.NoError(t, err)
		require.Len(t, goals, len(res.Passes))
		for i := initialPasses; i < len(goals); i++ {
			if goals[i] {
				assert.Equal(t, len(goals)-1, i, "seed %d: pass %d ran after the goal held", seed, i+1)
				assert.Equal(t, improve.GoalReached, res.Reason)
			}
		}
	}
}
