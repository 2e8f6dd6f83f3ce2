package improve_test

import (
	"context"
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tetimprove/builder"
	"github.com/katalvlaran/tetimprove/classify"
	"github.com/katalvlaran/tetimprove/config"
	"github.com/katalvlaran/tetimprove/improve"
	"github.com/katalvlaran/tetimprove/mesh"
	"github.com/katalvlaran/tetimprove/quality"
)

func build(t testing.TB, opts []builder.BuilderOption, cons ...builder.Constructor) *mesh.Mesh {
	t.Helper()
	m, err := builder.BuildMesh(opts, cons...)
	require.NoError(t, err)
	return m
}

func session(t testing.TB, m *mesh.Mesh, mutate func(*config.Options), options ...improve.Option) *improve.Session {
	t.Helper()
	opts := config.Default()
	opts.CheckInvariants = true
	if mutate != nil {
		mutate(&opts)
	}
	s, err := improve.NewSession(m, opts, options...)
	require.NoError(t, err)
	return s
}

func totalVolume(m *mesh.Mesh) float64 {
	var v float64
	for _, t := range m.Tets() {
		v += m.Volume(t)
	}
	return v
}

func TestNewSession_InvalidOptions(t *testing.T) {
	m := build(t, nil, builder.RegularTet())
	opts := config.Default()
	opts.GoalMinAngle = -1
	_, err := improve.NewSession(m, opts)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestNewSession_Classifies(t *testing.T) {
	m := build(t, nil, builder.KuhnLattice(2, 2, 2))
	s := session(t, m, nil, improve.WithID("kuhn"))
	assert.Equal(t, "kuhn", s.ID)

	counts := s.Classes().Counts()
	assert.Equal(t, 1, counts[classify.Free], "one interior point")
	assert.Equal(t, 8, counts[classify.Fixed], "cube corners")
	assert.Equal(t, 12, counts[classify.Segment], "cube edge midpoints")
	assert.Equal(t, 6, counts[classify.Facet], "face centres")
	assert.Equal(t, 26, s.Quadrics().Count())
	assert.Equal(t, 27, s.Journal().Len(), "one classify entry per vertex")
}

func TestEvaluate(t *testing.T) {
	opts := config.Default()
	before := improve.Measurement{Min: 0.5}

	after := before
	after.Min = 0.5 + 1e-16
	minOK, meanOK := improve.Evaluate(improve.Smoothing, before, after, opts)
	assert.False(t, minOK, "below the minimum epsilon")
	assert.False(t, meanOK)

	after.Min = 0.5 + 1e-12
	minOK, _ = improve.Evaluate(improve.Smoothing, before, after, opts)
	assert.True(t, minOK)

	after = before
	after.Means[3] = 2 * opts.MinStepImprovement
	_, meanOK = improve.Evaluate(improve.Smoothing, before, after, opts)
	assert.True(t, meanOK, "smoothing uses the step epsilon")
	_, meanOK = improve.Evaluate(improve.Insertion, before, after, opts)
	assert.False(t, meanOK, "insertion uses the tighter insertion epsilon")
}

func TestImprove_AtGoalStopsAfterInitialPasses(t *testing.T) {
	m := build(t, nil, builder.KuhnLattice(2, 2, 2))
	var checkpoints []improve.Checkpoint
	s := session(t, m, nil, improve.WithProgress(func(r improve.Report) {
		checkpoints = append(checkpoints, r.Checkpoint)
	}))

	ok, e := s.GoalReached(s.Measure().Min)
	require.True(t, ok)
	assert.InDelta(t, 45, e.Min, 1e-9)
	assert.InDelta(t, 90, e.Max, 1e-9)

	res, err := s.Improve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, improve.GoalReached, res.Reason)
	assert.Zero(t, res.Rounds)
	require.Len(t, res.Passes, 3)
	assert.Equal(t, improve.Smoothing, res.Passes[0].Kind)
	assert.Equal(t, improve.Topological, res.Passes[1].Kind)
	assert.Equal(t, improve.ContractAll, res.Passes[2].Kind)
	assert.Equal(t, []improve.Checkpoint{
		improve.CheckpointInit,
		improve.CheckpointPass, improve.CheckpointPass, improve.CheckpointPass,
		improve.CheckpointTeardown,
	}, checkpoints)
	assert.GreaterOrEqual(t, res.Final.Min, res.Initial.Min)
}

func TestImprove_AnisotropicSkipsContraction(t *testing.T) {
	m := build(t, nil, builder.KuhnLattice(1, 1, 1))
	s := session(t, m, func(o *config.Options) {
		o.Anisotropic = true
		o.TensorField = config.StretchX
		o.GoalMinAngle, o.GoalMaxAngle = 1, 179
	})
	require.NotNil(t, s.Tensor())
	res, err := s.Improve(context.Background())
	require.NoError(t, err)
	for _, p := range res.Passes {
		assert.NotEqual(t, improve.ContractAll, p.Kind)
		assert.NotEqual(t, improve.ContractWorst, p.Kind)
	}
}

// A regular tetrahedron split around its centroid, with the centroid pushed
// almost onto one face: smoothing then flipping must raise the minimum.
func TestScenario_FlattenedElement(t *testing.T) {
	m := build(t, nil, builder.StellatedTet(), builder.Flatten(3, 0.9))
	s := session(t, m, nil)
	start := m.Snapshot()
	mark := s.Mark()
	initial := s.Measure().Min

	smooth, err := s.RunPass(context.Background(), improve.Smoothing, improve.NoThreshold)
	require.NoError(t, err)
	topo, err := s.RunPass(context.Background(), improve.Topological, improve.NoThreshold)
	require.NoError(t, err)

	assert.True(t, smooth.MinSuccess)
	assert.Greater(t, topo.After.Min, initial)
	assert.Greater(t, s.Measure().Min, initial)
	assert.Positive(t, s.Stats().Smooth.Successes)
	require.NoError(t, m.Validate())

	require.NoError(t, s.Rollback(mark))
	assert.Empty(t, cmp.Diff(start, m.Snapshot()), "rollback restores the flattened mesh")
}

func TestImprove_JitteredLattices(t *testing.T) {
	for _, tc := range jittered {
		for _, seed := range []int64{3, 8, 11} {
			t.Run(tc.name+"/"+strconv.FormatInt(seed, 10), func(t *testing.T) {
				m := build(t, []builder.BuilderOption{builder.WithSeed(seed)}, tc.lattice, builder.Jitter(0.35))
				vol := totalVolume(m)
				s := session(t, m, nil)
				cons := constraintsOf(s)

				res, err := s.Improve(context.Background())
				require.NoError(t, err)
				assert.Contains(t, []improve.StopReason{improve.GoalReached, improve.Stagnated}, res.Reason)
				assert.GreaterOrEqual(t, res.Final.Min, res.Initial.Min)
				require.NoError(t, m.Validate())
				assert.InDelta(t, vol, totalVolume(m), 1e-9, "boundary-preserving edits keep the volume")
				assertOnConstraints(t, m, cons)
				assertBoundaryOnBox(t, m, tc.box)

				for i := 1; i < len(res.Passes); i++ {
					assert.GreaterOrEqual(t, res.Passes[i].Before.Min, res.Passes[i-1].Before.Min-1e-12,
						"the global minimum never drops between passes")
				}
			})
		}
	}
}

func TestImprove_Canceled(t *testing.T) {
	m := build(t, []builder.BuilderOption{builder.WithSeed(3)}, builder.KuhnLattice(2, 2, 2), builder.Jitter(0.3))
	s := session(t, m, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Improve(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, improve.Canceled, res.Reason)
	require.Len(t, res.Passes, 1)
	require.NoError(t, m.Validate())
}

func TestSplitAndContract(t *testing.T) {
	m := build(t, nil, builder.KuhnLattice(2, 2, 2))
	s := session(t, m, nil)
	start := m.Snapshot()

	// 13 is the interior lattice point; 4 = (1,1,0) is a face centre.
	const centre, face = mesh.VertexID(13), mesh.VertexID(4)
	require.NotEmpty(t, m.TetsOfEdge(centre, face))
	ring := len(m.TetsOfEdge(centre, face))

	mark := s.Mark()
	v, ok := s.SplitEdge(centre, face, 0)
	require.True(t, ok)
	assert.True(t, m.Alive(v))
	assert.Equal(t, 48+ring, m.NumTets())
	assert.Equal(t, classify.Free, s.Classes().Get(v).Class)
	require.NoError(t, m.Validate())

	require.True(t, s.ContractEdge(v, face, 0), "the face centre survives in place")
	assert.False(t, m.Alive(v))
	assert.Equal(t, classify.Dead, s.Classes().Get(v).Class)
	assert.Empty(t, cmp.Diff(start, m.Snapshot()))

	require.NoError(t, s.Rollback(mark))
	assert.Empty(t, cmp.Diff(start, m.Snapshot()))
	assert.Equal(t, 1, s.Stats().Split.Successes)
	assert.Equal(t, 1, s.Stats().Contract.Successes)
}

func TestSplitEdge_FloorRollsBack(t *testing.T) {
	m := build(t, nil, builder.KuhnLattice(2, 2, 2))
	s := session(t, m, nil)
	start := m.Snapshot()
	_, ok := s.SplitEdge(13, 4, 2)
	assert.False(t, ok, "no element reaches quality 2")
	assert.Empty(t, cmp.Diff(start, m.Snapshot()))
}

func TestContractEdge_FixedEndpoints(t *testing.T) {
	m := build(t, nil, builder.RegularTet())
	s := session(t, m, nil)
	assert.False(t, s.ContractEdge(0, 1, math.Inf(-1)))
	assert.Equal(t, improve.OpStats{Attempts: 1}, s.Stats().Contract)
}

func TestWithQuality(t *testing.T) {
	m := build(t, nil, builder.RegularTet())
	fn, err := quality.Lookup(quality.RadiusRatio)
	require.NoError(t, err)
	s := session(t, m, nil, improve.WithQuality(fn, false))
	assert.InDelta(t, 1.0, s.Measure().Min, 1e-9, "regular element has radius ratio 1")
	assert.Panics(t, func() { improve.WithQuality(nil, true) })
	assert.Panics(t, func() { improve.WithID("") })
}
