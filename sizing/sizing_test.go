package sizing_test

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tetimprove/builder"
	"github.com/katalvlaran/tetimprove/config"
	"github.com/katalvlaran/tetimprove/improve"
	"github.com/katalvlaran/tetimprove/mesh"
	"github.com/katalvlaran/tetimprove/sizing"
)

const eps = 1e-12

func kuhn(t *testing.T, n int) *mesh.Mesh {
	t.Helper()
	m, err := builder.BuildMesh(nil, builder.KuhnLattice(n, n, n))
	require.NoError(t, err)
	return m
}

func newSession(t *testing.T, m *mesh.Mesh, mutate func(*config.Options)) *improve.Session {
	t.Helper()
	opts := config.Default()
	opts.CheckInvariants = true
	mutate(&opts)
	s, err := improve.NewSession(m, opts)
	require.NoError(t, err)
	return s
}

func volume(m *mesh.Mesh) float64 {
	var v float64
	for _, t := range m.Tets() {
		v += m.Volume(t)
	}
	return v
}

// A unit cube in six Kuhn tetrahedra has 12 unit edges, 6 face diagonals
// and one body diagonal.
func TestEdgeStatistics_KuhnCube(t *testing.T) {
	st := sizing.EdgeStatistics(kuhn(t, 1), nil)

	assert.Equal(t, 19, st.Count)
	assert.InDelta(t, 1, st.Min, eps)
	assert.InDelta(t, math.Sqrt(3), st.Max, eps)
	assert.InDelta(t, 1, st.Median, eps)
	assert.InDelta(t, (12+6*math.Sqrt2+math.Sqrt(3))/19, st.Mean, eps)
}

func TestEdgeStatistics_Stretched(t *testing.T) {
	opts := config.Default()
	opts.Anisotropic = true
	opts.TensorField = config.StretchX

	st := sizing.EdgeStatistics(kuhn(t, 1), opts.Tensor())
	assert.InDelta(t, 1, st.Min, eps, "y and z edges keep their length")
	assert.InDelta(t, math.Sqrt(6), st.Max, eps)
	assert.InDelta(t, math.Sqrt2, st.Median, eps)
}

func TestEdgeStatistics_Empty(t *testing.T) {
	assert.Equal(t, sizing.Stats{}, sizing.EdgeStatistics(mesh.New(), nil))
	assert.Zero(t, sizing.OutOfBounds(mesh.New(), nil, 1, 2))
}

func TestOutOfBounds(t *testing.T) {
	m := kuhn(t, 1)
	assert.InDelta(t, 1, sizing.OutOfBounds(m, nil, 0.5, 1.5), eps, "every element holds the body diagonal")
	assert.Zero(t, sizing.OutOfBounds(m, nil, 0.5, 2))
	assert.InDelta(t, 1, sizing.OutOfBounds(m, nil, 1.1, 2), eps)
}

func TestRun_AlreadyInBounds(t *testing.T) {
	m := kuhn(t, 2)
	before := m.Snapshot()
	s := newSession(t, m, func(o *config.Options) { o.TargetEdgeLength = 1.2 })

	res, err := sizing.New(s).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Zero(t, res.Iterations)
	assert.InDelta(t, 0.6, res.Lo, eps)
	assert.InDelta(t, 1.8, res.Hi, eps)
	if diff := cmp.Diff(before, m.Snapshot()); diff != "" {
		t.Errorf("mesh changed (-before +after):\n%s", diff)
	}
}

func TestRun_MedianTarget(t *testing.T) {
	s := newSession(t, kuhn(t, 1), func(o *config.Options) { o.MaxSizingIterations = 0 })

	res, err := sizing.New(s).Run(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1, res.Target, eps, "median adopted")
	assert.False(t, res.Converged, "body diagonals exceed 1.5")
	assert.Zero(t, res.Iterations)
	assert.InDelta(t, 1, res.OutOfBounds, eps)
}

func TestRun_SplitsLongEdges(t *testing.T) {
	m := kuhn(t, 2)
	vol := volume(m)
	tets := m.NumTets()
	s := newSession(t, m, func(o *config.Options) { o.TargetEdgeLength = 0.5 })
	opts := s.Options()

	res, err := sizing.New(s).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Converged || res.Iterations == opts.MaxSizingIterations)
	assert.LessOrEqual(t, res.Iterations, opts.MaxSizingIterations)
	assert.Positive(t, res.Split)
	assert.Greater(t, m.NumTets(), tets)
	assert.Less(t, res.After.Mean, res.Before.Mean)
	assert.GreaterOrEqual(t, s.Measure().Min, opts.SizingQualityFloor, "no kept split below the floor")
	assert.InDelta(t, vol, volume(m), 1e-9)
	require.NoError(t, m.Validate())
}

func TestRun_ContractsShortEdges(t *testing.T) {
	m := kuhn(t, 2)
	vol := volume(m)
	s := newSession(t, m, func(o *config.Options) { o.TargetEdgeLength = 3 })

	res, err := sizing.New(s).Run(context.Background())
	require.NoError(t, err)

	assert.Positive(t, res.Iterations)
	assert.Positive(t, s.Stats().Contract.Attempts)
	assert.Zero(t, res.Split)
	assert.InDelta(t, vol, volume(m), 1e-9)
	require.NoError(t, m.Validate())
}

func TestRun_Canceled(t *testing.T) {
	m := kuhn(t, 2)
	s := newSession(t, m, func(o *config.Options) { o.TargetEdgeLength = 0.5 })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := sizing.New(s).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Iterations)
	require.NoError(t, m.Validate())
}
