package tetimprove_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tetimprove"
	"github.com/katalvlaran/tetimprove/builder"
	"github.com/katalvlaran/tetimprove/config"
	"github.com/katalvlaran/tetimprove/improve"
	"github.com/katalvlaran/tetimprove/mesh"
)

func kuhn(t *testing.T, n int) *mesh.Mesh {
	t.Helper()
	m, err := builder.BuildMesh(nil, builder.KuhnLattice(n, n, n))
	require.NoError(t, err)
	return m
}

func TestRun_InvalidOptions(t *testing.T) {
	opts := config.Default()
	opts.ShorterFactor = 2
	out, err := tetimprove.Run(context.Background(), kuhn(t, 1), opts)
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.Empty(t, out.SessionID)
}

func TestRun_ImproveOnly(t *testing.T) {
	out, err := tetimprove.Run(context.Background(), kuhn(t, 2), config.Default(), improve.WithID("run"))
	require.NoError(t, err)
	assert.Equal(t, "run", out.SessionID)
	assert.Equal(t, improve.GoalReached, out.Improve.Reason)
	assert.Nil(t, out.Sizing)
	assert.Nil(t, out.Reimprove)
	assert.Equal(t, 3, out.Stats.Passes)
}

func TestRun_WithSizing(t *testing.T) {
	m := kuhn(t, 2)
	opts := config.Default()
	opts.Sizing = true
	opts.TargetEdgeLength = 0.5
	opts.CheckInvariants = true

	out, err := tetimprove.Run(context.Background(), m, opts)
	require.NoError(t, err)
	require.NotNil(t, out.Sizing)
	require.NotNil(t, out.Reimprove)
	assert.Positive(t, out.Sizing.Split)
	assert.Equal(t, out.Sizing.Split, out.Stats.Split.Successes-out.Sizing.Rejected)
	assert.GreaterOrEqual(t, out.Reimprove.Final.Min, out.Reimprove.Initial.Min)
	require.NoError(t, m.Validate())
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := tetimprove.Run(ctx, kuhn(t, 1), config.Default())
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, improve.Canceled, out.Improve.Reason)
	assert.NotEmpty(t, out.SessionID)
}
