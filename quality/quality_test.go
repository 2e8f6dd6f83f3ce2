package quality_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/quality"
)

func regular() [4]r3.Vec {
	return [4]r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0.5, Y: math.Sqrt(3) / 2, Z: 0},
		{X: 0.5, Y: math.Sqrt(3) / 6, Z: math.Sqrt(2.0 / 3.0)},
	}
}

// TestMeasures_Regular checks each measure's value on the regular tetrahedron.
func TestMeasures_Regular(t *testing.T) {
	cases := []struct {
		m    quality.Measure
		want float64
	}{
		{quality.MinSine, math.Sqrt(8.0 / 9.0)},
		{quality.BiasedMinSine, math.Sqrt(8.0 / 9.0)},
		{quality.RadiusRatio, 1},
		{quality.VolumeLength, 1},
	}
	for _, tc := range cases {
		f, err := quality.Lookup(tc.m)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, f(regular()), 1e-9, string(tc.m))
	}
}

// TestMeasures_FlatIsWorse verifies a flattened tet scores below a regular one
// and an inverted tet scores non-positive for every measure.
func TestMeasures_FlatIsWorse(t *testing.T) {
	flat := regular()
	flat[3].Z = 0.01
	inv := regular()
	inv[3].Z = -inv[3].Z
	for _, m := range []quality.Measure{quality.MinSine, quality.BiasedMinSine, quality.RadiusRatio, quality.VolumeLength} {
		f, err := quality.Lookup(m)
		require.NoError(t, err)
		assert.Less(t, f(flat), f(regular()), string(m))
		assert.LessOrEqual(t, f(inv), 0.0, string(m))
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := quality.Lookup("nope")
	assert.ErrorIs(t, err, quality.ErrUnknownMeasure)
}

// TestWarp_StretchChangesScore verifies a stretch tensor alters the measured
// quality and the identity tensor does not.
func TestWarp_StretchChangesScore(t *testing.T) {
	f, _ := quality.Lookup(quality.VolumeLength)
	id := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	st := mat.NewDense(3, 3, []float64{3, 0, 0, 0, 1, 0, 0, 0, 1})

	assert.InDelta(t, f(regular()), quality.Warp(f, id)(regular()), 1e-12)
	assert.Less(t, quality.Warp(f, st)(regular()), f(regular()))
	assert.InDelta(t, f(regular()), quality.Warp(f, nil)(regular()), 0)
}

func TestExtremes(t *testing.T) {
	e := quality.NewExtremes()
	e.Observe([4]r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}})
	assert.InDelta(t, 54.7356, e.Min, 1e-3)
	assert.InDelta(t, 90, e.Max, 1e-9)
	assert.True(t, quality.MinSine.SineBased())
	assert.False(t, quality.RadiusRatio.SineBased())
}
