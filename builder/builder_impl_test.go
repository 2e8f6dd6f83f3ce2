// File: builder_impl_test.go
// Package builder_test contains functional tests for all Constructor
// implementations in the builder package, verifying counts, boundary shape,
// volumes and determinism.
package builder_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/builder"
	"github.com/katalvlaran/tetimprove/geom"
	"github.com/katalvlaran/tetimprove/mesh"
)

func totalVolume(m *mesh.Mesh) float64 {
	var v float64
	for _, t := range m.Tets() {
		v += m.Volume(t)
	}
	return v
}

// TestBuilders_Functional runs table-driven functional tests for each base shape.
func TestBuilders_Functional(t *testing.T) {
	t.Parallel()

	regularVolume := 1 / (6 * math.Sqrt2)
	tests := []struct {
		name       string
		ctor       builder.Constructor
		wantV      int
		wantT      int
		wantFaces  int
		wantVolume float64
	}{
		{"KuhnLattice(2,2,2)", builder.KuhnLattice(2, 2, 2), 27, 48, 48, 8},
		{"KuhnLattice(3,1,1)", builder.KuhnLattice(3, 1, 1), 16, 18, 28, 3},
		{"FiveTetLattice(2,2,2)", builder.FiveTetLattice(2, 2, 2), 27, 40, 48, 8},
		{"RegularTet", builder.RegularTet(), 4, 1, 4, regularVolume},
		{"StellatedTet", builder.StellatedTet(), 5, 4, 4, regularVolume},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m, err := builder.BuildMesh(nil, tc.ctor)
			require.NoError(t, err)
			require.NoError(t, m.Validate())
			assert.Equal(t, tc.wantV, m.NumVertices())
			assert.Equal(t, tc.wantT, m.NumTets())
			assert.Len(t, m.BoundaryFaces(), tc.wantFaces)
			assert.InDelta(t, tc.wantVolume, totalVolume(m), 1e-9)
		})
	}
}

func TestRegularTet_EdgeLength(t *testing.T) {
	m, err := builder.BuildMesh([]builder.BuilderOption{builder.WithSpacing(2), builder.WithOrigin(r3.Vec{X: 5})}, builder.RegularTet())
	require.NoError(t, err)
	for _, l := range geom.EdgeLengths(m.Points(m.Tets()[0])) {
		assert.InDelta(t, 2.0, l, 1e-12)
	}
	p := m.Points(m.Tets()[0])
	c := geom.Centroid(p[:]...)
	assert.InDelta(t, 5.0, c.X, 1e-12)
}

func TestJitter(t *testing.T) {
	build := func(seed int64) *builder.Assembly {
		a, err := builder.BuildArrays([]builder.BuilderOption{builder.WithSeed(seed)},
			builder.KuhnLattice(3, 3, 3), builder.Jitter(0.2))
		require.NoError(t, err)
		return a
	}
	a, b := build(7), build(7)
	assert.Empty(t, cmp.Diff(a.Points, b.Points), "same seed, same points")

	plain, err := builder.BuildArrays(nil, builder.KuhnLattice(3, 3, 3))
	require.NoError(t, err)
	moved := 0
	for i := range a.Points {
		if a.Boundary[i] {
			assert.Equal(t, plain.Points[i], a.Points[i], "boundary point %d moved", i)
		} else if a.Points[i] != plain.Points[i] {
			moved++
		}
	}
	assert.Positive(t, moved)

	m, err := builder.BuildMesh([]builder.BuilderOption{builder.WithSeed(7)}, builder.KuhnLattice(3, 3, 3), builder.Jitter(0.2))
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.InDelta(t, 27.0, totalVolume(m), 1e-9)
}

func TestFlatten(t *testing.T) {
	base, err := builder.BuildMesh(nil, builder.StellatedTet())
	require.NoError(t, err)
	flat, err := builder.BuildMesh(nil, builder.StellatedTet(), builder.Flatten(3, 0.9))
	require.NoError(t, err)
	require.NoError(t, flat.Validate())

	// Volume scales with the height over face (0,1,2).
	tet := mesh.Tet{0, 1, 2, 4}
	assert.InDelta(t, 0.1*math.Abs(base.Volume(tet)), math.Abs(flat.Volume(tet)), 1e-12)
	assert.InDelta(t, totalVolume(base), totalVolume(flat), 1e-12)
}

func TestBuildMesh_Errors(t *testing.T) {
	cases := map[string]struct {
		opts []builder.BuilderOption
		cons []builder.Constructor
		want error
	}{
		"zero cells":    {nil, []builder.Constructor{builder.KuhnLattice(0, 1, 1)}, builder.ErrTooFewCells},
		"two bases":     {nil, []builder.Constructor{builder.RegularTet(), builder.RegularTet()}, builder.ErrConstructFailed},
		"no base":       {nil, []builder.Constructor{}, builder.ErrConstructFailed},
		"nil":           {nil, []builder.Constructor{nil}, builder.ErrConstructFailed},
		"jitter no rng": {nil, []builder.Constructor{builder.KuhnLattice(2, 2, 2), builder.Jitter(0.1)}, builder.ErrNeedRandSource},
		"jitter range":  {[]builder.BuilderOption{builder.WithSeed(1)}, []builder.Constructor{builder.KuhnLattice(2, 2, 2), builder.Jitter(0.5)}, builder.ErrFraction},
		"flatten first": {nil, []builder.Constructor{builder.Flatten(0, 0.5)}, builder.ErrConstructFailed},
		"flatten range": {nil, []builder.Constructor{builder.StellatedTet(), builder.Flatten(3, 1)}, builder.ErrFraction},
		"flatten index": {nil, []builder.Constructor{builder.StellatedTet(), builder.Flatten(9, 0.5)}, builder.ErrConstructFailed},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := builder.BuildMesh(tc.opts, tc.cons...)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
