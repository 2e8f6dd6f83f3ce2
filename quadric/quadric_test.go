package quadric_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/mesh"
	"github.com/katalvlaran/tetimprove/quadric"
)

// planarFan is four coplanar faces (z=0, normal +z) around vertex 0.
type planarFan struct{ scale float64 }

func (p planarFan) BoundaryFaces() []mesh.Face {
	return []mesh.Face{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}, {0, 4, 1}}
}

func (p planarFan) Position(v mesh.VertexID) r3.Vec {
	rim := []r3.Vec{{}, {X: 1}, {Y: 1}, {X: -1}, {Y: -1}}
	return r3.Scale(p.scale, rim[v])
}

func collect(s quadric.Surface) *quadric.Accumulator {
	q := quadric.New()
	q.Collect(s)
	q.Normalize()
	return q
}

func TestError_PlanarPatch(t *testing.T) {
	q := collect(planarFan{scale: 1})
	require.True(t, q.HasData(0))

	// On the plane, anywhere.
	assert.InDelta(t, 0, q.Error(0, r3.Vec{}), 1e-15)
	assert.InDelta(t, 0, q.Error(0, r3.Vec{X: 0.3, Y: -0.2}), 1e-15)

	// Strictly increasing with distance on either side.
	prev := 0.0
	for _, z := range []float64{0.01, 0.1, 0.5, 1, 2} {
		e := q.Error(0, r3.Vec{Z: z})
		assert.Greater(t, e, prev, "z=%g", z)
		assert.InDelta(t, e, q.Error(0, r3.Vec{Z: -z}), 1e-12, "symmetric in z")
		prev = e
	}
}

func TestGradient_PointsToPlane(t *testing.T) {
	q := collect(planarFan{scale: 1})
	g := q.Gradient(0, r3.Vec{X: 0.2, Z: 0.5})
	assert.Less(t, g.Z, 0.0)
	assert.InDelta(t, 0, g.X, 1e-15)
	assert.InDelta(t, 0, g.Y, 1e-15)
	assert.Equal(t, r3.Vec{}, q.Gradient(0, r3.Vec{X: 0.2}), "zero on the plane")
}

func TestTooFewFaces(t *testing.T) {
	q := collect(planarFan{scale: 1})
	// Rim vertices touch only two faces each.
	for v := mesh.VertexID(1); v <= 4; v++ {
		assert.False(t, q.HasData(v))
		assert.Zero(t, q.Error(v, r3.Vec{Z: 3}))
		assert.Equal(t, r3.Vec{}, q.Gradient(v, r3.Vec{Z: 3}))
	}
	assert.Zero(t, q.Error(99, r3.Vec{Z: 1}), "unknown vertex")
	assert.Equal(t, 1, q.Count())
}

// TestNormalize_ScaleInvariant scales the patch and the query offset by the
// same factor; the normalized error must not change.
func TestNormalize_ScaleInvariant(t *testing.T) {
	small := collect(planarFan{scale: 1})
	large := collect(planarFan{scale: 10})
	assert.InDelta(t, small.Error(0, r3.Vec{Z: 0.3}), large.Error(0, r3.Vec{Z: 3}), 1e-12)

	rec, ok := small.Get(0)
	require.True(t, ok)
	assert.Equal(t, 4, rec.Faces)
	assert.Equal(t, r3.Vec{}, rec.Orig)
}

func TestCollect_Cube(t *testing.T) {
	pts := make([]r3.Vec, 8)
	for i := range pts {
		pts[i] = r3.Vec{X: float64(i & 1), Y: float64(i >> 1 & 1), Z: float64(i >> 2 & 1)}
	}
	m, err := mesh.FromArrays(pts, [][4]int{{0, 1, 3, 7}, {0, 1, 5, 7}, {0, 2, 3, 7}, {0, 2, 6, 7}, {0, 4, 5, 7}, {0, 4, 6, 7}})
	require.NoError(t, err)
	q := collect(m)

	// A corner sits on three planes: only the corner itself has zero error.
	assert.InDelta(t, 0, q.Error(0, r3.Vec{}), 1e-15)
	assert.Greater(t, q.Error(0, r3.Vec{X: 0.1}), 0.0)
	assert.Greater(t, q.Error(0, r3.Vec{X: 0.1, Y: 0.1, Z: 0.1}), q.Error(0, r3.Vec{X: 0.1}))
}
