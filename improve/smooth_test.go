package improve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/classify"
)

// A facet normal off unit length by one ulp, as the classifier may store it.
var nearUnitY = classify.Record{Class: classify.Facet, Vec: r3.Vec{Y: 0.9999999999999999}}

func TestProject_NormalGradientVanishes(t *testing.T) {
	g := r3.Vec{Y: 1}
	d := project(g, nearUnitY)
	assert.Less(t, r3.Norm(d), minProjectedGradient*r3.Norm(g),
		"a gradient along the normal leaves only rounding noise")

	seg := classify.Record{Class: classify.Segment, Vec: r3.Vec{Z: 0.9999999999999999}}
	assert.Equal(t, r3.Vec{Z: 2}, project(r3.Vec{X: 1, Z: 2}, seg))
}

func TestConstrain(t *testing.T) {
	p0 := r3.Vec{X: 2.5, Y: 3, Z: 0.4145}

	q := constrain(r3.Add(p0, r3.Vec{X: -0.0657, Y: 0.0054, Z: -0.0099}), p0, nearUnitY)
	assert.InDelta(t, 3, q.Y, 1e-15)
	assert.InDelta(t, 2.5-0.0657, q.X, 1e-15)

	seg := classify.Record{Class: classify.Segment, Vec: r3.Unit(r3.Vec{X: 1, Y: 1})}
	q = constrain(r3.Vec{X: 3.5, Y: 3, Z: 0.5}, p0, seg)
	off := r3.Sub(q, p0)
	assert.InDelta(t, 0, r3.Norm(r3.Cross(off, seg.Vec)), 1e-15)

	free := classify.Record{Class: classify.Free}
	assert.Equal(t, r3.Vec{X: 1}, constrain(r3.Vec{X: 1}, p0, free))
}
