// Package quality implements the element quality measures the improvement
// engine ranks and thresholds tetrahedra by.
//
// The engine never looks inside a measure: it receives a Func that maps four
// vertex positions to a scalar where larger is better and non-positive means
// inverted or degenerate. Measures are selected by name through Measure.
//
// Supported measures:
//
//	MinSine       – minimum sine of the six dihedral angles (range [-1, sin(70.53°)])
//	BiasedMinSine – as MinSine, but obtuse dihedrals are penalized by 0.7
//	RadiusRatio   – 3·inradius / circumradius (1 for the regular tetrahedron)
//	VolumeLength  – 6√2·V / l_rms³ (1 for the regular tetrahedron)
//
// Warped variants evaluate a measure after mapping the points through a
// deformation tensor (see Warp), which is how anisotropic runs see the mesh.
package quality

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/geom"
)

// ErrUnknownMeasure is returned by Lookup for an unrecognized measure name.
var ErrUnknownMeasure = errors.New("quality: unknown measure")

// Func scores one tetrahedron. Larger is better.
type Func func(p [4]r3.Vec) float64

// Measure names a quality measure.
type Measure string

const (
	MinSine       Measure = "minsine"
	BiasedMinSine Measure = "biasedminsine"
	RadiusRatio   Measure = "radiusratio"
	VolumeLength  Measure = "vlrms3"
)

// obtusePenalty scales the sine of obtuse dihedrals in BiasedMinSine.
const obtusePenalty = 0.7

// Lookup returns the Func for m.
func Lookup(m Measure) (Func, error) {
	switch m {
	case MinSine:
		return minSine, nil
	case BiasedMinSine:
		return biasedMinSine, nil
	case RadiusRatio:
		return radiusRatio, nil
	case VolumeLength:
		return volumeLength, nil
	}
	return nil, fmt.Errorf("Lookup(%q): %w", m, ErrUnknownMeasure)
}

// SineBased reports whether m is expressed in dihedral sines, which makes
// goal angles directly comparable to quality values.
func (m Measure) SineBased() bool {
	return m == MinSine || m == BiasedMinSine
}

func minSine(p [4]r3.Vec) float64 {
	s := geom.DihedralSines(p)
	q := s[0]
	for _, v := range s[1:] {
		q = math.Min(q, v)
	}
	return q
}

func biasedMinSine(p [4]r3.Vec) float64 {
	s := geom.DihedralSines(p)
	if geom.Orient(p[0], p[1], p[2], p[3]) <= 0 {
		return minOf(s[:])
	}
	ang := geom.DihedralAngles(p)
	q := math.Inf(1)
	for k, v := range s {
		if ang[k] > math.Pi/2 {
			v *= obtusePenalty
		}
		q = math.Min(q, v)
	}
	return q
}

func radiusRatio(p [4]r3.Vec) float64 {
	v := geom.Volume(p[0], p[1], p[2], p[3])
	a := geom.FaceAreas(p)
	area := a[0] + a[1] + a[2] + a[3]
	if area == 0 {
		return 0
	}
	in := 3 * v / area
	cr, ok := circumradius(p)
	if !ok || cr == 0 {
		return 0
	}
	return 3 * in / cr
}

// circumradius uses the closed form |α|/(12·V) where α is built from the
// edge vectors from p[0].
func circumradius(p [4]r3.Vec) (float64, bool) {
	t := r3.Sub(p[1], p[0])
	u := r3.Sub(p[2], p[0])
	w := r3.Sub(p[3], p[0])
	den := 2 * r3.Dot(t, r3.Cross(u, w))
	if den == 0 {
		return 0, false
	}
	num := r3.Add(r3.Add(
		r3.Scale(r3.Norm2(t), r3.Cross(u, w)),
		r3.Scale(r3.Norm2(u), r3.Cross(w, t))),
		r3.Scale(r3.Norm2(w), r3.Cross(t, u)))
	return r3.Norm(num) / math.Abs(den), true
}

func volumeLength(p [4]r3.Vec) float64 {
	v := geom.Volume(p[0], p[1], p[2], p[3])
	var s float64
	for _, l := range geom.EdgeLengths(p) {
		s += l * l
	}
	lrms := math.Sqrt(s / 6)
	if lrms == 0 {
		return 0
	}
	return 6 * math.Sqrt2 * v / (lrms * lrms * lrms)
}

func minOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Min(m, x)
	}
	return m
}

// Warp returns a Func that maps every point through t before scoring with f.
// A nil tensor returns f unchanged.
func Warp(f Func, t *mat.Dense) Func {
	if t == nil {
		return f
	}
	return func(p [4]r3.Vec) float64 {
		var q [4]r3.Vec
		for i := range p {
			q[i] = Transform(t, p[i])
		}
		return f(q)
	}
}

// Transform applies the 3×3 tensor t to v.
func Transform(t *mat.Dense, v r3.Vec) r3.Vec {
	if t == nil {
		return v
	}
	var out mat.VecDense
	out.MulVec(t, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return r3.Vec{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// Extremes holds the smallest and largest dihedral angles of a set of
// tetrahedra, in degrees.
type Extremes struct {
	Min, Max float64
}

// Observe folds the dihedral angles of p into e.
func (e *Extremes) Observe(p [4]r3.Vec) {
	for _, a := range geom.DihedralAngles(p) {
		d := geom.Degrees(a)
		e.Min = math.Min(e.Min, d)
		e.Max = math.Max(e.Max, d)
	}
}

// NewExtremes returns an empty accumulator.
func NewExtremes() Extremes {
	return Extremes{Min: math.Inf(1), Max: math.Inf(-1)}
}
