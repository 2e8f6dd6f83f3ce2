// Package quadric builds per-vertex surface-fidelity quadrics from the
// boundary of the initial mesh.
//
// For every boundary face with outward unit normal n, area w and plane
// offset d = -n·p0, each of the face's vertices accumulates
//
//	A += w·n·nᵀ    b += w·d·n    c += w·d²
//
// so that Q(p) = pᵀAp + 2bᵀp + c is the area-weighted sum of squared
// distances from p to the incident face planes. Normalize divides the form
// by (area sum × harmonic mean of squared incident edge lengths), which
// makes the error dimensionless and comparable with shape quality.
//
// A vertex needs at least 3 incident boundary faces for its quadric to be
// used; Error and Gradient return zero for every other vertex. The table is
// built once and not updated as the mesh changes.
package quadric

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/geom"
	"github.com/katalvlaran/tetimprove/mesh"
)

// MinFaces is the number of incident boundary faces a vertex needs for
// valid fidelity data.
const MinFaces = 3

// Surface is what Collect reads from the mesh.
type Surface interface {
	BoundaryFaces() []mesh.Face
	Position(v mesh.VertexID) r3.Vec
}

// Record is the quadric of one vertex.
type Record struct {
	A *mat.SymDense
	B *mat.VecDense
	C float64

	Faces      int
	AreaSum    float64
	InvLen2Sum float64

	// Orig is the vertex position at collection time.
	Orig    r3.Vec
	HasData bool
}

// Accumulator is the per-vertex quadric table.
type Accumulator struct {
	recs []Record
}

// New returns an empty table.
func New() *Accumulator { return &Accumulator{} }

func (q *Accumulator) slot(v mesh.VertexID) *Record {
	for int(v) >= len(q.recs) {
		q.recs = append(q.recs, Record{})
	}
	r := &q.recs[v]
	if r.A == nil {
		r.A = mat.NewSymDense(3, nil)
		r.B = mat.NewVecDense(3, nil)
	}
	return r
}

// Collect accumulates the quadric of every boundary face of s into its
// three vertices. Degenerate faces are skipped.
// Complexity: O(boundary faces).
func (q *Accumulator) Collect(s Surface) {
	for _, f := range s.BoundaryFaces() {
		p := [3]r3.Vec{s.Position(f[0]), s.Position(f[1]), s.Position(f[2])}
		n, ok := geom.UnitNormal(p[0], p[1], p[2])
		if !ok {
			continue
		}
		w := geom.TriangleArea(p[0], p[1], p[2])
		d := -r3.Dot(n, p[0])
		nv := mat.NewVecDense(3, []float64{n.X, n.Y, n.Z})

		for i, v := range f {
			r := q.slot(v)
			r.A.SymRankOne(r.A, w, nv)
			r.B.AddScaledVec(r.B, w*d, nv)
			r.C += w * d * d
			r.Faces++
			r.AreaSum += w
			r.InvLen2Sum += 1/geom.Dist2(p[i], p[(i+1)%3]) + 1/geom.Dist2(p[i], p[(i+2)%3])
			r.Orig = p[i]
		}
	}
	for i := range q.recs {
		q.recs[i].HasData = q.recs[i].Faces >= MinFaces
	}
}

// Normalize rescales every valid quadric by its area sum times the
// harmonic mean of its squared incident edge lengths.
func (q *Accumulator) Normalize() {
	for i := range q.recs {
		r := &q.recs[i]
		if !r.HasData || r.InvLen2Sum == 0 {
			continue
		}
		hm := float64(2*r.Faces) / r.InvLen2Sum
		s := r.AreaSum * hm
		if s == 0 {
			continue
		}
		r.A.ScaleSym(1/s, r.A)
		r.B.ScaleVec(1/s, r.B)
		r.C /= s
	}
}

// Get returns the record of v.
func (q *Accumulator) Get(v mesh.VertexID) (Record, bool) {
	if v < 0 || int(v) >= len(q.recs) {
		return Record{}, false
	}
	return q.recs[v], true
}

// HasData reports whether v carries valid fidelity data.
func (q *Accumulator) HasData(v mesh.VertexID) bool {
	r, ok := q.Get(v)
	return ok && r.HasData
}

// Error evaluates Q(p) for vertex v; 0 when v has no valid data.
func (q *Accumulator) Error(v mesh.VertexID, p r3.Vec) float64 {
	r, ok := q.Get(v)
	if !ok || !r.HasData {
		return 0
	}
	x := mat.NewVecDense(3, []float64{p.X, p.Y, p.Z})
	return mat.Inner(x, r.A, x) + 2*mat.Dot(r.B, x) + r.C
}

// Gradient returns -∇Q(p) = -2(Ap+b), the direction of steepest error
// decrease; zero when v has no valid data.
func (q *Accumulator) Gradient(v mesh.VertexID, p r3.Vec) r3.Vec {
	r, ok := q.Get(v)
	if !ok || !r.HasData {
		return r3.Vec{}
	}
	x := mat.NewVecDense(3, []float64{p.X, p.Y, p.Z})
	var g mat.VecDense
	g.MulVec(r.A, x)
	g.AddVec(&g, r.B)
	return r3.Vec{X: -2 * g.AtVec(0), Y: -2 * g.AtVec(1), Z: -2 * g.AtVec(2)}
}

// Count returns how many vertices carry valid data.
func (q *Accumulator) Count() int {
	n := 0
	for _, r := range q.recs {
		if r.HasData {
			n++
		}
	}
	return n
}
