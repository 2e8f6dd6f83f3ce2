// Package geom provides the small set of tetrahedron and triangle
// primitives the improvement engine is built on: orientation, volume,
// face normals and areas, edge lengths, and dihedral angles.
//
// All functions operate on gonum's r3.Vec and are pure: no allocation
// beyond the returned values, no hidden state.
//
// Orientation convention:
//
//	Orient(a,b,c,d) = (b-a) · ((c-a) × (d-a))
//
// is positive when d lies on the side of triangle (a,b,c) that its
// right-handed normal (b-a)×(c-a) points to. A tetrahedron (a,b,c,d) is
// "positive" (valid) iff Orient(a,b,c,d) > 0.
//
// Vertex i of a tetrahedron is opposite face i; the six edges are indexed
// by EdgePairs and the two faces adjacent to edge (i,j) are the faces
// opposite the remaining two vertices.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// EdgePairs lists the six edges of a tetrahedron as local vertex index pairs.
var EdgePairs = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}

// Orient returns six times the signed volume of tetrahedron (a,b,c,d).
func Orient(a, b, c, d r3.Vec) float64 {
	return r3.Dot(r3.Sub(b, a), r3.Cross(r3.Sub(c, a), r3.Sub(d, a)))
}

// Volume returns the signed volume of tetrahedron (a,b,c,d).
func Volume(a, b, c, d r3.Vec) float64 {
	return Orient(a, b, c, d) / 6
}

// TriangleNormal returns the (non-normalized) right-handed normal of
// triangle (a,b,c). Its length is twice the triangle area.
func TriangleNormal(a, b, c r3.Vec) r3.Vec {
	return r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
}

// TriangleArea returns the area of triangle (a,b,c).
func TriangleArea(a, b, c r3.Vec) float64 {
	return r3.Norm(TriangleNormal(a, b, c)) / 2
}

// UnitNormal returns the unit right-handed normal of triangle (a,b,c) and
// false when the triangle is degenerate.
func UnitNormal(a, b, c r3.Vec) (r3.Vec, bool) {
	n := TriangleNormal(a, b, c)
	l := r3.Norm(n)
	if l == 0 {
		return r3.Vec{}, false
	}
	return r3.Scale(1/l, n), true
}

// Centroid returns the arithmetic mean of the given points.
func Centroid(p ...r3.Vec) r3.Vec {
	var s r3.Vec
	for _, q := range p {
		s = r3.Add(s, q)
	}
	if len(p) == 0 {
		return s
	}
	return r3.Scale(1/float64(len(p)), s)
}

// Midpoint returns the midpoint of segment (a,b).
func Midpoint(a, b r3.Vec) r3.Vec {
	return r3.Scale(0.5, r3.Add(a, b))
}

// Dist returns |a-b|.
func Dist(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

// Dist2 returns |a-b|².
func Dist2(a, b r3.Vec) float64 {
	return r3.Norm2(r3.Sub(a, b))
}

// FaceAreas returns the areas of the four faces of tetrahedron p;
// entry i is the area of the face opposite vertex i.
func FaceAreas(p [4]r3.Vec) [4]float64 {
	return [4]float64{
		TriangleArea(p[1], p[2], p[3]),
		TriangleArea(p[0], p[2], p[3]),
		TriangleArea(p[0], p[1], p[3]),
		TriangleArea(p[0], p[1], p[2]),
	}
}

// EdgeLengths returns the six edge lengths of p in EdgePairs order.
func EdgeLengths(p [4]r3.Vec) [6]float64 {
	var l [6]float64
	for k, e := range EdgePairs {
		l[k] = Dist(p[e[0]], p[e[1]])
	}
	return l
}

// otherTwo returns the two local indices not in {i,j}.
func otherTwo(i, j int) (int, int) {
	var o [2]int
	n := 0
	for k := 0; k < 4; k++ {
		if k != i && k != j {
			o[n] = k
			n++
		}
	}
	return o[0], o[1]
}

// DihedralSines returns the sine of the dihedral angle at each of the six
// edges of p, in EdgePairs order, using
//
//	sin θ_ij = 3·V·|e_ij| / (2·A_k·A_l)
//
// where k,l are the vertices not on edge ij. The sign follows the signed
// volume, so inverted tetrahedra yield negative sines. A degenerate face
// yields 0.
func DihedralSines(p [4]r3.Vec) [6]float64 {
	v := Volume(p[0], p[1], p[2], p[3])
	a := FaceAreas(p)
	var s [6]float64
	for k, e := range EdgePairs {
		o1, o2 := otherTwo(e[0], e[1])
		den := 2 * a[o1] * a[o2]
		if den == 0 {
			continue
		}
		s[k] = 3 * v * Dist(p[e[0]], p[e[1]]) / den
	}
	return s
}

// DihedralAngles returns the six interior dihedral angles of p in radians,
// in EdgePairs order. The angle at edge ij is π minus the angle between the
// outward normals of the faces opposite k and l.
func DihedralAngles(p [4]r3.Vec) [6]float64 {
	var out [6]float64
	for k, e := range EdgePairs {
		o1, o2 := otherTwo(e[0], e[1])
		n1 := outwardNormal(p, o1)
		n2 := outwardNormal(p, o2)
		l1, l2 := r3.Norm(n1), r3.Norm(n2)
		if l1 == 0 || l2 == 0 {
			continue
		}
		c := r3.Dot(n1, n2) / (l1 * l2)
		c = math.Max(-1, math.Min(1, c))
		out[k] = math.Pi - math.Acos(c)
	}
	return out
}

// outwardNormal returns the normal of the face opposite vertex i, oriented
// away from vertex i.
func outwardNormal(p [4]r3.Vec, i int) r3.Vec {
	var f [3]r3.Vec
	n := 0
	for k := 0; k < 4; k++ {
		if k != i {
			f[n] = p[k]
			n++
		}
	}
	nrm := TriangleNormal(f[0], f[1], f[2])
	if r3.Dot(nrm, r3.Sub(p[i], f[0])) > 0 {
		nrm = r3.Scale(-1, nrm)
	}
	return nrm
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }
