// Package builder provides internal helper functions used by Constructor
// implementations.
package builder

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/geom"
)

// requireEmpty rejects a second base constructor.
func requireEmpty(method string, a *Assembly) error {
	if len(a.Points) > 0 {
		return builderErrorf(method, ErrConstructFailed, "assembly already holds a base shape")
	}
	return nil
}

// requireBase rejects a modifier applied before any base constructor.
func requireBase(method string, a *Assembly) error {
	if len(a.Tets) == 0 {
		return builderErrorf(method, ErrConstructFailed, "no base shape to modify")
	}
	return nil
}

// orientOf returns the signed orientation of tetrahedron t.
func orientOf(a *Assembly, t [4]int) float64 {
	p := a.Points
	return geom.Orient(p[t[0]], p[t[1]], p[t[2]], p[t[3]])
}

// incidence lists, for every point, the indices of the tetrahedra using it.
// Complexity: O(T) time, O(V + T) space.
func incidence(a *Assembly) [][]int {
	out := make([][]int, len(a.Points))
	for i, t := range a.Tets {
		for _, v := range t {
			out[v] = append(out[v], i)
		}
	}
	return out
}

// tryMove moves point v to p when every incident tetrahedron keeps the sign
// of its orientation and stays away from zero volume; otherwise v is left
// unchanged. It reports whether the move was kept.
func tryMove(a *Assembly, inc [][]int, v int, p r3.Vec) bool {
	old := a.Points[v]
	signs := make([]float64, len(inc[v]))
	for i, ti := range inc[v] {
		signs[i] = orientOf(a, a.Tets[ti])
	}
	a.Points[v] = p
	for i, ti := range inc[v] {
		if o := orientOf(a, a.Tets[ti]); o*signs[i] <= 0 {
			a.Points[v] = old
			return false
		}
	}
	return true
}
