// File: stats.go
// Role: edge-length statistics and the out-of-bounds fraction.
//
// Lengths are measured after mapping both endpoints through the deformation
// tensor, so anisotropic runs size the mesh in the stretched space. A nil
// tensor measures plain Euclidean length.
package sizing

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/tetimprove/geom"
	"github.com/katalvlaran/tetimprove/mesh"
	"github.com/katalvlaran/tetimprove/quality"
)

// Source is what the size controller reads from a mesh. *mesh.Mesh and
// improve.Mesh satisfy it.
type Source interface {
	Edges() []mesh.Edge
	Tets() []mesh.Tet
	Position(v mesh.VertexID) r3.Vec
}

// Stats summarizes the edge lengths of a mesh.
type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// EdgeLength is the length of (a,b) in the space warped by tensor.
func EdgeLength(m Source, tensor *mat.Dense, a, b mesh.VertexID) float64 {
	return geom.Dist(quality.Transform(tensor, m.Position(a)), quality.Transform(tensor, m.Position(b)))
}

// EdgeStatistics measures every edge of m once. An empty mesh yields the
// zero Stats.
// Complexity: O(E log E).
func EdgeStatistics(m Source, tensor *mat.Dense) Stats {
	edges := m.Edges()
	if len(edges) == 0 {
		return Stats{}
	}
	lengths := make([]float64, len(edges))
	for i, e := range edges {
		lengths[i] = EdgeLength(m, tensor, e.A, e.B)
	}
	sort.Float64s(lengths)
	return Stats{
		Count:  len(lengths),
		Min:    floats.Min(lengths),
		Max:    floats.Max(lengths),
		Mean:   stat.Mean(lengths, nil),
		Median: stat.Quantile(0.5, stat.Empirical, lengths, nil),
	}
}

// OutOfBounds returns the fraction of elements with at least one edge
// outside [lo, hi]. An empty mesh is in bounds.
func OutOfBounds(m Source, tensor *mat.Dense, lo, hi float64) float64 {
	tets := m.Tets()
	if len(tets) == 0 {
		return 0
	}
	out := 0
	for _, t := range tets {
		for _, p := range geom.EdgePairs {
			if l := EdgeLength(m, tensor, t[p[0]], t[p[1]]); l < lo || l > hi {
				out++
				break
			}
		}
	}
	return float64(out) / float64(len(tets))
}
