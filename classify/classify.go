// Package classify assigns every mesh vertex a freedom class and a
// constraint vector from the shape of its incident boundary faces.
//
// Rules, evaluated per live vertex:
//
//   - no incident boundary face: Free;
//   - boundary-face unit normals are grouped by coplanarity, a face joining
//     the first group whose reference normal n_ref satisfies
//     1 - n·n_ref <= Tolerance;
//   - one group holding at least 3 faces: Facet, Vec = group normal;
//   - exactly two groups and at least 3 faces: Segment, Vec = unit cross
//     product of the two reference normals;
//   - anything else: Fixed.
//
// The tolerance comparison is inclusive. Faces are grouped in the order the
// topology reports them, so a face marginally outside the tolerance of one
// group starts a group of its own.
//
// Decisions are written through a Recorder so that every change of class is
// journaled and can be rolled back.
package classify

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/geom"
	"github.com/katalvlaran/tetimprove/mesh"
)

// DefaultTolerance is the coplanarity tolerance on 1 - cos(angle between normals).
const DefaultTolerance = 1e-4

// Classifier decides freedom classes. The zero value uses DefaultTolerance.
type Classifier struct {
	Tolerance float64
}

func (c Classifier) tol() float64 {
	if c.Tolerance <= 0 {
		return DefaultTolerance
	}
	return c.Tolerance
}

type group struct {
	ref   r3.Vec
	count int
}

// Decide computes the record for v without writing it anywhere.
// Complexity: O(F·G) for F boundary faces forming G groups.
func (c Classifier) Decide(topo Topology, v mesh.VertexID) Record {
	faces := topo.VertexBoundaryFaces(v)
	if len(faces) == 0 {
		return Record{Class: Free}
	}

	tol := c.tol()
	var groups []group
	total := 0
	for _, f := range faces {
		n, ok := geom.UnitNormal(topo.Position(f[0]), topo.Position(f[1]), topo.Position(f[2]))
		if !ok {
			continue
		}
		total++
		joined := false
		for i := range groups {
			if 1-r3.Dot(n, groups[i].ref) <= tol {
				groups[i].count++
				joined = true
				break
			}
		}
		if !joined {
			groups = append(groups, group{ref: n, count: 1})
		}
	}

	switch {
	case len(groups) == 1 && groups[0].count >= 3:
		return Record{Class: Facet, Vec: groups[0].ref}
	case len(groups) == 2 && total >= 3:
		d := r3.Cross(groups[0].ref, groups[1].ref)
		if l := r3.Norm(d); l > 0 {
			return Record{Class: Segment, Vec: r3.Scale(1/l, d)}
		}
	}
	return Record{Class: Fixed}
}

// ClassifyAll classifies every live vertex of topo and records each
// decision through rec.
func (c Classifier) ClassifyAll(topo Topology, rec Recorder) error {
	for _, v := range topo.Vertices() {
		d := c.Decide(topo, v)
		if err := rec.Classify(v, d.Class, d.Vec); err != nil {
			return fmt.Errorf("ClassifyAll: vertex %d: %w", v, err)
		}
	}
	return nil
}

// Reclassify resets v to Unclassified and classifies it afresh, recording
// both steps. Used after a vertex has been inserted or its neighbourhood
// changed shape.
func (c Classifier) Reclassify(topo Topology, rec Recorder, v mesh.VertexID) (Record, error) {
	if rec.Class(v).Class != Unclassified {
		if err := rec.Classify(v, Unclassified, r3.Vec{}); err != nil {
			return Record{}, fmt.Errorf("Reclassify(%d): reset: %w", v, err)
		}
	}
	d := c.Decide(topo, v)
	if err := rec.Classify(v, d.Class, d.Vec); err != nil {
		return Record{}, fmt.Errorf("Reclassify(%d): %w", v, err)
	}
	return d, nil
}
