package classify

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/mesh"
)

// Freedom is a vertex's allowed-motion category.
type Freedom uint8

const (
	// Unclassified is the state of a vertex never classified, or reset
	// after insertion pending reclassification.
	Unclassified Freedom = iota
	// Free vertices are interior and may move in any direction.
	Free
	// Facet vertices lie on a flat boundary patch and move within its plane.
	Facet
	// Segment vertices lie on a boundary crease and move along it.
	Segment
	// Fixed vertices do not move.
	Fixed
	// Dead marks a deleted vertex. Its record is kept so a stale handle
	// never picks up a live classification.
	Dead
	// Undead marks a vertex revived by rolling back its deletion, before
	// it has been reclassified.
	Undead
)

var freedomNames = [...]string{"unclassified", "free", "facet", "segment", "fixed", "dead", "undead"}

// String implements fmt.Stringer.
func (f Freedom) String() string {
	if int(f) < len(freedomNames) {
		return freedomNames[f]
	}
	return fmt.Sprintf("Freedom(%d)", uint8(f))
}

// Movable reports whether a vertex of this class may be relocated at all.
func (f Freedom) Movable() bool {
	return f == Free || f == Facet || f == Segment
}

// Record is the classification of one vertex. Vec is the facet normal for
// Facet, the unit crease direction for Segment, and zero otherwise.
type Record struct {
	Class Freedom
	Vec   r3.Vec
}

// Table holds one Record per vertex handle and grows on first touch.
type Table struct {
	recs []Record
}

// NewTable returns a table presized for n vertices.
func NewTable(n int) *Table {
	return &Table{recs: make([]Record, 0, n)}
}

// Get returns the record of v, Unclassified if v was never touched.
func (t *Table) Get(v mesh.VertexID) Record {
	if v < 0 || int(v) >= len(t.recs) {
		return Record{}
	}
	return t.recs[v]
}

// Set stores rec for v, growing the table as needed. Callers outside the
// journal should go through a Recorder so the change can be rolled back.
func (t *Table) Set(v mesh.VertexID, rec Record) {
	if v < 0 {
		return
	}
	for int(v) >= len(t.recs) {
		t.recs = append(t.recs, Record{})
	}
	t.recs[v] = rec
}

// Len returns the number of handles the table has grown to cover.
func (t *Table) Len() int { return len(t.recs) }

// Counts returns the number of records per class.
func (t *Table) Counts() map[Freedom]int {
	out := make(map[Freedom]int)
	for _, r := range t.recs {
		out[r.Class]++
	}
	return out
}

// Topology is the slice of the mesh the classifier reads.
type Topology interface {
	Vertices() []mesh.VertexID
	Position(v mesh.VertexID) r3.Vec
	VertexBoundaryFaces(v mesh.VertexID) []mesh.Face
}

// Recorder applies and logs a classification change. The journal
// implements it.
type Recorder interface {
	Classify(v mesh.VertexID, class Freedom, vec r3.Vec) error
	Class(v mesh.VertexID) Record
}
