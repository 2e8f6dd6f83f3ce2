package journal

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/classify"
	"github.com/katalvlaran/tetimprove/mesh"
)

// Sentinel errors.
var (
	// ErrHorizon indicates a rollback target older than the oldest entry
	// still retained after chopping.
	ErrHorizon = errors.New("journal: rollback target beyond chop horizon")

	// ErrUnknownEntry indicates a rollback target newer than the last entry.
	ErrUnknownEntry = errors.New("journal: unknown entry id")

	// ErrCorrupt indicates that a recorded edit could not be replayed or
	// inverted; the mesh no longer matches the journal.
	ErrCorrupt = errors.New("journal: mesh inconsistent with journal")
)

// ID identifies an entry. IDs increase by one per entry, starting at 1;
// 0 denotes the state before the first entry.
type ID int64

// Class groups entry kinds.
type Class uint8

const (
	ClassInsertDelete Class = iota
	ClassSmooth
	ClassTopological
	ClassClassify
)

// Kind is the specific edit an entry records.
type Kind uint8

const (
	KindInsertTet Kind = iota + 1
	KindDeleteTet
	KindFlip23
	KindFlip32
	KindFlip22
	KindFlip14
	KindFlip41
	KindFlip13
	KindFlip31
	KindFlip12
	KindFlip21
	KindSmooth
	KindInsertVertex
	KindDeleteVertex
	KindClassify
)

var kindNames = map[Kind]string{
	KindInsertTet:    "insert-tet",
	KindDeleteTet:    "delete-tet",
	KindFlip23:       "flip23",
	KindFlip32:       "flip32",
	KindFlip22:       "flip22",
	KindFlip14:       "flip14",
	KindFlip41:       "flip41",
	KindFlip13:       "flip13",
	KindFlip31:       "flip31",
	KindFlip12:       "flip12",
	KindFlip21:       "flip21",
	KindSmooth:       "smooth",
	KindInsertVertex: "insert-vertex",
	KindDeleteVertex: "delete-vertex",
	KindClassify:     "classify",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Class returns the class tag of k.
func (k Kind) Class() Class {
	switch k {
	case KindSmooth:
		return ClassSmooth
	case KindClassify:
		return ClassClassify
	case KindInsertTet, KindDeleteTet, KindInsertVertex, KindDeleteVertex:
		return ClassInsertDelete
	}
	return ClassTopological
}

// Entry is one recorded edit.
//
// Payload by kind:
//   - tet insert/delete: Verts[0:4] is the tetrahedron;
//   - flips: Verts[0:5] are the flip arguments;
//   - smooth: Verts[0], Old and New positions;
//   - vertex insert: Verts[0] and New; vertex delete: Verts[0] and Old;
//   - classify: Verts[0], OldClass/OldVec and NewClass/NewVec.
type Entry struct {
	ID    ID
	Kind  Kind
	Verts [5]mesh.VertexID
	N     int

	Old, New r3.Vec

	OldClass, NewClass classify.Freedom
	OldVec, NewVec     r3.Vec
}

// Vertices returns the first N recorded vertex handles.
func (e Entry) Vertices() []mesh.VertexID { return e.Verts[:e.N] }

// Editor is the set of mesh primitives the journal drives.
// *mesh.Mesh satisfies it.
type Editor interface {
	AddTet(t mesh.Tet) error
	DeleteTet(t mesh.Tet) error

	Flip23(a, b, c, d, e mesh.VertexID) error
	Flip32(a, b, c, d, e mesh.VertexID) error
	Flip22(a, b, c, d, e mesh.VertexID) error
	Flip14(a, b, c, d, v mesh.VertexID) error
	Flip41(a, b, c, d, v mesh.VertexID) error
	Flip13(a, b, c, d, v mesh.VertexID) error
	Flip31(a, b, c, d, v mesh.VertexID) error
	Flip12(a, b, c, d, v mesh.VertexID) error
	Flip21(a, b, c, d, v mesh.VertexID) error

	Position(v mesh.VertexID) r3.Vec
	SetPosition(v mesh.VertexID, p r3.Vec)
	AddVertex(p r3.Vec) mesh.VertexID
	KillVertex(v mesh.VertexID) error
	ReviveVertex(v mesh.VertexID, p r3.Vec) error
}
