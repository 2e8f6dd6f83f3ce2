package journal

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/classify"
	"github.com/katalvlaran/tetimprove/mesh"
)

// The editing facade: apply through the Editor, record on success. A
// failed primitive leaves both mesh and log untouched and its error is
// returned as is; such failures are expected during speculative search.

// AddTet inserts t and records it.
func (j *Journal) AddTet(t mesh.Tet) error {
	if err := j.ed.AddTet(t); err != nil {
		return err
	}
	j.Insert(KindInsertTet, t[:], r3.Vec{}, r3.Vec{})
	return nil
}

// DeleteTet removes t and records it.
func (j *Journal) DeleteTet(t mesh.Tet) error {
	if err := j.ed.DeleteTet(t); err != nil {
		return err
	}
	j.Insert(KindDeleteTet, t[:], r3.Vec{}, r3.Vec{})
	return nil
}

func (j *Journal) flip(kind Kind, f func(a, b, c, d, e mesh.VertexID) error, a, b, c, d, e mesh.VertexID) error {
	if err := f(a, b, c, d, e); err != nil {
		return err
	}
	j.Insert(kind, []mesh.VertexID{a, b, c, d, e}, r3.Vec{}, r3.Vec{})
	return nil
}

// Flip23 applies and records mesh.Flip23.
func (j *Journal) Flip23(a, b, c, d, e mesh.VertexID) error {
	return j.flip(KindFlip23, j.ed.Flip23, a, b, c, d, e)
}

// Flip32 applies and records mesh.Flip32.
func (j *Journal) Flip32(a, b, c, d, e mesh.VertexID) error {
	return j.flip(KindFlip32, j.ed.Flip32, a, b, c, d, e)
}

// Flip22 applies and records mesh.Flip22.
func (j *Journal) Flip22(a, b, c, d, e mesh.VertexID) error {
	return j.flip(KindFlip22, j.ed.Flip22, a, b, c, d, e)
}

// Flip14 applies and records mesh.Flip14.
func (j *Journal) Flip14(a, b, c, d, v mesh.VertexID) error {
	return j.flip(KindFlip14, j.ed.Flip14, a, b, c, d, v)
}

// Flip41 applies and records mesh.Flip41.
func (j *Journal) Flip41(a, b, c, d, v mesh.VertexID) error {
	return j.flip(KindFlip41, j.ed.Flip41, a, b, c, d, v)
}

// Flip13 applies and records mesh.Flip13.
func (j *Journal) Flip13(a, b, c, d, v mesh.VertexID) error {
	return j.flip(KindFlip13, j.ed.Flip13, a, b, c, d, v)
}

// Flip31 applies and records mesh.Flip31.
func (j *Journal) Flip31(a, b, c, d, v mesh.VertexID) error {
	return j.flip(KindFlip31, j.ed.Flip31, a, b, c, d, v)
}

// Flip12 applies and records mesh.Flip12.
func (j *Journal) Flip12(a, b, c, d, v mesh.VertexID) error {
	return j.flip(KindFlip12, j.ed.Flip12, a, b, c, d, v)
}

// Flip21 applies and records mesh.Flip21.
func (j *Journal) Flip21(a, b, c, d, v mesh.VertexID) error {
	return j.flip(KindFlip21, j.ed.Flip21, a, b, c, d, v)
}

// Smooth moves v to p and records the old and new positions.
// Geometry is not checked; callers verify element validity first.
func (j *Journal) Smooth(v mesh.VertexID, p r3.Vec) {
	old := j.ed.Position(v)
	j.ed.SetPosition(v, p)
	j.Insert(KindSmooth, []mesh.VertexID{v}, old, p)
}

// InsertVertex creates a vertex at p with an Unclassified record.
// The vertex has no incident tetrahedra until a flip or AddTet gives it some.
func (j *Journal) InsertVertex(p r3.Vec) mesh.VertexID {
	v := j.ed.AddVertex(p)
	prev := j.classes.Get(v)
	j.classes.Set(v, classify.Record{Class: classify.Unclassified})
	j.append(Entry{
		Kind: KindInsertVertex, Verts: [5]mesh.VertexID{v}, N: 1, New: p,
		OldClass: prev.Class, OldVec: prev.Vec, NewClass: classify.Unclassified,
	})
	return v
}

// DeleteVertex kills the isolated vertex v and marks its record Dead.
func (j *Journal) DeleteVertex(v mesh.VertexID) error {
	old := j.ed.Position(v)
	if err := j.ed.KillVertex(v); err != nil {
		return err
	}
	prev := j.classes.Get(v)
	j.classes.Set(v, classify.Record{Class: classify.Dead})
	j.append(Entry{
		Kind: KindDeleteVertex, Verts: [5]mesh.VertexID{v}, N: 1, Old: old,
		OldClass: prev.Class, OldVec: prev.Vec, NewClass: classify.Dead,
	})
	return nil
}

// Classify sets the record of v and logs the previous one. It implements
// classify.Recorder.
func (j *Journal) Classify(v mesh.VertexID, class classify.Freedom, vec r3.Vec) error {
	prev := j.classes.Get(v)
	j.classes.Set(v, classify.Record{Class: class, Vec: vec})
	j.append(Entry{
		Kind: KindClassify, Verts: [5]mesh.VertexID{v}, N: 1,
		OldClass: prev.Class, OldVec: prev.Vec, NewClass: class, NewVec: vec,
	})
	return nil
}
