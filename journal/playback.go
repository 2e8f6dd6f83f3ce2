package journal

import (
	"fmt"

	"github.com/katalvlaran/tetimprove/classify"
	"github.com/katalvlaran/tetimprove/mesh"
)

func tetOf(e Entry) mesh.Tet {
	return mesh.Tet{e.Verts[0], e.Verts[1], e.Verts[2], e.Verts[3]}
}

// Playback re-applies e forward. It does not append to the log.
func (j *Journal) Playback(e Entry) error {
	v := e.Verts
	var err error
	switch e.Kind {
	case KindInsertTet:
		err = j.ed.AddTet(tetOf(e))
	case KindDeleteTet:
		err = j.ed.DeleteTet(tetOf(e))
	case KindFlip23:
		err = j.ed.Flip23(v[0], v[1], v[2], v[3], v[4])
	case KindFlip32:
		err = j.ed.Flip32(v[0], v[1], v[2], v[3], v[4])
	case KindFlip22:
		err = j.ed.Flip22(v[0], v[1], v[2], v[3], v[4])
	case KindFlip14:
		err = j.ed.Flip14(v[0], v[1], v[2], v[3], v[4])
	case KindFlip41:
		err = j.ed.Flip41(v[0], v[1], v[2], v[3], v[4])
	case KindFlip13:
		err = j.ed.Flip13(v[0], v[1], v[2], v[3], v[4])
	case KindFlip31:
		err = j.ed.Flip31(v[0], v[1], v[2], v[3], v[4])
	case KindFlip12:
		err = j.ed.Flip12(v[0], v[1], v[2], v[3], v[4])
	case KindFlip21:
		err = j.ed.Flip21(v[0], v[1], v[2], v[3], v[4])
	case KindSmooth:
		j.ed.SetPosition(v[0], e.New)
	case KindInsertVertex:
		// The handle was killed by an earlier inversion; bring it back
		// pending reclassification.
		if err = j.ed.ReviveVertex(v[0], e.New); err == nil {
			j.classes.Set(v[0], classify.Record{Class: classify.Undead})
		}
	case KindDeleteVertex:
		if err = j.ed.KillVertex(v[0]); err == nil {
			j.classes.Set(v[0], classify.Record{Class: classify.Dead})
		}
	case KindClassify:
		j.classes.Set(v[0], classify.Record{Class: e.NewClass, Vec: e.NewVec})
	default:
		panic(fmt.Sprintf("journal: playback of unknown kind %d", e.Kind))
	}
	if err != nil {
		return fmt.Errorf("Playback: entry %d (%s): %w: %w", e.ID, e.Kind, ErrCorrupt, err)
	}
	return nil
}

// Invert applies the exact inverse of e. It does not remove e from the log.
func (j *Journal) Invert(e Entry) error {
	v := e.Verts
	var err error
	switch e.Kind {
	case KindInsertTet:
		err = j.ed.DeleteTet(tetOf(e))
	case KindDeleteTet:
		err = j.ed.AddTet(tetOf(e))
	case KindFlip23:
		err = j.ed.Flip32(v[0], v[1], v[2], v[3], v[4])
	case KindFlip32:
		err = j.ed.Flip23(v[0], v[1], v[2], v[3], v[4])
	case KindFlip22:
		err = j.ed.Flip22(v[1], v[2], v[3], v[0], v[4])
	case KindFlip14:
		err = j.ed.Flip41(v[0], v[1], v[2], v[3], v[4])
	case KindFlip41:
		err = j.ed.Flip14(v[0], v[1], v[2], v[3], v[4])
	case KindFlip13:
		err = j.ed.Flip31(v[0], v[1], v[2], v[3], v[4])
	case KindFlip31:
		err = j.ed.Flip13(v[0], v[1], v[2], v[3], v[4])
	case KindFlip12:
		err = j.ed.Flip21(v[0], v[1], v[2], v[3], v[4])
	case KindFlip21:
		err = j.ed.Flip12(v[0], v[1], v[2], v[3], v[4])
	case KindSmooth:
		j.ed.SetPosition(v[0], e.Old)
	case KindInsertVertex:
		if err = j.ed.KillVertex(v[0]); err == nil {
			j.classes.Set(v[0], classify.Record{Class: classify.Dead})
		}
	case KindDeleteVertex:
		if err = j.ed.ReviveVertex(v[0], e.Old); err == nil {
			j.classes.Set(v[0], classify.Record{Class: e.OldClass, Vec: e.OldVec})
		}
	case KindClassify:
		j.classes.Set(v[0], classify.Record{Class: e.OldClass, Vec: e.OldVec})
	default:
		panic(fmt.Sprintf("journal: invert of unknown kind %d", e.Kind))
	}
	if err != nil {
		return fmt.Errorf("Invert: entry %d (%s): %w: %w", e.ID, e.Kind, ErrCorrupt, err)
	}
	return nil
}
