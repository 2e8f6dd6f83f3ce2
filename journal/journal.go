// Package journal records every edit made to a live mesh so that any
// suffix of the history can be replayed or rolled back exactly.
//
// Edits are applied through the Journal's editing methods (AddTet, the
// flips, Smooth, InsertVertex, DeleteVertex, Classify); each one calls the
// mesh, and only on success appends an Entry. A caller that wants a
// speculative sequence takes a mark with LastID, edits, and either keeps
// the result or calls InvertUpTo(mark).
//
// Inversion pairs:
//
//	flip23 ↔ flip32     flip14 ↔ flip41     flip13 ↔ flip31
//	flip12 ↔ flip21     flip22(a,b,c,d,e) ↔ flip22(b,c,d,a,e)
//	insert-tet ↔ delete-tet
//	smooth          → restore old position
//	insert-vertex   → mark dead (the handle is never reused)
//	delete-vertex   → revive at the old position with the old class
//	classify        → restore the previous record
//
// Memory is bounded by chopping: MaybeChop discards the older half of the
// log once it exceeds the chop size. Rolling back past the discarded part
// fails with ErrHorizon. Chop only between transactions, never while a mark
// is outstanding.
//
// A Journal is not safe for concurrent use.
package journal

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/arena"
	"github.com/katalvlaran/tetimprove/classify"
	"github.com/katalvlaran/tetimprove/mesh"
)

// DefaultChopSize is the entry count above which MaybeChop halves the log.
const DefaultChopSize = 1 << 16

const blockSize = 4096

// Option configures a Journal.
type Option func(*Journal)

// WithChopSize sets the chop threshold. Panics if n < 2.
func WithChopSize(n int) Option {
	if n < 2 {
		panic("journal: WithChopSize(n<2)")
	}
	return func(j *Journal) { j.chopSize = n }
}

// Journal is the invertible edit log bound to one mesh and class table.
type Journal struct {
	ed      Editor
	classes *classify.Table

	entries *arena.Arena[Entry]
	n       int
	horizon ID // entries with ID <= horizon have been discarded

	chopSize int
}

// New returns an empty journal editing ed and classes.
//
// Contracts:
//   - ed and classes must be non-nil and describe the same mesh.
//   - The first entry gets ID 1; LastID of an empty journal is 0.
//
// Complexity: O(1).
func New(ed Editor, classes *classify.Table, opts ...Option) *Journal {
	j := &Journal{
		ed:       ed,
		classes:  classes,
		entries:  arena.New[Entry](blockSize),
		chopSize: DefaultChopSize,
	}
	for _, o := range opts {
		o(j)
	}
	return j
}

// LastID returns the ID of the newest entry, or the horizon when the log
// is empty. It is the mark to pass to InvertUpTo.
func (j *Journal) LastID() ID { return j.horizon + ID(j.n) }

// Horizon returns the ID of the newest discarded entry, 0 if none.
func (j *Journal) Horizon() ID { return j.horizon }

// Len returns the number of retained entries.
func (j *Journal) Len() int { return j.n }

// Entry returns the retained entry with the given id.
func (j *Journal) Entry(id ID) (Entry, bool) {
	i := int(id - j.horizon - 1)
	if i < 0 || i >= j.n {
		return Entry{}, false
	}
	return *j.entries.Slot(i), true
}

// Entries returns a copy of the retained entries, oldest first.
func (j *Journal) Entries() []Entry {
	out := make([]Entry, j.n)
	for i := range out {
		out[i] = *j.entries.Slot(i)
	}
	return out
}

// Insert appends a raw entry and returns its id.
//
// Contracts:
//   - Insert does not touch the mesh or the class table.
//   - verts holds at most five handles; more panics.
//
// Complexity: O(1) amortized.
func (j *Journal) Insert(kind Kind, verts []mesh.VertexID, oldPos, newPos r3.Vec) ID {
	if len(verts) > 5 {
		panic(fmt.Sprintf("journal: %d vertices in one entry", len(verts)))
	}
	e := Entry{Kind: kind, N: len(verts), Old: oldPos, New: newPos}
	copy(e.Verts[:], verts)
	return j.append(e)
}

func (j *Journal) append(e Entry) ID {
	e.ID = j.LastID() + 1
	*j.entries.Slot(j.n) = e
	j.n++
	return e.ID
}

// MaybeChop discards the older half of the log when it holds more than the
// chop size and reports whether it did.
//
// Contracts:
//   - Entry IDs are unchanged; Horizon advances past the discarded ones.
//   - Call only between transactions: a mark older than the new horizon
//     can no longer be rolled back to.
//
// Complexity:
//   - O(n) when chopping, O(1) otherwise.
func (j *Journal) MaybeChop() bool {
	if j.n <= j.chopSize {
		return false
	}
	drop := j.n / 2
	for i := drop; i < j.n; i++ {
		*j.entries.Slot(i - drop) = *j.entries.Slot(i)
	}
	j.n -= drop
	j.horizon += ID(drop)
	return true
}

// InvertUpTo inverts and removes entries from the newest down to, but not
// including, the entry with the given id.
//
// Contracts:
//   - InvertUpTo(j.LastID()) is a no-op.
//   - On success LastID() == id and the mesh and class table are as they
//     were when id was the newest entry.
//
// Complexity:
//   - O(k) primitive inversions for k = LastID() − id.
//
// Errors:
//   - ErrHorizon if id is older than the chop horizon;
//   - ErrUnknownEntry if id is newer than LastID;
//   - ErrCorrupt if an inverse primitive fails; the offending entry stays
//     on top and the mesh must be considered inconsistent.
func (j *Journal) InvertUpTo(id ID) error {
	if id < j.horizon {
		return fmt.Errorf("InvertUpTo(%d): horizon %d: %w", id, j.horizon, ErrHorizon)
	}
	if id > j.LastID() {
		return fmt.Errorf("InvertUpTo(%d): last %d: %w", id, j.LastID(), ErrUnknownEntry)
	}
	for j.LastID() > id {
		e := *j.entries.Slot(j.n - 1)
		if err := j.Invert(e); err != nil {
			return fmt.Errorf("InvertUpTo(%d): %w", id, err)
		}
		j.n--
	}
	return nil
}

// Class returns the current record of v.
func (j *Journal) Class(v mesh.VertexID) classify.Record { return j.classes.Get(v) }

// Classes returns the class table the journal writes.
func (j *Journal) Classes() *classify.Table { return j.classes }
