package improve

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/classify"
	"github.com/katalvlaran/tetimprove/journal"
	"github.com/katalvlaran/tetimprove/mesh"
	"github.com/katalvlaran/tetimprove/quadric"
	"github.com/katalvlaran/tetimprove/quality"
)

// ErrInvariant indicates a hard invariant violation: the mesh is no longer
// a valid positively oriented complex. The run stops.
var ErrInvariant = errors.New("improve: mesh invariant violated")

// MinMinImprovement is the smallest increase of the global minimum quality
// that counts as success on the minimum axis.
const MinMinImprovement = 1e-15

// Mesh is the connectivity kernel the engine drives. *mesh.Mesh satisfies it.
type Mesh interface {
	journal.Editor
	classify.Topology
	quadric.Surface

	Alive(v mesh.VertexID) bool
	NumTets() int
	Tets() []mesh.Tet
	HasTet(t mesh.Tet) bool
	Points(t mesh.Tet) [4]r3.Vec
	Apex(f mesh.Face) (mesh.VertexID, bool)
	Opposite(t mesh.Tet, k int) mesh.VertexID
	IncidentTets(v mesh.VertexID) []mesh.Tet
	Neighbors(v mesh.VertexID) []mesh.VertexID
	TetsOfEdge(u, v mesh.VertexID) []mesh.Tet
	EdgeRing(u, v mesh.VertexID) ([]mesh.VertexID, bool, error)
	IsBoundaryFace(f mesh.Face) bool
	IsBoundaryEdge(u, v mesh.VertexID) bool
	IsBoundaryVertex(v mesh.VertexID) bool
	Edges() []mesh.Edge
	Validate() error
}

// PassKind selects what one pass does with its worklist.
type PassKind uint8

const (
	Smoothing PassKind = iota
	Topological
	ContractWorst
	ContractAll
	Insertion
	DesperateInsertion
)

var passNames = [...]string{"smoothing", "topological", "contract-worst", "contract-all", "insertion", "desperate-insertion"}

// String implements fmt.Stringer.
func (k PassKind) String() string {
	if int(k) < len(passNames) {
		return passNames[k]
	}
	return fmt.Sprintf("PassKind(%d)", uint8(k))
}

// inserting reports whether k is held to the insertion improvement threshold.
func (k PassKind) inserting() bool {
	return k == Insertion || k == DesperateInsertion
}

// MeanThresholds are the dihedral angles, in degrees, whose sines cap the
// running means reported by a Measurement.
var MeanThresholds = [...]float64{1, 5, 10, 15, 25, 35, 45}

// Measurement summarizes the quality of the whole mesh.
type Measurement struct {
	Min   float64
	Means [len(MeanThresholds)]float64
	Count int
}

// PassResult is the outcome of one pass.
type PassResult struct {
	Kind        PassKind
	Before      Measurement
	After       Measurement
	Worklist    int
	Successes   int
	MinSuccess  bool
	MeanSuccess bool
}

// Succeeded reports whether either success axis fired.
func (r PassResult) Succeeded() bool { return r.MinSuccess || r.MeanSuccess }

// StopReason says why Improve returned.
type StopReason uint8

const (
	GoalReached StopReason = iota + 1
	Stagnated
	Canceled
)

var stopNames = map[StopReason]string{GoalReached: "goal-reached", Stagnated: "stagnated", Canceled: "canceled"}

// String implements fmt.Stringer.
func (r StopReason) String() string {
	if s, ok := stopNames[r]; ok {
		return s
	}
	return fmt.Sprintf("StopReason(%d)", uint8(r))
}

// Result is the outcome of Improve.
type Result struct {
	Passes   []PassResult
	Rounds   int
	Reason   StopReason
	Initial  Measurement
	Final    Measurement
	Extremes quality.Extremes
}

// OpStats tallies one local operator.
type OpStats struct {
	Attempts  int
	Successes int
}

func (o *OpStats) tally(ok bool) bool {
	o.Attempts++
	if ok {
		o.Successes++
	}
	return ok
}

// Stats holds per-operator tallies for a session.
type Stats struct {
	Smooth        OpStats
	Flip23        OpStats
	Flip32        OpStats
	EdgeRemoval   OpStats
	Flip22        OpStats
	Contract      OpStats
	InsertBody    OpStats
	InsertFacet   OpStats
	InsertSegment OpStats
	Split         OpStats
	Passes        int
	Rollbacks     int
}

// Checkpoint names the moments a progress observer is called.
type Checkpoint string

const (
	CheckpointInit     Checkpoint = "init"
	CheckpointPass     Checkpoint = "pass"
	CheckpointTeardown Checkpoint = "teardown"
)

// Report is what a progress observer receives.
type Report struct {
	Checkpoint  Checkpoint
	SessionID   string
	Pass        *PassResult
	Measurement Measurement
	Stats       Stats
	Vertices    int
	Tets        int
}
