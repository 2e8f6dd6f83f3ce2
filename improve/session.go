// File: session.go
// Role: Session context object, construction, and whole-mesh measurement.
// Determinism:
//   - Given the same mesh, options and measure, a session makes the same
//     decisions in the same order; nothing depends on map iteration.
package improve

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/classify"
	"github.com/katalvlaran/tetimprove/config"
	"github.com/katalvlaran/tetimprove/geom"
	"github.com/katalvlaran/tetimprove/journal"
	"github.com/katalvlaran/tetimprove/mesh"
	"github.com/katalvlaran/tetimprove/quadric"
	"github.com/katalvlaran/tetimprove/quality"
	"github.com/katalvlaran/tetimprove/workstack"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithProgress registers an observer called at the init, pass and teardown
// checkpoints. A nil observer is ignored.
func WithProgress(fn func(Report)) Option {
	return func(s *Session) {
		if fn != nil {
			s.progress = fn
		}
	}
}

// WithQuality replaces the configured measure by a custom one. sineBased
// declares whether its values are dihedral sines. Panics on nil.
func WithQuality(f quality.Func, sineBased bool) Option {
	if f == nil {
		panic("improve: WithQuality(nil)")
	}
	return func(s *Session) {
		s.qual = f
		s.sineBased = sineBased
	}
}

// WithID overrides the generated session id. Panics on an empty id.
func WithID(id string) Option {
	if id == "" {
		panic("improve: WithID(\"\")")
	}
	return func(s *Session) { s.ID = id }
}

// Session is the state of one improvement run over one mesh: the mesh, its
// edit journal, the vertex classification and quadric tables, options,
// statistics and logger. Sessions share nothing, so independent sessions
// may run concurrently on different meshes. A Session itself is not safe
// for concurrent use.
type Session struct {
	ID string

	mesh     Mesh
	journal  *journal.Journal
	classes  *classify.Table
	quadrics *quadric.Accumulator
	cls      classify.Classifier

	opts      config.Options
	qual      quality.Func
	sineBased bool
	tensor    *mat.Dense

	stats    Stats
	log      *slog.Logger
	progress func(Report)

	work *workstack.Stack
}

// NewSession validates opts, classifies every vertex of m (journaled),
// collects the boundary quadrics and reports the init checkpoint.
func NewSession(m Mesh, opts config.Options, options ...Option) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("NewSession: %w", err)
	}
	base, err := quality.Lookup(opts.QualityMeasure)
	if err != nil {
		return nil, fmt.Errorf("NewSession: %w", err)
	}

	s := &Session{
		ID:        uuid.NewString(),
		mesh:      m,
		classes:   classify.NewTable(len(m.Vertices())),
		quadrics:  quadric.New(),
		cls:       classify.Classifier{Tolerance: classify.DefaultTolerance},
		opts:      opts,
		qual:      base,
		sineBased: opts.QualityMeasure.SineBased(),
		tensor:    opts.Tensor(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		progress:  func(Report) {},
		work:      workstack.New(0),
	}
	for _, o := range options {
		o(s)
	}
	s.qual = quality.Warp(s.qual, s.tensor)
	s.log = s.log.With("session_id", s.ID)
	s.journal = journal.New(m, s.classes, journal.WithChopSize(opts.JournalChopSize))

	if err := s.cls.ClassifyAll(m, s.journal); err != nil {
		return nil, fmt.Errorf("NewSession: %w", err)
	}
	if opts.QuadricSmoothing {
		s.quadrics.Collect(m)
		s.quadrics.Normalize()
	}

	meas := s.Measure()
	s.log.Info("session start",
		"vertices", len(m.Vertices()), "tets", m.NumTets(),
		"measure", string(opts.QualityMeasure), "anisotropic", opts.Anisotropic,
		"min_quality", meas.Min, "quadric_vertices", s.quadrics.Count())
	s.report(CheckpointInit, nil, meas)
	return s, nil
}

// Mesh returns the mesh the session edits.
func (s *Session) Mesh() Mesh { return s.mesh }

// Journal returns the session's edit journal.
func (s *Session) Journal() *journal.Journal { return s.journal }

// Classes returns the vertex classification table.
func (s *Session) Classes() *classify.Table { return s.classes }

// Quadrics returns the boundary quadric table.
func (s *Session) Quadrics() *quadric.Accumulator { return s.quadrics }

// Options returns the session options.
func (s *Session) Options() config.Options { return s.opts }

// Stats returns a copy of the operator tallies.
func (s *Session) Stats() Stats { return s.stats }

// Logger returns the session logger, already tagged with the session id.
func (s *Session) Logger() *slog.Logger { return s.log }

// Tensor returns the deformation tensor, nil for isotropic runs.
func (s *Session) Tensor() *mat.Dense { return s.tensor }

// Mark returns the current journal position for a later Rollback.
func (s *Session) Mark() journal.ID { return s.journal.LastID() }

// Rollback undoes every journaled edit made after mark.
func (s *Session) Rollback(mark journal.ID) error {
	if s.journal.LastID() == mark {
		return nil
	}
	s.stats.Rollbacks++
	if err := s.journal.InvertUpTo(mark); err != nil {
		s.log.Error("rollback failed", "mark", int64(mark), "err", err)
		return fmt.Errorf("Rollback: %w: %w", ErrInvariant, err)
	}
	return nil
}

// Quality scores t with the session's measure.
func (s *Session) Quality(t mesh.Tet) float64 {
	return s.qual(s.mesh.Points(t))
}

// qualityWith scores t with vertex v placed at p.
func (s *Session) qualityWith(t mesh.Tet, v mesh.VertexID, p r3.Vec) float64 {
	pts := s.mesh.Points(t)
	if i := t.Index(v); i >= 0 {
		pts[i] = p
	}
	if geom.Orient(pts[0], pts[1], pts[2], pts[3]) <= 0 {
		return math.Min(s.qual(pts), 0)
	}
	return s.qual(pts)
}

// scoreTets returns the minimum quality of tets as positioned, and false
// if any of them is not positively oriented.
func (s *Session) scoreTets(tets []mesh.Tet, pos func(mesh.VertexID) r3.Vec) (float64, bool) {
	q := math.Inf(1)
	for _, t := range tets {
		p := [4]r3.Vec{pos(t[0]), pos(t[1]), pos(t[2]), pos(t[3])}
		if geom.Orient(p[0], p[1], p[2], p[3]) <= 0 {
			return math.Inf(-1), false
		}
		q = math.Min(q, s.qual(p))
	}
	return q, true
}

func (s *Session) minQuality(tets []mesh.Tet) float64 {
	q := math.Inf(1)
	for _, t := range tets {
		q = math.Min(q, s.Quality(t))
	}
	return q
}

// Measure computes the global minimum quality and the capped running
// means of the whole mesh.
// Complexity: O(T).
func (s *Session) Measure() Measurement {
	var caps [len(MeanThresholds)]float64
	for i, deg := range MeanThresholds {
		caps[i] = math.Sin(geom.Radians(deg))
	}
	m := Measurement{Min: math.Inf(1)}
	for _, t := range s.mesh.Tets() {
		q := s.Quality(t)
		m.Min = math.Min(m.Min, q)
		for i, c := range caps {
			m.Means[i] += math.Min(q, c)
		}
		m.Count++
	}
	if m.Count > 0 {
		for i := range m.Means {
			m.Means[i] /= float64(m.Count)
		}
	}
	return m
}

// Extremes returns the smallest and largest dihedral angle in the mesh,
// in degrees, measured in the deformed space for anisotropic runs.
func (s *Session) Extremes() quality.Extremes {
	e := quality.NewExtremes()
	for _, t := range s.mesh.Tets() {
		p := s.mesh.Points(t)
		for i := range p {
			p[i] = quality.Transform(s.tensor, p[i])
		}
		e.Observe(p)
	}
	return e
}

// GoalReached reports whether the mesh meets both goal angles. For sine
// measures the exact angle scan runs only when minQuality already exceeds
// the sines of both goals.
func (s *Session) GoalReached(minQuality float64) (bool, quality.Extremes) {
	if s.sineBased {
		lo := math.Sin(geom.Radians(s.opts.GoalMinAngle))
		hi := math.Sin(geom.Radians(180 - s.opts.GoalMaxAngle))
		if minQuality <= lo || minQuality <= hi {
			return false, quality.Extremes{}
		}
	}
	e := s.Extremes()
	return e.Min >= s.opts.GoalMinAngle && e.Max <= s.opts.GoalMaxAngle, e
}

// checkInvariants validates the mesh when CheckInvariants is on.
func (s *Session) checkInvariants() error {
	if !s.opts.CheckInvariants {
		return nil
	}
	if err := s.mesh.Validate(); err != nil {
		s.log.Error("invariant violated", "err", err)
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	return nil
}

// Commit ends one worklist candidate: everything kept so far is final, so
// the journal may be chopped. It validates the mesh when CheckInvariants is
// on and returns the context error, if any.
func (s *Session) Commit(ctx context.Context) error {
	if s.journal.MaybeChop() {
		s.log.Debug("journal chopped", "horizon", int64(s.journal.Horizon()))
	}
	if err := s.checkInvariants(); err != nil {
		return err
	}
	return ctx.Err()
}

func (s *Session) report(cp Checkpoint, pass *PassResult, m Measurement) {
	s.progress(Report{
		Checkpoint:  cp,
		SessionID:   s.ID,
		Pass:        pass,
		Measurement: m,
		Stats:       s.stats,
		Vertices:    len(s.mesh.Vertices()),
		Tets:        s.mesh.NumTets(),
	})
}
