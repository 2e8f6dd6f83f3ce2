package tetimprove

import (
	"context"
	"fmt"

	"github.com/katalvlaran/tetimprove/config"
	"github.com/katalvlaran/tetimprove/improve"
	"github.com/katalvlaran/tetimprove/sizing"
)

// Outcome reports a full Run.
type Outcome struct {
	// Improve is the first improvement schedule.
	Improve improve.Result
	// Sizing and Reimprove are set only when opts.Sizing is on.
	Sizing    *sizing.Result
	Reimprove *improve.Result
	// Stats are the session's operator tallies at the end.
	Stats improve.Stats
	// SessionID identifies the session in logs and progress reports.
	SessionID string
}

// Run improves m in place: the improvement schedule, then, with
// opts.Sizing, size control followed by a second schedule to recover the
// quality the resizing cost. options are passed to improve.NewSession.
//
// Errors: config.ErrInvalid and quality.ErrUnknownMeasure from session
// setup; improve.ErrInvariant and context errors from the stages. On a
// stage error the Outcome holds every stage finished so far.
func Run(ctx context.Context, m improve.Mesh, opts config.Options, options ...improve.Option) (Outcome, error) {
	s, err := improve.NewSession(m, opts, options...)
	if err != nil {
		return Outcome{}, fmt.Errorf("Run: %w", err)
	}
	out := Outcome{SessionID: s.ID}
	err = run(ctx, s, &out)
	out.Stats = s.Stats()
	if err != nil {
		return out, fmt.Errorf("Run: %w", err)
	}
	return out, nil
}

func run(ctx context.Context, s *improve.Session, out *Outcome) error {
	var err error
	if out.Improve, err = s.Improve(ctx); err != nil || !s.Options().Sizing {
		return err
	}
	sz, err := sizing.New(s).Run(ctx)
	out.Sizing = &sz
	if err != nil {
		return err
	}
	again, err := s.Improve(ctx)
	out.Reimprove = &again
	return err
}
