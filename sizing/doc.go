// Package sizing pulls the edge lengths of a mesh toward a target without
// giving up element quality.
//
// EdgeStatistics reports min, max, mean and median edge length, optionally
// in the space stretched by the session's deformation tensor. A Controller
// collapses edges shorter than Target·ShorterFactor and splits edges longer
// than Target·LongerFactor, then recovers quality with one smoothing and one
// topological pass. Splits that leave an element below SizingQualityFloor,
// or an edge below the short bound, are undone through the session journal.
//
//	s, _ := improve.NewSession(m, opts)
//	res, err := sizing.New(s).Run(ctx)
package sizing
