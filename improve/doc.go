// Package improve is the pass scheduler of the mesh-quality engine: it turns
// a tetrahedral mesh with poor elements into one whose worst dihedral angles
// meet configured goals, using only local, journaled, reversible edits.
//
// What
//
//   - Session: the explicit context of one run. It owns the edit journal,
//     the vertex classification table, the boundary quadrics, the options,
//     the operator statistics and the logger. Nothing is process-global,
//     so sessions on different meshes may run concurrently.
//   - RunPass: builds a worklist of elements below a quality threshold
//     (one per edge for ContractAll), sorts it worst first, dispatches each
//     still-live candidate to its operator and reports the dual success
//     signals (minimum and thresholded means).
//   - Improve: the outer schedule (see driver.go), stopping when the goal
//     angles hold or when MaxStagnantRounds rounds bring no success.
//   - Operators: constrained smoothing with quadric fidelity, 2-3 / 3-2 /
//     edge-removal / boundary 2-2 flips, boundary-aware edge contraction,
//     body / facet / segment vertex insertion and edge splitting.
//
// Consistency
//
//	Every edit goes through the journal. A speculative sequence that fails
//	its quality test is undone with Rollback before the next candidate
//	starts, so no half-applied edit survives one worklist iteration. The
//	journal is chopped only at these commit points.
//
// Errors
//
//	Local failures (an infeasible flip, a rejected insertion) are expected;
//	they are counted in Stats and never surface. ErrInvariant is returned
//	when the mesh stops being a valid positively oriented complex, which
//	ends the run. Context cancellation is checked between candidates.
//
// Usage
//
//	m, _ := mesh.FromArrays(points, tets)
//	s, err := improve.NewSession(m, config.Default(),
//	    improve.WithLogger(logger),
//	    improve.WithProgress(func(r improve.Report) { /* ... */ }))
//	if err != nil {
//	    // config.ErrInvalid, quality.ErrUnknownMeasure
//	}
//	res, err := s.Improve(ctx)
package improve
