// Package tetimprove improves the quality of tetrahedral meshes: it takes a
// mesh with slivers, needles and caps and returns one whose worst dihedral
// angles meet configured goals, optionally resized toward a target edge
// length.
//
// 🚀 What is tetimprove?
//
//	A single-threaded, journaled mesh-improvement engine:
//		• Vertex smoothing constrained by boundary freedom and quadric fidelity
//		• Topological flips: 2-3, 3-2, edge removal, boundary 2-2
//		• Edge contraction and vertex insertion
//		• Size control: contract short edges, split long ones
//		• Every edit logged and invertible, so failed attempts leave no trace
//
// Under the hood, the work is split into subpackages:
//
//	geom/       orientation, volumes, dihedral angles
//	quality/    quality measures (min sine, radius ratio, ...) and warping
//	mesh/       the tetrahedral complex and its flip primitives
//	journal/    the invertible edit log
//	classify/   vertex freedom classes (free, facet, segment, fixed)
//	quadric/    boundary fidelity quadrics
//	workstack/  the worklist of candidate elements
//	improve/    the session and the pass scheduler
//	sizing/     edge-length control
//	metrics/    Prometheus collectors fed by session progress
//	builder/    deterministic test meshes
//	config/     the option record and its file loader
//
// Run ties the pieces together:
//
//	m, _ := builder.BuildMesh(nil, builder.KuhnLattice(4, 4, 4))
//	out, err := tetimprove.Run(ctx, m, config.Default())
package tetimprove
