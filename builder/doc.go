// Package builder provides deterministic tetrahedral mesh fixtures for the
// improvement engine, its tests, benchmarks and the command-line tool.
//
// The package offers the following key components:
//
//   - Configuration primitives:
//     – BuilderOption:  a function that mutates builderConfig before use.
//     – builderConfig:  holds RNG, lattice spacing and origin.
//   - Base constructors (exactly one per BuildMesh call, first):
//     – KuhnLattice:     n×m×k cubes, six tetrahedra around each cube diagonal.
//     – FiveTetLattice:  n×m×k cubes, five tetrahedra with alternating parity.
//     – RegularTet:      one regular tetrahedron of edge length spacing.
//     – StellatedTet:    a regular tetrahedron split into four around its centroid.
//   - Modifiers (any number, after the base):
//     – Jitter:          random displacement of interior lattice points.
//     – Flatten:         pushes one vertex towards its opposite face.
//   - Validation helpers:
//     – validateMin:      ensure integer ≥ minimum.
//     – validateFraction: ensure a fraction lies in [0, max).
//
// Guarantees:
//
//   - Determinism: same constructors, options and seed ⇒ identical meshes.
//   - Fast-fail on invalid option parameters via panics in option constructors.
//   - Structured runtime errors wrapping the sentinels of errors.go.
//   - Every returned mesh is a valid, positively oriented complex; a modifier
//     that would invert an element fails with ErrConstructFailed.
//
// See individual function documentation for contracts and complexity.
package builder
