// Package builder defines shared constants used by mesh builders, ensuring
// consistent validation across all constructors.
package builder

//-----------------------------------------------------------------------------
// Builder Method Name Constants
//   used to prefix errors with the constructor name for context.
//-----------------------------------------------------------------------------

const (
	// MethodKuhnLattice is the canonical name for the KuhnLattice constructor.
	MethodKuhnLattice = "KuhnLattice"
	// MethodFiveTetLattice is the canonical name for the FiveTetLattice constructor.
	MethodFiveTetLattice = "FiveTetLattice"
	// MethodRegularTet is the canonical name for the RegularTet constructor.
	MethodRegularTet = "RegularTet"
	// MethodStellatedTet is the canonical name for the StellatedTet constructor.
	MethodStellatedTet = "StellatedTet"
	// MethodJitter is the canonical name for the Jitter modifier.
	MethodJitter = "Jitter"
	// MethodFlatten is the canonical name for the Flatten modifier.
	MethodFlatten = "Flatten"
)

//-----------------------------------------------------------------------------
// Minimum sizes and fraction bounds
//-----------------------------------------------------------------------------

// MinLatticeCells is the smallest number of cubes along each lattice axis.
const MinLatticeCells = 1

// MaxJitter bounds the jitter fraction of the spacing; at half a cell two
// neighbouring points could meet.
const MaxJitter = 0.5

// MaxFlatten bounds the flatten fraction; at 1 the element has no volume.
const MaxFlatten = 1.0
