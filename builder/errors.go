// SPDX-License-Identifier: MIT
// Package: tetimprove/builder
//
// errors.go: sentinel errors for the builder package.
//
// Error policy (explicit and strict):
//   • Only sentinel variables (package-level) are exposed.
//   • Callers MUST use errors.Is(err, ErrX) to branch on semantics.
//   • Implementations attach context using `%w`.
//   • Constructors MUST NOT panic at runtime; validation panics are confined to
//     option constructor functions (WithX...).

package builder

import (
	"errors"
	"fmt"
)

// ErrTooFewCells indicates that a size parameter (cells per axis) is smaller
// than the allowed minimum.
// Usage: if errors.Is(err, ErrTooFewCells) { /* report invalid size */ }.
var ErrTooFewCells = errors.New("builder: parameter too small")

// ErrFraction indicates a jitter or flatten fraction outside its range.
var ErrFraction = errors.New("builder: fraction out of range")

// ErrNeedRandSource indicates that a stochastic modifier requires a non-nil
// *rand.Rand in the resolved builderConfig (WithSeed/WithRand must be set).
var ErrNeedRandSource = errors.New("builder: rng is required")

// ErrConstructFailed indicates that construction could not produce a valid
// positively oriented mesh: a modifier would invert an element, a modifier
// ran before any base shape, or the arrays were rejected by the mesh.
var ErrConstructFailed = errors.New("builder: construction failed")

// builderErrorf wraps a sentinel with the given method context, in the form
// "<Method>: <formatted message>: <sentinel>".
func builderErrorf(method string, sentinel error, format string, args ...interface{}) error {
	inner := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %s: %w", method, inner, sentinel)
}
