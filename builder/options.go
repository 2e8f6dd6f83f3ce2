// SPDX-License-Identifier: MIT
// Package: tetimprove/builder
//
// options.go: functional options for the builder package.
//
// Contract (strict):
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves MUST NOT panic.
//   • Determinism is explicit: seeding is done via WithSeed or WithRand.

package builder

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// BuilderOption customizes the behavior of a constructor by mutating a
// builderConfig instance before construction begins.
type BuilderOption func(*builderConfig)

// WithRand provides an explicit RNG for stochastic modifiers.
// Panics on nil; prefer WithSeed for reproducible runs.
func WithRand(r *rand.Rand) BuilderOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *builderConfig) {
		c.rng = r
	}
}

// WithSeed creates a new *rand.Rand with the given seed (deterministic).
func WithSeed(seed int64) BuilderOption {
	return func(c *builderConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithSpacing sets the lattice cell size and the regular edge length.
// Panics if h <= 0.
func WithSpacing(h float64) BuilderOption {
	if h <= 0 {
		panic("builder: WithSpacing(h<=0)")
	}
	return func(c *builderConfig) {
		c.spacing = h
	}
}

// WithOrigin translates every generated point by o.
func WithOrigin(o r3.Vec) BuilderOption {
	return func(c *builderConfig) {
		c.origin = o
	}
}
