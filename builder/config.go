// SPDX-License-Identifier: MIT
// Package: tetimprove/builder
//
// config.go: internal configuration and deterministic defaults.
//
// Deterministic defaults (no surprises):
//   • rng     = nil      (pure/deterministic unless seeded)
//   • spacing = 1.0
//   • origin  = (0,0,0)

package builder

import (
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors (immutable to callers).
type builderConfig struct {
	// RNG for stochastic choices; nil means “no randomness”.
	rng *rand.Rand
	// Cell size of lattices, edge length of regular shapes.
	spacing float64
	origin  r3.Vec
}

const defaultSpacing = 1.0

// newBuilderConfig constructs a config with deterministic defaults and
// applies all options in order (later overrides earlier).
// Complexity: O(len(opts)) time, O(1) space.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{spacing: defaultSpacing}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
