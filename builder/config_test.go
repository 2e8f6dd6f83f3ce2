// Package builder contains unit tests for the configuration primitives
// (builderConfig and BuilderOption) to ensure correct application and override behavior.
package builder

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewBuilderConfig_Defaults(t *testing.T) {
	cfg := newBuilderConfig()
	assert.Nil(t, cfg.rng)
	assert.Equal(t, defaultSpacing, cfg.spacing)
	assert.Equal(t, r3.Vec{}, cfg.origin)
}

func TestOptions_LastWins(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	cfg := newBuilderConfig(WithSpacing(2), WithSpacing(0.5), WithSeed(1), WithRand(r))
	assert.Equal(t, 0.5, cfg.spacing)
	assert.Same(t, r, cfg.rng)
}

func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { WithRand(nil) })
	assert.Panics(t, func() { WithSpacing(0) })
	assert.Panics(t, func() { WithSpacing(-1) })
}
