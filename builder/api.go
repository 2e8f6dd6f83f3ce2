// SPDX-License-Identifier: MIT
// Package: tetimprove/builder
//
// api.go - thin public entry-points for the builder package.
//
// Design contract (strict):
//   - One orchestrator: BuildMesh(bopts, cons...). Resolves cfg, runs cons in
//     order over an Assembly, then hands the arrays to mesh.FromArrays.
//   - Functional options (BuilderOption) resolve into an immutable builderConfig.
//   - Determinism: same inputs/options/seed and constructor order ⇒ identical meshes.
//   - Safety: never panic at runtime; return sentinel errors from constructors.

package builder

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/tetimprove/mesh"
)

// Assembly is the nodes/tetras form a constructor writes into.
type Assembly struct {
	Points []r3.Vec
	Tets   [][4]int
	// Boundary marks points on the hull of the base shape; modifiers
	// leave them in place.
	Boundary []bool
}

// Constructor applies a deterministic mutation to an Assembly using the
// resolved builderConfig. Constructors validate parameters early and return
// sentinel errors; they never panic.
type Constructor func(a *Assembly, cfg builderConfig) error

// BuildMesh resolves the builder configuration from bopts, applies all
// constructors in order and builds the mesh. Any error is wrapped with
// "BuildMesh: %w".
//
// Complexity: Σ cost of each constructor + O(V + T) for mesh.FromArrays.
func BuildMesh(bopts []BuilderOption, cons ...Constructor) (*mesh.Mesh, error) {
	a, err := BuildArrays(bopts, cons...)
	if err != nil {
		return nil, err
	}
	m, err := mesh.FromArrays(a.Points, a.Tets)
	if err != nil {
		return nil, fmt.Errorf("BuildMesh: %w: %w", ErrConstructFailed, err)
	}
	return m, nil
}

// BuildArrays is BuildMesh without the final mesh construction.
func BuildArrays(bopts []BuilderOption, cons ...Constructor) (*Assembly, error) {
	cfg := newBuilderConfig(bopts...)
	a := &Assembly{}
	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildMesh: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(a, cfg); err != nil {
			return nil, fmt.Errorf("BuildMesh: %w", err)
		}
	}
	if len(a.Tets) == 0 {
		return nil, fmt.Errorf("BuildMesh: no base constructor: %w", ErrConstructFailed)
	}
	return a, nil
}
