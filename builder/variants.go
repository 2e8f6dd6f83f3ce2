// SPDX-License-Identifier: MIT
// Package: tetimprove/builder
//
// variants.go: modifiers applied after a base constructor.
//
// Contract:
//   • Modifiers never leave an inverted or flat element behind: Jitter
//     shrinks or skips offending moves, Flatten fails with ErrConstructFailed.
//   • Boundary points are never jittered, so the domain keeps its shape.

package builder

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// jitterRetries is how often a rejected displacement is halved.
const jitterRetries = 4

// Jitter returns a modifier displacing every interior point by a random
// vector with components in [-frac·spacing, frac·spacing]. Requires an RNG.
// Complexity: O(V + T).
func Jitter(frac float64) Constructor {
	return func(a *Assembly, cfg builderConfig) error {
		if err := validateFraction(MethodJitter, frac, MaxJitter); err != nil {
			return err
		}
		if cfg.rng == nil {
			return builderErrorf(MethodJitter, ErrNeedRandSource, "WithSeed or WithRand required")
		}
		if err := requireBase(MethodJitter, a); err != nil {
			return err
		}
		inc := incidence(a)
		amp := frac * cfg.spacing
		for v := range a.Points {
			if a.Boundary[v] {
				continue
			}
			d := r3.Vec{
				X: (2*cfg.rng.Float64() - 1) * amp,
				Y: (2*cfg.rng.Float64() - 1) * amp,
				Z: (2*cfg.rng.Float64() - 1) * amp,
			}
			for try := 0; try < jitterRetries; try++ {
				if tryMove(a, inc, v, r3.Add(a.Points[v], d)) {
					break
				}
				d = r3.Scale(0.5, d)
			}
		}
		return nil
	}
}

// Flatten returns a modifier that moves the last vertex of tetrahedron tet
// the fraction frac of the way towards the plane of the other three,
// producing a near-degenerate element for frac close to 1.
func Flatten(tet int, frac float64) Constructor {
	return func(a *Assembly, _ builderConfig) error {
		if err := validateFraction(MethodFlatten, frac, MaxFlatten); err != nil {
			return err
		}
		if err := requireBase(MethodFlatten, a); err != nil {
			return err
		}
		if tet < 0 || tet >= len(a.Tets) {
			return builderErrorf(MethodFlatten, ErrConstructFailed, "tetrahedron %d of %d", tet, len(a.Tets))
		}
		t := a.Tets[tet]
		p0, p1, p2, v := a.Points[t[0]], a.Points[t[1]], a.Points[t[2]], a.Points[t[3]]
		n := r3.Unit(r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0)))
		foot := r3.Sub(v, r3.Scale(r3.Dot(r3.Sub(v, p0), n), n))
		target := r3.Add(v, r3.Scale(frac, r3.Sub(foot, v)))
		if !tryMove(a, incidence(a), t[3], target) {
			return builderErrorf(MethodFlatten, ErrConstructFailed, "moving point %d inverts an element", t[3])
		}
		return nil
	}
}
