// SPDX-License-Identifier: MIT
// Package: tetimprove/builder
//
// impl_regular.go: RegularTet and StellatedTet constructors.
//
// The regular tetrahedron has vertices at alternate corners of a cube
// centred on cfg.origin, scaled so every edge has length cfg.spacing.

package builder

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var regularCorners = [4]r3.Vec{{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: -1, Z: 1}}

func addRegular(a *Assembly, cfg builderConfig) {
	// Corner-to-corner distance is 2√2 before scaling.
	s := cfg.spacing / (2 * math.Sqrt2)
	for _, c := range regularCorners {
		a.Points = append(a.Points, r3.Add(cfg.origin, r3.Scale(s, c)))
		a.Boundary = append(a.Boundary, true)
	}
}

// RegularTet returns a Constructor for one regular tetrahedron.
func RegularTet() Constructor {
	return func(a *Assembly, cfg builderConfig) error {
		if err := requireEmpty(MethodRegularTet, a); err != nil {
			return err
		}
		addRegular(a, cfg)
		a.Tets = append(a.Tets, [4]int{0, 1, 2, 3})
		return nil
	}
}

// StellatedTet returns a Constructor for a regular tetrahedron split into
// four around its centroid, point 4. Tetrahedron i replaces corner i by the
// centroid, so the centroid is the last vertex of tetrahedron 3.
func StellatedTet() Constructor {
	return func(a *Assembly, cfg builderConfig) error {
		if err := requireEmpty(MethodStellatedTet, a); err != nil {
			return err
		}
		addRegular(a, cfg)
		a.Points = append(a.Points, cfg.origin)
		a.Boundary = append(a.Boundary, false)
		a.Tets = append(a.Tets, [4]int{4, 1, 2, 3}, [4]int{0, 4, 2, 3}, [4]int{0, 1, 4, 3}, [4]int{0, 1, 2, 4})
		return nil
	}
}
