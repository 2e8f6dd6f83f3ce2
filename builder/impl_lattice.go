// SPDX-License-Identifier: MIT
// Package: tetimprove/builder
//
// impl_lattice.go: KuhnLattice and FiveTetLattice constructors.
//
// Canonical model:
//   • (nx+1)×(ny+1)×(nz+1) points in x-fastest order, cell size cfg.spacing.
//   • Cube corner c has local index bit0=x, bit1=y, bit2=z.
//   • Kuhn: six tetrahedra around the diagonal 0–7 of every cube; the same
//     split in every cube keeps shared faces conforming.
//   • Five-tet: a central tetrahedron plus four corners; cube parity
//     (i+j+k)%2 alternates the split so shared faces conform.
//
// Complexity:
//   • Time: O(nx·ny·nz) points and tetrahedra.
//
// Determinism:
//   • Stable point order (x, then y, then z) and stable cube order.

package builder

import "gonum.org/v1/gonum/spatial/r3"

var (
	kuhnSplit = [6][4]int{{0, 1, 3, 7}, {0, 1, 5, 7}, {0, 2, 3, 7}, {0, 2, 6, 7}, {0, 4, 5, 7}, {0, 4, 6, 7}}
	fiveEven  = [5][4]int{{1, 2, 4, 7}, {0, 1, 2, 4}, {3, 1, 2, 7}, {5, 1, 4, 7}, {6, 2, 4, 7}}
	fiveOdd   = [5][4]int{{0, 3, 5, 6}, {1, 0, 3, 5}, {2, 0, 3, 6}, {4, 0, 5, 6}, {7, 3, 5, 6}}
)

// KuhnLattice returns a Constructor for an nx×ny×nz block of cubes, each
// split into six Kuhn tetrahedra (dihedral angles 45°, 60° and 90°).
func KuhnLattice(nx, ny, nz int) Constructor {
	return lattice(MethodKuhnLattice, nx, ny, nz, func(int, int, int) [][4]int { return kuhnSplit[:] })
}

// FiveTetLattice returns a Constructor for an nx×ny×nz block of cubes, each
// split into five tetrahedra with alternating orientation.
func FiveTetLattice(nx, ny, nz int) Constructor {
	return lattice(MethodFiveTetLattice, nx, ny, nz, func(i, j, k int) [][4]int {
		if (i+j+k)%2 == 0 {
			return fiveEven[:]
		}
		return fiveOdd[:]
	})
}

func lattice(method string, nx, ny, nz int, split func(i, j, k int) [][4]int) Constructor {
	return func(a *Assembly, cfg builderConfig) error {
		for _, n := range [3]int{nx, ny, nz} {
			if err := validateMin(method, n, MinLatticeCells); err != nil {
				return err
			}
		}
		if err := requireEmpty(method, a); err != nil {
			return err
		}

		idx := func(i, j, k int) int { return i + (nx+1)*(j+(ny+1)*k) }
		for k := 0; k <= nz; k++ {
			for j := 0; j <= ny; j++ {
				for i := 0; i <= nx; i++ {
					a.Points = append(a.Points, r3.Add(cfg.origin, r3.Scale(cfg.spacing,
						r3.Vec{X: float64(i), Y: float64(j), Z: float64(k)})))
					a.Boundary = append(a.Boundary, i == 0 || j == 0 || k == 0 || i == nx || j == ny || k == nz)
				}
			}
		}

		for k := 0; k < nz; k++ {
			for j := 0; j < ny; j++ {
				for i := 0; i < nx; i++ {
					var corner [8]int
					for c := range corner {
						corner[c] = idx(i+c&1, j+c>>1&1, k+c>>2&1)
					}
					for _, t := range split(i, j, k) {
						a.Tets = append(a.Tets, [4]int{corner[t[0]], corner[t[1]], corner[t[2]], corner[t[3]]})
					}
				}
			}
		}
		return nil
	}
}
