/*
 * spinsystem.go, part of gonmr.
 *
 * Copyright 2026 The gonmr authors.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package nmr

import (
	"math"
)

// symTolerance is the relative tolerance for the symmetry check of the coupling matrix.
const symTolerance = 1e-9

// SpinSystem is an immutable set of N spin-1/2 nuclei: one chemical shift (Hz) per
// spin and a symmetric matrix of scalar couplings (Hz) with a zero diagonal.
// It holds its own copy of the data, so changes to the slices used to build it
// do not reach it.
type SpinSystem struct {
	shifts    []float64
	couplings [][]float64
}

// NewSpinSystem validates shifts and couplings and returns a SpinSystem holding a
// snapshot of them. An empty (nil or zero-length) couplings slice means that no
// spin is coupled. Shape problems give an ErrInvalidDimension error, non-finite
// values or a non-zero diagonal give ErrInvalidParameter.
func NewSpinSystem(shifts []float64, couplings [][]float64) (*SpinSystem, error) {
	n := len(shifts)
	if n < 1 {
		return nil, NewError(ErrInvalidDimension, "NewSpinSystem", "at least one spin is required")
	}
	for i, v := range shifts {
		if !finite(v) {
			return nil, NewError(ErrInvalidParameter, "NewSpinSystem", "shift %d is not finite: %v", i, v)
		}
	}
	S := &SpinSystem{shifts: make([]float64, n), couplings: make([][]float64, n)}
	copy(S.shifts, shifts)
	for i := range S.couplings {
		S.couplings[i] = make([]float64, n)
	}
	if len(couplings) == 0 {
		return S, nil
	}
	if len(couplings) != n {
		return nil, NewError(ErrInvalidDimension, "NewSpinSystem", "%d shifts but %d coupling rows", n, len(couplings))
	}
	for i, row := range couplings {
		if len(row) != n {
			return nil, NewError(ErrInvalidDimension, "NewSpinSystem", "coupling row %d has %d elements, expected %d", i, len(row), n)
		}
	}
	for i := 0; i < n; i++ {
		if couplings[i][i] != 0 {
			return nil, NewError(ErrInvalidParameter, "NewSpinSystem", "spin %d is coupled to itself (J=%v)", i, couplings[i][i])
		}
		for j := i + 1; j < n; j++ {
			a, b := couplings[i][j], couplings[j][i]
			if !finite(a) || !finite(b) {
				return nil, NewError(ErrInvalidParameter, "NewSpinSystem", "coupling %d-%d is not finite", i, j)
			}
			scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
			if math.Abs(a-b) > symTolerance*scale {
				return nil, NewError(ErrInvalidDimension, "NewSpinSystem", "coupling matrix not symmetric at %d-%d: %v != %v", i, j, a, b)
			}
			S.couplings[i][j] = a
			S.couplings[j][i] = a
		}
	}
	return S, nil
}

// Len returns the number of spins in the system.
func (S *SpinSystem) Len() int { return len(S.shifts) }

// Shift returns the chemical shift of spin i.
func (S *SpinSystem) Shift(i int) float64 { return S.shifts[i] }

// Coupling returns the coupling constant between spins i and j.
func (S *SpinSystem) Coupling(i, j int) float64 { return S.couplings[i][j] }

// Shifts returns a copy of the chemical shifts.
func (S *SpinSystem) Shifts() []float64 {
	ret := make([]float64, len(S.shifts))
	copy(ret, S.shifts)
	return ret
}

// Couplings returns a copy of the coupling matrix.
func (S *SpinSystem) Couplings() [][]float64 {
	ret := make([][]float64, len(S.couplings))
	for i, row := range S.couplings {
		ret[i] = make([]float64, len(row))
		copy(ret[i], row)
	}
	return ret
}

// Permute returns the same physical system with the spins relabelled: spin i of the
// new system is spin perm[i] of S.
func (S *SpinSystem) Permute(perm []int) (*SpinSystem, error) {
	n := S.Len()
	if len(perm) != n {
		return nil, NewError(ErrInvalidDimension, "Permute", "permutation of length %d for %d spins", len(perm), n)
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return nil, NewError(ErrInvalidParameter, "Permute", "%v is not a permutation", perm)
		}
		seen[p] = true
	}
	shifts := make([]float64, n)
	couplings := make([][]float64, n)
	for i := range perm {
		shifts[i] = S.shifts[perm[i]]
		couplings[i] = make([]float64, n)
		for j := range perm {
			couplings[i][j] = S.couplings[perm[i]][perm[j]]
		}
	}
	return &SpinSystem{shifts: shifts, couplings: couplings}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
