/*
 * qm.go, part of gonmr.
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
	"math/bits"

	"gonum.org/v1/gonum/mat"
)

// DefaultMaxSpins is the largest system Solve accepts unless told otherwise.
// The product basis has 2^N states, so dense diagonalization stops being practical
// somewhere around here.
const DefaultMaxSpins = 12

// Options control the general solver. Use the With* functions to set them.
type Options struct {
	Cutoff    float64 //transitions with intensity <= Cutoff are discarded. <=0 means DefaultCutoff
	Normalize bool    //rescale the total intensity to the number of spins
	MaxSpins  int     //<=0 means DefaultMaxSpins
}

// Option sets a field of Options.
type Option func(*Options)

// WithCutoff sets the intensity below which transitions are discarded.
func WithCutoff(c float64) Option { return func(o *Options) { o.Cutoff = c } }

// WithNormalize makes Solve scale intensities so that they add up to the number of spins.
func WithNormalize(n bool) Option { return func(o *Options) { o.Normalize = n } }

// WithMaxSpins sets the largest number of spins Solve will accept.
func WithMaxSpins(n int) Option { return func(o *Options) { o.MaxSpins = n } }

func newOptions(opts []Option) Options {
	var o Options
	for _, f := range opts {
		f(&o)
	}
	if o.MaxSpins <= 0 {
		o.MaxSpins = DefaultMaxSpins
	}
	return o
}

// DefaultCutoff returns the intensity threshold used for a system of n spins:
// a few orders of magnitude above the machine epsilon, scaled by the size of the basis.
func DefaultCutoff(n int) float64 {
	const eps = 2.220446049250313e-16
	return 1e3 * eps * float64(uint64(1)<<uint(n))
}

// SolveArrays builds a SpinSystem from shifts and couplings and solves it.
// Invalid input is rejected before anything is diagonalized.
func SolveArrays(shifts []float64, couplings [][]float64, opts ...Option) (Peaks, error) {
	S, err := NewSpinSystem(shifts, couplings)
	if err != nil {
		return nil, Decorate(err, "SolveArrays")
	}
	return Solve(S, opts...)
}

// Solve computes the stick spectrum of a coupled spin-1/2 system.
//
// The Hamiltonian H = sum_i v_i Iz_i + sum_i<j J_ij I_i.I_j is built in the Zeeman
// product basis (bit i of a state set means spin i is alpha). H commutes with the total
// Fz, so the basis is split into blocks of equal total M, each diagonalized on its own.
// Transitions are the matrix elements of the total raising operator F+ between
// eigenstates of neighbouring blocks: the frequency is the energy difference and the
// intensity the squared matrix element. Peaks are not merged, coincident transitions
// are returned as separate peaks.
func Solve(S *SpinSystem, opts ...Option) (Peaks, error) {
	if S == nil || S.Len() == 0 {
		return nil, NewError(ErrInvalidDimension, "Solve", "empty spin system")
	}
	o := newOptions(opts)
	n := S.Len()
	if n > o.MaxSpins {
		return nil, NewError(ErrInvalidDimension, "Solve", "%d spins exceed the limit of %d", n, o.MaxSpins)
	}
	cutoff := o.Cutoff
	if cutoff <= 0 {
		cutoff = DefaultCutoff(n)
	}
	blocks, index := basisBlocks(n)
	eig := make([]*eigenPairs, len(blocks))
	for m, states := range blocks {
		h := blockHamiltonian(S, states, index)
		e, err := blockEigen(h)
		if err != nil {
			return nil, Decorate(err, "Solve")
		}
		eig[m] = e
	}
	peaks := make(Peaks, 0, n*(1<<uint(n)))
	for m := 0; m < n; m++ {
		peaks = appendTransitions(peaks, n, blocks[m], blocks[m+1], index, eig[m], eig[m+1], cutoff)
	}
	if o.Normalize {
		peaks = peaks.Normalize(float64(n))
	}
	return peaks, nil
}

// basisBlocks groups the 2^n product states by their number of alpha spins.
// index[s] is the position of state s inside its block.
func basisBlocks(n int) ([][]int, []int) {
	blocks := make([][]int, n+1)
	index := make([]int, 1<<uint(n))
	for s := 0; s < 1<<uint(n); s++ {
		m := bits.OnesCount(uint(s))
		index[s] = len(blocks[m])
		blocks[m] = append(blocks[m], s)
	}
	return blocks, index
}

// mz returns the z projection of spin i in state s.
func mz(s, i int) float64 {
	if s&(1<<uint(i)) != 0 {
		return 0.5
	}
	return -0.5
}

// blockHamiltonian returns the Hamiltonian restricted to the given states, which must
// all share the same total M.
func blockHamiltonian(S *SpinSystem, states []int, index []int) *mat.SymDense {
	n := S.Len()
	d := len(states)
	h := mat.NewSymDense(d, nil)
	for a, s := range states {
		var e float64
		for i := 0; i < n; i++ {
			mi := mz(s, i)
			e += S.shifts[i] * mi
			for j := i + 1; j < n; j++ {
				J := S.couplings[i][j]
				if J == 0 {
					continue
				}
				e += J * mi * mz(s, j)
				//flip-flop term, only between an alpha-beta pair
				if mi != mz(s, j) {
					t := s ^ (1<<uint(i) | 1<<uint(j))
					if b := index[t]; b > a {
						h.SetSym(a, b, J/2)
					}
				}
			}
		}
		h.SetSym(a, a, e)
	}
	return h
}

// raising returns the matrix of the total F+ from the lower block to the upper one
// (rows: upper states, cols: lower states).
func raising(n int, lower, upper []int, index []int) *mat.Dense {
	f := mat.NewDense(len(upper), len(lower), nil)
	for b, s := range lower {
		for i := 0; i < n; i++ {
			if s&(1<<uint(i)) == 0 {
				f.Set(index[s|1<<uint(i)], b, 1)
			}
		}
	}
	return f
}

func appendTransitions(peaks Peaks, n int, lower, upper []int, index []int, elow, eup *eigenPairs, cutoff float64) Peaks {
	f := raising(n, lower, upper, index)
	var tmp, t mat.Dense
	tmp.Mul(f, elow.vecs)
	t.Mul(eup.vecs.T(), &tmp)
	r, c := t.Dims()
	for a := 0; a < r; a++ {
		for b := 0; b < c; b++ {
			amp := t.At(a, b)
			in := amp * amp
			if in <= cutoff {
				continue
			}
			peaks = append(peaks, Peak{Freq: eup.vals[a] - elow.vals[b], Intensity: in})
		}
	}
	return peaks
}

// TheoreticalIntensity returns the total raw intensity of all transitions of an n-spin
// system, n*2^(n-1). It is independent of the shifts and couplings.
func TheoreticalIntensity(n int) float64 {
	if n < 1 {
		return 0
	}
	return float64(n) * math.Ldexp(1, n-1)
}
