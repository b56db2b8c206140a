/*
 * aabb.go, part of gonmr.
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

package multiplet

import (
	"math"
	"sort"

	nmr "github.com/rmera/gonmr"
	"gonum.org/v1/gonum/mat"
)

//Each AA' (or BB') pair is described in its coupled basis: the triplet
//states t+, t0, t- and the singlet s, in that order.
const (
	tPlus = iota
	tZero
	tMinus
	singlet
	pairDim
)

type pairOp [pairDim][pairDim]float64

var (
	pairM = [pairDim]float64{1, 0, -1, 0}
	//total spin raising operator of the pair, I+ + I'+
	pairRaise = pairOp{tPlus: {tZero: math.Sqrt2}, tZero: {tMinus: math.Sqrt2}}
	//z component and raising operator of the difference I - I'.
	diffZ     = pairOp{tZero: {singlet: 1}, singlet: {tZero: 1}}
	diffRaise = pairOp{tPlus: {singlet: -math.Sqrt2}, singlet: {tMinus: math.Sqrt2}}
	pairZ     = pairOp{tPlus: {tPlus: 1}, tMinus: {tMinus: -1}}
)

func (p *pairOp) T() *pairOp {
	var r pairOp
	for i := range p {
		for j := range p[i] {
			r[j][i] = p[i][j]
		}
	}
	return &r
}

// kronAdd adds f times the Kronecker product a x b to m. The A pair is the slow index.
func kronAdd(m [][]float64, f float64, a, b *pairOp) {
	for i := 0; i < pairDim; i++ {
		for k := 0; k < pairDim; k++ {
			if a[i][k] == 0 {
				continue
			}
			for j := 0; j < pairDim; j++ {
				for l := 0; l < pairDim; l++ {
					m[i*pairDim+j][k*pairDim+l] += f * a[i][k] * b[j][l]
				}
			}
		}
	}
}

func identity() *pairOp {
	var r pairOp
	for i := range r {
		r[i][i] = 1
	}
	return &r
}

// pairCoupling is the diagonal of J I.I' in the pair basis.
func pairCoupling(J float64) *pairOp {
	var r pairOp
	for i := 0; i < singlet; i++ {
		r[i][i] = J / 4
	}
	r[singlet][singlet] = -3 * J / 4
	return &r
}

// AABB returns the full spectrum of an AA'BB' system. Jab is the A-B coupling and
// Jab_ the A-B' one. The lines add to 32.
//
// The Hamiltonian is built in the product of the pair bases, where it falls into
// blocks of constant total spin projection and constant parity under the exchange
// of both pairs. No block is larger than 4x4.
func AABB(Vab, Jaa, Jbb, Jab, Jab_, Vcentr float64) (nmr.Peaks, error) {
	if err := checkFinite("AABB", []string{"Vab", "Jaa", "Jbb", "Jab", "Jab_", "Vcentr"}, Vab, Jaa, Jbb, Jab, Jab_, Vcentr); err != nil {
		return nil, err
	}
	va, vb := Vcentr+Vab/2, Vcentr-Vab/2
	N, L := Jab+Jab_, Jab-Jab_
	dim := pairDim * pairDim
	h := make([][]float64, dim)
	raise := make([][]float64, dim)
	for i := range h {
		h[i] = make([]float64, dim)
		raise[i] = make([]float64, dim)
	}
	one := identity()
	kronAdd(h, va, &pairZ, one)
	kronAdd(h, vb, one, &pairZ)
	kronAdd(h, 1, pairCoupling(Jaa), one)
	kronAdd(h, 1, one, pairCoupling(Jbb))
	kronAdd(h, N/2, &pairZ, &pairZ)
	kronAdd(h, N/4, &pairRaise, pairRaise.T())
	kronAdd(h, N/4, pairRaise.T(), &pairRaise)
	kronAdd(h, L/2, &diffZ, &diffZ)
	kronAdd(h, L/4, &diffRaise, diffRaise.T())
	kronAdd(h, L/4, diffRaise.T(), &diffRaise)
	kronAdd(raise, 1, &pairRaise, one)
	kronAdd(raise, 1, one, &pairRaise)

	type key struct {
		m2  int //twice the total projection
		odd bool
	}
	type block struct {
		states []int
		vals   []float64
		vecs   *mat.Dense
	}
	blocks := make(map[key]*block)
	keyOf := func(s int) key {
		a, b := s/pairDim, s%pairDim
		return key{int(2 * (pairM[a] + pairM[b])), (a == singlet) != (b == singlet)}
	}
	for s := 0; s < dim; s++ {
		k := keyOf(s)
		if blocks[k] == nil {
			blocks[k] = &block{}
		}
		blocks[k].states = append(blocks[k].states, s)
	}
	for _, b := range blocks {
		var err error
		if b.vals, b.vecs, err = blockEigen(h, b.states); err != nil {
			return nil, nmr.Decorate(err, "AABB")
		}
	}
	//fixed block order, so lines at the same frequency always come out the same way
	keys := make([]key, 0, len(blocks))
	for k := range blocks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].m2 != keys[j].m2 {
			return keys[i].m2 < keys[j].m2
		}
		return !keys[i].odd && keys[j].odd
	})
	var peaks nmr.Peaks
	for _, k := range keys {
		low := blocks[k]
		up := blocks[key{k.m2 + 2, k.odd}]
		if up == nil {
			continue
		}
		for u := range up.vals {
			for l := range low.vals {
				var amp float64
				for i, si := range up.states {
					for j, sj := range low.states {
						amp += up.vecs.At(i, u) * raise[si][sj] * low.vecs.At(j, l)
					}
				}
				if in := amp * amp; in > 1e-12 {
					peaks = append(peaks, nmr.Peak{Freq: up.vals[u] - low.vals[l], Intensity: in})
				}
			}
		}
	}
	return peaks.Sorted(), nil
}

// blockEigen diagonalizes the rows and columns of h listed in states.
// The eigenvectors are the columns of vecs.
func blockEigen(h [][]float64, states []int) ([]float64, *mat.Dense, error) {
	n := len(states)
	sub := mat.NewSymDense(n, nil)
	for i, si := range states {
		for j := i; j < n; j++ {
			sub.SetSym(i, j, h[si][states[j]])
		}
	}
	var es mat.EigenSym
	if !es.Factorize(sub, true) {
		return nil, nil, nmr.NewError(nmr.ErrNumericalDivergence, "blockEigen", "eigendecomposition of a %dx%d block failed", n, n)
	}
	vecs := new(mat.Dense)
	es.VectorsTo(vecs)
	return es.Values(nil), vecs, nil
}
