/*
 * gonum.go, part of gonmr.
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

//The only file that talks to the gonum eigensolver.

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// eigenPairs holds the eigenvalues (ascending) of a Hamiltonian block and the
// corresponding orthonormal eigenvectors, as columns of vecs.
type eigenPairs struct {
	vals []float64
	vecs *mat.Dense
}

// blockEigen diagonalizes a symmetric block. It is a variable so tests can check
// when diagonalization happens.
var blockEigen = symEigen

// symEigen wraps mat.EigenSym. A failed factorization or non-finite eigenvalues
// give an ErrNumericalDivergence error, never a silent result.
func symEigen(h *mat.SymDense) (*eigenPairs, error) {
	n := h.SymmetricDim()
	if n == 0 {
		panic(errBlockSize)
	}
	var es mat.EigenSym
	if ok := es.Factorize(h, true); !ok {
		return nil, NewError(ErrNumericalDivergence, "symEigen", "eigendecomposition of a %dx%d block did not converge", n, n)
	}
	vals := es.Values(nil)
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, NewError(ErrNumericalDivergence, "symEigen", "eigenvalue %d is not finite", i)
		}
	}
	vecs := new(mat.Dense)
	es.VectorsTo(vecs)
	return &eigenPairs{vals: vals, vecs: vecs}, nil
}
