/*
 * small.go, part of gonmr.
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

	nmr "github.com/rmera/gonmr"
)

// eig2 diagonalizes the symmetric matrix [[a c][c b]] in closed form.
// vlo and vhi are the unit eigenvectors for the eigenvalues lo <= hi.
func eig2(a, b, c float64) (lo, hi float64, vlo, vhi [2]float64) {
	mean := (a + b) / 2
	r := math.Hypot((a-b)/2, c)
	th := 0.5 * math.Atan2(2*c, a-b)
	cs, sn := math.Cos(th), math.Sin(th)
	return mean - r, mean + r, [2]float64{-sn, cs}, [2]float64{cs, sn}
}

func checkFinite(caller string, names []string, vals ...float64) error {
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nmr.NewError(nmr.ErrInvalidParameter, caller, "%s is not finite: %v", names[i], v)
		}
	}
	return nil
}
