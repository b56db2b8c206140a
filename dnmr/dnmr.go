/*
 * dnmr.go, part of gonmr.
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

//Package dnmr computes exchange-broadened (dynamic NMR) lineshapes. The lineshapes
//are closed-form functions of frequency, so they are evaluated directly on the
//sample grid instead of being built from a peak list.
//
//Intensities are in arbitrary units; only the shape is meaningful.
package dnmr

import (
	"math"

	nmr "github.com/rmera/gonmr"
	"github.com/rmera/gonmr/lineshape"
)

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// TwoSinglets returns the lineshape for two uncoupled nuclei exchanging between sites
// at va and vb (Hz). ka is the rate constant for the a to b exchange, wa and wb are the
// linewidths without exchange, and pa is the population of site a, 0 < pa < 1.
func TwoSinglets(va, vb, ka, wa, wb, pa float64, opts ...lineshape.Option) (*lineshape.Spectrum, error) {
	if !finite(va, vb, ka, wa, wb, pa) {
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "TwoSinglets", "non-finite parameter")
	}
	switch {
	case !(pa > 0 && pa < 1):
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "TwoSinglets", "population must be in (0,1), got %v", pa)
	case ka <= 0:
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "TwoSinglets", "rate constant must be positive, got %v", ka)
	case wa <= 0 || wb <= 0:
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "TwoSinglets", "linewidths must be positive, got %v, %v", wa, wb)
	}
	x, err := lineshape.NewOptions(opts...).Grid(math.Min(va, vb), math.Max(va, vb))
	if err != nil {
		return nil, nmr.Decorate(err, "TwoSinglets")
	}
	t2a, t2b := 1/(math.Pi*wa), 1/(math.Pi*wb)
	pb := 1 - pa
	tau := pb / ka
	dv := va - vb
	p := 1 + tau*(pb/t2a+pa/t2b)
	y := make([]float64, len(x))
	for i, v := range x {
		Dv := (va+vb)/2 - v
		P := tau*(1/(t2a*t2b)-4*math.Pi*math.Pi*Dv*Dv+math.Pi*math.Pi*dv*dv) + pa/t2a + pb/t2b
		Q := tau * (2*math.Pi*Dv - math.Pi*dv*(pa-pb))
		R := 2*math.Pi*Dv*(1+tau*(1/t2a+1/t2b)) + math.Pi*dv*tau*(1/t2b-1/t2a) + math.Pi*dv*(pa-pb)
		y[i] = (P*p + Q*R) / (P*P + R*R)
	}
	return &lineshape.Spectrum{X: x, Y: y}, nil
}

// AB returns the lineshape for a coupled AB pair undergoing mutual exchange, where
// the nuclei at va and vb, coupled by J, swap sites with rate constant k. w is the
// linewidth without exchange.
func AB(va, vb, J, k, w float64, opts ...lineshape.Option) (*lineshape.Spectrum, error) {
	if !finite(va, vb, J, k, w) {
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "AB", "non-finite parameter")
	}
	if k <= 0 {
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "AB", "rate constant must be positive, got %v", k)
	}
	if w <= 0 {
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "AB", "linewidth must be positive, got %v", w)
	}
	lo, hi := math.Min(va, vb), math.Max(va, vb)
	x, err := lineshape.NewOptions(opts...).Grid(lo-math.Abs(J), hi+math.Abs(J))
	if err != nil {
		return nil, nmr.Decorate(err, "AB")
	}
	vo := (va + vb) / 2
	rate := k                //1/tau
	relax := math.Pi * w     //1/tau2
	pi2 := math.Pi * math.Pi //pi squared
	a2 := -(rate + relax) * (rate + relax)
	a3 := -pi2 * (va - vb) * (va - vb)
	a4 := -pi2*J*J + rate*rate
	s := 2*rate + relax
	//half is the contribution of one of the two mirror-image halves, sign = +-1
	half := func(v, sign float64) float64 {
		d := vo - v + sign*J/2
		a := 4*pi2*d*d + a2 + a3 + a4
		b := 4*math.Pi*d*(rate+relax) - sign*2*math.Pi*J*rate
		r := 2 * math.Pi * (vo - v + sign*J)
		return (r*b - s*a) / (a*a + b*b)
	}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = half(v, 1) + half(v, -1)
	}
	return &lineshape.Spectrum{X: x, Y: y}, nil
}
