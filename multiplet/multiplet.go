/*
 * multiplet.go, part of gonmr.
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

//Package multiplet contains closed-form solutions for common small spin systems,
//named in the Pople notation, plus a first-order multiplet builder.
//
//The second-order forms give the same peaks, in the same intensity scale, as
//nmr.Solve on the equivalent spin system, but without building or diagonalizing the
//full Hamiltonian. The systems with an X nucleus use the X approximation: the A-X and
//B-X couplings are treated to first order, which is exact in the limit of a large
//chemical shift difference to X.
//
//For every function, Vcentr is the midpoint of the A and B shifts and Vab is the
//difference vA - vB. All values are in Hz.
package multiplet

import (
	"math"

	nmr "github.com/rmera/gonmr"
	"gonum.org/v1/gonum/stat/combin"
)

// abLines appends an AB quartet, scaled by weight, to peaks.
func abLines(peaks nmr.Peaks, J, vab, vcentr, weight float64) nmr.Peaks {
	c := math.Sqrt(vab*vab+J*J) / 2
	var d float64
	if c > 0 {
		d = J / (2 * c)
	}
	v1 := vcentr - c - J/2
	v3 := vcentr + c - J/2
	return append(peaks,
		nmr.Peak{Freq: v1, Intensity: weight * (1 - d)},
		nmr.Peak{Freq: v1 + J, Intensity: weight * (1 + d)},
		nmr.Peak{Freq: v3, Intensity: weight * (1 + d)},
		nmr.Peak{Freq: v3 + J, Intensity: weight * (1 - d)},
	)
}

// AB returns the four lines of an AB quartet. The total intensity is 4.
func AB(Jab, Vab, Vcentr float64) (nmr.Peaks, error) {
	if err := checkFinite("AB", []string{"Jab", "Vab", "Vcentr"}, Jab, Vab, Vcentr); err != nil {
		return nil, err
	}
	return abLines(make(nmr.Peaks, 0, 4), Jab, Vab, Vcentr, 1), nil
}

// AB2 returns the nine lines of an AB2 system, where the two B nuclei are
// equivalent. The total intensity is 12.
func AB2(Jab, Vab, Vcentr float64) (nmr.Peaks, error) {
	if err := checkFinite("AB2", []string{"Jab", "Vab", "Vcentr"}, Jab, Vab, Vcentr); err != nil {
		return nil, err
	}
	va, vb, J := Vcentr+Vab/2, Vcentr-Vab/2, Jab
	//States are labeled by the A spin and the total spin projection of the B2 triplet.
	//The B2 singlet gives one line at vA.
	top := va/2 + vb + J/2    //|a,+1>
	bottom := -va/2 - vb + J/2 //|b,-1>
	//|a,0>, |b,+1>
	lo1, hi1, vlo1, vhi1 := eig2(va/2, -va/2+vb-J/2, J/math.Sqrt2)
	//|a,-1>, |b,0>
	lo2, hi2, vlo2, vhi2 := eig2(va/2-vb-J/2, -va/2, J/math.Sqrt2)
	e1 := [2]float64{lo1, hi1}
	v1 := [2][2]float64{vlo1, vhi1}
	e2 := [2]float64{lo2, hi2}
	v2 := [2][2]float64{vlo2, vhi2}
	peaks := make(nmr.Peaks, 0, 9)
	peaks = append(peaks, nmr.Peak{Freq: va, Intensity: 1})
	for i := 0; i < 2; i++ {
		a := math.Sqrt2*v1[i][0] + v1[i][1]
		peaks = append(peaks, nmr.Peak{Freq: top - e1[i], Intensity: a * a})
		a = v2[i][0] + math.Sqrt2*v2[i][1]
		peaks = append(peaks, nmr.Peak{Freq: e2[i] - bottom, Intensity: a * a})
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			u, w := v1[i], v2[j]
			a := u[0]*(math.Sqrt2*w[0]+w[1]) + u[1]*math.Sqrt2*w[1]
			peaks = append(peaks, nmr.Peak{Freq: e1[i] - e2[j], Intensity: a * a})
		}
	}
	return peaks, nil
}

// ABX returns the fourteen lines of an ABX system, X at Vx, in the X approximation.
// Eight lines form the AB part and six the X part, four main lines and two
// combination lines. The total intensity is 12.
func ABX(Jab, Jax, Jbx, Vab, Vcentr, Vx float64) (nmr.Peaks, error) {
	if err := checkFinite("ABX", []string{"Jab", "Jax", "Jbx", "Vab", "Vcentr", "Vx"}, Jab, Jax, Jbx, Vab, Vcentr, Vx); err != nil {
		return nil, err
	}
	va, vb := Vcentr+Vab/2, Vcentr-Vab/2
	peaks := make(nmr.Peaks, 0, 12)
	for _, mx := range []float64{0.5, -0.5} {
		a, b := va+Jax*mx, vb+Jbx*mx
		peaks = abLines(peaks, Jab, a-b, (a+b)/2, 1)
	}
	s := (Jax + Jbx) / 2
	peaks = append(peaks, nmr.Peak{Freq: Vx + s, Intensity: 1}, nmr.Peak{Freq: Vx - s, Intensity: 1})
	//The mixed states (A alpha B beta and A beta B alpha) differ for each X state,
	//so the X transitions between them carry the overlap of the AB eigenvectors.
	mixed := func(a, b float64) ([2]float64, [2][2]float64) {
		lo, hi, vlo, vhi := eig2((a-b)/2-Jab/4, -(a-b)/2-Jab/4, Jab/2)
		return [2]float64{lo, hi}, [2][2]float64{vlo, vhi}
	}
	ep, vp := mixed(va+Jax/2, vb+Jbx/2)
	em, vm := mixed(va-Jax/2, vb-Jbx/2)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			ov := vp[i][0]*vm[j][0] + vp[i][1]*vm[j][1]
			peaks = append(peaks, nmr.Peak{Freq: Vx + ep[i] - em[j], Intensity: ov * ov})
		}
	}
	return peaks, nil
}

// ABX3 returns the AB part of an ABX3 system in the X approximation: one AB quartet
// per spin state of the X3 group, weighted 1:3:3:1. The total intensity is 32.
func ABX3(Jab, Jax, Jbx, Vab, Vcentr float64) (nmr.Peaks, error) {
	if err := checkFinite("ABX3", []string{"Jab", "Jax", "Jbx", "Vab", "Vcentr"}, Jab, Jax, Jbx, Vab, Vcentr); err != nil {
		return nil, err
	}
	va, vb := Vcentr+Vab/2, Vcentr-Vab/2
	peaks := make(nmr.Peaks, 0, 16)
	for _, s := range []struct{ m, w float64 }{{1.5, 1}, {0.5, 3}, {-0.5, 3}, {-1.5, 1}} {
		a, b := va+Jax*s.m, vb+Jbx*s.m
		peaks = abLines(peaks, Jab, a-b, (a+b)/2, s.w)
	}
	return peaks, nil
}

// AAXX returns the A half of an AA'XX' spectrum centered at Vcentr, the shift of A.
// Jax is the A-X coupling and Jax_ the A-X' one. The X half is the mirror image
// about the X shift. The lines add to 16.
func AAXX(Jaa, Jxx, Jax, Jax_, Vcentr float64) (nmr.Peaks, error) {
	if err := checkFinite("AAXX", []string{"Jaa", "Jxx", "Jax", "Jax_", "Vcentr"}, Jaa, Jxx, Jax, Jax_, Vcentr); err != nil {
		return nil, err
	}
	K, M := Jaa+Jxx, Jaa-Jxx
	N, L := Jax+Jax_, Jax-Jax_
	v := Vcentr
	peaks := nmr.Peaks{
		{Freq: v + N/2, Intensity: 2}, {Freq: v + N/2, Intensity: 2},
		{Freq: v - N/2, Intensity: 2}, {Freq: v - N/2, Intensity: 2},
	}
	//the symmetric and antisymmetric sub-spectra are the same quartet with K or M
	for _, k := range []float64{K, M} {
		r := math.Hypot(k, L)
		cos2, sin2 := 1.0, 0.0
		if r > 0 {
			cos2, sin2 = (1+k/r)/2, (1-k/r)/2
		}
		peaks = append(peaks,
			nmr.Peak{Freq: v + k/2 - r/2, Intensity: 2 * cos2},
			nmr.Peak{Freq: v - k/2 + r/2, Intensity: 2 * cos2},
			nmr.Peak{Freq: v + k/2 + r/2, Intensity: 2 * sin2},
			nmr.Peak{Freq: v - k/2 - r/2, Intensity: 2 * sin2},
		)
	}
	return peaks, nil
}

// Coupling is a first-order coupling of J Hz to N equivalent nuclei.
type Coupling struct {
	J float64 `json:"j" yaml:"j" msgpack:"j"`
	N int     `json:"n" yaml:"n" msgpack:"n"`
}

// maxEquivalent bounds N so the binomial coefficients stay exact.
const maxEquivalent = 60

// FirstOrder splits signal by each coupling in turn, following the n+1 rule with
// binomial intensities. The total intensity of the signal is kept. Couplings with
// N == 0 do nothing. Lines that end up at the same frequency are merged.
func FirstOrder(signal nmr.Peak, couplings []Coupling) (nmr.Peaks, error) {
	if err := checkFinite("FirstOrder", []string{"frequency", "intensity"}, signal.Freq, signal.Intensity); err != nil {
		return nil, err
	}
	peaks := nmr.Peaks{signal}
	for i, c := range couplings {
		if c.N < 0 || c.N > maxEquivalent {
			return nil, nmr.NewError(nmr.ErrInvalidParameter, "FirstOrder", "coupling %d: invalid number of nuclei %d", i, c.N)
		}
		if math.IsNaN(c.J) || math.IsInf(c.J, 0) {
			return nil, nmr.NewError(nmr.ErrInvalidParameter, "FirstOrder", "coupling %d: J is not finite", i)
		}
		if c.N == 0 {
			continue
		}
		next := make(nmr.Peaks, 0, len(peaks)*(c.N+1))
		scale := math.Ldexp(1, -c.N)
		for _, p := range peaks {
			for k := 0; k <= c.N; k++ {
				next = append(next, nmr.Peak{
					Freq:      p.Freq + c.J*(float64(k)-float64(c.N)/2),
					Intensity: p.Intensity * float64(combin.Binomial(c.N, k)) * scale,
				})
			}
		}
		peaks = next.Reduce(1e-9)
	}
	return peaks, nil
}
