/*
 * peaks.go, part of gonmr.
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
	"sort"
)

// Peak is a single transition: a resonance frequency (Hz) and its relative intensity.
type Peak struct {
	Freq      float64 `json:"freq" yaml:"freq" msgpack:"freq"`
	Intensity float64 `json:"intensity" yaml:"intensity" msgpack:"intensity"`
}

// Peaks is a stick spectrum. It implements sort.Interface, ordering by
// frequency and then by intensity. Duplicate frequencies are legal.
type Peaks []Peak

func (p Peaks) Len() int { return len(p) }

func (p Peaks) Less(i, j int) bool {
	if p[i].Freq == p[j].Freq {
		return p[i].Intensity < p[j].Intensity
	}
	return p[i].Freq < p[j].Freq
}

func (p Peaks) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

// Clone returns a copy of the peak list.
func (p Peaks) Clone() Peaks {
	if p == nil {
		return nil
	}
	ret := make(Peaks, len(p))
	copy(ret, p)
	return ret
}

// Sorted returns a copy of the list, stable-sorted by frequency.
func (p Peaks) Sorted() Peaks {
	ret := p.Clone()
	sort.Stable(ret)
	return ret
}

// TotalIntensity returns the sum of all intensities.
func (p Peaks) TotalIntensity() float64 {
	var t float64
	for _, v := range p {
		t += v.Intensity
	}
	return t
}

// Limits returns the lowest and highest frequency in the list.
// It panics on an empty list.
func (p Peaks) Limits() (lo, hi float64) {
	if len(p) == 0 {
		panic(errShape)
	}
	lo, hi = p[0].Freq, p[0].Freq
	for _, v := range p[1:] {
		lo = math.Min(lo, v.Freq)
		hi = math.Max(hi, v.Freq)
	}
	return lo, hi
}

// Normalize returns a copy of the list scaled so the intensities add up to total.
// A list with zero total intensity is returned unscaled.
func (p Peaks) Normalize(total float64) Peaks {
	ret := p.Clone()
	sum := p.TotalIntensity()
	if sum == 0 {
		return ret
	}
	f := total / sum
	for i := range ret {
		ret[i].Intensity *= f
	}
	return ret
}

// Filter returns the peaks with an intensity strictly larger than cutoff.
func (p Peaks) Filter(cutoff float64) Peaks {
	ret := make(Peaks, 0, len(p))
	for _, v := range p {
		if v.Intensity > cutoff {
			ret = append(ret, v)
		}
	}
	return ret
}

// Reduce returns a sorted copy of the list where runs of peaks separated by no more
// than tolerance Hz are merged into one peak. The merged peak sits at the
// intensity-weighted mean frequency and carries the summed intensity.
func (p Peaks) Reduce(tolerance float64) Peaks {
	if len(p) == 0 {
		return Peaks{}
	}
	s := p.Sorted()
	ret := make(Peaks, 0, len(s))
	group := s[:1]
	for i := 1; i < len(s); i++ {
		if s[i].Freq-s[i-1].Freq <= tolerance {
			group = s[i-len(group) : i+1]
			continue
		}
		ret = append(ret, merge(group))
		group = s[i : i+1]
	}
	return append(ret, merge(group))
}

func merge(group Peaks) Peak {
	if len(group) == 1 {
		return group[0]
	}
	var sum, weighted, plain float64
	for _, v := range group {
		sum += v.Intensity
		weighted += v.Freq * v.Intensity
		plain += v.Freq
	}
	if sum == 0 {
		return Peak{Freq: plain / float64(len(group))}
	}
	return Peak{Freq: weighted / sum, Intensity: sum}
}
