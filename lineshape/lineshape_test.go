/*
 * lineshape_test.go, part of gonmr.
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

package lineshape

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	nmr "github.com/rmera/gonmr"
)

func TestSinglePeak(Te *testing.T) {
	peaks := nmr.Peaks{{Freq: 100, Intensity: 1}}
	s, err := Synthesize(peaks, 0.5)
	if err != nil {
		Te.Fatal(err)
	}
	if s.Len() != DefaultPoints || len(s.Y) != DefaultPoints {
		Te.Fatalf("expected %d samples, got %d, %d", DefaultPoints, len(s.X), len(s.Y))
	}
	if s.X[0] != 50 || s.X[len(s.X)-1] != 150 {
		Te.Errorf("range is %v-%v, expected 50-150", s.X[0], s.X[len(s.X)-1])
	}
	x, y := s.Max()
	step := s.X[1] - s.X[0]
	if math.Abs(x-100) > step/2+1e-9 {
		Te.Errorf("maximum at %v, more than half a step (%v) from 100", x, step)
	}
	//2400 samples put 100 Hz half a step away from the closest sample
	if math.Abs(y-1) > 1e-2 {
		Te.Errorf("peak height %v, expected ~1", y)
	}
	//with an odd number of samples 100 Hz is on the grid
	s, err = Synthesize(peaks, 0.5, WithPoints(2401))
	if err != nil {
		Te.Fatal(err)
	}
	x, y = s.Max()
	if math.Abs(x-100) > 1e-9 || math.Abs(y-1) > 1e-12 {
		Te.Errorf("odd grid: maximum (%v, %v), expected (100, 1)", x, y)
	}
	//symmetric about the peak
	n := s.Len()
	for i := 0; i < n/2; i++ {
		if math.Abs(s.Y[i]-s.Y[n-1-i]) > 1e-12 {
			Te.Fatalf("lineshape not symmetric at sample %d: %v vs %v", i, s.Y[i], s.Y[n-1-i])
		}
	}
}

func TestRange(Te *testing.T) {
	s, err := Synthesize(nmr.Peaks{{Freq: 150, Intensity: 1}, {Freq: 100, Intensity: 1}}, 0.5)
	if err != nil {
		Te.Fatal(err)
	}
	if s.X[0] > 50 || s.X[len(s.X)-1] < 200 {
		Te.Errorf("range %v-%v does not cover 50-200", s.X[0], s.X[len(s.X)-1])
	}
	for i := 1; i < len(s.X); i++ {
		if s.X[i] <= s.X[i-1] {
			Te.Fatalf("x not increasing at %d", i)
		}
	}
	s, err = Synthesize(nmr.Peaks{{Freq: 100, Intensity: 1}}, 1, WithMargin(10), WithPoints(21))
	if err != nil {
		Te.Fatal(err)
	}
	if s.X[0] != 90 || s.X[20] != 110 || s.Len() != 21 {
		Te.Errorf("custom margin/points: %v", s.X)
	}
	s, err = Synthesize(nmr.Peaks{{Freq: 100, Intensity: 1}}, 1, WithLimits(0, 1000), WithPoints(11))
	if err != nil {
		Te.Fatal(err)
	}
	if s.X[0] != 0 || s.X[10] != 1000 {
		Te.Errorf("fixed limits ignored: %v", s.X)
	}
}

func TestSuperposition(Te *testing.T) {
	peaks := nmr.Peaks{{Freq: 120, Intensity: 2}, {Freq: 100, Intensity: 1}, {Freq: 120, Intensity: 0.5}}
	s, err := Synthesize(peaks, 2)
	if err != nil {
		Te.Fatal(err)
	}
	for i, x := range s.X {
		want := Lorentz(x, 100, 1, 2) + Lorentz(x, 120, 2, 2) + Lorentz(x, 120, 0.5, 2)
		if math.Abs(s.Y[i]-want) > 1e-12 {
			Te.Fatalf("sample %d: %v, expected %v", i, s.Y[i], want)
		}
	}
	if peaks[0].Freq != 120 {
		Te.Error("Synthesize reordered its input")
	}
	fmt.Println("superposition max:", floatsMax(s.Y))
}

func TestDeterminism(Te *testing.T) {
	peaks := nmr.Peaks{{Freq: 143, Intensity: 0.25}, {Freq: 157, Intensity: 0.25}, {Freq: 150, Intensity: 0.5}}
	a, err := Synthesize(peaks, 0.5)
	if err != nil {
		Te.Fatal(err)
	}
	b, err := Synthesize(peaks.Sorted(), 0.5)
	if err != nil {
		Te.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		Te.Error("same peaks in a different order gave a different spectrum")
	}
}

func TestSynthesizeErrors(Te *testing.T) {
	if _, err := Synthesize(nil, 0.5); !errors.Is(err, nmr.ErrEmptyPeakList) {
		Te.Errorf("expected ErrEmptyPeakList, got %v", err)
	}
	one := nmr.Peaks{{Freq: 100, Intensity: 1}}
	bad := []struct {
		w    float64
		opts []Option
	}{
		{0, nil},
		{-1, nil},
		{math.NaN(), nil},
		{0.5, []Option{WithPoints(1)}},
		{0.5, []Option{WithMargin(-3)}},
		{0.5, []Option{WithLimits(10, 10)}},
		{0.5, []Option{WithMargin(0)}},
	}
	for _, c := range bad {
		if _, err := Synthesize(one, c.w, c.opts...); !errors.Is(err, nmr.ErrInvalidParameter) {
			Te.Errorf("w=%v: expected ErrInvalidParameter, got %v", c.w, err)
		}
	}
	//without a margin, two distinct lines still give a valid grid
	s, err := Synthesize(nmr.Peaks{{Freq: 100, Intensity: 1}, {Freq: 120, Intensity: 1}}, 0.5, WithMargin(0))
	if err != nil {
		Te.Fatal(err)
	}
	for i := 1; i < s.Len(); i++ {
		if !(s.X[i] > s.X[i-1]) {
			Te.Fatalf("x not increasing at %d: %v, %v", i, s.X[i-1], s.X[i])
		}
	}
	if _, err := Synthesize(nmr.Peaks{{Freq: math.Inf(1), Intensity: 1}}, 1); !errors.Is(err, nmr.ErrInvalidParameter) {
		Te.Errorf("expected ErrInvalidParameter for an infinite peak, got %v", err)
	}
}

func floatsMax(y []float64) float64 {
	m := y[0]
	for _, v := range y {
		m = math.Max(m, v)
	}
	return m
}
