/*
 * lineshape.go, part of gonmr.
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

//Package lineshape turns stick spectra into continuous spectra by adding up one
//Lorentzian line per peak.
package lineshape

import (
	"math"
	"sort"

	vecmath "github.com/cwbudde/algo-vecmath"
	nmr "github.com/rmera/gonmr"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultPoints = 2400 //samples in a synthesized spectrum
	DefaultMargin = 50.0 //Hz added on each side of the extreme peaks
)

// Spectrum is a sampled lineshape. X is increasing and len(X) == len(Y).
type Spectrum struct {
	X []float64 `json:"x" msgpack:"x"`
	Y []float64 `json:"y" msgpack:"y"`
}

// Len returns the number of samples.
func (S *Spectrum) Len() int { return len(S.X) }

// Max returns the largest intensity and its position.
func (S *Spectrum) Max() (x, y float64) {
	i := floats.MaxIdx(S.Y)
	return S.X[i], S.Y[i]
}

// Options for Synthesize.
type Options struct {
	Points int
	Margin float64
	limits bool
	lo, hi float64
}

// Option sets a field of Options.
type Option func(*Options)

// WithPoints sets the number of samples.
func WithPoints(n int) Option { return func(o *Options) { o.Points = n } }

// WithMargin sets the space, in Hz, left at each side of the extreme peaks.
func WithMargin(m float64) Option { return func(o *Options) { o.Margin = m } }

// WithLimits fixes the x range instead of deriving it from the peaks.
func WithLimits(lo, hi float64) Option {
	return func(o *Options) { o.limits, o.lo, o.hi = true, lo, hi }
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) Options {
	o := Options{Points: DefaultPoints, Margin: DefaultMargin}
	for _, f := range opts {
		f(&o)
	}
	return o
}

// Lorentz returns the Lorentzian of height I, centered at v0 and with full width at half
// maximum w, evaluated at v.
func Lorentz(v, v0, I, w float64) float64 {
	hw2 := (0.5 * w) * (0.5 * w)
	return I * hw2 / (hw2 + (v-v0)*(v-v0))
}

// AddSignals returns the sum of the Lorentzians for all peaks, evaluated at each x.
// The peaks are added in the order given.
func AddSignals(x []float64, peaks nmr.Peaks, w float64) []float64 {
	y := make([]float64, len(x))
	buf := make([]float64, len(x))
	for _, p := range peaks {
		for i, v := range x {
			buf[i] = Lorentz(v, p.Freq, p.Intensity, w)
		}
		vecmath.AddBlockInPlace(y, buf)
	}
	return y
}

// Linspace returns n evenly spaced samples from lo to hi, both included exactly.
func Linspace(lo, hi float64, n int) []float64 {
	x := floats.Span(make([]float64, n), lo, hi)
	x[n-1] = hi
	return x
}

// Range returns the x limits for the peaks: the extreme frequencies widened by margin.
func Range(peaks nmr.Peaks, margin float64) (lo, hi float64) {
	lo, hi = peaks.Limits()
	return lo - margin, hi + margin
}

// Synthesize returns the continuous spectrum for peaks, with Lorentzian lines of full
// width at half maximum w (Hz). The peaks are stable-sorted (on a copy) before being
// added, so the same input always gives the same output. An empty list gives an
// ErrEmptyPeakList error.
func Synthesize(peaks nmr.Peaks, w float64, opts ...Option) (*Spectrum, error) {
	if len(peaks) == 0 {
		return nil, nmr.NewError(nmr.ErrEmptyPeakList, "Synthesize", "no peaks to plot")
	}
	if !(w > 0) || math.IsInf(w, 0) {
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "Synthesize", "linewidth must be positive and finite: %v", w)
	}
	for i, p := range peaks {
		if math.IsNaN(p.Freq) || math.IsInf(p.Freq, 0) || math.IsNaN(p.Intensity) || math.IsInf(p.Intensity, 0) {
			return nil, nmr.NewError(nmr.ErrInvalidParameter, "Synthesize", "peak %d is not finite: %v", i, p)
		}
	}
	s := peaks.Clone()
	sort.Stable(s)
	x, err := NewOptions(opts...).Grid(s[0].Freq, s[len(s)-1].Freq)
	if err != nil {
		return nil, nmr.Decorate(err, "Synthesize")
	}
	return &Spectrum{X: x, Y: AddSignals(x, s, w)}, nil
}

// Grid returns the sample positions for signals that span lo to hi: the span widened
// by the margin, or the fixed limits if they were set.
func (o Options) Grid(lo, hi float64) ([]float64, error) {
	if err := o.check(); err != nil {
		return nil, nmr.Decorate(err, "Grid")
	}
	if o.limits {
		lo, hi = o.lo, o.hi
	} else {
		lo, hi = lo-o.Margin, hi+o.Margin
	}
	if !(hi > lo) {
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "Grid", "empty frequency range %v to %v, a margin is needed", lo, hi)
	}
	return Linspace(lo, hi, o.Points), nil
}

func (o Options) check() error {
	if o.Points < 2 {
		return nmr.NewError(nmr.ErrInvalidParameter, "check", "at least 2 points are needed, got %d", o.Points)
	}
	if o.Margin < 0 || math.IsNaN(o.Margin) || math.IsInf(o.Margin, 0) {
		return nmr.NewError(nmr.ErrInvalidParameter, "check", "invalid margin %v", o.Margin)
	}
	if o.limits && !(o.hi > o.lo) {
		return nmr.NewError(nmr.ErrInvalidParameter, "check", "invalid limits %v, %v", o.lo, o.hi)
	}
	return nil
}
