/*
 * nmrplot.go, part of gonmr.
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

//Package nmrplot draws spectra with gonum/plot. The frequency axis grows to the left,
//as usual in NMR.
package nmrplot

import (
	"fmt"
	"image/color"

	nmr "github.com/rmera/gonmr"
	"github.com/rmera/gonmr/lineshape"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Default size of saved plots.
const (
	Width  = 16 * vg.Centimeter
	Height = 10 * vg.Centimeter
)

func basicSpectrumPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Hz"
	p.Y.Label.Text = "Intensity"
	p.X.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.Y.Min = 0
	p.Add(plotter.NewGrid())
	return p
}

func xys(s *lineshape.Spectrum) (plotter.XYs, error) {
	if s == nil || s.Len() == 0 || len(s.Y) != s.Len() {
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "xys", "empty or malformed spectrum")
	}
	pts := make(plotter.XYs, s.Len())
	for i := range pts {
		pts[i].X = s.X[i]
		pts[i].Y = s.Y[i]
	}
	return pts, nil
}

// Plot returns a plot of the spectrum s.
func Plot(s *lineshape.Spectrum, title string) (*plot.Plot, error) {
	return Overlay([]*lineshape.Spectrum{s}, nil, title)
}

// Overlay returns a plot with all the spectra, each in a different color. If names
// is not nil, it must have one element per spectrum, and a legend is added.
func Overlay(specs []*lineshape.Spectrum, names []string, title string) (*plot.Plot, error) {
	if len(specs) == 0 {
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "Overlay", "no spectra to plot")
	}
	if names != nil && len(names) != len(specs) {
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "Overlay", "%d names for %d spectra", len(names), len(specs))
	}
	p := basicSpectrumPlot(title)
	for key, s := range specs {
		pts, err := xys(s)
		if err != nil {
			return nil, nmr.Decorate(err, fmt.Sprintf("Overlay: spectrum %d", key))
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Width = vg.Points(1)
		if len(specs) > 1 {
			l.LineStyle.Color = colors(key, len(specs))
		}
		p.Add(l)
		if names != nil {
			p.Legend.Add(names[key], l)
		}
	}
	return p, nil
}

// AddSticks draws one vertical line per peak, scaled so the most intense one is
// height high. Peaks at the same frequency are drawn separately, on top of each other.
func AddSticks(p *plot.Plot, peaks nmr.Peaks, height float64) error {
	if len(peaks) == 0 {
		return nmr.NewError(nmr.ErrEmptyPeakList, "AddSticks", "no peaks")
	}
	var top float64
	for _, v := range peaks {
		if v.Intensity > top {
			top = v.Intensity
		}
	}
	if top <= 0 {
		return nmr.NewError(nmr.ErrInvalidParameter, "AddSticks", "no peak with positive intensity")
	}
	for _, v := range peaks {
		l, err := plotter.NewLine(plotter.XYs{{X: v.Freq, Y: 0}, {X: v.Freq, Y: height * v.Intensity / top}})
		if err != nil {
			return err
		}
		l.LineStyle.Color = color.RGBA{R: 200, A: 255}
		l.LineStyle.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		p.Add(l)
	}
	return nil
}

// Save plots s, with the sticks for peaks over it unless peaks is nil, and writes
// the result to filename. The format (png, svg, pdf, ...) is taken from the extension.
// A zero width or height takes the package default.
func Save(s *lineshape.Spectrum, peaks nmr.Peaks, title, filename string, width, height vg.Length) error {
	p, err := Plot(s, title)
	if err != nil {
		return nmr.Decorate(err, "Save")
	}
	if peaks != nil {
		_, top := s.Max()
		if err := AddSticks(p, peaks, top); err != nil {
			return nmr.Decorate(err, "Save")
		}
	}
	if width == 0 {
		width = Width
	}
	if height == 0 {
		height = Height
	}
	return p.Save(width, height, filename)
}
