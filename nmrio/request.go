/*
 * request.go, part of gonmr.
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

package nmrio

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	nmr "github.com/rmera/gonmr"
	"github.com/rmera/gonmr/dnmr"
	"github.com/rmera/gonmr/lineshape"
	"github.com/rmera/gonmr/multiplet"
	"gopkg.in/yaml.v3"
)

// Request kinds.
const (
	KindQM         = "qm"         //shifts and couplings, general solver
	KindWINDNMR    = "windnmr"    //built-in n-spin system, general solver
	KindAB         = "ab"         //Jab, Vab, Vcentr
	KindAB2        = "ab2"        //Jab, Vab, Vcentr
	KindABX        = "abx"        //Jab, Jax, Jbx, Vab, Vcentr, Vx
	KindABX3       = "abx3"       //Jab, Jax, Jbx, Vab, Vcentr
	KindAAXX       = "aaxx"       //Jaa, Jxx, Jax, Jax_, Vcentr
	KindAABB       = "aabb"       //Vab, Jaa, Jbb, Jab, Jab_, Vcentr
	KindFirstOrder = "firstorder" //v, optional I, and multiplets
	KindDNMR2      = "dnmr2"      //va, vb, ka, wa, wb, pa
	KindDNMRAB     = "dnmrab"     //va, vb, J, k, w
)

// Request describes one simulation.
type Request struct {
	Kind       string               `json:"kind" yaml:"kind"`
	Shifts     []float64            `json:"shifts,omitempty" yaml:"shifts,omitempty"`
	Couplings  [][]float64          `json:"couplings,omitempty" yaml:"couplings,omitempty"`
	Spins      int                  `json:"spins,omitempty" yaml:"spins,omitempty"`
	Params     map[string]float64   `json:"params,omitempty" yaml:"params,omitempty"`
	Multiplets []multiplet.Coupling `json:"multiplets,omitempty" yaml:"multiplets,omitempty"`
	Linewidth  float64              `json:"linewidth,omitempty" yaml:"linewidth,omitempty"`
	Points     int                  `json:"points,omitempty" yaml:"points,omitempty"`
}

// DecodeRequest reads a request from r, in the format "json" or "yaml".
func DecodeRequest(r io.Reader, format string) (*Request, error) {
	req := new(Request)
	var err error
	switch format {
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(req)
	case "yaml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(req)
	default:
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "DecodeRequest", "unknown format %q", format)
	}
	if err != nil {
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "DecodeRequest", "%v", err)
	}
	req.Kind = strings.ToLower(strings.TrimSpace(req.Kind))
	return req, nil
}

// ReadRequest reads a request file. Files ending in .json are JSON, anything
// else is YAML.
func ReadRequest(name string) (*Request, error) {
	r, err := Open(name)
	if err != nil {
		return nil, nmr.Decorate(err, "ReadRequest")
	}
	defer r.Close()
	format := "yaml"
	if _, base := Compression(name); strings.EqualFold(filepath.Ext(base), ".json") {
		format = "json"
	}
	req, err := DecodeRequest(r, format)
	if err != nil {
		return nil, nmr.Decorate(err, "ReadRequest: "+name)
	}
	return req, nil
}

// params returns the named parameters, in order.
func (R *Request) params(caller string, names ...string) ([]float64, error) {
	ret := make([]float64, len(names))
	for i, n := range names {
		v, ok := R.Params[n]
		if !ok {
			return nil, nmr.NewError(nmr.ErrInvalidParameter, caller, "%s request lacks parameter %q", R.Kind, n)
		}
		ret[i] = v
	}
	return ret, nil
}

// IsDynamic returns true for the kinds that give a lineshape but no peak list.
func (R *Request) IsDynamic() bool {
	return R.Kind == KindDNMR2 || R.Kind == KindDNMRAB
}

// SpinSystem returns the system for the kinds solved by the general solver,
// qm and windnmr.
func (R *Request) SpinSystem() (*nmr.SpinSystem, error) {
	switch R.Kind {
	case KindQM:
		return nmr.NewSpinSystem(R.Shifts, R.Couplings)
	case KindWINDNMR:
		return nmr.WINDNMRDefault(R.Spins)
	}
	return nil, nmr.NewError(nmr.ErrInvalidParameter, "SpinSystem", "%s requests have no spin system", R.Kind)
}

// Peaks runs the simulation and returns its peak list. The options are passed to
// the general solver and ignored by the closed-form kinds.
func (R *Request) Peaks(opts ...nmr.Option) (nmr.Peaks, error) {
	const c = "Peaks"
	var p []float64
	var err error
	switch R.Kind {
	case KindQM, KindWINDNMR:
		S, err := R.SpinSystem()
		if err != nil {
			return nil, nmr.Decorate(err, c)
		}
		return wrap(nmr.Solve(S, opts...))
	case KindAB, KindAB2:
		if p, err = R.params(c, "Jab", "Vab", "Vcentr"); err != nil {
			return nil, err
		}
		if R.Kind == KindAB {
			return wrap(multiplet.AB(p[0], p[1], p[2]))
		}
		return wrap(multiplet.AB2(p[0], p[1], p[2]))
	case KindABX:
		if p, err = R.params(c, "Jab", "Jax", "Jbx", "Vab", "Vcentr", "Vx"); err != nil {
			return nil, err
		}
		return wrap(multiplet.ABX(p[0], p[1], p[2], p[3], p[4], p[5]))
	case KindABX3:
		if p, err = R.params(c, "Jab", "Jax", "Jbx", "Vab", "Vcentr"); err != nil {
			return nil, err
		}
		return wrap(multiplet.ABX3(p[0], p[1], p[2], p[3], p[4]))
	case KindAAXX:
		if p, err = R.params(c, "Jaa", "Jxx", "Jax", "Jax_", "Vcentr"); err != nil {
			return nil, err
		}
		return wrap(multiplet.AAXX(p[0], p[1], p[2], p[3], p[4]))
	case KindAABB:
		if p, err = R.params(c, "Vab", "Jaa", "Jbb", "Jab", "Jab_", "Vcentr"); err != nil {
			return nil, err
		}
		return wrap(multiplet.AABB(p[0], p[1], p[2], p[3], p[4], p[5]))
	case KindFirstOrder:
		if p, err = R.params(c, "v"); err != nil {
			return nil, err
		}
		in, ok := R.Params["I"]
		if !ok {
			in = 1
		}
		return wrap(multiplet.FirstOrder(nmr.Peak{Freq: p[0], Intensity: in}, R.Multiplets))
	case KindDNMR2, KindDNMRAB:
		return nil, nmr.NewError(nmr.ErrInvalidParameter, c, "%s requests give a lineshape, not peaks", R.Kind)
	}
	return nil, nmr.NewError(nmr.ErrInvalidParameter, c, "unknown request kind %q", R.Kind)
}

func wrap(p nmr.Peaks, err error) (nmr.Peaks, error) {
	if err != nil {
		return nil, nmr.Decorate(err, "Peaks")
	}
	return p, nil
}

func (R *Request) lineshapeOptions(lopts []lineshape.Option) []lineshape.Option {
	if R.Points > 0 {
		return append(lopts[:len(lopts):len(lopts)], lineshape.WithPoints(R.Points))
	}
	return lopts
}

// Synthesize turns peaks into a spectrum with linewidth w, unless the request sets
// its own linewidth. The request's point count, if set, overrides the one in lopts.
func (R *Request) Synthesize(peaks nmr.Peaks, w float64, lopts ...lineshape.Option) (*lineshape.Spectrum, error) {
	if R.Linewidth > 0 {
		w = R.Linewidth
	}
	s, err := lineshape.Synthesize(peaks, w, R.lineshapeOptions(lopts)...)
	if err != nil {
		return nil, nmr.Decorate(err, "Synthesize")
	}
	return s, nil
}

// Spectrum runs the simulation and returns its lineshape. The kinds with a peak list
// are solved with sopts and synthesized as in Synthesize.
func (R *Request) Spectrum(w float64, sopts []nmr.Option, lopts ...lineshape.Option) (*lineshape.Spectrum, error) {
	const c = "Spectrum"
	var s *lineshape.Spectrum
	var p []float64
	var err error
	switch R.Kind {
	case KindDNMR2:
		if p, err = R.params(c, "va", "vb", "ka", "wa", "wb", "pa"); err != nil {
			return nil, err
		}
		s, err = dnmr.TwoSinglets(p[0], p[1], p[2], p[3], p[4], p[5], R.lineshapeOptions(lopts)...)
	case KindDNMRAB:
		if p, err = R.params(c, "va", "vb", "J", "k", "w"); err != nil {
			return nil, err
		}
		s, err = dnmr.AB(p[0], p[1], p[2], p[3], p[4], R.lineshapeOptions(lopts)...)
	default:
		var peaks nmr.Peaks
		if peaks, err = R.Peaks(sopts...); err != nil {
			return nil, nmr.Decorate(err, c)
		}
		s, err = R.Synthesize(peaks, w, lopts...)
	}
	if err != nil {
		return nil, nmr.Decorate(err, c)
	}
	return s, nil
}
