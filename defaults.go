/*
 * defaults.go, part of gonmr.
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
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed windnmr.yaml
var windnmrYAML []byte

type defaultPair struct {
	A int     `yaml:"a"`
	B int     `yaml:"b"`
	J float64 `yaml:"j"`
}

type defaultSystem struct {
	N         int           `yaml:"n"`
	Shifts    []float64     `yaml:"shifts"`
	Couplings []defaultPair `yaml:"couplings"`
}

var (
	defaultsOnce sync.Once
	defaults     map[int]defaultSystem
	defaultsErr  error
)

func loadDefaults() {
	var list []defaultSystem
	if err := yaml.Unmarshal(windnmrYAML, &list); err != nil {
		defaultsErr = NewError(ErrInvalidParameter, "loadDefaults", "embedded defaults: %s", err)
		return
	}
	defaults = make(map[int]defaultSystem, len(list))
	for _, d := range list {
		defaults[d.N] = d
	}
}

// DefaultSizes returns the spin counts for which WINDNMRDefault has data.
func DefaultSizes() []int { return []int{2, 3, 4, 5, 6, 7, 8} }

// WINDNMRDefault returns a WINDNMR-style starting spin system of n spins (2 to 8).
// This is initialization data for front ends; Solve does not depend on it.
func WINDNMRDefault(n int) (*SpinSystem, error) {
	defaultsOnce.Do(loadDefaults)
	if defaultsErr != nil {
		return nil, defaultsErr
	}
	d, ok := defaults[n]
	if !ok {
		return nil, NewError(ErrInvalidDimension, "WINDNMRDefault", "no default system for %d spins", n)
	}
	J := make([][]float64, n)
	for i := range J {
		J[i] = make([]float64, n)
	}
	for _, p := range d.Couplings {
		if p.A < 1 || p.B < 1 || p.A > n || p.B > n || p.A == p.B {
			return nil, NewError(ErrInvalidDimension, "WINDNMRDefault", "bad pair %d-%d in %d-spin defaults", p.A, p.B, n)
		}
		J[p.A-1][p.B-1] = p.J
		J[p.B-1][p.A-1] = p.J
	}
	S, err := NewSpinSystem(d.Shifts, J)
	if err != nil {
		return nil, Decorate(err, "WINDNMRDefault")
	}
	return S, nil
}
