/*
 * config.go, part of gonmr.
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

//Package config loads the simulation defaults from a YAML file and the environment.
package config

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	nmr "github.com/rmera/gonmr"
	"github.com/rmera/gonmr/lineshape"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read, as in NMRSIM_LINEWIDTH.
const EnvPrefix = "NMRSIM"

type Config struct {
	Linewidth float64 `mapstructure:"linewidth" json:"linewidth"`
	Points    int     `mapstructure:"points" json:"points"`
	Margin    float64 `mapstructure:"margin" json:"margin"`
	Cutoff    float64 `mapstructure:"cutoff" json:"cutoff"` //0 means the solver's default
	Normalize bool    `mapstructure:"normalize" json:"normalize"`
	MaxSpins  int     `mapstructure:"max_spins" json:"max_spins"`
	Workers   int     `mapstructure:"workers" json:"workers"` //0 means GOMAXPROCS
}

var defaults = map[string]any{
	"linewidth": 0.5,
	"points":    lineshape.DefaultPoints,
	"margin":    lineshape.DefaultMargin,
	"cutoff":    0.0,
	"normalize": false,
	"max_spins": nmr.DefaultMaxSpins,
	"workers":   0,
}

// Load reads the configuration. If override is not empty, that file is read and
// must exist. Otherwise nmrsim.yaml is looked for in the working directory and in
// $HOME/.nmrsim, and it is fine if there is none. Environment variables take
// precedence over the file.
func Load(override string) (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if override != "" {
		v.SetConfigFile(override)
		if err := v.ReadInConfig(); err != nil {
			return nil, nmr.NewError(nmr.ErrInvalidParameter, "Load", "reading %s: %v", override, err)
		}
	} else {
		v.SetConfigName("nmrsim")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".nmrsim"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, nmr.NewError(nmr.ErrInvalidParameter, "Load", "%v", err)
			}
		}
	}
	for _, k := range v.AllKeys() {
		if _, ok := defaults[k]; !ok {
			log.Printf("config: ignoring unknown key %q in %s", k, v.ConfigFileUsed())
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "Load", "%v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nmr.Decorate(err, "Load")
	}
	return &cfg, nil
}

// Validate checks that all values are usable.
func (C *Config) Validate() error {
	switch {
	case !(C.Linewidth > 0):
		return nmr.NewError(nmr.ErrInvalidParameter, "Validate", "linewidth must be positive, got %v", C.Linewidth)
	case C.Points < 2:
		return nmr.NewError(nmr.ErrInvalidParameter, "Validate", "points must be at least 2, got %d", C.Points)
	case C.Margin < 0:
		return nmr.NewError(nmr.ErrInvalidParameter, "Validate", "margin can't be negative, got %v", C.Margin)
	case C.Cutoff < 0:
		return nmr.NewError(nmr.ErrInvalidParameter, "Validate", "cutoff can't be negative, got %v", C.Cutoff)
	case C.MaxSpins < 1:
		return nmr.NewError(nmr.ErrInvalidParameter, "Validate", "max_spins must be at least 1, got %d", C.MaxSpins)
	case C.Workers < 0:
		return nmr.NewError(nmr.ErrInvalidParameter, "Validate", "workers can't be negative, got %d", C.Workers)
	}
	return nil
}

// SolveOptions returns the solver options for this configuration.
func (C *Config) SolveOptions() []nmr.Option {
	opts := []nmr.Option{nmr.WithNormalize(C.Normalize), nmr.WithMaxSpins(C.MaxSpins)}
	if C.Cutoff > 0 {
		opts = append(opts, nmr.WithCutoff(C.Cutoff))
	}
	return opts
}

// LineshapeOptions returns the synthesizer options for this configuration.
func (C *Config) LineshapeOptions() []lineshape.Option {
	return []lineshape.Option{lineshape.WithPoints(C.Points), lineshape.WithMargin(C.Margin)}
}
