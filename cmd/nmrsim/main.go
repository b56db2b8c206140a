/*
 * main.go, part of gonmr.
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

// nmrsim simulates the NMR spectra described in one or more request files.
//
// Usage:
//
//	nmrsim [flags] request.yaml [request2.json ...]
//
// For each request, the peak list, the spectrum and a plot are written to the
// output directory, named after the request file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	nmr "github.com/rmera/gonmr"
	"github.com/rmera/gonmr/config"
	"github.com/rmera/gonmr/lineshape"
	"github.com/rmera/gonmr/nmrio"
	"github.com/rmera/gonmr/nmrplot"
)

type outputs struct {
	dir      string
	peaks    string //extension for peak lists, "" for none
	spectrum string
	plot     string
	sticks   bool
}

type job struct {
	name  string
	req   *nmrio.Request
	peaks nmr.Peaks
}

func main() {
	var configFile string
	var out outputs
	flag.StringVar(&configFile, "config", "", "configuration file (default: nmrsim.yaml in . or $HOME/.nmrsim)")
	flag.StringVar(&out.dir, "out", ".", "output directory")
	flag.StringVar(&out.peaks, "peaks", ".peaks.json", "peak list extension (.json, .yaml, .msgpack, optionally plus .zst, .gz, .z); empty to skip")
	flag.StringVar(&out.spectrum, "spectrum", ".dat.zst", "spectrum extension (.dat or .msgpack, optionally compressed); empty to skip")
	flag.StringVar(&out.plot, "plot", ".png", "plot extension (.png, .svg, .pdf); empty to skip")
	flag.BoolVar(&out.sticks, "sticks", true, "draw the peaks over the spectrum in plots")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] request [request...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg, flag.Args(), out); err != nil {
		slog.Error("simulation failed", "kind", errKind(err), "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, files []string, out outputs) error {
	jobs := make([]*job, 0, len(files))
	names := make(map[string]string, len(files))
	for _, f := range files {
		name := outputName(f)
		if prev, ok := names[name]; ok {
			return nmr.NewError(nmr.ErrInvalidParameter, "run", "%s and %s would write the same outputs, %s.*", prev, f, name)
		}
		names[name] = f
		req, err := nmrio.ReadRequest(f)
		if err != nil {
			return err
		}
		jobs = append(jobs, &job{name: name, req: req})
	}
	if err := solveQM(ctx, cfg, jobs); err != nil {
		return err
	}
	if err := os.MkdirAll(out.dir, 0o755); err != nil {
		return err
	}
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := finish(cfg, j, out); err != nil {
			return fmt.Errorf("%s: %w", j.name, err)
		}
	}
	return nil
}

// errKind returns the class of a library error, or "other".
func errKind(err error) string {
	var e *nmr.Error
	if errors.As(err, &e) {
		return string(e.Kind())
	}
	return "other"
}

// outputName is the request file name without directory, compression suffix and
// format extension, so a.yaml.gz gives a.
func outputName(file string) string {
	_, base := nmrio.Compression(filepath.Base(file))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// solveQM runs all the requests that need the general solver as one batch.
func solveQM(ctx context.Context, cfg *config.Config, jobs []*job) error {
	var systems []*nmr.SpinSystem
	var which []*job
	for _, j := range jobs {
		if j.req.Kind != nmrio.KindQM && j.req.Kind != nmrio.KindWINDNMR {
			continue
		}
		S, err := j.req.SpinSystem()
		if err != nil {
			return fmt.Errorf("%s: %w", j.name, err)
		}
		slog.Debug("spin system", "request", j.name, "shifts", S.Shifts())
		systems = append(systems, S)
		which = append(which, j)
	}
	if len(systems) == 0 {
		return nil
	}
	slog.Info("solving spin systems", "count", len(systems), "workers", cfg.Workers)
	res, err := nmr.SolveBatch(ctx, systems, cfg.Workers, cfg.SolveOptions()...)
	if err != nil {
		return err
	}
	for i, j := range which {
		j.peaks = res[i]
	}
	return nil
}

func finish(cfg *config.Config, j *job, out outputs) error {
	var err error
	base := filepath.Join(out.dir, j.name)
	if !j.req.IsDynamic() && j.peaks == nil {
		if j.peaks, err = j.req.Peaks(cfg.SolveOptions()...); err != nil {
			return err
		}
	}
	if j.peaks != nil {
		slog.Info("solved", "request", j.name, "kind", j.req.Kind, "peaks", len(j.peaks), "intensity", j.peaks.TotalIntensity())
		if out.peaks != "" {
			if err := nmrio.WritePeaks(base+out.peaks, j.peaks); err != nil {
				return err
			}
		}
	}
	if out.spectrum == "" && out.plot == "" {
		return nil
	}
	var spec *lineshape.Spectrum
	if j.peaks != nil {
		spec, err = j.req.Synthesize(j.peaks, cfg.Linewidth, cfg.LineshapeOptions()...)
	} else {
		spec, err = j.req.Spectrum(cfg.Linewidth, nil, cfg.LineshapeOptions()...)
	}
	if err != nil {
		return err
	}
	if out.spectrum != "" {
		if err := nmrio.WriteSpectrum(base+out.spectrum, spec); err != nil {
			return err
		}
	}
	if out.plot != "" {
		var sticks nmr.Peaks
		if out.sticks {
			sticks = j.peaks
		}
		if err := nmrplot.Save(spec, sticks, j.name, base+out.plot, 0, 0); err != nil {
			return err
		}
	}
	slog.Info("written", "request", j.name, "dir", out.dir)
	return nil
}
