/*
 * batch.go, part of gonmr.
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
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// SolveBatch solves independent spin systems concurrently, with at most workers
// simultaneous solves (workers <= 0 means GOMAXPROCS). The results are in the same
// order as systems. The first error cancels the remaining solves and is returned,
// decorated with the index of the failing system.
func SolveBatch(ctx context.Context, systems []*SpinSystem, workers int, opts ...Option) ([]Peaks, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	ret := make([]Peaks, len(systems))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, S := range systems {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := Solve(S, opts...)
			if err != nil {
				return Decorate(err, fmt.Sprintf("SolveBatch: system %d", i))
			}
			ret[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}
