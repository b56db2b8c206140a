/*
 * qm_test.go, part of gonmr.
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
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"testing"

	matrix "github.com/skelterjohn/go.matrix"
	"gonum.org/v1/gonum/mat"
)

const tol = 1e-6

func TestSingleSpin(Te *testing.T) {
	p, err := SolveArrays([]float64{100}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if len(p) != 1 {
		Te.Fatalf("expected one peak, got %v", p)
	}
	if math.Abs(p[0].Freq-100) > tol || math.Abs(p[0].Intensity-1) > tol {
		Te.Errorf("expected (100, 1), got %v", p[0])
	}
	p, err = SolveArrays([]float64{-42.5}, [][]float64{{0}}, WithNormalize(true))
	if err != nil {
		Te.Fatal(err)
	}
	if len(p) != 1 || math.Abs(p[0].Freq+42.5) > tol || math.Abs(p[0].Intensity-1) > tol {
		Te.Errorf("normalized single spin: got %v", p)
	}
}

// The AB quartet: lines at vc +- c +- J/2 with c = sqrt(dv^2+J^2)/2 and
// intensities 1 -+ J/2c, outer lines weaker.
func TestABQuartet(Te *testing.T) {
	J, dv, vc := 12.0, 15.0, 150.0
	p, err := SolveArrays([]float64{vc + dv/2, vc - dv/2}, [][]float64{{0, J}, {J, 0}})
	if err != nil {
		Te.Fatal(err)
	}
	if len(p) != 4 {
		Te.Fatalf("expected 4 lines, got %d: %v", len(p), p)
	}
	c := math.Sqrt(dv*dv+J*J) / 2
	want := Peaks{
		{vc - c - J/2, 1 - J/(2*c)},
		{vc - c + J/2, 1 + J/(2*c)},
		{vc + c - J/2, 1 + J/(2*c)},
		{vc + c + J/2, 1 - J/(2*c)},
	}
	got := p.Sorted()
	for i := range want {
		if math.Abs(got[i].Freq-want[i].Freq) > tol || math.Abs(got[i].Intensity-want[i].Intensity) > tol {
			Te.Errorf("line %d: got %v want %v", i, got[i], want[i])
		}
	}
	fmt.Println("AB quartet:", got)
}

func TestWeakCouplingLimit(Te *testing.T) {
	//AX: two doublets at the shifts, all lines intensity ~1
	p, err := SolveArrays([]float64{100, 10100}, [][]float64{{0, 7}, {7, 0}})
	if err != nil {
		Te.Fatal(err)
	}
	got := p.Sorted()
	want := []float64{96.5, 103.5, 10096.5, 10103.5}
	for i, w := range want {
		if math.Abs(got[i].Freq-w) > 1e-2 || math.Abs(got[i].Intensity-1) > 1e-2 {
			Te.Errorf("AX line %d: got %v want %v", i, got[i], w)
		}
	}
}

func TestConservation(Te *testing.T) {
	for _, n := range []int{3, 4, 5} {
		S, err := WINDNMRDefault(n)
		if err != nil {
			Te.Fatal(err)
		}
		perm := make([]int, n)
		for i := range perm {
			perm[i] = (i*2 + 1) % n
		}
		if n == 4 {
			perm = []int{2, 0, 3, 1}
		}
		P, err := S.Permute(perm)
		if err != nil {
			Te.Fatal(err)
		}
		a, err := Solve(S)
		if err != nil {
			Te.Fatal(err)
		}
		b, err := Solve(P)
		if err != nil {
			Te.Fatal(err)
		}
		ta, tb := a.TotalIntensity(), b.TotalIntensity()
		if math.Abs(ta-tb) > 1e-8*ta {
			Te.Errorf("%d spins: total intensity changed on relabelling: %v vs %v", n, ta, tb)
		}
		if math.Abs(ta-TheoreticalIntensity(n)) > 1e-8*ta {
			Te.Errorf("%d spins: total intensity %v, expected %v", n, ta, TheoreticalIntensity(n))
		}
		ra, rb := a.Reduce(1e-6).Filter(1e-9), b.Reduce(1e-6).Filter(1e-9)
		if len(ra) != len(rb) {
			Te.Fatalf("%d spins: %d vs %d distinct lines after relabelling", n, len(ra), len(rb))
		}
		for i := range ra {
			if math.Abs(ra[i].Freq-rb[i].Freq) > 1e-6 || math.Abs(ra[i].Intensity-rb[i].Intensity) > 1e-6 {
				Te.Errorf("%d spins, line %d: %v vs %v", n, i, ra[i], rb[i])
			}
		}
	}
}

func TestIdempotence(Te *testing.T) {
	S, err := WINDNMRDefault(5)
	if err != nil {
		Te.Fatal(err)
	}
	a, err := Solve(S)
	if err != nil {
		Te.Fatal(err)
	}
	b, err := Solve(S)
	if err != nil {
		Te.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		Te.Error("two solves of the same system differ")
	}
}

func TestNormalize(Te *testing.T) {
	S, err := WINDNMRDefault(4)
	if err != nil {
		Te.Fatal(err)
	}
	p, err := Solve(S, WithNormalize(true))
	if err != nil {
		Te.Fatal(err)
	}
	if t := p.TotalIntensity(); math.Abs(t-4) > 1e-9 {
		Te.Errorf("normalized total intensity %v, expected 4", t)
	}
	for _, v := range p {
		if v.Intensity < 0 || math.IsNaN(v.Freq) {
			Te.Errorf("bad peak %v", v)
		}
	}
}

func TestInvalidInput(Te *testing.T) {
	saved := blockEigen
	defer func() { blockEigen = saved }()
	blockEigen = func(h *mat.SymDense) (*eigenPairs, error) {
		Te.Fatal("diagonalization attempted on invalid input")
		return nil, nil
	}
	cases := []struct {
		name      string
		shifts    []float64
		couplings [][]float64
		kind      Kind
	}{
		{"non-square", []float64{100, 120}, [][]float64{{0, 7}, {7}}, ErrInvalidDimension},
		{"too few rows", []float64{100, 120, 140}, [][]float64{{0, 7, 1}, {7, 0, 1}}, ErrInvalidDimension},
		{"asymmetric", []float64{100, 120}, [][]float64{{0, 7}, {6, 0}}, ErrInvalidDimension},
		{"no spins", nil, nil, ErrInvalidDimension},
		{"self coupling", []float64{100, 120}, [][]float64{{3, 7}, {7, 0}}, ErrInvalidParameter},
		{"NaN shift", []float64{math.NaN(), 120}, nil, ErrInvalidParameter},
		{"Inf coupling", []float64{100, 120}, [][]float64{{0, math.Inf(1)}, {math.Inf(1), 0}}, ErrInvalidParameter},
	}
	for _, c := range cases {
		p, err := SolveArrays(c.shifts, c.couplings)
		if err == nil {
			Te.Errorf("%s: expected an error, got %v", c.name, p)
			continue
		}
		if !errors.Is(err, c.kind) {
			Te.Errorf("%s: expected %v, got %v", c.name, c.kind, err)
		}
		var e *Error
		if !errors.As(err, &e) || len(e.Decorate("")) < 2 {
			Te.Errorf("%s: error not decorated: %v", c.name, err)
		}
	}
	S, err := NewSpinSystem(make([]float64, 4), nil)
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := Solve(S, WithMaxSpins(3)); !errors.Is(err, ErrInvalidDimension) {
		Te.Errorf("spin limit not enforced: %v", err)
	}
}

func TestDivergenceIsReported(Te *testing.T) {
	saved := blockEigen
	defer func() { blockEigen = saved }()
	blockEigen = func(h *mat.SymDense) (*eigenPairs, error) {
		return nil, NewError(ErrNumericalDivergence, "fake", "no convergence")
	}
	_, err := SolveArrays([]float64{100, 120}, [][]float64{{0, 7}, {7, 0}})
	if !errors.Is(err, ErrNumericalDivergence) {
		Te.Errorf("expected a divergence error, got %v", err)
	}
}

func TestSnapshot(Te *testing.T) {
	shifts := []float64{100, 120}
	J := [][]float64{{0, 7}, {7, 0}}
	S, err := NewSpinSystem(shifts, J)
	if err != nil {
		Te.Fatal(err)
	}
	shifts[0] = 500
	J[0][1], J[1][0] = 1, 1
	if S.Shift(0) != 100 || S.Coupling(0, 1) != 7 {
		Te.Error("spin system aliases the caller's slices")
	}
	sh := S.Shifts()
	sh[1] = -3
	if S.Shift(1) != shifts[1] {
		Te.Error("Shifts returned an internal slice")
	}
	c := S.Couplings()
	c[0][1] = 99
	if S.Coupling(0, 1) != 7 {
		Te.Error("Couplings returned an internal slice")
	}
}

// Checks one Hamiltonian block against go.matrix's independent eigensolver.
func TestEigenCrossCheck(Te *testing.T) {
	S, err := WINDNMRDefault(4)
	if err != nil {
		Te.Fatal(err)
	}
	blocks, index := basisBlocks(4)
	h := blockHamiltonian(S, blocks[2], index)
	e, err := symEigen(h)
	if err != nil {
		Te.Fatal(err)
	}
	d := h.SymmetricDim()
	data := make([]float64, 0, d*d)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			data = append(data, h.At(i, j))
		}
	}
	_, D, err := matrix.MakeDenseMatrix(data, d, d).Eigen()
	if err != nil {
		Te.Fatal(err)
	}
	other := make([]float64, d)
	for i := range other {
		other[i] = D.Get(i, i)
	}
	sort.Float64s(other)
	for i, v := range e.vals {
		if math.Abs(v-other[i]) > 1e-8 {
			Te.Errorf("eigenvalue %d: gonum %v, go.matrix %v", i, v, other[i])
		}
	}
	//orthonormal eigenvectors
	var vtv mat.Dense
	vtv.Mul(e.vecs.T(), e.vecs)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(vtv.At(i, j)-want) > 1e-10 {
				Te.Fatalf("eigenvectors not orthonormal at %d,%d: %v", i, j, vtv.At(i, j))
			}
		}
	}
}

func TestDegenerateSpins(Te *testing.T) {
	//A3: three equivalent uncoupled-in-practice spins give one line of intensity 12
	J := [][]float64{{0, 7, 7}, {7, 0, 7}, {7, 7, 0}}
	p, err := SolveArrays([]float64{200, 200, 200}, J)
	if err != nil {
		Te.Fatal(err)
	}
	r := p.Reduce(1e-6)
	if len(r) != 1 || math.Abs(r[0].Freq-200) > tol || math.Abs(r[0].Intensity-12) > 1e-8 {
		Te.Errorf("A3 system should collapse to one line at 200 Hz, got %v", r)
	}
}

func TestSolveBatch(Te *testing.T) {
	var systems []*SpinSystem
	for _, n := range DefaultSizes()[:5] {
		S, err := WINDNMRDefault(n)
		if err != nil {
			Te.Fatal(err)
		}
		systems = append(systems, S)
	}
	res, err := SolveBatch(context.Background(), systems, 3)
	if err != nil {
		Te.Fatal(err)
	}
	for i, S := range systems {
		p, err := Solve(S)
		if err != nil {
			Te.Fatal(err)
		}
		if !reflect.DeepEqual(p, res[i]) {
			Te.Errorf("batch result %d differs from a direct solve", i)
		}
	}
	systems = append(systems, nil)
	if _, err := SolveBatch(context.Background(), systems, 2); !errors.Is(err, ErrInvalidDimension) {
		Te.Errorf("expected the nil system to fail the batch, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := SolveBatch(ctx, systems[:2], 1); !errors.Is(err, context.Canceled) {
		Te.Errorf("expected cancellation, got %v", err)
	}
}

func TestReduce(Te *testing.T) {
	p := Peaks{{10, 1}, {10.0005, 3}, {20, 1}, {5, 0}, {5, 0}}
	r := p.Reduce(0.001)
	if len(r) != 3 {
		Te.Fatalf("expected 3 lines, got %v", r)
	}
	if r[0].Freq != 5 || r[0].Intensity != 0 {
		Te.Errorf("zero-intensity merge: %v", r[0])
	}
	if math.Abs(r[1].Freq-10.000375) > 1e-9 || r[1].Intensity != 4 {
		Te.Errorf("weighted merge: %v", r[1])
	}
	if p[0].Freq != 10 {
		Te.Error("Reduce modified its receiver")
	}
}

func TestDefaults(Te *testing.T) {
	for _, n := range DefaultSizes() {
		S, err := WINDNMRDefault(n)
		if err != nil {
			Te.Fatal(err)
		}
		if S.Len() != n {
			Te.Errorf("default for %d spins has %d", n, S.Len())
		}
	}
	if _, err := WINDNMRDefault(1); !errors.Is(err, ErrInvalidDimension) {
		Te.Errorf("expected an error for a 1-spin default, got %v", err)
	}
}
