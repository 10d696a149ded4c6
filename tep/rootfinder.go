// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"context"
	"math"
	"sort"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/cpmech/gosl/chk"
)

// IterStats holds statistics of one root solve
type IterStats struct {
	Nit    int       // number of iterations
	Resids []float64 // largest scaled residual at each iteration
}

// RootFinder solves a System in place, starting from x
type RootFinder interface {
	Solve(ctx context.Context, sys System, x []float64, t float64) (stats IterStats, err error)
}

// rootfinders holds all available root finders
var rootfinders = make(map[string]func(prms *inp.SolverData, verbose bool) RootFinder)

// NewRootFinder returns a new root finder by name
func NewRootFinder(name string, prms *inp.SolverData, verbose bool) (RootFinder, error) {
	allocator, ok := rootfinders[name]
	if !ok {
		return nil, chk.Err("cannot find root finder named %q. available: %v", name, RootFinders())
	}
	return allocator(prms, verbose), nil
}

// RootFinders returns the names of all root finders
func RootFinders() (names []string) {
	for name := range rootfinders {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// largestScaled returns max |r_i|·s_i
func largestScaled(r, s []float64) (res float64) {
	for i, v := range r {
		res = math.Max(res, math.Abs(v)*s[i])
	}
	return
}

// rmsErr returns the RMS norm of δ weighted by atol + rtol·|x|
func rmsErr(δ []float64, atol, rtol float64, x []float64) float64 {
	var sum float64
	for i, d := range δ {
		e := d / (atol + rtol*math.Abs(x[i]))
		sum += e * e
	}
	return math.Sqrt(sum / float64(len(δ)))
}

// jacRowScales returns 1/max_j|K_ij| of each row of K (1 for zero rows)
func jacRowScales(K *Triplet, s []float64) []float64 {
	m, _ := K.Size()
	if len(s) != m {
		s = make([]float64, m)
	}
	for i := range s {
		s[i] = 0
	}
	for k := 0; k < K.Len(); k++ {
		i, _, v := K.Entry(k)
		s[i] = math.Max(s[i], math.Abs(v))
	}
	for i, v := range s {
		if v > 0 {
			s[i] = 1 / v
		} else {
			s[i] = 1
		}
	}
	return s
}
