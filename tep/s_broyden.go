// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"context"
	"math"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"
)

// Broyden solves the system with the (good) Broyden method. The Jacobian is assembled and
// inverted once; afterwards the inverse is corrected by rank-one updates
type Broyden struct {
	Prms    *inp.SolverData // solver data
	Verbose bool            // show messages

	ls LinSol // linear solver for the first inverse
}

// set factory
func init() {
	rootfinders["broyden"] = func(prms *inp.SolverData, verbose bool) RootFinder {
		return &Broyden{Prms: prms, Verbose: verbose}
	}
}

// Solve runs the iterations
func (o *Broyden) Solve(ctx context.Context, sys System, x []float64, t float64) (stats IterStats, err error) {

	// auxiliary
	n := sys.Size()
	r := make([]float64, n)
	rnew := make([]float64, n)
	o.ls.CondMax = o.Prms.CondMax

	// initial residual and Jacobian
	err = checkContext(ctx)
	if err != nil {
		return
	}
	err = sys.Residual(r, x)
	if err != nil {
		return
	}
	K := new(Triplet)
	K.Init(n, n, 16*n)
	err = sys.Jacobian(K, x)
	if err != nil {
		return
	}
	scale := jacRowScales(K, nil)
	largFb0 := largestScaled(r, scale)
	largFb := largFb0
	stats.Resids = append(stats.Resids, largFb)
	if largFb < o.Prms.FbMin {
		return
	}
	err = o.ls.Fact(K)
	if err != nil {
		return
	}
	H, err := o.ls.Inverse()
	if err != nil {
		return
	}

	// message
	if o.Prms.ShowR {
		io.Pf("\n%13s%4s%23s%23s\n", "t", "it", "largFb", "Lδu")
	}

	// iterations
	δ := mat.NewVecDense(n, nil)
	y := mat.NewVecDense(n, nil)
	Hy := mat.NewVecDense(n, nil)
	dH := mat.NewVecDense(n, nil)
	var prevFb, prevLδu float64
	for it := 0; it < o.Prms.NmaxIt; it++ {
		stats.Nit = it + 1

		// check for cancellation
		err = checkContext(ctx)
		if err != nil {
			return
		}

		// δ := -H·r
		δ.MulVec(H, mat.NewVecDense(n, r))
		δ.ScaleVec(-1, δ)
		for i := range x {
			x[i] += δ.AtVec(i)
		}
		Lδu := rmsErr(δ.RawVector().Data, o.Prms.Atol, o.Prms.Rtol, x)

		// new residual
		err = sys.Residual(rnew, x)
		if err != nil {
			return
		}
		largFb = largestScaled(rnew, scale)
		stats.Resids = append(stats.Resids, largFb)

		// message
		if o.Prms.ShowR {
			io.Pf("%13.6e%4d%23.15e%23.15e\n", t, it, largFb, Lδu)
		}

		// check convergence
		if largFb < o.Prms.FbTol*largFb0 || largFb < o.Prms.FbMin || Lδu < o.Prms.Itol {
			return
		}

		// check divergence
		if it > 1 && o.Prms.DvgCtrl {
			if largFb > prevFb && Lδu > prevLδu {
				err = failure(Diverging, "residual and correction grow at iteration %d", it)
				return
			}
		}
		prevFb, prevLδu = largFb, Lδu

		// H := H + (δ - H·y)·(δᵀ·H) / (δᵀ·H·y)
		for i := range r {
			y.SetVec(i, rnew[i]-r[i])
			r[i] = rnew[i]
		}
		Hy.MulVec(H, y)
		den := mat.Dot(δ, Hy)
		if den == 0 || math.IsNaN(den) {
			err = failure(SingularJacobian, "Broyden update is singular at iteration %d", it)
			return
		}
		dH.MulVec(H.T(), δ)
		Hy.SubVec(δ, Hy)
		H.RankOne(H, 1/den, Hy, dH)
	}

	// not converged
	if o.Verbose {
		io.Pfred("max number of iterations reached: it = %d\n", o.Prms.NmaxIt)
	}
	err = failure(NotConverged, "largest scaled residual %g after %d iterations", largFb, o.Prms.NmaxIt)
	return
}
