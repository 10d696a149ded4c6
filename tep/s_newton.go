// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"context"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/cpmech/gosl/io"
)

// Newton solves the system with the Newton-Raphson method
type Newton struct {
	Prms    *inp.SolverData // solver data
	Verbose bool            // show messages

	ls LinSol // linear solver
}

// set factory
func init() {
	rootfinders["newton"] = func(prms *inp.SolverData, verbose bool) RootFinder {
		return &Newton{Prms: prms, Verbose: verbose}
	}
}

// Solve runs the iterations. Row-scaled residuals are used to check convergence
func (o *Newton) Solve(ctx context.Context, sys System, x []float64, t float64) (stats IterStats, err error) {

	// auxiliary
	n := sys.Size()
	r := make([]float64, n)
	δ := make([]float64, n)
	K := new(Triplet)
	K.Init(n, n, 16*n)
	o.ls.CondMax = o.Prms.CondMax
	var scale []float64

	// auxiliary variables
	var it int
	var largFb, largFb0, Lδu float64
	var prevFb, prevLδu float64
	var converged bool

	// message
	if o.Prms.ShowR {
		io.Pf("\n%13s%4s%23s%23s\n", "t", "it", "largFb", "Lδu")
	}

	// iterations
	for it = 0; it < o.Prms.NmaxIt; it++ {

		// check for cancellation
		err = checkContext(ctx)
		if err != nil {
			return
		}

		// residual
		err = sys.Residual(r, x)
		if err != nil {
			return
		}

		// assemble Jacobian matrix
		doAsmFact := (it == 0 || !o.Prms.CteTg)
		if doAsmFact {
			err = sys.Jacobian(K, x)
			if err != nil {
				return
			}
			scale = jacRowScales(K, scale)
		}

		// find largest absolute component of scaled residual
		largFb = largestScaled(r, scale)
		stats.Resids = append(stats.Resids, largFb)

		// check largFb value
		if it == 0 {
			largFb0 = largFb
			if largFb < o.Prms.FbMin { // guess is already a root
				converged = true
				break
			}
		} else {
			if largFb < o.Prms.FbTol*largFb0 { // converged on fb
				converged = true
				break
			}
			if largFb < o.Prms.FbMin { // converged with smallest value of fb
				converged = true
				break
			}
		}

		// check divergence on fb
		if it > 1 && o.Prms.DvgCtrl {
			if largFb > prevFb {
				err = failure(Diverging, "residual grows at iteration %d: %g > %g", it, largFb, prevFb)
				return
			}
		}
		prevFb = largFb

		// perform factorisation
		if doAsmFact {
			err = o.ls.Fact(K)
			if err != nil {
				return
			}
		}

		// solve for δ := -K⁻¹·r
		for i := range r {
			r[i] = -r[i]
		}
		err = o.ls.Solve(δ, r)
		if err != nil {
			return
		}

		// update unknowns
		for i := range x {
			x[i] += δ[i]
		}

		// compute RMS norm of δ and check convegence on δ
		Lδu = rmsErr(δ, o.Prms.Atol, o.Prms.Rtol, x)

		// message
		if o.Prms.ShowR {
			io.Pf("%13.6e%4d%23.15e%23.15e\n", t, it, largFb, Lδu)
		}

		// stop if converged on δ
		if Lδu < o.Prms.Itol {
			converged = true
			it++
			break
		}

		// check divergence on Lδu
		if it > 1 && o.Prms.DvgCtrl {
			if Lδu > prevLδu {
				err = failure(Diverging, "correction grows at iteration %d: %g > %g", it, Lδu, prevLδu)
				return
			}
		}
		prevLδu = Lδu
	}
	stats.Nit = it

	// check if iterations diverged
	if !converged {
		if o.Verbose {
			io.Pfred("max number of iterations reached: it = %d\n", it)
		}
		err = failure(NotConverged, "largest scaled residual %g after %d iterations", largFb, it)
	}
	return
}
