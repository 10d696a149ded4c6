// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"context"
	"math"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
	"github.com/cpmech/gosl/io"
)

// Stepper advances a state by one accepted step at a time. It owns the step width and the
// previously accepted solution
type Stepper struct {
	Prms       *inp.SolverData  // solver data
	Proc       *inp.ProcessData // process conditions
	Verbose    bool             // show messages
	Ctrl       *StepControl     // step width control
	Finder     RootFinder       // root finder
	Validators []Validator      // checks of converged steps
	Chain      RecoveryChain    // recovery strategies
	Sum        *Summary         // run history

	// Sanitizer is applied to converged states with contacts before they are accepted; nil
	// disables it
	Sanitizer func(st *sol.State) (*sol.State, error)

	prev *Solution // last accepted solution; nil before the first step
	ls   LinSol    // linear solver of the predictor
}

// NewStepper returns a new stepper. rm may be nil if "remesh" is not a recovery strategy
func NewStepper(prms *inp.SolverData, proc *inp.ProcessData, rm Remesher, verbose bool) (o *Stepper, err error) {
	o = &Stepper{Prms: prms, Proc: proc, Verbose: verbose, Sum: new(Summary)}
	o.Ctrl = NewStepControl(prms)
	o.Finder, err = NewRootFinder(prms.RootFinder, prms, verbose)
	if err != nil {
		return nil, err
	}
	o.Validators = []Validator{VolumeValidator{}, SurfaceAngleValidator{MaxAngle: prms.MaxDispAngle}}
	if prms.Sanitize {
		o.Sanitizer = (*sol.State).Sanitize
	}
	o.Chain, err = NewRecoveryChain(prms.Recovery, rm)
	if err != nil {
		return nil, err
	}
	o.ls.CondMax = prms.CondMax
	return
}

// Previous returns the last accepted solution or nil
func (o *Stepper) Previous() *Solution { return o.prev }

// Step returns the state after one accepted step of width at most dtlim. Recoverable failures
// are retried with a smaller step width; from the second consecutive failure on, the state is
// routed through the recovery chain first
func (o *Stepper) Step(ctx context.Context, st *sol.State, dtlim float64) (next *sol.State, err error) {
	nfail := 0
	for {
		err = checkContext(ctx)
		if err != nil {
			return nil, err
		}

		// attempt
		Δt := math.Min(o.Ctrl.Dt, dtlim)
		var res *Solution
		var stats IterStats
		next, res, stats, err = o.attempt(ctx, st, Δt)
		o.Sum.Niter += stats.Nit

		// drift correction
		if err == nil && o.Sanitizer != nil && len(next.NodeContacts) > 0 {
			var clean *sol.State
			clean, err = o.Sanitizer(next)
			if err != nil {
				err = &Failure{Kind: InvalidStep, Msg: "cannot sanitize converged state", Err: err}
			}
			next = clean
		}

		// accept
		if err == nil {
			o.prev = res
			o.Sum.accept(next.Time, Δt, next.Energy(), stats)
			if o.Ctrl.Success() && o.Verbose {
				io.Pfgreen("Δt increased to %g\n", o.Ctrl.Dt)
			}
			return
		}

		// reject: the next attempt uses a width smaller than the one just tried
		if !KindOf(err).Recoverable() {
			return nil, err
		}
		o.Sum.Nreject++
		if o.Verbose {
			io.Pforan("step at t=%g with Δt=%g rejected: %v\n", st.Time, Δt, err)
		}
		o.Ctrl.Dt = Δt
		if e := o.Ctrl.Failure(); e != nil {
			f := e.(*Failure)
			f.Err = err
			return nil, f
		}
		nfail++

		// recover
		if nfail > 1 && len(o.Chain) > 0 {
			var name string
			st, name, err = o.Chain.Recover(st, o.Verbose)
			if err != nil {
				return nil, err
			}
			o.Sum.Nrecover++
			o.Sum.Recoveries = append(o.Sum.Recoveries, name)
		}
	}
}

// attempt solves one step of width Δt starting at st and validates the result
func (o *Stepper) attempt(ctx context.Context, st *sol.State, Δt float64) (next *sol.State, res *Solution, stats IterStats, err error) {

	// system
	emap := NewEqMap(st)
	lag, err := NewLagrangian(st, emap, Δt, o.Proc, o.Prms.Parallel)
	if err != nil {
		return
	}

	// initial guess
	x := lag.Guess(o.prev)
	if o.Prms.Predictor {
		err = lag.Predict(x, &o.ls)
		if err != nil {
			return
		}
	}

	// solve
	stats, err = o.Finder.Solve(ctx, lag, x, st.Time)
	if err != nil {
		return
	}
	if o.Prms.AdamsMoulton && o.prev != nil {
		AdamsMoulton(x, emap, o.prev, Δt)
	}

	// new state
	next, err = ApplyStep(emap, x, Δt)
	if err != nil {
		return
	}
	err = validate(o.Validators, st, next)
	if err != nil {
		return nil, nil, stats, err
	}
	res = &Solution{Map: emap, X: x, Dt: Δt}
	return
}
