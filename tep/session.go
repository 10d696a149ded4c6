// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tep implements the thermodynamic extremal principle solver for solid-state sintering:
// numbering of unknowns, assembly of the stationarity conditions, root finders, the adaptive
// time stepper and the recovery chain
package tep

import (
	"context"
	"math"
	"time"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Session runs one simulation from an initial state to the end time
type Session struct {
	Sim      *inp.Simulation // simulation data
	Remesher Remesher        // remeshing service; may be nil
	Verbose  bool            // show messages
	Stepper  *Stepper        // time stepper
}

// NewSession returns a new session
func NewSession(sim *inp.Simulation, rm Remesher) (o *Session, err error) {
	o = &Session{Sim: sim, Remesher: rm, Verbose: sim.Data.Verbose}
	o.Stepper, err = NewStepper(&sim.Solver, &sim.Process, rm, o.Verbose)
	return
}

// Summary returns the run history
func (o *Session) Summary() *Summary { return o.Stepper.Sum }

// Run integrates from st until st.Time + Duration. sink is called once per accepted state, in
// order; it may be nil. On failure, a *FatalError is returned together with the last accepted
// state
func (o *Session) Run(ctx context.Context, st *sol.State, sink func(*sol.State) error) (last *sol.State, err error) {

	// wall-clock limit
	if o.Sim.Solver.TimeoutDur > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Sim.Solver.TimeoutDur)
		defer cancel()
	}

	// message
	cputime := time.Now()
	if o.Verbose {
		io.Pfcyan("running %q from t=%g to t=%g\n", o.Sim.Data.Desc, st.Time, st.Time+o.Sim.Process.Duration)
		o.Sim.Solver.Log()
	}

	// time loop
	last = st
	tf := st.Time + o.Sim.Process.Duration
	ttol := 1e-12 * math.Max(1, math.Abs(tf))
	naccept := 0
	for tf-last.Time > ttol {

		// step
		next, e := o.Stepper.Step(ctx, last, tf-last.Time)
		if e != nil {
			return last, o.fatal(last.Time, e)
		}
		if o.Verbose {
			io.Pf("%30.15f\r", next.Time)
		}

		// report
		if sink != nil {
			e = sink(next)
			if e != nil {
				return last, o.fatal(last.Time, chk.Err("reporting state at t=%g failed: %v", next.Time, e))
			}
		}
		last = next
		naccept++

		// remesh
		itv := o.Sim.Remesh.Interval
		if o.Remesher != nil && itv > 0 && naccept%itv == 0 {
			next, e = o.Remesher.Remesh(last)
			if e != nil {
				return last, o.fatal(last.Time, chk.Err("remeshing at t=%g failed: %v", last.Time, e))
			}
			if next.Nnodes() != last.Nnodes() {
				o.Stepper.Sum.Nremesh++
				if o.Verbose {
					io.Pfyel("\nremeshed at t=%g: %d => %d nodes\n", last.Time, last.Nnodes(), next.Nnodes())
				}
			}
			last = next
		}
	}

	// message
	if o.Verbose {
		sum := o.Stepper.Sum
		io.Pf("\n\nfinal time = %v\n", last.Time)
		io.Pf("accepted = %d  rejected = %d  recovered = %d  iterations = %d\n", sum.Naccept, sum.Nreject, sum.Nrecover, sum.Niter)
		io.Pfblue2("cpu time   = %v\n", time.Since(cputime))
	}
	return
}

// fatal wraps the cause of an abort
func (o *Session) fatal(t float64, err error) *FatalError {
	o.Stepper.Sum.Failure = err.Error()
	if o.Verbose {
		io.Pfred("\nrun aborted at t=%g: %v\n", t, err)
	}
	return &FatalError{Kind: KindOf(err), LastTime: t, Err: err}
}
