// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"math"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
)

// StepControl holds the current step width and adapts it after accepted or rejected steps
type StepControl struct {
	Dt     float64 // current step width
	Min    float64 // smallest step width
	Max    float64 // largest step width
	Factor float64 // growth and shrink factor
	Delay  int     // number of consecutive successes before growing

	nsucc int // consecutive successes
}

// NewStepControl returns a step control set up from the solver data
func NewStepControl(prms *inp.SolverData) *StepControl {
	return &StepControl{Dt: prms.DtIni, Min: prms.DtMin, Max: prms.DtMax, Factor: prms.DtFactor, Delay: prms.DtDelay}
}

// Success records an accepted step and grows Dt once Delay steps in a row succeeded
func (o *StepControl) Success() (grown bool) {
	o.nsucc++
	if o.nsucc >= o.Delay {
		o.nsucc = 0
		if o.Dt < o.Max {
			o.Dt = math.Min(o.Dt*o.Factor, o.Max)
			return true
		}
	}
	return false
}

// Failure records a rejected step and shrinks Dt. Returns a StepWidthExhausted failure if Dt
// falls below Min
func (o *StepControl) Failure() error {
	o.nsucc = 0
	o.Dt /= o.Factor
	if o.Dt < o.Min {
		return failure(StepWidthExhausted, "Δt=%g is smaller than minimum %g", o.Dt, o.Min)
	}
	return nil
}
