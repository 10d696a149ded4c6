// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"context"
	"errors"

	"github.com/cpmech/gosl/io"
)

// Kind classifies solver failures
type Kind int

// failure kinds
const (
	NotConverged       Kind = iota + 1 // root finder exceeded the number of iterations
	Diverging                          // residual or correction grows during iterations
	SingularJacobian                   // Jacobian cannot be factorised
	InvalidStep                        // a validator rejected a converged solution
	Instability                        // non-finite values were produced
	StepWidthExhausted                 // step width fell below its minimum
	RecoveryExhausted                  // no recovery strategy succeeded
	Canceled                           // run was canceled
	Timeout                            // wall-clock limit reached
)

var kindNames = map[Kind]string{
	NotConverged:       "not converged",
	Diverging:          "diverging",
	SingularJacobian:   "singular Jacobian",
	InvalidStep:        "invalid step",
	Instability:        "instability",
	StepWidthExhausted: "step width exhausted",
	RecoveryExhausted:  "recovery exhausted",
	Canceled:           "canceled",
	Timeout:            "timeout",
}

// String returns the name of the kind
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown failure"
}

// Recoverable tells whether the stepper may retry after this kind of failure
func (k Kind) Recoverable() bool {
	switch k {
	case NotConverged, Diverging, SingularJacobian, InvalidStep:
		return true
	}
	return false
}

// Failure is a classified solver failure
type Failure struct {
	Kind Kind   // kind of failure
	Msg  string // details
	Err  error  // cause, if any
}

// sentinels to be used with errors.Is
var (
	ErrNotConverged       = &Failure{Kind: NotConverged}
	ErrDiverging          = &Failure{Kind: Diverging}
	ErrSingularJacobian   = &Failure{Kind: SingularJacobian}
	ErrInvalidStep        = &Failure{Kind: InvalidStep}
	ErrInstability        = &Failure{Kind: Instability}
	ErrStepWidthExhausted = &Failure{Kind: StepWidthExhausted}
	ErrRecoveryExhausted  = &Failure{Kind: RecoveryExhausted}
	ErrCanceled           = &Failure{Kind: Canceled}
	ErrTimeout            = &Failure{Kind: Timeout}
)

// failure returns a new Failure with formatted message
func failure(kind Kind, msg string, prm ...interface{}) *Failure {
	return &Failure{Kind: kind, Msg: io.Sf(msg, prm...)}
}

// Error returns the error message
func (o *Failure) Error() string {
	s := o.Kind.String()
	if o.Msg != "" {
		s += ": " + o.Msg
	}
	if o.Err != nil {
		s += ": " + o.Err.Error()
	}
	return s
}

// Unwrap returns the cause
func (o *Failure) Unwrap() error { return o.Err }

// Is matches failures of the same kind
func (o *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Kind == o.Kind
}

// KindOf returns the kind of a failure in the chain of err or 0
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return 0
}

// checkContext converts a done context into a Canceled or Timeout failure
func checkContext(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Failure{Kind: Timeout, Err: err}
	}
	return &Failure{Kind: Canceled, Err: err}
}

// FatalError is returned by a run that was aborted. All states accepted before LastTime were
// handed to the reporting sink
type FatalError struct {
	Kind     Kind    // kind of failure
	LastTime float64 // time of last accepted state
	Err      error   // cause
}

// Error returns the error message
func (o *FatalError) Error() string {
	return io.Sf("run aborted after t = %g: %v", o.LastTime, o.Err)
}

// Unwrap returns the cause
func (o *FatalError) Unwrap() error { return o.Err }
