// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LinSol solves linear systems with the Jacobian. Rows and columns are equilibrated before an LU
// factorisation with partial pivoting
type LinSol struct {
	CondMax float64 // largest acceptable condition number of the equilibrated matrix

	n    int       // dimension
	lu   mat.LU    // factors
	r, c []float64 // row and column scaling
	cond float64   // condition number estimate
	ok   bool      // factorisation is available
}

// Fact equilibrates and factorises K
func (o *LinSol) Fact(K *Triplet) (err error) {
	o.ok = false
	m, n := K.Size()
	if m != n {
		return failure(SingularJacobian, "matrix is not square: %d×%d", m, n)
	}
	a := K.ToDense()
	o.n = n
	o.r = rowScales(a, o.r)
	for i, s := range o.r {
		if s == 0 {
			return failure(SingularJacobian, "row %d is zero", i)
		}
	}
	a.Apply(func(i, j int, v float64) float64 { return v * o.r[i] }, a)
	if len(o.c) != n {
		o.c = make([]float64, n)
	}
	for j := 0; j < n; j++ {
		var big float64
		for i := 0; i < n; i++ {
			big = math.Max(big, math.Abs(a.At(i, j)))
		}
		if big == 0 {
			return failure(SingularJacobian, "column %d is zero", j)
		}
		o.c[j] = 1 / big
	}
	a.Apply(func(i, j int, v float64) float64 { return v * o.c[j] }, a)
	o.lu.Factorize(a)
	o.cond = o.lu.Cond()
	condmax := o.CondMax
	if condmax <= 0 {
		condmax = 1e16
	}
	if math.IsNaN(o.cond) || o.cond > condmax {
		return failure(SingularJacobian, "condition number %g exceeds %g", o.cond, condmax)
	}
	o.ok = true
	return
}

// Cond returns the condition number estimate of the last factorisation
func (o *LinSol) Cond() float64 { return o.cond }

// Solve solves K·x = b with the last factorisation
func (o *LinSol) Solve(x, b []float64) (err error) {
	if !o.ok {
		return failure(SingularJacobian, "matrix is not factorised")
	}
	rb := make([]float64, o.n)
	for i := range rb {
		rb[i] = o.r[i] * b[i]
	}
	var y mat.VecDense
	err = o.lu.SolveVecTo(&y, false, mat.NewVecDense(o.n, rb))
	if err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return &Failure{Kind: SingularJacobian, Err: err}
		}
		return err
	}
	for i := 0; i < o.n; i++ {
		x[i] = o.c[i] * y.AtVec(i)
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) {
			return failure(SingularJacobian, "solution is not finite")
		}
	}
	return
}

// Inverse returns the inverse of K from the last factorisation
func (o *LinSol) Inverse() (inv *mat.Dense, err error) {
	if !o.ok {
		return nil, failure(SingularJacobian, "matrix is not factorised")
	}
	var y mat.Dense
	err = o.lu.SolveTo(&y, false, eye(o.n))
	if err != nil {
		return nil, &Failure{Kind: SingularJacobian, Err: err}
	}

	// K⁻¹ = C·A⁻¹·R
	inv = mat.NewDense(o.n, o.n, nil)
	inv.Apply(func(i, j int, _ float64) float64 { return o.c[i] * y.At(i, j) * o.r[j] }, &y)
	return
}

// rowScales returns 1/max|a_ij| of each row (0 for zero rows)
func rowScales(a mat.Matrix, s []float64) []float64 {
	m, n := a.Dims()
	if len(s) != m {
		s = make([]float64, m)
	}
	for i := 0; i < m; i++ {
		var big float64
		for j := 0; j < n; j++ {
			big = math.Max(big, math.Abs(a.At(i, j)))
		}
		s[i] = 0
		if big > 0 {
			s[i] = 1 / big
		}
	}
	return s
}

// eye returns the n×n identity
func eye(n int) *mat.Dense {
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		a.Set(i, i, 1)
	}
	return a
}
