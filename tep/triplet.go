// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// Triplet is a sparse matrix in (row, column, value) format. Repeated entries are summed
type Triplet struct {
	m, n int       // dimensions
	i, j []int     // row and column indices
	x    []float64 // values
}

// Init allocates a triplet for an m×n matrix with room for max entries
func (o *Triplet) Init(m, n, max int) {
	o.m, o.n = m, n
	o.i = make([]int, 0, max)
	o.j = make([]int, 0, max)
	o.x = make([]float64, 0, max)
}

// Start discards all entries (keeping memory)
func (o *Triplet) Start() {
	o.i, o.j, o.x = o.i[:0], o.j[:0], o.x[:0]
}

// Put adds an entry
func (o *Triplet) Put(i, j int, x float64) {
	if i < 0 || i >= o.m || j < 0 || j >= o.n {
		chk.Panic("cannot put entry (%d, %d) into %d×%d triplet", i, j, o.m, o.n)
	}
	o.i = append(o.i, i)
	o.j = append(o.j, j)
	o.x = append(o.x, x)
}

// PutSym adds x at (i, j) and at (j, i) unless i == j
func (o *Triplet) PutSym(i, j int, x float64) {
	o.Put(i, j, x)
	if i != j {
		o.Put(j, i, x)
	}
}

// Append adds all entries of other
func (o *Triplet) Append(other *Triplet) {
	o.i = append(o.i, other.i...)
	o.j = append(o.j, other.j...)
	o.x = append(o.x, other.x...)
}

// Len returns the number of entries
func (o *Triplet) Len() int { return len(o.x) }

// Size returns the dimensions
func (o *Triplet) Size() (m, n int) { return o.m, o.n }

// Entry returns entry k
func (o *Triplet) Entry(k int) (i, j int, x float64) { return o.i[k], o.j[k], o.x[k] }

// ToDense returns the dense matrix summing repeated entries
func (o *Triplet) ToDense() *mat.Dense {
	a := mat.NewDense(o.m, o.n, nil)
	for k, x := range o.x {
		a.Set(o.i[k], o.j[k], a.At(o.i[k], o.j[k])+x)
	}
	return a
}

// Filter returns a copy without row k and column k and with diag at (k, k)
func (o *Triplet) Filter(k int, diag float64) (res *Triplet) {
	res = new(Triplet)
	res.Init(o.m, o.n, len(o.x)+1)
	for e, x := range o.x {
		if o.i[e] != k && o.j[e] != k {
			res.Put(o.i[e], o.j[e], x)
		}
	}
	res.Put(k, k, diag)
	return
}
