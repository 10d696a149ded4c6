// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"math"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
	"github.com/cpmech/gosl/chk"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// System is a square nonlinear system F(x) = 0 with Jacobian
type System interface {
	Size() int                              // number of unknowns and residuals
	Residual(r, x []float64) error          // r := F(x)
	Jacobian(K *Triplet, x []float64) error // K := dF/dx(x)
}

// Lagrangian assembles the stationarity conditions of
//
//	L = Ġ + λD·(Ġ + Q) + Σ λV·c + Σ λC·k + Σ λZ·z
//
// where Ġ = Σ Gn·un + Gt·ut is the rate of interface energy, Q = Σ j²·L/(D·Δt) + Σ ut²·L̄/(M·Δt)
// the dissipation (the sliding term runs over grain-boundary nodes only; neck nodes slide freely), c the volume balance of each node, k the compatibility of touching nodes and z
// the closure of contact cycles. The residual is ∂L/∂x and the Jacobian its symmetric Hessian
type Lagrangian struct {
	St       *sol.State // state at the beginning of the step
	Map      *EqMap     // positions of unknowns
	Dt       float64    // step width
	Parallel bool       // assemble particles and contacts concurrently

	// coefficients
	cj  [][]float64 // [np][nn] L/(D·Δt) of upper segment
	cut [][]float64 // [np][nn] L̄/(M·Δt) of grain-boundary nodes; zero elsewhere
	cls []closure   // closure constraints

	// workspace
	tpart []Triplet // per particle
	tcont []Triplet // per contact
}

// NewLagrangian returns a new assembler for one step of width Δt
func NewLagrangian(st *sol.State, emap *EqMap, Δt float64, proc *inp.ProcessData, parallel bool) (o *Lagrangian, err error) {
	if Δt <= 0 {
		return nil, chk.Err("step width must be positive. Δt=%g is invalid", Δt)
	}
	o = &Lagrangian{St: st, Map: emap, Dt: Δt, Parallel: parallel}
	rt := proc.GasConstant * proc.Temperature
	o.cj = make([][]float64, len(st.Particles))
	o.cut = make([][]float64, len(st.Particles))
	for p, par := range st.Particles {
		mat := par.Mat
		scale := mat.MolarVolume * mat.VacancyConcentration / rt
		o.cj[p] = make([]float64, len(par.Nodes))
		o.cut[p] = make([]float64, len(par.Nodes))
		for i, nod := range par.Nodes {
			g := &par.Geo[i]
			D := mat.SurfaceDiffusion
			if g.GB {
				D = mat.GrainBoundaryDiffusion
			}
			o.cj[p][i] = g.L / (D * scale * Δt)
			if nod.Kind == sol.GrainBoundary {
				o.cut[p][i] = g.Lbar / (mat.InterfaceMobility * scale * Δt)
			}
		}
	}
	o.cls = closures(st, emap)
	o.tpart = make([]Triplet, len(st.Particles))
	for p, par := range st.Particles {
		o.tpart[p].Init(emap.N, emap.N, 16*len(par.Nodes))
	}
	o.tcont = make([]Triplet, len(st.Contacts))
	for k, c := range st.Contacts {
		o.tcont[k].Init(emap.N, emap.N, 24*len(c.NodePairs))
	}
	return
}

// Size returns the number of unknowns
func (o *Lagrangian) Size() int { return o.Map.N }

// Residual computes r = ∂L/∂x. A non-finite component yields an Instability failure
func (o *Lagrangian) Residual(r, x []float64) (err error) {
	o.checkSize(r, x)
	for i := range r {
		r[i] = 0
	}

	// node rows and partial dissipation-equality residuals
	partial := make([]float64, len(o.St.Particles))
	o.run(len(o.St.Particles), func(p int) {
		partial[p] = o.nodeResiduals(p, r, x)
	})

	// contacts
	o.run(len(o.St.Contacts), func(k int) {
		o.contactResiduals(k, r, x)
	})

	// cycles
	for _, z := range o.cls {
		for a := 0; a < 3; a++ {
			λ := x[z.slots[a]]
			r[z.slots[a]] = z.z[a].eval(x)
			for _, t := range z.z[a] {
				r[t.slot] += λ * t.coef
			}
		}
	}

	// dissipation equality
	r[o.Map.LamD] = floats.Sum(partial)

	// check
	for i, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return failure(Instability, "residual of %s is not finite at t=%g", o.Map.Describe(i), o.St.Time)
		}
	}
	return
}

// Jacobian computes K = ∂²L/∂x²
func (o *Lagrangian) Jacobian(K *Triplet, x []float64) (err error) {
	o.checkSize(x, x)
	o.run(len(o.St.Particles), func(p int) {
		o.tpart[p].Start()
		o.nodeJacobian(p, &o.tpart[p], x)
	})
	o.run(len(o.St.Contacts), func(k int) {
		o.tcont[k].Start()
		o.contactJacobian(k, &o.tcont[k])
	})

	// join in deterministic order
	K.Start()
	for p := range o.tpart {
		K.Append(&o.tpart[p])
	}
	for k := range o.tcont {
		K.Append(&o.tcont[k])
	}
	for _, z := range o.cls {
		for a := 0; a < 3; a++ {
			for _, t := range z.z[a] {
				K.PutSym(z.slots[a], t.slot, t.coef)
			}
		}
	}
	for k := 0; k < K.Len(); k++ {
		i, j, v := K.Entry(k)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return failure(Instability, "Jacobian entry (%s, %s) is not finite at t=%g", o.Map.Describe(i), o.Map.Describe(j), o.St.Time)
		}
	}
	return
}

// NewJacobian allocates a triplet large enough for the Jacobian
func (o *Lagrangian) NewJacobian() (K *Triplet) {
	K = new(Triplet)
	nnz := 0
	for p := range o.tpart {
		nnz += cap(o.tpart[p].x)
	}
	for k := range o.tcont {
		nnz += cap(o.tcont[k].x)
	}
	K.Init(o.Map.N, o.Map.N, nnz+18*len(o.cls))
	return
}

// Rates returns the rate of interface energy Ġ and the dissipation Q at x
func (o *Lagrangian) Rates(x []float64) (gdot, q float64) {
	for p, par := range o.St.Particles {
		for i := range par.Nodes {
			g := &par.Geo[i]
			s := o.Map.Nodes[p][i]
			gdot += g.Gn * x[s.Un]
			q += o.cj[p][i] * x[s.J] * x[s.J]
			if s.Ut >= 0 {
				gdot += g.Gt * x[s.Ut]
				q += o.cut[p][i] * x[s.Ut] * x[s.Ut]
			}
		}
	}
	return
}

// VolumeBalance returns the volume-balance residual Vn·un + Vt·ut - (j - j_lo) of a node
func (o *Lagrangian) VolumeBalance(ref sol.NodeRef, x []float64) float64 {
	par := o.St.Particles[ref.P]
	g := &par.Geo[ref.I]
	s := o.Map.Nodes[ref.P][ref.I]
	c := g.Vn*x[s.Un] - x[s.J] + x[o.Map.Nodes[ref.P][par.Lo(ref.I)].J]
	if s.Ut >= 0 {
		c += g.Vt * x[s.Ut]
	}
	return c
}

// nodes ///////////////////////////////////////////////////////////////////////////////////////////

// nodeResiduals adds the rows of all nodes of particle p and returns their share of Ġ + Q
func (o *Lagrangian) nodeResiduals(p int, r, x []float64) (q float64) {
	par := o.St.Particles[p]
	slots := o.Map.Nodes[p]
	λD := x[o.Map.LamD]
	for i := range par.Nodes {
		g := &par.Geo[i]
		s := slots[i]
		un, j, λV := x[s.Un], x[s.J], x[s.LamV]
		jlo := x[slots[par.Lo(i)].J]
		λVup := x[slots[par.Up(i)].LamV]
		cj := o.cj[p][i]
		r[s.Un] += (1+λD)*g.Gn + λV*g.Vn
		r[s.J] += 2*λD*cj*j - λV + λVup
		c := g.Vn*un - j + jlo
		q += g.Gn*un + cj*j*j
		if s.Ut >= 0 {
			ut := x[s.Ut]
			cu := o.cut[p][i]
			r[s.Ut] += (1+λD)*g.Gt + λV*g.Vt + 2*λD*cu*ut
			c += g.Vt * ut
			q += g.Gt*ut + cu*ut*ut
		}
		r[s.LamV] += c
	}
	return
}

// nodeJacobian puts the entries of all nodes of particle p
func (o *Lagrangian) nodeJacobian(p int, K *Triplet, x []float64) {
	par := o.St.Particles[p]
	slots := o.Map.Nodes[p]
	d := o.Map.LamD
	λD := x[d]
	for i := range par.Nodes {
		g := &par.Geo[i]
		s := slots[i]
		cj := o.cj[p][i]
		K.PutSym(s.Un, d, g.Gn)
		K.PutSym(s.J, d, 2*cj*x[s.J])
		K.PutSym(s.Un, s.LamV, g.Vn)
		K.Put(s.J, s.J, 2*λD*cj)
		K.PutSym(s.J, s.LamV, -1)
		K.PutSym(s.J, slots[par.Up(i)].LamV, 1)
		if s.Ut >= 0 {
			cu := o.cut[p][i]
			K.PutSym(s.Ut, d, g.Gt+2*cu*x[s.Ut])
			K.PutSym(s.Ut, s.LamV, g.Vt)
			K.Put(s.Ut, s.Ut, 2*λD*cu)
		}
	}
}

// contacts ////////////////////////////////////////////////////////////////////////////////////////

// contactResiduals adds the compatibility terms of contact k
func (o *Lagrangian) contactResiduals(k int, r, x []float64) {
	c := o.St.Contacts[k]
	s := o.Map.Contacts[k]
	δd, δψ, δθ := x[s.D], x[s.Psi], x[s.Theta]
	for _, m := range c.NodePairs {
		np := o.St.NodeContacts[m]
		a := o.Map.Nodes[np.From.P][np.From.I]
		b := o.Map.Nodes[np.To.P][np.To.I]
		ps := o.Map.Pairs[m]
		λd, λψ := x[ps.Dist], x[ps.Dir]

		// forces of the multipliers
		r[a.Un] += λd*np.FromNe + λψ*np.FromNp
		r[a.Ut] += λd*np.FromTe + λψ*np.FromTp
		r[b.Un] -= λd*np.ToNe + λψ*np.ToNp
		r[b.Ut] -= λd*np.ToTe + λψ*np.ToTp
		r[s.D] -= λd
		r[s.Psi] -= c.Distance * λψ
		r[s.Theta] -= λd*np.Le + λψ*np.Lp

		// compatibility along e and e⊥
		ua, ta := x[a.Un], x[a.Ut]
		ub, tb := x[b.Un], x[b.Ut]
		r[ps.Dist] = ua*np.FromNe + ta*np.FromTe - ub*np.ToNe - tb*np.ToTe - δd - δθ*np.Le
		r[ps.Dir] = ua*np.FromNp + ta*np.FromTp - ub*np.ToNp - tb*np.ToTp - c.Distance*δψ - δθ*np.Lp
	}
}

// contactJacobian puts the entries of contact k
func (o *Lagrangian) contactJacobian(k int, K *Triplet) {
	c := o.St.Contacts[k]
	s := o.Map.Contacts[k]
	for _, m := range c.NodePairs {
		np := o.St.NodeContacts[m]
		a := o.Map.Nodes[np.From.P][np.From.I]
		b := o.Map.Nodes[np.To.P][np.To.I]
		ps := o.Map.Pairs[m]
		K.PutSym(ps.Dist, a.Un, np.FromNe)
		K.PutSym(ps.Dist, a.Ut, np.FromTe)
		K.PutSym(ps.Dist, b.Un, -np.ToNe)
		K.PutSym(ps.Dist, b.Ut, -np.ToTe)
		K.PutSym(ps.Dist, s.D, -1)
		K.PutSym(ps.Dist, s.Theta, -np.Le)
		K.PutSym(ps.Dir, a.Un, np.FromNp)
		K.PutSym(ps.Dir, a.Ut, np.FromTp)
		K.PutSym(ps.Dir, b.Un, -np.ToNp)
		K.PutSym(ps.Dir, b.Ut, -np.ToTp)
		K.PutSym(ps.Dir, s.Psi, -c.Distance)
		K.PutSym(ps.Dir, s.Theta, -np.Lp)
	}
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// run calls fcn(k) for k in [0, n); concurrently if Parallel is set. Every call writes to
// disjoint positions only
func (o *Lagrangian) run(n int, fcn func(k int)) {
	if !o.Parallel || n < 2 {
		for k := 0; k < n; k++ {
			fcn(k)
		}
		return
	}
	var g errgroup.Group
	for k := 0; k < n; k++ {
		k := k
		g.Go(func() error {
			fcn(k)
			return nil
		})
	}
	g.Wait()
}

func (o *Lagrangian) checkSize(r, x []float64) {
	if len(r) != o.Map.N || len(x) != o.Map.N {
		chk.Panic("vectors must have length %d. len(r)=%d, len(x)=%d", o.Map.N, len(r), len(x))
	}
}
