// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import "math"

// Solution holds an accepted unknown vector together with its numbering
type Solution struct {
	Map *EqMap    // numbering of X
	X   []float64 // unknowns
	Dt  float64   // step width
}

// Guess returns an initial unknown vector: explicit local estimates of flux and normal
// displacement from the current curvatures, λD = 1, and the values of the previous accepted step
// (rescaled to the new step width) for all contact unknowns still present. Other unknowns are zero
func (o *Lagrangian) Guess(prev *Solution) (x []float64) {
	x = make([]float64, o.Map.N)
	x[o.Map.LamD] = 1
	for p, par := range o.St.Particles {
		slots := o.Map.Nodes[p]
		n := len(par.Nodes)

		// λV = -2κ where κ = Gn/Vn is the chemical potential of the node
		κ := make([]float64, n)
		for i := range par.Nodes {
			g := &par.Geo[i]
			if math.Abs(g.Vn) > 1e-14*g.Lbar {
				κ[i] = g.Gn / g.Vn
			}
			x[slots[i].LamV] = -2 * κ[i]
		}

		// j from the flux row with λD = 1
		for i := range par.Nodes {
			x[slots[i].J] = (κ[par.Up(i)] - κ[i]) / o.cj[p][i]
		}

		// un from the volume balance without tangential displacement
		for i := range par.Nodes {
			g := &par.Geo[i]
			if math.Abs(g.Vn) > 1e-14*g.Lbar {
				x[slots[i].Un] = (x[slots[i].J] - x[slots[par.Lo(i)].J]) / g.Vn
			}
		}
	}
	if prev != nil {
		transfer(x, o.Map, prev, o.Dt, func(id int, key Key) bool {
			if key.IsNodeKey() {
				nod := o.St.Node(id)
				return nod != nil && nod.HasContact()
			}
			return key != Dissipation
		})
	}
	return
}

// transfer copies the values of prev into x for the unknowns selected by use. Displacements and
// fluxes are rescaled by Δt/prev.Dt. Contacts are matched by their particle ids and node
// contact pairs by their node ids
func transfer(x []float64, emap *EqMap, prev *Solution, Δt float64, use func(id int, key Key) bool) {
	ratio := Δt / prev.Dt
	for slot := 0; slot < emap.N; slot++ {
		id, key := emap.Entry(slot)
		if use != nil && !use(id, key) {
			continue
		}
		pid := id
		if key.IsContactKey() {
			c := emap.St.Contacts[id]
			pc := prev.Map.St.ContactBetween(c.From, c.To)
			if pc == nil || pc.From != c.From {
				continue
			}
			pid = pc.Id
		}
		k, err := prev.Map.Index(pid, key)
		if err != nil {
			continue
		}
		v := prev.X[k]
		if key.IsRate() {
			v *= ratio
		}
		x[slot] = v
	}
}

// AdamsMoulton averages x with the previous accepted solution, matched by entity and key
func AdamsMoulton(x []float64, emap *EqMap, prev *Solution, Δt float64) {
	old := make([]float64, len(x))
	copy(old, x)
	transfer(old, emap, prev, Δt, nil)
	for i := range x {
		x[i] = 0.5 * (x[i] + old[i])
	}
}

// Predict replaces x by the stationary point of L with λD frozen at 1. All other conditions are
// affine in the remaining unknowns, hence one linear solve suffices
func (o *Lagrangian) Predict(x []float64, ls *LinSol) (err error) {
	n := o.Map.N
	d := o.Map.LamD
	x[d] = 1
	r := make([]float64, n)
	err = o.Residual(r, x)
	if err != nil {
		return
	}
	K := o.NewJacobian()
	err = o.Jacobian(K, x)
	if err != nil {
		return
	}
	err = ls.Fact(K.Filter(d, 1))
	if err != nil {
		return
	}
	for i := range r {
		r[i] = -r[i]
	}
	r[d] = 0
	δ := make([]float64, n)
	err = ls.Solve(δ, r)
	if err != nil {
		return
	}
	for i := range x {
		x[i] += δ[i]
	}
	return
}
