// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/geo"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
	"gonum.org/v1/gonum/spatial/r2"
)

// ApplyStep returns the state at t+Δt obtained by moving every node by its displacement
// unknowns and every particle by the rigid-body unknowns of the tree contacts. Roots of the
// spanning forest keep their pose. Contacts are derived again from the new nodes
func ApplyStep(emap *EqMap, x []float64, Δt float64) (next *sol.State, err error) {
	st := emap.St
	if len(x) != emap.N {
		return nil, failure(InvalidStep, "unknown vector must have length %d. %d is invalid", emap.N, len(x))
	}

	// rigid-body poses in breadth-first order
	np := len(st.Particles)
	centres := make([]geo.Vec, np)
	dΘ := make([]float64, np)
	for _, q := range st.Order {
		cid := st.Parent[q]
		if cid < 0 {
			centres[q] = st.Particles[q].Centre
			continue
		}
		c := st.Contacts[cid]
		s := emap.Contacts[cid]
		d := c.Distance + x[s.D]
		if c.ToIdx == q {
			a := c.FromIdx
			dΘ[q] = dΘ[a] + x[s.Theta]
			ψ := c.Direction + dΘ[a] + x[s.Psi]
			centres[q] = r2.Add(centres[a], geo.Polar(d, ψ))
		} else {
			b := c.ToIdx
			dΘ[q] = dΘ[b] - x[s.Theta]
			ψ := c.Direction + dΘ[q] + x[s.Psi]
			centres[q] = r2.Sub(centres[b], geo.Polar(d, ψ))
		}
	}

	// nodes
	particles := make([]*sol.Particle, np)
	for p, par := range st.Particles {
		slots := emap.Nodes[p]
		q := par.Clone()
		for i, nod := range q.Nodes {
			g := &par.Geo[i]
			s := slots[i]
			u := r2.Scale(x[s.Un], g.N)
			if s.Ut >= 0 {
				u = r2.Add(u, r2.Scale(x[s.Ut], g.T))
			}
			nod.X = r2.Add(nod.X, geo.Rot(u, -par.Rotation))
			if !geo.IsFinite(nod.X) {
				return nil, failure(InvalidStep, "node %d has non-finite coordinates after step at t=%g", nod.Id, st.Time)
			}
		}
		q.Centre = centres[p]
		q.Rotation = par.Rotation + dΘ[p]
		particles[p] = q
	}
	next, err = sol.NewState(st.Time+Δt, particles)
	if err != nil {
		return nil, &Failure{Kind: InvalidStep, Msg: "cannot create state after step", Err: err}
	}
	return
}
