// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"sort"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
)

// term is one coefficient of a linear form
type term struct {
	slot int
	coef float64
}

// form is a linear combination of unknowns, sorted by position
type form []term

// combine returns Σ s_k·f_k
func combine(scales []float64, forms ...form) (res form) {
	acc := make(map[int]float64)
	for k, f := range forms {
		for _, t := range f {
			acc[t.slot] += scales[k] * t.coef
		}
	}
	res = make(form, 0, len(acc))
	for slot, c := range acc {
		if c != 0 {
			res = append(res, term{slot, c})
		}
	}
	sort.Slice(res, func(a, b int) bool { return res[a].slot < res[b].slot })
	return
}

// eval returns the value of the form at x
func (o form) eval(x []float64) (v float64) {
	for _, t := range o {
		v += t.coef * x[t.slot]
	}
	return
}

// poseForm holds the linearised increments of a particle pose: rotation and centre position
type poseForm struct {
	th, x, y form
}

// closure holds the three closure constraints of a contact that closes a cycle
type closure struct {
	contact int     // index of contact
	slots   [3]int  // positions of the multipliers (x, y, rotation)
	z       [3]form // constraint forms
}

// treePoses expresses the pose increment of every particle as a linear form of the rigid-body
// unknowns of the tree contacts. Roots of the spanning forest do not move
func treePoses(st *sol.State, emap *EqMap) (poses []poseForm) {
	poses = make([]poseForm, len(st.Particles))
	for _, q := range st.Order {
		cid := st.Parent[q]
		if cid < 0 {
			continue
		}
		c := st.Contacts[cid]
		s := emap.Contacts[cid]
		d := c.Distance
		dd := form{{s.D, 1}}
		dψ := form{{s.Psi, 1}}
		dθ := form{{s.Theta, 1}}
		if c.ToIdx == q {
			// child is "to": X_B = X_A + δΘ_A·d·e⊥ + δd·e + d·δψ·e⊥
			a := poses[c.FromIdx]
			poses[q].th = combine([]float64{1, 1}, a.th, dθ)
			poses[q].x = combine([]float64{1, d * c.Ep.X, c.E.X, d * c.Ep.X}, a.x, a.th, dd, dψ)
			poses[q].y = combine([]float64{1, d * c.Ep.Y, c.E.Y, d * c.Ep.Y}, a.y, a.th, dd, dψ)
		} else {
			// child is "from": δΘ_A = δΘ_B - δθ; X_A = X_B - δΘ_A·d·e⊥ - δd·e - d·δψ·e⊥
			b := poses[c.ToIdx]
			th := combine([]float64{1, -1}, b.th, dθ)
			poses[q].th = th
			poses[q].x = combine([]float64{1, -d * c.Ep.X, -c.E.X, -d * c.Ep.X}, b.x, th, dd, dψ)
			poses[q].y = combine([]float64{1, -d * c.Ep.Y, -c.E.Y, -d * c.Ep.Y}, b.y, th, dd, dψ)
		}
	}
	return
}

// closures returns the closure constraints of all contacts outside the spanning forest
func closures(st *sol.State, emap *EqMap) (res []closure) {
	var poses []poseForm
	for _, c := range st.Contacts {
		if c.IsTree {
			continue
		}
		if poses == nil {
			poses = treePoses(st, emap)
		}
		s := emap.Contacts[c.Id]
		a, b := poses[c.FromIdx], poses[c.ToIdx]
		d := c.Distance
		dd := form{{s.D, 1}}
		dψ := form{{s.Psi, 1}}
		dθ := form{{s.Theta, 1}}
		var z closure
		z.contact = c.Id
		z.slots = [3]int{s.Cx, s.Cy, s.Crot}
		z.z[0] = combine([]float64{1, -1, -d * c.Ep.X, -c.E.X, -d * c.Ep.X}, b.x, a.x, a.th, dd, dψ)
		z.z[1] = combine([]float64{1, -1, -d * c.Ep.Y, -c.E.Y, -d * c.Ep.Y}, b.y, a.y, a.th, dd, dψ)
		z.z[2] = combine([]float64{1, -1, -1}, b.th, a.th, dθ)
		res = append(res, z)
	}
	return
}
