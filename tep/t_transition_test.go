// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"errors"
	"math"
	"testing"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/geo"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/spatial/r2"
)

func Test_transition01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("transition01. zero vector and rigid-body unknowns")

	st := pairState(tst, 1)
	emap := NewEqMap(st)
	x := make([]float64, emap.N)

	// nothing moves
	next, err := ApplyStep(emap, x, 0.5)
	if err != nil {
		tst.Errorf("ApplyStep failed:\n%v", err)
		return
	}
	chk.Float64(tst, "time", 1e-15, next.Time, 0.5)
	chk.Float64(tst, "energy", 1e-14, next.Energy(), st.Energy())
	chk.Int(tst, "ncontacts", len(next.Contacts), 1)

	// approach, rotate the line of centres and the second particle
	s := emap.Contacts[0]
	x[s.D], x[s.Psi], x[s.Theta] = -0.01, 0.02, 0.03
	next, err = ApplyStep(emap, x, 0.5)
	if err != nil {
		tst.Errorf("ApplyStep failed:\n%v", err)
		return
	}
	c, d := st.Contacts[0], next.Contacts[0]
	chk.Float64(tst, "δd", 1e-14, d.Distance-c.Distance, -0.01)
	chk.Float64(tst, "δψ", 1e-14, d.Direction-c.Direction, 0.02)
	a, b := next.Particles[0], next.Particles[1]
	chk.Float64(tst, "root fixed x", 1e-15, a.Centre.X, 0)
	chk.Float64(tst, "root fixed θ", 1e-15, a.Rotation, 0)
	chk.Float64(tst, "δθ", 1e-15, b.Rotation, 0.03)

	// the shape of each particle is kept
	chk.Float64(tst, "area a", 1e-14, a.Area, st.Particles[0].Area)
	chk.Float64(tst, "area b", 1e-14, b.Area, st.Particles[1].Area)

	// wrong size
	_, err = ApplyStep(emap, x[1:], 0.5)
	if !errors.Is(err, ErrInvalidStep) {
		tst.Errorf("wrong size must be an invalid step. err = %v", err)
	}
}

func Test_transition02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("transition02. node displacements")

	st := ellipseState(tst, 1)
	emap := NewEqMap(st)
	x := make([]float64, emap.N)
	par := st.Particles[0]
	for i := range par.Nodes {
		x[emap.Nodes[0][i].Un] = 1e-3
	}
	next, err := ApplyStep(emap, x, 1)
	if err != nil {
		tst.Errorf("ApplyStep failed:\n%v", err)
		return
	}
	for i, g := range next.Particles[0].Geo {
		old := par.Geo[i]
		u := r2.Sub(g.Pos, old.Pos)
		chk.Float64(tst, io.Sf("un%d", i), 1e-15, r2.Dot(u, old.N), 1e-3)
		chk.Float64(tst, io.Sf("ut%d", i), 1e-15, r2.Dot(u, old.T), 0)
	}

	// area grows by ≈ Σ Vn·un
	var dA float64
	for _, g := range par.Geo {
		dA += g.Vn * 1e-3
	}
	chk.Float64(tst, "ΔA", 1e-5, next.Area()-st.Area(), dA)

	// non-finite displacement
	x[emap.Nodes[0][0].Un] = math.Inf(1)
	_, err = ApplyStep(emap, x, 1)
	if !errors.Is(err, ErrInvalidStep) {
		tst.Errorf("non-finite displacement must be an invalid step. err = %v", err)
	}
}

func Test_validators01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("validators01")

	st := ellipseState(tst, 1)
	emap := NewEqMap(st)
	x := make([]float64, emap.N)
	x[emap.Nodes[0][10].Un] = 0.02
	next, err := ApplyStep(emap, x, 1)
	if err != nil {
		tst.Errorf("ApplyStep failed:\n%v", err)
		return
	}
	if err = (VolumeValidator{}).Validate(st, next); err != nil {
		tst.Errorf("valid state rejected: %v", err)
	}
	if err = (SurfaceAngleValidator{MaxAngle: 0.5}).Validate(st, next); err != nil {
		tst.Errorf("small change rejected: %v", err)
	}
	err = (SurfaceAngleValidator{MaxAngle: 1e-3}).Validate(st, next)
	if !errors.Is(err, ErrInvalidStep) {
		tst.Errorf("large change must be rejected. err = %v", err)
	}
	if math.Abs(geo.NormAngle(next.Particles[0].Geo[9].SurfAngle-st.Particles[0].Geo[9].SurfAngle)) < 1e-3 {
		tst.Errorf("neighbour of moved node must have rotated its surface")
	}
}
