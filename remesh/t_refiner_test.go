// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package remesh

import (
	"math"
	"testing"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
	"github.com/cpmech/gosl/chk"
)

func Test_refiner01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("refiner01. single particle")

	st, err := sol.NewState(3, []*sol.Particle{sol.NewEllipseParticle(0, 0, 100, 1, 1, testMaterial())})
	if err != nil {
		tst.Fatalf("%v", err)
	}
	seg := 2 * math.Sin(math.Pi/100)

	// split all segments
	r := &Refiner{MaxLen: 0.9 * seg}
	fine, err := r.Remesh(st)
	if err != nil {
		tst.Errorf("Remesh failed:\n%v", err)
		return
	}
	chk.Int(tst, "nnodes", fine.Nnodes(), 200)
	chk.Int(tst, "maxid", fine.MaxNodeId(), 199)
	chk.Float64(tst, "time", 1e-15, fine.Time, 3)
	chk.Float64(tst, "area", 1e-13, fine.Area(), st.Area())
	chk.Int(tst, "first new id", fine.Particles[0].Nodes[1].Id, 100)

	// remove every other node
	r = &Refiner{MinLen: 1.1 * seg}
	coarse, err := r.Remesh(st)
	if err != nil {
		tst.Errorf("Remesh failed:\n%v", err)
		return
	}
	chk.Int(tst, "nnodes", coarse.Nnodes(), 50)

	// nothing to do
	r = &Refiner{MinLen: 0.5 * seg, MaxLen: 1.5 * seg}
	same, err := r.Remesh(st)
	if err != nil {
		tst.Errorf("Remesh failed:\n%v", err)
		return
	}
	chk.Int(tst, "nnodes", same.Nnodes(), 100)
}

func Test_refiner02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("refiner02. contact nodes are kept")

	a, b, err := sol.NewParticlePair(1, 40, 5, 0.3, testMaterial())
	if err != nil {
		tst.Fatalf("%v", err)
	}
	st, err := sol.NewState(0, []*sol.Particle{a, b})
	if err != nil {
		tst.Fatalf("%v", err)
	}
	r := &Refiner{MaxLen: 0.01}
	fine, err := r.Remesh(st)
	if err != nil {
		tst.Errorf("Remesh failed:\n%v", err)
		return
	}
	chk.Int(tst, "contact nodes", fine.NcontactNodes(), st.NcontactNodes())
	chk.Int(tst, "node pairs", len(fine.NodeContacts), len(st.NodeContacts))
	chk.Float64(tst, "drift", 1e-14, fine.Drift(), 0)
	for _, par := range fine.Particles {
		for i := range par.Nodes {
			if !par.IsGrainBoundary(i) && par.Geo[i].L > 0.01 {
				tst.Errorf("free segment after node %d is too long: %g", par.Nodes[i].Id, par.Geo[i].L)
				return
			}
		}
	}

	r = &Refiner{MinLen: 0.2}
	coarse, err := r.Remesh(st)
	if err != nil {
		tst.Errorf("Remesh failed:\n%v", err)
		return
	}
	chk.Int(tst, "contact nodes", coarse.NcontactNodes(), st.NcontactNodes())
	if coarse.Nnodes() >= st.Nnodes() {
		tst.Errorf("coarsening must remove nodes")
	}
}

func Test_refiner03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("refiner03. limits")

	_, err := NewRefiner(&inp.RemeshData{MinLen: 0.1, MaxLen: 0.15})
	if err == nil {
		tst.Errorf("maxlen < 2·minlen must fail")
	}
	_, err = NewRefiner(&inp.RemeshData{MinLen: -1})
	if err == nil {
		tst.Errorf("negative minlen must fail")
	}
	r, err := NewRefiner(&inp.RemeshData{Interval: 5, MinLen: 0.01, MaxLen: 0.2})
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "maxlen", 1e-15, r.MaxLen, 0.2)
}
