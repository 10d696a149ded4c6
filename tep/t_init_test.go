// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"context"
	"math"
	"testing"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/geo"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// testMaterial returns a material with diffusion coefficient and mobility D
func testMaterial(D float64) *inp.Material {
	return &inp.Material{
		Name:                   "test",
		SurfaceEnergy:          1,
		GrainBoundaryEnergy:    0.5,
		SurfaceDiffusion:       D,
		GrainBoundaryDiffusion: D,
		InterfaceMobility:      D,
		MolarVolume:            1,
		VacancyConcentration:   1,
	}
}

// testProcess returns unit process conditions
func testProcess(duration float64) *inp.ProcessData {
	return &inp.ProcessData{Temperature: 1, GasConstant: 1, Duration: duration}
}

// testSolver returns default solver data with the given step width bounds and no recovery
func testSolver(dtini, dtmin, dtmax float64) *inp.SolverData {
	var prms inp.SolverData
	prms.SetDefault()
	prms.DtIni, prms.DtMin, prms.DtMax = dtini, dtmin, dtmax
	prms.Recovery = nil
	if err := prms.PostProcess(); err != nil {
		chk.Panic("%v", err)
	}
	return &prms
}

func ellipseState(tst *testing.T, D float64) *sol.State {
	st, err := sol.NewState(0, []*sol.Particle{sol.NewEllipseParticle(0, 0, 100, 1.2, 0.8, testMaterial(D))})
	if err != nil {
		tst.Fatalf("NewState failed:\n%v", err)
	}
	return st
}

func pairState(tst *testing.T, D float64) *sol.State {
	a, b, err := sol.NewParticlePair(1, 40, 5, 0.3, testMaterial(D))
	if err != nil {
		tst.Fatalf("NewParticlePair failed:\n%v", err)
	}
	st, err := sol.NewState(0, []*sol.Particle{a, b})
	if err != nil {
		tst.Fatalf("NewState failed:\n%v", err)
	}
	return st
}

func triangleState(tst *testing.T, D float64) *sol.State {
	d := 2 * math.Cos(0.3)
	centres := []geo.Vec{{X: 0, Y: 0}, {X: d, Y: 0}, {X: d / 2, Y: d * math.Sqrt(3) / 2}}
	ps, err := sol.NewCluster(1, centres, [][2]int{{0, 1}, {1, 2}, {0, 2}}, 24, 2, testMaterial(D))
	if err != nil {
		tst.Fatalf("NewCluster failed:\n%v", err)
	}
	st, err := sol.NewState(0, ps)
	if err != nil {
		tst.Fatalf("NewState failed:\n%v", err)
	}
	return st
}

// solveStep assembles and solves one step with Newton's method
func solveStep(tst *testing.T, st *sol.State, Δt float64, prms *inp.SolverData) (lag *Lagrangian, x []float64) {
	emap := NewEqMap(st)
	lag, err := NewLagrangian(st, emap, Δt, testProcess(1), false)
	if err != nil {
		tst.Fatalf("NewLagrangian failed:\n%v", err)
	}
	x = lag.Guess(nil)
	ls := LinSol{CondMax: prms.CondMax}
	err = lag.Predict(x, &ls)
	if err != nil {
		tst.Fatalf("Predict failed:\n%v", err)
	}
	nr := &Newton{Prms: prms}
	_, err = nr.Solve(context.Background(), lag, x, st.Time)
	if err != nil {
		tst.Fatalf("Newton failed:\n%v", err)
	}
	return
}
