// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep_test

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/out"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/tep"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("a single isolated particle", func() {

	It("reduces its interface energy at every accepted step and reaches the end time", func() {
		sim := simulation(20, 1, 0.1, 4)
		st := ellipse(1e-8)
		session, err := tep.NewSession(sim, nil)
		Expect(err).NotTo(HaveOccurred())

		var rec out.Recorder
		last, err := session.Run(context.Background(), st, rec.Record)
		Expect(err).NotTo(HaveOccurred())
		Expect(last.Time).To(BeNumerically("~", 20, 1e-9))
		Expect(rec.Times).NotTo(BeEmpty())
		Expect(session.Summary().Naccept).To(Equal(len(rec.Times)))

		prev := st.Energy()
		for k, e := range rec.Energies {
			Expect(e).To(BeNumerically("<=", prev+1e-12*prev), "step %d", k)
			prev = e
		}
		Expect(prev).To(BeNumerically("<", st.Energy()))

		// area is kept
		Expect(last.Area()).To(BeNumerically("~", st.Area(), 1e-6*st.Area()))
	})

	It("grows the step width after three successes", func() {
		sim := simulation(20, 1, 0.1, 4)
		session, err := tep.NewSession(sim, nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = session.Run(context.Background(), ellipse(1e-8), nil)
		Expect(err).NotTo(HaveOccurred())
		dts := session.Summary().Dts
		Expect(len(dts)).To(BeNumerically(">", 4))
		Expect(dts[:4]).To(Equal([]float64{1, 1, 1, 2}))
	})
})

var _ = Describe("two particles in contact", func() {

	It("grows the neck while the centres approach", func() {
		sim := simulation(300, 100, 1, 100)
		st := pair(1e-8)
		session, err := tep.NewSession(sim, nil)
		Expect(err).NotTo(HaveOccurred())

		var rec out.Recorder
		Expect(rec.Record(st)).To(Succeed())
		_, err = session.Run(context.Background(), st, rec.Record)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(rec.Times)).To(BeNumerically(">=", 3))
		for k := 1; k < len(rec.Times); k++ {
			Expect(rec.NeckWidths[k][0]).To(BeNumerically(">", rec.NeckWidths[k-1][0]), "step %d", k)
			Expect(rec.Distances[k][0]).To(BeNumerically("<", rec.Distances[k-1][0]), "step %d", k)
		}
	})

	It("conserves volume and closes the dissipation balance", func() {
		sim := simulation(100, 10, 1, 100)
		stp, err := tep.NewStepper(&sim.Solver, &sim.Process, nil, false)
		Expect(err).NotTo(HaveOccurred())
		st := pair(1e-8)
		_, err = stp.Step(context.Background(), st, 100)
		Expect(err).NotTo(HaveOccurred())

		prev := stp.Previous()
		Expect(prev).NotTo(BeNil())
		lag, err := tep.NewLagrangian(prev.Map.St, prev.Map, prev.Dt, &sim.Process, false)
		Expect(err).NotTo(HaveOccurred())

		var jmax float64
		for p := range st.Particles {
			for _, s := range prev.Map.Nodes[p] {
				jmax = math.Max(jmax, math.Abs(prev.X[s.J]))
			}
		}
		for p, par := range st.Particles {
			for i := range par.Nodes {
				Expect(lag.VolumeBalance(sol.NodeRef{P: p, I: i}, prev.X)).To(BeNumerically("~", 0, 1e-8*jmax))
			}
		}
		gdot, q := lag.Rates(prev.X)
		Expect(q).To(BeNumerically(">", 0))
		Expect(gdot + q).To(BeNumerically("~", 0, 1e-6*q))
	})

	It("keeps touching nodes together after a step", func() {
		sim := simulation(100, 10, 1, 100)
		sim.Solver.Sanitize = false
		stp, err := tep.NewStepper(&sim.Solver, &sim.Process, nil, false)
		Expect(err).NotTo(HaveOccurred())
		next, err := stp.Step(context.Background(), pair(1e-8), 100)
		Expect(err).NotTo(HaveOccurred())
		Expect(next.Drift()).To(BeNumerically("<", 1e-6))
	})
})

var _ = Describe("a cluster with a cycle of contacts", func() {

	It("solves a step consistently around the cycle", func() {
		sim := simulation(10, 10, 1, 10)
		sim.Solver.Sanitize = false
		stp, err := tep.NewStepper(&sim.Solver, &sim.Process, nil, false)
		Expect(err).NotTo(HaveOccurred())
		st := triangle(1e-8)
		next, err := stp.Step(context.Background(), st, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(next.Time).To(BeNumerically("~", 10, 1e-12))
		Expect(next.Contacts).To(HaveLen(3))
		Expect(next.Drift()).To(BeNumerically("<", 1e-6))
	})
})

var _ = Describe("fatal failures", func() {

	It("aborts on cancellation without reporting", func() {
		sim := simulation(20, 1, 0.1, 4)
		session, err := tep.NewSession(sim, nil)
		Expect(err).NotTo(HaveOccurred())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		st := ellipse(1e-8)
		ncalls := 0
		last, err := session.Run(ctx, st, func(*sol.State) error { ncalls++; return nil })
		var fatal *tep.FatalError
		Expect(errors.As(err, &fatal)).To(BeTrue())
		Expect(fatal.Kind).To(Equal(tep.Canceled))
		Expect(fatal.LastTime).To(Equal(0.0))
		Expect(last).To(BeIdenticalTo(st))
		Expect(ncalls).To(Equal(0))
	})

	It("aborts when the deadline has passed", func() {
		sim := simulation(20, 1, 0.1, 4)
		session, err := tep.NewSession(sim, nil)
		Expect(err).NotTo(HaveOccurred())
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()
		_, err = session.Run(ctx, ellipse(1e-8), nil)
		Expect(errors.Is(err, tep.ErrTimeout)).To(BeTrue())
	})

	It("aborts when the step width is exhausted, after routing through recovery", func() {
		sim := simulation(20, 1, 0.1, 4)
		sim.Solver.NmaxIt = 0
		sim.Solver.Recovery = []string{"smooth"}
		session, err := tep.NewSession(sim, nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = session.Run(context.Background(), ellipse(1e-8), nil)
		Expect(errors.Is(err, tep.ErrStepWidthExhausted)).To(BeTrue())
		Expect(errors.Is(err, tep.ErrNotConverged)).To(BeTrue())
		var fatal *tep.FatalError
		Expect(errors.As(err, &fatal)).To(BeTrue())
		Expect(fatal.Kind).To(Equal(tep.StepWidthExhausted))

		sum := session.Summary()
		Expect(sum.Nreject).To(Equal(4))
		Expect(sum.Nrecover).To(Equal(2))
		Expect(sum.Naccept).To(Equal(0))
		Expect(sum.Failure).NotTo(BeEmpty())
	})
})
