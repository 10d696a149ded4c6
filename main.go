// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/out"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/remesh"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/tep"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

// command line flags
var (
	verbose   bool
	alias     string
	timeout   string
	dirout    string
	keepPrev  bool
	enctype   string
	plotWidth int
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.Pfred("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	rootCmd := &cobra.Command{
		Use:          "refrasin",
		Short:        "solid-state sintering by the thermodynamic extremal principle",
		SilenceUsage: true,
	}

	runCmd := &cobra.Command{
		Use:   "run <file.yaml>",
		Short: "run simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show messages")
	runCmd.Flags().StringVar(&alias, "alias", "", "word to add to results")
	runCmd.Flags().StringVar(&timeout, "timeout", "", "wall-clock limit; overrides the run file")
	runCmd.Flags().StringVar(&dirout, "dirout", "", "directory for results; overrides the run file")
	runCmd.Flags().BoolVar(&keepPrev, "keep", false, "keep previous results")

	plotCmd := &cobra.Command{
		Use:   "plot <dirout> <key>",
		Short: "plot history of interface energy and step width",
		Args:  cobra.ExactArgs(2),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&enctype, "enc", "gob", "encoder type: gob or json")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "width of plots")

	matCmd := &cobra.Command{
		Use:   "materials <file.mat>",
		Short: "list materials database",
		Args:  cobra.ExactArgs(1),
		RunE:  listMaterials,
	}

	rootCmd.AddCommand(runCmd, plotCmd, matCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) (err error) {

	// message
	if verbose {
		io.Pfcyan("%s", banner(args[0]))
	}

	// input data
	sim, err := inp.ReadSim(args[0], alias, false)
	if err != nil {
		return
	}
	if verbose {
		sim.Data.Verbose = true
	}
	if dirout != "" {
		sim.DirOut = dirout
	}
	if timeout != "" {
		sim.Solver.Timeout = timeout
		err = sim.Solver.PostProcess()
		if err != nil {
			return
		}
	}
	err = erase(sim)
	if err != nil {
		return
	}

	// initial state
	st, err := sol.NewInitialState(&sim.Geometry, sim.MatParams)
	if err != nil {
		return
	}

	// services
	var rm tep.Remesher
	if sim.Remesh.Interval > 0 || containsRemesh(sim.Solver.Recovery) {
		rm, err = remesh.NewRefiner(&sim.Remesh)
		if err != nil {
			return
		}
	}
	session, err := tep.NewSession(sim, rm)
	if err != nil {
		return
	}
	writer, err := out.NewWriter(sim.DirOut, sim.Key, sim.EncType, false)
	if err != nil {
		return
	}
	err = writer.Write(st)
	if err != nil {
		return
	}

	// run
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	_, errRun := session.Run(ctx, st, writer.Write)
	err = session.Summary().Save(sim.DirOut, sim.Key, sim.EncType, sim.Data.Verbose)
	if errRun != nil {
		return errRun
	}
	if sim.Data.Verbose {
		io.Pfgreen("%d states written to %s\n", writer.Count(), sim.DirOut)
	}
	return
}

func plotRun(cmd *cobra.Command, args []string) (err error) {
	sum, err := tep.ReadSummary(args[0], args[1], enctype)
	if err != nil {
		return
	}
	if len(sum.Energies) < 2 {
		return chk.Err("summary of %q has %d accepted states; nothing to plot", args[1], len(sum.Energies))
	}
	io.Pf("%s\n\n", asciigraph.Plot(sum.Energies,
		asciigraph.Height(15),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("interface energy"),
	))
	io.Pf("%s\n\n", asciigraph.Plot(sum.Dts,
		asciigraph.Height(8),
		asciigraph.Width(plotWidth),
		asciigraph.Caption("step width"),
	))
	io.Pf("accepted = %d  rejected = %d  recovered = %d  remeshed = %d  iterations = %d\n",
		sum.Naccept, sum.Nreject, sum.Nrecover, sum.Nremesh, sum.Niter)
	if sum.Failure != "" {
		io.Pfred("run aborted: %s\n", sum.Failure)
	}
	return
}

func listMaterials(cmd *cobra.Command, args []string) (err error) {
	db, err := inp.ReadMatDb(args[0])
	if err != nil {
		return
	}
	db.Log()
	return
}

// erase creates the output directory and removes results of previous runs with the same key
func erase(sim *inp.Simulation) error {
	if keepPrev {
		return os.MkdirAll(sim.DirOut, 0777)
	}
	return inp.PrepareDirOut(sim.DirOut, sim.Key)
}

func containsRemesh(names []string) bool {
	for _, name := range names {
		if name == "remesh" {
			return true
		}
	}
	return false
}

// banner returns the start message of a run
func banner(fnamepath string) string {
	return io.Sf("\nRefraSin -- solid-state sintering by the thermodynamic extremal principle\ninput file = %s\n\n", fnamepath)
}
