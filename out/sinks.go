// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"os"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
	"github.com/cpmech/gosl/chk"
)

// Sink receives every accepted state
type Sink func(st *sol.State) error

// Multi returns a sink calling all sinks in order. The first error stops the chain
func Multi(sinks ...Sink) Sink {
	return func(st *sol.State) error {
		for _, s := range sinks {
			if err := s(st); err != nil {
				return err
			}
		}
		return nil
	}
}

// Recorder stores the evolution of global quantities
type Recorder struct {
	Times      []float64   // [nsteps] times
	Energies   []float64   // [nsteps] total interface energy
	Areas      [][]float64 // [nsteps][nparticles] particle areas
	Distances  [][]float64 // [nsteps][ncontacts] distances between centres of contacting particles
	NeckWidths [][]float64 // [nsteps][ncontacts] distance between neck nodes
}

// Record appends the quantities of st
func (o *Recorder) Record(st *sol.State) error {
	o.Times = append(o.Times, st.Time)
	o.Energies = append(o.Energies, st.Energy())
	areas := make([]float64, len(st.Particles))
	for p, par := range st.Particles {
		areas[p] = par.Area
	}
	o.Areas = append(o.Areas, areas)
	dist := make([]float64, len(st.Contacts))
	necks := make([]float64, len(st.Contacts))
	for k, c := range st.Contacts {
		dist[k] = c.Distance
		necks[k] = st.NeckWidth(c)
	}
	o.Distances = append(o.Distances, dist)
	o.NeckWidths = append(o.NeckWidths, necks)
	return nil
}

// Writer saves every accepted state to its own file
type Writer struct {
	Dir     string // output directory
	Key     string // simulation key
	Enc     string // encoder type
	Verbose bool   // show messages

	tidx int // index of next state
}

// NewWriter returns a new writer and creates the output directory
func NewWriter(dir, key, enctype string, verbose bool) (o *Writer, err error) {
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return nil, chk.Err("cannot create directory for output results (%s): %v", dir, err)
	}
	return &Writer{Dir: dir, Key: key, Enc: enctype, Verbose: verbose}, nil
}

// Write saves st
func (o *Writer) Write(st *sol.State) (err error) {
	err = SaveFile(StatePath(o.Dir, o.Key, o.Enc, o.tidx), o.Enc, NewSnapshot(st), o.Verbose)
	if err != nil {
		return
	}
	o.tidx++
	return
}

// Count returns the number of states written
func (o *Writer) Count() int { return o.tidx }
