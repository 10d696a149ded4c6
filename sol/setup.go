// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sol

import (
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/cpmech/gosl/chk"
)

// NewInitialState creates the state at t=0 described by the geometry section of a run file
func NewInitialState(dat *inp.GeometryData, db *inp.MatDb) (st *State, err error) {
	if db == nil {
		return nil, chk.Err("a materials database is required to set up particles")
	}
	mat := db.Get(dat.Material)
	if mat == nil {
		return nil, chk.Err("cannot find material %q", dat.Material)
	}
	var particles []*Particle
	switch dat.Type {
	case "single":
		var p *Particle
		if dat.Amplitude > 0 {
			p = NewWavyParticle(0, 0, dat.Nnodes, dat.Radius, dat.Amplitude, dat.Waves, mat)
		} else {
			p = NewEllipseParticle(0, 0, dat.Nnodes, dat.A, dat.B, mat)
		}
		particles = []*Particle{p}
	case "pair":
		var a, b *Particle
		a, b, err = NewParticlePair(dat.Radius, dat.Nnodes, dat.Ngb, dat.NeckAngle, mat)
		if err != nil {
			return
		}
		particles = []*Particle{a, b}
	default:
		return nil, chk.Err("geometry type %q is not available. options: single, pair", dat.Type)
	}
	return NewState(0, particles)
}
