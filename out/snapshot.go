// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/geo"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
	"github.com/cpmech/gosl/chk"
)

// NodeData holds the persisted data of one node
type NodeData struct {
	Id              int     `json:"id"`
	Kind            int     `json:"kind"`
	X               float64 `json:"x"` // local coordinates
	Y               float64 `json:"y"`
	ContactNode     int     `json:"contactnode"`     // -1 if none
	ContactParticle int     `json:"contactparticle"` // -1 if none
}

// ParticleData holds the persisted data of one particle
type ParticleData struct {
	Id       int        `json:"id"`
	Cx       float64    `json:"cx"`
	Cy       float64    `json:"cy"`
	Rotation float64    `json:"rotation"`
	Material string     `json:"material"`
	Nodes    []NodeData `json:"nodes"`
}

// Snapshot holds the persisted data of a state
type Snapshot struct {
	Time      float64        `json:"time"`
	Energy    float64        `json:"energy"` // total interface energy
	Particles []ParticleData `json:"particles"`
}

// NewSnapshot converts a state
func NewSnapshot(st *sol.State) (o *Snapshot) {
	o = &Snapshot{Time: st.Time, Energy: st.Energy()}
	o.Particles = make([]ParticleData, len(st.Particles))
	for p, par := range st.Particles {
		d := &o.Particles[p]
		d.Id, d.Cx, d.Cy, d.Rotation = par.Id, par.Centre.X, par.Centre.Y, par.Rotation
		d.Material = par.Mat.Name
		d.Nodes = make([]NodeData, len(par.Nodes))
		for i, nod := range par.Nodes {
			d.Nodes[i] = NodeData{Id: nod.Id, Kind: int(nod.Kind), X: nod.X.X, Y: nod.X.Y, ContactNode: -1, ContactParticle: -1}
			if nod.HasContact() {
				d.Nodes[i].ContactNode = nod.Contact.NodeId
				d.Nodes[i].ContactParticle = nod.Contact.ParticleId
			}
		}
	}
	return
}

// State rebuilds the state. Materials are looked up in db
func (o *Snapshot) State(db *inp.MatDb) (*sol.State, error) {
	particles := make([]*sol.Particle, len(o.Particles))
	for p, d := range o.Particles {
		mat := db.Get(d.Material)
		if mat == nil {
			return nil, chk.Err("cannot find material %q of particle %d", d.Material, d.Id)
		}
		par := &sol.Particle{Id: d.Id, Centre: geo.Vec{X: d.Cx, Y: d.Cy}, Rotation: d.Rotation, Mat: mat}
		par.Nodes = make([]*sol.Node, len(d.Nodes))
		for i, n := range d.Nodes {
			nod := &sol.Node{Id: n.Id, Kind: sol.Kind(n.Kind), X: geo.Vec{X: n.X, Y: n.Y}}
			if n.ContactNode >= 0 {
				nod.Contact = &sol.Contact{NodeId: n.ContactNode, ParticleId: n.ContactParticle}
			}
			par.Nodes[i] = nod
		}
		particles[p] = par
	}
	return sol.NewState(o.Time, particles)
}
