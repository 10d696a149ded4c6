// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sol

import (
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/geo"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/spatial/r2"
)

// Particle holds one particle: rigid-body pose, material and node ring (counter-clockwise)
type Particle struct {
	Id       int       // unique id
	Centre   geo.Vec   // centre position
	Rotation float64   // rotation angle of particle frame
	Mat      *Material // material parameters
	Nodes    []*Node   // ring of nodes

	// derived
	Geo  []NodeGeo // [nnodes] geometry of nodes
	Area float64   // enclosed area
}

// Material is the material database entry used by particles
type Material = inp.Material

// Global returns the global position of a point given in the particle frame
func (o *Particle) Global(x geo.Vec) geo.Vec {
	return r2.Add(o.Centre, geo.Rot(x, o.Rotation))
}

// Local returns the particle-frame coordinates of a global point
func (o *Particle) Local(p geo.Vec) geo.Vec {
	return geo.Rot(r2.Sub(p, o.Centre), -o.Rotation)
}

// Ring returns the global node positions
func (o *Particle) Ring() (ring []geo.Vec) {
	ring = make([]geo.Vec, len(o.Nodes))
	for i, nod := range o.Nodes {
		ring[i] = o.Global(nod.X)
	}
	return
}

// Up returns the index of the upper neighbour of node i
func (o *Particle) Up(i int) int { return geo.Up(i, len(o.Nodes)) }

// Lo returns the index of the lower neighbour of node i
func (o *Particle) Lo(i int) int { return geo.Lo(i, len(o.Nodes)) }

// IsGrainBoundary tells whether the segment from node i to its upper neighbour lies on a grain
// boundary; i.e. both ends touch the same particle
func (o *Particle) IsGrainBoundary(i int) bool {
	a, b := o.Nodes[i], o.Nodes[o.Up(i)]
	return a.HasContact() && b.HasContact() && a.Contact.ParticleId == b.Contact.ParticleId
}

// Energies returns the interface energy of each segment. Grain boundaries carry half of
// their energy on each side
func (o *Particle) Energies() (γ []float64) {
	γ = make([]float64, len(o.Nodes))
	for i := range o.Nodes {
		if o.IsGrainBoundary(i) {
			γ[i] = o.Mat.GrainBoundaryEnergy / 2
		} else {
			γ[i] = o.Mat.SurfaceEnergy
		}
	}
	return
}

// Energy returns the total interface energy of the particle
func (o *Particle) Energy() (e float64) {
	for _, g := range o.Geo {
		e += g.Gamma * g.L
	}
	return
}

// update computes the derived geometry
func (o *Particle) update() (err error) {
	n := len(o.Nodes)
	if n < 3 {
		return chk.Err("particle %d must have at least 3 nodes. %d is invalid", o.Id, n)
	}
	if o.Mat == nil {
		return chk.Err("particle %d has no material", o.Id)
	}
	ring := o.Ring()
	γ := o.Energies()
	lens := geo.Lengths(ring)
	o.Area = geo.Area(ring)
	if o.Area <= 0 {
		return chk.Err("particle %d: nodes must be given counter-clockwise and enclose a positive area. A=%g", o.Id, o.Area)
	}
	o.Geo = make([]NodeGeo, n)
	for i := range o.Nodes {
		g := &o.Geo[i]
		g.Pos = ring[i]
		g.N, g.T = geo.Frame(ring, i)
		g.L = lens[i]
		g.Lbar = (lens[i] + lens[o.Lo(i)]) / 2
		g.Gamma = γ[i]
		g.GB = o.IsGrainBoundary(i)
		dE := geo.EnergyGradient(ring, γ, i)
		dA := geo.AreaGradient(ring, i)
		g.Gn, g.Gt = r2.Dot(dE, g.N), r2.Dot(dE, g.T)
		g.Vn, g.Vt = r2.Dot(dA, g.N), r2.Dot(dA, g.T)
		g.SurfAngle = geo.SurfaceRadiusAngle(ring, o.Centre, i)
	}
	return
}

// clone returns a copy with the same pose; local coordinates may be replaced through newx
func (o *Particle) clone(newx func(i int, nod *Node) geo.Vec) *Particle {
	p := &Particle{Id: o.Id, Centre: o.Centre, Rotation: o.Rotation, Mat: o.Mat}
	p.Nodes = make([]*Node, len(o.Nodes))
	for i, nod := range o.Nodes {
		x := nod.X
		if newx != nil {
			x = newx(i, nod)
		}
		p.Nodes[i] = nod.clone(x)
	}
	return p
}

// Clone returns a deep copy of the authored data (pose, material and nodes)
func (o *Particle) Clone() *Particle {
	return o.clone(nil)
}
