// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package remesh implements the revision of particle node rings between groups of time steps
package remesh

import (
	"math"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/geo"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/spatial/r2"
)

// Refiner splits long free-surface segments and removes free-surface nodes between short
// segments. Contact nodes are never touched
type Refiner struct {
	MinLen float64 // nodes whose both segments are shorter than MinLen are removed; 0 => never
	MaxLen float64 // segments longer than MaxLen are split; 0 => never
}

// NewRefiner returns a refiner set up from the remesh data
func NewRefiner(dat *inp.RemeshData) (o *Refiner, err error) {
	if dat.MinLen < 0 || dat.MaxLen < 0 {
		return nil, chk.Err("segment length limits must not be negative. minlen=%g, maxlen=%g", dat.MinLen, dat.MaxLen)
	}
	if dat.MaxLen > 0 && dat.MinLen*2 >= dat.MaxLen {
		return nil, chk.Err("maxlen must be larger than twice minlen. minlen=%g, maxlen=%g", dat.MinLen, dat.MaxLen)
	}
	return &Refiner{MinLen: dat.MinLen, MaxLen: dat.MaxLen}, nil
}

// Remesh returns a state with revised node rings. New nodes get ids after the largest id of st
func (o *Refiner) Remesh(st *sol.State) (*sol.State, error) {
	nextId := st.MaxNodeId() + 1
	particles := make([]*sol.Particle, len(st.Particles))
	for p, par := range st.Particles {
		q := par.Clone()
		q.Nodes = o.coarsen(par, q.Nodes)
		q.Nodes, nextId = o.refine(par, q.Nodes, nextId)
		particles[p] = q
	}
	return sol.NewState(st.Time, particles)
}

// coarsen removes free-surface nodes whose adjacent segments are both shorter than MinLen.
// Neighbours of a removed node are kept in the same pass
func (o *Refiner) coarsen(par *sol.Particle, nodes []*sol.Node) (res []*sol.Node) {
	n := len(nodes)
	if o.MinLen <= 0 || n <= 3 {
		return nodes
	}
	removed := make([]bool, n)
	nremoved := 0
	for i, nod := range nodes {
		if nod.Kind != sol.Surface || n-nremoved <= 3 {
			continue
		}
		lo := par.Lo(i)
		if removed[lo] || (i == n-1 && removed[0]) {
			continue
		}
		if par.Geo[i].L < o.MinLen && par.Geo[lo].L < o.MinLen {
			removed[i] = true
			nremoved++
		}
	}
	res = make([]*sol.Node, 0, n-nremoved)
	for i, nod := range nodes {
		if !removed[i] {
			res = append(res, nod)
		}
	}
	return
}

// refine splits every free-surface segment longer than MaxLen into equal parts
func (o *Refiner) refine(par *sol.Particle, nodes []*sol.Node, nextId int) (res []*sol.Node, next int) {
	next = nextId
	if o.MaxLen <= 0 {
		return nodes, next
	}
	n := len(nodes)
	res = make([]*sol.Node, 0, n)
	for i, a := range nodes {
		res = append(res, a)
		b := nodes[geo.Up(i, n)]
		if a.HasContact() && b.HasContact() && a.Contact.ParticleId == b.Contact.ParticleId {
			continue // grain boundary
		}
		nparts := int(math.Ceil(geo.Dist(a.X, b.X) / o.MaxLen))
		for k := 1; k < nparts; k++ {
			s := float64(k) / float64(nparts)
			res = append(res, &sol.Node{Id: next, Kind: sol.Surface, X: r2.Add(a.X, r2.Scale(s, r2.Sub(b.X, a.X)))})
			next++
		}
	}
	return
}
