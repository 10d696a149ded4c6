// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sol

import (
	"math"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/geo"
	"gonum.org/v1/gonum/spatial/r2"
)

// NodeRef locates a node within a state
type NodeRef struct {
	P int // index of particle
	I int // index of node in particle ring
}

// ContactPair holds the contact between two particles. The pair is oriented from the particle
// coming first in the state to the later one
type ContactPair struct {
	Id            int     // index of contact in state
	From, To      int     // particle ids
	FromIdx       int     // index of "from" particle
	ToIdx         int     // index of "to" particle
	Distance      float64 // distance between centres
	Direction     float64 // global angle of the line from "from" to "to" centre
	DirectionFrom float64 // Direction seen from the frame of "from"
	DirectionTo   float64 // direction to "from" seen from the frame of "to"
	E, Ep         geo.Vec // unit vector along the centre line and its +90° rotation
	NodePairs     []int   // indices of node contact pairs
	IsTree        bool    // contact belongs to the spanning forest
}

// NodeContactPair holds two touching nodes
type NodeContactPair struct {
	Contact      int     // index of contact pair
	From, To     NodeRef // node on "from" and node on "to" particle
	FromId, ToId int     // node ids

	// projections of the contact axes e and e⊥ on both node frames
	FromNe, FromTe, FromNp, FromTp float64
	ToNe, ToTe, ToNp, ToTp         float64

	// e·perp(r) and e⊥·perp(r) where r goes from the centre of "to" to its node
	Le, Lp float64
}

// setGeometry computes the derived geometry of a contact and its node pairs
func (o *ContactPair) setGeometry(a, b *Particle, pairs []*NodeContactPair) {
	r := r2.Sub(b.Centre, a.Centre)
	o.Distance = r2.Norm(r)
	o.Direction = geo.Angle(r)
	o.DirectionFrom = geo.NormAngle(o.Direction - a.Rotation)
	o.DirectionTo = geo.NormAngle(o.Direction + math.Pi - b.Rotation)
	o.E = r2.Unit(r)
	o.Ep = geo.Perp(o.E)
	for _, k := range o.NodePairs {
		np := pairs[k]
		ga, gb := a.Geo[np.From.I], b.Geo[np.To.I]
		np.FromNe, np.FromTe = r2.Dot(ga.N, o.E), r2.Dot(ga.T, o.E)
		np.FromNp, np.FromTp = r2.Dot(ga.N, o.Ep), r2.Dot(ga.T, o.Ep)
		np.ToNe, np.ToTe = r2.Dot(gb.N, o.E), r2.Dot(gb.T, o.E)
		np.ToNp, np.ToTp = r2.Dot(gb.N, o.Ep), r2.Dot(gb.T, o.Ep)
		lever := geo.Perp(r2.Sub(gb.Pos, b.Centre))
		np.Le, np.Lp = r2.Dot(o.E, lever), r2.Dot(o.Ep, lever)
	}
}
