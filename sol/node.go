// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sol implements the solution state: particles, surface nodes and contacts at one instant
package sol

import "github.com/Institute-of-Metal-Forming/refrasin-sub000/geo"

// Kind defines the kind of surface node
type Kind int

// node kinds
const (
	Surface       Kind = iota // free surface
	Neck                      // edge of a contact patch
	GrainBoundary             // interior of a contact patch
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case Surface:
		return "surface"
	case Neck:
		return "neck"
	case GrainBoundary:
		return "grainboundary"
	}
	return "unknown"
}

// Contact references the node touched on another particle
type Contact struct {
	NodeId     int // id of contacted node
	ParticleId int // id of particle owning the contacted node
}

// Node holds a surface discretisation point
type Node struct {
	Id      int      // unique id within a state
	Kind    Kind     // kind of node
	X       geo.Vec  // coordinates in the particle frame
	Contact *Contact // contacted node. nil for Surface nodes
}

// HasContact tells whether the node touches another particle
func (o *Node) HasContact() bool {
	return o.Contact != nil
}

// clone returns a copy of node with new local coordinates
func (o *Node) clone(x geo.Vec) *Node {
	n := &Node{Id: o.Id, Kind: o.Kind, X: x}
	if o.Contact != nil {
		c := *o.Contact
		n.Contact = &c
	}
	return n
}

// NodeGeo holds the geometric quantities of one node, in the global frame
type NodeGeo struct {
	Pos       geo.Vec // position
	N, T      geo.Vec // outward normal and tangent (towards upper neighbour)
	L         float64 // length of upper segment
	Lbar      float64 // mean length of both adjacent segments
	Gamma     float64 // interface energy of upper segment
	GB        bool    // upper segment is a grain boundary
	Gn, Gt    float64 // normal and tangential components of the interface energy gradient
	Vn, Vt    float64 // normal and tangential components of the area gradient
	SurfAngle float64 // angle between radius vector and normal
}
