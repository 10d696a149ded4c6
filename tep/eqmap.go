// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Key defines the kind of unknown
type Key int

// unknown kinds
const (
	Dissipation    Key = iota // λD: dissipation-equality multiplier (global)
	NormalDisp                // un: normal displacement (node)
	TangentialDisp            // ut: tangential displacement (contact node)
	Flux                      // j: flux towards upper neighbour (node)
	VolumeMult                // λV: volume-constraint multiplier (node)
	RadialDisp                // δd: change of centre distance (contact)
	AngularDisp               // δψ: change of contact direction (contact)
	RotationalDisp            // δθ: relative rotation (contact)
	DistanceMult              // λd: distance-constraint multiplier (node contact pair)
	DirectionMult             // λψ: direction-constraint multiplier (node contact pair)
	ClosureX                  // cycle-closure multiplier, x (non-tree contact)
	ClosureY                  // cycle-closure multiplier, y (non-tree contact)
	ClosureRot                // cycle-closure multiplier, rotation (non-tree contact)
)

var keyNames = []string{"λD", "un", "ut", "j", "λV", "δd", "δψ", "δθ", "λd", "λψ", "λX", "λY", "λθ"}

// String returns the symbol of the key
func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "?"
	}
	return keyNames[k]
}

// IsNodeKey tells whether the key belongs to a node
func (k Key) IsNodeKey() bool { return k >= NormalDisp && k <= VolumeMult }

// IsContactKey tells whether the key belongs to a particle contact
func (k Key) IsContactKey() bool {
	return (k >= RadialDisp && k <= RotationalDisp) || (k >= ClosureX && k <= ClosureRot)
}

// IsPairKey tells whether the key belongs to a node contact pair
func (k Key) IsPairKey() bool { return k == DistanceMult || k == DirectionMult }

// IsRate tells whether the unknown is a displacement or a flux; i.e. proportional to Δt
func (k Key) IsRate() bool {
	switch k {
	case NormalDisp, TangentialDisp, Flux, RadialDisp, AngularDisp, RotationalDisp:
		return true
	}
	return false
}

// NodeSlots holds the positions of the unknowns of one node. -1 means absent
type NodeSlots struct {
	Un, Ut, J, LamV int
}

// ContactSlots holds the positions of the unknowns of one contact. -1 means absent
type ContactSlots struct {
	D, Psi, Theta int // rigid-body unknowns
	Cx, Cy, Crot  int // closure multipliers (non-tree contacts only)
}

// PairSlots holds the positions of the multipliers of one node contact pair
type PairSlots struct {
	Dist, Dir int
}

// EqMap maps (entity, key) to positions in the unknown vector. Positions are assigned in the
// following order: the dissipation multiplier; for each particle and each node: un, ut (contact
// nodes), j, λV; for each contact: δd, δψ, δθ, then λd, λψ for each node pair, then the closure
// multipliers if the contact closes a cycle
type EqMap struct {
	St       *sol.State
	LamD     int            // position of λD
	Nodes    [][]NodeSlots  // [nparticles][nnodes]
	Contacts []ContactSlots // [ncontacts]
	Pairs    []PairSlots    // [nnodepairs]
	N        int            // total number of unknowns

	// reverse map
	ids  []int // [N] entity id of each position
	keys []Key // [N] key of each position
}

// NewEqMap numbers all unknowns of a state
func NewEqMap(st *sol.State) (o *EqMap) {
	o = &EqMap{St: st}
	o.ids = make([]int, 0, 1+4*st.Nnodes()+8*len(st.Contacts))
	o.keys = make([]Key, 0, cap(o.ids))
	o.LamD = o.add(-1, Dissipation)
	o.Nodes = make([][]NodeSlots, len(st.Particles))
	for p, par := range st.Particles {
		o.Nodes[p] = make([]NodeSlots, len(par.Nodes))
		for i, nod := range par.Nodes {
			s := &o.Nodes[p][i]
			s.Un = o.add(nod.Id, NormalDisp)
			s.Ut = -1
			if nod.HasContact() {
				s.Ut = o.add(nod.Id, TangentialDisp)
			}
			s.J = o.add(nod.Id, Flux)
			s.LamV = o.add(nod.Id, VolumeMult)
		}
	}
	o.Contacts = make([]ContactSlots, len(st.Contacts))
	o.Pairs = make([]PairSlots, len(st.NodeContacts))
	for k, c := range st.Contacts {
		s := &o.Contacts[k]
		s.D = o.add(c.Id, RadialDisp)
		s.Psi = o.add(c.Id, AngularDisp)
		s.Theta = o.add(c.Id, RotationalDisp)
		for _, m := range c.NodePairs {
			fromId := st.NodeContacts[m].FromId
			o.Pairs[m].Dist = o.add(fromId, DistanceMult)
			o.Pairs[m].Dir = o.add(fromId, DirectionMult)
		}
		s.Cx, s.Cy, s.Crot = -1, -1, -1
		if !c.IsTree {
			s.Cx = o.add(c.Id, ClosureX)
			s.Cy = o.add(c.Id, ClosureY)
			s.Crot = o.add(c.Id, ClosureRot)
		}
	}
	o.N = len(o.ids)
	return
}

// add appends one unknown
func (o *EqMap) add(id int, key Key) (slot int) {
	slot = len(o.ids)
	o.ids = append(o.ids, id)
	o.keys = append(o.keys, key)
	return
}

// Size returns the number of unknowns
func (o *EqMap) Size() int { return o.N }

// Index returns the position of an unknown. id is a node id for node keys and for node contact
// pair keys (either node of the pair), a contact id for contact keys, and is ignored for the
// dissipation multiplier
func (o *EqMap) Index(id int, key Key) (slot int, err error) {
	slot = -1
	switch {
	case key == Dissipation:
		slot = o.LamD
	case key.IsNodeKey():
		ref, ok := o.St.NodeRef(id)
		if !ok {
			break
		}
		s := o.Nodes[ref.P][ref.I]
		switch key {
		case NormalDisp:
			slot = s.Un
		case TangentialDisp:
			slot = s.Ut
		case Flux:
			slot = s.J
		case VolumeMult:
			slot = s.LamV
		}
	case key.IsPairKey():
		k, ok := o.St.NodePairOf(id)
		if !ok {
			break
		}
		if key == DistanceMult {
			slot = o.Pairs[k].Dist
		} else {
			slot = o.Pairs[k].Dir
		}
	case key.IsContactKey():
		if id < 0 || id >= len(o.Contacts) {
			break
		}
		s := o.Contacts[id]
		switch key {
		case RadialDisp:
			slot = s.D
		case AngularDisp:
			slot = s.Psi
		case RotationalDisp:
			slot = s.Theta
		case ClosureX:
			slot = s.Cx
		case ClosureY:
			slot = s.Cy
		case ClosureRot:
			slot = s.Crot
		}
	}
	if slot < 0 {
		return -1, chk.Err("unknown %v of entity %d not found", key, id)
	}
	return
}

// Entry returns the entity id and key at a position
func (o *EqMap) Entry(slot int) (id int, key Key) {
	if slot < 0 || slot >= o.N {
		chk.Panic("position %d is out of range [0, %d)", slot, o.N)
	}
	return o.ids[slot], o.keys[slot]
}

// Describe returns a readable name of the unknown at a position
func (o *EqMap) Describe(slot int) string {
	id, key := o.Entry(slot)
	switch {
	case key == Dissipation:
		return key.String()
	case key.IsContactKey():
		return io.Sf("%v of contact %d", key, id)
	}
	return io.Sf("%v of node %d", key, id)
}
