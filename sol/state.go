// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sol

import (
	"math"
	"sort"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/geo"
	"github.com/cpmech/gosl/chk"
)

// State holds an immutable snapshot of all particles at one time. Contacts are derived from
// the nodes' contact references when the state is created
type State struct {
	Time      float64     // simulated time
	Particles []*Particle // all particles; order defines all traversals

	// derived
	Contacts     []*ContactPair     // particle contacts, sorted by (FromIdx, ToIdx)
	NodeContacts []*NodeContactPair // touching node pairs, grouped by contact
	Parent       []int              // [nparticles] tree contact reaching each particle; -1 for roots
	Order        []int              // particle indices in breadth-first order over the spanning forest

	// auxiliary
	nodes    map[int]NodeRef // node id => location
	parts    map[int]int     // particle id => index
	pairOf   map[int]int     // node id (from or to) => index of node contact pair
	maxId    int             // largest node id
	nnodes   int             // total number of nodes
	ncontact int             // number of contact nodes
}

// NewState creates a state. The particles become owned by the state and must not be modified
// afterwards
func NewState(t float64, particles []*Particle) (o *State, err error) {

	// check and index
	if len(particles) == 0 {
		return nil, chk.Err("state must have at least one particle")
	}
	o = &State{Time: t, Particles: particles}
	o.nodes = make(map[int]NodeRef)
	o.parts = make(map[int]int)
	o.pairOf = make(map[int]int)
	o.maxId = -1
	for p, par := range particles {
		if _, ok := o.parts[par.Id]; ok {
			return nil, chk.Err("particle id %d is repeated", par.Id)
		}
		o.parts[par.Id] = p
		for i, nod := range par.Nodes {
			if _, ok := o.nodes[nod.Id]; ok {
				return nil, chk.Err("node id %d is repeated", nod.Id)
			}
			if (nod.Kind == Surface) == nod.HasContact() {
				return nil, chk.Err("node %d: only neck and grain-boundary nodes carry a contact", nod.Id)
			}
			o.nodes[nod.Id] = NodeRef{p, i}
			if nod.Id > o.maxId {
				o.maxId = nod.Id
			}
			o.nnodes++
		}
	}

	// geometry
	for _, par := range particles {
		err = par.update()
		if err != nil {
			return nil, err
		}
	}

	// contacts and spanning forest
	err = o.deriveContacts()
	if err != nil {
		return nil, err
	}
	o.spanningForest()
	return
}

// deriveContacts pairs contact nodes and groups them by particle contact
func (o *State) deriveContacts() (err error) {
	groups := make(map[[2]int][]*NodeContactPair)
	for p, par := range o.Particles {
		for i, nod := range par.Nodes {
			if !nod.HasContact() {
				continue
			}
			ref, ok := o.nodes[nod.Contact.NodeId]
			if !ok {
				return chk.Err("node %d: contacted node %d does not exist", nod.Id, nod.Contact.NodeId)
			}
			other := o.Particles[ref.P]
			partner := other.Nodes[ref.I]
			if ref.P == p || other.Id != nod.Contact.ParticleId {
				return chk.Err("node %d: contacted node %d is not on particle %d", nod.Id, partner.Id, nod.Contact.ParticleId)
			}
			if !partner.HasContact() || partner.Contact.NodeId != nod.Id || partner.Contact.ParticleId != par.Id {
				return chk.Err("contact between nodes %d and %d is not symmetric", nod.Id, partner.Id)
			}
			if partner.Kind != nod.Kind {
				return chk.Err("contact between nodes %d and %d joins a %v and a %v node", nod.Id, partner.Id, nod.Kind, partner.Kind)
			}
			o.ncontact++
			if p > ref.P {
				continue // recorded from the other side
			}
			key := [2]int{p, ref.P}
			groups[key] = append(groups[key], &NodeContactPair{From: NodeRef{p, i}, To: ref, FromId: nod.Id, ToId: partner.Id})
		}
	}

	// sort contacts by particle order
	keys := make([][2]int, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a][0] == keys[b][0] {
			return keys[a][1] < keys[b][1]
		}
		return keys[a][0] < keys[b][0]
	})

	// contacts
	for _, key := range keys {
		pairs := groups[key]
		if len(pairs) < 2 {
			return chk.Err("contact between particles %d and %d needs at least two node pairs", o.Particles[key[0]].Id, o.Particles[key[1]].Id)
		}
		a, b := o.Particles[key[0]], o.Particles[key[1]]
		c := &ContactPair{Id: len(o.Contacts), From: a.Id, To: b.Id, FromIdx: key[0], ToIdx: key[1]}
		for _, np := range pairs {
			np.Contact = c.Id
			k := len(o.NodeContacts)
			c.NodePairs = append(c.NodePairs, k)
			o.NodeContacts = append(o.NodeContacts, np)
			o.pairOf[np.FromId] = k
			o.pairOf[np.ToId] = k
		}
		c.setGeometry(a, b, o.NodeContacts)
		o.Contacts = append(o.Contacts, c)
	}
	return
}

// spanningForest marks tree contacts with a breadth-first traversal in particle order
func (o *State) spanningForest() {
	np := len(o.Particles)
	adj := make([][]int, np)
	for _, c := range o.Contacts {
		adj[c.FromIdx] = append(adj[c.FromIdx], c.Id)
		adj[c.ToIdx] = append(adj[c.ToIdx], c.Id)
	}
	o.Parent = make([]int, np)
	visited := make([]bool, np)
	o.Order = make([]int, 0, np)
	for root := 0; root < np; root++ {
		if visited[root] {
			continue
		}
		visited[root] = true
		o.Parent[root] = -1
		queue := []int{root}
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			o.Order = append(o.Order, p)
			for _, cid := range adj[p] {
				c := o.Contacts[cid]
				q := c.ToIdx
				if q == p {
					q = c.FromIdx
				}
				if visited[q] {
					continue
				}
				visited[q] = true
				c.IsTree = true
				o.Parent[q] = cid
				queue = append(queue, q)
			}
		}
	}
}

// queries ////////////////////////////////////////////////////////////////////////////////////////

// Particle returns the particle with given id
//
//	Note: returns nil if not found
func (o *State) Particle(id int) *Particle {
	if p, ok := o.parts[id]; ok {
		return o.Particles[p]
	}
	return nil
}

// ParticleIndex returns the index of the particle with given id or -1
func (o *State) ParticleIndex(id int) int {
	if p, ok := o.parts[id]; ok {
		return p
	}
	return -1
}

// NodeRef returns the location of the node with given id
func (o *State) NodeRef(id int) (ref NodeRef, ok bool) {
	ref, ok = o.nodes[id]
	return
}

// Node returns the node with given id
//
//	Note: returns nil if not found
func (o *State) Node(id int) *Node {
	if ref, ok := o.nodes[id]; ok {
		return o.Particles[ref.P].Nodes[ref.I]
	}
	return nil
}

// Geo returns the geometry of a node
func (o *State) Geo(ref NodeRef) *NodeGeo {
	return &o.Particles[ref.P].Geo[ref.I]
}

// NodePairOf returns the index of the node contact pair a node belongs to
func (o *State) NodePairOf(id int) (k int, ok bool) {
	k, ok = o.pairOf[id]
	return
}

// ContactBetween returns the contact between two particles (by id), whatever the orientation
//
//	Note: returns nil if not found
func (o *State) ContactBetween(a, b int) *ContactPair {
	for _, c := range o.Contacts {
		if (c.From == a && c.To == b) || (c.From == b && c.To == a) {
			return c
		}
	}
	return nil
}

// Nnodes returns the total number of nodes
func (o *State) Nnodes() int { return o.nnodes }

// NcontactNodes returns the number of nodes touching another particle
func (o *State) NcontactNodes() int { return o.ncontact }

// MaxNodeId returns the largest node id
func (o *State) MaxNodeId() int { return o.maxId }

// Energy returns the total interface energy
func (o *State) Energy() (e float64) {
	for _, p := range o.Particles {
		e += p.Energy()
	}
	return
}

// Area returns the total area of all particles
func (o *State) Area() (a float64) {
	for _, p := range o.Particles {
		a += p.Area
	}
	return
}

// Drift returns the largest distance between two touching nodes
func (o *State) Drift() (d float64) {
	for _, np := range o.NodeContacts {
		d = math.Max(d, geo.Dist(o.Geo(np.From).Pos, o.Geo(np.To).Pos))
	}
	return
}

// NeckWidth returns the distance between the two neck nodes of a contact, measured on its
// "from" particle. Returns 0 if the contact does not have exactly two necks
func (o *State) NeckWidth(c *ContactPair) float64 {
	var necks []geo.Vec
	for _, k := range c.NodePairs {
		np := o.NodeContacts[k]
		par := o.Particles[np.From.P]
		if par.Nodes[np.From.I].Kind == Neck {
			necks = append(necks, par.Geo[np.From.I].Pos)
		}
	}
	if len(necks) != 2 {
		return 0
	}
	return geo.Dist(necks[0], necks[1])
}

// transitions ////////////////////////////////////////////////////////////////////////////////////

// Clone returns a deep copy of the authored data of all particles
func (o *State) Clone() (particles []*Particle) {
	particles = make([]*Particle, len(o.Particles))
	for p, par := range o.Particles {
		particles[p] = par.Clone()
	}
	return
}

// Sanitize returns a new state where both nodes of each node contact pair are moved to their
// common midpoint
func (o *State) Sanitize() (*State, error) {
	mids := make(map[int]geo.Vec)
	for _, np := range o.NodeContacts {
		m := geo.Mid(o.Geo(np.From).Pos, o.Geo(np.To).Pos)
		mids[np.FromId] = m
		mids[np.ToId] = m
	}
	particles := make([]*Particle, len(o.Particles))
	for p, par := range o.Particles {
		particles[p] = par.clone(func(i int, nod *Node) geo.Vec {
			if m, ok := mids[nod.Id]; ok {
				return par.Local(m)
			}
			return nod.X
		})
	}
	return NewState(o.Time, particles)
}
