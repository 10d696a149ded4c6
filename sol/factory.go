// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sol

import (
	"math"
	"sort"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/geo"
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/spatial/r2"
)

// NewEllipseParticle creates a particle centred at the origin whose nnodes surface nodes lie on an
// ellipse with semi-axes a and b, at equal polar parameter increments
func NewEllipseParticle(id, nodeIdStart, nnodes int, a, b float64, mat *Material) *Particle {
	p := &Particle{Id: id, Mat: mat}
	for k := 0; k < nnodes; k++ {
		φ := 2 * math.Pi * float64(k) / float64(nnodes)
		p.Nodes = append(p.Nodes, &Node{Id: nodeIdStart + k, X: geo.Vec{X: a * math.Cos(φ), Y: b * math.Sin(φ)}})
	}
	return p
}

// NewWavyParticle creates a particle centred at the origin with radius r·(1 + amp·cos(waves·φ))
func NewWavyParticle(id, nodeIdStart, nnodes int, r, amp float64, waves int, mat *Material) *Particle {
	p := &Particle{Id: id, Mat: mat}
	for k := 0; k < nnodes; k++ {
		φ := 2 * math.Pi * float64(k) / float64(nnodes)
		p.Nodes = append(p.Nodes, &Node{Id: nodeIdStart + k, X: geo.Polar(r*(1+amp*math.Cos(float64(waves)*φ)), φ)})
	}
	return p
}

// NewParticlePair creates two circular particles of given radius touching along a flat grain
// boundary. neckangle is the half angle of the contact patch seen from each centre; nsurf is the
// number of free-surface nodes and ngb the number of grain-boundary nodes of each particle
func NewParticlePair(radius float64, nsurf, ngb int, neckangle float64, mat *Material) (a, b *Particle, err error) {
	d := 2 * radius * math.Cos(neckangle)
	ps, err := NewCluster(radius, []geo.Vec{{X: 0, Y: 0}, {X: d, Y: 0}}, [][2]int{{0, 1}}, nsurf, ngb, mat)
	if err != nil {
		return
	}
	return ps[0], ps[1], nil
}

// flat is the contact patch of a particle towards a neighbour
type flat struct {
	other int     // index of other particle
	φ     float64 // direction towards other centre
	θ     float64 // half angle of patch
	ids   []int   // node ids from lower neck to upper neck
}

// NewCluster creates circular particles of equal radius at the given centres, truncated by a flat
// grain boundary for every contact (i, j). The patch of each contact lies halfway between both
// centres. nsurf free-surface nodes per particle are distributed over the arcs; every patch gets
// ngb grain-boundary nodes between its two necks. Particle i has id i
func NewCluster(radius float64, centres []geo.Vec, contacts [][2]int, nsurf, ngb int, mat *Material) (particles []*Particle, err error) {

	// patches
	np := len(centres)
	flats := make([][]*flat, np)
	for _, c := range contacts {
		i, j := c[0], c[1]
		if i == j || i < 0 || j < 0 || i >= np || j >= np {
			return nil, chk.Err("invalid contact (%d, %d)", i, j)
		}
		r := r2.Sub(centres[j], centres[i])
		h := r2.Norm(r) / 2
		if h >= radius || h <= 0 {
			return nil, chk.Err("particles %d and %d do not overlap", i, j)
		}
		θ := math.Acos(h / radius)
		flats[i] = append(flats[i], &flat{other: j, φ: geo.Angle(r), θ: θ})
		flats[j] = append(flats[j], &flat{other: i, φ: geo.Angle(r) + math.Pi, θ: θ})
	}

	// sort patches by direction
	nid := 0
	for i := 0; i < np; i++ {
		sort.Slice(flats[i], func(a, b int) bool { return geo.NormAngle(flats[i][a].φ) < geo.NormAngle(flats[i][b].φ) })
		for _, f := range flats[i] {
			f.ids = make([]int, ngb+2)
		}
	}

	// rings
	particles = make([]*Particle, np)
	for i := 0; i < np; i++ {
		p := &Particle{Id: i, Centre: centres[i], Mat: mat}
		particles[i] = p
		fs := flats[i]
		if len(fs) == 0 {
			for k := 0; k < nsurf; k++ {
				p.Nodes = append(p.Nodes, &Node{Id: nid, X: geo.Polar(radius, 2*math.Pi*float64(k)/float64(nsurf))})
				nid++
			}
			continue
		}

		// free arcs between consecutive patches
		var total float64
		arcs := make([]float64, len(fs))
		for k, f := range fs {
			g := fs[(k+1)%len(fs)]
			start := f.φ + f.θ
			end := g.φ - g.θ
			arcs[k] = math.Mod(end-start+4*math.Pi, 2*math.Pi)
			if len(fs) == 1 {
				arcs[k] = 2*math.Pi - 2*f.θ
			}
			if arcs[k] <= 0 {
				return nil, chk.Err("contact patches of particle %d overlap", i)
			}
			total += arcs[k]
		}

		// starting at the upper neck of first patch
		for k, f := range fs {
			g := fs[(k+1)%len(fs)]
			narc := int(math.Round(float64(nsurf) * arcs[k] / total))
			if narc < 1 {
				narc = 1
			}

			// upper neck of f
			f.ids[ngb+1] = nid
			p.Nodes = append(p.Nodes, &Node{Id: nid, Kind: Neck, X: geo.Polar(radius, f.φ+f.θ)})
			nid++

			// free surface
			for m := 1; m <= narc; m++ {
				α := f.φ + f.θ + arcs[k]*float64(m)/float64(narc+1)
				p.Nodes = append(p.Nodes, &Node{Id: nid, X: geo.Polar(radius, α)})
				nid++
			}

			// lower neck of g and its grain boundary up to the upper neck
			lo := geo.Polar(radius, g.φ-g.θ)
			hi := geo.Polar(radius, g.φ+g.θ)
			g.ids[0] = nid
			p.Nodes = append(p.Nodes, &Node{Id: nid, Kind: Neck, X: lo})
			nid++
			for m := 1; m <= ngb; m++ {
				s := float64(m) / float64(ngb+1)
				g.ids[m] = nid
				p.Nodes = append(p.Nodes, &Node{Id: nid, Kind: GrainBoundary, X: r2.Add(lo, r2.Scale(s, r2.Sub(hi, lo)))})
				nid++
			}
		}
	}

	// contact references: lower neck of one side touches upper neck of the other
	byId := make(map[int]*Node)
	for _, p := range particles {
		for _, nod := range p.Nodes {
			byId[nod.Id] = nod
		}
	}
	for i := 0; i < np; i++ {
		for _, f := range flats[i] {
			var g *flat
			for _, h := range flats[f.other] {
				if h.other == i {
					g = h
				}
			}
			for m := 0; m <= ngb+1; m++ {
				byId[f.ids[m]].Contact = &Contact{NodeId: g.ids[ngb+1-m], ParticleId: f.other}
			}
		}
	}
	return
}
