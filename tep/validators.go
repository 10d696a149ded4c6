// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"math"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/geo"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
)

// Validator checks a converged step. A rejection is an InvalidStep failure
type Validator interface {
	Validate(prev, next *sol.State) error
}

// SurfaceAngleValidator rejects steps changing the surface-radius angle of any node by more
// than MaxAngle
type SurfaceAngleValidator struct {
	MaxAngle float64
}

// Validate checks all nodes present in both states
func (o SurfaceAngleValidator) Validate(prev, next *sol.State) error {
	for _, par := range next.Particles {
		for i, nod := range par.Nodes {
			ref, ok := prev.NodeRef(nod.Id)
			if !ok {
				continue
			}
			old := prev.Geo(ref).SurfAngle
			δ := math.Abs(geo.NormAngle(par.Geo[i].SurfAngle - old))
			if δ > o.MaxAngle {
				return failure(InvalidStep, "surface angle of node %d changed by %g > %g", nod.Id, δ, o.MaxAngle)
			}
		}
	}
	return nil
}

// VolumeValidator rejects states with non-positive areas, degenerate segments or non-finite
// coordinates
type VolumeValidator struct{}

// Validate checks next
func (o VolumeValidator) Validate(prev, next *sol.State) error {
	for _, par := range next.Particles {
		if !(par.Area > 0) {
			return failure(InvalidStep, "area of particle %d is not positive. A=%g", par.Id, par.Area)
		}
		if !geo.IsFinite(par.Centre) || math.IsNaN(par.Rotation) || math.IsInf(par.Rotation, 0) {
			return failure(InvalidStep, "pose of particle %d is not finite", par.Id)
		}
		for i, g := range par.Geo {
			if !geo.IsFinite(g.Pos) {
				return failure(InvalidStep, "node %d has non-finite coordinates", par.Nodes[i].Id)
			}
			if !(g.L > 0) {
				return failure(InvalidStep, "segment after node %d has zero length", par.Nodes[i].Id)
			}
		}
	}
	return nil
}

// validate runs all validators in order
func validate(vals []Validator, prev, next *sol.State) error {
	for _, v := range vals {
		if err := v.Validate(prev, next); err != nil {
			return err
		}
	}
	return nil
}
