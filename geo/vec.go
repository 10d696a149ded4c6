// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geo implements the plane geometry of closed particle surfaces
package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a point or a vector in the plane
type Vec = r2.Vec

// Polar returns r·(cos φ, sin φ)
func Polar(r, φ float64) Vec {
	return Vec{X: r * math.Cos(φ), Y: r * math.Sin(φ)}
}

// Angle returns the polar angle of a
func Angle(a Vec) float64 { return math.Atan2(a.Y, a.X) }

// Perp returns a rotated by +90°
func Perp(a Vec) Vec { return Vec{X: -a.Y, Y: a.X} }

// Rot returns a rotated by θ about the origin
func Rot(a Vec, θ float64) Vec { return r2.Rotate(a, θ, Vec{}) }

// Mid returns the midpoint of a and b
func Mid(a, b Vec) Vec { return r2.Scale(0.5, r2.Add(a, b)) }

// Dist returns |a - b|
func Dist(a, b Vec) float64 { return r2.Norm(r2.Sub(a, b)) }

// IsFinite tells whether both components are finite
func IsFinite(a Vec) bool {
	return !math.IsNaN(a.X) && !math.IsNaN(a.Y) && !math.IsInf(a.X, 0) && !math.IsInf(a.Y, 0)
}

// NormAngle maps an angle to (-π, π]
func NormAngle(α float64) float64 {
	α = math.Mod(α, 2*math.Pi)
	if α > math.Pi {
		α -= 2 * math.Pi
	}
	if α <= -math.Pi {
		α += 2 * math.Pi
	}
	return α
}
