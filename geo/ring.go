// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import "gonum.org/v1/gonum/spatial/r2"

// A ring is a closed polygon given by its vertices in counter-clockwise order.
// Segment i joins vertex i to vertex i+1 (the upper neighbour).

// Up returns the index of the upper neighbour of i in a ring of n vertices
func Up(i, n int) int {
	if i == n-1 {
		return 0
	}
	return i + 1
}

// Lo returns the index of the lower neighbour of i in a ring of n vertices
func Lo(i, n int) int {
	if i == 0 {
		return n - 1
	}
	return i - 1
}

// Area computes the enclosed area (shoelace formula)
func Area(ring []Vec) (a float64) {
	n := len(ring)
	for i := 0; i < n; i++ {
		a += r2.Cross(ring[i], ring[Up(i, n)])
	}
	return a / 2
}

// Lengths computes the length of every segment
func Lengths(ring []Vec) (l []float64) {
	n := len(ring)
	l = make([]float64, n)
	for i := 0; i < n; i++ {
		l[i] = Dist(ring[Up(i, n)], ring[i])
	}
	return
}

// SegmentNormal returns the outward unit normal of segment p→q
func SegmentNormal(p, q Vec) Vec {
	d := r2.Sub(q, p)
	return r2.Unit(Vec{X: d.Y, Y: -d.X})
}

// Frame returns the outward unit normal n at vertex i, taken as the normalised sum of the
// normals of both adjacent segments, and the tangent t (n rotated by +90°, pointing to
// the upper neighbour)
func Frame(ring []Vec, i int) (n, t Vec) {
	N := len(ring)
	lo, up := ring[Lo(i, N)], ring[Up(i, N)]
	n = r2.Unit(r2.Add(SegmentNormal(lo, ring[i]), SegmentNormal(ring[i], up)))
	t = Perp(n)
	return
}

// AreaGradient returns ∂A/∂x_i
func AreaGradient(ring []Vec, i int) Vec {
	N := len(ring)
	lo, up := ring[Lo(i, N)], ring[Up(i, N)]
	return Vec{X: 0.5 * (up.Y - lo.Y), Y: 0.5 * (lo.X - up.X)}
}

// EnergyGradient returns ∂E/∂x_i where E = Σ γ[k]·L[k] and γ[k] is the energy of segment k
func EnergyGradient(ring []Vec, γ []float64, i int) Vec {
	N := len(ring)
	ilo := Lo(i, N)
	up, lo := ring[Up(i, N)], ring[ilo]
	a := r2.Scale(γ[i], r2.Unit(r2.Sub(ring[i], up)))
	b := r2.Scale(γ[ilo], r2.Unit(r2.Sub(ring[i], lo)))
	return r2.Add(a, b)
}

// Energy computes Σ γ[k]·L[k]
func Energy(ring []Vec, γ []float64) (e float64) {
	for k, l := range Lengths(ring) {
		e += γ[k] * l
	}
	return
}

// SurfaceRadiusAngle returns the angle between the radius vector x_i - c and the outward
// normal at vertex i
func SurfaceRadiusAngle(ring []Vec, c Vec, i int) float64 {
	n, _ := Frame(ring, i)
	r := r2.Sub(ring[i], c)
	return NormAngle(Angle(n) - Angle(r))
}
