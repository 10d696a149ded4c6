// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geo

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/spatial/r2"
)

func init() {
	io.Verbose = false
}

func ellipse(n int, a, b float64) (ring []Vec) {
	for k := 0; k < n; k++ {
		φ := 2 * math.Pi * float64(k) / float64(n)
		ring = append(ring, Vec{X: a * math.Cos(φ), Y: b * math.Sin(φ)})
	}
	return
}

func Test_ring01(tst *testing.T) {

	chk.PrintTitle("ring01")

	square := []Vec{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	chk.Float64(tst, "area", 1e-15, Area(square), 4)
	for i, l := range Lengths(square) {
		chk.Float64(tst, io.Sf("L%d", i), 1e-15, l, 2)
	}

	// corner normals point away from the centre
	n, t := Frame(square, 0)
	chk.Float64(tst, "n0x", 1e-15, n.X, -math.Sqrt2/2)
	chk.Float64(tst, "n0y", 1e-15, n.Y, -math.Sqrt2/2)
	chk.Float64(tst, "t0x", 1e-15, t.X, math.Sqrt2/2)
	chk.Float64(tst, "t0y", 1e-15, t.Y, -math.Sqrt2/2)
	chk.Float64(tst, "srα", 1e-15, SurfaceRadiusAngle(square, Vec{X: 1, Y: 1}, 0), 0)

	// circle
	ring := ellipse(400, 1, 1)
	chk.Float64(tst, "area circle", 1e-3, Area(ring), math.Pi)
	chk.Float64(tst, "perimeter", 1e-3, Energy(ring, ones(400)), 2*math.Pi)
	chk.Int(tst, "up", Up(399, 400), 0)
	chk.Int(tst, "lo", Lo(0, 400), 399)
}

func Test_ring02(tst *testing.T) {

	chk.PrintTitle("ring02. gradients versus finite differences")

	n := 12
	ring := ellipse(n, 1.3, 0.7)
	γ := make([]float64, n)
	for k := range γ {
		γ[k] = 1 + 0.1*float64(k%3)
	}

	for _, i := range []int{0, 5, n - 1} {
		f := func(q []float64) float64 {
			tmp := append([]Vec{}, ring...)
			tmp[i] = Vec{X: q[0], Y: q[1]}
			return Area(tmp)
		}
		g := func(q []float64) float64 {
			tmp := append([]Vec{}, ring...)
			tmp[i] = Vec{X: q[0], Y: q[1]}
			return Energy(tmp, γ)
		}
		x := []float64{ring[i].X, ring[i].Y}
		va := fd.Gradient(nil, f, x, &fd.Settings{Formula: fd.Central})
		ve := fd.Gradient(nil, g, x, &fd.Settings{Formula: fd.Central})
		dA := AreaGradient(ring, i)
		dE := EnergyGradient(ring, γ, i)
		chk.Float64(tst, io.Sf("dA/dx%d", i), 1e-8, dA.X, va[0])
		chk.Float64(tst, io.Sf("dA/dy%d", i), 1e-8, dA.Y, va[1])
		chk.Float64(tst, io.Sf("dE/dx%d", i), 1e-7, dE.X, ve[0])
		chk.Float64(tst, io.Sf("dE/dy%d", i), 1e-7, dE.Y, ve[1])
	}
}

func Test_vec01(tst *testing.T) {

	chk.PrintTitle("vec01")

	a := Vec{X: 1, Y: 2}
	b := Rot(a, math.Pi/2)
	chk.Float64(tst, "rot x", 1e-15, b.X, -2)
	chk.Float64(tst, "rot y", 1e-15, b.Y, 1)
	chk.Float64(tst, "perp", 1e-15, r2.Dot(Perp(a), b), r2.Norm(a)*r2.Norm(a))
	chk.Float64(tst, "cross", 1e-15, r2.Cross(a, b), 5)
	chk.Float64(tst, "norm angle", 1e-15, NormAngle(3*math.Pi/2), -math.Pi/2)
	chk.Float64(tst, "norm angle", 1e-15, NormAngle(-3*math.Pi/2), math.Pi/2)
	p := Polar(2, math.Pi/3)
	chk.Float64(tst, "polar", 1e-15, r2.Norm(p), 2)
	chk.Float64(tst, "angle", 1e-15, Angle(p), math.Pi/3)
	chk.Float64(tst, "mid", 1e-15, Dist(Mid(a, b), Vec{X: -0.5, Y: 1.5}), 0)
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}
