// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sol

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func testMaterial() *Material {
	return &Material{
		Name:                   "test",
		SurfaceEnergy:          1,
		GrainBoundaryEnergy:    0.5,
		SurfaceDiffusion:       1e-8,
		GrainBoundaryDiffusion: 1e-8,
		InterfaceMobility:      1e-8,
		MolarVolume:            1,
		VacancyConcentration:   1,
	}
}
