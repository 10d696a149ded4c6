// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
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

const testMatDb = `
[material "test"]
surfaceenergy = 1
grainboundaryenergy = 0.5
surfacediffusion = 1e-8
grainboundarydiffusion = 1e-8
interfacemobility = 1e-8
molarvolume = 1
vacancyconcentration = 1
`

func testDb() *inp.MatDb {
	db, err := inp.ParseMatDb(testMatDb)
	if err != nil {
		chk.Panic("%v", err)
	}
	return db
}
