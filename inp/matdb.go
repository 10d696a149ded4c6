// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/gcfg.v1"
)

// Material holds the parameters of one particle material
type Material struct {
	Name string // name of material; set from the section name

	SurfaceEnergy          float64 // γs: free-surface energy
	GrainBoundaryEnergy    float64 // γgb: grain-boundary energy
	SurfaceDiffusion       float64 // Ds: surface diffusion coefficient
	GrainBoundaryDiffusion float64 // Dgb: grain-boundary diffusion coefficient
	InterfaceMobility      float64 // M: mobility of the grain boundary (tangential sliding)
	MolarVolume            float64 // Vm
	VacancyConcentration   float64 // cv0: equilibrium vacancy concentration
}

// MatDb holds all materials read from a .mat file
type MatDb struct {
	Materials map[string]*Material
}

// matFile is the gcfg layout of a .mat file
type matFile struct {
	Material map[string]*Material
}

// ReadMatDb reads a materials database; e.g.
//
//	[material "alumina"]
//	SurfaceEnergy = 0.9
//	GrainBoundaryEnergy = 0.5
//	...
func ReadMatDb(fn string) (o *MatDb, err error) {
	var f matFile
	err = gcfg.ReadFileInto(&f, fn)
	if err != nil {
		return nil, chk.Err("cannot read materials file %q:\n%v", fn, err)
	}
	return newMatDb(&f)
}

// ParseMatDb reads a materials database from a string
func ParseMatDb(str string) (o *MatDb, err error) {
	var f matFile
	err = gcfg.ReadStringInto(&f, str)
	if err != nil {
		return nil, chk.Err("cannot parse materials:\n%v", err)
	}
	return newMatDb(&f)
}

func newMatDb(f *matFile) (o *MatDb, err error) {
	o = &MatDb{Materials: make(map[string]*Material)}
	for name, m := range f.Material {
		m.Name = name
		err = m.Check()
		if err != nil {
			return nil, err
		}
		o.Materials[name] = m
	}
	if len(o.Materials) == 0 {
		return nil, chk.Err("materials database is empty")
	}
	return
}

// Get returns material
//
//	Note: returns nil if not found
func (o *MatDb) Get(name string) *Material {
	return o.Materials[name]
}

// Names returns the sorted material names
func (o *MatDb) Names() (names []string) {
	for name := range o.Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// Log prints all materials
func (o *MatDb) Log() {
	io.Pf("%-16s%12s%12s%12s%12s%12s%12s%12s\n", "name", "γs", "γgb", "Ds", "Dgb", "M", "Vm", "cv0")
	for _, name := range o.Names() {
		m := o.Materials[name]
		io.Pf("%-16s%12.4e%12.4e%12.4e%12.4e%12.4e%12.4e%12.4e\n", name, m.SurfaceEnergy, m.GrainBoundaryEnergy,
			m.SurfaceDiffusion, m.GrainBoundaryDiffusion, m.InterfaceMobility, m.MolarVolume, m.VacancyConcentration)
	}
}

// Check checks whether all parameters are physically admissible
func (o *Material) Check() error {
	if o.SurfaceEnergy <= 0 {
		return chk.Err("material %q: surface energy must be positive", o.Name)
	}
	if o.GrainBoundaryEnergy < 0 || o.GrainBoundaryEnergy >= 2*o.SurfaceEnergy {
		return chk.Err("material %q: grain-boundary energy must be in [0, 2γs)", o.Name)
	}
	if o.SurfaceDiffusion <= 0 || o.GrainBoundaryDiffusion <= 0 || o.InterfaceMobility <= 0 {
		return chk.Err("material %q: diffusion coefficients and mobility must be positive", o.Name)
	}
	if o.MolarVolume <= 0 || o.VacancyConcentration <= 0 {
		return chk.Err("material %q: molar volume and vacancy concentration must be positive", o.Name)
	}
	return nil
}

// DihedralAngle returns the equilibrium dihedral angle 2·acos(γgb/(2γs))
func (o *Material) DihedralAngle() float64 {
	return 2 * math.Acos(o.GrainBoundaryEnergy/(2*o.SurfaceEnergy))
}
