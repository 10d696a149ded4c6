// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.yaml) run file
package inp

import (
	goio "io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `yaml:"desc"`    // description of simulation
	Matfile string `yaml:"matfile"` // materials file path
	DirOut  string `yaml:"dirout"`  // directory for output; e.g. /tmp/refrasin
	Encoder string `yaml:"encoder"` // encoder name; e.g. "gob" "json"
	Verbose bool   `yaml:"verbose"` // show messages
}

// ProcessData holds the process conditions
type ProcessData struct {
	Temperature float64 `yaml:"temperature"` // absolute temperature T
	GasConstant float64 `yaml:"gasconstant"` // universal gas constant R
	Duration    float64 `yaml:"duration"`    // total simulated time
}

// SolverData holds TEP solver data
type SolverData struct {

	// nonlinear solver
	RootFinder string  `yaml:"rootfinder"` // root finder: {newton, broyden}
	NmaxIt     int     `yaml:"nmaxit"`     // number of max iterations
	Atol       float64 `yaml:"atol"`       // absolute tolerance
	Rtol       float64 `yaml:"rtol"`       // relative tolerance
	FbTol      float64 `yaml:"fbtol"`      // tolerance for convergence on fb
	FbMin      float64 `yaml:"fbmin"`      // minimum value of fb
	DvgCtrl    bool    `yaml:"dvgctrl"`    // use divergence control
	CteTg      bool    `yaml:"ctetg"`      // use constant tangent (modified Newton) during iterations
	ShowR      bool    `yaml:"showr"`      // show residual
	CondMax    float64 `yaml:"condmax"`    // largest acceptable condition number of the Jacobian

	// step width control
	DtIni        float64 `yaml:"dtini"`        // initial time step width
	DtMin        float64 `yaml:"dtmin"`        // minimum time step width
	DtMax        float64 `yaml:"dtmax"`        // maximum time step width
	DtFactor     float64 `yaml:"dtfactor"`     // time step adaptation factor
	DtDelay      int     `yaml:"dtdelay"`      // number of successful steps before increasing Δt
	MaxDispAngle float64 `yaml:"maxdispangle"` // maximum change of surface-radius angle per step [rad]

	// options
	Predictor    bool     `yaml:"predictor"`    // use frozen-multiplier predictor for the initial guess
	AdamsMoulton bool     `yaml:"adamsmoulton"` // average solution with previous accepted one
	Sanitize     bool     `yaml:"sanitize"`     // snap contact node pairs after each accepted step
	Recovery     []string `yaml:"recovery"`     // recovery strategies, in order
	Parallel     bool     `yaml:"parallel"`     // assemble per particle/contact concurrently
	Timeout      string   `yaml:"timeout"`      // wall-clock limit; e.g. "10m". empty means none

	// constants
	Eps float64 `yaml:"eps"` // smallest number satisfying 1.0 + ϵ > 1.0

	// derived
	Itol       float64       `yaml:"-"` // iterations tolerance
	TimeoutDur time.Duration `yaml:"-"` // parsed Timeout
}

// RemeshData holds data for the remeshing service
type RemeshData struct {
	Interval int     `yaml:"interval"` // number of accepted steps between remeshing; 0 => never
	MinLen   float64 `yaml:"minlen"`   // free-surface nodes with both segments shorter than this are removed
	MaxLen   float64 `yaml:"maxlen"`   // free-surface segments longer than this are split
}

// GeometryData holds data to set up the initial particles
type GeometryData struct {
	Type      string  `yaml:"type"`      // "single" or "pair"
	Material  string  `yaml:"material"`  // material name
	Nnodes    int     `yaml:"nnodes"`    // single: number of nodes. pair: number of free-surface nodes per particle
	A         float64 `yaml:"a"`         // single: semi-axis along x
	B         float64 `yaml:"b"`         // single: semi-axis along y
	Amplitude float64 `yaml:"amplitude"` // single: radial perturbation amplitude (used if > 0)
	Waves     int     `yaml:"waves"`     // single: number of radial waves
	Radius    float64 `yaml:"radius"`    // pair: radius of each particle
	NeckAngle float64 `yaml:"neckangle"` // pair: half angle of the contact patch seen from the centre [rad]
	Ngb       int     `yaml:"ngb"`       // pair: number of grain-boundary nodes per particle
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data     Data         `yaml:"data"`     // stores global simulation data
	Process  ProcessData  `yaml:"process"`  // process conditions
	Solver   SolverData   `yaml:"solver"`   // TEP solver data
	Remesh   RemeshData   `yaml:"remesh"`   // remeshing service
	Geometry GeometryData `yaml:"geometry"` // initial particles

	// derived
	DirOut    string `yaml:"-"` // directory to save results
	Key       string `yaml:"-"` // simulation key; e.g. mysim01.yaml => mysim01 or mysim01-alias
	EncType   string `yaml:"-"` // encoder type
	MatParams *MatDb `yaml:"-"` // materials' parameters
}

// Simulation //////////////////////////////////////////////////////////////////////////////////////

// ReadSim reads all simulation data from a .yaml file
func ReadSim(simfilepath, alias string, erasefiles bool) (o *Simulation, err error) {

	// read file
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q", simfilepath)
	}

	// decode
	dir := filepath.Dir(os.ExpandEnv(simfilepath))
	o, err = ParseSim(b, dir)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot parse simulation file %q:\n%v", simfilepath, err)
	}

	// filename key
	fn := filepath.Base(simfilepath)
	fnkey := strings.TrimSuffix(fn, filepath.Ext(fn))
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/refrasin/" + fnkey
	}

	// create directory and erase previous simulation results
	if erasefiles {
		err = PrepareDirOut(o.DirOut, o.Key)
		if err != nil {
			return nil, err
		}
	}
	return
}

// PrepareDirOut creates the output directory and removes the results of a previous run with the
// same key
func PrepareDirOut(dirout, key string) (err error) {
	err = os.MkdirAll(dirout, 0777)
	if err != nil {
		return chk.Err("cannot create directory for output results (%s): %v", dirout, err)
	}
	old, _ := filepath.Glob(filepath.Join(dirout, key+"_*"))
	for _, f := range old {
		os.Remove(f)
	}
	return
}

// ParseSim decodes a run file given as bytes. Relative material file paths are
// resolved against dir
func ParseSim(b []byte, dir string) (o *Simulation, err error) {

	// set default values
	o = new(Simulation)
	o.Data.Encoder = "gob"
	o.Process.SetDefault()
	o.Solver.SetDefault()
	o.Remesh.SetDefault()
	o.Geometry.SetDefault()

	// decode
	err = yaml.Unmarshal(b, o)
	if err != nil {
		return nil, err
	}

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// set solver constants
	err = o.Solver.PostProcess()
	if err != nil {
		return nil, err
	}
	err = o.Process.Check()
	if err != nil {
		return nil, err
	}

	// read materials database
	if o.Data.Matfile != "" {
		fn := o.Data.Matfile
		if !filepath.IsAbs(fn) {
			fn = filepath.Join(dir, fn)
		}
		o.MatParams, err = ReadMatDb(fn)
		if err != nil {
			return nil, err
		}
		if o.Geometry.Material != "" && o.MatParams.Get(o.Geometry.Material) == nil {
			return nil, chk.Err("cannot find material %q in %q", o.Geometry.Material, fn)
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := yaml.Marshal(o)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets defaults values
func (o *ProcessData) SetDefault() {
	o.GasConstant = 8.31446261815324
	o.Temperature = 1273
	o.Duration = 1
}

// Check checks process conditions
func (o *ProcessData) Check() error {
	if o.Temperature <= 0 || o.GasConstant <= 0 {
		return chk.Err("temperature and gas constant must be positive. T=%g, R=%g", o.Temperature, o.GasConstant)
	}
	if o.Duration <= 0 {
		return chk.Err("duration must be positive. %g is invalid", o.Duration)
	}
	return nil
}

// SetDefault sets defaults values
func (o *SolverData) SetDefault() {

	// nonlinear solver
	o.RootFinder = "newton"
	o.NmaxIt = 20
	o.Atol = 1e-12
	o.Rtol = 1e-8
	o.FbTol = 1e-8
	o.FbMin = 1e-10
	o.DvgCtrl = true
	o.CondMax = 1e16

	// step width control
	o.DtIni = 1
	o.DtMin = 1e-8
	o.DtMax = 1e3
	o.DtFactor = 2
	o.DtDelay = 3
	o.MaxDispAngle = 0.1

	// options
	o.Predictor = true
	o.Sanitize = true
	o.Recovery = []string{"sanitize", "smooth"}

	// constants
	o.Eps = 1e-16
}

// PostProcess performs a post-processing of the just read run file
func (o *SolverData) PostProcess() (err error) {

	// step width
	if o.DtMin <= 0 || o.DtMax < o.DtMin {
		return chk.Err("invalid step width bounds: dtmin=%g, dtmax=%g", o.DtMin, o.DtMax)
	}
	if o.DtFactor <= 1 {
		return chk.Err("dtfactor must be greater than one. %g is invalid", o.DtFactor)
	}
	if o.DtDelay < 1 {
		o.DtDelay = 1
	}
	o.DtIni = utl.Min(utl.Max(o.DtIni, o.DtMin), o.DtMax)

	// timeout
	if o.Timeout != "" {
		o.TimeoutDur, err = time.ParseDuration(o.Timeout)
		if err != nil {
			return chk.Err("cannot parse timeout %q: %v", o.Timeout, err)
		}
	}

	// iterations tolerance
	o.Itol = utl.Max(10.0*o.Eps/o.Rtol, utl.Min(0.01, math.Sqrt(o.Rtol)))
	return
}

// Log prints solver data
func (o *SolverData) Log() {
	io.Pf("rootfinder = %s  nmaxit = %d  itol = %g\n", o.RootFinder, o.NmaxIt, o.Itol)
	io.Pf("dt: ini = %g  min = %g  max = %g  factor = %g  delay = %d\n", o.DtIni, o.DtMin, o.DtMax, o.DtFactor, o.DtDelay)
}

// SetDefault sets defaults values
func (o *RemeshData) SetDefault() {
	o.Interval = 0
}

// SetDefault sets defaults values
func (o *GeometryData) SetDefault() {
	o.Type = "single"
	o.Nnodes = 100
	o.A = 1
	o.B = 1
	o.Radius = 1
	o.NeckAngle = 0.3
	o.Ngb = 5
}
