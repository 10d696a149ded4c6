// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/out"
)

// Summary records the history of a run
type Summary struct {
	OutTimes   []float64   // [naccept] times of accepted states
	Dts        []float64   // [naccept] step widths of accepted steps
	Energies   []float64   // [naccept] total interface energy of accepted states
	Naccept    int         // number of accepted steps
	Nreject    int         // number of rejected attempts
	Nrecover   int         // number of recoveries
	Nremesh    int         // number of remeshing passes by the driver
	Niter      int         // total number of root-finder iterations
	Resids     [][]float64 // [naccept] residual history of accepted steps
	Recoveries []string    // names of strategies used, in order
	Failure    string      // message of the fatal error, if any
}

// accept records an accepted step
func (o *Summary) accept(t, Δt, energy float64, stats IterStats) {
	o.OutTimes = append(o.OutTimes, t)
	o.Dts = append(o.Dts, Δt)
	o.Energies = append(o.Energies, energy)
	o.Resids = append(o.Resids, stats.Resids)
	o.Naccept++
}

// Save saves the summary to <dir>/<key>_sum.<enc>
func (o *Summary) Save(dir, key, enctype string, verbose bool) error {
	return out.SaveFile(out.SumPath(dir, key, enctype), enctype, o, verbose)
}

// ReadSummary reads a summary back
func ReadSummary(dir, key, enctype string) (o *Summary, err error) {
	o = new(Summary)
	err = out.ReadFile(out.SumPath(dir, key, enctype), enctype, o)
	if err != nil {
		return nil, err
	}
	return
}
