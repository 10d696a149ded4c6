// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"os"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/inp"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
)

// ReadSnapshot reads the snapshot of accepted state tidx
func ReadSnapshot(dir, key, enctype string, tidx int) (o *Snapshot, err error) {
	o = new(Snapshot)
	err = ReadFile(StatePath(dir, key, enctype, tidx), enctype, o)
	if err != nil {
		return nil, err
	}
	return
}

// ReadState reads accepted state tidx
func ReadState(dir, key, enctype string, tidx int, db *inp.MatDb) (*sol.State, error) {
	snap, err := ReadSnapshot(dir, key, enctype, tidx)
	if err != nil {
		return nil, err
	}
	return snap.State(db)
}

// ReadSnapshots reads all consecutive snapshots starting at index 0
func ReadSnapshots(dir, key, enctype string) (res []*Snapshot, err error) {
	for tidx := 0; ; tidx++ {
		if _, e := os.Stat(StatePath(dir, key, enctype, tidx)); e != nil {
			return
		}
		var snap *Snapshot
		snap, err = ReadSnapshot(dir, key, enctype, tidx)
		if err != nil {
			return nil, err
		}
		res = append(res, snap)
	}
}
