// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_banner01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("banner01")

	msg := banner("data/pair.yaml")
	chk.String(tst, strings.SplitN(strings.TrimSpace(msg), "\n", 2)[0], "RefraSin -- solid-state sintering by the thermodynamic extremal principle")
	if !strings.Contains(msg, "input file = data/pair.yaml") {
		tst.Errorf("banner must name the input file:\n%s", msg)
	}
	if strings.Contains(msg, "Copyright") || strings.Contains(msg, "license") {
		tst.Errorf("banner must not print a license notice:\n%s", msg)
	}
}
