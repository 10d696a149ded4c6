// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_eqmap01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("eqmap01. numbering of a particle pair")

	st := pairState(tst, 1)
	m := NewEqMap(st)

	// λD + 3 per node + ut per contact node + 3 per contact + 2 per node pair
	chk.Int(tst, "N", m.Size(), 1+3*94+14+3+2*7)
	chk.Int(tst, "λD", m.LamD, 0)

	// first node of first particle
	chk.Int(tst, "un0", m.Nodes[0][0].Un, 1)
	n0 := st.Particles[0].Nodes[0]
	if n0.HasContact() {
		chk.Int(tst, "ut0", m.Nodes[0][0].Ut, 2)
	} else {
		chk.Int(tst, "ut0", m.Nodes[0][0].Ut, -1)
	}

	// reverse map
	for slot := 0; slot < m.N; slot++ {
		id, key := m.Entry(slot)
		k, err := m.Index(id, key)
		if err != nil {
			tst.Errorf("Index(%d, %v) failed: %v", id, key, err)
			return
		}
		chk.Int(tst, io.Sf("slot of %s", m.Describe(slot)), k, slot)
	}

	// pair multipliers are found from both nodes
	np := st.NodeContacts[3]
	a, _ := m.Index(np.FromId, DistanceMult)
	b, _ := m.Index(np.ToId, DistanceMult)
	chk.Int(tst, "λd from both sides", a, b)

	// tree contact: no closure
	chk.Int(tst, "Cx", m.Contacts[0].Cx, -1)
}

func Test_eqmap02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("eqmap02. determinism and missing entries")

	st := triangleState(tst, 1)
	a := NewEqMap(st)
	b := NewEqMap(st)
	chk.Int(tst, "N", a.N, b.N)
	for slot := 0; slot < a.N; slot++ {
		ia, ka := a.Entry(slot)
		ib, kb := b.Entry(slot)
		if ia != ib || ka != kb {
			tst.Errorf("slot %d: (%d,%v) != (%d,%v)", slot, ia, ka, ib, kb)
			return
		}
	}

	// only the contact closing the cycle has closure multipliers
	nclosure := 0
	for k, c := range st.Contacts {
		if c.IsTree {
			chk.Int(tst, "tree Crot", a.Contacts[k].Crot, -1)
			continue
		}
		nclosure++
		if a.Contacts[k].Cx < 0 || a.Contacts[k].Cy < 0 || a.Contacts[k].Crot < 0 {
			tst.Errorf("closure multipliers of contact %d are missing", k)
		}
	}
	chk.Int(tst, "nclosure", nclosure, 1)

	// missing entries
	if _, err := a.Index(st.MaxNodeId()+1, NormalDisp); err == nil {
		tst.Errorf("missing node must fail")
	}
	free := -1
	for _, nod := range st.Particles[0].Nodes {
		if !nod.HasContact() {
			free = nod.Id
			break
		}
	}
	if _, err := a.Index(free, TangentialDisp); err == nil {
		tst.Errorf("surface node has no tangential displacement")
	}
	if _, err := a.Index(free, DistanceMult); err == nil {
		tst.Errorf("surface node has no contact multiplier")
	}
	if _, err := a.Index(len(st.Contacts), RadialDisp); err == nil {
		tst.Errorf("missing contact must fail")
	}
	if _, err := a.Index(0, ClosureX); err == nil {
		tst.Errorf("tree contact has no closure multiplier")
	}
}
