// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tep

import (
	"math"
	"sort"

	"github.com/Institute-of-Metal-Forming/refrasin-sub000/geo"
	"github.com/Institute-of-Metal-Forming/refrasin-sub000/sol"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/spatial/r2"
)

// Recoverer produces a new candidate state from a state whose step failed. An error tells that
// the strategy cannot help
type Recoverer interface {
	Name() string
	Recover(st *sol.State) (*sol.State, error)
}

// Remesher revises the node rings of a state
type Remesher interface {
	Remesh(st *sol.State) (*sol.State, error)
}

// recoverers holds all available strategies
var recoverers = make(map[string]func(rm Remesher) Recoverer)

func init() {
	recoverers["sanitize"] = func(rm Remesher) Recoverer { return SanitizeRecovery{} }
	recoverers["smooth"] = func(rm Remesher) Recoverer { return SmoothRecovery{Weight: 0.5} }
	recoverers["remesh"] = func(rm Remesher) Recoverer { return RemeshRecovery{Remesher: rm} }
}

// Recoverers returns the names of all strategies
func Recoverers() (names []string) {
	for name := range recoverers {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// RecoveryChain tries strategies in order
type RecoveryChain []Recoverer

// NewRecoveryChain returns the chain of named strategies
func NewRecoveryChain(names []string, rm Remesher) (chain RecoveryChain, err error) {
	for _, name := range names {
		allocator, ok := recoverers[name]
		if !ok {
			return nil, chk.Err("cannot find recovery strategy named %q", name)
		}
		if name == "remesh" && rm == nil {
			return nil, chk.Err("recovery strategy %q needs a remeshing service", name)
		}
		chain = append(chain, allocator(rm))
	}
	return
}

// Recover returns the state produced by the first strategy that succeeds and its name
func (o RecoveryChain) Recover(st *sol.State, verbose bool) (next *sol.State, name string, err error) {
	var causes []string
	for _, r := range o {
		next, err = r.Recover(st)
		if err == nil {
			if verbose {
				io.Pfyel("recovery: %s at t=%g\n", r.Name(), st.Time)
			}
			return next, r.Name(), nil
		}
		causes = append(causes, io.Sf("%s: %v", r.Name(), err))
	}
	return nil, "", failure(RecoveryExhausted, "no strategy succeeded at t=%g %v", st.Time, causes)
}

// SanitizeRecovery snaps touching nodes to their midpoint
type SanitizeRecovery struct{}

// Name returns "sanitize"
func (o SanitizeRecovery) Name() string { return "sanitize" }

// Recover returns the sanitized state. Fails if contact nodes already coincide
func (o SanitizeRecovery) Recover(st *sol.State) (*sol.State, error) {
	if st.Drift() <= 1e-14*scaleOf(st) {
		return nil, chk.Err("contact nodes coincide already")
	}
	return st.Sanitize()
}

// SmoothRecovery relaxes free-surface nodes towards the midpoint of their neighbours and
// restores the area of every particle by a uniform normal offset of the moved nodes
type SmoothRecovery struct {
	Weight float64 // relaxation factor in (0, 1]
}

// Name returns "smooth"
func (o SmoothRecovery) Name() string { return "smooth" }

// Recover returns the smoothed state. Fails if no node moves
func (o SmoothRecovery) Recover(st *sol.State) (*sol.State, error) {
	moved := 0.0
	particles := st.Clone()
	for p, par := range st.Particles {
		ring := par.Ring()
		n := len(ring)
		next := make([]geo.Vec, n)
		copy(next, ring)
		var free []int
		for i, nod := range par.Nodes {
			if nod.Kind != sol.Surface {
				continue
			}
			m := geo.Mid(ring[par.Lo(i)], ring[par.Up(i)])
			next[i] = r2.Add(ring[i], r2.Scale(o.Weight, r2.Sub(m, ring[i])))
			moved = math.Max(moved, geo.Dist(next[i], ring[i]))
			free = append(free, i)
		}
		if len(free) == 0 {
			continue
		}

		// restore area with a few Newton corrections: ΔA ≈ Σ_free |∇A_i|·δ
		grads := make([]geo.Vec, len(free))
		for it := 0; it < 5; it++ {
			δa := par.Area - geo.Area(next)
			var sum float64
			for k, i := range free {
				grads[k] = geo.AreaGradient(next, i)
				sum += r2.Norm(grads[k])
			}
			if sum == 0 || math.Abs(δa) <= 1e-15*par.Area {
				break
			}
			δ := δa / sum
			for k, i := range free {
				if g := r2.Norm(grads[k]); g > 0 {
					next[i] = r2.Add(next[i], r2.Scale(δ/g, grads[k]))
				}
			}
		}
		for _, i := range free {
			particles[p].Nodes[i].X = par.Local(next[i])
		}
	}
	if moved <= 1e-14*scaleOf(st) {
		return nil, chk.Err("surface is smooth already")
	}
	return sol.NewState(st.Time, particles)
}

// RemeshRecovery runs the remeshing service
type RemeshRecovery struct {
	Remesher Remesher
}

// Name returns "remesh"
func (o RemeshRecovery) Name() string { return "remesh" }

// Recover returns the remeshed state. Fails if the number of nodes did not change
func (o RemeshRecovery) Recover(st *sol.State) (*sol.State, error) {
	next, err := o.Remesher.Remesh(st)
	if err != nil {
		return nil, err
	}
	if next.Nnodes() == st.Nnodes() {
		return nil, chk.Err("remeshing did not change the node rings")
	}
	return next, nil
}

// scaleOf returns a length scale of a state
func scaleOf(st *sol.State) float64 {
	return math.Sqrt(st.Area())
}
