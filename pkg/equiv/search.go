// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package equiv

import (
	"github.com/consensys/sboxeq/pkg/sbox"
	"github.com/consensys/sboxeq/pkg/util/collection/bit"
)

// searcher holds everything shared by the nodes of one linear equivalence
// search: the two s-boxes (read-only), derived lookup tables, the accepted
// results and the search statistics.
type searcher struct {
	s1, s2 *sbox.SBox
	// Inverse tables (permutation variant only).
	s1inv, s2inv []uint
	// Whether either s-box is not a permutation.
	generic bool
	findAll bool
	cfg     *config
	// Lazily constructed preimage sets of s1 (generic variant only).
	preSets []*bit.Set
	results []LinearResult
	stats   Stats
	err     error
}

func newSearcher(s1, s2 *sbox.SBox, cfg *config, findAll bool) *searcher {
	s := &searcher{s1: s1, s2: s2, findAll: findAll, cfg: cfg}
	//
	if s1.IsPermutation() && s2.IsPermutation() {
		s.s1inv = invertTable(s1)
		s.s2inv = invertTable(s2)
	} else {
		s.generic = true
		s.preSets = make([]*bit.Set, s1.OutSize())
	}
	//
	return s
}

// Construct the root state.  The zero vector is fixed by both maps, which
// forces B(s1(0)) = s2(0) and, for permutations, A(s2⁻¹(0)) = s1⁻¹(0).  For
// the generic variant, the preimages of zero constrain A instead.  Returns
// false if the seed pairs are already contradictory.
func (p *searcher) seed() (*state, bool) {
	st := newState(p)
	//
	if !st.learn(sideB, p.s1.Apply(0), p.s2.Apply(0), true) {
		return nil, false
	} else if p.generic {
		return st, st.reduceFromOut(0, 0)
	}
	//
	return st, st.learn(sideA, p.s2inv[0], p.s1inv[0], true)
}

// Explore the subtree rooted at a given state, returning true if the search
// should stop (i.e. a witness was accepted and only one is required, or the
// search was aborted).
func (p *searcher) explore(st *state) bool {
	if !p.cfg.visit() {
		p.err = ErrBudgetExceeded
		return true
	}
	//
	p.stats.Nodes++
	p.stats.MaxDepth = max(p.stats.MaxDepth, st.depth)
	//
	if !st.propagate() {
		p.stats.Conflicts++
		return false
	} else if st.complete() {
		return p.verify(st)
	}
	// Propagation stalled, so guess.
	side, arg, values := st.branch()
	//
	for _, val := range values {
		child := st.clone()
		//
		if !child.learn(side, arg, val, true) {
			p.stats.Conflicts++
		} else if p.explore(child) {
			return true
		}
	}
	//
	return false
}

// Check a complete assignment and record it if both maps are linear and the
// relation s2 = B ∘ s1 ∘ A holds everywhere.
func (p *searcher) verify(st *state) bool {
	a, errA := sbox.New(st.sides[sideA].known, p.s1.InBits(), p.s1.InBits())
	b, errB := sbox.New(st.sides[sideB].known, p.s1.OutBits(), p.s1.OutBits())
	//
	if errA != nil || errB != nil {
		panic("internal failure")
	} else if !a.IsLinear() || !b.IsLinear() {
		p.stats.Conflicts++
		return false
	}
	//
	for x := uint(0); x < p.s1.Size(); x++ {
		if b.Apply(p.s1.Apply(a.Apply(x))) != p.s2.Apply(x) {
			p.stats.Conflicts++
			return false
		}
	}
	//
	p.results = append(p.results, LinearResult{a, b})
	p.stats.Solutions++
	//
	return !p.findAll
}

// Preimages of a given output of s1 as a set.  Sets are shared between states
// and must not be modified.
func (p *searcher) preimageSet(y uint) *bit.Set {
	if p.preSets[y] == nil {
		set := bit.NewSet(p.s1.Size())
		set.InsertAll(p.s1.Preimages(y)...)
		p.preSets[y] = set
	}
	//
	return p.preSets[y]
}

// Choose the next guess for a stalled state: the side and argument to fix, and
// the values to try (in ascending order).  Arguments of A are chosen first.
// Without candidate sets, the smallest unknown argument is used.  Otherwise,
// the argument with the fewest remaining candidates is chosen (ties broken by
// the smallest argument), to minimise branching.  Once A is complete, the
// smallest unknown argument of B is used; this arises when s1 is not
// surjective.
func (p *state) branch() (uint8, uint, []uint) {
	var (
		sa = &p.sides[sideA]
		sb = &p.sides[sideB]
	)
	//
	if sa.complete() {
		arg, _ := sb.unknownArgs.Min()
		return sideB, arg, sb.unusedValues.Values()
	} else if p.candidates == nil {
		arg, _ := sa.unknownArgs.Min()
		return sideA, arg, sa.unusedValues.Values()
	}
	//
	var (
		best      uint
		bestCount = unknown
		unused    = sa.unusedValues.Count()
	)
	//
	for x := range sa.unknownArgs.All() {
		count := unused
		//
		if c := p.candidates[x]; c != nil {
			count = c.IntersectCount(sa.unusedValues)
		}
		//
		if count < bestCount {
			best, bestCount = x, count
		}
	}
	//
	if c := p.candidates[best]; c != nil {
		values := c.Clone()
		values.Intersect(sa.unusedValues)
		//
		return sideA, best, values.Values()
	}
	//
	return sideA, best, sa.unusedValues.Values()
}

func invertTable(s *sbox.SBox) []uint {
	inv, err := s.Invert()
	if err != nil {
		panic("internal failure")
	}
	//
	return inv.Table()
}
