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
	"slices"

	"github.com/consensys/sboxeq/pkg/util/collection/bit"
	"github.com/consensys/sboxeq/pkg/util/collection/queue"
)

// Marks an argument whose value is not yet known.
const unknown = ^uint(0)

// Identifies the map being constructed on each side of the relation
// s2 = B ∘ s1 ∘ A.
const (
	// Input-side map A, acting on the domain of s1.
	sideA uint8 = 0
	// Output-side map B, acting on the codomain of s1.
	sideB uint8 = 1
)

// A partial bijection under construction.
type partialMap struct {
	// Value assigned to each argument, or unknown.
	known []uint
	// Arguments with known values, in the order they were learned.
	order []uint
	// Arguments whose values are not yet known.
	unknownArgs *bit.Set
	// Values not yet assigned to any argument.
	unusedValues *bit.Set
}

func newPartialMap(size uint) partialMap {
	known := make([]uint, size)
	//
	for i := range known {
		known[i] = unknown
	}
	// Linear maps fix zero.
	known[0] = 0
	args := bit.NewFullSet(size)
	args.Remove(0)
	values := bit.NewFullSet(size)
	values.Remove(0)
	//
	return partialMap{known, []uint{0}, args, values}
}

func (p *partialMap) clone() partialMap {
	return partialMap{
		slices.Clone(p.known),
		slices.Clone(p.order),
		p.unknownArgs.Clone(),
		p.unusedValues.Clone(),
	}
}

func (p *partialMap) complete() bool {
	return len(p.order) == len(p.known)
}

// Identifies a learned pair awaiting propagation.
type entry struct {
	side uint8
	arg  uint
}

// A pair (arg -> val) on some side.
type pair struct {
	arg uint
	val uint
}

// state is the partial assignment of a single search node: the two partial
// maps A and B, the pairs awaiting propagation and (for non-permutations only)
// the set of values still allowed for each argument of A.
type state struct {
	search *searcher
	sides  [2]partialMap
	queue  *queue.Queue[entry]
	// Candidate values of A per argument, or nil when unconstrained.  Sets are
	// never modified once recorded, hence clones share them.  Always nil for
	// the permutation variant.
	candidates []*bit.Set
	depth      uint
}

func newState(search *searcher) *state {
	st := &state{
		search: search,
		sides:  [2]partialMap{newPartialMap(search.s1.Size()), newPartialMap(search.s1.OutSize())},
		queue:  queue.NewQueue[entry](),
	}
	//
	if search.generic {
		st.candidates = make([]*bit.Set, search.s1.Size())
	}
	//
	return st
}

// Duplicate this state for a guess, such that the copy shares no mutable data
// with the original.  This is only called at a fixed point, hence the queue is
// empty.
func (p *state) clone() *state {
	if !p.queue.IsEmpty() {
		panic("cloning state with pending propagation")
	}
	//
	return &state{
		search:     p.search,
		sides:      [2]partialMap{p.sides[sideA].clone(), p.sides[sideB].clone()},
		queue:      queue.NewQueue[entry](),
		candidates: slices.Clone(p.candidates),
		depth:      p.depth + 1,
	}
}

// Learn that arg maps to val on the given side.  This fails if arg is already
// mapped elsewhere, if val is already claimed by another argument, or if val is
// not a candidate for arg.  Relearning a known pair succeeds without effect.
// New pairs are queued for propagation when requested.
func (p *state) learn(side uint8, arg uint, val uint, queued bool) bool {
	sd := &p.sides[side]
	//
	if cur := sd.known[arg]; cur != unknown {
		return cur == val
	} else if !sd.unusedValues.Contains(val) {
		return false
	} else if side == sideA && p.candidates != nil {
		if c := p.candidates[arg]; c != nil && !c.Contains(val) {
			return false
		}
	}
	//
	sd.known[arg] = val
	sd.order = append(sd.order, arg)
	sd.unknownArgs.Remove(arg)
	sd.unusedValues.Remove(val)
	//
	if queued {
		p.queue.Push(entry{side, arg})
	}
	//
	return true
}

func (p *state) complete() bool {
	return p.sides[sideA].complete() && p.sides[sideB].complete()
}
