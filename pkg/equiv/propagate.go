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

// Propagate all queued pairs to a fixed point.  Each dequeued pair forces its
// dual on the opposite side, and its XOR-combinations with every known pair on
// the same side (whose duals are forced in turn).  Returns false on
// contradiction.
func (p *state) propagate() bool {
	for !p.queue.IsEmpty() {
		e := p.queue.Pop()
		val := p.sides[e.side].known[e.arg]
		//
		if !p.learnDual(e.side, e.arg, val) {
			return false
		}
		// learn horizontally (same side)
		for _, next := range p.expandHorizontal(e.side, e.arg, val) {
			if !p.learn(e.side, next.arg, next.val, false) || !p.learnDual(e.side, next.arg, next.val) {
				return false
			}
		}
	}
	//
	return true
}

// Learn the consequence on the opposite side of a pair on the given side
// (vertical propagation).
func (p *state) learnDual(side uint8, arg uint, val uint) bool {
	if side == sideA {
		d := p.dual(side, arg, val)
		return p.learn(sideB, d.arg, d.val, true)
	} else if p.search.generic {
		// B cannot be pulled back through s1 and s2; constrain A instead.
		return p.reduceFromOut(arg, val)
	}
	//
	d := p.dual(side, arg, val)
	//
	return p.learn(sideA, d.arg, d.val, true)
}

// Determine the pair forced on the opposite side by s2 ∘ A = B ∘ s1.  From
// A(arg) = val we get B(s1(val)) = s2(arg), whilst from B(arg) = val we get
// A(s2⁻¹(val)) = s1⁻¹(arg).  The latter requires both s-boxes to be
// permutations.
func (p *state) dual(side uint8, arg uint, val uint) pair {
	s := p.search
	//
	if side == sideA {
		return pair{s.s1.Apply(val), s.s2.Apply(arg)}
	}
	//
	return pair{s.s2inv[val], s.s1inv[arg]}
}

// Determine the pairs forced on a side by linearity, given a newly learned pair
// (arg -> val).  When few pairs are known, every known pair (a -> b) yields
// (arg⊕a -> val⊕b).  Otherwise, it is cheaper to scan the unknown arguments u
// and yield (u -> val⊕B(arg⊕u)) whenever arg⊕u is known.  The result is a
// snapshot, so learning from it does not disturb the iteration.
func (p *state) expandHorizontal(side uint8, arg uint, val uint) []pair {
	var (
		sd     = &p.sides[side]
		result []pair
	)
	//
	if 2*len(sd.order) < len(sd.known) {
		result = make([]pair, 0, len(sd.order))
		//
		for _, a := range sd.order {
			if a != 0 && a != arg {
				result = append(result, pair{arg ^ a, val ^ sd.known[a]})
			}
		}
	} else {
		for u := range sd.unknownArgs.All() {
			if b := sd.known[arg^u]; b != unknown {
				result = append(result, pair{u, val ^ b})
			}
		}
	}
	//
	return result
}

// Constrain A using a pair B(arg) = val, for the generic variant.  Since
// s2 = B ∘ s1 ∘ A, every input x with s2(x) = val must satisfy s1(A(x)) = arg,
// i.e. A maps the preimages of val under s2 bijectively onto the preimages of
// arg under s1.  Thus, the two preimage sets must have equal size, and each x
// gets the preimages of arg under s1 as its candidates.  Since preimage sets of
// distinct outputs are disjoint, narrowing an existing candidate set either
// leaves it unchanged or empties it.
func (p *state) reduceFromOut(arg uint, val uint) bool {
	var (
		s    = p.search
		pre1 = s.s1.Preimages(arg)
		pre2 = s.s2.Preimages(val)
	)
	//
	if len(pre1) != len(pre2) {
		return false
	} else if len(pre2) == 0 {
		return true
	}
	//
	candidates := s.preimageSet(arg)
	//
	for _, x := range pre2 {
		if cur := p.candidates[x]; cur != nil {
			if cur != candidates && !cur.Equal(candidates) {
				return false
			}
			//
			continue
		}
		//
		p.candidates[x] = candidates
		//
		if a := p.sides[sideA].known[x]; a != unknown {
			if !candidates.Contains(a) {
				return false
			}
		} else if len(pre1) == 1 && !p.learn(sideA, x, pre1[0], true) {
			return false
		}
	}
	//
	return true
}
