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
package bit

import (
	"fmt"
	"iter"
	"math/bits"
	"slices"
	"strings"
)

// Set provides a straightforward bitset implementation. That is, a set of
// (unsigned) integer values implemented as an array of bits.  Sets used by the
// equivalence search are sized once for a fixed universe (e.g. 2^n inputs), but
// insertion beyond the current size still grows the set.
type Set struct {
	words []uint64
}

// NewSet creates an empty Set able to hold the values 0..size-1 without
// growing.
func NewSet(size uint) *Set {
	return &Set{make([]uint64, (size+63)/64)}
}

// NewFullSet creates a Set holding every value 0..size-1.
func NewFullSet(size uint) *Set {
	set := NewSet(size)
	//
	for i := range set.words {
		set.words[i] = ^uint64(0)
	}
	// Clear bits beyond the universe
	if rem := size % 64; rem != 0 {
		set.words[len(set.words)-1] = (uint64(1) << rem) - 1
	}
	//
	return set
}

// Clone creates a true copy of this bitset which ensures no aliasing between
// this set and the result.
func (p *Set) Clone() *Set {
	return &Set{slices.Clone(p.words)}
}

// Insert a given value into this set.
func (p *Set) Insert(val uint) {
	word := val / 64
	bit := val % 64
	//
	for uint(len(p.words)) <= word {
		p.words = append(p.words, 0)
	}
	// Set bit
	p.words[word] |= uint64(1) << bit
}

// InsertAll inserts zero or more elements into this bitset.
func (p *Set) InsertAll(vals ...uint) {
	for _, v := range vals {
		p.Insert(v)
	}
}

// Remove a given value from this set.
func (p *Set) Remove(val uint) {
	word := val / 64
	// Check whether we need to do anything.
	if uint(len(p.words)) > word {
		p.words[word] &^= uint64(1) << (val % 64)
	}
}

// Contains checks whether a given value is contained, or not.
func (p *Set) Contains(val uint) bool {
	word := val / 64
	//
	if uint(len(p.words)) <= word {
		return false
	}
	//
	return p.words[word]&(uint64(1)<<(val%64)) != 0
}

// Count returns the number of bits in the bitset which are set to one.
func (p *Set) Count() uint {
	count := 0
	//
	for _, w := range p.words {
		count += bits.OnesCount64(w)
	}
	//
	return uint(count)
}

// IsEmpty checks whether this set contains no values.
func (p *Set) IsEmpty() bool {
	for _, w := range p.words {
		if w != 0 {
			return false
		}
	}
	//
	return true
}

// Min returns the smallest value in this set, or false if the set is empty.
func (p *Set) Min() (uint, bool) {
	for i, w := range p.words {
		if w != 0 {
			return uint(i*64 + bits.TrailingZeros64(w)), true
		}
	}
	//
	return 0, false
}

// Union inserts all elements from a given bitset into this bitset, return true
// if there is some change.
func (p *Set) Union(other *Set) bool {
	changed := false
	//
	for len(p.words) < len(other.words) {
		p.words = append(p.words, 0)
	}
	//
	for w := range other.words {
		tmp := p.words[w] | other.words[w]
		changed = changed || tmp != p.words[w]
		p.words[w] = tmp
	}
	//
	return changed
}

// Intersect removes all elements from this bitset which are not in the given
// bitset, returning true if there is some change.
func (p *Set) Intersect(other *Set) bool {
	changed := false
	//
	for w := range p.words {
		var tmp uint64
		//
		if w < len(other.words) {
			tmp = p.words[w] & other.words[w]
		}
		//
		changed = changed || tmp != p.words[w]
		p.words[w] = tmp
	}
	//
	return changed
}

// IntersectCount returns the size of the intersection of this set with another,
// without modifying either.
func (p *Set) IntersectCount(other *Set) uint {
	count := 0
	n := min(len(p.words), len(other.words))
	//
	for w := 0; w < n; w++ {
		count += bits.OnesCount64(p.words[w] & other.words[w])
	}
	//
	return uint(count)
}

// Equal checks whether two sets hold exactly the same values.  Trailing zero
// words are ignored.
func (p *Set) Equal(other *Set) bool {
	n := max(len(p.words), len(other.words))
	//
	for w := 0; w < n; w++ {
		if p.word(w) != other.word(w) {
			return false
		}
	}
	//
	return true
}

// All returns an iterator over the values of this set in ascending order.  The
// set must not be modified during iteration.
func (p *Set) All() iter.Seq[uint] {
	return func(yield func(uint) bool) {
		for i, w := range p.words {
			for w != 0 {
				tz := bits.TrailingZeros64(w)
				//
				if !yield(uint(i*64 + tz)) {
					return
				}
				// Clear lowest set bit
				w &= w - 1
			}
		}
	}
}

// Values returns the values of this set as a slice in ascending order.
func (p *Set) Values() []uint {
	values := make([]uint, 0, p.Count())
	//
	for v := range p.All() {
		values = append(values, v)
	}
	//
	return values
}

func (p *Set) word(i int) uint64 {
	if i < len(p.words) {
		return p.words[i]
	}
	//
	return 0
}

func (p *Set) String() string {
	var (
		builder strings.Builder
		first   = true
	)
	//
	builder.WriteString("[")
	//
	for value := range p.All() {
		if !first {
			builder.WriteString(", ")
		}
		//
		first = false
		//
		builder.WriteString(fmt.Sprintf("%d", value))
	}
	//
	builder.WriteString("]")
	//
	return builder.String()
}
