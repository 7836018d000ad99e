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
package sbox

import (
	"errors"
	"fmt"
	"math/bits"
	"slices"
	"strconv"
	"strings"
)

// MaxBits is the largest input or output size (in bits) supported.  Tables are
// held explicitly, so this bounds memory usage rather than correctness.
const MaxBits = 16

// ErrNotInvertible is returned when the inverse of an S-box is requested, but
// the S-box is not a permutation.
var ErrNotInvertible = errors.New("s-box is not invertible")

// SBox is an immutable vectorial Boolean function from n-bit inputs to m-bit
// outputs, given by its truth table.  Derived information (the inverse table for
// permutations, and the preimages of every output) is computed once on
// construction.
type SBox struct {
	table   []uint
	inBits  uint
	outBits uint
	// Inverse table, or nil if this is not a permutation.
	inverse []uint
	// Preimages of each output value, in ascending order.
	preimages [][]uint
}

// New constructs an S-box from a given truth table, which must contain exactly
// 2^inBits entries each of which fits in outBits bits.  The table is copied.
func New(table []uint, inBits, outBits uint) (*SBox, error) {
	if inBits == 0 || outBits == 0 {
		return nil, fmt.Errorf("invalid s-box size %d -> %d bits", inBits, outBits)
	} else if inBits > MaxBits || outBits > MaxBits {
		return nil, fmt.Errorf("s-box size %d -> %d bits exceeds maximum of %d bits", inBits, outBits, MaxBits)
	} else if uint(len(table)) != uint(1)<<inBits {
		return nil, fmt.Errorf("s-box table has %d entries, expected %d", len(table), uint(1)<<inBits)
	}
	//
	limit := uint(1) << outBits
	//
	for x, y := range table {
		if y >= limit {
			return nil, fmt.Errorf("s-box value %d at input %d exceeds %d bits", y, x, outBits)
		}
	}
	//
	s := &SBox{table: slices.Clone(table), inBits: inBits, outBits: outBits}
	s.preimages = computePreimages(s.table, limit)
	s.inverse = computeInverse(s)
	//
	return s, nil
}

// FromTable constructs an S-box from a truth table, inferring its size.  The
// input size is determined by the table length (which must be a power of two
// and at least 2), whilst the output size is the bit length of the largest
// value (at least 1).
func FromTable(table []uint) (*SBox, error) {
	n := uint(len(table))
	//
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("s-box table length %d is not a power of two", n)
	}
	//
	inBits := uint(bits.TrailingZeros(n))
	outBits := uint(bits.Len(slices.Max(table)))
	//
	return New(table, inBits, max(outBits, 1))
}

// MustNew is like New, but panics if the table is malformed.  This is intended
// for constant tables.
func MustNew(table []uint, inBits, outBits uint) *SBox {
	s, err := New(table, inBits, outBits)
	if err != nil {
		panic(err)
	}
	//
	return s
}

// Parse reads an S-box from a comma (or whitespace) separated list of values,
// each given either in decimal or as hex with an "0x" prefix.  If outBits is
// zero, then the output size is inferred.
func Parse(text string, outBits uint) (*SBox, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '[' || r == ']'
	})
	table := make([]uint, len(fields))
	//
	for i, field := range fields {
		var (
			val uint64
			err error
		)
		//
		if strings.HasPrefix(field, "0x") || strings.HasPrefix(field, "0X") {
			val, err = strconv.ParseUint(field[2:], 16, 32)
		} else {
			val, err = strconv.ParseUint(field, 10, 32)
		}
		//
		if err != nil {
			return nil, fmt.Errorf("invalid s-box entry %q at index %d", field, i)
		}
		//
		table[i] = uint(val)
	}
	//
	if outBits == 0 {
		return FromTable(table)
	} else if n := uint(len(table)); n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("s-box table length %d is not a power of two", n)
	}
	//
	return New(table, uint(bits.TrailingZeros(uint(len(table)))), outBits)
}

// InBits returns the number of input bits.
func (p *SBox) InBits() uint {
	return p.inBits
}

// OutBits returns the number of output bits.
func (p *SBox) OutBits() uint {
	return p.outBits
}

// Size returns the number of inputs, i.e. 2^InBits.
func (p *SBox) Size() uint {
	return uint(len(p.table))
}

// OutSize returns the number of possible outputs, i.e. 2^OutBits.
func (p *SBox) OutSize() uint {
	return uint(1) << p.outBits
}

// Apply this S-box to a given input.
func (p *SBox) Apply(x uint) uint {
	return p.table[x]
}

// Inverse returns the unique input mapping to a given output.  This fails with
// ErrNotInvertible unless this S-box is a permutation, and for outputs out of
// range.
func (p *SBox) Inverse(y uint) (uint, error) {
	if p.inverse == nil {
		return 0, ErrNotInvertible
	} else if y >= p.OutSize() {
		return 0, fmt.Errorf("output %d exceeds %d bits", y, p.outBits)
	}
	//
	return p.inverse[y], nil
}

// Preimages returns the inputs mapping to a given output in ascending order.
// The returned slice is shared and must not be modified.
func (p *SBox) Preimages(y uint) []uint {
	return p.preimages[y]
}

// IsPermutation checks whether this S-box is a bijection on n-bit values.
func (p *SBox) IsPermutation() bool {
	return p.inverse != nil
}

// Table returns a copy of the truth table of this S-box.
func (p *SBox) Table() []uint {
	return slices.Clone(p.table)
}

// Equal checks whether two S-boxes have identical sizes and tables.
func (p *SBox) Equal(other *SBox) bool {
	return p.inBits == other.inBits && p.outBits == other.outBits && slices.Equal(p.table, other.table)
}

// String returns the table as a comma-separated list of values, suitable for
// Parse.
func (p *SBox) String() string {
	var builder strings.Builder
	//
	for x, y := range p.table {
		if x != 0 {
			builder.WriteString(",")
		}
		//
		builder.WriteString(fmt.Sprintf("%d", y))
	}
	//
	return builder.String()
}

// HexString returns the table as a sequence of fixed-width hex digits.
func (p *SBox) HexString() string {
	var (
		builder strings.Builder
		width   = int(p.outBits+3) / 4
	)
	//
	for _, y := range p.table {
		builder.WriteString(fmt.Sprintf("%0*x", width, y))
	}
	//
	return builder.String()
}

func computePreimages(table []uint, outSize uint) [][]uint {
	counts := make([]uint, outSize)
	//
	for _, y := range table {
		counts[y]++
	}
	// Carve all preimage lists from a single backing array
	backing := make([]uint, len(table))
	preimages := make([][]uint, outSize)
	offset := uint(0)
	//
	for y, c := range counts {
		preimages[y] = backing[offset : offset : offset+c]
		offset += c
	}
	//
	for x, y := range table {
		preimages[y] = append(preimages[y], uint(x))
	}
	//
	return preimages
}

func computeInverse(s *SBox) []uint {
	if s.inBits != s.outBits {
		return nil
	}
	//
	inverse := make([]uint, len(s.table))
	//
	for y, xs := range s.preimages {
		if len(xs) != 1 {
			return nil
		}
		//
		inverse[y] = xs[0]
	}
	//
	return inverse
}
