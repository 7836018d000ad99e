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
	"fmt"

	"github.com/consensys/sboxeq/pkg/gf2"
)

// Identity constructs the identity permutation on n-bit values.
func Identity(n uint) *SBox {
	table := make([]uint, uint(1)<<n)
	//
	for x := range table {
		table[x] = uint(x)
	}
	//
	return MustNew(table, n, n)
}

// FromMatrix constructs the linear S-box described by a given GF(2) matrix.
func FromMatrix(m gf2.Matrix) (*SBox, error) {
	return New(m.Table(), m.Cols(), m.Rows())
}

// Matrix returns the GF(2) matrix of this S-box, which must be linear.
func (p *SBox) Matrix() (gf2.Matrix, error) {
	return gf2.FromTable(p.table, p.inBits, p.outBits)
}

// Compose returns the S-box x -> p(inner(x)).  The output size of inner must
// match the input size of this S-box.
func (p *SBox) Compose(inner *SBox) (*SBox, error) {
	if inner.outBits != p.inBits {
		return nil, fmt.Errorf("cannot compose %d-bit output with %d-bit input", inner.outBits, p.inBits)
	}
	//
	table := make([]uint, inner.Size())
	//
	for x, y := range inner.table {
		table[x] = p.table[y]
	}
	//
	return New(table, inner.inBits, p.outBits)
}

// Invert returns the inverse S-box, or ErrNotInvertible if this is not a
// permutation.
func (p *SBox) Invert() (*SBox, error) {
	if p.inverse == nil {
		return nil, ErrNotInvertible
	}
	//
	return New(p.inverse, p.outBits, p.inBits)
}

// Xor returns the S-box x -> p(x ⊕ in) ⊕ out.
func (p *SBox) Xor(in, out uint) *SBox {
	if in >= p.Size() || out >= p.OutSize() {
		panic(fmt.Sprintf("xor constants (%d, %d) out of range", in, out))
	}
	//
	table := make([]uint, p.Size())
	//
	for x := range table {
		table[x] = p.table[uint(x)^in] ^ out
	}
	//
	return MustNew(table, p.inBits, p.outBits)
}
