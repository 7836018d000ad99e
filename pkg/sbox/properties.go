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

// IsLinear checks whether this S-box is a GF(2)-linear map.
func (p *SBox) IsLinear() bool {
	return p.table[0] == 0 && p.IsAffine()
}

// IsAffine checks whether this S-box is a GF(2)-affine map.  The affine map
// determined by the images of zero and of the unit vectors is rebuilt, one
// doubling at a time, and compared against the table.
func (p *SBox) IsAffine() bool {
	a := p.table[0]
	//
	for i := uint(0); i < p.inBits; i++ {
		var (
			half  = uint(1) << i
			delta = p.table[half] ^ a
		)
		//
		for x := uint(0); x < half; x++ {
			if p.table[half+x] != p.table[x]^delta {
				return false
			}
		}
	}
	//
	return true
}

// PreimageStructure returns, for each preimage size k >= 1, the number of output
// values with exactly k preimages.  This is invariant under affine equivalence.
func (p *SBox) PreimageStructure() map[uint]uint {
	structure := make(map[uint]uint)
	//
	for _, xs := range p.preimages {
		if len(xs) > 0 {
			structure[uint(len(xs))]++
		}
	}
	//
	return structure
}

// IsInvolution checks whether this S-box is its own inverse.
func (p *SBox) IsInvolution() bool {
	if p.inverse == nil {
		return false
	}
	//
	for x, y := range p.table {
		if p.table[y] != uint(x) {
			return false
		}
	}
	//
	return true
}
