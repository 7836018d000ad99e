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
	"math/rand/v2"

	"github.com/consensys/sboxeq/pkg/gf2"
)

// RandomPermutation generates a uniformly random permutation on n-bit values.
func RandomPermutation(n uint, rng *rand.Rand) *SBox {
	table := Identity(n).table
	//
	rng.Shuffle(len(table), func(i, j int) {
		table[i], table[j] = table[j], table[i]
	})
	//
	return MustNew(table, n, n)
}

// RandomFunction generates a uniformly random function from n-bit to m-bit
// values.
func RandomFunction(n, m uint, rng *rand.Rand) *SBox {
	table := make([]uint, uint(1)<<n)
	//
	for x := range table {
		table[x] = rng.UintN(uint(1) << m)
	}
	//
	return MustNew(table, n, m)
}

// RandomLinearPermutation generates a uniformly random invertible linear map
// on n-bit values.
func RandomLinearPermutation(n uint, rng *rand.Rand) *SBox {
	return MustNew(gf2.RandomInvertible(n, rng).Table(), n, n)
}

// RandomAffinePermutation generates a uniformly random invertible affine map on
// n-bit values.
func RandomAffinePermutation(n uint, rng *rand.Rand) *SBox {
	linear := RandomLinearPermutation(n, rng)
	//
	return linear.Xor(0, rng.UintN(linear.OutSize()))
}
