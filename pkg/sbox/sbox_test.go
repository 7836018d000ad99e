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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_SBox_New_01(t *testing.T) {
	s, err := New([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3)
	require.NoError(t, err)
	//
	assert.Equal(t, uint(3), s.InBits())
	assert.Equal(t, uint(3), s.OutBits())
	assert.Equal(t, uint(8), s.Size())
	assert.True(t, s.IsPermutation())
	//
	for x := uint(0); x < s.Size(); x++ {
		y := s.Apply(x)
		inv, err := s.Inverse(y)
		require.NoError(t, err)
		assert.Equal(t, x, inv)
		assert.Equal(t, []uint{x}, s.Preimages(y))
	}
}

func Test_SBox_New_02(t *testing.T) {
	_, err := New([]uint{0, 1, 2}, 2, 2)
	assert.Error(t, err)
	_, err = New([]uint{0, 1, 2, 4}, 2, 2)
	assert.Error(t, err)
	_, err = New([]uint{0, 1}, 0, 1)
	assert.Error(t, err)
	_, err = New(make([]uint, 1<<17), 17, 1)
	assert.Error(t, err)
}

func Test_SBox_NotInvertible(t *testing.T) {
	s := MustNew([]uint{0, 1, 2, 3, 4, 5, 6, 4}, 3, 3)
	//
	assert.False(t, s.IsPermutation())
	_, err := s.Inverse(4)
	assert.ErrorIs(t, err, ErrNotInvertible)
	_, err = s.Invert()
	assert.ErrorIs(t, err, ErrNotInvertible)
	//
	assert.Equal(t, []uint{4, 7}, s.Preimages(4))
	assert.Empty(t, s.Preimages(7))
	assert.Equal(t, map[uint]uint{1: 5, 2: 1}, s.PreimageStructure())
}

func Test_SBox_Inverse_Range(t *testing.T) {
	s := MustNew([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3)
	//
	x, err := s.Inverse(7)
	assert.NoError(t, err)
	assert.Equal(t, uint(5), x)
	//
	_, err = s.Inverse(8)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotInvertible)
}

func Test_SBox_NonSquare(t *testing.T) {
	// Bijective onto its image, but 2 -> 3 bits is never a permutation
	s := MustNew([]uint{0, 1, 2, 3}, 2, 3)
	assert.False(t, s.IsPermutation())
	assert.Equal(t, uint(8), s.OutSize())
}

func Test_SBox_FromTable(t *testing.T) {
	s, err := FromTable([]uint{0, 1, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, uint(2), s.InBits())
	assert.Equal(t, uint(1), s.OutBits())
	//
	s, err = FromTable([]uint{0, 0})
	require.NoError(t, err)
	assert.Equal(t, uint(1), s.OutBits())
	//
	_, err = FromTable([]uint{0, 1, 2})
	assert.Error(t, err)
}

func Test_SBox_Parse(t *testing.T) {
	s, err := Parse("5,6,3,2, 1 7 0 0x4", 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{5, 6, 3, 2, 1, 7, 0, 4}, s.Table())
	assert.Equal(t, "5,6,3,2,1,7,0,4", s.String())
	assert.Equal(t, "56321704", s.HexString())
	//
	s, err = Parse("[0, 1, 1, 0]", 4)
	require.NoError(t, err)
	assert.Equal(t, uint(4), s.OutBits())
	//
	_, err = Parse("1,2,x,3", 0)
	assert.Error(t, err)
}

func Test_SBox_Compose(t *testing.T) {
	s := MustNew([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3)
	inv, err := s.Invert()
	require.NoError(t, err)
	//
	id, err := s.Compose(inv)
	require.NoError(t, err)
	assert.True(t, id.Equal(Identity(3)))
	//
	_, err = s.Compose(MustNew([]uint{0, 1}, 1, 1))
	assert.Error(t, err)
}

func Test_SBox_Xor(t *testing.T) {
	s := MustNew([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3)
	xs := s.Xor(3, 5)
	//
	for x := uint(0); x < 8; x++ {
		assert.Equal(t, s.Apply(x^3)^5, xs.Apply(x))
	}
	//
	assert.True(t, s.Xor(0, 0).Equal(s))
}

func Test_SBox_Linear(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	//
	for i := 0; i < 50; i++ {
		n := uint(1 + i%6)
		lin := RandomLinearPermutation(n, rng)
		aff := RandomAffinePermutation(n, rng)
		//
		assert.True(t, lin.IsLinear())
		assert.True(t, lin.IsAffine())
		assert.True(t, lin.IsPermutation())
		assert.True(t, aff.IsAffine())
		assert.Equal(t, aff.Apply(0) == 0, aff.IsLinear())
		// Round trip through matrix form
		m, err := lin.Matrix()
		require.NoError(t, err)
		back, err := FromMatrix(m)
		require.NoError(t, err)
		assert.True(t, back.Equal(lin))
	}
	//
	assert.False(t, MustNew([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3).IsAffine())
	assert.False(t, MustNew([]uint{1, 0, 3, 2}, 2, 2).IsLinear())
	assert.True(t, MustNew([]uint{1, 0, 3, 2}, 2, 2).IsAffine())
}

func Test_SBox_Random(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	//
	assert.True(t, RandomPermutation(5, rng).IsPermutation())
	//
	f := RandomFunction(4, 2, rng)
	assert.Equal(t, uint(16), f.Size())
	assert.Equal(t, uint(2), f.OutBits())
	assert.False(t, f.IsPermutation())
}

func Test_SBox_Involution(t *testing.T) {
	assert.True(t, MustNew([]uint{1, 0, 3, 2}, 2, 2).IsInvolution())
	assert.False(t, MustNew([]uint{1, 2, 3, 0}, 2, 2).IsInvolution())
}
