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
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/consensys/sboxeq/pkg/sbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Affine_01(t *testing.T) {
	rng := rand.New(rand.NewPCG(31, 32))
	s1 := sbox.MustNew([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3)
	//
	for i := 0; i < 10; i++ {
		a := sbox.RandomAffinePermutation(3, rng)
		b := sbox.RandomAffinePermutation(3, rng)
		//
		check_AffineEquivalent(t, s1, compose(t, b, s1, a), true)
	}
}

func Test_Affine_02(t *testing.T) {
	rng := rand.New(rand.NewPCG(33, 34))
	//
	for n := uint(2); n <= 4; n++ {
		s1 := sbox.RandomFunction(n, n, rng)
		a := sbox.RandomAffinePermutation(n, rng)
		b := sbox.RandomAffinePermutation(n, rng)
		//
		check_AffineEquivalent(t, s1, compose(t, b, s1, a), true)
	}
}

func Test_Affine_Negative(t *testing.T) {
	// Affine equivalence preserves affinity.
	s1 := sbox.Identity(3)
	s2 := sbox.MustNew([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3)
	//
	check_AffineEquivalent(t, s1, s2, false)
}

func Test_Affine_Prefilter(t *testing.T) {
	var stats Stats
	//
	s1 := sbox.Identity(3)
	s2 := sbox.MustNew([]uint{0, 1, 2, 3, 4, 5, 6, 4}, 3, 3)
	//
	r, err := AffineEquivalent(s1, s2, WithStats(&stats))
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.Equal(t, uint64(0), stats.Shifts)
}

// Linearly equivalent s-boxes are found at the zero shift, with the same
// witness as the linear search.
func Test_Affine_ZeroShift(t *testing.T) {
	rng := rand.New(rand.NewPCG(35, 36))
	//
	for i := 0; i < 5; i++ {
		s1 := sbox.RandomPermutation(4, rng)
		s2 := plant(t, s1, rng)
		//
		lin, err := LinearEquivalent(s1, s2)
		require.NoError(t, err)
		require.NotNil(t, lin)
		//
		aff, err := AffineEquivalent(s1, s2)
		require.NoError(t, err)
		require.NotNil(t, aff)
		//
		assert.Equal(t, uint(0), aff.XA)
		assert.Equal(t, uint(0), aff.XB)
		assert.True(t, aff.A.Equal(lin.A))
		assert.True(t, aff.B.Equal(lin.B))
	}
}

func Test_Affine_Parallel(t *testing.T) {
	rng := rand.New(rand.NewPCG(37, 38))
	//
	for i := 0; i < 5; i++ {
		s1 := sbox.RandomPermutation(3, rng)
		s2 := compose(t, sbox.RandomAffinePermutation(3, rng), s1, sbox.RandomAffinePermutation(3, rng))
		//
		r, err := AffineEquivalent(s1, s2, WithWorkers(4))
		require.NoError(t, err)
		require.NotNil(t, r)
		assert.True(t, r.holds(s1, s2))
		//
		seq, err := AllAffineEquivalences(s1, s2)
		require.NoError(t, err)
		par, err := AllAffineEquivalences(s1, s2, WithWorkers(3))
		require.NoError(t, err)
		//
		assert.Equal(t, affineKeys(seq), affineKeys(par))
	}
}

func Test_Affine_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	//
	s1 := sbox.Identity(3)
	s2 := sbox.MustNew([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3)
	//
	_, err := AffineEquivalent(s1, s2, WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
	_, err = AffineEquivalent(s1, s2, WithContext(ctx), WithWorkers(2))
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Affine_Budget(t *testing.T) {
	rng := rand.New(rand.NewPCG(39, 40))
	s1 := sbox.RandomPermutation(5, rng)
	s2 := sbox.RandomPermutation(5, rng)
	//
	_, err := AffineEquivalent(s1, s2, WithNodeLimit(3))
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	_, err = AffineEquivalent(s1, s2, WithNodeLimit(3), WithWorkers(2))
	assert.ErrorIs(t, err, ErrBudgetExceeded)
}

// A witness found by one worker is kept when another worker subsequently
// exhausts the node budget.
func Test_Affine_Parallel_FoundBeforeBudget(t *testing.T) {
	s1 := sbox.MustNew([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3)
	witness := AffineResult{0, sbox.Identity(3), sbox.Identity(3), 0}
	found := []shiftResult{{index: 9, results: []AffineResult{witness}}}
	//
	results, err := collectShifts(found, ErrBudgetExceeded, context.Canceled, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].holds(s1, s1))
	// Enumeration is incomplete, hence fails.
	_, err = collectShifts(found, ErrBudgetExceeded, nil, true)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	// Nothing found
	_, err = collectShifts(nil, ErrBudgetExceeded, nil, false)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
	_, err = collectShifts(nil, nil, context.Canceled, false)
	assert.ErrorIs(t, err, context.Canceled)
	results, err = collectShifts(nil, nil, nil, false)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func Test_Affine_Parallel_Ordered(t *testing.T) {
	id := sbox.Identity(2)
	found := []shiftResult{
		{index: 5, results: []AffineResult{{1, id, id, 0}}},
		{index: 2, results: []AffineResult{{2, id, id, 0}, {3, id, id, 0}}},
	}
	//
	results, err := collectShifts(found, nil, nil, true)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []uint{2, 3, 1}, []uint{results[0].XA, results[1].XA, results[2].XA})
}

func Test_Affine_Shape(t *testing.T) {
	_, err := AffineEquivalent(sbox.Identity(2), sbox.Identity(3))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func Test_Affine_Exhaustive(t *testing.T) {
	var (
		maps  = invertibleMaps(t, 2)
		perms = allFunctions(t, 2, true)
	)
	//
	for _, s1 := range perms {
		for _, s2 := range perms {
			check_AllAffineEquivalences(t, s1, s2, maps)
		}
	}
}

// ============================================================================
// Helpers
// ============================================================================

func check_AffineEquivalent(t *testing.T, s1, s2 *sbox.SBox, expected bool) {
	r, err := AffineEquivalent(s1, s2)
	require.NoError(t, err)
	//
	if !expected {
		assert.Nil(t, r, "unexpected equivalence between %s and %s", s1, s2)
		return
	}
	//
	require.NotNil(t, r, "missing equivalence between %s and %s", s1, s2)
	assert.True(t, r.A.IsLinear())
	assert.True(t, r.B.IsLinear())
	//
	for x := uint(0); x < s1.Size(); x++ {
		assert.Equal(t, s2.Apply(x), r.B.Apply(s1.Apply(r.A.Apply(x^r.XA)))^r.XB)
	}
}

// Check enumeration finds exactly the tuples found by brute force.
func check_AllAffineEquivalences(t *testing.T, s1, s2 *sbox.SBox, maps []*sbox.SBox) {
	results, err := AllAffineEquivalences(s1, s2)
	require.NoError(t, err)
	//
	expected := 0
	//
	for xa := uint(0); xa < s1.Size(); xa++ {
		for xb := uint(0); xb < s1.OutSize(); xb++ {
			for _, a := range maps {
				for _, b := range maps {
					r := AffineResult{xa, a, b, xb}
					if r.holds(s1, s2) {
						expected++
					}
				}
			}
		}
	}
	//
	if len(results) != expected {
		t.Fatalf("found %d affine equivalences between %s and %s, expected %d", len(results), s1, s2, expected)
	}
	//
	for _, r := range results {
		assert.True(t, r.holds(s1, s2))
	}
}

func affineKeys(results []AffineResult) []string {
	keys := make([]string, len(results))
	//
	for i, r := range results {
		keys[i] = fmt.Sprintf("%d/%s/%s/%d", r.XA, r.A, r.B, r.XB)
	}
	//
	return keys
}
