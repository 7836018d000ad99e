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
	"errors"
	"fmt"
	"maps"

	"github.com/consensys/sboxeq/pkg/gf2"
	"github.com/consensys/sboxeq/pkg/sbox"
	log "github.com/sirupsen/logrus"
)

// ErrShapeMismatch is returned when two s-boxes with different input or output
// sizes are compared.
var ErrShapeMismatch = errors.New("s-box sizes differ")

// ErrBudgetExceeded is returned when a search visits more nodes than permitted
// by WithNodeLimit.
var ErrBudgetExceeded = errors.New("search node budget exceeded")

// LinearResult is a witness of linear equivalence: invertible linear maps A and
// B such that s2(x) = B(s1(A(x))) for all x.
type LinearResult struct {
	A *sbox.SBox
	B *sbox.SBox
}

// Matrices returns the GF(2) matrices of A and B.
func (p LinearResult) Matrices() (gf2.Matrix, gf2.Matrix) {
	a, errA := p.A.Matrix()
	b, errB := p.B.Matrix()
	//
	if errA != nil || errB != nil {
		panic("witness is not linear")
	}
	//
	return a, b
}

// XorEquivalent determines whether two s-boxes differ only by XOR constants,
// i.e. whether there are cx and cy such that s1(x) = cy ⊕ s2(x ⊕ cx) for all x.
// The smallest such cx is returned, and ok reports whether any exist.
func XorEquivalent(s1, s2 *sbox.SBox) (cx uint, cy uint, ok bool, err error) {
	if err := checkShapes(s1, s2); err != nil {
		return 0, 0, false, err
	}
	//
	for cx = 0; cx < s1.Size(); cx++ {
		cy = s1.Apply(0) ^ s2.Apply(cx)
		//
		if xorMatches(s1, s2, cx, cy) {
			return cx, cy, true, nil
		}
	}
	//
	return 0, 0, false, nil
}

func xorMatches(s1, s2 *sbox.SBox, cx, cy uint) bool {
	for x := uint(1); x < s1.Size(); x++ {
		if s1.Apply(x)^s2.Apply(x^cx) != cy {
			return false
		}
	}
	//
	return true
}

// LinearEquivalent searches for invertible linear maps A and B such that
// s2 = B ∘ s1 ∘ A.  It returns nil (without error) when there are none.
func LinearEquivalent(s1, s2 *sbox.SBox, opts ...Option) (*LinearResult, error) {
	results, err := linearSearch(s1, s2, newConfig(opts), false)
	//
	if err != nil || len(results) == 0 {
		return nil, err
	}
	//
	return &results[0], nil
}

// AllLinearEquivalences returns every pair of invertible linear maps (A, B)
// such that s2 = B ∘ s1 ∘ A.
func AllLinearEquivalences(s1, s2 *sbox.SBox, opts ...Option) ([]LinearResult, error) {
	return linearSearch(s1, s2, newConfig(opts), true)
}

// SelfEquivalences returns every pair of invertible linear maps (A, B) such that
// s = B ∘ s ∘ A.  There is always at least one, namely the identity pair.
func SelfEquivalences(s *sbox.SBox, opts ...Option) ([]LinearResult, error) {
	return AllLinearEquivalences(s, s, opts...)
}

func linearSearch(s1, s2 *sbox.SBox, cfg *config, findAll bool) ([]LinearResult, error) {
	if err := checkShapes(s1, s2); err != nil {
		return nil, err
	} else if !maps.Equal(s1.PreimageStructure(), s2.PreimageStructure()) {
		log.Debug("preimage structures differ, no linear equivalence possible")
		return nil, nil
	}
	//
	search := newSearcher(s1, s2, cfg, findAll)
	//
	if log.IsLevelEnabled(log.DebugLevel) {
		variant := "permutation"
		if search.generic {
			variant = "generic"
		}
		//
		log.Debugf("linear equivalence search (%s variant) on %d -> %d bits", variant, s1.InBits(), s1.OutBits())
	}
	//
	if root, ok := search.seed(); ok {
		search.explore(root)
	}
	//
	cfg.record(search.stats)
	log.Debugf("visited %d nodes (%d conflicts, max depth %d), found %d solutions", search.stats.Nodes,
		search.stats.Conflicts, search.stats.MaxDepth, search.stats.Solutions)
	//
	if search.err != nil {
		return nil, search.err
	}
	//
	return search.results, nil
}

func checkShapes(s1, s2 *sbox.SBox) error {
	if s1 == nil || s2 == nil {
		return errors.New("missing s-box")
	} else if s1.InBits() != s2.InBits() || s1.OutBits() != s2.OutBits() {
		return fmt.Errorf("%w (%d -> %d bits vs %d -> %d bits)", ErrShapeMismatch,
			s1.InBits(), s1.OutBits(), s2.InBits(), s2.OutBits())
	}
	//
	return nil
}
