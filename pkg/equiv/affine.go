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
	"maps"
	"sort"
	"sync"

	"github.com/consensys/sboxeq/pkg/sbox"
	log "github.com/sirupsen/logrus"
)

// AffineResult is a witness of affine equivalence: invertible linear maps A and
// B, together with constants XA and XB, such that s2(x) = B(s1(A(x⊕XA)))⊕XB
// for all x.
type AffineResult struct {
	XA uint
	A  *sbox.SBox
	B  *sbox.SBox
	XB uint
}

// AffineEquivalent searches for an affine equivalence between two s-boxes.  It
// returns nil (without error) when there is none.  Shifts are tried with the
// zero shift first, so linearly equivalent s-boxes yield XA = XB = 0 (unless
// several workers are used).
func AffineEquivalent(s1, s2 *sbox.SBox, opts ...Option) (*AffineResult, error) {
	results, err := affineSearch(s1, s2, newConfig(opts), false)
	//
	if err != nil || len(results) == 0 {
		return nil, err
	}
	//
	return &results[0], nil
}

// AllAffineEquivalences returns every affine equivalence between two s-boxes,
// ordered by the XOR shift which exposed it.
func AllAffineEquivalences(s1, s2 *sbox.SBox, opts ...Option) ([]AffineResult, error) {
	return affineSearch(s1, s2, newConfig(opts), true)
}

// One XOR shift (a,b) of s1 to be tested for linear equivalence with s2.
type shiftJob struct {
	index uint
	a, b  uint
}

type shiftResult struct {
	index   uint
	results []AffineResult
}

func affineSearch(s1, s2 *sbox.SBox, cfg *config, findAll bool) ([]AffineResult, error) {
	if err := checkShapes(s1, s2); err != nil {
		return nil, err
	} else if !maps.Equal(s1.PreimageStructure(), s2.PreimageStructure()) {
		log.Debug("preimage structures differ, no affine equivalence possible")
		return nil, nil
	}
	//
	log.Debugf("affine equivalence search over %d shifts using %d workers", s1.Size()*s1.OutSize(), cfg.workers)
	//
	if cfg.workers == 1 {
		return affineSequential(s1, s2, cfg, findAll)
	}
	//
	return affineParallel(s1, s2, cfg, findAll)
}

func affineSequential(s1, s2 *sbox.SBox, cfg *config, findAll bool) ([]AffineResult, error) {
	var all []AffineResult
	//
	for a := uint(0); a < s1.Size(); a++ {
		for b := uint(0); b < s1.OutSize(); b++ {
			if err := cfg.ctx.Err(); err != nil {
				return nil, err
			}
			//
			results, err := affineShift(s1, s2, a, b, cfg, findAll)
			if err != nil {
				return nil, err
			}
			//
			all = append(all, results...)
			//
			if !findAll && len(all) > 0 {
				return all, nil
			}
		}
	}
	//
	return all, nil
}

// Search all shifts using a pool of workers fed from a channel.  In find-all
// mode results are gathered and sorted by shift.  Otherwise, the first result
// cancels all remaining work.
func affineParallel(s1, s2 *sbox.SBox, cfg *config, findAll bool) ([]AffineResult, error) {
	var (
		ctx, cancel = context.WithCancel(cfg.ctx)
		jobs        = make(chan shiftJob, cfg.workers*2)
		wg          sync.WaitGroup
		mu          sync.Mutex
		found       []shiftResult
		firstErr    error
	)
	//
	defer cancel()
	//
	for i := uint(0); i < cfg.workers; i++ {
		wg.Add(1)
		//
		go func() {
			defer wg.Done()
			//
			for job := range jobs {
				if ctx.Err() != nil {
					continue
				}
				//
				results, err := affineShift(s1, s2, job.a, job.b, cfg, findAll)
				//
				mu.Lock()
				if err != nil && firstErr == nil && (findAll || len(found) == 0) {
					firstErr = err
					cancel()
				} else if err == nil && len(results) > 0 {
					found = append(found, shiftResult{job.index, results})
					//
					if !findAll {
						cancel()
					}
				}
				mu.Unlock()
			}
		}()
	}
	// Generate work
	index := uint(0)
	//
generate:
	for a := uint(0); a < s1.Size(); a++ {
		for b := uint(0); b < s1.OutSize(); b++ {
			select {
			case <-ctx.Done():
				break generate
			case jobs <- shiftJob{index, a, b}:
				index++
			}
		}
	}
	//
	close(jobs)
	wg.Wait()
	//
	return collectShifts(found, firstErr, cfg.ctx.Err(), findAll)
}

// Combine the results of the shifts searched in parallel, ordered by shift.  A
// single search succeeds as soon as any shift produced a witness, even if
// other workers subsequently failed (e.g. by exhausting the node budget).
func collectShifts(found []shiftResult, firstErr error, ctxErr error, findAll bool) ([]AffineResult, error) {
	if findAll || len(found) == 0 {
		if firstErr != nil {
			return nil, firstErr
		} else if ctxErr != nil {
			return nil, ctxErr
		} else if len(found) == 0 {
			return nil, nil
		}
	}
	//
	sort.Slice(found, func(i, j int) bool { return found[i].index < found[j].index })
	//
	var all []AffineResult
	for _, f := range found {
		all = append(all, f.results...)
	}
	//
	if !findAll {
		return all[:1], nil
	}
	//
	return all, nil
}

// Test whether s1 shifted by (a,b) is linearly equivalent to s2.  Each witness
// (A,B) for x -> s1(x⊕a)⊕b translates into XA = A⁻¹(a) and XB = B(b), since
// B(s1(A(x)⊕a)⊕b) = B(s1(A(x⊕XA)))⊕XB.
func affineShift(s1, s2 *sbox.SBox, a, b uint, cfg *config, findAll bool) ([]AffineResult, error) {
	cfg.record(Stats{Shifts: 1})
	//
	linear, err := linearSearch(s1.Xor(a, b), s2, cfg, findAll)
	if err != nil {
		return nil, err
	}
	//
	results := make([]AffineResult, len(linear))
	//
	for i, r := range linear {
		xa, err := r.A.Inverse(a)
		if err != nil {
			panic("internal failure")
		}
		//
		results[i] = AffineResult{xa, r.A, r.B, r.B.Apply(b)}
		//
		if !results[i].holds(s1, s2) {
			panic("internal failure")
		}
	}
	//
	return results, nil
}

// Check s2(x) = B(s1(A(x⊕XA)))⊕XB for all x.
func (p AffineResult) holds(s1, s2 *sbox.SBox) bool {
	for x := uint(0); x < s1.Size(); x++ {
		if p.B.Apply(s1.Apply(p.A.Apply(x^p.XA)))^p.XB != s2.Apply(x) {
			return false
		}
	}
	//
	return true
}
