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
	"fmt"

	"github.com/consensys/sboxeq/pkg/sbox"
	lru "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"
)

// Kind identifies which equivalence relation a Classifier uses.
type Kind uint8

const (
	// Linear equivalence: s2 = B ∘ s1 ∘ A.
	Linear Kind = iota
	// Affine equivalence: linear equivalence up to XOR shifts.
	Affine
)

func (k Kind) String() string {
	if k == Affine {
		return "affine"
	}
	//
	return "linear"
}

// Class is a group of mutually equivalent s-boxes.  The first member is the
// representative against which later s-boxes were compared.
type Class struct {
	Members []string
}

// Representative returns the name of the first member of this class.
func (p Class) Representative() string {
	return p.Members[0]
}

// Classifier partitions s-boxes into equivalence classes.  Pairwise verdicts are
// cached, keyed by the tables involved, so repeated tables (or repeated
// classifications) do not repeat searches.
type Classifier struct {
	kind  Kind
	opts  []Option
	cache *lru.ARCCache
}

// NewClassifier constructs a classifier for the given equivalence relation,
// caching up to cacheSize pairwise verdicts.  The options are passed to every
// search.
func NewClassifier(kind Kind, cacheSize int, opts ...Option) (*Classifier, error) {
	cache, err := lru.NewARC(cacheSize)
	if err != nil {
		return nil, err
	}
	//
	return &Classifier{kind, opts, cache}, nil
}

// Equivalent determines whether two s-boxes are equivalent under this
// classifier's relation.  S-boxes of different sizes are never equivalent.
func (p *Classifier) Equivalent(s1, s2 *sbox.SBox) (bool, error) {
	if s1.InBits() != s2.InBits() || s1.OutBits() != s2.OutBits() {
		return false, nil
	}
	//
	key := fingerprint(s1) + "|" + fingerprint(s2)
	//
	if verdict, ok := p.cache.Get(key); ok {
		return verdict.(bool), nil
	}
	//
	var (
		verdict bool
		err     error
	)
	//
	switch p.kind {
	case Linear:
		var r *LinearResult
		r, err = LinearEquivalent(s1, s2, p.opts...)
		verdict = r != nil
	case Affine:
		var r *AffineResult
		r, err = AffineEquivalent(s1, s2, p.opts...)
		verdict = r != nil
	default:
		panic("unknown equivalence kind")
	}
	//
	if err != nil {
		return false, err
	}
	//
	p.cache.Add(key, verdict)
	//
	return verdict, nil
}

// Classify partitions the given named s-boxes into equivalence classes.  Classes
// appear in order of their representatives, and members in input order.
func (p *Classifier) Classify(names []string, boxes []*sbox.SBox) ([]Class, error) {
	var (
		classes []Class
		reps    []*sbox.SBox
	)
	//
	if len(names) != len(boxes) {
		return nil, fmt.Errorf("%d names given for %d s-boxes", len(names), len(boxes))
	}
	//
	for i, s := range boxes {
		placed := false
		//
		for j, rep := range reps {
			eq, err := p.Equivalent(rep, s)
			if err != nil {
				return nil, fmt.Errorf("comparing %s with %s: %w", classes[j].Representative(), names[i], err)
			}
			//
			if eq {
				classes[j].Members = append(classes[j].Members, names[i])
				placed = true
				//
				break
			}
		}
		//
		if !placed {
			log.Debugf("%s starts new %s class", names[i], p.kind)
			classes = append(classes, Class{[]string{names[i]}})
			reps = append(reps, s)
		}
	}
	//
	return classes, nil
}

func fingerprint(s *sbox.SBox) string {
	return fmt.Sprintf("%d:%d:%s", s.InBits(), s.OutBits(), s.HexString())
}
