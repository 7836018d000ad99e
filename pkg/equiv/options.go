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
	"runtime"
	"sync"
	"sync/atomic"
)

// Stats records how much work an equivalence search performed.
type Stats struct {
	// Number of search nodes visited (the root plus one per guess).
	Nodes uint64
	// Number of nodes abandoned because propagation reached a contradiction, or
	// because a complete candidate failed verification.
	Conflicts uint64
	// Number of accepted witnesses.
	Solutions uint64
	// Deepest guess nesting reached.
	MaxDepth uint
	// Number of XOR shifts tried (affine searches only).
	Shifts uint64
}

func (p *Stats) merge(other Stats) {
	p.Nodes += other.Nodes
	p.Conflicts += other.Conflicts
	p.Solutions += other.Solutions
	p.MaxDepth = max(p.MaxDepth, other.MaxDepth)
	p.Shifts += other.Shifts
}

// Option configures an equivalence search.
type Option func(*config)

// WithNodeLimit bounds the total number of search nodes visited by a single
// call.  Exceeding the limit aborts the search with ErrBudgetExceeded.  Zero
// means unbounded.
func WithNodeLimit(limit uint64) Option {
	return func(c *config) {
		c.nodeLimit = limit
	}
}

// WithWorkers sets the number of goroutines searching XOR shifts in parallel
// during an affine search.  Zero selects one worker per CPU.  Linear searches
// are always sequential.
func WithWorkers(workers uint) Option {
	return func(c *config) {
		c.workers = workers
	}
}

// WithStats requests that search statistics be accumulated into the given
// record.
func WithStats(stats *Stats) Option {
	return func(c *config) {
		c.stats = stats
	}
}

// WithContext supplies a context whose cancellation stops an affine search
// between shifts.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

type config struct {
	nodeLimit uint64
	workers   uint
	stats     *Stats
	ctx       context.Context
	// Shared by all searches arising from one call.
	nodes   atomic.Uint64
	statsMu sync.Mutex
}

func newConfig(opts []Option) *config {
	cfg := &config{workers: 1, ctx: context.Background()}
	//
	for _, opt := range opts {
		opt(cfg)
	}
	//
	if cfg.workers == 0 {
		cfg.workers = uint(runtime.NumCPU())
	}
	//
	return cfg
}

// Record the statistics of one completed search.
func (p *config) record(stats Stats) {
	if p.stats == nil {
		return
	}
	//
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	//
	p.stats.merge(stats)
}

// Count a visited node against the budget, returning false once the budget is
// exhausted.
func (p *config) visit() bool {
	n := p.nodes.Add(1)
	//
	return p.nodeLimit == 0 || n <= p.nodeLimit
}
