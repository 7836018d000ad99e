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
package metrics

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/consensys/sboxeq/pkg/equiv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	// Registry holds all metrics exposed by this process (go runtime and
	// search counters).
	Registry = prometheus.NewRegistry()

	// SearchNodes counts search nodes visited, by kind of search.
	SearchNodes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sboxeq_search_nodes_total",
		Help: "Number of search nodes visited",
	}, []string{"kind"})
	// SearchConflicts counts search nodes abandoned after a contradiction.
	SearchConflicts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sboxeq_search_conflicts_total",
		Help: "Number of search nodes abandoned after a contradiction",
	}, []string{"kind"})
	// Solutions counts accepted equivalence witnesses.
	Solutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sboxeq_solutions_total",
		Help: "Number of equivalence witnesses found",
	}, []string{"kind"})
	// SearchDuration records how long each search took.
	SearchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sboxeq_search_duration_seconds",
		Help:    "Histogram of equivalence search durations",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	bindOnce sync.Once
)

func bindMetrics() {
	bindOnce.Do(func() {
		Registry.MustRegister(prometheus.NewGoCollector())
		Registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
		//
		for _, c := range []prometheus.Collector{SearchNodes, SearchConflicts, Solutions, SearchDuration} {
			Registry.MustRegister(c)
		}
	})
}

// Observe records the statistics of one completed search of the given kind
// (e.g. "linear" or "affine").
func Observe(kind string, stats equiv.Stats, duration time.Duration) {
	bindMetrics()
	//
	SearchNodes.WithLabelValues(kind).Add(float64(stats.Nodes))
	SearchConflicts.WithLabelValues(kind).Add(float64(stats.Conflicts))
	Solutions.WithLabelValues(kind).Add(float64(stats.Solutions))
	SearchDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// Handler returns an http handler exposing the registry in the prometheus text
// format.
func Handler() http.Handler {
	bindMetrics()
	//
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// Start serves the registry at /metrics on the given address.  The server runs
// until the returned listener is closed.
func Start(addr string) (net.Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	//
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	//
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	//
	go func() {
		if err := server.Serve(l); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Warnf("metrics server stopped: %s", err)
		}
	}()
	//
	log.Debugf("metrics available at http://%s/metrics", l.Addr())
	//
	return l, nil
}
