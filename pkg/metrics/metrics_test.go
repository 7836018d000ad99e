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
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/consensys/sboxeq/pkg/equiv"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Metrics_Observe(t *testing.T) {
	nodes := testutil.ToFloat64(SearchNodes.WithLabelValues("test"))
	solutions := testutil.ToFloat64(Solutions.WithLabelValues("test"))
	//
	Observe("test", equiv.Stats{Nodes: 7, Conflicts: 2, Solutions: 1}, time.Millisecond)
	Observe("test", equiv.Stats{Nodes: 3}, time.Millisecond)
	//
	assert.Equal(t, nodes+10, testutil.ToFloat64(SearchNodes.WithLabelValues("test")))
	assert.Equal(t, solutions+1, testutil.ToFloat64(Solutions.WithLabelValues("test")))
}

func Test_Metrics_Start(t *testing.T) {
	Observe("served", equiv.Stats{Nodes: 1}, time.Second)
	//
	l, err := Start("127.0.0.1:0")
	require.NoError(t, err)
	//
	defer l.Close()
	//
	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", l.Addr()))
	require.NoError(t, err)
	//
	defer resp.Body.Close()
	//
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `sboxeq_search_nodes_total{kind="served"} 1`))
	assert.True(t, strings.Contains(string(body), "sboxeq_search_duration_seconds_bucket"))
}
