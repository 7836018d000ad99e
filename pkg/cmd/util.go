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
package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/consensys/sboxeq/pkg/equiv"
	"github.com/consensys/sboxeq/pkg/metrics"
	"github.com/consensys/sboxeq/pkg/sbox"
	"github.com/consensys/sboxeq/pkg/sboxfile"
	"github.com/consensys/sboxeq/pkg/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint64 gets an expected 64-bit unsigned integer flag, or exits if an
// error arises.
func GetUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Report a fatal problem and exit.
func fail(err error) {
	log.Error(err)
	os.Exit(2)
}

// Read the n s-boxes a command operates on.  These are given either inline
// (--s1, --s2) or as a file followed by the names of the s-boxes within it.
func readInputs(cmd *cobra.Command, args []string, n int) []sboxfile.Named {
	flags := []string{"s1", "s2"}[:n]
	texts := make([]string, 0, n)
	//
	for _, flag := range flags {
		if text := GetString(cmd, flag); text != "" {
			texts = append(texts, text)
		}
	}
	//
	switch {
	case len(texts) == n && len(args) == 0:
		boxes, err := parseTables(texts, GetUint(cmd, "out-bits"))
		if err != nil {
			fail(err)
		}
		//
		named := make([]sboxfile.Named, n)
		for i := range boxes {
			named[i] = sboxfile.Named{Name: flags[i], SBox: boxes[i]}
		}
		//
		return named
	case len(texts) == 0 && len(args) == n+1:
		boxes, err := sboxfile.Load(args[0])
		if err != nil {
			fail(err)
		}
		//
		named := make([]sboxfile.Named, n)
		//
		for i, name := range args[1:] {
			s, err := sboxfile.Lookup(boxes, name)
			if err != nil {
				fail(err)
			}
			//
			named[i] = sboxfile.Named{Name: name, SBox: s}
		}
		//
		return named
	}
	//
	fmt.Println(cmd.UsageString())
	os.Exit(1)
	// unreachable
	return nil
}

// Parse inline tables.  Unless an output size is given, all tables are widened
// to the largest inferred output size, so that e.g. a table whose top output
// bit is never set still matches its counterpart.
func parseTables(texts []string, outBits uint) ([]*sbox.SBox, error) {
	boxes := make([]*sbox.SBox, len(texts))
	//
	for i, text := range texts {
		s, err := sbox.Parse(text, outBits)
		if err != nil {
			return nil, err
		}
		//
		boxes[i] = s
	}
	//
	if outBits != 0 {
		return boxes, nil
	}
	//
	width := slices.MaxFunc(boxes, func(l, r *sbox.SBox) int { return int(l.OutBits()) - int(r.OutBits()) }).OutBits()
	//
	for i, s := range boxes {
		if s.OutBits() != width {
			widened, err := sbox.New(s.Table(), s.InBits(), width)
			if err != nil {
				return nil, err
			}
			//
			boxes[i] = widened
		}
	}
	//
	return boxes, nil
}

// Search options common to all search commands.
func searchOptions(cmd *cobra.Command, stats *equiv.Stats) []equiv.Option {
	return []equiv.Option{
		equiv.WithStats(stats),
		equiv.WithNodeLimit(GetUint64(cmd, "limit")),
	}
}

// Record a completed search in the metrics registry and debug log.
func observe(kind string, stats equiv.Stats, perf *util.PerfStats) {
	metrics.Observe(kind, stats, perf.Elapsed())
	perf.Log(fmt.Sprintf("%s search (%d nodes)", kind, stats.Nodes))
}

// Add the flags used to give s-boxes inline.
func addInputFlags(cmd *cobra.Command, n int) {
	cmd.Flags().String("s1", "", "first s-box table (e.g. \"5,6,3,2,1,7,0,4\")")
	//
	if n > 1 {
		cmd.Flags().String("s2", "", "second s-box table")
	}
	//
	cmd.Flags().Uint("out-bits", 0, "output size of inline tables (inferred if zero)")
}
