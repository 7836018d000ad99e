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
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/consensys/sboxeq/pkg/equiv"
	"github.com/consensys/sboxeq/pkg/util"
	"github.com/spf13/cobra"
)

var affineCmd = &cobra.Command{
	Use:   "affine [flags] (--s1 table --s2 table | sbox_file name1 name2)",
	Short: "Search for an affine equivalence between two S-boxes.",
	Long: `Search for invertible linear maps A and B, together with constants XA and XB,
	such that s2(x) = B(s1(A(x ^ XA))) ^ XB for all x.  Every XOR shift of s1 is
	tested for linear equivalence with s2, optionally using several workers.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			stats   equiv.Stats
			results []equiv.AffineResult
			err     error
		)
		//
		inputs := readInputs(cmd, args, 2)
		all := GetFlag(cmd, "all")
		ansi := GetFlag(cmd, "ansi-escapes")
		// Stop early on interrupt
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		//
		opts := append(searchOptions(cmd, &stats), equiv.WithWorkers(GetUint(cmd, "workers")), equiv.WithContext(ctx))
		perf := util.NewPerfStats()
		//
		if all {
			results, err = equiv.AllAffineEquivalences(inputs[0].SBox, inputs[1].SBox, opts...)
		} else {
			var r *equiv.AffineResult
			//
			if r, err = equiv.AffineEquivalent(inputs[0].SBox, inputs[1].SBox, opts...); r != nil {
				results = append(results, *r)
			}
		}
		//
		observe("affine", stats, perf)
		//
		if err != nil {
			fail(err)
		}
		//
		out := cmd.OutOrStdout()
		//
		if len(results) == 0 {
			fmt.Fprintf(out, "%s and %s are not affine equivalent\n", inputs[0].Name, inputs[1].Name)
			os.Exit(1)
		}
		//
		fmt.Fprintf(out, "%s(x) = B(%s(A(x ^ XA))) ^ XB\n", inputs[1].Name, inputs[0].Name)
		//
		for i, r := range results {
			if all {
				fmt.Fprintf(out, "[%d]\n", i+1)
			}
			//
			printAffineResult(out, r, ansi)
		}
		//
		if all {
			fmt.Fprintf(out, "%d equivalence(s) over %d shifts\n", len(results), stats.Shifts)
		}
	},
}

func init() {
	rootCmd.AddCommand(affineCmd)
	addInputFlags(affineCmd, 2)
	affineCmd.Flags().Bool("all", false, "report all equivalences")
	affineCmd.Flags().Uint64("limit", 0, "maximum number of search nodes (0 for unbounded)")
	affineCmd.Flags().Uint("workers", 1, "number of shifts searched in parallel (0 for one per CPU)")
}
