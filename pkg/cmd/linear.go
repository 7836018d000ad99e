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

	"github.com/consensys/sboxeq/pkg/equiv"
	"github.com/consensys/sboxeq/pkg/sboxfile"
	"github.com/consensys/sboxeq/pkg/util"
	"github.com/spf13/cobra"
)

var linearCmd = &cobra.Command{
	Use:   "linear [flags] (--s1 table --s2 table | sbox_file name1 name2)",
	Short: "Search for a linear equivalence between two S-boxes.",
	Long: `Search for invertible linear maps A and B such that s2 = B∘s1∘A, printing
	A and B as matrices over GF(2) when found.  With --self only one S-box is
	read, and its linear self-equivalences are enumerated.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			stats   equiv.Stats
			results []equiv.LinearResult
			err     error
			inputs  []sboxfile.Named
		)
		//
		all := GetFlag(cmd, "all")
		self := GetFlag(cmd, "self")
		ansi := GetFlag(cmd, "ansi-escapes")
		opts := searchOptions(cmd, &stats)
		perf := util.NewPerfStats()
		//
		if self {
			inputs = readInputs(cmd, args, 1)
			inputs = append(inputs, inputs[0])
			results, err = equiv.SelfEquivalences(inputs[0].SBox, opts...)
		} else if inputs = readInputs(cmd, args, 2); all {
			results, err = equiv.AllLinearEquivalences(inputs[0].SBox, inputs[1].SBox, opts...)
		} else {
			var r *equiv.LinearResult
			//
			if r, err = equiv.LinearEquivalent(inputs[0].SBox, inputs[1].SBox, opts...); r != nil {
				results = append(results, *r)
			}
		}
		//
		observe("linear", stats, perf)
		//
		if err != nil {
			fail(err)
		}
		//
		reportLinear(cmd, inputs, results, self || all, ansi)
	},
}

func reportLinear(cmd *cobra.Command, inputs []sboxfile.Named, results []equiv.LinearResult, all bool, ansi bool) {
	out := cmd.OutOrStdout()
	//
	if len(results) == 0 {
		fmt.Fprintf(out, "%s and %s are not linearly equivalent\n", inputs[0].Name, inputs[1].Name)
		os.Exit(1)
	}
	//
	fmt.Fprintf(out, "%s = B∘%s∘A\n", inputs[1].Name, inputs[0].Name)
	//
	for i, r := range results {
		if all {
			fmt.Fprintf(out, "[%d]\n", i+1)
		}
		//
		printLinearResult(out, r, ansi)
	}
	//
	if all {
		fmt.Fprintf(out, "%d equivalence(s)\n", len(results))
	}
}

func init() {
	rootCmd.AddCommand(linearCmd)
	addInputFlags(linearCmd, 2)
	linearCmd.Flags().Bool("all", false, "report all equivalences")
	linearCmd.Flags().Bool("self", false, "enumerate the self-equivalences of a single s-box")
	linearCmd.Flags().Uint64("limit", 0, "maximum number of search nodes (0 for unbounded)")
}
