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
	"github.com/consensys/sboxeq/pkg/sbox"
	"github.com/consensys/sboxeq/pkg/sboxfile"
	"github.com/consensys/sboxeq/pkg/util"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [flags] sbox_file",
	Short: "Partition the S-boxes of a file into equivalence classes.",
	Long: `Partition the S-boxes defined in a given file into linear (or, with
	--affine, affine) equivalence classes.`,
	Run: func(cmd *cobra.Command, args []string) {
		var stats equiv.Stats
		//
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		kind := equiv.Linear
		if GetFlag(cmd, "affine") {
			kind = equiv.Affine
		}
		//
		boxes, err := sboxfile.Load(args[0])
		if err != nil {
			fail(err)
		}
		//
		opts := append(searchOptions(cmd, &stats), equiv.WithWorkers(GetUint(cmd, "workers")))
		//
		classifier, err := equiv.NewClassifier(kind, int(GetUint(cmd, "cache")), opts...)
		if err != nil {
			fail(err)
		}
		//
		names := make([]string, len(boxes))
		sboxes := make([]*sbox.SBox, len(boxes))
		//
		for i, n := range boxes {
			names[i], sboxes[i] = n.Name, n.SBox
		}
		//
		perf := util.NewPerfStats()
		classes, err := classifier.Classify(names, sboxes)
		//
		observe(kind.String(), stats, perf)
		//
		if err != nil {
			fail(err)
		}
		//
		printClasses(cmd.OutOrStdout(), classes, GetFlag(cmd, "ansi-escapes"))
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().Bool("affine", false, "classify up to affine (rather than linear) equivalence")
	classifyCmd.Flags().Uint("cache", 1024, "number of pairwise verdicts to cache")
	classifyCmd.Flags().Uint64("limit", 0, "maximum number of search nodes per comparison (0 for unbounded)")
	classifyCmd.Flags().Uint("workers", 1, "number of shifts searched in parallel (0 for one per CPU)")
}
