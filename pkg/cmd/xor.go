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
	"github.com/spf13/cobra"
)

var xorCmd = &cobra.Command{
	Use:   "xor [flags] (--s1 table --s2 table | sbox_file name1 name2)",
	Short: "Check whether two S-boxes differ only by XOR constants.",
	Long: `Check whether there exist constants cx and cy such that
	s2(x) = s1(x ^ cx) ^ cy for all x.`,
	Run: func(cmd *cobra.Command, args []string) {
		inputs := readInputs(cmd, args, 2)
		out := cmd.OutOrStdout()
		//
		cx, cy, ok, err := equiv.XorEquivalent(inputs[0].SBox, inputs[1].SBox)
		if err != nil {
			fail(err)
		} else if !ok {
			fmt.Fprintf(out, "%s and %s are not XOR equivalent\n", inputs[0].Name, inputs[1].Name)
			os.Exit(1)
		}
		//
		fmt.Fprintf(out, "%s(x) = %s(x ^ %#x) ^ %#x\n", inputs[1].Name, inputs[0].Name, cx, cy)
	},
}

func init() {
	rootCmd.AddCommand(xorCmd)
	addInputFlags(xorCmd, 2)
}
