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
	"math/rand/v2"
	"os"
	"time"

	"github.com/consensys/sboxeq/pkg/sbox"
	"github.com/consensys/sboxeq/pkg/sboxfile"
	"github.com/spf13/cobra"
)

var genCmd = &cobra.Command{
	Use:   "gen [flags] (perm|func|linear|affine)",
	Short: "Generate a random S-box.",
	Long: `Generate a random permutation, function, linear permutation or affine
	permutation.  With --relate, a random linear (or affine) pair A, B is instead
	applied to the given table, producing B∘T∘A.  The result is printed as a table
	or, with --name, as an S-box file entry.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		seed := GetUint64(cmd, "seed")
		if !cmd.Flags().Changed("seed") {
			seed = uint64(time.Now().UnixNano())
		}
		//
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		//
		s, err := generate(args[0], GetUint(cmd, "bits"), GetUint(cmd, "out-bits"), GetString(cmd, "relate"), rng)
		if err != nil {
			fail(err)
		}
		//
		if name := GetString(cmd, "name"); name != "" {
			if err := sboxfile.Write(cmd.OutOrStdout(), []sboxfile.Named{{Name: name, SBox: s}}); err != nil {
				fail(err)
			}
			//
			return
		}
		//
		fmt.Fprintln(cmd.OutOrStdout(), s.String())
	},
}

// Generate an s-box of the given kind.  Related s-boxes are only meaningful
// for the linear and affine kinds.
func generate(kind string, bits, outBits uint, relate string, rng *rand.Rand) (*sbox.SBox, error) {
	var random func(uint, *rand.Rand) *sbox.SBox
	//
	if relate == "" && (bits == 0 || bits > sbox.MaxBits || outBits > sbox.MaxBits) {
		return nil, fmt.Errorf("invalid s-box size %d -> %d bits", bits, outBits)
	}
	//
	switch kind {
	case "perm":
		random = sbox.RandomPermutation
	case "func":
		if relate == "" {
			if outBits == 0 {
				outBits = bits
			}
			//
			return sbox.RandomFunction(bits, outBits, rng), nil
		}
	case "linear":
		random = sbox.RandomLinearPermutation
	case "affine":
		random = sbox.RandomAffinePermutation
	default:
		return nil, fmt.Errorf("unknown kind of s-box %q", kind)
	}
	//
	if relate == "" {
		return random(bits, rng), nil
	} else if kind != "linear" && kind != "affine" {
		return nil, fmt.Errorf("cannot relate using %s maps", kind)
	}
	//
	t, err := sbox.Parse(relate, outBits)
	if err != nil {
		return nil, err
	}
	// B∘T∘A
	inner, err := t.Compose(random(t.InBits(), rng))
	if err != nil {
		return nil, err
	}
	//
	return random(t.OutBits(), rng).Compose(inner)
}

func init() {
	rootCmd.AddCommand(genCmd)
	genCmd.Flags().Uint("bits", 4, "input size (in bits)")
	genCmd.Flags().Uint("out-bits", 0, "output size (in bits) of functions, or of the related table")
	genCmd.Flags().Uint64("seed", 0, "seed for the random number generator (default is time based)")
	genCmd.Flags().String("relate", "", "table to which random maps are applied")
	genCmd.Flags().String("name", "", "print as a named s-box file entry")
}
