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
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/consensys/sboxeq/pkg/sbox"
	"github.com/consensys/sboxeq/pkg/util/termio"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [flags] (--s1 table | sbox_file name)",
	Short: "Report the properties of an S-box.",
	Long: `Report the properties of an S-box which are preserved (or not) by linear and
	affine equivalence.  For linear S-boxes the matrix is printed as well, along
	with its rank and, when invertible, its inverse and multiplicative order.`,
	Run: func(cmd *cobra.Command, args []string) {
		input := readInputs(cmd, args, 1)[0]
		out := cmd.OutOrStdout()
		ansi := GetFlag(cmd, "ansi-escapes")
		//
		props, err := describe(input.SBox)
		if err != nil {
			fail(err)
		}
		//
		printProperties(out, props, ansi)
		//
		if input.SBox.IsLinear() {
			printLinearMap(out, input.SBox, ansi)
		}
	},
}

// A named property of an s-box.
type property struct {
	name  string
	value string
}

func describe(s *sbox.SBox) ([]property, error) {
	props := []property{
		{"bits", fmt.Sprintf("%d -> %d", s.InBits(), s.OutBits())},
		{"permutation", yesNo(s.IsPermutation())},
		{"involution", yesNo(s.IsInvolution())},
		{"linear", yesNo(s.IsLinear())},
		{"affine", yesNo(s.IsAffine())},
		{"preimages", preimageString(s)},
	}
	//
	if !s.IsLinear() {
		return props, nil
	}
	//
	m, err := s.Matrix()
	if err != nil {
		return nil, err
	}
	//
	props = append(props, property{"rank", fmt.Sprintf("%d", m.Rank())})
	//
	if s.IsPermutation() {
		order, err := m.Order()
		if err != nil {
			return nil, err
		}
		//
		props = append(props, property{"order", fmt.Sprintf("%d", order)})
	}
	//
	return props, nil
}

// Render the preimage structure as "size×count" terms in ascending size.
func preimageString(s *sbox.SBox) string {
	structure := s.PreimageStructure()
	terms := make([]string, 0, len(structure))
	//
	for _, size := range slices.Sorted(maps.Keys(structure)) {
		terms = append(terms, fmt.Sprintf("%d×%d", size, structure[size]))
	}
	//
	return strings.Join(terms, " ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	//
	return "no"
}

func printProperties(out io.Writer, props []property, ansi bool) {
	tbl := termio.NewTablePrinter(2, uint(len(props)))
	tbl.AnsiEscapes(ansi)
	//
	for i, p := range props {
		tbl.SetRow(uint(i), p.name, p.value)
	}
	//
	for row := uint(0); row < tbl.Height(); row++ {
		tbl.SetEscape(0, row, termio.BoldAnsiEscape())
	}
	//
	tbl.Print(out)
}

func printLinearMap(out io.Writer, s *sbox.SBox, ansi bool) {
	m, err := s.Matrix()
	if err != nil {
		fail(err)
	}
	//
	printMatrix(out, "M", m, ansi)
	//
	if inv, err := m.Inverse(); err == nil {
		printMatrix(out, "M⁻¹", inv, ansi)
	}
}

func init() {
	rootCmd.AddCommand(infoCmd)
	addInputFlags(infoCmd, 1)
}
