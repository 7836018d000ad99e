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
	"strings"

	"github.com/consensys/sboxeq/pkg/equiv"
	"github.com/consensys/sboxeq/pkg/gf2"
	"github.com/consensys/sboxeq/pkg/util/termio"
)

// Print a matrix as a grid of bits, with set bits highlighted.
func printMatrix(out io.Writer, name string, m gf2.Matrix, ansi bool) {
	tbl := termio.NewTablePrinter(m.Cols(), m.Rows())
	tbl.SetSeparator("")
	tbl.AnsiEscapes(ansi)
	//
	for i := uint(0); i < m.Rows(); i++ {
		for j := uint(0); j < m.Cols(); j++ {
			if m.Get(i, j) {
				tbl.Set(j, i, "1")
				tbl.SetEscape(j, i, termio.NewAnsiEscape().FgColour(termio.TERM_GREEN))
			} else {
				tbl.Set(j, i, "0")
			}
		}
	}
	//
	fmt.Fprintf(out, "%s =\n", name)
	tbl.Print(out)
}

func printLinearResult(out io.Writer, r equiv.LinearResult, ansi bool) {
	a, b := r.Matrices()
	//
	printMatrix(out, "A", a, ansi)
	printMatrix(out, "B", b, ansi)
}

func printAffineResult(out io.Writer, r equiv.AffineResult, ansi bool) {
	fmt.Fprintf(out, "XA = %#x\n", r.XA)
	printLinearResult(out, equiv.LinearResult{A: r.A, B: r.B}, ansi)
	fmt.Fprintf(out, "XB = %#x\n", r.XB)
}

// Print the members of each class, one class per row.
func printClasses(out io.Writer, classes []equiv.Class, ansi bool) {
	tbl := termio.NewTablePrinter(3, uint(len(classes))+1)
	tbl.AnsiEscapes(ansi)
	tbl.SetRow(0, "class", "size", "members")
	//
	for i := uint(0); i < tbl.Width(); i++ {
		tbl.SetEscape(i, 0, termio.BoldAnsiEscape())
	}
	//
	for i, c := range classes {
		row := uint(i) + 1
		tbl.SetRow(row, fmt.Sprintf("#%d", i+1), fmt.Sprintf("%d", len(c.Members)), strings.Join(c.Members, ", "))
		tbl.SetEscape(2, row, termio.NewAnsiEscape().FgColour(termio.TERM_BLUE))
	}
	//
	tbl.Print(out)
}
