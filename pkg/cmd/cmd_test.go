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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/sboxeq/pkg/equiv"
	"github.com/consensys/sboxeq/pkg/sbox"
	"github.com/consensys/sboxeq/pkg/sboxfile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const table = "5,6,3,2,1,7,0,4"

func Test_Cmd_Version(t *testing.T) {
	out := check_Run(t, "--version")
	assert.True(t, strings.HasPrefix(out, "sboxeq "))
}

func Test_Cmd_Xor(t *testing.T) {
	s2 := sbox.MustNew([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3).Xor(3, 5)
	out := check_Run(t, "xor", "--s1", table, "--s2", s2.String())
	//
	assert.True(t, strings.HasPrefix(out, "s2(x) = s1(x ^ "))
}

func Test_Cmd_Linear(t *testing.T) {
	out := check_Run(t, "linear", "--ansi-escapes=false", "--s1", table, "--s2", "5,6,4,0,3,2,7,1")
	//
	assert.True(t, strings.HasPrefix(out, "s2 = B∘s1∘A\nA =\n"))
	assert.Contains(t, out, "B =\n")
}

func Test_Cmd_Linear_Self(t *testing.T) {
	out := check_Run(t, "linear", "--self", "--s1", "0,1,2,3")
	// One pair (A, A⁻¹) for each invertible 2x2 matrix
	assert.Contains(t, out, "[6]\n")
	assert.True(t, strings.HasSuffix(out, "6 equivalence(s)\n"))
}

func Test_Cmd_Linear_File(t *testing.T) {
	path := check_WriteFile(t, []sboxfile.Named{
		{Name: "s1", SBox: sbox.MustNew([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3)},
		{Name: "s2", SBox: sbox.MustNew([]uint{5, 6, 4, 0, 3, 2, 7, 1}, 3, 3)},
	})
	out := check_Run(t, "linear", path, "s1", "s2")
	//
	assert.True(t, strings.HasPrefix(out, "s2 = B∘s1∘A\n"))
}

func Test_Cmd_Affine(t *testing.T) {
	s2 := sbox.MustNew([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3).Xor(1, 2)
	out := check_Run(t, "affine", "--workers", "2", "--s1", table, "--s2", s2.String())
	//
	assert.True(t, strings.HasPrefix(out, "s2(x) = B(s1(A(x ^ XA))) ^ XB\nXA = "))
	assert.Contains(t, out, "XB = ")
}

func Test_Cmd_Classify(t *testing.T) {
	path := check_WriteFile(t, []sboxfile.Named{
		{Name: "id", SBox: sbox.Identity(3)},
		{Name: "s1", SBox: sbox.MustNew([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3)},
		{Name: "s2", SBox: sbox.MustNew([]uint{5, 6, 4, 0, 3, 2, 7, 1}, 3, 3)},
	})
	out := check_Run(t, "classify", "--ansi-escapes=false", path)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	//
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "id")
	assert.Contains(t, lines[2], "s1, s2")
}

func Test_Cmd_Info(t *testing.T) {
	out := check_Run(t, "info", "--ansi-escapes=false", "--s1", "0,2,1,3")
	// Swapping two bits is a linear involution.
	assert.Contains(t, out, "  involution |    yes |\n")
	assert.Contains(t, out, "       order |      2 |\n")
	assert.Contains(t, out, "M =\n 0 1\n 1 0\n")
	assert.Contains(t, out, "M⁻¹ =\n")
}

func Test_Cmd_Describe(t *testing.T) {
	props, err := describe(sbox.MustNew([]uint{0, 1, 2, 3, 4, 5, 6, 4}, 3, 3))
	require.NoError(t, err)
	//
	values := make(map[string]string)
	for _, p := range props {
		values[p.name] = p.value
	}
	//
	assert.Equal(t, "3 -> 3", values["bits"])
	assert.Equal(t, "no", values["permutation"])
	assert.Equal(t, "no", values["involution"])
	assert.Equal(t, "no", values["affine"])
	assert.Equal(t, "1×5 2×1", values["preimages"])
	assert.NotContains(t, values, "rank")
	// Linear but not invertible
	props, err = describe(sbox.MustNew([]uint{0, 1, 0, 1}, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, property{"rank", "1"}, props[len(props)-1])
}

func Test_Cmd_Gen(t *testing.T) {
	out := check_Run(t, "gen", "perm", "--bits", "4", "--seed", "7")
	s, err := sbox.Parse(strings.TrimSpace(out), 4)
	require.NoError(t, err)
	assert.True(t, s.IsPermutation())
	// Same seed, same s-box
	assert.Equal(t, out, check_Run(t, "gen", "perm", "--bits", "4", "--seed", "7"))
}

func Test_Cmd_Gen_Relate(t *testing.T) {
	s1 := sbox.MustNew([]uint{5, 6, 3, 2, 1, 7, 0, 4}, 3, 3)
	out := check_Run(t, "gen", "linear", "--relate", table, "--seed", "3")
	//
	s2, err := sbox.Parse(strings.TrimSpace(out), 3)
	require.NoError(t, err)
	//
	r, err := equiv.LinearEquivalent(s1, s2)
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func Test_Cmd_Gen_Named(t *testing.T) {
	out := check_Run(t, "gen", "func", "--bits", "3", "--out-bits", "2", "--name", "f")
	//
	boxes, err := sboxfile.Read(strings.NewReader(out), "generated")
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.Equal(t, "f", boxes[0].Name)
	assert.Equal(t, uint(3), boxes[0].SBox.InBits())
	assert.Equal(t, uint(2), boxes[0].SBox.OutBits())
}

func Test_Cmd_Gen_Invalid(t *testing.T) {
	_, err := generate("perm", 0, 0, "", nil)
	assert.Error(t, err)
	_, err = generate("func", 3, 3, table, nil)
	assert.Error(t, err)
	_, err = generate("bent", 3, 3, "", nil)
	assert.Error(t, err)
}

func Test_Cmd_ParseTables(t *testing.T) {
	// Widened to a common output size
	boxes, err := parseTables([]string{"0,1,2,3", "0,1,1,0"}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(2), boxes[0].OutBits())
	assert.Equal(t, uint(2), boxes[1].OutBits())
	//
	_, err = parseTables([]string{"0,1,2"}, 0)
	assert.Error(t, err)
}

// ============================================================================
// Helpers
// ============================================================================

// Run the command line with the given arguments, returning its output.
func check_Run(t *testing.T, args ...string) string {
	var buf bytes.Buffer
	//
	resetFlags(rootCmd)
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	//
	require.NoError(t, rootCmd.Execute())
	//
	return buf.String()
}

func check_WriteFile(t *testing.T, boxes []sboxfile.Named) string {
	var buf bytes.Buffer
	//
	require.NoError(t, sboxfile.Write(&buf, boxes))
	//
	path := filepath.Join(t.TempDir(), "sboxes.toml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	//
	return path
}

// Flag values persist between executions, so restore the defaults.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	//
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	//
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
