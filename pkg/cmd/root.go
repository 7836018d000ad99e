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
	"net"
	"os"
	"runtime/debug"

	"github.com/consensys/sboxeq/pkg/metrics"
	"github.com/consensys/sboxeq/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled when building with make, but *not* when installing via "go
// install".
var Version string

// Listener for the metrics endpoint (if enabled)
var metricsListener net.Listener

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sboxeq",
	Short: "Linear and affine equivalence of S-boxes.",
	Long: `Decide whether two S-boxes are linearly or affinely equivalent and, if so,
	report the witnessing transformations.  Also classifies collections of S-boxes
	and generates random test instances.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure log level
		if GetFlag(cmd, "debug") {
			log.SetLevel(log.DebugLevel)
		}
		//
		if addr := GetString(cmd, "metrics-addr"); addr != "" {
			l, err := metrics.Start(addr)
			if err != nil {
				log.Errorf("cannot serve metrics: %s", err)
				os.Exit(2)
			}
			//
			metricsListener = l
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if metricsListener != nil {
			_ = metricsListener.Close()
			metricsListener = nil
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if !GetFlag(cmd, "version") {
			fmt.Fprintln(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		//
		out := cmd.OutOrStdout()
		fmt.Fprint(out, "sboxeq ")
		//
		if Version != "" {
			// Built via "make"
			fmt.Fprintf(out, "%s", Version)
		} else if info, ok := debug.ReadBuildInfo(); ok {
			// Built via "go install"
			fmt.Fprintf(out, "%s", info.Main.Version)
		} else {
			// Unknown, perhaps "go run"
			fmt.Fprintf(out, "(unknown version)")
		}
		//
		fmt.Fprintln(out)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "Report version of this executable")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().String("metrics-addr", "", "serve prometheus metrics at host:port while running")
	rootCmd.PersistentFlags().Bool("ansi-escapes", termio.IsTerminal(os.Stdout), "use ANSI escapes (e.g. colour) in output")
}
