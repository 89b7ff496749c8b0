// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vidmin",
	Short: "vidmin - local media gateway for the vidmin player",
	Long: `vidmin serves video files from your own media directories to the
vidmin player over a custom URL scheme, with HTTP byte-range support so the
player can seek without reading whole files.

Only files under the allowed roots (Videos, Downloads, home, Desktop,
Documents and any configured extras) are ever served.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
