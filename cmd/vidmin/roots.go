package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "List the directories the gateway may serve from",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		g, err := openGateway()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		for _, root := range g.Authorizer().Roots() {
			status := "ok"
			if info, err := os.Stat(root); err != nil || !info.IsDir() {
				status = "missing"
			}
			fmt.Printf("%-8s %s\n", status, root)
		}
	},
}

func init() {
	rootCmd.AddCommand(rootsCmd)
}
