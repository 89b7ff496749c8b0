package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vidmin/vidmin/internal/gateway"
	"github.com/vidmin/vidmin/internal/media"
)

type probeOutput struct {
	*media.Metadata
	URL     string `json:"url"`
	Allowed bool   `json:"allowed"`
}

var probeCmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "Show metadata for a local video file",
	Args:  cobra.ExactArgs(1),
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

		path, err := filepath.Abs(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		meta, err := media.Probe(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		out := probeOutput{
			Metadata: meta,
			URL:      media.FileURL(g.Scheme(), path),
			Allowed:  isServable(g, path),
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// isServable applies the gateway's two authorization checks
func isServable(g *gateway.Gateway, path string) bool {
	auth := g.Authorizer()
	if !auth.Allowed(path) {
		return false
	}
	resolved, _, err := gateway.ResolveFile(path)
	return err == nil && auth.AllowedReal(resolved)
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
