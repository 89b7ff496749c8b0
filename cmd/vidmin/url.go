package main

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vidmin/vidmin/internal/config"
	"github.com/vidmin/vidmin/internal/handlers"
	"github.com/vidmin/vidmin/internal/media"
)

var urlHTTP bool

var urlCmd = &cobra.Command{
	Use:   "url <file>",
	Short: "Print the playback URL for a local file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		path, err := filepath.Abs(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(playbackURL(config.GetString("gateway.scheme"), path, urlHTTP))
	},
}

// playbackURL renders either the custom-scheme URL or its loopback HTTP twin
func playbackURL(scheme, path string, overHTTP bool) string {
	u := media.FileURL(scheme, path)
	if !overHTTP {
		return u
	}

	host := net.JoinHostPort(config.GetString("server.host"), strconv.Itoa(config.GetInt("server.port")))
	return "http://" + host + handlers.MediaMount + strings.TrimPrefix(u, scheme+":")
}

func init() {
	urlCmd.Flags().BoolVar(&urlHTTP, "http", false, "Print the loopback HTTP URL instead of the custom scheme")
	rootCmd.AddCommand(urlCmd)
}
