package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vidmin/vidmin/internal/config"
	"github.com/vidmin/vidmin/internal/db"
	"github.com/vidmin/vidmin/internal/library"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recently opened files",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently opened files, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		store := openLibrary()

		limit := historyLimit
		if limit == 0 {
			limit = config.GetInt("history.limit")
		}

		files, err := store.Recent(limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		for _, f := range files {
			fmt.Printf("%s  %3dx  %s\n", f.LastOpenedAt.Format("2006-01-02 15:04"), f.OpenCount, f.Path)
		}
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every recently opened file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := openLibrary().Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared")
	},
}

var historyForgetCmd = &cobra.Command{
	Use:   "forget <path>",
	Short: "Remove one file from the history",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openLibrary()

		path, err := filepath.Abs(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := store.Forget(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Forgot %s\n", path)
	},
}

var historyImportCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Add the video files of a directory to the history",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := openLibrary()

		dir, err := filepath.Abs(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		count, err := store.ImportDirectory(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d files\n", count)
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Drop entries for missing files and entries past history.limit",
	Run: func(cmd *cobra.Command, args []string) {
		store := openLibrary()

		n, err := store.Prune(config.GetInt("history.limit"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed %d entries\n", n)
	},
}

func openLibrary() *library.Store {
	if err := initConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := initSystemDB(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return library.NewStore(db.GetDB())
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum entries (default history.limit)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyForgetCmd)
	historyCmd.AddCommand(historyImportCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}
