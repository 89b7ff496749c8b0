// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/vidmin/vidmin/internal/config"
	"github.com/vidmin/vidmin/internal/db"
	"github.com/vidmin/vidmin/internal/download"
	"github.com/vidmin/vidmin/internal/logger"
	"github.com/vidmin/vidmin/internal/models"
)

var (
	downloadDir     string
	downloadFormat  string
	downloadCookies string
)

var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Download a video into an allowed directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		initLogger()

		if err := initSystemDB(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		g, err := openGateway()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		manager := download.NewManager(config.GetString("downloads.binary"),
			download.WithLogger(logger.Named("download")),
			download.WithDB(db.GetDB()),
			download.WithAuthorizer(g.Authorizer().AllowedDir),
			download.WithDefaultDir(config.GetPath("downloads.dir")),
			download.WithOnUpdate(printProgress),
		)

		id, err := manager.Start(download.Options{
			URL:                args[0],
			OutputDir:          downloadDir,
			Format:             downloadFormat,
			CookiesFromBrowser: downloadCookies,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), terminationSignals()...)
		defer stop()
		go func() {
			<-ctx.Done()
			_ = manager.Cancel(id)
		}()

		manager.Wait()
		fmt.Println()

		d, _ := manager.Get(id)
		switch d.Status {
		case models.DownloadCompleted:
			fmt.Printf("Downloaded %s\n", d.Filename)
		case models.DownloadCanceled:
			fmt.Println("Download canceled")
			os.Exit(1)
		default:
			fmt.Fprintf(os.Stderr, "Error: %s\n", d.Error)
			os.Exit(1)
		}
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats <url>",
	Short: "List the formats available for a URL",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		manager := download.NewManager(config.GetString("downloads.binary"))
		formats, err := manager.FetchFormats(cmd.Context(), args[0], downloadCookies)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%-10s %-6s %-12s %-12s %s\n", "ID", "EXT", "RESOLUTION", "SIZE", "NOTE")
		for _, f := range formats {
			fmt.Printf("%-10s %-6s %-12s %-12s %s\n", f.FormatID, f.Ext, f.Resolution, formatSize(f.Filesize), f.FormatNote)
		}
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the downloader binary is usable",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		status := download.CheckBinary(config.GetString("downloads.binary"))
		if !status.Found {
			fmt.Fprintf(os.Stderr, "Error: %s\n", status.Error)
			os.Exit(1)
		}
		fmt.Printf("yt-dlp found at %s\n", status.Path)
	},
}

func printProgress(d models.Download) {
	if d.Status != models.DownloadDownloading {
		return
	}
	fmt.Printf("\r%5.1f%%  %10s/s  ETA %4ds", d.Progress, formatSize(int64(d.Speed)), d.ETA)
}

func formatSize(n int64) string {
	const unit = 1024
	if n <= 0 {
		return "-"
	}
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	downloadCmd.Flags().StringVar(&downloadDir, "dir", "", "Output directory (default downloads.dir)")
	downloadCmd.Flags().StringVar(&downloadFormat, "format", "", "Preferred yt-dlp format id")
	downloadCmd.PersistentFlags().StringVar(&downloadCookies, "cookies-from-browser", "", "Browser to read cookies from")
	downloadCmd.AddCommand(formatsCmd)
	downloadCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(downloadCmd)
}
