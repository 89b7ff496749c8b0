// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/vidmin/vidmin/internal/config"
	"github.com/vidmin/vidmin/internal/db"
	"github.com/vidmin/vidmin/internal/download"
	"github.com/vidmin/vidmin/internal/handlers"
	"github.com/vidmin/vidmin/internal/library"
	"github.com/vidmin/vidmin/internal/logger"
	"github.com/vidmin/vidmin/internal/middleware"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the media gateway",
	Long: `Start the loopback HTTP server that exposes the media gateway under
/media and the player API under /api. Stops on SIGINT/SIGTERM, cancelling
running downloads.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func runServe() error {
	if err := initConfig(); err != nil {
		return err
	}
	log := initLogger()

	if err := initSystemDB(); err != nil {
		return err
	}

	// Roots are computed once; the gateway must exist before the listener
	// accepts anything.
	g, err := openGateway()
	if err != nil {
		return err
	}
	log.Info("gateway ready", "scheme", g.Scheme(), "roots", g.Authorizer().Roots())

	binary := config.GetString("downloads.binary")
	manager := download.NewManager(binary,
		download.WithLogger(logger.Named("download")),
		download.WithDB(db.GetDB()),
		download.WithAuthorizer(g.Authorizer().AllowedDir),
		download.WithDefaultDir(config.GetPath("downloads.dir")),
	)
	if err := manager.Restore(); err != nil {
		log.Warn("failed to restore downloads", "error", err)
	}
	if status := download.CheckBinary(binary); !status.Found {
		log.Warn("downloader unavailable", "binary", binary, "error", status.Error)
	}

	config.Watch(func(name string) {
		log.Info("config file changed; restart to apply", "file", name)
	})

	store := library.NewStore(db.GetDB())
	pruner := library.NewPruner(store, config.GetInt("history.limit"), config.GetDuration("history.prune_interval"), logger.Named("history"))
	prunerDone := pruner.Start()
	defer func() {
		pruner.Stop()
		<-prunerDone
	}()

	limiter := middleware.NewRateLimiter(config.GetInt("downloads.rate_limit"), config.GetDuration("downloads.rate_interval"))
	defer limiter.Stop()

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.Deps{
		Gateway:      g,
		Library:      store,
		Downloads:    manager,
		Binary:       binary,
		HistoryLimit: config.GetInt("history.limit"),
		RateLimiter:  limiter,
		Logger:       logger.Named("http"),
	})

	// Bind first so that a busy port is reported before anything else runs
	addr := net.JoinHostPort(config.GetString("server.host"), strconv.Itoa(config.GetInt("server.port")))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: config.GetDuration("server.read_header_timeout"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), terminationSignals()...)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info("listening", "addr", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		log.Info("shutting down")

		manager.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration("server.shutdown_timeout"))
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
