package main

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/vidmin/vidmin/internal/config"
	"github.com/vidmin/vidmin/internal/db"
	"github.com/vidmin/vidmin/internal/gateway"
	"github.com/vidmin/vidmin/internal/logger"
	"github.com/vidmin/vidmin/internal/roots"
)

// initLogger builds the root logger from config. initConfig must run first.
func initLogger() hclog.Logger {
	return logger.Init(logger.Options{
		Level: config.GetString("log.level"),
		JSON:  config.GetBool("log.json"),
	})
}

// initSystemDB opens the history and download database
func initSystemDB() error {
	dbType := config.GetString("database.type")
	dbPath := config.GetString("database.path")
	if dbType == "sqlite" {
		dbPath = config.GetPath("database.path")
	}

	return db.InitDB(dbType, dbPath)
}

// openGateway computes the allowed roots and builds the gateway around them.
// It logs through the root logger, which stays silent until initLogger runs.
func openGateway() (*gateway.Gateway, error) {
	allowed, err := roots.Discover(config.GetStringSlice("gateway.extra_roots"))
	if err != nil {
		return nil, fmt.Errorf("failed to compute allowed roots: %w", err)
	}

	return gateway.New(allowed,
		gateway.WithScheme(config.GetString("gateway.scheme")),
		gateway.WithLogger(logger.Named("gateway")),
	)
}
