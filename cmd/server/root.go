package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/smarttodo/smarttodo-api/internal/config"
	"github.com/smarttodo/smarttodo-api/internal/platform/logger"
	"github.com/smarttodo/smarttodo-api/internal/platform/sqlstore"
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "smarttodo-api",
		Short:         "Smart Todo API server",
		Long:          "HTTP API for tasks, context notes and AI-assisted prioritisation.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a config file (default: ./config.yaml if present)")

	root.AddCommand(newServeCmd(&configFile), newMigrateCmd(&configFile))
	return root
}

// bootstrap loads configuration, sets up the logger and opens the database.
func bootstrap(ctx context.Context, configFile string) (*config.Config, *slog.Logger, *sql.DB, sqlstore.Dialect, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, nil, "", fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, nil, "", fmt.Errorf("failed to set up logger: %w", err)
	}

	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, nil, nil, "", err
	}

	db, err := sqlstore.Open(ctx, dialect, cfg.Database.URL, log)
	if err != nil {
		return nil, nil, nil, "", err
	}

	return cfg, log, db, dialect, nil
}
