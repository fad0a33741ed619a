// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package commands defines the yamdbctl command tree.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	databaseURL   string
	migrationPath string
	verbose       bool
}

func (options *globalOptions) logger() *slog.Logger {
	level := slog.LevelInfo
	if options.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", "yamdbctl"))
}

// NewRootCommand builds the yamdbctl command tree.
func NewRootCommand() *cobra.Command {
	options := &globalOptions{}

	root := &cobra.Command{
		Use:           "yamdbctl",
		Short:         "Operator tooling for the YaMDb API",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&options.databaseURL, "db", os.Getenv("DATABASE_URL"), "PostgreSQL URL (defaults to $DATABASE_URL)")
	flags.StringVar(&options.migrationPath, "migrations", envOr("MIGRATION_PATH", "./data/migrations"), "Directory holding the SQL migrations")
	flags.BoolVarP(&options.verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(newMigrateCommand(options), newCreateSuperuserCommand(options))
	return root
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
