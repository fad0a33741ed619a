// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/migration"
)

var errDatabaseURLRequired = errors.New("a database URL is required (--db or DATABASE_URL)")

func newMigrateCommand(options *globalOptions) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if options.databaseURL == "" {
				return errDatabaseURLRequired
			}
			return migration.RunUp(options.databaseURL, options.migrationPath, options.logger())
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Long: `Roll back applied migrations.

Examples:
  yamdbctl migrate down --steps 1   # Roll back the last migration
  yamdbctl migrate down --all       # Drop the whole schema`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if options.databaseURL == "" {
				return errDatabaseURLRequired
			}
			all, _ := cmd.Flags().GetBool("all")
			if !all && steps <= 0 {
				return errors.New("pass --steps N or --all")
			}
			if all {
				steps = 0
			}
			return migration.RunDown(options.databaseURL, options.migrationPath, steps, options.logger())
		},
	}
	down.Flags().IntVar(&steps, "steps", 0, "Number of migrations to roll back")
	down.Flags().Bool("all", false, "Roll back every migration")
	down.MarkFlagsMutuallyExclusive("steps", "all")

	migrate.AddCommand(up, down)
	return migrate
}
