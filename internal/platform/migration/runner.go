// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration runs the SQL files under data/migrations with golang-migrate.
//
// The API server applies pending migrations at startup; yamdbctl exposes
// up and down for operators.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers the "pgx5" scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// step moves the schema and returns migrate.ErrNoChange when nothing happened.
type step func(*migrate.Migrate) error

// RunUp applies every pending migration.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	return execute(dsn, migrationsPath, "up", logger, (*migrate.Migrate).Up)
}

// RunDown rolls back steps migrations. steps <= 0 rolls back everything.
func RunDown(dsn string, migrationsPath string, steps int, logger *slog.Logger) error {
	if steps <= 0 {
		return execute(dsn, migrationsPath, "down_all", logger, (*migrate.Migrate).Down)
	}
	return execute(dsn, migrationsPath, "down", logger, func(migrator *migrate.Migrate) error {
		return migrator.Steps(-steps)
	})
}

func execute(dsn, migrationsPath, direction string, logger *slog.Logger, apply step) error {
	logger = logger.With(slog.String("direction", direction), slog.String("source", migrationsPath))

	migrator, err := migrate.New("file://"+migrationsPath, pgx5URL(dsn))
	if err != nil {
		return fmt.Errorf("migration: open %s: %w", migrationsPath, err)
	}
	defer closeMigrator(migrator, logger)

	migrator.Log = slogAdapter{logger: logger}

	before, err := schemaVersion(migrator)
	if err != nil {
		return err
	}

	logger.Info("schema_migration_begin", slog.Uint64("version", uint64(before)))

	switch err := apply(migrator); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("schema_migration_noop", slog.Uint64("version", uint64(before)))
		return nil
	case err != nil:
		return fmt.Errorf("migration: %s from version %d: %w", direction, before, err)
	}

	after, err := schemaVersion(migrator)
	if err != nil {
		return err
	}
	logger.Info("schema_migration_done",
		slog.Uint64("from", uint64(before)),
		slog.Uint64("to", uint64(after)),
	)
	return nil
}

// schemaVersion returns the applied version, 0 for a fresh database. A dirty
// version is an error: a previous run failed halfway and needs an operator.
func schemaVersion(migrator *migrate.Migrate) (uint, error) {
	version, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("migration: read version: %w", err)
	case dirty:
		return 0, fmt.Errorf("migration: version %d is dirty, fix it and force the version before retrying", version)
	}
	return version, nil
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceErr, databaseErr := migrator.Close()
	if err := errors.Join(sourceErr, databaseErr); err != nil {
		logger.Warn("schema_migration_close_failed", slog.Any("error", err))
	}
}

// pgx5URL rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme
// registered by the driver import above.
func pgx5URL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(dsn, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// slogAdapter satisfies migrate.Logger.
type slogAdapter struct {
	logger *slog.Logger
}

func (adapter slogAdapter) Printf(format string, args ...any) {
	adapter.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (adapter slogAdapter) Verbose() bool {
	return adapter.logger.Enabled(context.Background(), slog.LevelDebug)
}
