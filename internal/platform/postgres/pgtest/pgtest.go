// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

// Package pgtest starts a disposable PostgreSQL for integration tests and
// applies the real migrations to it.
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/yamdb/internal/platform/migration"
	platformpg "github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

const image = "postgres:16-alpine"

// Start runs a container, migrates it and returns a pool. Everything is torn
// down through t.Cleanup.
func Start(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase("yamdb"),
		postgres.WithUsername("yamdb"),
		postgres.WithPassword("yamdb"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	require.NoError(t, migration.RunUp(dsn, migrationsDir(), logger), "apply migrations")

	pool, err := platformpg.NewPool(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// CreateUser inserts a verified account with role and returns it.
func CreateUser(t *testing.T, pool *pgxpool.Pool, username string, role sec.UserRole) *auth.User {
	t.Helper()
	user := &auth.User{
		ID:         uuid.New(),
		Username:   username,
		Email:      username + "@yamdb.test",
		Role:       role,
		IsVerified: true,
	}
	require.NoError(t, auth.InsertUser(context.Background(), pool, user))
	return user
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}
