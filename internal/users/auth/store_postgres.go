// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] on users.account.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// selectUser is the projection shared by every lookup. Scan with [ScanUser].
var selectUser = fmt.Sprintf("SELECT %s FROM %s",
	strings.Join(schema.UserAccount.Columns(), ", "), schema.UserAccount.Table)

// ScanUser reads a row produced from [schema.UserAccount.Columns].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsSuperuser,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: ValidationError on username/email collisions, Internal otherwise
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	return InsertUser(context, repository.pool, user)
}

// InsertUser writes user with the given executor. Shared with operator tooling.
func InsertUser(context context.Context, executor postgres.Querier, user *User) error {
	columns := schema.UserAccount.Columns()
	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING %s",
		schema.UserAccount.Table, strings.Join(columns, ", "), schema.UserAccount.CreatedAt,
	)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	err := executor.QueryRow(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.IsSuperuser,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.CreatedAt)

	if err != nil {
		return dberr.Wrap(err, "User")
	}
	return nil
}

/*
FindByUsername retrieves a user record by its unique username.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := selectUser + fmt.Sprintf(" WHERE %s = $1", schema.UserAccount.Username)

	user, err := ScanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

/*
FindByEmail retrieves a user record by its unique email address.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := selectUser + fmt.Sprintf(" WHERE %s = $1", schema.UserAccount.Email)

	user, err := ScanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

// MarkVerified updates the user's status to is_verified = true.
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = TRUE, %s = $2 WHERE %s = $1",
		schema.UserAccount.Table, schema.UserAccount.IsVerified, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	if _, err := repository.pool.Exec(context, query, userID, time.Now()); err != nil {
		return fmt.Errorf("postgres_user_repo_mark_verified_failed: %w", err)
	}
	return nil
}
