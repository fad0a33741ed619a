// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// PostgresAccountRepository implements [AccountRepository] on users.account.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

func (repository *PostgresAccountRepository) findBy(context context.Context, column string, value any) (*auth.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		strings.Join(schema.UserAccount.Columns(), ", "), schema.UserAccount.Table, column)

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

// FindByID retrieves an account by primary key.
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	return repository.findBy(context, schema.UserAccount.ID, id)
}

// FindByUsername retrieves an account by username.
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	return repository.findBy(context, schema.UserAccount.Username, username)
}

/*
List returns a page of accounts and the total count.

Description: The total is computed with COUNT(*) OVER() in the same round trip.

Parameters:
  - context: context.Context
  - filter: ListFilter (Search, Page, Limit)

Returns:
  - []*auth.User: Page content ordered by username
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *PostgresAccountRepository) List(context context.Context, filter ListFilter) ([]*auth.User, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf("SELECT %s, COUNT(*) OVER() FROM %s WHERE TRUE",
		strings.Join(schema.UserAccount.Columns(), ", "), schema.UserAccount.Table))

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE '%%' || $%d || '%%'", schema.UserAccount.Username, argID))
		args = append(args, filter.Search)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", schema.UserAccount.Username, argID, argID+1))
	args = append(args, filter.Limit, filter.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*auth.User, 0, filter.Limit)
	total := 0
	for rows.Next() {
		user := &auth.User{}
		if err := rows.Scan(
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
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_rows_failed: %w", err)
	}
	return users, total, nil
}

// Create inserts a new account.
func (repository *PostgresAccountRepository) Create(context context.Context, user *auth.User) error {
	return auth.InsertUser(context, repository.pool, user)
}

/*
Update persists every mutable profile field, role included.

Returns:
  - error: ValidationError on unique or check violations, NotFound if the row vanished
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8 WHERE %s = $1",
		table.Table, table.Username, table.Email, table.FirstName, table.LastName,
		table.Bio, table.Role, table.UpdatedAt, table.ID,
	)

	user.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User")
	}
	return nil
}

// Delete removes the account row; reviews and comments cascade in the schema.
func (repository *PostgresAccountRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "User")
	}
	return nil
}
