// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using a pgxpool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
List retrieves one page of terms.

Description: Filters by a case-insensitive name substring and computes the
total with a window function in the same round trip.

Parameters:
  - context: context.Context
  - kind: Kind (categories or genres)
  - filter: Filter

Returns:
  - []*Term: Page content ordered by name
  - int: Total count
  - error: Database execution or scanning errors
*/
func (repository *PostgresRepository) List(context context.Context, kind Kind, filter Filter) ([]*Term, int, error) {
	table := kind.Table

	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf("SELECT %s, COUNT(*) OVER() FROM %s WHERE TRUE",
		strings.Join(table.Columns(), ", "), table.Table))

	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s ILIKE '%%' || $%d || '%%'", table.Name, argID))
		args = append(args, filter.Search)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s, %s LIMIT $%d OFFSET $%d", table.Name, table.ID, argID, argID+1))
	args = append(args, filter.Limit, filter.Offset())

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, kind.Resource)
	}
	defer rows.Close()

	terms := make([]*Term, 0, filter.Limit)
	total := 0
	for rows.Next() {
		term := &Term{}
		if err := rows.Scan(&term.ID, &term.Name, &term.Slug, &total); err != nil {
			return nil, 0, dberr.Wrap(err, kind.Resource)
		}
		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, kind.Resource)
	}
	return terms, total, nil
}

// Create inserts a term and reads back its identity.
func (repository *PostgresRepository) Create(context context.Context, kind Kind, term *Term) error {
	table := kind.Table
	query := fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s",
		table.Table, table.Name, table.Slug, table.ID)

	if err := repository.db.QueryRow(context, query, term.Name, term.Slug).Scan(&term.ID); err != nil {
		return dberr.Wrap(err, kind.Resource)
	}
	return nil
}

// DeleteBySlug removes a term; the schema applies SET NULL or CASCADE to dependents.
func (repository *PostgresRepository) DeleteBySlug(context context.Context, kind Kind, slug string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", kind.Table.Table, kind.Table.Slug)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, kind.Resource)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, kind.Resource)
	}
	return nil
}
