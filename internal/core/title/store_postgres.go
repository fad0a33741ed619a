// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

const resource = "Title"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed title store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectTitles projects a title with its category, genres as a JSON array,
// the mean review score and the window total. The FROM alias is "t".
var selectTitles = fmt.Sprintf(`
	SELECT
		t.%[1]s, t.%[2]s, t.%[3]s, t.%[4]s,
		c.%[5]s, c.%[6]s, c.%[7]s,
		COALESCE((
			SELECT json_agg(json_build_object('name', g.%[9]s, 'slug', g.%[10]s) ORDER BY g.%[10]s)
			FROM %[11]s g
			JOIN %[12]s tg ON tg.%[13]s = g.%[8]s
			WHERE tg.%[14]s = t.%[1]s
		), '[]') AS genres,
		(SELECT AVG(r.%[15]s)::float8 FROM %[16]s r WHERE r.%[17]s = t.%[1]s) AS rating,
		COUNT(*) OVER() AS total_count
	FROM %[18]s t
	LEFT JOIN %[19]s c ON c.%[5]s = t.%[20]s
	WHERE TRUE`,
	schema.CoreTitle.ID, schema.CoreTitle.Name, schema.CoreTitle.Year, schema.CoreTitle.Description,
	schema.CoreCategory.ID, schema.CoreCategory.Name, schema.CoreCategory.Slug,
	schema.CoreGenre.ID, schema.CoreGenre.Name, schema.CoreGenre.Slug, schema.CoreGenre.Table,
	schema.TitleGenre.Table, schema.TitleGenre.GenreID, schema.TitleGenre.TitleID,
	schema.CoreReview.Score, schema.CoreReview.Table, schema.CoreReview.TitleID,
	schema.CoreTitle.Table, schema.CoreCategory.Table, schema.CoreTitle.CategoryID,
)

func scanTitle(row pgx.Row) (*Title, int, error) {
	var (
		title        Title
		categoryID   *int64
		categoryName *string
		categorySlug *string
		genresJSON   []byte
		total        int
	)

	err := row.Scan(
		&title.ID, &title.Name, &title.Year, &title.Description,
		&categoryID, &categoryName, &categorySlug,
		&genresJSON, &title.Rating, &total,
	)
	if err != nil {
		return nil, 0, err
	}

	if categoryID != nil {
		title.Category = &reference.Term{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}

	title.Genres = []reference.Term{}
	if err := json.Unmarshal(genresJSON, &title.Genres); err != nil {
		return nil, 0, fmt.Errorf("title: decode genres: %w", err)
	}

	return &title, total, nil
}

/*
List returns a filtered, paginated slice of titles and the total count.

Description: Every row carries its rating from a correlated AVG subquery and
its genres aggregated into JSON, so a page costs one round trip.

Parameters:
  - context: context.Context
  - filter: Filter (category slug, genre slug, year, name substring)

Returns:
  - []*Title: Hydrated titles
  - int: Total count matching filters
  - error: Database execution errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter) ([]*Title, int, error) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(selectTitles)

	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $%d", schema.CoreCategory.Slug, argID))
		args = append(args, filter.Category)
		argID++
	}

	// Genre filtering
	if filter.Genre != "" {
		queryBuilder.WriteString(fmt.Sprintf(
			` AND EXISTS (SELECT 1 FROM %s tg JOIN %s g ON g.%s = tg.%s WHERE tg.%s = t.%s AND g.%s = $%d)`,
			schema.TitleGenre.Table, schema.CoreGenre.Table, schema.CoreGenre.ID, schema.TitleGenre.GenreID,
			schema.TitleGenre.TitleID, schema.CoreTitle.ID, schema.CoreGenre.Slug, argID,
		))
		args = append(args, filter.Genre)
		argID++
	}

	if filter.Year != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s = $%d", schema.CoreTitle.Year, argID))
		args = append(args, *filter.Year)
		argID++
	}

	if filter.Name != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND t.%s ILIKE '%%' || $%d || '%%'", schema.CoreTitle.Name, argID))
		args = append(args, filter.Name)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY t.%s LIMIT $%d OFFSET $%d", schema.CoreTitle.ID, argID, argID+1))
	args = append(args, filter.Limit, filter.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}
	defer rows.Close()

	titles := make([]*Title, 0, filter.Limit)
	total := 0
	for rows.Next() {
		title, rowTotal, err := scanTitle(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resource)
		}
		total = rowTotal
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource)
	}
	return titles, total, nil
}

// FindByID returns one hydrated title.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Title, error) {
	query := selectTitles + fmt.Sprintf(" AND t.%s = $1", schema.CoreTitle.ID)

	title, _, err := scanTitle(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resource)
	}
	return title, nil
}

// Exists reports whether the title row is present.
func (repository *PostgresRepository) Exists(context context.Context, id int64) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", schema.CoreTitle.Table, schema.CoreTitle.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, resource)
	}
	return exists, nil
}

/*
Create inserts the title row and its genre links in one transaction.

Returns:
  - int64: New id
  - error: ValidationError when a slug does not resolve
*/
func (repository *PostgresRepository) Create(context context.Context, write Write) (int64, error) {
	var id int64

	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		categoryID, err := resolveCategory(context, tx, write.CategorySlug)
		if err != nil {
			return err
		}

		genreIDs, err := resolveGenres(context, tx, write.GenreSlugs)
		if err != nil {
			return err
		}

		query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s",
			schema.CoreTitle.Table, schema.CoreTitle.Name, schema.CoreTitle.Year,
			schema.CoreTitle.Description, schema.CoreTitle.CategoryID, schema.CoreTitle.ID)

		if err := tx.QueryRow(context, query, write.Name, write.Year, write.Description, categoryID).Scan(&id); err != nil {
			return err
		}

		return linkGenres(context, tx, id, genreIDs)
	})
	if err != nil {
		return 0, dberr.Wrap(err, resource)
	}
	return id, nil
}

/*
Update applies a partial update in one transaction.

Description: Only provided columns are written. When GenreSlugs is set the
genre links are replaced wholesale.
*/
func (repository *PostgresRepository) Update(context context.Context, id int64, patch Patch) error {
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		var sets []string
		args := []any{id}

		set := func(column string, value any) {
			args = append(args, value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}

		if patch.Name != nil {
			set(schema.CoreTitle.Name, *patch.Name)
		}
		if patch.Year != nil {
			set(schema.CoreTitle.Year, *patch.Year)
		}
		if patch.Description != nil {
			set(schema.CoreTitle.Description, *patch.Description)
		}
		if patch.CategorySlug != nil {
			categoryID, err := resolveCategory(context, tx, *patch.CategorySlug)
			if err != nil {
				return err
			}
			set(schema.CoreTitle.CategoryID, categoryID)
		}

		// An empty SET still locks the row and proves it exists.
		assignments := strings.Join(sets, ", ")
		if assignments == "" {
			assignments = fmt.Sprintf("%[1]s = %[1]s", schema.CoreTitle.ID)
		}

		query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1", schema.CoreTitle.Table, assignments, schema.CoreTitle.ID)
		tag, err := tx.Exec(context, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}

		if patch.GenreSlugs == nil {
			return nil
		}

		genreIDs, err := resolveGenres(context, tx, *patch.GenreSlugs)
		if err != nil {
			return err
		}

		unlink := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.TitleGenre.Table, schema.TitleGenre.TitleID)
		if _, err := tx.Exec(context, unlink, id); err != nil {
			return err
		}
		return linkGenres(context, tx, id, genreIDs)
	})
	return dberr.Wrap(err, resource)
}

// Delete removes the title; the schema cascades to reviews, comments and links.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.CoreTitle.Table, schema.CoreTitle.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}

// # Relation Helpers

// resolveCategory maps a slug to an id. An empty slug means no category.
func resolveCategory(context context.Context, querier postgres.Querier, slug string) (*int64, error) {
	if slug == "" {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		schema.CoreCategory.ID, schema.CoreCategory.Table, schema.CoreCategory.Slug)

	var id int64
	if err := querier.QueryRow(context, query, slug).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.FieldInvalid(fieldCategory, fmt.Sprintf("Category %q does not exist", slug))
		}
		return nil, err
	}
	return &id, nil
}

// resolveGenres maps slugs to ids, rejecting any slug that does not exist.
func resolveGenres(context context.Context, querier postgres.Querier, slugs []string) ([]int64, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = ANY($1)",
		schema.CoreGenre.ID, schema.CoreGenre.Slug, schema.CoreGenre.Table, schema.CoreGenre.Slug)

	rows, err := querier.Query(context, query, slugs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := make(map[string]int64, len(slugs))
	for rows.Next() {
		var id int64
		var slug string
		if err := rows.Scan(&id, &slug); err != nil {
			return nil, err
		}
		found[slug] = id
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(found))
	for _, slug := range slugs {
		id, ok := found[slug]
		if !ok {
			return nil, apperr.FieldInvalid(fieldGenre, fmt.Sprintf("Genre %q does not exist", slug))
		}
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func linkGenres(context context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	if len(genreIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf("INSERT INTO %s (%s, %s) SELECT $1, UNNEST($2::bigint[])",
		schema.TitleGenre.Table, schema.TitleGenre.TitleID, schema.TitleGenre.GenreID)

	_, err := tx.Exec(context, query, titleID, genreIDs)
	return err
}
