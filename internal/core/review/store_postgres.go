// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed review store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// # Reviews

// selectReviews projects a review with its author's username and the window
// total. The FROM alias is "r".
var selectReviews = fmt.Sprintf(`
	SELECT r.%[1]s, r.%[2]s, r.%[3]s, a.%[4]s, r.%[5]s, r.%[6]s, r.%[7]s, COUNT(*) OVER()
	FROM %[8]s r
	JOIN %[9]s a ON a.%[10]s = r.%[3]s`,
	schema.CoreReview.ID, schema.CoreReview.TitleID, schema.CoreReview.AuthorID,
	schema.UserAccount.Username, schema.CoreReview.Text, schema.CoreReview.Score, schema.CoreReview.PubDate,
	schema.CoreReview.Table, schema.UserAccount.Table, schema.UserAccount.ID,
)

func scanReview(row pgx.Row) (*Review, int, error) {
	review := &Review{}
	var total int
	err := row.Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.Author,
		&review.Text,
		&review.Score,
		&review.PubDate,
		&total,
	)
	return review, total, err
}

/*
ListReviews retrieves one page of a title's reviews.

Parameters:
  - context: context.Context
  - titleID: int64
  - params: pagination.Params

Returns:
  - []*Review: Page content, newest first
  - int: Total reviews of the title
  - error: Database execution or scanning errors
*/
func (repository *PostgresRepository) ListReviews(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	query := fmt.Sprintf("%s WHERE r.%s = $1 ORDER BY r.%s DESC, r.%s DESC LIMIT $2 OFFSET $3",
		selectReviews, schema.CoreReview.TitleID, schema.CoreReview.PubDate, schema.CoreReview.ID)

	rows, err := repository.pool.Query(context, query, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_review_repo_list_failed: %w", err)
	}
	defer rows.Close()

	reviews := make([]*Review, 0, params.Limit)
	total := 0
	for rows.Next() {
		review, count, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_review_repo_scan_failed: %w", err)
		}
		reviews = append(reviews, review)
		total = count
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_review_repo_rows_failed: %w", err)
	}
	return reviews, total, nil
}

// FindReview returns a review of titleID, or NotFound.
func (repository *PostgresRepository) FindReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := fmt.Sprintf("%s WHERE r.%s = $1 AND r.%s = $2",
		selectReviews, schema.CoreReview.ID, schema.CoreReview.TitleID)

	review, _, err := scanReview(repository.pool.QueryRow(context, query, reviewID, titleID))
	if err != nil {
		return nil, dberr.Wrap(err, resourceReview)
	}
	return review, nil
}

/*
CreateReview inserts a review and fills its id and pub_date.

Returns:
  - error: ValidationError on review_author_title_key when the author already
    reviewed the title
*/
func (repository *PostgresRepository) CreateReview(context context.Context, review *Review) error {
	table := schema.CoreReview
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		table.Table, table.TitleID, table.AuthorID, table.Text, table.Score,
		table.ID, table.PubDate,
	)

	err := repository.pool.QueryRow(context, query,
		review.TitleID, review.AuthorID, review.Text, review.Score,
	).Scan(&review.ID, &review.PubDate)
	return dberr.Wrap(err, resourceReview)
}

// UpdateReview persists text and score.
func (repository *PostgresRepository) UpdateReview(context context.Context, review *Review) error {
	table := schema.CoreReview
	query := fmt.Sprintf("UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3 AND %s = $4",
		table.Table, table.Text, table.Score, table.ID, table.TitleID)

	tag, err := repository.pool.Exec(context, query, review.Text, review.Score, review.ID, review.TitleID)
	if err != nil {
		return dberr.Wrap(err, resourceReview)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceReview)
	}
	return nil
}

// DeleteReview removes a review. Its comments go with it.
func (repository *PostgresRepository) DeleteReview(context context.Context, titleID, reviewID int64) error {
	table := schema.CoreReview
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2", table.Table, table.ID, table.TitleID)

	tag, err := repository.pool.Exec(context, query, reviewID, titleID)
	if err != nil {
		return dberr.Wrap(err, resourceReview)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceReview)
	}
	return nil
}

// # Comments

// selectComments mirrors selectReviews for core.comment. The FROM alias is "c".
var selectComments = fmt.Sprintf(`
	SELECT c.%[1]s, c.%[2]s, c.%[3]s, a.%[4]s, c.%[5]s, c.%[6]s, COUNT(*) OVER()
	FROM %[7]s c
	JOIN %[8]s a ON a.%[9]s = c.%[3]s`,
	schema.CoreComment.ID, schema.CoreComment.ReviewID, schema.CoreComment.AuthorID,
	schema.UserAccount.Username, schema.CoreComment.Text, schema.CoreComment.PubDate,
	schema.CoreComment.Table, schema.UserAccount.Table, schema.UserAccount.ID,
)

func scanComment(row pgx.Row) (*Comment, int, error) {
	comment := &Comment{}
	var total int
	err := row.Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.AuthorID,
		&comment.Author,
		&comment.Text,
		&comment.PubDate,
		&total,
	)
	return comment, total, err
}

// ListComments retrieves one page of a review's comments, newest first.
func (repository *PostgresRepository) ListComments(context context.Context, reviewID int64, params pagination.Params) ([]*Comment, int, error) {
	query := fmt.Sprintf("%s WHERE c.%s = $1 ORDER BY c.%s DESC, c.%s DESC LIMIT $2 OFFSET $3",
		selectComments, schema.CoreComment.ReviewID, schema.CoreComment.PubDate, schema.CoreComment.ID)

	rows, err := repository.pool.Query(context, query, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_list_failed: %w", err)
	}
	defer rows.Close()

	comments := make([]*Comment, 0, params.Limit)
	total := 0
	for rows.Next() {
		comment, count, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_repo_scan_failed: %w", err)
		}
		comments = append(comments, comment)
		total = count
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_rows_failed: %w", err)
	}
	return comments, total, nil
}

// FindComment returns a comment of reviewID, or NotFound.
func (repository *PostgresRepository) FindComment(context context.Context, reviewID, commentID int64) (*Comment, error) {
	query := fmt.Sprintf("%s WHERE c.%s = $1 AND c.%s = $2",
		selectComments, schema.CoreComment.ID, schema.CoreComment.ReviewID)

	comment, _, err := scanComment(repository.pool.QueryRow(context, query, commentID, reviewID))
	if err != nil {
		return nil, dberr.Wrap(err, resourceComment)
	}
	return comment, nil
}

// CreateComment inserts a comment and fills its id and pub_date.
func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) error {
	table := schema.CoreComment
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s`,
		table.Table, table.ReviewID, table.AuthorID, table.Text,
		table.ID, table.PubDate,
	)

	err := repository.pool.QueryRow(context, query,
		comment.ReviewID, comment.AuthorID, comment.Text,
	).Scan(&comment.ID, &comment.PubDate)
	return dberr.Wrap(err, resourceComment)
}

// UpdateComment persists the comment text.
func (repository *PostgresRepository) UpdateComment(context context.Context, comment *Comment) error {
	table := schema.CoreComment
	query := fmt.Sprintf("UPDATE %s SET %s = $1 WHERE %s = $2 AND %s = $3",
		table.Table, table.Text, table.ID, table.ReviewID)

	tag, err := repository.pool.Exec(context, query, comment.Text, comment.ID, comment.ReviewID)
	if err != nil {
		return dberr.Wrap(err, resourceComment)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceComment)
	}
	return nil
}

// DeleteComment removes a comment.
func (repository *PostgresRepository) DeleteComment(context context.Context, reviewID, commentID int64) error {
	table := schema.CoreComment
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2", table.Table, table.ID, table.ReviewID)

	tag, err := repository.pool.Exec(context, query, commentID, reviewID)
	if err != nil {
		return dberr.Wrap(err, resourceComment)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceComment)
	}
	return nil
}
