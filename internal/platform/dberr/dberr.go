// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr translates pgx and PostgreSQL errors into [apperr.AppError] values.
//
// Integrity rules (unique usernames, one review per author and title, score
// bounds, foreign keys) are enforced by the schema. This package turns the
// resulting SQLSTATE codes into field-level validation errors so that the
// storage layer stays the single source of truth under concurrent writes.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
)

// constraintFields maps schema constraint names to the API field they guard.
var constraintFields = map[string]apperr.FieldError{
	"account_username_key":       {Field: "username", Message: "A user with that username already exists"},
	"account_email_key":          {Field: "email", Message: "A user with that email already exists"},
	"category_slug_key":          {Field: "slug", Message: "A category with this slug already exists"},
	"genre_slug_key":             {Field: "slug", Message: "A genre with this slug already exists"},
	"review_author_title_key":    {Field: "title", Message: "You have already reviewed this title"},
	"review_score_check":         {Field: "score", Message: "Must be between 1 and 10"},
	"title_category_id_fkey":     {Field: "category", Message: "Category does not exist"},
	"title_genre_genre_id_fkey":  {Field: "genre", Message: "Genre does not exist"},
	"title_year_check":           {Field: "year", Message: "Year is out of range"},
	"account_role_check":         {Field: "role", Message: "Unknown role"},
	"account_username_not_me":    {Field: "username", Message: `Username "me" is reserved`},
	"category_slug_format_check": {Field: "slug", Message: "Invalid slug"},
	"genre_slug_format_check":    {Field: "slug", Message: "Invalid slug"},
}

// parentConstraints maps foreign keys on a row addressed by the URL path to the
// resource reported as missing when it vanishes before the write lands.
var parentConstraints = map[string]string{
	"title_genre_title_id_fkey": "Title",
	"review_title_id_fkey":      "Title",
	"review_author_id_fkey":     "User",
	"comment_review_id_fkey":    "Review",
	"comment_author_id_fkey":    "User",
}

// Wrap inspects a database error and converts it into an [apperr.AppError].
//
// resource names the entity for NotFound messages (e.g. "Title").
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// Already classified upstream
	if apperr.As(err) != nil {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation, pgerrcode.ForeignKeyViolation, pgerrcode.CheckViolation:
			return constraintError(pgErr).WithCause(err)
		case pgerrcode.StringDataRightTruncationDataException, pgerrcode.NumericValueOutOfRange:
			return apperr.ValidationError("Value is too long or out of range").WithCause(err)
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", resource, err))
}

// IsUniqueViolation reports whether err was raised by the named unique constraint.
// An empty name matches any unique violation.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func constraintError(pgErr *pgconn.PgError) *apperr.AppError {
	if resource, ok := parentConstraints[pgErr.ConstraintName]; ok && pgErr.Code == pgerrcode.ForeignKeyViolation {
		return apperr.NotFound(resource)
	}
	if field, ok := constraintFields[pgErr.ConstraintName]; ok {
		return apperr.ValidationError("Validation failed", field)
	}
	return apperr.ValidationError("Constraint violation")
}
