// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages catalog titles: the works that reviews are written about.

A title belongs to at most one category and any number of genres, both
referenced by slug on writes and embedded as objects on reads. Its rating is
the mean review score, computed by the same query that reads the title.
*/
package title

import (
	"context"

	"github.com/taibuivan/yamdb/internal/core/reference"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Title is a work as returned to clients.
type Title struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Description string           `json:"description"`
	Category    *reference.Term  `json:"category"`
	Genres      []reference.Term `json:"genre"`
	// Rating is nil until the title has a review.
	Rating *float64 `json:"rating"`
}

// Filter narrows a title listing. Zero values do not filter.
type Filter struct {
	Category string
	Genre    string
	Year     *int
	Name     string
	pagination.Params
}

// Write is a full set of title fields with relations addressed by slug.
type Write struct {
	Name        string
	Year        int
	Description string
	// CategorySlug is empty for a title without category.
	CategorySlug string
	GenreSlugs   []string
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Name        *string
	Year        *int
	Description *string
	// CategorySlug set to "" clears the category.
	CategorySlug *string
	GenreSlugs   *[]string
}

// # Repository Contracts

// Repository defines the persistence contract for titles.
type Repository interface {

	/*
		List returns one page of titles with rating, category and genres.

		Returns:
		  - []*Title: Page content ordered by id
		  - int: Total number of matching titles
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter) ([]*Title, int, error)

	// FindByID returns a single title with rating, category and genres.
	FindByID(context context.Context, id int64) (*Title, error)

	// Exists reports whether a title with id exists.
	Exists(context context.Context, id int64) (bool, error)

	/*
		Create inserts the title and its genre links atomically.

		Returns:
		  - int64: New title id
		  - error: ValidationError for unknown category or genre slugs
	*/
	Create(context context.Context, write Write) (int64, error)

	// Update applies patch atomically. Genre links are replaced when set.
	Update(context context.Context, id int64, patch Patch) error

	// Delete removes the title. Reviews, comments and genre links cascade.
	Delete(context context.Context, id int64) error
}
