// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference manages the catalog taxonomies: categories and genres.

Both are flat name + slug lists addressed by slug. They share one
repository, service and handler, parameterized by [Kind].

# Access Control

  - Public: list.
  - Admin: create and delete.
*/
package reference

import (
	"context"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Term is a category or a genre.
type Term struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Kind selects the taxonomy an operation applies to.
type Kind struct {
	// Resource names the entity in error messages.
	Resource string
	Table    schema.TaxonomyTable
}

var (
	Categories = Kind{Resource: "Category", Table: schema.CoreCategory}
	Genres     = Kind{Resource: "Genre", Table: schema.CoreGenre}
)

// Filter narrows a taxonomy listing.
type Filter struct {
	// Search matches a name substring, case-insensitively.
	Search string
	pagination.Params
}

// # Repository Contracts

// Repository defines the persistence contract for taxonomies.
type Repository interface {

	/*
		List returns one page of terms ordered by name.

		Returns:
		  - []*Term: Page content
		  - int: Total number of matching terms
		  - error: Storage failures
	*/
	List(context context.Context, kind Kind, filter Filter) ([]*Term, int, error)

	/*
		Create persists a term and sets its ID.

		Returns:
		  - error: ValidationError on a duplicate slug
	*/
	Create(context context.Context, kind Kind, term *Term) error

	/*
		DeleteBySlug removes a term. Titles referencing a deleted category keep
		existing with no category; genre links are removed.

		Returns:
		  - error: apperr.NotFound when no term has the slug
	*/
	DeleteBySlug(context context.Context, kind Kind, slug string) error
}
