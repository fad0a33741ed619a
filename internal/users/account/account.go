// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles profile management for the caller and user
administration for admins.

# Architecture

  - Entities: the package reuses [auth.User].
  - Self service: GET and PATCH /users/me/ for any authenticated account.
  - Administration: list, create, retrieve, patch and delete by username,
    guarded by the user_admin policy.
*/
package account

import (
	"context"

	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Repository Contracts

// ListFilter narrows the admin user listing.
type ListFilter struct {
	// Search matches a username substring, case-insensitively.
	Search string
	pagination.Params
}

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves an account by its ID.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	// FindByUsername retrieves an account by its username.
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		List returns one page of accounts ordered by username.

		Returns:
		  - []*auth.User: Page content
		  - int: Total number of matching accounts
		  - error: Storage failures
	*/
	List(context context.Context, filter ListFilter) ([]*auth.User, int, error)

	// Create persists a new account.
	Create(context context.Context, user *auth.User) error

	/*
		Update writes every mutable field of user.

		Returns:
		  - error: ValidationError on username/email collisions, storage failures
	*/
	Update(context context.Context, user *auth.User) error

	// Delete removes the account. Its reviews and comments cascade.
	Delete(context context.Context, id string) error
}
