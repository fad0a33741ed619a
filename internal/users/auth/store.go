// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for accounts used by sign-in.
type UserRepository interface {

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: ValidationError on unique violations, storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		MarkVerified flags the account as having confirmed its email.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	MarkVerified(context context.Context, userID string) error
}

// # Volatile Data Access

// CodeStore keeps the hash of the latest confirmation code per username.
type CodeStore interface {

	/*
		Set stores codeHash for username, replacing any previous code.

		Parameters:
		  - context: context.Context
		  - username: string
		  - codeHash: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, username, codeHash string, ttl time.Duration) error

	/*
		Get returns the stored hash for username.

		Returns:
		  - string: bcrypt hash
		  - error: apperr.NotFound when absent or expired
	*/
	Get(context context.Context, username string) (string, error)

	/*
		Consume deletes the entry only if it still holds codeHash.

		Returns:
		  - bool: true when this call removed the code
		  - error: Execution failures
	*/
	Consume(context context.Context, username, codeHash string) (bool, error)
}

// Notifier delivers a confirmation code to the account owner.
type Notifier interface {
	SendConfirmationCode(context context.Context, user *User, code string) error
}
