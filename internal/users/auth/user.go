// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements passwordless identity for YaMDb.

A client signs up with a username and an email, receives a one-time
confirmation code out of band, and exchanges it for an RS256 access token.

# Architecture

  - Service: Signup and IssueToken use cases.
  - Repositories: users.account in PostgreSQL, confirmation code hashes in Redis.
  - Notifier: delivers the code. [LogNotifier] writes it to the structured log.
*/
package auth

import (
	"time"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account.
type User struct {
	ID          string       `json:"-"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Bio         string       `json:"bio"`
	Role        sec.UserRole `json:"role"`
	IsSuperuser bool         `json:"-"`
	IsVerified  bool         `json:"-"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

// Subject returns the token subject for the account.
func (user *User) Subject() sec.TokenSubject {
	return sec.TokenSubject{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		IsSuperuser: user.IsSuperuser,
	}
}

// # Field Identifiers

const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
)

// Token exchange outcomes recorded in metrics.
const (
	resultOK       = "ok"
	resultRejected = "rejected"
)
