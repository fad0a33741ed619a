// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// Service implements profile and user administration use cases.
type Service struct {
	accountRepository AccountRepository
}

// NewService constructs a new account [Service].
func NewService(accountRepo AccountRepository) *Service {
	return &Service{accountRepository: accountRepo}
}

// # Inputs

// UpdateInput carries a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *sec.UserRole
}

// CreateInput carries the fields of an admin-created account.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      sec.UserRole
}

// # Self Service

/*
GetSelf returns the caller's own account.

Parameters:
  - context: context.Context
  - userID: string (from the verified token)

Returns:
  - *auth.User: Account
  - error: apperr.NotFound when the account was deleted after the token was issued
*/
func (service *Service) GetSelf(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_self_failed: %w", err)
	}
	return user, nil
}

/*
UpdateSelf applies a partial update to the caller's account.

Description: A role change requested by an account whose stored role is
"user" is dropped without error. Moderators and admins may change their own role.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateInput

Returns:
  - *auth.User: Updated account
  - error: ValidationError or storage failures
*/
func (service *Service) UpdateSelf(context context.Context, userID string, input UpdateInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_self_failed: %w", err)
	}

	if input.Role != nil && !user.Role.CanChangeOwnRole() {
		input.Role = nil
	}

	return service.apply(context, user, input)
}

// # Administration

// List returns one page of accounts and the total count.
func (service *Service) List(context context.Context, filter ListFilter) ([]*auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

/*
Create registers an account on behalf of an admin.

Description: The role defaults to "user". The account is not verified until
its owner exchanges a confirmation code.

Returns:
  - *auth.User: Created account
  - error: ValidationError on collisions
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	if input.Role == "" {
		input.Role = sec.RoleUser
	}

	user := &auth.User{
		ID:        uuid.New(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	}

	if err := service.accountRepository.Create(context, user); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "account_created",
		slog.String("username", user.Username),
		slog.String("role", user.Role.String()),
	)
	return user, nil
}

// Get returns the account with the given username.
func (service *Service) Get(context context.Context, username string) (*auth.User, error) {
	return service.accountRepository.FindByUsername(context, username)
}

// Update applies a partial update to any account, role included.
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}
	return service.apply(context, user, input)
}

// Delete removes the account with the given username.
func (service *Service) Delete(context context.Context, username string) error {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return err
	}

	if err := service.accountRepository.Delete(context, user.ID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "account_deleted", slog.String("username", username))
	return nil
}

func (service *Service) apply(context context.Context, user *auth.User, input UpdateInput) (*auth.User, error) {
	validator := &validate.Validator{}

	if input.Username != nil {
		validator.Required(auth.FieldUsername, *input.Username).
			MaxLen(auth.FieldUsername, *input.Username, validate.UsernameMaxLen).
			Username(auth.FieldUsername, *input.Username)
		user.Username = *input.Username
	}
	if input.Email != nil {
		validator.Required(auth.FieldEmail, *input.Email).
			MaxLen(auth.FieldEmail, *input.Email, validate.EmailMaxLen).
			Email(auth.FieldEmail, *input.Email)
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil {
		validator.Custom(fieldRole, !input.Role.IsValid(), "Unknown role")
		user.Role = *input.Role
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

const fieldRole = "role"
