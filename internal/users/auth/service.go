// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating access tokens.
type TokenProvider interface {
	GenerateAccessToken(subject sec.TokenSubject, timeToLive time.Duration) (string, error)
}

// Options tunes credential lifetimes.
type Options struct {
	CodeTTL  time.Duration
	TokenTTL time.Duration
}

// Service implements the sign-up and token exchange use cases.
type Service struct {
	userRepository UserRepository
	codeStore      CodeStore
	tokenProvider  TokenProvider
	notifier       Notifier
	options        Options
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	codes CodeStore,
	tokens TokenProvider,
	notifier Notifier,
	options Options,
) *Service {
	return &Service{
		userRepository: userRepo,
		codeStore:      codes,
		tokenProvider:  tokens,
		notifier:       notifier,
		options:        options,
	}
}

// # Registration Flow

// SignupInput holds the identity a client claims.
type SignupInput struct {
	Username string
	Email    string
}

/*
Signup registers or re-identifies an account and issues a fresh confirmation code.

Description: When the username already exists with the same email the account
is reused and a new code replaces the old one. A username or email that belongs
to another account is rejected.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *User: The account the code was issued for
  - string: The plain confirmation code, already handed to the Notifier
  - error: ValidationError on identity conflicts, storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*User, string, error) {
	user, err := service.resolveSignupUser(context, input)
	if err != nil {
		return nil, "", err
	}

	code, err := sec.GenerateConfirmationCode()
	if err != nil {
		return nil, "", fmt.Errorf("auth_service_generate_code_failed: %w", err)
	}

	codeHash, err := sec.HashSecret(code)
	if err != nil {
		return nil, "", fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Overwrites any earlier code: last write wins
	if err := service.codeStore.Set(context, user.Username, codeHash, service.options.CodeTTL); err != nil {
		return nil, "", fmt.Errorf("auth_service_store_code_failed: %w", err)
	}

	if err := service.notifier.SendConfirmationCode(context, user, code); err != nil {
		return nil, "", fmt.Errorf("auth_service_notify_failed: %w", err)
	}

	metrics.SignupsTotal.Inc()
	ctxutil.GetLogger(context).InfoContext(context, "signup_code_issued",
		slog.String("username", user.Username),
	)

	return user, code, nil
}

func (service *Service) resolveSignupUser(context context.Context, input SignupInput) (*User, error) {
	existing, err := service.userRepository.FindByUsername(context, input.Username)
	switch {
	case err == nil:
		if existing.Email != input.Email {
			return nil, apperr.FieldInvalid(FieldUsername, "A user with that username already exists")
		}
		return existing, nil
	case !apperr.HasCode(err, apperr.CodeNotFound):
		return nil, fmt.Errorf("auth_service_lookup_failed: %w", err)
	}

	if _, err := service.userRepository.FindByEmail(context, input.Email); err == nil {
		return nil, apperr.FieldInvalid(FieldEmail, "A user with that email already exists")
	} else if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, fmt.Errorf("auth_service_lookup_failed: %w", err)
	}

	user := &User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	// Concurrent signups for the same identity are settled by the unique keys.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}
	return user, nil
}

// # Token Exchange

// TokenInput is a confirmation code exchange attempt.
type TokenInput struct {
	Username         string
	ConfirmationCode string
}

/*
IssueToken exchanges a valid confirmation code for an access token.

Description: The code is single use. An unknown user, a missing or expired
code and a wrong code are all reported as the same AuthError.

Parameters:
  - context: context.Context
  - input: TokenInput

Returns:
  - string: Signed access token
  - error: apperr.Unauthorized or infrastructure errors
*/
func (service *Service) IssueToken(context context.Context, input TokenInput) (string, error) {
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return "", service.reject(context, input.Username, "unknown_user")
		}
		return "", fmt.Errorf("auth_service_lookup_failed: %w", err)
	}

	codeHash, err := service.codeStore.Get(context, user.Username)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return "", service.reject(context, user.Username, "no_code")
		}
		return "", err
	}

	if !sec.CheckSecretHash(input.ConfirmationCode, codeHash) {
		return "", service.reject(context, user.Username, "code_mismatch")
	}

	// A concurrent exchange or a newer signup may have replaced the code.
	consumed, err := service.codeStore.Consume(context, user.Username, codeHash)
	if err != nil {
		return "", err
	}
	if !consumed {
		return "", service.reject(context, user.Username, "code_consumed")
	}

	if !user.IsVerified {
		if err := service.userRepository.MarkVerified(context, user.ID); err != nil {
			return "", fmt.Errorf("auth_service_mark_verified_failed: %w", err)
		}
		user.IsVerified = true
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.Subject(), service.options.TokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_token_failed: %w", err)
	}

	metrics.TokensIssuedTotal.WithLabelValues(resultOK).Inc()
	return token, nil
}

func (service *Service) reject(context context.Context, username, reason string) error {
	metrics.TokensIssuedTotal.WithLabelValues(resultRejected).Inc()
	ctxutil.GetLogger(context).WarnContext(context, "token_exchange_rejected",
		slog.String("username", username),
		slog.String("reason", reason),
	)
	return apperr.Unauthorized("Invalid username or confirmation code")
}
