// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/slice"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

func newCreateSuperuserCommand(options *globalOptions) *cobra.Command {
	var username, email string

	command := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create a verified admin account with the superuser flag",
		Long: `Create a verified admin account with the superuser flag.

The account has no password. It signs in through the regular
signup and token exchange flow with its username and email.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if options.databaseURL == "" {
				return errDatabaseURLRequired
			}

			user, err := newSuperuser(username, email)
			if err != nil {
				return err
			}

			logger := options.logger()
			ctx, cancel := context.WithTimeout(cmd.Context(), constants.StartupTimeout)
			defer cancel()

			pool, err := postgres.NewPool(ctx, options.databaseURL, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := auth.InsertUser(ctx, pool, user); err != nil {
				return fmt.Errorf("create superuser: %w", describe(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "superuser %q created (id %s)\n", user.Username, user.ID)
			return nil
		},
	}

	command.Flags().StringVar(&username, "username", "", "Username (required)")
	command.Flags().StringVar(&email, "email", "", "Email address (required)")
	_ = command.MarkFlagRequired("username")
	_ = command.MarkFlagRequired("email")

	return command
}

// newSuperuser validates the identity and builds the account row.
func newSuperuser(username, email string) (*auth.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, username).
		MaxLen(auth.FieldUsername, username, validate.UsernameMaxLen).
		Username(auth.FieldUsername, username).
		Required(auth.FieldEmail, email).
		MaxLen(auth.FieldEmail, email, validate.EmailMaxLen).
		Email(auth.FieldEmail, email)
	if err := validator.Err(); err != nil {
		return nil, describe(err)
	}

	return &auth.User{
		ID:          uuid.New(),
		Username:    username,
		Email:       email,
		Role:        sec.RoleAdmin,
		IsSuperuser: true,
		IsVerified:  true,
	}, nil
}

// describe flattens field-level validation details into one line for the
// terminal.
func describe(err error) error {
	appErr := apperr.As(err)
	if appErr == nil || len(appErr.Details) == 0 {
		return err
	}

	parts := slice.Map(appErr.Details, func(detail apperr.FieldError) string {
		return detail.Field + ": " + detail.Message
	})
	return fmt.Errorf("%s (%s)", appErr.Message, strings.Join(parts, "; "))
}
