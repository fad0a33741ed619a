// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate turns invalid input into field-level [apperr.AppError] values.
//
// Two entry points exist. [Struct] checks request DTOs declaratively through
// go-playground/validator tags; [Validator] is a chainable collector for rules
// that depend on runtime state (the current year, the reserved username).
package validate

import (
	"errors"
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
)

var (
	// usernameRegex is the allowed username alphabet.
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
	// slugRegex is the allowed category and genre slug alphabet.
	slugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Field limits shared by DTO tags and service rules.
const (
	UsernameMaxLen = 150
	EmailMaxLen    = 254
	NameMaxLen     = 256
	SlugMaxLen     = 50
	ScoreMin       = 1
	ScoreMax       = 10
)

// IsUsername reports whether value is an acceptable username.
func IsUsername(value string) bool {
	return usernameRegex.MatchString(value) && value != constants.ReservedUsername
}

// IsSlug reports whether value is an acceptable slug.
func IsSlug(value string) bool {
	return slugRegex.MatchString(value)
}

// # Declarative Validation

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON names rather than Go field names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return IsUsername(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsSlug(fl.Field().String())
	})

	return v
}

// Struct validates target against its `validate` tags.
func Struct(target any) error {
	err := structValidator.Struct(target)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperr.Internal(fmt.Errorf("validate: %w", err))
	}

	details := make([]apperr.FieldError, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details = append(details, apperr.FieldError{
			Field:   fieldErr.Field(),
			Message: describe(fieldErr),
		})
	}
	return apperr.ValidationError("Validation failed", details...)
}

// describe converts a tag failure into a human-readable message.
func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Maximum %s characters", fieldErr.Param())
	case "min":
		return fmt.Sprintf("Minimum %s characters", fieldErr.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s", fieldErr.Param())
	case "lte":
		return fmt.Sprintf("Must be at most %s", fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fieldErr.Param(), " ", ", "))
	case "username":
		return fmt.Sprintf("Letters, digits and @/./+/-/_ only; %q is reserved", constants.ReservedUsername)
	case "slug":
		return "Letters, digits, hyphens and underscores only"
	default:
		return fmt.Sprintf("Failed validation (%s)", fieldErr.Tag())
	}
}

// # Chainable Validation

// Validator collects field-level validation errors via a fluent API.
//
// Validator is not safe for concurrent use.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Range fails if the value is outside the [min, max] range (inclusive).
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 address.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// Username fails on a bad alphabet or the reserved name.
func (v *Validator) Username(field, value string) *Validator {
	if value == constants.ReservedUsername {
		v.add(field, fmt.Sprintf("Username %q is reserved", constants.ReservedUsername))
		return v
	}
	if !usernameRegex.MatchString(value) {
		v.add(field, "Letters, digits and @/./+/-/_ only")
	}
	return v
}

// Slug fails if the value is not a valid slug.
func (v *Validator) Slug(field, value string) *Validator {
	if !IsSlug(value) {
		v.add(field, "Letters, digits, hyphens and underscores only")
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("year", year > currentYear, "Year cannot be in the future")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a VALIDATION_ERROR [apperr.AppError] if any rule failed, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}
