// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/slug"
)

// Service implements the taxonomy use cases.
type Service struct {
	repository Repository
}

// NewService constructs a reference [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// List returns a page of terms and the total count.
func (service *Service) List(context context.Context, kind Kind, filter Filter) ([]*Term, int, error) {
	terms, total, err := service.repository.List(context, kind, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("reference_service_list_failed: %w", err)
	}
	return terms, total, nil
}

// CreateInput carries a new term. Slug may be empty.
type CreateInput struct {
	Name string
	Slug string
}

/*
Create validates and persists a new term.

Description: An empty slug is derived from the name, trimmed to the slug
length limit.

Parameters:
  - context: context.Context
  - kind: Kind
  - input: CreateInput

Returns:
  - *Term: Created term
  - error: ValidationError on bad input or a duplicate slug
*/
func (service *Service) Create(context context.Context, kind Kind, input CreateInput) (*Term, error) {
	term := &Term{
		Name: strings.TrimSpace(input.Name),
		Slug: strings.TrimSpace(input.Slug),
	}

	if term.Slug == "" {
		term.Slug = generateSlug(term.Name)
	}

	validator := &validate.Validator{}
	validator.Required(fieldName, term.Name).
		MaxLen(fieldName, term.Name, validate.NameMaxLen).
		Required(fieldSlug, term.Slug).
		MaxLen(fieldSlug, term.Slug, validate.SlugMaxLen)
	if term.Slug != "" {
		validator.Slug(fieldSlug, term.Slug)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, kind, term); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "taxonomy_term_created",
		slog.String("kind", kind.Resource),
		slog.String("slug", term.Slug),
	)
	return term, nil
}

// Delete removes the term with the given slug.
func (service *Service) Delete(context context.Context, kind Kind, slug string) error {
	if err := service.repository.DeleteBySlug(context, kind, slug); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "taxonomy_term_deleted",
		slog.String("kind", kind.Resource),
		slog.String("slug", slug),
	)
	return nil
}

func generateSlug(name string) string {
	return slug.FromMax(name, validate.SlugMaxLen)
}

const (
	fieldName = "name"
	fieldSlug = "slug"
)
