// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// Service implements the title use cases.
type Service struct {
	repository Repository
	now        func() time.Time
}

// NewService constructs a title [Service].
func NewService(repository Repository) *Service {
	return &Service{repository: repository, now: time.Now}
}

// WithClock replaces the clock used for the year rule.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// List returns a page of titles and the total count.
func (service *Service) List(context context.Context, filter Filter) ([]*Title, int, error) {
	titles, total, err := service.repository.List(context, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("title_service_list_failed: %w", err)
	}
	return titles, total, nil
}

// Get returns a single title.
func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	return service.repository.FindByID(context, id)
}

/*
Create validates and persists a new title.

Parameters:
  - context: context.Context
  - write: Write

Returns:
  - *Title: The stored title, as a read would return it
  - error: ValidationError on bad fields or unknown slugs
*/
func (service *Service) Create(context context.Context, write Write) (*Title, error) {
	write.Name = strings.TrimSpace(write.Name)

	validator := &validate.Validator{}
	service.checkName(validator, write.Name)
	service.checkYear(validator, write.Year)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	id, err := service.repository.Create(context, write)
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "title_created", slog.Int64("title_id", id))
	return service.repository.FindByID(context, id)
}

/*
Update applies a partial update.

Returns:
  - *Title: The updated title
  - error: apperr.NotFound, ValidationError
*/
func (service *Service) Update(context context.Context, id int64, patch Patch) (*Title, error) {
	validator := &validate.Validator{}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
		service.checkName(validator, trimmed)
	}
	if patch.Year != nil {
		service.checkYear(validator, *patch.Year)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, id, patch); err != nil {
		return nil, err
	}
	return service.repository.FindByID(context, id)
}

// Delete removes a title with everything attached to it.
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}
	ctxutil.GetLogger(context).InfoContext(context, "title_deleted", slog.Int64("title_id", id))
	return nil
}

func (service *Service) checkName(validator *validate.Validator, name string) {
	validator.Required(fieldName, name).MaxLen(fieldName, name, validate.NameMaxLen)
}

func (service *Service) checkYear(validator *validate.Validator, year int) {
	validator.Custom(fieldYear, year < 0, "Year cannot be negative").
		Custom(fieldYear, year > service.now().Year(), "Year cannot be in the future")
}

const (
	fieldName     = "name"
	fieldYear     = "year"
	fieldCategory = "category"
	fieldGenre    = "genre"
)
