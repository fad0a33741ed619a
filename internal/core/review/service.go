// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Service implements the review and comment use cases.
//
// Collection-level authorization happens in the HTTP middleware. The service
// runs the object-level stage after loading the target.
type Service struct {
	repository Repository
	titles     TitleLookup
}

// NewService constructs a review [Service].
func NewService(repository Repository, titles TitleLookup) *Service {
	return &Service{repository: repository, titles: titles}
}

// # Reviews

// ListReviews returns a page of a title's reviews, newest first.
func (service *Service) ListReviews(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error) {
	if err := service.requireTitle(context, titleID); err != nil {
		return nil, 0, err
	}

	reviews, total, err := service.repository.ListReviews(context, titleID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("review_service_list_failed: %w", err)
	}
	return reviews, total, nil
}

// GetReview returns one review of a title.
func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	return service.repository.FindReview(context, titleID, reviewID)
}

/*
CreateReview publishes actor's review of a title.

Parameters:
  - context: context.Context
  - actor: *authz.Actor (authenticated)
  - titleID: int64
  - text: string
  - score: int

Returns:
  - *Review: The stored review with id, author and pub_date
  - error: NotFound for a missing title, ValidationError for bad fields or a
    second review of the same title
*/
func (service *Service) CreateReview(context context.Context, actor *authz.Actor, titleID int64, text string, score int) (*Review, error) {
	text = strings.TrimSpace(text)

	validator := &validate.Validator{}
	validator.Required(fieldText, text).
		MaxLen(fieldText, text, reviewTextMaxLen).
		Range(fieldScore, score, validate.ScoreMin, validate.ScoreMax)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.requireTitle(context, titleID); err != nil {
		return nil, err
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     text,
		Score:    score,
	}

	// One review per author and title is enforced by review_author_title_key.
	if err := service.repository.CreateReview(context, review); err != nil {
		return nil, err
	}

	metrics.ReviewsCreatedTotal.Inc()
	ctxutil.GetLogger(context).InfoContext(context, "review_created",
		slog.Int64("title_id", titleID),
		slog.Int64("review_id", review.ID),
	)
	return review, nil
}

/*
UpdateReview applies a partial update on behalf of actor.

Returns:
  - *Review: The updated review
  - error: NotFound, Forbidden when actor neither owns nor moderates it,
    ValidationError
*/
func (service *Service) UpdateReview(context context.Context, actor *authz.Actor, titleID, reviewID int64, patch ReviewPatch) (*Review, error) {
	review, err := service.repository.FindReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := authz.Content.CheckObject(actor, http.MethodPatch, review.AuthorID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if patch.Text != nil {
		review.Text = strings.TrimSpace(*patch.Text)
		validator.Required(fieldText, review.Text).MaxLen(fieldText, review.Text, reviewTextMaxLen)
	}
	if patch.Score != nil {
		review.Score = *patch.Score
		validator.Range(fieldScore, review.Score, validate.ScoreMin, validate.ScoreMax)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateReview(context, review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review and its comments on behalf of actor.
func (service *Service) DeleteReview(context context.Context, actor *authz.Actor, titleID, reviewID int64) error {
	review, err := service.repository.FindReview(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := authz.Content.CheckObject(actor, http.MethodDelete, review.AuthorID); err != nil {
		return err
	}

	if err := service.repository.DeleteReview(context, titleID, reviewID); err != nil {
		return err
	}

	ctxutil.GetLogger(context).InfoContext(context, "review_deleted",
		slog.Int64("review_id", reviewID),
		slog.String("actor_id", actor.UserID),
	)
	return nil
}

// # Comments

// ListComments returns a page of a review's comments, newest first.
func (service *Service) ListComments(context context.Context, titleID, reviewID int64, params pagination.Params) ([]*Comment, int, error) {
	if _, err := service.repository.FindReview(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	comments, total, err := service.repository.ListComments(context, reviewID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("comment_service_list_failed: %w", err)
	}
	return comments, total, nil
}

// GetComment returns one comment, scoped by its review and title.
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.repository.FindReview(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repository.FindComment(context, reviewID, commentID)
}

// CreateComment publishes actor's comment under a review.
func (service *Service) CreateComment(context context.Context, actor *authz.Actor, titleID, reviewID int64, text string) (*Comment, error) {
	text = strings.TrimSpace(text)

	validator := &validate.Validator{}
	validator.Required(fieldText, text).MaxLen(fieldText, text, commentTextMaxLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.repository.FindReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: reviewID,
		AuthorID: actor.UserID,
		Author:   actor.Username,
		Text:     text,
	}
	if err := service.repository.CreateComment(context, comment); err != nil {
		return nil, err
	}

	metrics.CommentsCreatedTotal.Inc()
	ctxutil.GetLogger(context).InfoContext(context, "comment_created",
		slog.Int64("review_id", reviewID),
		slog.Int64("comment_id", comment.ID),
	)
	return comment, nil
}

// UpdateComment replaces the text of a comment on behalf of actor.
func (service *Service) UpdateComment(context context.Context, actor *authz.Actor, titleID, reviewID, commentID int64, text *string) (*Comment, error) {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := authz.Content.CheckObject(actor, http.MethodPatch, comment.AuthorID); err != nil {
		return nil, err
	}

	if text == nil {
		return comment, nil
	}

	comment.Text = strings.TrimSpace(*text)
	validator := &validate.Validator{}
	validator.Required(fieldText, comment.Text).MaxLen(fieldText, comment.Text, commentTextMaxLen)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateComment(context, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment on behalf of actor.
func (service *Service) DeleteComment(context context.Context, actor *authz.Actor, titleID, reviewID, commentID int64) error {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := authz.Content.CheckObject(actor, http.MethodDelete, comment.AuthorID); err != nil {
		return err
	}

	return service.repository.DeleteComment(context, reviewID, commentID)
}

func (service *Service) requireTitle(context context.Context, titleID int64) error {
	exists, err := service.titles.Exists(context, titleID)
	if err != nil {
		return fmt.Errorf("review_service_title_lookup_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound(resourceTitle)
	}
	return nil
}
