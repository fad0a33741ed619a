// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for reviews and comments.
type Handler struct {
	service *Service
}

// NewHandler constructs a review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Mount registers the routes on a router already scoped to
// /titles/{title_id}/reviews. It matches the mount argument of the title
// handler's Routes.
func (handler *Handler) Mount(router chi.Router) {
	router.Use(middleware.Authorize(authz.Content))

	router.Get("/", handler.listReviews)
	router.Post("/", handler.createReview)
	router.Get("/{review_id}/", handler.getReview)
	router.Patch("/{review_id}/", handler.updateReview)
	router.Delete("/{review_id}/", handler.deleteReview)

	router.Get("/{review_id}/comments/", handler.listComments)
	router.Post("/{review_id}/comments/", handler.createComment)
	router.Get("/{review_id}/comments/{comment_id}/", handler.getComment)
	router.Patch("/{review_id}/comments/{comment_id}/", handler.updateComment)
	router.Delete("/{review_id}/comments/{comment_id}/", handler.deleteComment)
}

// Routes returns a standalone router, mainly for tests. The title id is
// still read from the {title_id} parameter.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Route("/{title_id}/reviews", handler.Mount)
	return router
}

// # Payloads

type reviewRequest struct {
	Text  string `json:"text"  validate:"required,max=500"`
	Score *int   `json:"score" validate:"required,min=1,max=10"`
}

type reviewPatchRequest struct {
	Text  *string `json:"text"  validate:"omitempty,max=500"`
	Score *int    `json:"score" validate:"omitempty,min=1,max=10"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required,max=200"`
}

type commentPatchRequest struct {
	Text *string `json:"text" validate:"omitempty,max=200"`
}

// # Path Parameters

type reviewPath struct {
	titleID  int64
	reviewID int64
}

func parseReviewPath(request *http.Request, withReview bool) (reviewPath, error) {
	var path reviewPath
	var err error

	if path.titleID, err = requestutil.Int64Param(request, "title_id", resourceTitle); err != nil {
		return path, err
	}
	if withReview {
		if path.reviewID, err = requestutil.Int64Param(request, "review_id", resourceReview); err != nil {
			return path, err
		}
	}
	return path, nil
}

// # Review Endpoints

/*
GET /api/v1/titles/{title_id}/reviews/

Response:
  - 200: Paginated reviews, newest first
  - 404: NOT_FOUND: Unknown title
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	path, err := parseReviewPath(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	reviews, total, err := handler.service.ListReviews(request.Context(), path.titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

// GET /api/v1/titles/{title_id}/reviews/{review_id}/
func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	path, err := parseReviewPath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.GetReview(request.Context(), path.titleID, path.reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

/*
POST /api/v1/titles/{title_id}/reviews/

Request Body:
  - text: string (required)
  - score: int (required, 1..10)

Response:
  - 201: Review
  - 400: VALIDATION_ERROR: Bad fields or the title is already reviewed by the caller
  - 401: UNAUTHORIZED
  - 404: NOT_FOUND: Unknown title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	path, err := parseReviewPath(request, false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.CreateReview(request.Context(), actor, path.titleID, input.Text, *input.Score)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, review)
}

// PATCH /api/v1/titles/{title_id}/reviews/{review_id}/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	path, err := parseReviewPath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewPatchRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.UpdateReview(request.Context(), actor, path.titleID, path.reviewID,
		ReviewPatch{Text: input.Text, Score: input.Score})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

// DELETE /api/v1/titles/{title_id}/reviews/{review_id}/
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	path, err := parseReviewPath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteReview(request.Context(), actor, path.titleID, path.reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Comment Endpoints

// GET /api/v1/titles/{title_id}/reviews/{review_id}/comments/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	path, err := parseReviewPath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	comments, total, err := handler.service.ListComments(request.Context(), path.titleID, path.reviewID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

// GET /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}/
func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	path, err := parseReviewPath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	commentID, err := requestutil.Int64Param(request, "comment_id", resourceComment)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.GetComment(request.Context(), path.titleID, path.reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

// POST /api/v1/titles/{title_id}/reviews/{review_id}/comments/
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	path, err := parseReviewPath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), actor, path.titleID, path.reviewID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

// PATCH /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}/
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	path, err := parseReviewPath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	commentID, err := requestutil.Int64Param(request, "comment_id", resourceComment)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentPatchRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.UpdateComment(request.Context(), actor, path.titleID, path.reviewID, commentID, input.Text)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

// DELETE /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}/
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	path, err := parseReviewPath(request, true)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	commentID, err := requestutil.Int64Param(request, "comment_id", resourceComment)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), actor, path.titleID, path.reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
