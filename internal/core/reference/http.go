// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for one taxonomy.
type Handler struct {
	service *Service
	kind    Kind
}

// NewHandler constructs a reference [Handler] serving kind.
func NewHandler(service *Service, kind Kind) *Handler {
	return &Handler{service: service, kind: kind}
}

// Routes returns a [chi.Router] mounted at /categories or /genres.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Authorize(authz.Catalog))

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Delete("/{slug}/", handler.delete)

	return router
}

type createRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"omitempty,max=50,slug"`
}

/*
GET /api/v1/{categories|genres}/?search=&page=&limit=

Response:
  - 200: Paginated list of {name, slug}
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	terms, total, err := handler.service.List(request.Context(), handler.kind, Filter{
		Search: request.URL.Query().Get("search"),
		Params: params,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, terms, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/{categories|genres}/

Response:
  - 201: Term
  - 400: VALIDATION_ERROR: Bad name, bad slug or duplicate slug
  - 401/403: Not an admin
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	term, err := handler.service.Create(request.Context(), handler.kind, CreateInput{
		Name: input.Name,
		Slug: input.Slug,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, term)
}

// DELETE /api/v1/{categories|genres}/{slug}/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), handler.kind, requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
