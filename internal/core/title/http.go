// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for titles.
type Handler struct {
	service *Service
}

// NewHandler constructs a title [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] mounted at /titles.
//
// Nested review routes are attached by the caller through mount, which
// receives the /{title_id}/reviews subtree.
func (handler *Handler) Routes(mount func(chi.Router)) chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authorize(authz.Catalog))
		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Get("/{title_id}/", handler.get)
		r.Patch("/{title_id}/", handler.update)
		r.Delete("/{title_id}/", handler.delete)
	})

	if mount != nil {
		router.Route("/{title_id}/reviews", mount)
	}

	return router
}

// # Payloads

type createRequest struct {
	Name        string   `json:"name"        validate:"required,max=256"`
	Year        *int     `json:"year"        validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"    validate:"omitempty,max=50,slug"`
	Genre       []string `json:"genre"       validate:"omitempty,dive,slug"`
}

type updateRequest struct {
	Name        *string   `json:"name"        validate:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// # Endpoints

/*
GET /api/v1/titles/?category=&genre=&year=&name=&page=&limit=

Response:
  - 200: Paginated list of titles with rating
  - 400: VALIDATION_ERROR: Non-numeric or out of range year
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	params := pagination.FromRequest(request)

	filter := Filter{
		Category: query.Get("category"),
		Genre:    query.Get("genre"),
		Name:     query.Get("name"),
		Params:   params,
	}

	if raw := query.Get("year"); raw != "" {
		// year is a SMALLINT column
		parsed, err := strconv.ParseInt(raw, 10, 16)
		if err != nil || parsed < 0 {
			respond.Error(writer, request, apperr.FieldInvalid(fieldYear, "Enter a whole number between 0 and 32767"))
			return
		}
		year := int(parsed)
		filter.Year = &year
	}

	titles, total, err := handler.service.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

// GET /api/v1/titles/{title_id}/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "title_id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

/*
POST /api/v1/titles/

Response:
  - 201: Title
  - 400: VALIDATION_ERROR: Bad fields, future year or unknown slug
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Create(request.Context(), Write{
		Name:         input.Name,
		Year:         *input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, title)
}

// PATCH /api/v1/titles/{title_id}/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "title_id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Update(request.Context(), id, Patch{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

// DELETE /api/v1/titles/{title_id}/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, "title_id", resource)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
