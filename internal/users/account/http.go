// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for profiles and user administration.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] mounted at /users.
//
// The static /me/ route is registered first and wins over /{username}/.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Self service
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authorize(authz.Authenticated))
		r.Get("/me/", handler.getMe)
		r.Patch("/me/", handler.updateMe)
	})

	// Administration
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authorize(authz.UserAdmin))
		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Get("/{username}/", handler.get)
		r.Patch("/{username}/", handler.update)
		r.Delete("/{username}/", handler.delete)
	})

	return router
}

// # Payloads

type updateRequest struct {
	Username  *string `json:"username"   validate:"omitempty,max=150,username"`
	Email     *string `json:"email"      validate:"omitempty,max=254,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"`
}

func (input updateRequest) toInput() UpdateInput {
	update := UpdateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	}
	if input.Role != nil {
		role := sec.UserRole(*input.Role)
		update.Role = &role
	}
	return update
}

type createRequest struct {
	Username  string `json:"username"   validate:"required,max=150,username"`
	Email     string `json:"email"      validate:"required,max=254,email"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name"  validate:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role"       validate:"omitempty,oneof=user moderator admin"`
}

// # Self Service

/*
GET /api/v1/users/me/

Response:
  - 200: User: The caller's account
  - 401: UNAUTHORIZED: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetSelf(request.Context(), actor.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/me/

Description: Partial update. A "role" sent by a plain user is ignored.

Response:
  - 200: User: Updated account
  - 400: VALIDATION_ERROR
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredActor(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateSelf(request.Context(), actor.UserID, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Administration

/*
GET /api/v1/users/?search=&page=&limit=

Response:
  - 200: Paginated list of users
  - 403: FORBIDDEN: Caller is not an admin
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.accountService.List(request.Context(), ListFilter{
		Search: request.URL.Query().Get("search"),
		Params: params,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

// POST /api/v1/users/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), CreateInput{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      sec.UserRole(input.Role),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

// GET /api/v1/users/{username}/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Get(request.Context(), requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// PATCH /api/v1/users/{username}/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Update(request.Context(), requestutil.Param(request, "username"), input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

// DELETE /api/v1/users/{username}/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.accountService.Delete(request.Context(), requestutil.Param(request, "username")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
