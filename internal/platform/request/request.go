// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil extracts path parameters, bodies and identity from requests.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/authz"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body into target and validates its tags.

Parameters:
  - request: *http.Request
  - target: any (pointer to the destination DTO)

Returns:
  - error: validate.ErrInvalidJSON on malformed bodies, a field-level
    ValidationError when tags fail, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return validate.Struct(target)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Int64Param parses a numeric path parameter.

Returns apperr.NotFound(resource) when the value is not a positive integer,
so malformed ids behave like missing rows.
*/
func Int64Param(request *http.Request, name, resource string) (int64, error) {
	value, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || value <= 0 {
		return 0, apperr.NotFound(resource)
	}
	return value, nil
}

/*
Actor returns the caller as an authorization actor, or nil when anonymous.
*/
func Actor(request *http.Request) *authz.Actor {
	return ctxutil.GetActor(request.Context())
}

/*
RequiredActor ensures the request is authenticated.

Returns:
  - *authz.Actor: the caller
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredActor(request *http.Request) (*authz.Actor, error) {
	actor := Actor(request)
	if !actor.Authenticated() {
		return nil, apperr.Unauthorized("Authentication credentials were not provided")
	}
	return actor, nil
}
