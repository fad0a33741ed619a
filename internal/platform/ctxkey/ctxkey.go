// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines the typed keys under which per-request values
// (request id, verified token claims, request logger) are stored.
package ctxkey

// key is unexported so that no other package can build a colliding key.
type key string

const (
	// KeyRequestID holds the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyUser holds the verified [sec.AuthClaims] of the caller.
	KeyUser key = "user"

	// KeyLogger holds the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
