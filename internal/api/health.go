// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/respond"
)

// readinessTimeout bounds every dependency check.
const readinessTimeout = 2 * time.Second

// HealthCheck pings one dependency.
type HealthCheck func(context context.Context) error

// HealthDependencies holds the checks behind /ready.
type HealthDependencies struct {
	// Database pings PostgreSQL.
	Database HealthCheck

	// CodeStore pings Redis.
	CodeStore HealthCheck
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready handlers.
func NewHealthHandlers(dependencies HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: dependencies, logger: logger}
	return handler.liveness, handler.readiness
}

// GET /health
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus: "ok",
		"service":             constants.AppName,
		"version":             constants.AppVersion,
	})
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

/*
GET /ready

Response:
  - 200: Every dependency answered
  - 503: At least one dependency failed; the body lists each check
*/
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	context, cancel := context.WithTimeout(request.Context(), readinessTimeout)
	defer cancel()

	checks := []struct {
		name  string
		check HealthCheck
	}{
		{"postgres", handler.dependencies.Database},
		{"redis", handler.dependencies.CodeStore},
	}

	results := make([]checkResult, 0, len(checks))
	ready := true

	for _, dependency := range checks {
		if dependency.check == nil {
			continue
		}
		result := checkResult{Name: dependency.name, IsOK: true}
		if err := dependency.check(context); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			ready = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", dependency.name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, code, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	}})
}
