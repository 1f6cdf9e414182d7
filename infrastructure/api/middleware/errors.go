package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/AayushMore1708/api-hub/application/service"
	"github.com/AayushMore1708/api-hub/infrastructure/provider"
	"github.com/AayushMore1708/api-hub/infrastructure/websearch"
	"github.com/AayushMore1708/api-hub/internal/database"
)

// ErrorResponse is the JSON error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError maps an error to an HTTP status and writes a JSON error body.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError

	var provErr *provider.ProviderError
	switch {
	case errors.Is(err, service.ErrMissingQuery):
		status = http.StatusBadRequest
	case errors.Is(err, websearch.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &provErr):
		status = http.StatusInternalServerError
	}

	if logger != nil && status >= http.StatusInternalServerError {
		logger.Error("request error",
			"request_id", middleware.GetReqID(r.Context()),
			"status", status,
			"error", err.Error(),
			"path", r.URL.Path,
		)
	}

	WriteJSON(w, status, ErrorResponse{Error: err.Error()})
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
