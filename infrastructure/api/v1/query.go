// Package v1 implements the versioned REST API routes.
package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AayushMore1708/api-hub/application/service"
	"github.com/AayushMore1708/api-hub/infrastructure/api/middleware"
)

// QueryRequest is the body of a documentation query.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse carries the generated answer.
type QueryResponse struct {
	Answer       string `json:"answer"`
	Initializing bool   `json:"initializing,omitempty"`
	Library      string `json:"library,omitempty"`
}

// QueryRouter handles documentation query endpoints.
type QueryRouter struct {
	query  *service.Query
	logger *slog.Logger
}

// NewQueryRouter creates a new QueryRouter.
func NewQueryRouter(query *service.Query, logger *slog.Logger) *QueryRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryRouter{query: query, logger: logger}
}

// Routes returns the chi router for query endpoints.
func (r *QueryRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Ask)

	return router
}

// Ask handles POST /api/v1/query.
func (r *QueryRouter) Ask(w http.ResponseWriter, req *http.Request) {
	var body QueryRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %v", service.ErrMissingQuery, err), r.logger)
		return
	}

	answer, err := r.query.Ask(req.Context(), body.Query)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, QueryResponse{
		Answer:       answer.Text,
		Initializing: answer.Initializing,
		Library:      answer.Library,
	})
}
