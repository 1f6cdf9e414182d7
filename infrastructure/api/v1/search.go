package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AayushMore1708/api-hub/application/service"
	"github.com/AayushMore1708/api-hub/infrastructure/api/middleware"
	"github.com/AayushMore1708/api-hub/infrastructure/websearch"
)

// SearchRequest is the body of a web search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse carries web search hits in rank order.
type SearchResponse struct {
	Results []websearch.Result `json:"results"`
	Count   int                `json:"count"`
}

// SearchRouter proxies web searches for the UI.
type SearchRouter struct {
	client *websearch.Client
	logger *slog.Logger
}

// NewSearchRouter creates a new SearchRouter.
func NewSearchRouter(client *websearch.Client, logger *slog.Logger) *SearchRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchRouter{client: client, logger: logger}
}

// Routes returns the chi router for search endpoints.
func (r *SearchRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Search)

	return router
}

// Search handles POST /api/v1/search.
func (r *SearchRouter) Search(w http.ResponseWriter, req *http.Request) {
	var body SearchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %v", service.ErrMissingQuery, err), r.logger)
		return
	}
	if body.Query == "" {
		middleware.WriteError(w, req, service.ErrMissingQuery, r.logger)
		return
	}

	results, err := r.client.Search(req.Context(), body.Query)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if results == nil {
		results = []websearch.Result{}
	}

	middleware.WriteJSON(w, http.StatusOK, SearchResponse{
		Results: results,
		Count:   len(results),
	})
}
