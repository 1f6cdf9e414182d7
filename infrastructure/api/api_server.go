package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/server"

	apihub "github.com/AayushMore1708/api-hub"
	apimiddleware "github.com/AayushMore1708/api-hub/infrastructure/api/middleware"
	v1 "github.com/AayushMore1708/api-hub/infrastructure/api/v1"
	mcpinternal "github.com/AayushMore1708/api-hub/internal/mcp"
)

// APIServer provides an HTTP API backed by an apihub Client.
type APIServer struct {
	client       *apihub.Client
	server       *Server
	router       chi.Router
	routerCalled bool
	logger       *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given Client.
func NewAPIServer(client *apihub.Client) *APIServer {
	return &APIServer{
		client: client,
		logger: client.Logger(),
	}
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call
// MountRoutes(). If not called, ListenAndServe creates a default router
// with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all routes on the router.
// Call this after adding any custom middleware via Router().Use().
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

// mountRoutes wires up all routes on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	router.Use(apimiddleware.Logging(a.logger))

	queryRouter := v1.NewQueryRouter(a.client.Query, a.logger)
	searchRouter := v1.NewSearchRouter(a.client.WebSearch, a.logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		r.Mount("/query", queryRouter.Routes())
		r.Mount("/search", searchRouter.Routes())
	})

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		apimiddleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// MCP endpoint. No timeout middleware: MCP streams responses, which
	// is incompatible with chi's Timeout wrapper.
	mcpSrv := mcpinternal.NewServer(a.client.Query, "1.0.0", a.logger)
	httpHandler := server.NewStreamableHTTPServer(mcpSrv.MCPServer())
	router.Mount("/mcp", httpHandler)
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	srv := NewServer(addr, a.logger)
	a.server = &srv

	if a.routerCalled && a.router != nil {
		srv.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(srv.Router())
	}

	return srv.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}
