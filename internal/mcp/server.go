// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/AayushMore1708/api-hub/application/service"
)

// Answerer provides documentation query answering for MCP tools.
type Answerer interface {
	Ask(ctx context.Context, query string) (service.Answer, error)
}

// Server wraps the MCP server with documentation tools.
type Server struct {
	mcpServer *server.MCPServer
	query     Answerer
	logger    *slog.Logger
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(query Answerer, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		query:  query,
		logger: logger,
	}

	mcpServer := server.NewMCPServer(
		"api-hub",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

// registerTools registers all tools with the MCP server.
func (s *Server) registerTools(mcpServer *server.MCPServer) {
	queryTool := mcp.NewTool("query_api_docs",
		mcp.WithDescription("Answer questions about REST API endpoints from indexed OpenAPI specifications"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The documentation question, e.g. 'how do I create a stripe customer'"),
		),
	)

	mcpServer.AddTool(queryTool, s.handleQuery)
}

// handleQuery handles the query_api_docs tool invocation.
func (s *Server) handleQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}

	answer, err := s.query.Ask(ctx, query)
	if err != nil {
		s.logger.Error("query failed", slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	return mcp.NewToolResultText(answer.Text), nil
}

// MCPServer returns the underlying MCP server for mounting into HTTP.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}
