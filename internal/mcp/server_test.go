package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/AayushMore1708/api-hub/application/service"
)

// fakeAnswerer implements Answerer with a canned answer.
type fakeAnswerer struct {
	answer  service.Answer
	err     error
	queries []string
}

func (f *fakeAnswerer) Ask(_ context.Context, query string) (service.Answer, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return service.Answer{}, f.err
	}
	return f.answer, nil
}

// sendMessage marshals a JSON-RPC request, sends it through HandleMessage,
// and returns the JSONRPCResponse.
func sendMessage(t *testing.T, srv *Server, method string, id int, params map[string]any) mcp.JSONRPCResponse {
	t.Helper()

	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		msg["params"] = params
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	result := srv.MCPServer().HandleMessage(context.Background(), raw)

	resp, ok := result.(mcp.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T: %+v", result, result)
	}
	return resp
}

// resultJSON re-marshals the Result field through JSON into dst.
func resultJSON(t *testing.T, resp mcp.JSONRPCResponse, dst any) {
	t.Helper()
	b, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		t.Fatalf("unmarshal result into %T: %v", dst, err)
	}
}

func initialize(t *testing.T, srv *Server) {
	t.Helper()
	sendMessage(t, srv, "initialize", 1, map[string]any{
		"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
		"clientInfo":      map[string]any{"name": "test", "version": "0.0.1"},
		"capabilities":    map[string]any{},
	})
}

func TestServer_ListsQueryTool(t *testing.T) {
	srv := NewServer(&fakeAnswerer{}, "1.0.0", nil)
	initialize(t, srv)

	resp := sendMessage(t, srv, "tools/list", 2, nil)

	var result mcp.ListToolsResult
	resultJSON(t, resp, &result)

	if len(result.Tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(result.Tools))
	}
	if result.Tools[0].Name != "query_api_docs" {
		t.Errorf("expected query_api_docs tool, got %s", result.Tools[0].Name)
	}
}

func TestServer_QueryToolReturnsAnswer(t *testing.T) {
	answerer := &fakeAnswerer{answer: service.Answer{Text: "* **Path:** `/v1/charges`", Library: "stripe"}}
	srv := NewServer(answerer, "1.0.0", nil)
	initialize(t, srv)

	resp := sendMessage(t, srv, "tools/call", 2, map[string]any{
		"name":      "query_api_docs",
		"arguments": map[string]any{"query": "stripe charges"},
	})

	var result mcp.CallToolResult
	resultJSON(t, resp, &result)

	if result.IsError {
		t.Fatalf("unexpected tool error: %+v", result.Content)
	}
	if len(answerer.queries) != 1 || answerer.queries[0] != "stripe charges" {
		t.Errorf("expected query to reach the service, got %v", answerer.queries)
	}

	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	if text.Text != "* **Path:** `/v1/charges`" {
		t.Errorf("unexpected answer text: %s", text.Text)
	}
}

func TestServer_QueryToolMissingArgument(t *testing.T) {
	srv := NewServer(&fakeAnswerer{}, "1.0.0", nil)
	initialize(t, srv)

	resp := sendMessage(t, srv, "tools/call", 2, map[string]any{
		"name":      "query_api_docs",
		"arguments": map[string]any{},
	})

	var result mcp.CallToolResult
	resultJSON(t, resp, &result)

	if !result.IsError {
		t.Error("expected tool error for missing query")
	}
}

func TestServer_QueryToolServiceError(t *testing.T) {
	srv := NewServer(&fakeAnswerer{err: errors.New("embedding provider down")}, "1.0.0", nil)
	initialize(t, srv)

	resp := sendMessage(t, srv, "tools/call", 2, map[string]any{
		"name":      "query_api_docs",
		"arguments": map[string]any{"query": "stripe charges"},
	})

	var result mcp.CallToolResult
	resultJSON(t, resp, &result)

	if !result.IsError {
		t.Error("expected tool error when the service fails")
	}
}
