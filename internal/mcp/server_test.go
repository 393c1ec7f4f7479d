// ABOUTME: Tests for the MCP HTTP transport including session lifecycle
// ABOUTME: Validates initialize, tools/list, tools/call, notifications, and auth handling

package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog/carelog-gateway/internal/dispatcher"
	"github.com/carelog/carelog-gateway/internal/facade"
	"github.com/carelog/carelog-gateway/internal/registry"
	"github.com/carelog/carelog-gateway/internal/store"
)

// mockTokenVerifier implements auth.TokenVerifier for testing.
type mockTokenVerifier struct {
	principalID string
	err         error
}

func (m *mockTokenVerifier) Verify(string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.principalID, nil
}

func newTestDispatcher(t *testing.T) (*dispatcher.Dispatcher, *store.MockStore) {
	t.Helper()
	mock := store.NewMockStore()
	f := facade.New(mock, slog.Default())
	return dispatcher.New(registry.Build(f), f, slog.Default(), 5*time.Second), mock
}

func newTestServer(t *testing.T, cfg Config) *http.ServeMux {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	server, err := NewServer(cfg)
	require.NoError(t, err)
	mux := http.NewServeMux()
	server.RegisterRoutes(mux)
	return mux
}

func rpcRequest(t *testing.T, id any, method string, params any) *bytes.Buffer {
	t.Helper()
	req := map[string]any{"jsonrpc": "2.0", "method": method}
	if id != nil {
		req["id"] = id
	}
	if params != nil {
		req["params"] = params
	}
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func doRPC(t *testing.T, mux *http.ServeMux, sessionID string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp", body)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("Mcp-Session-Id", sessionID)
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func initializeSession(t *testing.T, mux *http.ServeMux) string {
	t.Helper()
	rr := doRPC(t, mux, "", rpcRequest(t, 1, "initialize", map[string]any{
		"protocolVersion": "2025-11-25",
	}))
	require.Equal(t, http.StatusOK, rr.Code)
	sessionID := rr.Header().Get("Mcp-Session-Id")
	require.NotEmpty(t, sessionID)
	return sessionID
}

func decodeResult(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp JSONRPCResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Nil(t, resp.Error, "unexpected JSON-RPC error: %+v", resp.Error)
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestInitializeCreatesSession(t *testing.T) {
	d, _ := newTestDispatcher(t)
	mux := newTestServer(t, Config{Dispatcher: d})

	rr := doRPC(t, mux, "", rpcRequest(t, 1, "initialize", map[string]any{
		"protocolVersion": "2025-11-25",
	}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Mcp-Session-Id"))

	var result map[string]any
	decodeResult(t, rr, &result)
	assert.Equal(t, "2025-11-25", result["protocolVersion"])
	serverInfo, ok := result["serverInfo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "carelog-gateway", serverInfo["name"])
}

func TestRequestsWithoutSessionRejected(t *testing.T) {
	d, _ := newTestDispatcher(t)
	mux := newTestServer(t, Config{Dispatcher: d})

	rr := doRPC(t, mux, "", rpcRequest(t, 2, "tools/list", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRPC(t, mux, "unknown-session", rpcRequest(t, 2, "tools/list", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestToolsList(t *testing.T) {
	d, _ := newTestDispatcher(t)
	mux := newTestServer(t, Config{Dispatcher: d})
	sessionID := initializeSession(t, mux)

	rr := doRPC(t, mux, sessionID, rpcRequest(t, 2, "tools/list", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var result MCPListToolsResult
	decodeResult(t, rr, &result)
	require.Len(t, result.Tools, 3)

	names := make(map[string]bool)
	for _, tool := range result.Tools {
		names[tool.Name] = true
		assert.NotEmpty(t, tool.Description)
		var schema map[string]any
		require.NoError(t, json.Unmarshal(tool.InputSchema, &schema), "tool %s schema must be valid JSON", tool.Name)
		assert.Equal(t, "object", schema["type"])
	}
	assert.True(t, names["execute_query"])
	assert.True(t, names["search"])
	assert.True(t, names["get_schema"])
}

func TestToolsCallExecuteQuery(t *testing.T) {
	d, mock := newTestDispatcher(t)
	mock.AddSupplier(&store.Supplier{ID: "s1", Name: "CarePlus", IsActive: true})
	mux := newTestServer(t, Config{Dispatcher: d})
	sessionID := initializeSession(t, mux)

	t.Run("success envelope in content", func(t *testing.T) {
		rr := doRPC(t, mux, sessionID, rpcRequest(t, 3, "tools/call", map[string]any{
			"name":      "execute_query",
			"arguments": map[string]any{"method": "suppliers.list"},
		}))
		require.Equal(t, http.StatusOK, rr.Code)

		var result MCPCallToolResult
		decodeResult(t, rr, &result)
		assert.False(t, result.IsError)
		require.Len(t, result.Content, 1)
		assert.Equal(t, "text", result.Content[0].Type)

		var env map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &env))
		assert.Equal(t, true, env["success"])
		assert.Equal(t, float64(1), env["count"])
	})

	t.Run("dispatcher failure is isError content, not a JSON-RPC error", func(t *testing.T) {
		rr := doRPC(t, mux, sessionID, rpcRequest(t, 4, "tools/call", map[string]any{
			"name":      "execute_query",
			"arguments": map[string]any{"method": "pharmacy.list"},
		}))
		require.Equal(t, http.StatusOK, rr.Code)

		var result MCPCallToolResult
		decodeResult(t, rr, &result)
		assert.True(t, result.IsError)
		require.Len(t, result.Content, 1)

		var env map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &env))
		assert.Equal(t, false, env["success"])
		assert.Contains(t, env["error"], "pharmacy.list")
	})

	t.Run("unknown tool is a JSON-RPC error", func(t *testing.T) {
		rr := doRPC(t, mux, sessionID, rpcRequest(t, 5, "tools/call", map[string]any{
			"name": "drop_tables",
		}))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp JSONRPCResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, JSONRPCInvalidParams, resp.Error.Code)
	})

	t.Run("missing tool name is a JSON-RPC error", func(t *testing.T) {
		rr := doRPC(t, mux, sessionID, rpcRequest(t, 6, "tools/call", map[string]any{}))
		var resp JSONRPCResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, JSONRPCInvalidParams, resp.Error.Code)
	})
}

func TestToolsCallSearchAndSchema(t *testing.T) {
	d, mock := newTestDispatcher(t)
	mock.AddNote(&store.Note{ID: "n1", Title: "Medicare rebate", UpdatedAt: time.Now()})
	mux := newTestServer(t, Config{Dispatcher: d})
	sessionID := initializeSession(t, mux)

	t.Run("search", func(t *testing.T) {
		rr := doRPC(t, mux, sessionID, rpcRequest(t, 7, "tools/call", map[string]any{
			"name":      "search",
			"arguments": map[string]any{"query": "Medicare", "entity_types": []string{"notes"}},
		}))
		var result MCPCallToolResult
		decodeResult(t, rr, &result)
		assert.False(t, result.IsError)

		var env map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &env))
		assert.Equal(t, "Medicare", env["query"])
		assert.Equal(t, float64(1), env["totalCount"])
	})

	t.Run("get_schema for a named domain", func(t *testing.T) {
		rr := doRPC(t, mux, sessionID, rpcRequest(t, 8, "tools/call", map[string]any{
			"name":      "get_schema",
			"arguments": map[string]any{"domain": "notes"},
		}))
		var result MCPCallToolResult
		decodeResult(t, rr, &result)
		assert.False(t, result.IsError)

		var env map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &env))
		assert.Equal(t, "notes", env["domain"])
		schema, ok := env["schema"].(map[string]any)
		require.True(t, ok, "named domain returns a single schema object")
		assert.Equal(t, "notes", schema["domain"])
	})

	t.Run("get_schema with no arguments defaults to all", func(t *testing.T) {
		rr := doRPC(t, mux, sessionID, rpcRequest(t, 9, "tools/call", map[string]any{
			"name": "get_schema",
		}))
		var result MCPCallToolResult
		decodeResult(t, rr, &result)
		assert.False(t, result.IsError)

		var env map[string]any
		require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &env))
		_, ok := env["schema"].([]any)
		require.True(t, ok, "all domains returns an array of schemas")
	})
}

func TestNotificationsAccepted(t *testing.T) {
	d, _ := newTestDispatcher(t)
	mux := newTestServer(t, Config{Dispatcher: d})
	sessionID := initializeSession(t, mux)

	rr := doRPC(t, mux, sessionID, rpcRequest(t, nil, "notifications/initialized", nil))
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestSessionDelete(t *testing.T) {
	d, _ := newTestDispatcher(t)
	tokens := NewTokenStore()
	tokens.Register("secret-token", "claude")
	mux := newTestServer(t, Config{Dispatcher: d, TokenStore: tokens, RequireAuth: true})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp/secret-token",
		rpcRequest(t, 1, "initialize", map[string]any{"protocolVersion": "2025-11-25"}))
	mux.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	sessionID := rr.Header().Get("Mcp-Session-Id")
	require.NotEmpty(t, sessionID)

	t.Run("missing session id", func(t *testing.T) {
		del := httptest.NewRequest(http.MethodDelete, "/mcp/secret-token", nil)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, del)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("wrong credential cannot delete", func(t *testing.T) {
		del := httptest.NewRequest(http.MethodDelete, "/mcp/other-token", nil)
		del.Header.Set("Mcp-Session-Id", sessionID)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, del)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("owner deletes, second delete is 404", func(t *testing.T) {
		del := httptest.NewRequest(http.MethodDelete, "/mcp/secret-token", nil)
		del.Header.Set("Mcp-Session-Id", sessionID)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, del)
		assert.Equal(t, http.StatusNoContent, rr.Code)

		rr = httptest.NewRecorder()
		mux.ServeHTTP(rr, del)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestAuthRequired(t *testing.T) {
	d, _ := newTestDispatcher(t)
	tokens := NewTokenStore()
	tokens.Register("good-token", "claude")
	verifier := &mockTokenVerifier{principalID: "agent-1"}
	mux := newTestServer(t, Config{
		Dispatcher:    d,
		TokenStore:    tokens,
		TokenVerifier: verifier,
		RequireAuth:   true,
	})

	t.Run("anonymous initialize rejected", func(t *testing.T) {
		rr := doRPC(t, mux, "", rpcRequest(t, 1, "initialize", nil))
		var resp JSONRPCResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Message, "authentication required")
	})

	t.Run("invalid path token rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/mcp/bad-token", rpcRequest(t, 1, "initialize", nil))
		mux.ServeHTTP(rr, req)
		var resp JSONRPCResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Message, "invalid or expired token")
	})

	t.Run("bearer token accepted", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/mcp", rpcRequest(t, 1, "initialize", nil))
		req.Header.Set("Authorization", "Bearer anything")
		mux.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("Mcp-Session-Id"))
	})

	t.Run("query token accepted", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/mcp?token=good-token", rpcRequest(t, 1, "initialize", nil))
		mux.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestInvalidCredentialNotDowngraded(t *testing.T) {
	d, _ := newTestDispatcher(t)
	verifier := &mockTokenVerifier{err: errors.New("signature mismatch")}
	// Auth is optional here, so requests without credentials stay anonymous
	mux := newTestServer(t, Config{Dispatcher: d, TokenVerifier: verifier})

	t.Run("bad bearer token rejected even without require", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/mcp", rpcRequest(t, 1, "initialize", nil))
		req.Header.Set("Authorization", "Bearer tampered")
		mux.ServeHTTP(rr, req)

		var resp JSONRPCResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Message, "invalid or expired token")
	})

	t.Run("no credential still falls through to anonymous", func(t *testing.T) {
		rr := doRPC(t, mux, "", rpcRequest(t, 1, "initialize", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("Mcp-Session-Id"))
	})
}

func TestMalformedRequests(t *testing.T) {
	d, _ := newTestDispatcher(t)
	mux := newTestServer(t, Config{Dispatcher: d})

	t.Run("invalid JSON", func(t *testing.T) {
		rr := doRPC(t, mux, "", bytes.NewBufferString("{not json"))
		var resp JSONRPCResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, JSONRPCParseError, resp.Error.Code)
	})

	t.Run("wrong JSON-RPC version", func(t *testing.T) {
		rr := doRPC(t, mux, "", bytes.NewBufferString(`{"jsonrpc":"1.0","id":1,"method":"initialize"}`))
		var resp JSONRPCResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, JSONRPCInvalidRequest, resp.Error.Code)
	})

	t.Run("GET not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})

	t.Run("unknown method", func(t *testing.T) {
		d2, _ := newTestDispatcher(t)
		mux2 := newTestServer(t, Config{Dispatcher: d2})
		sessionID := initializeSession(t, mux2)
		rr := doRPC(t, mux2, sessionID, rpcRequest(t, 10, "resources/list", nil))
		var resp JSONRPCResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, JSONRPCMethodNotFound, resp.Error.Code)
	})
}
