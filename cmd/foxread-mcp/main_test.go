package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, apiURL string, args map[string]any) (*mcp.CallToolResult, string) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = "read_url"
	req.Params.Arguments = args

	res, err := handleReadURL(apiURL, "secret")(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return res, text.Text
}

func TestReadURL_Text(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api", r.URL.Path)
		assert.Equal(t, "https://example.com/a?b=1", r.URL.Query().Get("url"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"title":"A","url":"https://example.com/a?b=1","content":"hello","content_length":5,"quality":"basic"}`))
	}))
	defer srv.Close()

	res, text := call(t, srv.URL, map[string]any{"url": "https://example.com/a?b=1"})
	assert.False(t, res.IsError)
	assert.Contains(t, text, "Title: A\n")
	assert.Contains(t, text, "basic (5 chars)")
	assert.Contains(t, text, "\n\nhello")
}

func TestReadURL_Markdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "markdown", r.URL.Query().Get("format"))
		w.Write([]byte("# A\n\nhello"))
	}))
	defer srv.Close()

	res, text := call(t, srv.URL, map[string]any{"url": "example.com", "format": "markdown"})
	assert.False(t, res.IsError)
	assert.Equal(t, "# A\n\nhello", text)
}

func TestReadURL_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("url") {
		case "slow.example":
			w.WriteHeader(http.StatusRequestTimeout)
			w.Write([]byte(`{"success":false,"error":{"code":"EXTRACT_TIMEOUT","message":"extraction timed out after 30s"}}`))
		default:
			w.Write([]byte(`{"success":false,"content":"访问失败","content_length":4}`))
		}
	}))
	defer srv.Close()

	res, text := call(t, srv.URL, map[string]any{"url": "slow.example"})
	assert.True(t, res.IsError)
	assert.Equal(t, "[EXTRACT_TIMEOUT] extraction timed out after 30s", text)

	res, text = call(t, srv.URL, map[string]any{"url": "down.example"})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "访问失败")

	res, _ = call(t, srv.URL, map[string]any{})
	assert.True(t, res.IsError)
}
