package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// extractResponse mirrors the FoxRead /api JSON body.
type extractResponse struct {
	Success       bool   `json:"success"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	ContentLength int    `json:"content_length"`
	Quality       string `json:"quality"`
	Error         *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("FOXREAD_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8900"
	}
	apiKey := os.Getenv("FOXREAD_API_KEY")

	s := server.NewMCPServer(
		"foxread",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	readURLTool := mcp.NewTool("read_url",
		mcp.WithDescription("Read a web page through a headless browser with anti-bot stealth for sites such as Zhihu, and return its visible text. Works on JavaScript-heavy pages."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to read. The scheme is optional."),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'text' (default, title header plus page text), 'markdown', or 'json' (raw API response)"),
			mcp.Enum("text", "markdown", "json"),
		),
	)
	s.AddTool(readURLTool, handleReadURL(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiGet calls GET {apiURL}/api with the given query and returns the body.
func apiGet(ctx context.Context, client *http.Client, apiURL, apiKey string, query url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/api?"+query.Encode(), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

func handleReadURL(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 130 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		format := request.GetString("format", "text")

		// Markdown is rendered server-side and returned verbatim.
		apiFormat := "json"
		if format == "markdown" {
			apiFormat = "markdown"
		}

		status, body, err := apiGet(ctx, client, apiURL, apiKey, url.Values{
			"url":    {target},
			"format": {apiFormat},
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		if status == http.StatusOK && apiFormat == "markdown" {
			return mcp.NewToolResultText(string(body)), nil
		}

		var resp extractResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response (HTTP %d): %v", status, err)), nil
		}

		if resp.Error != nil {
			return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", resp.Error.Code, resp.Error.Message)), nil
		}
		if format == "json" {
			return mcp.NewToolResultText(string(body)), nil
		}
		if !resp.Success {
			return mcp.NewToolResultError(fmt.Sprintf("page could not be read: %s", resp.Content)), nil
		}

		result := fmt.Sprintf("Title: %s\nSource: %s\nQuality: %s (%d chars)\n\n%s",
			resp.Title, resp.URL, resp.Quality, resp.ContentLength, resp.Content)
		return mcp.NewToolResultText(result), nil
	}
}
