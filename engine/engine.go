package engine

import (
	"context"
	"log/slog"

	"github.com/use-agent/foxread/models"
	"github.com/use-agent/foxread/policy"
)

// Engine is the interface that all fetch engines must implement.
// Fetch either returns the rendered page or an error; it never returns both.
type Engine interface {
	// Name returns the engine identifier ("browser" or "http").
	Name() string

	// Fetch retrieves the page at url using the given profile. Any session
	// it opens is released before it returns.
	Fetch(ctx context.Context, url string, profile policy.SiteProfile) (*Page, error)
}

// Page is the output of a successful engine fetch.
type Page struct {
	HTML  string
	Title string
}

// Run fetches url with e and folds the outcome into a RawFetchResult.
// Engine errors become Failed results; they are not propagated.
func Run(ctx context.Context, e Engine, url string, profile policy.SiteProfile) models.RawFetchResult {
	slog.Debug("fetch starting",
		"engine", e.Name(),
		"url", url,
		"category", profile.Category,
		"stealth", profile.StealthEnabled,
	)

	page, err := e.Fetch(ctx, url, profile)
	if err != nil {
		slog.Warn("fetch failed", "engine", e.Name(), "url", url, "error", err)
		return models.RawFetchResult{
			Failed:        true,
			FailureReason: err.Error(),
		}
	}

	html := page.HTML
	return models.RawFetchResult{
		HTML:  &html,
		Title: page.Title,
	}
}

// New returns the engine registered under name. Unknown names get the
// browser engine.
func New(name string, browserBin string, fullEvasions bool) Engine {
	if name == "http" {
		return NewHTTPEngine()
	}
	return NewRodEngine(browserBin, fullEvasions)
}
