package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/use-agent/foxread/cleaner"
	"github.com/use-agent/foxread/engine"
	"github.com/use-agent/foxread/models"
	"github.com/use-agent/foxread/policy"
)

// profileSelector picks the browser profile for a URL.
type profileSelector interface {
	SelectProfile(rawURL string) policy.SiteProfile
}

// extract runs fetch → normalize for one URL. It never fails: fetch errors
// become a record carrying the failure sentinel.
func extract(ctx context.Context, eng engine.Engine, sel profileSelector, url string, withMarkdown bool) models.ExtractionRecord {
	profile := sel.SelectProfile(url)
	slog.Debug("profile selected",
		"url", url,
		"category", profile.Category,
		"stealth", profile.StealthEnabled,
	)

	raw := engine.Run(ctx, eng, url, profile)
	rec := cleaner.Normalize(raw, url)

	if withMarkdown && !rec.Failed() {
		if err := cleaner.AttachMarkdown(&rec, raw); err != nil {
			slog.Warn("markdown conversion failed", "url", url, "error", err)
		}
	}
	return rec
}

// writeRecord encodes rec as one JSON document. Non-ASCII text is written
// as-is and HTML characters are not escaped.
func writeRecord(w io.Writer, rec models.ExtractionRecord, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rec)
}

// writeRecordFile writes rec to path. A failed write or close is an error,
// so the worker never exits 0 with a truncated file.
func writeRecordFile(path string, rec models.ExtractionRecord, indent bool) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close output: %w", cerr))
		}
	}()
	if err := writeRecord(f, rec, indent); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return f.Sync()
}
