package render

import (
	"strings"

	"github.com/use-agent/foxread/models"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// Content types for the non-JSON formats.
const (
	MIMEText     = "text/plain; charset=utf-8"
	MIMEMarkdown = "text/markdown; charset=utf-8"
)

// Attribution closes every Markdown rendering.
const Attribution = "*Extracted by FoxRead*"

// JSON builds the full response body: the record plus its classification.
func JSON(rec *models.ExtractionRecord) models.ExtractResponse {
	c := Classify(rec)
	return models.ExtractResponse{
		Success:       c.Success,
		Title:         rec.Title,
		URL:           rec.URL,
		Content:       rec.Content,
		ContentType:   rec.ContentType,
		ContentLength: c.ContentLength,
		Quality:       string(c.Quality),
	}
}

// Text renders the content only.
func Text(rec *models.ExtractionRecord) string {
	return rec.Content
}

// Markdown renders "# title", a blank line, the body and the attribution
// footer. The body is the worker's Markdown conversion when present,
// otherwise the plain content.
func Markdown(rec *models.ExtractionRecord) string {
	body := rec.Content
	if rec.Markdown != "" {
		body = rec.Markdown
	}

	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(rec.Title)
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n---\n")
	b.WriteString(Attribution)
	return b.String()
}
