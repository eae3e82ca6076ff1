package models

// FailureSentinel replaces the content of a record whose fetch failed.
const FailureSentinel = "访问失败"

// ContentTypeHTML is the content type of every successfully fetched record.
const ContentTypeHTML = "text/html"

// RawFetchResult is what a single worker fetch produced. HTML is nil when
// the fetch failed.
type RawFetchResult struct {
	HTML          *string
	Title         string
	Failed        bool
	FailureReason string
}

// ExtractionRecord is the worker's stdout document and the orchestrator's
// return value.
type ExtractionRecord struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`

	// Markdown is set only when the worker ran with --markdown.
	Markdown string `json:"markdown,omitempty"`
}

// Failed reports whether the record carries the failure sentinel.
func (r *ExtractionRecord) Failed() bool {
	return r.Content == FailureSentinel
}
