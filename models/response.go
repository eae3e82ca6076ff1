package models

// ExtractResponse is the JSON body for a completed extraction: every
// record field plus its classification. Record fields are always present,
// even when empty.
type ExtractResponse struct {
	// Success is false for soft extraction failures (sentinel content or a
	// blocked placeholder page).
	Success bool `json:"success"`

	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`

	// ContentLength counts Unicode code points, not bytes.
	ContentLength int `json:"content_length"`

	// Quality is "basic", "good" or "excellent".
	Quality string `json:"quality"`

	// Timing provides the end-to-end duration.
	Timing TimingInfo `json:"timing"`
}

// ErrorResponse is the JSON body for hard errors. It carries no record.
type ErrorResponse struct {
	Success bool         `json:"success"` // always false
	Error   *ErrorDetail `json:"error"`
	Timing  *TimingInfo  `json:"timing,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status          string `json:"status"` // "healthy" or "limited"
	Uptime          string `json:"uptime"`
	WorkerAvailable bool   `json:"worker_available"`
	WorkerPath      string `json:"worker_path"`
	Version         string `json:"version"`
}

// HomeResponse is the service banner for GET /.
type HomeResponse struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

// ProbeResult is one URL's outcome in GET /test.
type ProbeResult struct {
	URL           string `json:"url"`
	Description   string `json:"description"`
	Title         string `json:"title,omitempty"`
	Success       bool   `json:"success"`
	ContentLength int    `json:"content_length"`
	Quality       string `json:"quality,omitempty"`
	Preview       string `json:"preview,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ProbeSummary aggregates GET /test results.
type ProbeSummary struct {
	Total       int    `json:"total"`
	Successful  int    `json:"successful"`
	SuccessRate string `json:"success_rate"`
	Performance string `json:"performance"` // "master", "skilled" or "learning"
}

// ProbeResponse is the response for GET /test.
type ProbeResponse struct {
	Results []ProbeResult `json:"results"`
	Summary ProbeSummary  `json:"summary"`
}
