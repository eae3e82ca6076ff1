package models

// MaxTimeoutSeconds bounds the timeout query parameter.
const MaxTimeoutSeconds = 120

// ExtractRequest is the query payload for GET /api and GET /extract/*url.
type ExtractRequest struct {
	// URL is the target page. The scheme is optional; https is assumed.
	URL string `form:"url"`

	// Format controls the response body: "json", "text" or "markdown".
	// Unknown values fall back to the endpoint default.
	Format string `form:"format"`

	// Timeout is the worker deadline in seconds. 0 means the server default.
	Timeout int `form:"timeout" binding:"omitempty,min=1,max=120"`
}

// Defaults applies default values to unset fields. defaultFormat differs
// between /api (json) and /extract (markdown).
func (r *ExtractRequest) Defaults(defaultFormat string) {
	switch r.Format {
	case "json", "text", "markdown":
	default:
		r.Format = defaultFormat
	}
}
