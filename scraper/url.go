package scraper

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/use-agent/foxread/models"
)

// NormalizeURL completes a caller-supplied URL:
//
//	example.com/a   → https://example.com/a
//	//example.com/a → https://example.com/a
//	http(s)://…     → unchanged
//
// Anything that still lacks an http(s) scheme and a host is INVALID_URL.
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", models.NewExtractError(models.ErrCodeInvalidURL, "url is empty", nil)
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
	case strings.HasPrefix(s, "//"):
		s = "https:" + s
	case hasScheme(s):
		return "", models.NewExtractError(models.ErrCodeInvalidURL,
			fmt.Sprintf("unsupported scheme in %q", s), nil)
	default:
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", models.NewExtractError(models.ErrCodeInvalidURL, "cannot parse url", err)
	}
	if u.Hostname() == "" {
		return "", models.NewExtractError(models.ErrCodeInvalidURL,
			fmt.Sprintf("no host in %q", s), nil)
	}
	return s, nil
}

// hasScheme reports whether s starts with "scheme://". A "://" that appears
// after the first '/', '?' or '#' belongs to the path or query.
func hasScheme(s string) bool {
	i := strings.Index(s, "://")
	if i <= 0 || strings.ContainsAny(s[:i], "/?#") {
		return false
	}
	for j, r := range s[:i] {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case j > 0 && ('0' <= r && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
