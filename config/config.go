package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Worker    WorkerConfig
	Policy    PolicyConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8900
	Mode string // "debug", "release", "test"; default: "release"
}

// WorkerConfig controls how the orchestrator spawns extraction workers.
type WorkerConfig struct {
	// Bin is the worker executable: an absolute path, a relative path,
	// or a bare name resolved through $PATH.
	Bin string // default: "foxread-worker"

	// Engine is passed to the worker as --engine ("browser" or "http").
	Engine string // default: "browser"

	// Markdown asks the worker to attach a Markdown rendering of the page.
	Markdown bool // default: false

	// DefaultTimeout is used when the caller does not supply one.
	DefaultTimeout time.Duration // default: 30s

	// MaxTimeout caps caller-supplied timeouts.
	MaxTimeout time.Duration // default: 120s

	// MaxWorkers limits concurrently running workers. 0 means unlimited.
	MaxWorkers int // default: 0
}

// PolicyConfig feeds the stealth policy selector and the browser engine.
type PolicyConfig struct {
	// SocialDomains are matched against the target host (suffix match).
	SocialDomains []string

	// ComplexDomains are sites known to fingerprint automated browsers.
	ComplexDomains []string

	// FullEvasions injects the go-rod/stealth bundle on stealth profiles,
	// in addition to the navigator.webdriver patch.
	FullEvasions bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key or client IP.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per identity.
	Burst int // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultSocialDomains lists social-media hosts that get the stealth profile.
var DefaultSocialDomains = []string{"twitter.com", "x.com", "facebook.com", "instagram.com"}

// DefaultComplexDomains lists anti-bot heavy hosts that get the stealth profile.
var DefaultComplexDomains = []string{"zhihu.com", "weibo.com", "csdn.net", "jianshu.com"}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("FOXREAD_HOST", "0.0.0.0"),
			Port: envIntOr("FOXREAD_PORT", 8900),
			Mode: envOr("FOXREAD_MODE", "release"),
		},
		Worker: WorkerConfig{
			Bin:            envOr("FOXREAD_WORKER_BIN", "foxread-worker"),
			Engine:         envOr("FOXREAD_WORKER_ENGINE", "browser"),
			Markdown:       envBoolOr("FOXREAD_WORKER_MARKDOWN", false),
			DefaultTimeout: envDurationOr("FOXREAD_DEFAULT_TIMEOUT", 30*time.Second),
			MaxTimeout:     envDurationOr("FOXREAD_MAX_TIMEOUT", 120*time.Second),
			MaxWorkers:     envIntOr("FOXREAD_MAX_WORKERS", 0),
		},
		Policy: LoadPolicy(),
		Auth: AuthConfig{
			Enabled: envBoolOr("FOXREAD_AUTH_ENABLED", false),
			APIKeys: envSliceOr("FOXREAD_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("FOXREAD_RATE_RPS", 2.0),
			Burst:             envIntOr("FOXREAD_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("FOXREAD_LOG_LEVEL", "info"),
			Format: envOr("FOXREAD_LOG_FORMAT", "json"),
		},
	}
}

// LoadPolicy reads only the policy section. The worker process uses it so
// it sees the same domain lists as the server that spawned it.
func LoadPolicy() PolicyConfig {
	return PolicyConfig{
		SocialDomains:  envSliceOr("FOXREAD_SOCIAL_DOMAINS", DefaultSocialDomains),
		ComplexDomains: envSliceOr("FOXREAD_COMPLEX_DOMAINS", DefaultComplexDomains),
		FullEvasions:   envBoolOr("FOXREAD_FULL_EVASIONS", false),
		BrowserBin:     os.Getenv("FOXREAD_BROWSER_BIN"),
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
