// Package policy maps a target URL to the browser profile used to fetch it.
//
// Sites that fingerprint automated browsers (social networks, Q&A and
// blogging platforms) get a stealth profile; everything else gets a lean
// profile with images disabled. Selection is pure and never touches the
// network.
package policy

import (
	"net/url"
	"strings"
	"time"
)

// Category classifies a target site.
type Category string

const (
	CategoryStandard       Category = "standard"
	CategorySocialMedia    Category = "social_media"
	CategoryComplexAntiBot Category = "complex_anti_bot"
)

// WaitStrategy decides when a navigated page is considered loaded.
type WaitStrategy string

const (
	// WaitReadyState waits for document.readyState == "complete".
	WaitReadyState WaitStrategy = "ready_state"

	// WaitBodySettle waits for a <body> element, then holds for SettleDelay
	// so client-side rendering can finish.
	WaitBodySettle WaitStrategy = "body_settle"
)

// DesktopUserAgent is sent by every profile.
const DesktopUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	waitBound   = 15 * time.Second
	settleDelay = 3 * time.Second
)

// baselineFlags are applied to every profile, in order.
var baselineFlags = []string{
	"headless",
	"no-sandbox",
	"disable-dev-shm-usage",
	"disable-gpu",
	"user-agent=" + DesktopUserAgent,
}

// SiteProfile is the browser configuration for one fetch. Flags use the
// Chromium switch syntax without the leading dashes ("name" or "name=value").
type SiteProfile struct {
	Category        Category
	StealthEnabled  bool
	BrowserFlags    []string
	RemovedSwitches []string
	WaitStrategy    WaitStrategy
	WaitBound       time.Duration
	SettleDelay     time.Duration
	ExtraHeaders    map[string]string
}

// Selector classifies hosts against injectable domain sets.
type Selector struct {
	social  []string
	complex []string
}

// NewSelector creates a Selector. Domains are lower-cased and stripped of
// a leading "." or "www.".
func NewSelector(socialDomains, complexDomains []string) *Selector {
	return &Selector{
		social:  normalizeDomains(socialDomains),
		complex: normalizeDomains(complexDomains),
	}
}

// SelectProfile returns the profile for rawURL. An unparseable URL yields
// the standard profile.
func (s *Selector) SelectProfile(rawURL string) SiteProfile {
	return buildProfile(s.Classify(rawURL))
}

// Classify returns the site category for rawURL. Complex wins when a host
// is listed in both sets.
func (s *Selector) Classify(rawURL string) Category {
	host := hostOf(rawURL)
	if host == "" {
		return CategoryStandard
	}
	switch {
	case matchesAny(host, s.complex):
		return CategoryComplexAntiBot
	case matchesAny(host, s.social):
		return CategorySocialMedia
	default:
		return CategoryStandard
	}
}

func buildProfile(cat Category) SiteProfile {
	p := SiteProfile{
		Category:       cat,
		StealthEnabled: cat != CategoryStandard,
		BrowserFlags:   append([]string(nil), baselineFlags...),
		WaitBound:      waitBound,
	}

	if p.StealthEnabled {
		p.BrowserFlags = append(p.BrowserFlags, "disable-blink-features=AutomationControlled")
		p.RemovedSwitches = []string{"enable-automation"}
		p.WaitStrategy = WaitBodySettle
		p.SettleDelay = settleDelay
		p.ExtraHeaders = map[string]string{
			"Accept-Encoding":           "gzip, deflate, br",
			"Connection":                "keep-alive",
			"Upgrade-Insecure-Requests": "1",
		}
		return p
	}

	p.BrowserFlags = append(p.BrowserFlags, "blink-settings=imagesEnabled=false")
	p.WaitStrategy = WaitReadyState
	return p
}

// hostOf returns the lower-cased hostname without port.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// matchesAny reports whether host equals, or is a subdomain of, one of domains.
func matchesAny(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func normalizeDomains(domains []string) []string {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		d = strings.TrimPrefix(d, ".")
		d = strings.TrimPrefix(d, "www.")
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
