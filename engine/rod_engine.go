package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/foxread/policy"
	"github.com/ysmood/gson"
)

// webdriverPatch hides the navigator.webdriver automation marker.
const webdriverPatch = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

// RodEngine launches one dedicated Chromium per Fetch and tears it down
// before returning. Nothing is shared between fetches.
type RodEngine struct {
	browserBin   string
	fullEvasions bool
}

// NewRodEngine creates a RodEngine.
//   - browserBin: Chromium binary override; empty lets rod locate or download one.
//   - fullEvasions: also inject the go-rod/stealth bundle on stealth profiles.
func NewRodEngine(browserBin string, fullEvasions bool) *RodEngine {
	return &RodEngine{browserBin: browserBin, fullEvasions: fullEvasions}
}

func (e *RodEngine) Name() string { return "browser" }

// Fetch runs the full browser lifecycle:
//
//  1. Launch       – one Chromium with the profile's flags
//  2. DEFER: close – browser, launcher process and user-data dir
//  3. Stealth      – webdriver patch + extra headers (before navigation!)
//  4. Navigate
//  5. Wait         – ready state or body + settle delay, bounded
//  6. Extract      – page.HTML() + document.title
func (e *RodEngine) Fetch(ctx context.Context, url string, profile policy.SiteProfile) (*Page, error) {
	// ── 1. Launch ────────────────────────────────────────────────────
	sess, err := openSession(e.browserBin, profile)
	if err != nil {
		return nil, err
	}

	// ── 2. CRITICAL DEFER: no leaked Chromium on any path ─────────────
	defer sess.Close()

	page, err := sess.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}

	// ── 3. Stealth ───────────────────────────────────────────────────
	if profile.StealthEnabled {
		if err := e.applyStealth(page, profile); err != nil {
			return nil, err
		}
	}

	p := page.Context(ctx)

	// ── 4. Navigate ──────────────────────────────────────────────────
	if err := p.Navigate(url); err != nil {
		return nil, fmt.Errorf("browser: navigate: %w", err)
	}

	// ── 5. Wait ──────────────────────────────────────────────────────
	if err := waitLoaded(ctx, p, profile); err != nil {
		return nil, err
	}

	// ── 6. Extract ───────────────────────────────────────────────────
	rawHTML, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("browser: read page html: %w", err)
	}

	return &Page{
		HTML:  rawHTML,
		Title: evalStringOrEmpty(p, `() => document.title`),
	}, nil
}

// applyStealth installs the anti-detection patches. It must run before
// Navigate: on-new-document scripts only affect later navigations.
func (e *RodEngine) applyStealth(page *rod.Page, profile policy.SiteProfile) error {
	if _, err := page.EvalOnNewDocument(webdriverPatch); err != nil {
		return fmt.Errorf("browser: install webdriver patch: %w", err)
	}
	if e.fullEvasions {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth bundle injection failed, continuing with webdriver patch only",
				"error", err,
			)
		}
	}

	if len(profile.ExtraHeaders) == 0 {
		return nil
	}
	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		return fmt.Errorf("browser: enable network domain: %w", err)
	}
	if err := (proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(profile.ExtraHeaders),
	}).Call(page); err != nil {
		return fmt.Errorf("browser: set extra headers: %w", err)
	}
	return nil
}

// waitLoaded blocks according to the profile's wait strategy. An unmet
// condition within WaitBound is an error, never a hang.
func waitLoaded(ctx context.Context, p *rod.Page, profile policy.SiteProfile) error {
	wp := p.Timeout(profile.WaitBound)
	defer wp.CancelTimeout()

	switch profile.WaitStrategy {
	case policy.WaitBodySettle:
		if _, err := wp.Element("body"); err != nil {
			return fmt.Errorf("browser: wait for body: %w", err)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("browser: settle delay: %w", ctx.Err())
		case <-time.After(profile.SettleDelay):
		}
		return nil
	default:
		if err := wp.Wait(rod.Eval(`() => document.readyState === "complete"`)); err != nil {
			return fmt.Errorf("browser: wait for ready state: %w", err)
		}
		return nil
	}
}

// session is one launched Chromium plus its CDP connection.
type session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// openSession launches Chromium with the profile's flags and connects to it.
// On error everything it started is already released.
func openSession(browserBin string, profile policy.SiteProfile) (*session, error) {
	l := launcher.New().Leakless(true)
	if browserBin != "" {
		l = l.Bin(browserBin)
	}
	applyFlags(l, profile)

	controlURL, err := l.Launch()
	if err != nil {
		// No Cleanup here: it waits for a process exit that may never come
		// when the binary did not start.
		l.Kill()
		return nil, fmt.Errorf("browser: launch: %w", err)
	}
	slog.Debug("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}

	return &session{launcher: l, browser: browser}, nil
}

// Close shuts the browser down and removes its user-data dir. Safe to call
// on a half-dead browser.
func (s *session) Close() {
	if err := s.browser.Close(); err != nil {
		slog.Debug("browser close returned error, killing process", "error", err)
	}
	s.launcher.Kill()
	s.launcher.Cleanup()
}

// applyFlags maps "name" / "name=value" profile flags onto the launcher,
// then deletes removed switches.
func applyFlags(l *launcher.Launcher, profile policy.SiteProfile) {
	for _, f := range profile.BrowserFlags {
		name, value, hasValue := strings.Cut(f, "=")
		if hasValue {
			l.Set(flags.Flag(name), value)
		} else {
			l.Set(flags.Flag(name))
		}
	}
	for _, sw := range profile.RemovedSwitches {
		l.Delete(flags.Flag(sw))
	}
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
