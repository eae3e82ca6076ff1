package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/foxread/policy"
)

// localBrowser returns a Chromium binary already on this machine, or skips.
// Rod's automatic download is never triggered from tests.
func localBrowser(t *testing.T) string {
	t.Helper()
	if bin := os.Getenv("FOXREAD_BROWSER_BIN"); bin != "" {
		return bin
	}
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no local Chromium found; set FOXREAD_BROWSER_BIN to run browser tests")
	}
	return bin
}

type seenHeaders struct {
	mu sync.Mutex
	h  http.Header
}

func (s *seenHeaders) get() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h
}

// webdriverPage reports typeof navigator.webdriver through document.title.
func webdriverPage(seen *seenHeaders) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		seen.mu.Lock()
		seen.h = r.Header.Clone()
		seen.mu.Unlock()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>pending</title></head><body>
<p>rendered body</p>
<script>document.title = "webdriver:" + typeof navigator.webdriver;</script>
</body></html>`))
	}))
}

func TestRodEngine_StealthProfile(t *testing.T) {
	bin := localBrowser(t)

	var seen seenHeaders
	srv := webdriverPage(&seen)
	defer srv.Close()

	profile := policy.NewSelector(nil, []string{"127.0.0.1"}).SelectProfile(srv.URL)
	require.True(t, profile.StealthEnabled)
	require.Equal(t, policy.WaitBodySettle, profile.WaitStrategy)
	profile.SettleDelay = 200 * time.Millisecond
	profile.ExtraHeaders["X-Foxread-Check"] = "stealth"

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	page, err := NewRodEngine(bin, false).Fetch(ctx, srv.URL, profile)
	require.NoError(t, err)

	assert.Equal(t, "webdriver:undefined", page.Title)
	assert.Contains(t, page.HTML, "rendered body")

	h := seen.get()
	require.NotNil(t, h)
	assert.Equal(t, "stealth", h.Get("X-Foxread-Check"))
	assert.Equal(t, "1", h.Get("Upgrade-Insecure-Requests"))
	assert.Equal(t, policy.DesktopUserAgent, h.Get("User-Agent"))
}

func TestRodEngine_StandardProfile(t *testing.T) {
	bin := localBrowser(t)

	var seen seenHeaders
	srv := webdriverPage(&seen)
	defer srv.Close()

	profile := policy.NewSelector(nil, nil).SelectProfile(srv.URL)
	require.False(t, profile.StealthEnabled)
	require.Equal(t, policy.WaitReadyState, profile.WaitStrategy)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	page, err := NewRodEngine(bin, false).Fetch(ctx, srv.URL, profile)
	require.NoError(t, err)

	assert.Contains(t, page.Title, "webdriver:")
	assert.Contains(t, page.HTML, "rendered body")
	assert.Empty(t, seen.get().Get("X-Foxread-Check"))
}

func TestWaitLoaded_BoundedWhenBodyNeverAppears(t *testing.T) {
	bin := localBrowser(t)

	sess, err := openSession(bin, policy.NewSelector(nil, nil).SelectProfile("about:blank"))
	require.NoError(t, err)
	defer sess.Close()

	page, err := sess.browser.Page(proto.TargetCreateTarget{})
	require.NoError(t, err)
	// Replace the document root so no <body> exists.
	_, err = page.Eval(`() => { document.documentElement.replaceWith(document.createElement("html")) }`)
	require.NoError(t, err)

	profile := policy.SiteProfile{
		WaitStrategy: policy.WaitBodySettle,
		WaitBound:    500 * time.Millisecond,
	}
	start := time.Now()
	err = waitLoaded(context.Background(), page, profile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wait for body")
	assert.Less(t, time.Since(start), 10*time.Second)
}
