package httpserver_test

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/menu"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/testutil"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func get(t *testing.T, ts *testutil.Server, path string) (*http.Response, *goquery.Document) {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, testutil.ParseHTML(t, body)
}

func post(t *testing.T, ts *testutil.Server, path string, form url.Values, htmx bool) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
		req.Header.Set("HX-Target", "site-header")
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, body
}

// page tracks the header of one open browser tab.
type page struct {
	t      *testing.T
	ts     *testutil.Server
	header *goquery.Selection
}

func openPage(t *testing.T, ts *testutil.Server) *page {
	t.Helper()
	resp, doc := get(t, ts, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	header := doc.Find("#site-header")
	require.Equal(t, 1, header.Length())
	return &page{t: t, ts: ts, header: header}
}

func (p *page) state() string {
	s, _ := p.header.Attr("data-menu-state")
	return s
}

func (p *page) attr(selector, name string) string {
	p.t.Helper()
	sel := p.header.Find(selector)
	require.Equal(p.t, 1, sel.Length(), "selector %s", selector)
	v, ok := sel.Attr(name)
	require.True(p.t, ok, "%s has no %s", selector, name)
	return v
}

func (p *page) click(selector string) *http.Response {
	p.t.Helper()
	target := p.attr(selector, "hx-post")
	form := url.Values{}
	if vals, ok := p.header.Find(selector).Attr("hx-vals"); ok {
		href := strings.TrimSuffix(strings.TrimPrefix(vals, `{"href":"`), `"}`)
		form.Set("href", href)
	}
	resp, body := post(p.t, p.ts, target, form, true)
	require.Equal(p.t, http.StatusOK, resp.StatusCode, string(body))
	if resp.Header.Get("HX-Refresh") == "" {
		doc := testutil.ParseHTML(p.t, body)
		p.header = doc.Find("#site-header")
		require.Equal(p.t, 1, p.header.Length())
	}
	return resp
}

func TestHomeRendersClosedHeader(t *testing.T) {
	ts := testutil.NewServer(t)

	resp, doc := get(t, ts, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	require.Equal(t, "no-store, max-age=0", resp.Header.Get("Cache-Control"))
	csp := resp.Header.Get("Content-Security-Policy")
	require.Contains(t, csp, "https://www.texasqualityplumbing.com")
	require.Contains(t, csp, "frame-src 'self' https://www.google.com")
	require.Contains(t, csp, "script-src 'self' https://unpkg.com")

	require.Equal(t, "Closed/Hidden", doc.Find("#site-header").AttrOr("data-menu-state", ""))
	require.Zero(t, doc.Find("[data-panel]").Length())
	require.Equal(t, 1, ts.Registry.Len())

	canonical, _ := doc.Find(`link[rel="canonical"]`).Attr("href")
	require.Equal(t, "https://www.example.com/", canonical)
	require.Contains(t, doc.Find(`script[type="application/ld+json"]`).First().Text(), `"@type":"Plumber"`)
}

func TestDesktopScenario(t *testing.T) {
	ts := testutil.NewServer(t)
	p := openPage(t, ts)

	p.click(`.nav-trigger[data-item="Services"]`)
	require.Equal(t, "MegaOpen(Services)/Hidden", p.state())
	require.Equal(t, "true", p.attr(`.nav-trigger[data-item="Services"]`, "aria-expanded"))
	require.Equal(t, 1, p.header.Find(`[data-panel="mega"]`).Length())

	p.click(`.nav-trigger[data-item="About"]`)
	require.Equal(t, "DropdownOpen(About)/Hidden", p.state())
	require.Zero(t, p.header.Find(`[data-panel="mega"]`).Length())
	require.Equal(t, 1, p.header.Find(`[data-panel="dropdown"]`).Length())

	resp := p.click(`[data-panel="dropdown"] a[href="#our-story"]`)
	require.Contains(t, resp.Header.Get("HX-Trigger"), "menu-closed")
	require.Equal(t, "Closed/Hidden", p.state())
	require.Zero(t, p.header.Find("[data-panel]").Length())
}

func TestMegaMenuTogglesClosed(t *testing.T) {
	ts := testutil.NewServer(t)
	p := openPage(t, ts)

	p.click(`.nav-trigger[data-item="Services"]`)
	p.click(`.nav-trigger[data-item="Services"]`)
	require.Equal(t, "Closed/Hidden", p.state())
}

func TestMobileScenario(t *testing.T) {
	ts := testutil.NewServer(t)
	p := openPage(t, ts)

	p.click("[data-mobile-toggle]")
	require.Equal(t, "Closed/Visible(NoSubmenuOpen)", p.state())
	require.Equal(t, 1, p.header.Find(`[data-panel="mobile"]`).Length())

	p.click(`.submenu-trigger[data-item="Services"]`)
	require.Equal(t, "Closed/Visible(SubmenuOpen(Services))", p.state())
	require.Equal(t, "true", p.attr(`.submenu-trigger[data-item="Services"]`, "aria-expanded"))

	p.click(`.submenu-trigger[data-item="Services"]`)
	require.Equal(t, "Closed/Visible(NoSubmenuOpen)", p.state())

	p.click(`.submenu-trigger[data-item="About"]`)
	p.click("[data-mobile-toggle]")
	require.Equal(t, "Closed/Hidden", p.state())
	require.Zero(t, p.header.Find("[data-panel]").Length())

	p.click("[data-mobile-toggle]")
	require.Equal(t, "Closed/Visible(NoSubmenuOpen)", p.state())
}

func TestMobileLeafClosesEverything(t *testing.T) {
	ts := testutil.NewServer(t)
	p := openPage(t, ts)

	p.click(`.nav-trigger[data-item="Services"]`)
	p.click("[data-mobile-toggle]")
	p.click(`.submenu-trigger[data-item="Services"]`)
	require.Equal(t, "MegaOpen(Services)/Visible(SubmenuOpen(Services))", p.state())

	p.click(`[data-panel="submenu"] a[href="#tankless"]`)
	require.Equal(t, "Closed/Hidden", p.state())
}

func TestPageInstancesAreIndependent(t *testing.T) {
	ts := testutil.NewServer(t)
	first := openPage(t, ts)
	second := openPage(t, ts)
	require.Equal(t, 2, ts.Registry.Len())

	first.click(`.nav-trigger[data-item="Services"]`)
	second.click("[data-mobile-toggle]")

	require.Equal(t, "MegaOpen(Services)/Hidden", first.state())
	require.Equal(t, "Closed/Visible(NoSubmenuOpen)", second.state())

	reloaded := openPage(t, ts)
	require.Equal(t, "Closed/Hidden", reloaded.state())
}

func TestMenuRoutesRejectInvalidRequests(t *testing.T) {
	ts := testutil.NewServer(t)
	p := openPage(t, ts)
	mega := p.attr(`.nav-trigger[data-item="Services"]`, "hx-post")
	token := strings.Split(strings.TrimPrefix(mega, "/menu/"), "/")[0]

	cases := []struct {
		name string
		path string
		form url.Values
		htmx bool
	}{
		{name: "direct navigation", path: mega},
		{name: "unknown mega-menu", path: "/menu/" + token + "/mega/Plumbing", htmx: true},
		{name: "dropdown used as mega-menu", path: "/menu/" + token + "/mega/About", htmx: true},
		{name: "mega-menu used as dropdown", path: "/menu/" + token + "/dropdown/Services", htmx: true},
		{name: "plain link as submenu", path: "/menu/" + token + "/mobile/Home", htmx: true},
		{name: "unknown leaf", path: "/menu/" + token + "/select", form: url.Values{"href": {"#nowhere"}}, htmx: true},
		{name: "forged token", path: "/menu/forged/mobile", htmx: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := post(t, ts, tc.path, tc.form, tc.htmx)
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}

	require.Equal(t, "Closed/Hidden", p.state())
}

func TestExpiredTokenRefreshesPage(t *testing.T) {
	clock := newManualClock()
	ts := testutil.NewServer(t, testutil.WithClock(clock.Now), testutil.WithTokenLifetime(time.Hour))
	p := openPage(t, ts)

	clock.Advance(2 * time.Hour)
	resp := p.click("[data-mobile-toggle]")
	require.Equal(t, "true", resp.Header.Get("HX-Refresh"))
	require.Zero(t, ts.Registry.Len())
}

func TestIdleInstanceRefreshesPage(t *testing.T) {
	clock := newManualClock()
	ts := testutil.NewServer(t,
		testutil.WithClock(clock.Now),
		testutil.WithRegistryConfig(menu.RegistryConfig{IdleTTL: time.Minute}),
	)
	p := openPage(t, ts)

	clock.Advance(30 * time.Second)
	p.click("[data-mobile-toggle]")
	require.Equal(t, "Closed/Visible(NoSubmenuOpen)", p.state())

	clock.Advance(2 * time.Minute)
	resp := p.click("[data-mobile-toggle]")
	require.Equal(t, "true", resp.Header.Get("HX-Refresh"))
}

func TestMenuResponsesAreNotCached(t *testing.T) {
	ts := testutil.NewServer(t)
	p := openPage(t, ts)

	resp := p.click("[data-mobile-toggle]")
	require.Equal(t, "no-store, max-age=0", resp.Header.Get("Cache-Control"))
	require.Contains(t, resp.Header.Values("Vary"), "HX-Request")
}

func TestHealthzAndMetrics(t *testing.T) {
	ts := testutil.NewServer(t)
	p := openPage(t, ts)
	p.click(`.nav-trigger[data-item="Services"]`)

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))

	resp, err = ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `plumbweb_menu_transitions_total{op="activate_mega_menu"} 1`)
	require.Contains(t, string(body), "plumbweb_page_instances 1")
	require.Contains(t, string(body), `route="/menu/{token}/mega/{id}"`)
}

func TestMetricsCanBeDisabled(t *testing.T) {
	ts := testutil.NewServer(t, testutil.WithoutMetrics())

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAssetsAreServedWithCacheHeaders(t *testing.T) {
	ts := testutil.NewServer(t)

	resp, err := ts.Client().Get(ts.URL + "/assets/css/site.css")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Cache-Control"), "public")
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/assets/css/site.css", nil)
	require.NoError(t, err)
	req.Header.Set("If-None-Match", etag)
	resp, err = ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotModified, resp.StatusCode)

	resp, err = ts.Client().Get(ts.URL + "/assets/js/site.js")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
