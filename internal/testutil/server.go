// Package testutil starts the full HTTP stack for tests.
package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/httpserver"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/menu"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/metrics"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/render"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/session"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/site"
)

// TestHashKey signs page tokens in tests.
var TestHashKey = []byte("0123456789abcdef0123456789abcdef")

type options struct {
	now           func() time.Time
	tokenLifetime time.Duration
	registry      menu.RegistryConfig
	metrics       bool
}

// ServerOption customises the test server.
type ServerOption func(*options)

// WithClock drives token expiry and instance idleness from now.
func WithClock(now func() time.Time) ServerOption {
	return func(o *options) { o.now = now }
}

// WithTokenLifetime overrides the page token lifetime.
func WithTokenLifetime(d time.Duration) ServerOption {
	return func(o *options) { o.tokenLifetime = d }
}

// WithRegistryConfig overrides page instance retention.
func WithRegistryConfig(cfg menu.RegistryConfig) ServerOption {
	return func(o *options) { o.registry = cfg }
}

// WithoutMetrics disables the /metrics endpoint.
func WithoutMetrics() ServerOption {
	return func(o *options) { o.metrics = false }
}

// Server is a running test server plus the state behind it.
type Server struct {
	*httptest.Server
	Registry *menu.Registry
	Metrics  *metrics.Metrics
}

// NewServer constructs an httptest server running the site HTTP stack with
// the bundled content.
func NewServer(t testing.TB, opts ...ServerOption) *Server {
	t.Helper()

	o := options{now: time.Now, metrics: true}
	for _, opt := range opts {
		opt(&o)
	}

	content, err := site.Default()
	if err != nil {
		t.Fatalf("load content: %v", err)
	}
	renderer, err := render.New(render.Options{})
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	sessions, err := session.NewManager(session.Config{
		HashKey:  TestHashKey,
		Lifetime: o.tokenLifetime,
		Now:      o.now,
	})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	var m *metrics.Metrics
	regCfg := o.registry
	if regCfg.Now == nil {
		regCfg.Now = o.now
	}
	if o.metrics {
		m = metrics.New()
		regCfg.Observer = func(op menu.Op, _, _ menu.State) { m.Transition(string(op)) }
		regCfg.OnEvict = m.Evicted
		regCfg.OnChange = m.SetInstances
	}
	registry := menu.NewRegistry(regCfg)

	srv, err := httpserver.New(httpserver.Config{
		Address:  ":0",
		Content:  content,
		Renderer: renderer,
		Registry: registry,
		Sessions: sessions,
		Metrics:  m,
		BaseURL:  "https://www.example.com",
		Now:      o.now,
	})
	if err != nil {
		t.Fatalf("build server: %v", err)
	}

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return &Server{Server: ts, Registry: registry, Metrics: m}
}
