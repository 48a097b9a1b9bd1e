// Package httpserver assembles the router, middleware stack and routes.
package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/handlers"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/logging"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/menu"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/metrics"
	custommw "github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/middleware"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/render"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/session"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/site"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/public"
)

// Config holds runtime options and dependencies of the HTTP server.
type Config struct {
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration

	Content  *site.Content
	Renderer *render.Renderer
	Registry *menu.Registry
	Sessions *session.Manager
	// Metrics is optional; /metrics is not mounted when nil.
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	BaseURL string
	HTMXSrc string
	Now     func() time.Time
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.HTMXSrc == "" {
		cfg.HTMXSrc = render.DefaultHTMXSrc
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("embed static: %w", err)
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(custommw.HTMX())
	router.Use(custommw.Logger(logger))
	router.Use(chimw.Recoverer)
	if cfg.Metrics != nil {
		router.Use(custommw.Metrics(cfg.Metrics))
	}
	router.Use(custommw.SecurityHeaders(CSPFor(cfg.Content, cfg.HTMXSrc)))
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(cfg.RequestTimeout))

	h := handlers.NewHandlers(handlers.Dependencies{
		Content:  cfg.Content,
		Renderer: cfg.Renderer,
		Registry: cfg.Registry,
		Sessions: cfg.Sessions,
		Logger:   logger,
		BaseURL:  cfg.BaseURL,
		HTMXSrc:  cfg.HTMXSrc,
		Now:      cfg.Now,
	})

	router.Get("/healthz", handlers.Healthz)
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics.Handler())
	}
	router.Handle("/assets/*", custommw.AssetsWithCache(staticContent, "/assets"))
	router.With(custommw.NoStore()).Get("/", h.Home)
	mountMenuRoutes(router, h)

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  firstPositive(cfg.ReadTimeout, 10*time.Second),
		WriteTimeout: firstPositive(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:  firstPositive(cfg.IdleTimeout, 60*time.Second),
		ErrorLog:     logging.StdLogger(logger, slog.LevelError),
	}, nil
}

func mountMenuRoutes(router chi.Router, h *handlers.Handlers) {
	router.Route("/menu/{token}", func(r chi.Router) {
		r.Use(custommw.NoStore())

		RegisterFragment(r, http.MethodPost, "/mega/{id}", h.ActivateMegaMenu)
		RegisterFragment(r, http.MethodPost, "/dropdown/{id}", h.ActivateDropdown)
		RegisterFragment(r, http.MethodPost, "/mobile", h.ToggleMobileMenu)
		RegisterFragment(r, http.MethodPost, "/mobile/{id}", h.ToggleMobileSubmenu)
		RegisterFragment(r, http.MethodPost, "/select", h.SelectLink)
	})
}

// RegisterFragment registers a handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, method, pattern string, handler http.HandlerFunc) {
	r.With(custommw.RequireHTMX()).Method(method, pattern, handler)
}

// CSPFor allows the image hosts referenced by the content, the map frame
// and the htmx script origin.
func CSPFor(c *site.Content, htmxSrc string) custommw.CSP {
	var images []string
	if c != nil {
		images = origins(
			c.Company.LogoURL,
			c.Hero.BackgroundURL,
			c.Hero.ImageURL,
			c.About.Certification.ImageURL,
			c.About.TeamImageURL,
		)
		for _, p := range c.Promotions.Financing.Partners {
			images = appendOrigin(images, p.LogoURL)
		}
	}
	var frames []string
	if c != nil {
		frames = origins(c.Areas.MapURL)
	}
	return custommw.CSP{
		ImageHosts:  images,
		FrameHosts:  frames,
		ScriptHosts: origins(htmxSrc),
	}
}

func origins(urls ...string) []string {
	var out []string
	for _, u := range urls {
		out = appendOrigin(out, u)
	}
	return out
}

func appendOrigin(out []string, raw string) []string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return out
	}
	origin := u.Scheme + "://" + u.Host
	for _, o := range out {
		if o == origin {
			return out
		}
	}
	return append(out, origin)
}

func firstPositive(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
