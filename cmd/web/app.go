package main

import (
	"fmt"
	"log/slog"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/config"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/menu"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/metrics"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/render"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/session"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/site"
)

// app holds the long-lived components of a running server.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	content  *site.Content
	renderer *render.Renderer
	registry *menu.Registry
	sessions *session.Manager
	metrics  *metrics.Metrics
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	content, err := site.LoadFile(cfg.Site.ContentFile)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	renderer, err := render.New(render.Options{Dev: cfg.Server.Dev})
	if err != nil {
		return nil, err
	}

	hashKey := []byte(cfg.Session.HashKey)
	if len(hashKey) == 0 {
		if hashKey, err = session.GenerateKey(0); err != nil {
			return nil, err
		}
		logger.Warn("session.hash_key not set; using an ephemeral key, page tokens will not survive restarts")
	}
	sessions, err := session.NewManager(session.Config{
		HashKey:  hashKey,
		Lifetime: cfg.Session.TokenLifetime,
	})
	if err != nil {
		return nil, err
	}

	regCfg := menu.RegistryConfig{
		IdleTTL:      cfg.Menu.IdleTTL,
		MaxInstances: cfg.Menu.MaxInstances,
	}
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		regCfg.OnEvict = m.Evicted
		regCfg.OnChange = m.SetInstances
	}
	regCfg.Observer = func(op menu.Op, from, to menu.State) {
		if m != nil {
			m.Transition(string(op))
		}
		logger.Debug("menu transition", "op", string(op), "from", from.String(), "to", to.String())
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		content:  content,
		renderer: renderer,
		registry: menu.NewRegistry(regCfg),
		sessions: sessions,
		metrics:  m,
	}, nil
}
