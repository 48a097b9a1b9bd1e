package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/httpserver"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/logging"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			logger := logging.New("plumbweb", version, cfg.Log.Level)

			a, err := newApp(cfg, logger)
			if err != nil {
				return err
			}

			srv, err := httpserver.New(httpserver.Config{
				Address:        cfg.Server.Addr,
				ReadTimeout:    cfg.Server.ReadTimeout,
				WriteTimeout:   cfg.Server.WriteTimeout,
				IdleTimeout:    cfg.Server.IdleTimeout,
				RequestTimeout: cfg.Server.RequestTimeout,
				Content:        a.content,
				Renderer:       a.renderer,
				Registry:       a.registry,
				Sessions:       a.sessions,
				Metrics:        a.metrics,
				Logger:         logger,
				BaseURL:        cfg.Site.BaseURL,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a, srv)
		},
	}
}

// serve runs the HTTP server and the instance sweeper until ctx is done,
// then shuts the server down gracefully.
func serve(ctx context.Context, a *app, srv *http.Server) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	}
	logger := a.logger
	logger.Info("starting server", "addr", ln.Addr().String(), "dev", a.cfg.Server.Dev)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return a.registry.Run(gCtx, a.cfg.Menu.SweepInterval)
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down", "timeout", a.cfg.Server.ShutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
