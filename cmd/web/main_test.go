package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/config"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/httpserver"
	"github.com/emmanuel-devs/Texas-Plumbing-Website-Redesign/internal/logging"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, "plumbweb dev\n", out)
}

func TestValidateCommand(t *testing.T) {
	t.Setenv("PORT", "")
	out, err := execute(t, "validate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Contains(t, out, "Texas Quality Plumbing: content ok")
	require.Contains(t, out, "Services [mega] #services")
	require.Contains(t, out, "About [dropdown] #about")
	require.Contains(t, out, "    Tankless #tankless")
}

func TestValidateCommandRejectsBadContent(t *testing.T) {
	dir := t.TempDir()
	content := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(content, []byte("company: {name: \"\"}\n"), 0o644))
	t.Setenv("PLUMBWEB_SITE_CONTENT_FILE", content)

	_, err := execute(t, "validate", "--config", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "loading content")
}

func TestValidateCommandRejectsBadConfig(t *testing.T) {
	t.Setenv("PLUMBWEB_MENU_MAX_INSTANCES", "0")
	_, err := execute(t, "validate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = time.Second
	logger := logging.Discard()

	a, err := newApp(cfg, logger)
	require.NoError(t, err)
	srv, err := httpserver.New(httpserver.Config{
		Address:  cfg.Server.Addr,
		Content:  a.content,
		Renderer: a.renderer,
		Registry: a.registry,
		Sessions: a.sessions,
		Metrics:  a.metrics,
		Logger:   logger,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, a, srv) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
	require.ErrorIs(t, srv.ListenAndServe(), http.ErrServerClosed)
}
