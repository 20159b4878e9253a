// Command brd is the daemon (br daemon): it launches and holds one
// persistent Chromium session and exposes the Request Router over HTTP
// so the br CLI front-end can drive it (spec §4.8).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/use-agent/br/api"
	"github.com/use-agent/br/config"
	"github.com/use-agent/br/humanlike"
	"github.com/use-agent/br/instance"
	"github.com/use-agent/br/models"
	"github.com/use-agent/br/registry"
)

func main() {
	cfg := config.Load()
	initLogger(cfg.Log)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("uncaught panic", "panic", r)
			os.Exit(1)
		}
	}()

	port := cfg.Port
	if port == 0 {
		p, err := registry.AllocatePort(cfg.Instance)
		if err != nil {
			slog.Error("failed to allocate port", "error", err)
			os.Exit(1)
		}
		port = p
	}

	opts := models.LaunchOptions{
		Name:         cfg.Instance,
		Headless:     cfg.Headless,
		Viewport:     models.Viewport{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight},
		AdBlock:      cfg.AdBlock,
		AdBlockBase:  cfg.AdBlockBase,
		AdBlockLists: cfg.AdBlockLists,
		HumanLike:    cfg.HumanLike,
	}

	userDataDir, err := instanceProfileDir(cfg.Instance)
	if err != nil {
		slog.Error("failed to resolve profile dir", "error", err)
		os.Exit(1)
	}

	blocked := instance.ResourceSpecsForAdBlockLevel(cfg.AdBlockBase)
	daemon, err := instance.NewDaemon(userDataDir, opts, blocked)
	if err != nil {
		slog.Error("failed to start browser", "error", err)
		os.Exit(1)
	}

	if err := registry.Register(cfg.Instance, port, daemon.PID()); err != nil {
		slog.Error("failed to register instance", "error", err)
	}
	defer registry.Unregister(cfg.Instance)

	pacer := humanlike.NewPacer(cfg.HumanLike)

	srv := &http.Server{
		Addr: fmt.Sprintf("127.0.0.1:%d", port),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	stopOnce := make(chan struct{})
	requestStop := func() {
		select {
		case <-stopOnce:
		default:
			close(stopOnce)
		}
	}

	srv.Handler = api.NewRouter(daemon.State, pacer, cfg, requestStop)

	go func() {
		slog.Info("running on port", "port", port, "instance", cfg.Instance)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	case <-stopOnce:
		slog.Info("shutdown requested via /shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	}

	if err := daemon.Shutdown(); err != nil {
		slog.Error("browser shutdown error", "error", err)
	}

	slog.Info("brd stopped", "instance", cfg.Instance)
}

// instanceProfileDir returns (creating if needed) the per-instance
// Chromium user-data directory under $HOME/.br/profiles/<name>.
func instanceProfileDir(name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".br", "profiles", name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// initLogger configures slog based on LogConfig, matching the teacher's
// daemon-logging setup exactly (JSON/text handler selectable by env var).
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	out := brokenPipeSwallowingWriter{}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// brokenPipeSwallowingWriter is stdout with spec §4.8's "uncaught EPIPE
// on stdout is swallowed silently" rule applied: a pipe-closed reader
// (e.g. `brd | head`) never crashes the daemon.
type brokenPipeSwallowingWriter struct{}

func (brokenPipeSwallowingWriter) Write(p []byte) (int, error) {
	n, err := os.Stdout.Write(p)
	if instance.SwallowBrokenPipe(err) {
		return len(p), nil
	}
	return n, err
}
