// webgpu-demo-server serves a local directory over HTTP with the CORS and
// cross-origin isolation headers a WebGPU demo page needs for cross-origin
// fetches and SharedArrayBuffer threading.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jbuehler23/webgpu-demo-server/internal/livereload"
	"github.com/jbuehler23/webgpu-demo-server/internal/metrics"
	"github.com/jbuehler23/webgpu-demo-server/internal/ratelimit"
	"github.com/jbuehler23/webgpu-demo-server/internal/server"
	"github.com/jbuehler23/webgpu-demo-server/pkg/config"
	"github.com/jbuehler23/webgpu-demo-server/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reloadHandler http.Handler
	if cfg.LiveReload.Enabled {
		hub := livereload.NewHub(log)
		go hub.Run(ctx)

		watcher := livereload.NewWatcher(cfg.Server.Root, cfg.LiveReload.PollInterval, func(path string) {
			hub.Broadcast(livereload.Message{Type: "reload", Path: path})
			m.ReloadBroadcasts.Inc()
		}, log)
		go watcher.Run(ctx)

		reloadHandler = livereload.NewHandler(hub, log)
		log.Info("live reload enabled", "poll_interval", cfg.LiveReload.PollInterval.String())
	}

	router := server.NewRouter(cfg, log, m, registry, limiter, reloadHandler)
	srv := server.New(cfg.Server, router.Setup(), log)

	if err := srv.Listen(); err != nil {
		var bindErr *server.BindError
		if errors.As(err, &bindErr) && bindErr.InUse {
			fmt.Fprintf(os.Stderr, "Error: port %s is already in use\n", bindErr.Port)
			fmt.Fprintf(os.Stderr, "  Try: %s\n", bindErr.Hint())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	root, err := filepath.Abs(cfg.Server.Root)
	if err != nil {
		root = cfg.Server.Root
	}
	log.Info("demo server started",
		"root", root,
		"addr", srv.Addr().String(),
		"url", "http://localhost:"+cfg.Server.Port,
	)

	go func() {
		if err := srv.Serve(); err != nil {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down cleanly", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
