package server

import (
	"log/slog"
	"net/http"

	"github.com/jbuehler23/webgpu-demo-server/internal/httpx"
	"github.com/jbuehler23/webgpu-demo-server/internal/isolation"
	"github.com/jbuehler23/webgpu-demo-server/internal/metrics"
	"github.com/jbuehler23/webgpu-demo-server/internal/ratelimit"
	"github.com/jbuehler23/webgpu-demo-server/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Control endpoints live under this prefix so they can never shadow a file in
// the served tree.
const controlPrefix = "/-/"

// Router composes the demo server handler: a stdlib file server behind a
// chain of response middleware. Header injection is one middleware among
// several, not a specialization of the file handler.
type Router struct {
	cfg        *config.Config
	logger     *slog.Logger
	metrics    *metrics.Metrics
	registry   *prometheus.Registry
	limiter    *ratelimit.Limiter
	livereload http.Handler
}

// NewRouter wires the handler chain. limiter and livereload may be nil when
// the matching feature is disabled.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	m *metrics.Metrics,
	registry *prometheus.Registry,
	limiter *ratelimit.Limiter,
	livereload http.Handler,
) *Router {
	return &Router{
		cfg:        cfg,
		logger:     logger,
		metrics:    m,
		registry:   registry,
		limiter:    limiter,
		livereload: livereload,
	}
}

// Setup builds the http.Handler served by the listener.
func (rt *Router) Setup() http.Handler {
	mux := http.NewServeMux()

	// File resolution, MIME inference, not-found handling and range support
	// all stay with the stdlib file server.
	mux.Handle("/", http.FileServer(http.Dir(rt.cfg.Server.Root)))

	mux.HandleFunc(controlPrefix+"healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	// The compression middleware already gzips this route; promhttp must not
	// encode a second time.
	mux.Handle(controlPrefix+"metrics", promhttp.HandlerFor(rt.registry, promhttp.HandlerOpts{DisableCompression: true}))

	if rt.livereload != nil {
		mux.Handle(controlPrefix+"livereload", rt.livereload)
	}

	var handler http.Handler = mux
	if rt.cfg.GzipEnabled {
		handler = httpx.WithCompression(handler)
	}
	if rt.limiter != nil {
		handler = rt.limiter.Middleware(rt.metrics, handler)
	}
	// Isolation sits outside the limiter so even dropped requests carry the
	// header contract, and outside the mux so every status does.
	handler = isolation.Middleware(handler)
	handler = rt.metrics.Middleware(handler)
	handler = httpx.WithRecovery(rt.logger, handler)
	handler = httpx.WithRequestID(handler)
	handler = httpx.WithLogging(rt.logger, handler)

	return handler
}
