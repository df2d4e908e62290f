// Package server assembles the HTTP router shared by the standalone server and the
// serverless entrypoint.
package server

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/atlasforge/greeter/internal/config"
	"github.com/atlasforge/greeter/internal/http/health"
	"github.com/atlasforge/greeter/internal/http/v1/routes"
	applog "github.com/atlasforge/greeter/internal/platform/logging"
	"github.com/atlasforge/greeter/internal/platform/metrics"
	appmiddleware "github.com/atlasforge/greeter/internal/platform/middleware"
	"github.com/atlasforge/greeter/internal/platform/protection"
	"github.com/atlasforge/greeter/internal/platform/respond"
)

const (
	apiTitle = "Greeter API"

	healthPath  = "/health"
	metricsPath = "/metrics"

	maxRequestBytes = 1 << 20 // 1 MB
)

// Options configures NewRouter. Zero values are usable.
type Options struct {
	Config  config.Config
	Version string
	// Lookup resolves the protection-bypass secret per request. Nil reads the process environment.
	Lookup protection.Lookup
	// Registry receives the HTTP metrics. Nil creates a fresh registry with runtime collectors.
	Registry *prometheus.Registry
}

// NewRouter builds the chi router with the full middleware stack, the huma API and
// the plain health and metrics endpoints.
func NewRouter(opts Options) chi.Router {
	docsPath := opts.Config.DocsPath
	if docsPath == "" {
		docsPath = "/api-docs"
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	m := metrics.New(opts.Registry)

	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		appmiddleware.Security(docsPath, healthPath, metricsPath),
		appmiddleware.Vary(),
		// CORS answers preflights before routing, so it must stay ahead of everything that can 404.
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Real-IP / X-Forwarded-For. Only deploy behind a trusted proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(maxRequestBytes),
		applog.RequestLogger(),
		applog.AccessLogger(),
		m.Middleware(),
		respond.Recoverer(),
	)

	router.Get(healthPath, health.Handler)
	router.Method(http.MethodGet, metricsPath, m.Handler())

	cfg := huma.DefaultConfig(apiTitle, version)
	cfg.DocsPath = docsPath
	// No $schema body field or describedBy Link header: greeting bodies are exactly
	// the documented single-key objects.
	cfg.CreateHooks = nil
	api := humachi.New(router, cfg)

	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContent)

	routes.Register(api, opts.Lookup)
	return router
}

// addCBORContent mirrors every JSON media type of an operation as application/cbor.
func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}

// NewHTTPServer returns an http.Server with conservative timeouts.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}
}
