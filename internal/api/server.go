// Package api configures and exposes the HTTP server, routes, metrics, docs
// and related middleware for the scan service.
package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"github.com/ScottyKingy/WebSecurityScannerV5/internal/config"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/credits"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/registry"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/scan"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/controller"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// v1Spec contains the embedded OpenAPI specification for version 1 of the API.
//
//go:embed specs/v1.yaml
var v1Spec []byte

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
// All durations are used to configure server timeouts, and zero values
// should be considered as using the defaults provided by net/http where applicable.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is the global timeout applied via http.TimeoutHandler for handling requests.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
}

// NewOptions constructs an Options value from the provided application configuration.
// It maps HTTP server-related settings from config.Config to the Options used by the API server.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
	}
}

// Deps carries the service dependencies the routes are backed by.
type Deps struct {
	// Orchestrator drives scan creation and retrieval.
	Orchestrator scan.Orchestrator
	// Ledger is the credit accounting service.
	Ledger credits.Ledger
	// Registry is the active scanner fleet.
	Registry *registry.ScannerRegistry
	// Verifier validates bearer tokens.
	Verifier *TokenVerifier
	// JobsUI, when non-nil, is mounted under /jobs/ for queue inspection.
	JobsUI http.Handler
}

// NewServer wires up and returns a configured *http.Server using the provided
// Options. It sets up:
// - Prometheus metrics endpoint (MetricsPath)
// - OpenTelemetry metrics exporter (Prometheus)
// - Embedded OpenAPI v1 spec and Swagger UI
// - v1 API routes
// - pprof endpoints for profiling
// - the job queue UI when one is supplied
// It also wraps the mux with CORS and logging middlewares and applies a request timeout.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	mux := http.NewServeMux()

	// prometheus metrics server
	mux.Handle(opts.MetricsPath, promhttp.Handler())

	// otel
	exp, err := otelprom.New(otelprom.WithRegisterer(prometheus.DefaultRegisterer))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))

	// v1 specs file
	mux.HandleFunc("/specs/v1.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	// v1 api swagger playground
	mux.Handle("/v1/docs/", v5emb.New(
		"Web Security Scan Service",
		"/specs/v1.yaml",
		"/v1/docs/",
	))

	// v1 api
	handler := NewHandler(deps.Orchestrator, deps.Ledger, deps.Registry, deps.Verifier)
	router, err := handler.Router(mp)
	if err != nil {
		return nil, fmt.Errorf("could not create v1 router: %w", err)
	}
	mux.Handle("/v1/credits/", router)
	mux.Handle("/v1/scan", router)
	mux.Handle("/v1/scan/", router)
	mux.Handle("/v1/scanners", router)
	mux.Handle("/v1/admin/", router)

	// queue inspection UI
	if deps.JobsUI != nil {
		mux.Handle("/jobs/", deps.JobsUI)
	}

	// pprof
	mux.Handle("/debug/pprof/", controller.PprofMux())

	// cors
	outer := controller.WithCORS(mux)

	// logger
	outer = controller.WithLogger(outer)

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           http.TimeoutHandler(outer, opts.RequestTimeout, `{"error":"request timed out"}`),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}, nil
}
