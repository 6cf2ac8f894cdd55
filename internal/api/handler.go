package api

import (
	"fmt"

	"github.com/ScottyKingy/WebSecurityScannerV5/internal/credits"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/registry"
	"github.com/ScottyKingy/WebSecurityScannerV5/internal/scan"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
)

// Handler holds the services behind the v1 routes.
type Handler struct {
	orchestrator scan.Orchestrator
	ledger       credits.Ledger
	registry     *registry.ScannerRegistry
	verifier     *TokenVerifier
}

// NewHandler constructs the v1 handler from its service dependencies.
func NewHandler(orchestrator scan.Orchestrator,
	ledger credits.Ledger,
	registry *registry.ScannerRegistry,
	verifier *TokenVerifier) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		ledger:       ledger,
		registry:     registry,
		verifier:     verifier,
	}
}

// Router builds the gin engine serving the v1 API. All routes require a
// valid bearer token; the admin subtree additionally requires the admin
// role.
func (h *Handler) Router(mp metric.MeterProvider) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(withRecovery())

	requestMetrics, err := withRequestMetrics(mp)
	if err != nil {
		return nil, fmt.Errorf("could not create metrics middleware: %w", err)
	}
	engine.Use(requestMetrics)

	v1 := engine.Group("/v1", h.withAuth())

	creditsGroup := v1.Group("/credits")
	creditsGroup.GET("/balance", h.creditBalance)
	creditsGroup.GET("/history", h.creditHistory)

	scanGroup := v1.Group("/scan")
	scanGroup.POST("/start", h.startScan)
	scanGroup.GET("", h.listScans)
	scanGroup.GET("/:id", h.getScan)
	scanGroup.GET("/:id/status", h.scanStatus)
	scanGroup.GET("/:id/results", h.scanResults)

	v1.GET("/scanners", h.listScanners)

	adminGroup := v1.Group("/admin", requireAdmin())
	adminGroup.POST("/users/:id/credits/grant", h.grantCredits)
	adminGroup.POST("/users/:id/credits/deduct", h.deductCredits)

	return engine, nil
}
