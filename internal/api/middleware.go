package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/domain"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/logger"
	"github.com/ScottyKingy/WebSecurityScannerV5/pkg/serrors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// identityKey is the gin context key under which the authenticated identity
// is stored by the auth middleware.
const identityKey = "identity"

// withAuth extracts and verifies the bearer token, stores the resulting
// identity on the context and tags the request logger with the user ID.
// Requests without a valid token are rejected with 401.
func (h *Handler) withAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(c, serrors.With(serrors.ErrUnauthorized, "missing bearer token"))
			c.Abort()

			return
		}

		identity, err := h.verifier.Verify(token)
		if err != nil {
			respondError(c, err)
			c.Abort()

			return
		}

		c.Set(identityKey, identity)
		ctx := logger.WithFields(c.Request.Context(),
			zap.String("userID", userIDString(identity.UserID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// requireAdmin rejects non-admin callers with 403. Must run after withAuth.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identityFrom(c).IsAdmin() {
			respondError(c, serrors.With(serrors.ErrForbidden, "admin role required"))
			c.Abort()

			return
		}

		c.Next()
	}
}

// identityFrom returns the identity stored by withAuth. The zero identity is
// returned on routes that skipped authentication, which no handler accepts.
func identityFrom(c *gin.Context) domain.Identity {
	v, _ := c.Get(identityKey)
	identity, _ := v.(domain.Identity)

	return identity
}

// withRequestMetrics records a request duration histogram through the given
// meter provider, labeled by method, route template and status class.
func withRequestMetrics(mp metric.MeterProvider) (gin.HandlerFunc, error) {
	meter := mp.Meter("api")
	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of handled HTTP requests."))
	if err != nil {
		return nil, fmt.Errorf("could not create request duration histogram: %w", err)
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		duration.Record(c.Request.Context(), time.Since(start).Seconds(),
			metric.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.Int("http.response.status_code", c.Writer.Status()),
			))
	}, nil
}

// withRecovery converts handler panics into 500 responses instead of killing
// the connection, logging the panic with the request-scoped logger.
func withRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error(c.Request.Context(), "panic in handler", zap.Any("panic", p))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{"code": "INTERNAL", "message": "internal server error"},
				})
			}
		}()

		c.Next()
	}
}
