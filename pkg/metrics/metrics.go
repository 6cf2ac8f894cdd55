// Package metrics holds the service's prometheus collectors. Collectors are
// registered on the default registerer and exposed through the API server's
// metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that
// can be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

//nolint: gochecknoglobals
var (
	// CreditsCharged counts credits charged, labeled by transaction type.
	CreditsCharged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credits_charged_total",
		Help: "Total credits charged from user balances.",
	}, []string{"type"})

	// CreditsGranted counts credits granted (grants, bonuses, refunds),
	// labeled by transaction type.
	CreditsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credits_granted_total",
		Help: "Total credits granted to user balances.",
	}, []string{"type"})

	// InsufficientCredits counts charges rejected for lack of balance.
	InsufficientCredits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credits_insufficient_total",
		Help: "Total charges rejected due to insufficient balance.",
	})

	// ScansStarted counts scans successfully queued, labeled by scan type.
	ScansStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scans_started_total",
		Help: "Total scans charged and submitted to the queue.",
	}, []string{"scan_type"})

	// ScansFinished counts scans reaching a terminal status.
	ScansFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scans_finished_total",
		Help: "Total scans that reached a terminal status.",
	}, []string{"status"})

	// QueueSubmissionFailures counts enqueue failures that triggered a
	// compensating refund.
	QueueSubmissionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scan_queue_submission_failures_total",
		Help: "Total scan submissions that failed and were refunded.",
	})

	// ScannerResults counts per-scanner outcomes within scans.
	ScannerResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scanner_results_total",
		Help: "Per-scanner outcomes, labeled by scanner key and outcome.",
	}, []string{"scanner_key", "outcome"})

	// ScanDuration observes end-to-end scan processing time in seconds.
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scan_duration_seconds",
		Help:    "End-to-end scan processing duration.",
		Buckets: []float64{1, 2.5, 5, 10, 30, 60, 120, 300, 600},
	})
)

// Scanner outcome label values.
const (
	OutcomeStored   = "stored"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)
