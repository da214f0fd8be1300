// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts requests by route template, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellness_http_requests_total",
		Help: "Total HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	// HTTPDuration tracks request latency per route.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wellness_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// AIRequests counts completion calls by operation and result.
	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellness_ai_requests_total",
		Help: "Total AI completion calls by operation and result",
	}, []string{"operation", "result"})

	// AIDuration tracks completion latency including retries.
	AIDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wellness_ai_request_duration_seconds",
		Help:    "AI completion duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 250ms to ~32s
	}, []string{"operation"})

	// RoleChanges counts role change attempts by requested role and result.
	RoleChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellness_role_changes_total",
		Help: "Total role change attempts by role and result",
	}, []string{"role", "result"})

	// ClaimSyncFailures counts claim propagations that exhausted their retries.
	ClaimSyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wellness_claim_sync_failures_total",
		Help: "Role claim propagations left pending after retries",
	})

	// CounselorAlerts counts high-risk assessments.
	CounselorAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wellness_counselor_alerts_total",
		Help: "Total counselor alerts raised",
	})

	// PostReports counts forum reports by result.
	PostReports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellness_post_reports_total",
		Help: "Total post reports by result",
	}, []string{"result"})

	// RateLimited counts requests rejected by the limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wellness_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)

// Result labels.
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultTimeout  = "timeout"
	ResultRejected = "rejected"
)
