// Package metrics defines and registers all custom Prometheus metrics
// for the Hoststack console client. It is the single source of truth
// for metric names, labels, and help strings; collectors register with
// the default registry at package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionBootstrapTotal counts bootstrap resolutions.
// Labels:
//   - scope: "user" or "admin"
//   - result: "no_credential", "rejected", or "authenticated"
var SessionBootstrapTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_bootstrap_total",
		Help:      "Total number of session bootstrap checks, by scope and result.",
	},
	[]string{"scope", "result"},
)

// ── API client metrics ────────────────────────────────────────────────────────

// APIRequestsTotal counts requests issued to the remote platform API.
// Labels:
//   - endpoint: logical endpoint name (e.g. "me", "login", "notifications_recent")
//   - status: HTTP status class ("2xx", "4xx", "5xx") or "error" for transport failures
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of requests to the platform API, by endpoint and status class.",
	},
	[]string{"endpoint", "status"},
)

// APIRequestDuration measures request latency per logical endpoint.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of platform API requests from send to decoded response.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationPollTotal counts recent-feed polls.
// Label:
//   - result: "ok" or "error"
var NotificationPollTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_poll_total",
		Help:      "Total number of notification feed polls, by result.",
	},
	[]string{"result"},
)

// NotificationsUnread tracks the current unread counter after every
// fetch or local mutation.
var NotificationsUnread = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notifications_unread",
		Help:      "Current number of unread notifications in the cached feed.",
	},
)
