// Package metrics defines the custom Prometheus metrics for the Krishna Tech
// Solutions backend. It is the single source of truth for metric names,
// labels, and help strings.
//
// All metrics register themselves with the default registry at package init;
// exposing them only requires mounting the promhttp handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kts"

// ── Booking metrics ───────────────────────────────────────────────────────────

// BookingsCreatedTotal counts appointments that were successfully reserved.
var BookingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of appointment slots successfully reserved.",
	},
)

// BookingConflictsTotal counts reservation attempts rejected because the slot
// was already held by a live appointment.
var BookingConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_conflicts_total",
		Help:      "Total number of reservations rejected by the slot uniqueness constraint.",
	},
)

// BookingStatusChangesTotal counts admin status transitions.
// Label:
//   - status: the new appointment status (e.g. "confirmed", "cancelled")
var BookingStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_status_changes_total",
		Help:      "Total number of appointment status transitions, by target status.",
	},
	[]string{"status"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notification delivery attempts.
// Labels:
//   - channel: "email" or "sms"
//   - result: "sent", "failed", or "skipped" (channel not configured)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notification attempts, by channel and result.",
	},
	[]string{"channel", "result"},
)

// NotifyQueueDepth tracks the number of jobs waiting in the notify dispatcher.
var NotifyQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notify_queue_depth",
		Help:      "Current number of notification jobs pending in the dispatcher channel.",
	},
)

// ── Change feed metrics ───────────────────────────────────────────────────────

// ChangeEventsPublishedTotal counts change events published to Redis.
// Label:
//   - entity: the entity the change touched (e.g. "appointments", "services")
var ChangeEventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "change_events_published_total",
		Help:      "Total number of change events published to the Redis feed, by entity.",
	},
	[]string{"entity"},
)

// ── Deployment metrics ────────────────────────────────────────────────────────

// DeploymentActionsTotal counts client deployment actions.
// Labels:
//   - action: the requested action (e.g. "test_connection")
//   - result: "ok" or "error"
var DeploymentActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deployment_actions_total",
		Help:      "Total number of client deployment actions, by action and result.",
	},
	[]string{"action", "result"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts handled HTTP requests.
// Labels:
//   - method: HTTP method
//   - path: the registered route pattern, not the raw URL
//   - status: numeric response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route, and status.",
	},
	[]string{"method", "path", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds, by method and route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "path"},
)
