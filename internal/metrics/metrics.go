// AngelaMos | 2026
// metrics.go

// Package metrics holds every Prometheus collector the API exports. All
// collectors register with the default registry at init through promauto, so
// promhttp.Handler() serves them without further setup.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

// HTTPRequestDuration is labelled by chi route pattern, never the raw path,
// to keep cardinality bounded.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// BookingsCreatedTotal counts bookings persisted, by service.
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created.",
	},
	[]string{"service_id"},
)

// BookingConflictsTotal counts creation attempts rejected because the slot
// was taken. Label source is "check" or "constraint".
var BookingConflictsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_conflicts_total",
		Help:      "Total number of booking requests rejected for overlapping an existing booking.",
	},
	[]string{"source"},
)

var BookingTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_transitions_total",
		Help:      "Total number of booking status transitions, by source and target status.",
	},
	[]string{"from", "to"},
)

// AuthEventsTotal counts authentication outcomes.
// Labels:
//   - event: register, login, refresh, logout
//   - result: success or failure
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of authentication events, by event and result.",
	},
	[]string{"event", "result"},
)

var RefreshTokensPurgedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_tokens_purged_total",
		Help:      "Total number of expired refresh tokens removed by the purge job.",
	},
)

// CatalogCacheTotal counts catalog cache lookups. Label result is hit, miss
// or error.
var CatalogCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_cache_total",
		Help:      "Total number of catalog cache lookups, by result.",
	},
	[]string{"result"},
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

func AuthEvent(event string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	AuthEventsTotal.WithLabelValues(event, result).Inc()
}
