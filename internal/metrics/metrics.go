package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "drfind"

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeStale = "stale"
)

var (
	once sync.Once

	persistenceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_errors_total",
			Help:      "Failed persistence writes by key and operation.",
		},
		[]string{"key", "op"},
	)

	loadFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_load_failures_total",
			Help:      "Persisted values that could not be read or decoded and were replaced by defaults.",
		},
		[]string{"key"},
	)

	searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Place searches by outcome.",
		},
		[]string{"outcome"},
	)

	routes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routes_total",
			Help:      "Route calculations by outcome.",
		},
		[]string{"outcome"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings submitted through the booking workflow.",
		},
	)

	storageFailovers = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_failovers_total",
			Help:      "Times the primary key-value store was marked down.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			persistenceErrors,
			loadFailures,
			searches,
			routes,
			bookingsCreated,
			storageFailovers,
		)
	})
}

func IncPersistenceError(key, op string) {
	persistenceErrors.WithLabelValues(key, op).Inc()
}

func IncLoadFailure(key string) {
	loadFailures.WithLabelValues(key).Inc()
}

func IncSearch(outcome string) {
	searches.WithLabelValues(outcome).Inc()
}

func IncRoute(outcome string) {
	routes.WithLabelValues(outcome).Inc()
}

func IncBookingCreated() {
	bookingsCreated.Inc()
}

func IncStorageFailover() {
	storageFailovers.Inc()
}
