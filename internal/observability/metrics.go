package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for order-service
type Metrics struct {
	// Order operations
	OrdersSubmittedTotal *prometheus.CounterVec
	OrderQueriesTotal    *prometheus.CounterVec
	OrdersReturned       *prometheus.HistogramVec

	// Business-day lookback requested by callers
	BusinessDaysRequested prometheus.Histogram

	// Store
	StoreOperationDuration *prometheus.HistogramVec
	StoreErrors            *prometheus.CounterVec

	// HTTP API
	HTTPRequestDuration *prometheus.HistogramVec

	// Event publishing
	EventsPublished *prometheus.CounterVec
	EventsFailed    *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics with the default registry
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry creates metrics with a custom registry (useful for testing)
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OrdersSubmittedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_submitted_total",
				Help: "Total number of order submissions by outcome",
			},
			[]string{"result"}, // created, invalid, store_error
		),
		OrderQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_queries_total",
				Help: "Total number of order queries by query and outcome",
			},
			[]string{"query", "result"}, // recent|after_business_days; ok, empty, invalid, store_error
		),
		OrdersReturned: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orders_query_result_size",
				Help:    "Number of orders returned per query",
				Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
			},
			[]string{"query"},
		),
		BusinessDaysRequested: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "orders_business_days_requested",
				Help:    "Business-day lookback requested by order queries",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 60, 250},
			},
		),
		StoreOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orders_store_operation_duration_seconds",
				Help:    "Duration of order store operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"}, // insert, list_since
		),
		StoreErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_store_errors_total",
				Help: "Total number of order store errors",
			},
			[]string{"operation"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orders_http_request_duration_seconds",
				Help:    "Duration of orders API requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_events_published_total",
				Help: "Total number of order events successfully published",
			},
			[]string{"event_type"},
		),
		EventsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orders_events_failed_total",
				Help: "Total number of order events that failed to publish",
			},
			[]string{"event_type"},
		),
	}
}
