// Package metrics holds the Prometheus collectors shared across the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Catalog request outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	CatalogRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_catalog_requests_total",
		Help: "Total number of catalog search requests by outcome",
	}, []string{"outcome"})

	CatalogRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookshelf_catalog_request_duration_seconds",
		Help:    "Duration of catalog search requests in seconds",
		Buckets: prometheus.DefBuckets,
	})

	ReactorMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_reactor_mutations_total",
		Help: "Total number of mutations reduced into reactor state",
	}, []string{"reactor"})

	ReactorStaleMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_reactor_stale_mutations_total",
		Help: "Mutations dropped because a newer request superseded them",
	}, []string{"reactor"})

	StoreOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_store_operations_total",
		Help: "Local store operations by table, operation and outcome",
	}, []string{"table", "op", "outcome"})

	TasksProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_tasks_processed_total",
		Help: "Background tasks processed, by queue and outcome",
	}, []string{"queue", "outcome"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_http_requests_total",
		Help: "Total number of HTTP API requests",
	}, []string{"method", "path", "status"})
)

// ObserveCatalogRequest records one catalog call.
func ObserveCatalogRequest(start time.Time, err error) {
	CatalogRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		CatalogRequestsTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	CatalogRequestsTotal.WithLabelValues(OutcomeSuccess).Inc()
}

// ObserveTask records one processed background task.
func ObserveTask(queue string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	TasksProcessedTotal.WithLabelValues(queue, outcome).Inc()
}

// ObserveStoreOperation records one local store call.
func ObserveStoreOperation(table, op string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	StoreOperationsTotal.WithLabelValues(table, op, outcome).Inc()
}
