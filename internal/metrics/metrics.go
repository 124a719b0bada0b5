// Package metrics exposes Prometheus collectors for the crawler.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	crawlerItemsTotal           *prometheus.CounterVec
	crawlerBatchDurationSeconds *prometheus.HistogramVec
	crawlerAPIRequestsTotal     *prometheus.CounterVec
	crawlerUpsertRowsTotal      *prometheus.CounterVec

	once sync.Once
)

// Init registers the collectors. Safe to call more than once.
func Init() {
	once.Do(func() {
		crawlerItemsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawler_items_total",
				Help: "Total number of work items processed, labeled by data source and outcome.",
			},
			[]string{"source", "status"},
		)

		crawlerBatchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crawler_batch_duration_seconds",
				Help:    "Histogram of batch processing durations, labeled by data source.",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"source"},
		)

		crawlerAPIRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawler_api_requests_total",
				Help: "Total number of external API requests, labeled by endpoint and status code.",
			},
			[]string{"endpoint", "code"},
		)

		crawlerUpsertRowsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crawler_upsert_rows_total",
				Help: "Total number of rows written by upserts, labeled by table.",
			},
			[]string{"table"},
		)
	})
}

// ObserveItem counts one processed work item.
func ObserveItem(source, status string) {
	if crawlerItemsTotal == nil {
		return
	}
	crawlerItemsTotal.WithLabelValues(source, status).Inc()
}

// ObserveBatch records the duration of one poll cycle's batch.
func ObserveBatch(source string, d time.Duration) {
	if crawlerBatchDurationSeconds == nil {
		return
	}
	crawlerBatchDurationSeconds.WithLabelValues(source).Observe(d.Seconds())
}

// ObserveAPIRequest counts one external API request.
func ObserveAPIRequest(endpoint string, code int) {
	if crawlerAPIRequestsTotal == nil {
		return
	}
	crawlerAPIRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}

// ObserveUpsertRows counts rows written to a table.
func ObserveUpsertRows(table string, rows int) {
	if crawlerUpsertRowsTotal == nil || rows <= 0 {
		return
	}
	crawlerUpsertRowsTotal.WithLabelValues(table).Add(float64(rows))
}
