package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khata_http_requests_total",
			Help: "HTTP requests by method, path and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "khata_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LedgerRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "khata_ledger_records_total",
			Help: "Ledger records written, by entity (inventory, sales, credit, document)",
		},
		[]string{"entity"},
	)

	StockRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "khata_stock_rejections_total",
			Help: "Sales rejected because quantity exceeded remaining stock",
		},
	)

	UploadFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "khata_upload_failures_total",
			Help: "Document uploads that failed against the blob host",
		},
	)
)
