// Package metrics provides Prometheus instrumentation for document parsing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"docparser/internal/domain"
)

const namespace = "docparser"

var (
	// ParsesTotal counts parse requests.
	// Labels: file_type (pdf, excel, csv), result (success, extraction_failed, error)
	ParsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parse",
			Name:      "requests_total",
			Help:      "Total number of parse requests by file type and result",
		},
		[]string{"file_type", "result"},
	)

	// ParseDuration tracks end-to-end parse latency.
	ParseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "parse",
			Name:      "duration_seconds",
			Help:      "Duration of parse operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"file_type"},
	)

	// MetricsExtracted counts extracted financial metrics.
	// Labels: metric (revenue, eps, ...)
	MetricsExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extract",
			Name:      "metrics_total",
			Help:      "Total number of financial metrics extracted by metric name",
		},
		[]string{"metric"},
	)

	// TablesDetected counts candidate tables emitted.
	// Labels: type (extracted_table, sheet_table)
	TablesDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extract",
			Name:      "tables_total",
			Help:      "Total number of candidate tables emitted by table type",
		},
		[]string{"type"},
	)

	// ArchiveUploads counts archive writes of uploaded originals.
	// Labels: result (success, error)
	ArchiveUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "archive_total",
			Help:      "Total number of uploaded originals archived to object storage",
		},
		[]string{"result"},
	)
)

// Result labels.
const (
	ResultSuccess          = "success"
	ResultExtractionFailed = "extraction_failed"
	ResultError            = "error"
)

// RecordExtraction counts the metrics and tables of a successful extraction.
func RecordExtraction(result *domain.ExtractionResult) {
	if result == nil {
		return
	}
	for i := range result.Metrics {
		MetricsExtracted.WithLabelValues(result.Metrics[i].Name).Inc()
	}
	for i := range result.Tables {
		TablesDetected.WithLabelValues(string(result.Tables[i].Type)).Inc()
	}
}
