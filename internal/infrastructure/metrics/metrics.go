package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upload URLs signed, by request outcome.
	SignedUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cloudinary",
			Subsystem: "gateway",
			Name:      "signed_uploads_total",
			Help:      "Total signed upload URLs issued",
		},
		[]string{"status"},
	)

	// Removal jobs accepted into the queue.
	RemovalsEnqueuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cloudinary",
			Subsystem: "gateway",
			Name:      "removals_enqueued_total",
			Help:      "Total removal jobs accepted into the queue",
		},
	)

	// Removal jobs processed by the worker, by terminal state.
	RemovalsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cloudinary",
			Subsystem: "gateway",
			Name:      "removals_processed_total",
			Help:      "Total removal jobs processed by the worker",
		},
		[]string{"status"},
	)

	// Remote destroy call duration.
	DestroyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cloudinary",
			Subsystem: "gateway",
			Name:      "destroy_duration_seconds",
			Help:      "Cloudinary destroy call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
	)
)
