// Package metrics exposes Prometheus metrics for classification decisions
// and the refresh worker. The classification core stays pure; callers emit
// these after each decision.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FilterDecisions counts accept/reject outcomes per target bucket.
	FilterDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardgap_filter_decisions_total",
			Help: "Listing filter outcomes by target bucket",
		},
		[]string{"target", "result"},
	)

	// BucketAssignments counts candidates routed into each grade bucket.
	BucketAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardgap_bucket_assignments_total",
			Help: "Sale candidates assigned per grade bucket",
		},
		[]string{"bucket"},
	)

	// DroppedLots counts multi-card lot titles discarded before bucketing.
	DroppedLots = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardgap_dropped_lots_total",
			Help: "Sale candidates dropped as pick/lot/complete-set listings",
		},
	)

	// SportDetections counts detected sports, including unknown.
	SportDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardgap_sport_detections_total",
			Help: "Sport detection outcomes by sport",
		},
		[]string{"sport"},
	)

	// FetchRequests counts marketplace fetches by source and result.
	FetchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardgap_fetch_requests_total",
			Help: "Marketplace fetch attempts by source and result",
		},
		[]string{"source", "result"},
	)

	// CardsUpdated counts cards whose price fields were refreshed.
	CardsUpdated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cardgap_cards_updated_total",
			Help: "Card records updated with fresh price aggregates",
		},
	)

	// RefreshQueueSize gauges the urgent refresh queue length.
	RefreshQueueSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardgap_refresh_queue_size",
			Help: "Cards waiting in the priority refresh queue",
		},
	)

	// RefreshBatchDuration observes wall time per refresh batch.
	RefreshBatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cardgap_refresh_batch_duration_seconds",
			Help:    "Time taken to process one refresh batch",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)
)
