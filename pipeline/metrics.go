package pipeline

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	postsConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentipipe_posts_consumed_total",
			Help: "Total number of posts read from the source and enqueued",
		},
	)

	postsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentipipe_posts_skipped_total",
			Help: "Total number of posts skipped because they were already archived",
		},
	)

	postsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentipipe_posts_scored_total",
			Help: "Total number of posts scored",
		},
	)

	batchesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentipipe_batches_scored_total",
			Help: "Total number of batched scoring calls",
		},
	)

	rowsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentipipe_rows_written_total",
			Help: "Total number of rows appended to the sink",
		},
	)

	workerFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentipipe_worker_failures_total",
			Help: "Total number of scoring workers that exited with an error",
		},
	)

	batchSizeHist = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentipipe_batch_size",
			Help:    "Size of batched scoring calls",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	scoreDistribution = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentipipe_score_distribution",
			Help:    "Distribution of sentiment scores",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
	)
)

// MetricsHandler returns an HTTP handler exposing pipeline metrics in
// Prometheus format.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
