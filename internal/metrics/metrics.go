package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	IndexPoints     prometheus.Gauge
	BuildSeconds    prometheus.Histogram
	QuerySeconds    *prometheus.HistogramVec
	QueryNodes      prometheus.Histogram
	ReconcileOps    *prometheus.CounterVec
	InvalidRequests *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		IndexPoints: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "geocluster_index_points",
			Help: "Number of points in the cluster index.",
		}),
		BuildSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "geocluster_index_build_seconds",
			Help:    "Duration of the cluster index build.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		QuerySeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geocluster_query_duration_seconds",
			Help:    "Duration of cluster queries.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"endpoint"}),
		QueryNodes: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "geocluster_query_nodes",
			Help:    "Number of clusters and points returned by a query.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		ReconcileOps: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocluster_reconcile_operations_total",
			Help: "Total number of marker operations produced by reconciliation.",
		}, []string{"op"}),
		InvalidRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocluster_invalid_requests_total",
			Help: "Total number of rejected requests.",
		}, []string{"reason"}),
	}
}
