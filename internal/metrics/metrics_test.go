package metrics_test

import (
	"testing"

	"github.com/MadAppGang/geocluster/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.IndexPoints.Set(42)
	m.ReconcileOps.WithLabelValues("add").Add(3)
	m.InvalidRequests.WithLabelValues("bbox").Inc()
	m.QuerySeconds.WithLabelValues("clusters").Observe(0.001)

	assert.InDelta(t, 42, testutil.ToFloat64(m.IndexPoints), 1e-9)
	assert.InDelta(t, 3, testutil.ToFloat64(m.ReconcileOps.WithLabelValues("add")), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.InvalidRequests.WithLabelValues("bbox")), 1e-9)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "geocluster_index_points")
	assert.Contains(t, names, "geocluster_query_duration_seconds")

	//registering twice on the same registry is a programming error
	assert.Panics(t, func() { metrics.NewMetrics(reg) })
}
