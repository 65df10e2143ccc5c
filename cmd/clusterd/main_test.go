package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	cluster "github.com/MadAppGang/geocluster"
	"github.com/MadAppGang/geocluster/internal/metrics"
	"github.com/MadAppGang/geocluster/internal/source"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIndex(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := &source.Random{
		Count: 500,
		Seed:  1,
		Bound: orb.Bound{Min: orb.Point{-122.6445, 37.1897}, Max: orb.Point{-121.5871, 38.2033}},
	}

	index, err := buildIndex(t.Context(), loader, cluster.DefaultOptions(), m, log)
	require.NoError(t, err)
	assert.Equal(t, 500, index.Len())
	assert.InDelta(t, 500, testutil.ToFloat64(m.IndexPoints), 1e-9)
	assert.Equal(t, 1, testutil.CollectAndCount(m.BuildSeconds))
}

func TestBuildIndex_Errors(t *testing.T) {
	m := metrics.NewMetrics(prometheus.NewRegistry())
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	opts := cluster.DefaultOptions()
	opts.Radius = 0
	_, err := buildIndex(t.Context(), &source.Random{Count: 10}, opts, m, log)
	require.ErrorIs(t, err, cluster.ErrInvalidConfig)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = buildIndex(ctx, &source.Random{Count: 10}, cluster.DefaultOptions(), m, log)
	require.ErrorIs(t, err, context.Canceled)
	assert.InDelta(t, 0, testutil.ToFloat64(m.IndexPoints), 1e-9)
}

func TestSetupLogger(t *testing.T) {
	ctx := t.Context()
	assert.True(t, setupLogger(envLocal).Enabled(ctx, slog.LevelDebug))
	assert.False(t, setupLogger(envDev).Enabled(ctx, slog.LevelDebug))
	assert.True(t, setupLogger(envDev).Enabled(ctx, slog.LevelInfo))
	assert.False(t, setupLogger(envProd).Enabled(ctx, slog.LevelInfo))
	assert.True(t, setupLogger(envProd).Enabled(ctx, slog.LevelWarn))
}
