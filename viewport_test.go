package cluster_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cluster "github.com/MadAppGang/geocluster"
)

func TestViewport_Update(t *testing.T) {
	c, err := cluster.NewCluster(randomPoints(1, 2000, bayArea), cluster.DefaultOptions())
	require.NoError(t, err)
	vp := cluster.NewViewport(c)

	diff, err := vp.Update(nil, bayArea, 5)
	require.NoError(t, err)
	assert.Empty(t, diff.Remove)
	require.Len(t, diff.Add, 1)
	displayed := diff.Apply(nil)

	//zoom in, the big cluster is replaced with smaller ones
	diff, err = vp.Update(displayed, bayArea, 10)
	require.NoError(t, err)
	assert.Equal(t, displayed, diff.Remove)
	assert.Greater(t, len(diff.Add), 1)
	assert.Equal(t, 2000, sumPoints(diff.Add))
	displayed = diff.Apply(displayed)

	//camera settles at the same place again
	diff, err = vp.Update(displayed, bayArea, 10)
	require.NoError(t, err)
	assert.True(t, diff.Empty())
}

func TestViewport_InvalidBoundingBox(t *testing.T) {
	c, err := cluster.NewCluster(randomPoints(1, 10, bayArea), cluster.DefaultOptions())
	require.NoError(t, err)

	displayed := []cluster.Marker{{Coordinates: cluster.GeoCoordinates{Lon: 1, Lat: 1}}}
	diff, err := cluster.NewViewport(c).Update(displayed, cluster.BoundingBox{West: math.NaN()}, 3)
	require.ErrorIs(t, err, cluster.ErrInvalidBoundingBox)
	assert.True(t, diff.Empty())
}
