package cluster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cluster "github.com/MadAppGang/geocluster"
)

func aggregate(id, count int, lon, lat float64) cluster.ClusterPoint {
	return cluster.ClusterPoint{
		Coordinates: cluster.GeoCoordinates{Lon: lon, Lat: lat},
		ID:          id,
		NumPoints:   count,
	}
}

func TestReconcile_AddThenKeep(t *testing.T) {
	result := []cluster.ClusterPoint{aggregate(100, 5, -122.4, 37.7)}

	diff := cluster.Reconcile(nil, result)
	assert.Empty(t, diff.Remove)
	require.Len(t, diff.Add, 1)
	assert.Equal(t, result[0], diff.Add[0])

	displayed := []cluster.Marker{{Coordinates: result[0].Coordinates, Tag: 5}}
	diff = cluster.Reconcile(displayed, result)
	assert.Empty(t, diff.Remove)
	assert.Empty(t, diff.Add)
	assert.True(t, diff.Empty())
}

func TestReconcile_RemovesMissingCoordinates(t *testing.T) {
	leaf := aggregate(3, 1, -122.1, 37.4)
	displayed := []cluster.Marker{
		{Coordinates: cluster.GeoCoordinates{Lon: -122.4, Lat: 37.7}, Tag: 5},
		cluster.MarkerFor(leaf),
	}

	diff := cluster.Reconcile(displayed, []cluster.ClusterPoint{leaf})
	assert.Equal(t, []cluster.Marker{displayed[0]}, diff.Remove)
	assert.Empty(t, diff.Add, "single point marker is already displayed")
}

func TestReconcile_LeafAndClusterTags(t *testing.T) {
	coords := cluster.GeoCoordinates{Lon: 10, Lat: 20}
	leaf := cluster.ClusterPoint{Coordinates: coords, ID: 7, NumPoints: 1}

	//cluster marker at the place of a single point is not a match
	diff := cluster.Reconcile([]cluster.Marker{{Coordinates: coords, Tag: 2}}, []cluster.ClusterPoint{leaf})
	assert.Empty(t, diff.Remove)
	assert.Equal(t, []cluster.ClusterPoint{leaf}, diff.Add)

	diff = cluster.Reconcile([]cluster.Marker{{Coordinates: coords}}, []cluster.ClusterPoint{leaf})
	assert.True(t, diff.Empty())
}

// Marker with the same coordinates but a stale count is kept, the new node is added next to it.
// Removal goes by coordinates only, so both markers stay displayed.
func TestReconcile_StaleCountAtSameCoordinates(t *testing.T) {
	node := aggregate(100, 6, 1, 1)
	stale := cluster.Marker{Coordinates: node.Coordinates, Tag: 5}

	diff := cluster.Reconcile([]cluster.Marker{stale}, []cluster.ClusterPoint{node})
	assert.Empty(t, diff.Remove)
	assert.Equal(t, []cluster.ClusterPoint{node}, diff.Add)

	displayed := diff.Apply([]cluster.Marker{stale})
	assert.Len(t, displayed, 2)
	assert.True(t, cluster.Reconcile(displayed, []cluster.ClusterPoint{node}).Empty())
}

// Two clusters with coincident centroids are not merged.
// With one matching marker displayed both are treated as displayed.
func TestReconcile_CoincidentNodes(t *testing.T) {
	first := aggregate(100, 4, 5, 5)
	second := aggregate(101, 4, 5, 5)
	result := []cluster.ClusterPoint{first, second}

	diff := cluster.Reconcile(nil, result)
	assert.Equal(t, result, diff.Add)

	diff = cluster.Reconcile([]cluster.Marker{cluster.MarkerFor(first)}, result)
	assert.True(t, diff.Empty())

	third := aggregate(102, 9, 5, 5)
	diff = cluster.Reconcile([]cluster.Marker{cluster.MarkerFor(first)}, []cluster.ClusterPoint{first, third})
	assert.Equal(t, []cluster.ClusterPoint{third}, diff.Add)
}

func TestReconcile_Idempotent(t *testing.T) {
	points := randomPoints(99, 5000, bayArea)
	c, err := cluster.NewCluster(points, cluster.DefaultOptions())
	require.NoError(t, err)

	viewports := []struct {
		bbox cluster.BoundingBox
		zoom int
	}{
		{bayArea, 5},
		{bayArea, 9},
		{cluster.BoundingBox{West: -122.5, South: 37.6, East: -122.3, North: 37.8}, 11},
		{cluster.BoundingBox{West: -122.5, South: 37.6, East: -122.3, North: 37.8}, 14},
		{cluster.BoundingBox{West: -122.3, South: 37.3, East: -121.9, North: 37.6}, 12},
		{bayArea, 2},
	}

	var displayed []cluster.Marker
	for _, vp := range viewports {
		result, err := c.GetClusters(vp.bbox, vp.zoom)
		require.NoError(t, err)

		diff := cluster.Reconcile(displayed, result)
		displayed = diff.Apply(displayed)
		assert.Len(t, displayed, len(result), "zoom %d", vp.zoom)

		again := cluster.Reconcile(displayed, result)
		assert.Empty(t, again.Remove, "zoom %d", vp.zoom)
		assert.Empty(t, again.Add, "zoom %d", vp.zoom)
	}
}

func TestClusterPoint_TagNeverZeroForClusters(t *testing.T) {
	c, err := cluster.NewCluster(randomPoints(8, 2000, bayArea), cluster.DefaultOptions())
	require.NoError(t, err)

	for z := 0; z <= 14; z++ {
		for _, cp := range c.AllClusters(z) {
			if cp.IsCluster() {
				assert.GreaterOrEqual(t, cp.Tag(), 2, "zoom %d cluster %d", z, cp.ID)
			} else {
				assert.Equal(t, 0, cp.Tag(), "zoom %d point %d", z, cp.ID)
			}
		}
	}
}

func TestDiff_Apply(t *testing.T) {
	a := cluster.Marker{Coordinates: cluster.GeoCoordinates{Lon: 1, Lat: 1}, Tag: 3}
	b := cluster.Marker{Coordinates: cluster.GeoCoordinates{Lon: 2, Lat: 2}}
	displayed := []cluster.Marker{a, b, a}
	added := aggregate(100, 7, 3, 3)

	diff := cluster.Diff{Remove: []cluster.Marker{a}, Add: []cluster.ClusterPoint{added}}
	result := diff.Apply(displayed)

	assert.Equal(t, []cluster.Marker{b, a, {Coordinates: added.Coordinates, Tag: 7}}, result)
	assert.Equal(t, []cluster.Marker{a, b, a}, displayed, "input is not modified")
}

func TestFormatCount(t *testing.T) {
	tests := map[int]string{
		0:      "0",
		2:      "2",
		999:    "999",
		1000:   "1K",
		1499:   "1K",
		1500:   "2K",
		12345:  "12K",
		100000: "100K",
	}
	for n, want := range tests {
		assert.Equal(t, want, cluster.FormatCount(n), "count %d", n)
	}
}
