package cluster_test

import (
	"math/rand"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cluster "github.com/MadAppGang/geocluster"
)

//bay area, the same box the map client starts with
var bayArea = cluster.BoundingBox{West: -122.6445, South: 37.1897, East: -121.5871, North: 38.2033}

// randomPoints generates n points inside bbox, the same seed gives the same points
func randomPoints(seed int64, n int, bbox cluster.BoundingBox) []cluster.GeoPoint {
	r := rand.New(rand.NewSource(seed))
	points := make([]cluster.GeoPoint, n)
	for i := range points {
		id, err := uuid.NewRandomFromReader(r)
		if err != nil {
			panic(err)
		}
		points[i] = &cluster.Point{
			ID: id.String(),
			Coordinates: cluster.GeoCoordinates{
				Lon: r.Float64()*(bbox.East-bbox.West) + bbox.West,
				Lat: r.Float64()*(bbox.North-bbox.South) + bbox.South,
			},
		}
	}
	return points
}

func point(lon, lat float64) cluster.GeoPoint {
	return &cluster.Point{Coordinates: cluster.GeoCoordinates{Lon: lon, Lat: lat}}
}

func testOptions() cluster.Options {
	return cluster.Options{
		MinZoom:   0,
		MaxZoom:   16,
		Radius:    40,
		Extent:    256,
		MinPoints: 2,
	}
}

func importData(t *testing.T, filename string) []cluster.GeoPoint {
	t.Helper()
	raw, err := os.ReadFile(filename)
	require.NoError(t, err)
	points, err := cluster.PointsFromGeoJSON(raw)
	require.NoError(t, err)
	return points
}

func sumPoints(points []cluster.ClusterPoint) int {
	total := 0
	for _, p := range points {
		total += p.NumPoints
	}
	return total
}

func ids(points []cluster.ClusterPoint) []int {
	result := make([]int, len(points))
	for i, p := range points {
		result[i] = p.ID
	}
	return result
}
