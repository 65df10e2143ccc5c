package source

import (
	"context"
	"fmt"
	"os"

	cluster "github.com/MadAppGang/geocluster"
)

// GeoJSONFile loads Point features from a GeoJSON FeatureCollection file.
type GeoJSONFile struct {
	Path string
}

func (g *GeoJSONFile) Load(ctx context.Context) ([]cluster.GeoPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(g.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read points file: %w", err)
	}
	points, err := cluster.PointsFromGeoJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load points from %s: %w", g.Path, err)
	}
	return points, nil
}
