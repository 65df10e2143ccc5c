package cluster

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection converts nodes to GeoJSON.
// Clusters have cluster, cluster_id, point_count and point_count_abbreviated properties,
// single points have the properties of the input point (if it's a *Point) and its id.
func (c *Cluster) FeatureCollection(points []ClusterPoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, cp := range points {
		f := geojson.NewFeature(orb.Point{cp.Coordinates.Lon, cp.Coordinates.Lat})
		if cp.IsCluster() {
			f.ID = cp.ID
			f.Properties["cluster"] = true
			f.Properties["cluster_id"] = cp.ID
			f.Properties["point_count"] = cp.NumPoints
			f.Properties["point_count_abbreviated"] = FormatCount(cp.NumPoints)
			fc.Append(f)
			continue
		}

		if p, ok := c.Point(cp.ID); ok {
			if sp, ok := p.(*Point); ok {
				for k, v := range sp.Properties {
					f.Properties[k] = v
				}
			}
			if ip, ok := p.(Identifiable); ok {
				f.ID = ip.GetID()
			}
		}
		if f.ID == nil {
			f.ID = cp.ID
		}
		f.Properties["cluster"] = false
		f.Properties["id"] = f.ID
		fc.Append(f)
	}
	return fc
}

// PointsFromGeoJSON reads Point features of a FeatureCollection.
// Id of the point is the feature id or its "id" property.
func PointsFromGeoJSON(data []byte) ([]GeoPoint, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feature collection: %w", err)
	}

	points := make([]GeoPoint, 0, len(fc.Features))
	for i, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			return nil, fmt.Errorf("%w: feature %d is not a Point", ErrInvalidPoint, i)
		}
		p := &Point{
			Coordinates: GeoCoordinates{Lon: pt.Lon(), Lat: pt.Lat()},
			Properties:  map[string]interface{}(f.Properties),
		}
		switch {
		case f.ID != nil:
			p.ID = fmt.Sprint(f.ID)
		case f.Properties["id"] != nil:
			p.ID = fmt.Sprint(f.Properties["id"])
		default:
			p.ID = fmt.Sprint(i)
		}
		points = append(points, p)
	}
	return points, nil
}
