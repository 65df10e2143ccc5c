package cluster

import (
	"fmt"
	"math"
)

// GeoCoordinates represent position in the Earth
type GeoCoordinates struct {
	Lon float64
	Lat float64
}

// Valid reports whether coordinates are finite and inside [-180,180] x [-90,90]
func (gc GeoCoordinates) Valid() bool {
	return isFinite(gc.Lon) && isFinite(gc.Lat) &&
		gc.Lon >= -180 && gc.Lon <= 180 &&
		gc.Lat >= -90 && gc.Lat <= 90
}

// all object, that you want to cluster should implement this protocol
type GeoPoint interface {
	GetCoordinates() GeoCoordinates
}

// Identifiable points have an opaque id, it's copied to GeoJSON output of single points
type Identifiable interface {
	GetID() string
}

// Point is a simple GeoPoint with id and optional metadata
type Point struct {
	ID          string
	Coordinates GeoCoordinates
	Properties  map[string]interface{}
}

func (p *Point) GetCoordinates() GeoCoordinates {
	return p.Coordinates
}

func (p *Point) GetID() string {
	return p.ID
}

// PointSet is an immutable validated set of points.
// Points are not copied, but coordinates are read only once.
type PointSet struct {
	points []GeoPoint
	coords []GeoCoordinates
}

// NewPointSet reads coordinates of every point and fails with ErrInvalidPoint
// on the first point outside of valid longitude and latitude ranges
func NewPointSet(points []GeoPoint) (*PointSet, error) {
	set := &PointSet{
		points: points,
		coords: make([]GeoCoordinates, len(points)),
	}
	for i, p := range points {
		if p == nil {
			return nil, fmt.Errorf("%w: point %d is nil", ErrInvalidPoint, i)
		}
		gc := p.GetCoordinates()
		if !gc.Valid() {
			return nil, fmt.Errorf("%w: point %d has coordinates %v,%v", ErrInvalidPoint, i, gc.Lon, gc.Lat)
		}
		set.coords[i] = gc
	}
	return set, nil
}

// Len returns number of points in the set
func (s *PointSet) Len() int {
	return len(s.points)
}

// At returns point and its coordinates by index
func (s *PointSet) At(i int) (GeoPoint, GeoCoordinates) {
	return s.points[i], s.coords[i]
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
