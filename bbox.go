package cluster

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBoundingBox is returned by queries for malformed bounding boxes
var ErrInvalidBoundingBox = errors.New("invalid bounding box")

// BoundingBox is the visible geographic rectangle.
// West could be larger than East when the box crosses the antimeridian.
type BoundingBox struct {
	West  float64
	South float64
	East  float64
	North float64
}

// WorldBounds covers the whole map
var WorldBounds = BoundingBox{West: -180, South: -90, East: 180, North: 90}

// Validate checks that all edges are finite and latitudes are in [-90,90].
// Longitudes out of [-180,180] are fine, they are wrapped around.
func (b BoundingBox) Validate() error {
	if !isFinite(b.West) || !isFinite(b.East) || !isFinite(b.South) || !isFinite(b.North) {
		return fmt.Errorf("%w: non-finite edge in %v", ErrInvalidBoundingBox, b)
	}
	if b.South < -90 || b.South > 90 || b.North < -90 || b.North > 90 {
		return fmt.Errorf("%w: latitude out of range in %v", ErrInvalidBoundingBox, b)
	}
	if b.South > b.North {
		return fmt.Errorf("%w: south %v is above north %v", ErrInvalidBoundingBox, b.South, b.North)
	}
	return nil
}

// CrossesAntimeridian reports whether the box wraps from 180 to -180
func (b BoundingBox) CrossesAntimeridian() bool {
	if b.East-b.West >= 360 {
		return false
	}
	west, east := b.normalizedLon()
	return west > east
}

func (b BoundingBox) normalizedLon() (float64, float64) {
	west := normalizeLon(b.West)
	east := normalizeLon(b.East)
	//east edge on the antimeridian closes the box at 180, not at -180
	if east == -180 && b.East != b.West {
		east = 180
	}
	return west, east
}

type mercatorRange struct {
	minX, minY, maxX, maxY float64
}

// mercatorRanges projects the box into one or two ranges (split on the antimeridian).
// -180 and 180 are the same meridian, a box touching one of them gets the other column too.
func (b BoundingBox) mercatorRanges() []mercatorRange {
	minY := latToY(b.North)
	maxY := latToY(b.South)

	if b.East-b.West >= 360 {
		return []mercatorRange{{0, minY, 1, maxY}}
	}
	west, east := b.normalizedLon()
	var ranges []mercatorRange
	if west > east {
		ranges = []mercatorRange{
			{lonToX(west), minY, 1, maxY},
			{0, minY, lonToX(east), maxY},
		}
	} else {
		ranges = []mercatorRange{{lonToX(west), minY, lonToX(east), maxY}}
	}

	var left, right bool
	for _, r := range ranges {
		left = left || r.minX == 0
		right = right || r.maxX == 1
	}
	switch {
	case left && !right:
		ranges = append(ranges, mercatorRange{1, minY, 1, maxY})
	case right && !left:
		ranges = append(ranges, mercatorRange{0, minY, 0, maxY})
	}
	return ranges
}

// wrap longitude into [-180, 180], longitudes in range are returned as is
func normalizeLon(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	return math.Mod(math.Mod(lon+180, 360)+360, 360) - 180
}
