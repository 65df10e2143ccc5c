package cluster

import (
	"fmt"
	"math"
)

// Marker is a snapshot of a marker displayed on the map.
// Tag is the point count for cluster markers and 0 for single point markers.
// 0 is never a cluster count, a cluster holds at least MinPoints >= 2 points.
type Marker struct {
	Coordinates GeoCoordinates
	Tag         int
}

// MarkerFor returns the marker that displays the node
func MarkerFor(cp ClusterPoint) Marker {
	return Marker{Coordinates: cp.Coordinates, Tag: cp.Tag()}
}

// Diff is the set of operations to bring displayed markers in line with a query result.
// Remove should be applied before Add.
type Diff struct {
	Remove []Marker
	Add    []ClusterPoint
}

// Empty reports whether there is nothing to change
func (d Diff) Empty() bool {
	return len(d.Remove) == 0 && len(d.Add) == 0
}

// Apply returns a new marker slice with removals and additions applied, displayed is not modified
func (d Diff) Apply(displayed []Marker) []Marker {
	pending := make(map[Marker]int, len(d.Remove))
	for _, m := range d.Remove {
		pending[m]++
	}
	result := make([]Marker, 0, len(displayed)+len(d.Add))
	for _, m := range displayed {
		if pending[m] > 0 {
			pending[m]--
			continue
		}
		result = append(result, m)
	}
	for _, cp := range d.Add {
		result = append(result, MarkerFor(cp))
	}
	return result
}

// Reconcile compares displayed markers with nodes of the query result.
// Coordinates are compared by value, both sides come from the same index.
// Markers with coordinates absent from the result are removed,
// nodes without a marker of the same coordinates and tag are added.
// Nodes sharing coordinates are not merged, each gets its own marker.
func Reconcile(displayed []Marker, result []ClusterPoint) Diff {
	present := make(map[GeoCoordinates]struct{}, len(result))
	for _, cp := range result {
		present[cp.Coordinates] = struct{}{}
	}

	var diff Diff
	shown := make(map[GeoCoordinates][]int, len(displayed))
	for _, m := range displayed {
		if _, ok := present[m.Coordinates]; !ok {
			diff.Remove = append(diff.Remove, m)
			continue
		}
		shown[m.Coordinates] = append(shown[m.Coordinates], m.Tag)
	}

	for _, cp := range result {
		if hasTag(shown[cp.Coordinates], cp.Tag()) {
			continue
		}
		diff.Add = append(diff.Add, cp)
	}
	return diff
}

func hasTag(tags []int, tag int) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// FormatCount formats a point count for a cluster label, 1000 and more are shown in thousands: 12345 -> "12K"
func FormatCount(n int) string {
	if n >= 1000 {
		return fmt.Sprintf("%dK", int(math.Round(float64(n)/1000)))
	}
	return fmt.Sprintf("%d", n)
}
