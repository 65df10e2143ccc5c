package cluster

// Viewport is the entry point for the map: it is called every time the camera settles.
// It keeps no markers, the caller passes a snapshot of displayed markers and applies the Diff.
type Viewport struct {
	cluster *Cluster
}

func NewViewport(c *Cluster) *Viewport {
	return &Viewport{cluster: c}
}

// Update queries nodes visible in bbox on zoom and reconciles them with displayed markers
func (v *Viewport) Update(displayed []Marker, bbox BoundingBox, zoom int) (Diff, error) {
	result, err := v.cluster.GetClusters(bbox, zoom)
	if err != nil {
		return Diff{}, err
	}
	return Reconcile(displayed, result), nil
}
