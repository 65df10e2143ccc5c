package cluster

import (
	"errors"
	"fmt"
	"math"

	"github.com/MadAppGang/kdbush"
)

// That Zoom level indicate a node not yet visited by the clustering pass
const InfinityZoomLevel = 100

// MaxZoomLimit is the largest zoom level an index could be built for
const MaxZoomLimit = 24

const defaultNodeSize = 64

var (
	// ErrInvalidConfig is returned by NewCluster for unusable Options.
	// A failed build never returns a partially built index.
	ErrInvalidConfig = errors.New("invalid cluster config")
	// ErrInvalidPoint is returned for points with non-finite or out of range coordinates.
	ErrInvalidPoint = errors.New("invalid point")
	// ErrClusterNotFound is returned by cluster navigation for unknown cluster ids.
	ErrClusterNotFound = errors.New("cluster not found")
)

// Options of the index, fixed at construction
// MinZoom - minimum zoom level to generate clusters
// MaxZoom - maximum zoom level, every point is shown unclustered there
// Radius - cluster radius in pixels, relative to Extent
// Extent - size of tile in pixels, affects clustering radius
// MinPoints - minimum number of points to form a cluster
// NodeSize is size of the KD-tree node, 64 by default. Higher means faster indexing but slower search, and vise versa.
type Options struct {
	MinZoom   int
	MaxZoom   int
	Radius    float64
	Extent    int
	MinPoints int
	NodeSize  int
}

// DefaultOptions returns options used by the map client:
// zoom 0..14, radius 40px over a 256px tile, clusters of 2 and more points
func DefaultOptions() Options {
	return Options{
		MinZoom:   0,
		MaxZoom:   14,
		Radius:    40,
		Extent:    256,
		MinPoints: 2,
		NodeSize:  defaultNodeSize,
	}
}

func (o Options) validate() error {
	switch {
	case o.MinZoom < 0:
		return fmt.Errorf("%w: min zoom %d is negative", ErrInvalidConfig, o.MinZoom)
	case o.MaxZoom > MaxZoomLimit:
		return fmt.Errorf("%w: max zoom %d is larger than %d", ErrInvalidConfig, o.MaxZoom, MaxZoomLimit)
	case o.MinZoom > o.MaxZoom:
		return fmt.Errorf("%w: min zoom %d is larger than max zoom %d", ErrInvalidConfig, o.MinZoom, o.MaxZoom)
	case !(o.Radius > 0) || math.IsInf(o.Radius, 0):
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidConfig, o.Radius)
	case o.Extent <= 0:
		return fmt.Errorf("%w: extent must be positive, got %d", ErrInvalidConfig, o.Extent)
	case o.MinPoints < 2:
		return fmt.Errorf("%w: min points must be at least 2, got %d", ErrInvalidConfig, o.MinPoints)
	}
	return nil
}

// ClusterPoint is a node of one zoom level: a single input point or a cluster of points.
// For a single point Id is the index in the initial slice of points and NumPoints is 1.
// Clusters have ids starting from ClusterIdxSeed.
type ClusterPoint struct {
	Coordinates GeoCoordinates
	ID          int
	NumPoints   int
}

// IsCluster reports whether the node aggregates several points
func (cp ClusterPoint) IsCluster() bool {
	return cp.NumPoints > 1
}

// Tag is the marker tag of the node: point count for clusters, 0 for single points
func (cp ClusterPoint) Tag() int {
	if cp.IsCluster() {
		return cp.NumPoints
	}
	return 0
}

// node is the stored form of ClusterPoint, X and Y are mercator coordinates in [0..1] range
type node struct {
	X, Y      float64
	coords    GeoCoordinates
	id        int
	numPoints int
	parentID  int
	level     int // zoom the cluster was created at
	zoom      int // last zoom the node was visited at during clustering
}

func (n *node) Coordinates() (float64, float64) {
	return n.X, n.Y
}

func (n *node) clusterPoint() ClusterPoint {
	return ClusterPoint{Coordinates: n.coords, ID: n.id, NumPoints: n.numPoints}
}

// Cluster is the multilevel clustered index of points.
// It holds one KD-tree per zoom level in [MinZoom, MaxZoom],
// and it is read only after NewCluster returns, so it is safe for concurrent use.
type Cluster struct {
	opts     Options
	indexes  []*kdbush.KDBush
	levels   [][]*node
	points   []GeoPoint
	clusters map[int]*node

	// ClusterIdxSeed is the next power of ten above number of points
	clusterIdxSeed int
}

// NewCluster validates points and options and builds multilevel clustered indexes.
// GetCoordinates called only once for each point.
func NewCluster(points []GeoPoint, opts Options) (*Cluster, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	set, err := NewPointSet(points)
	if err != nil {
		return nil, err
	}
	return build(set, opts), nil
}

// NewClusterFromSet builds indexes for already validated set of points
func NewClusterFromSet(set *PointSet, opts Options) (*Cluster, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if set == nil {
		set = &PointSet{}
	}
	return build(set, opts), nil
}

func build(set *PointSet, opts Options) *Cluster {
	if opts.NodeSize <= 0 {
		opts.NodeSize = defaultNodeSize
	}
	levels := opts.MaxZoom - opts.MinZoom + 1
	c := &Cluster{
		opts:           opts,
		indexes:        make([]*kdbush.KDBush, levels),
		levels:         make([][]*node, levels),
		points:         set.points,
		clusters:       make(map[int]*node),
		clusterIdxSeed: idxSeed(len(set.points)),
	}

	//all points are unclustered on the max zoom level
	nodes := translateToNodes(set.points, set.coords)
	c.setLevel(opts.MaxZoom, nodes)

	nextID := c.clusterIdxSeed
	for z := opts.MaxZoom - 1; z >= opts.MinZoom; z-- {
		nodes = c.clusterize(nodes, z, &nextID)
		c.setLevel(z, nodes)
	}
	return c
}

func (c *Cluster) setLevel(zoom int, nodes []*node) {
	c.levels[zoom-c.opts.MinZoom] = nodes
	c.indexes[zoom-c.opts.MinZoom] = kdbush.NewBush(nodesToPoints(nodes), c.opts.NodeSize)
}

// radius in mercator units for zoom level
func (c *Cluster) radius(zoom int) float64 {
	return c.opts.Radius / (float64(c.opts.Extent) * math.Pow(2, float64(zoom)))
}

// clusterize nodes of level zoom+1 into level zoom
func (c *Cluster) clusterize(nodes []*node, zoom int, nextID *int) []*node {
	result := make([]*node, 0, len(nodes))
	r := c.radius(zoom)
	tree := c.indexes[zoom+1-c.opts.MinZoom]

	for _, p := range nodes {
		//skip nodes we have already clustered
		if p.zoom <= zoom {
			continue
		}
		//mark this node as visited
		p.zoom = zoom

		neighbourIds := tree.Within(&kdbush.SimplePoint{X: p.X, Y: p.Y}, r)

		numPoints := p.numPoints
		for _, j := range neighbourIds {
			if b := nodes[j]; b.zoom > zoom {
				numPoints += b.numPoints
			}
		}

		//not enough points around, keep node and its neighbours as they are
		if numPoints == p.numPoints || numPoints < c.opts.MinPoints {
			result = append(result, p)
			if numPoints > p.numPoints {
				for _, j := range neighbourIds {
					if b := nodes[j]; b.zoom > zoom {
						b.zoom = zoom
						result = append(result, b)
					}
				}
			}
			continue
		}

		parent := &node{
			id:        *nextID,
			numPoints: numPoints,
			parentID:  -1,
			level:     zoom,
			zoom:      InfinityZoomLevel,
		}
		*nextID++

		wx := p.X * float64(p.numPoints)
		wy := p.Y * float64(p.numPoints)
		p.parentID = parent.id
		for _, j := range neighbourIds {
			b := nodes[j]
			if b.zoom <= zoom {
				continue
			}
			b.zoom = zoom
			b.parentID = parent.id
			wx += b.X * float64(b.numPoints)
			wy += b.Y * float64(b.numPoints)
		}
		parent.X = wx / float64(numPoints)
		parent.Y = wy / float64(numPoints)
		parent.coords = ReverseMercatorProjection(parent.X, parent.Y)

		c.clusters[parent.id] = parent
		result = append(result, parent)
	}
	return result
}

// Options returns options the index was built with
func (c *Cluster) Options() Options {
	return c.opts
}

// Len returns number of indexed points
func (c *Cluster) Len() int {
	return len(c.points)
}

// ClusterIdxSeed is the first id used for clusters.
// For example, if input slice of points length is 78, ClusterIdxSeed == 100
func (c *Cluster) ClusterIdxSeed() int {
	return c.clusterIdxSeed
}

// Point returns the input point for the id of a single point node
func (c *Cluster) Point(id int) (GeoPoint, bool) {
	if id < 0 || id >= len(c.points) {
		return nil, false
	}
	return c.points[id], true
}

// GetClusters returns clusters and points of zoom level inside bounding box.
// Zoom is limited to [MinZoom, MaxZoom].
// Bounding box could cross the antimeridian (West > East), both sides are returned then.
func (c *Cluster) GetClusters(bbox BoundingBox, zoom int) ([]ClusterPoint, error) {
	if err := bbox.Validate(); err != nil {
		return nil, err
	}
	z := c.limitZoom(zoom)
	index := c.indexes[z-c.opts.MinZoom]
	nodes := c.levels[z-c.opts.MinZoom]
	if len(nodes) == 0 {
		return []ClusterPoint{}, nil
	}

	var result []ClusterPoint
	for _, r := range bbox.mercatorRanges() {
		ids := index.Range(r.minX, r.minY, r.maxX, r.maxY)
		for _, id := range ids {
			result = append(result, nodes[id].clusterPoint())
		}
	}
	if result == nil {
		result = []ClusterPoint{}
	}
	return result, nil
}

// AllClusters returns all cluster points, array of ClusterPoint, for zoom on the map.
func (c *Cluster) AllClusters(zoom int) []ClusterPoint {
	nodes := c.levels[c.limitZoom(zoom)-c.opts.MinZoom]
	result := make([]ClusterPoint, len(nodes))
	for i, n := range nodes {
		result[i] = n.clusterPoint()
	}
	return result
}

func (c *Cluster) limitZoom(zoom int) int {
	if zoom > c.opts.MaxZoom {
		zoom = c.opts.MaxZoom
	}
	if zoom < c.opts.MinZoom {
		zoom = c.opts.MinZoom
	}
	return zoom
}

/////////////////////////////////
// private stuff
/////////////////////////////////

//translate points to nodes with projection coordinates
func translateToNodes(points []GeoPoint, coords []GeoCoordinates) []*node {
	result := make([]*node, len(points))
	for i := range points {
		n := &node{
			coords:    coords[i],
			id:        i,
			numPoints: 1,
			parentID:  -1,
			level:     InfinityZoomLevel,
			zoom:      InfinityZoomLevel,
		}
		n.X, n.Y = MercatorProjection(coords[i])
		result[i] = n
	}
	return result
}

// longitude/latitude to spherical mercator in [0..1] range
func MercatorProjection(coordinates GeoCoordinates) (float64, float64) {
	return lonToX(coordinates.Lon), latToY(coordinates.Lat)
}

func lonToX(lon float64) float64 {
	return lon/360.0 + 0.5
}

func latToY(lat float64) float64 {
	sin := math.Sin(lat * math.Pi / 180.0)
	y := 0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi
	if y < 0 {
		y = 0
	}
	if y > 1 {
		y = 1
	}
	return y
}

func ReverseMercatorProjection(x, y float64) GeoCoordinates {
	result := GeoCoordinates{}
	result.Lon = (x - 0.5) * 360
	y2 := (180 - y*360) * math.Pi / 180.0
	result.Lat = 360*math.Atan(math.Exp(y2))/math.Pi - 90
	return result
}

//next power of ten, if we have 78 points all clusters ids will start from 100
//if we have 986 points, all clusters ids will start from 1000
func idxSeed(n int) int {
	seed := 1
	for seed <= n {
		seed *= 10
	}
	return seed
}

func nodesToPoints(nodes []*node) []kdbush.Point {
	result := make([]kdbush.Point, len(nodes))
	for i, v := range nodes {
		result[i] = v
	}
	return result
}

func round(val float64) int {
	if val < 0 {
		return int(val - 0.5)
	}
	return int(val + 0.5)
}
