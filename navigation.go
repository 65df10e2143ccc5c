package cluster

import (
	"fmt"

	"github.com/MadAppGang/kdbush"
)

// Children returns nodes the cluster was made of, one zoom level deeper than the cluster was created at
func (c *Cluster) Children(clusterID int) ([]ClusterPoint, error) {
	parent, ok := c.clusters[clusterID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrClusterNotFound, clusterID)
	}
	children := c.children(parent)
	result := make([]ClusterPoint, len(children))
	for i, n := range children {
		result[i] = n.clusterPoint()
	}
	return result, nil
}

func (c *Cluster) children(parent *node) []*node {
	level := parent.level + 1
	nodes := c.levels[level-c.opts.MinZoom]
	index := c.indexes[level-c.opts.MinZoom]

	//children are within radius from the seed node, and the centroid is within radius from the seed too
	r := 2 * c.radius(parent.level) * (1 + 1e-9)
	ids := index.Within(&kdbush.SimplePoint{X: parent.X, Y: parent.Y}, r)
	var result []*node
	for _, id := range ids {
		if nodes[id].parentID == parent.id {
			result = append(result, nodes[id])
		}
	}
	return result
}

// Leaves returns single points of the cluster, paginated with limit and offset.
// Limit <= 0 returns all the points after offset.
func (c *Cluster) Leaves(clusterID, limit, offset int) ([]ClusterPoint, error) {
	parent, ok := c.clusters[clusterID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrClusterNotFound, clusterID)
	}
	if offset < 0 {
		offset = 0
	}
	result, _ := c.appendLeaves(nil, parent, limit, offset, 0)
	if result == nil {
		result = []ClusterPoint{}
	}
	return result, nil
}

func (c *Cluster) appendLeaves(result []ClusterPoint, parent *node, limit, offset, skipped int) ([]ClusterPoint, int) {
	for _, child := range c.children(parent) {
		if child.numPoints > 1 {
			if skipped+child.numPoints <= offset {
				//skip the whole cluster
				skipped += child.numPoints
			} else {
				result, skipped = c.appendLeaves(result, child, limit, offset, skipped)
			}
		} else if skipped < offset {
			skipped++
		} else {
			result = append(result, child.clusterPoint())
		}
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, skipped
}

// ExpansionZoom returns the zoom level on which the cluster splits into its children
func (c *Cluster) ExpansionZoom(clusterID int) (int, error) {
	parent, ok := c.clusters[clusterID]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrClusterNotFound, clusterID)
	}
	return parent.level + 1, nil
}
