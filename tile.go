package cluster

// TilePoint is a node of the tile with pixel coordinates relative to the tile top left corner,
// X and Y are in [0..Extent] range, plus the buffer of Radius pixels around the tile.
type TilePoint struct {
	ClusterPoint
	X, Y int
}

//return points for Tile with coordinates x and y and for zoom z
//returns nil for tiles out of the tile grid
func (c *Cluster) GetTile(x, y, z int) []TilePoint {
	if z < 0 || z > MaxZoomLimit {
		return nil
	}
	z2 := 1 << uint(z)
	if x < 0 || y < 0 || x >= z2 || y >= z2 {
		return nil
	}
	nodes := c.levels[c.limitZoom(z)-c.opts.MinZoom]
	if len(nodes) == 0 {
		return nil
	}
	index := c.indexes[c.limitZoom(z)-c.opts.MinZoom]

	z2f := float64(z2)
	p := c.opts.Radius / float64(c.opts.Extent)
	top := (float64(y) - p) / z2f
	bottom := (float64(y) + 1 + p) / z2f

	resultIds := index.Range((float64(x)-p)/z2f, top, (float64(x)+1+p)/z2f, bottom)
	result := c.toTilePoints(nil, resultIds, nodes, float64(x), float64(y), z2f)

	//points from the other side of the antimeridian, shifted by the world width
	if x == 0 {
		resultIds = index.Range(1-p/z2f, top, 1, bottom)
		result = c.toTilePoints(result, resultIds, nodes, z2f, float64(y), z2f)
	}
	if x == z2-1 {
		resultIds = index.Range(0, top, p/z2f, bottom)
		result = c.toTilePoints(result, resultIds, nodes, -1, float64(y), z2f)
	}
	return result
}

//calc node mercator projection regarding tile
func (c *Cluster) toTilePoints(result []TilePoint, ids []int, nodes []*node, x, y, z2 float64) []TilePoint {
	extent := float64(c.opts.Extent)
	for _, id := range ids {
		n := nodes[id]
		result = append(result, TilePoint{
			ClusterPoint: n.clusterPoint(),
			X:            round(extent * (n.X*z2 - x)),
			Y:            round(extent * (n.Y*z2 - y)),
		})
	}
	return result
}
