// MIT License
//
// Copyright (c) 2016 MadAppGang

// A very fast Golang library for geospatial point clustering and map marker updates.
//
//
// geocluster is a library for geospatial point clustering on the server side (or client side)
//
// The cluster use hierarchical greedy clustering approach.
//
// The same approach used by Dave Leaver with his fantastic Leaflet.markercluster plugin.
//
// So this approach is extremely fast, the only drawback is that all clustered points are stored in memory
//
// This library is deeply inspired by MapBox's superclaster JS library and blog post: https://www.mapbox.com/blog/supercluster/
//
// Very easy to use:
//	//1.Convert slice of your objects to slice of GeoPoint (interface) objects
//	geoPoints := make([]GeoPoint, len(points))
//	for i := range points {
//		geoPoints[i] = points[i]
//	}
//
//	//2.Build index
//	c, err := NewCluster(geoPoints, DefaultOptions())
//
//	//3.Get clusters for the visible part of the map
//	result, err := c.GetClusters(BoundingBox{West: -122.6, South: 37.1, East: -121.5, North: 38.2}, 10)
//
//	//4.Find out which markers to remove and which to add
//	diff := Reconcile(displayedMarkers, result)
//
// Every camera move is a GetClusters and Reconcile call, Viewport wraps both of them.
//
// Index is built once and never changes, so it could be built in a background goroutine
// and shared between goroutines without locks.
//
// Library uses KD-tree geospatial index https://github.com/MadAppGang/kdbush for every zoom level
//
// All ids of ClusterPoint for single points are the index of initial array of GeoPoint,
// so you could get your point by this index
//
// Clusters of points have autoincrement generated ids, started at ClusterIdxSeed
// ClusterIdxSeed is the next power of ten above length of input array
//
// For example, if input slice of points length is 78,  ClusterIdxSeed == 100,
// if input slice of points length is 991,  ClusterIdxSeed == 1000
// etc
package cluster
