package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	cluster "github.com/MadAppGang/geocluster"
	"github.com/MadAppGang/geocluster/internal/source"
	"github.com/paulmach/orb"
)

const maxPrinted = 20

//camera stops of a flight from the whole world down to San Francisco
var flight = []struct {
	bbox cluster.BoundingBox
	zoom int
}{
	{cluster.WorldBounds, 0},
	{cluster.BoundingBox{West: -130, South: 30, East: -110, North: 45}, 4},
	{cluster.BoundingBox{West: -122.6445, South: 37.1897, East: -121.5871, North: 38.2033}, 9},
	{cluster.BoundingBox{West: -122.52, South: 37.70, East: -122.35, North: 37.82}, 12},
	//and back over the Pacific, across the antimeridian
	{cluster.BoundingBox{West: 170, South: -30, East: -170, North: 70}, 2},
}

func main() {
	data := flag.String("data", "", "GeoJSON file with points, random bay area points if empty")
	count := flag.Int("random", 100000, "number of random points")
	seed := flag.Int64("seed", 1, "seed of random points")
	dump := flag.Bool("json", false, "print every result as GeoJSON")
	flag.Parse()

	var loader source.Loader = &source.Random{
		Count: *count,
		Seed:  *seed,
		Bound: orb.Bound{Min: orb.Point{-122.6445, 37.1897}, Max: orb.Point{-121.5871, 38.2033}},
	}
	if *data != "" {
		loader = &source.GeoJSONFile{Path: *data}
	}

	points, err := loader.Load(context.Background())
	if err != nil {
		log.Fatalf("failed to load points: %v", err)
	}

	c, err := cluster.NewCluster(points, cluster.DefaultOptions())
	if err != nil {
		log.Fatalf("failed to build index: %v", err)
	}
	fmt.Printf("indexed %d points\n", c.Len())

	viewport := cluster.NewViewport(c)
	var markers []cluster.Marker
	for _, stop := range flight {
		diff, err := viewport.Update(markers, stop.bbox, stop.zoom)
		if err != nil {
			log.Fatalf("failed to update viewport: %v", err)
		}
		markers = diff.Apply(markers)

		fmt.Printf("\nzoom %d %+v: remove %d, add %d, displayed %d\n",
			stop.zoom, stop.bbox, len(diff.Remove), len(diff.Add), len(markers))
		for i, cp := range diff.Add {
			if i == maxPrinted {
				fmt.Printf("  ... and %d more\n", len(diff.Add)-maxPrinted)
				break
			}
			label := "point"
			if cp.IsCluster() {
				label = cluster.FormatCount(cp.NumPoints)
			}
			fmt.Printf("  + %-6s %.5f,%.5f\n", label, cp.Coordinates.Lon, cp.Coordinates.Lat)
		}

		if *dump {
			resultJSON, _ := json.MarshalIndent(c.FeatureCollection(diff.Add), "", "  ")
			fmt.Fprintln(os.Stdout, string(resultJSON))
		}
	}
}
