// Command build ingests a network from GeoJSON or an OSM PBF extract and
// reports the resulting graph's size and connectivity. Graph persistence
// is out of scope: there is no binary format to write here, so this tool
// exists to validate a source file and print statistics before pointing
// cmd/server at the same input.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"georoute/pkg/geo"
	"georoute/pkg/geojson"
	"georoute/pkg/graph"
	"georoute/pkg/osmnet"
	"georoute/pkg/routing"
)

func main() {
	geojsonPath := flag.String("geojson", "", "Path to a GeoJSON FeatureCollection of LineStrings")
	osmPath := flag.String("osm-pbf", "", "Path to an OSM PBF extract")
	bbox := flag.String("bbox", "", "OSM bounding box filter: minLat,minLng,maxLat,maxLng")
	singapore := flag.Bool("singapore", false, "Shortcut for --bbox 1.15,103.6,1.48,104.1 (Singapore bounding box)")
	kl := flag.Bool("kl", false, "Shortcut for --bbox 2.75,101.2,3.5,102.0 (Selangor + Kuala Lumpur bounding box)")
	flag.Parse()

	if *geojsonPath == "" && *osmPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: build --geojson <file.geojson> | --osm-pbf <file.osm.pbf> [--singapore | --kl | --bbox minLat,minLng,maxLat,maxLng]")
		os.Exit(1)
	}

	bboxFlag := *bbox
	if *kl {
		bboxFlag = "2.75,101.2,3.5,102.0"
		log.Println("Using Selangor + KL bounding box filter")
	} else if *singapore {
		bboxFlag = "1.15,103.6,1.48,104.1"
		log.Println("Using Singapore bounding box filter")
	}

	start := time.Now()

	polylines, err := ingest(*geojsonPath, *osmPath, bboxFlag)
	if err != nil {
		log.Fatalf("Failed to ingest network: %v", err)
	}
	log.Printf("Ingested %d polylines", len(polylines))

	router := routing.NewRouter(routing.Config{DistanceFunc: geo.HaversineCoord})
	router.BuildRouteGraph(polylines)
	g := router.Graph()

	var numEdges int
	for u := uint32(0); u < g.NumNodes(); u++ {
		numEdges += g.Degree(u)
	}

	largest := graph.LargestComponent(g)
	pct := 0.0
	if g.NumNodes() > 0 {
		pct = float64(len(largest)) / float64(g.NumNodes()) * 100
	}

	log.Printf("Graph: %d nodes, %d directed edges", g.NumNodes(), numEdges)
	log.Printf("Largest connected component: %d nodes (%.1f%%)", len(largest), pct)
	log.Printf("Done in %s", time.Since(start).Round(time.Millisecond))
}

func ingest(geojsonPath, osmPath, bboxFlag string) ([][]graph.Coordinate, error) {
	if geojsonPath != "" {
		f, err := os.Open(geojsonPath)
		if err != nil {
			return nil, fmt.Errorf("open geojson: %w", err)
		}
		defer f.Close()
		return geojson.Parse(f)
	}

	f, err := os.Open(osmPath)
	if err != nil {
		return nil, fmt.Errorf("open osm pbf: %w", err)
	}
	defer f.Close()

	var opts osmnet.ParseOptions
	if bboxFlag != "" {
		var minLat, minLng, maxLat, maxLng float64
		if _, err := fmt.Sscanf(bboxFlag, "%f,%f,%f,%f", &minLat, &minLng, &maxLat, &maxLng); err != nil {
			return nil, fmt.Errorf("invalid bbox (expected minLat,minLng,maxLat,maxLng): %w", err)
		}
		opts.BBox = osmnet.BBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}
	}

	result, err := osmnet.Parse(context.Background(), f, opts)
	if err != nil {
		return nil, fmt.Errorf("parse osm pbf: %w", err)
	}
	return result.Polylines, nil
}
