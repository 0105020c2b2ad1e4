// Command bench measures GetRoute query latency across the four
// priority-queue variants on the same network, picking random node
// pairs as query endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	"georoute/pkg/geo"
	"georoute/pkg/geojson"
	"georoute/pkg/graph"
	"georoute/pkg/osmnet"
	"georoute/pkg/pq"
	"georoute/pkg/routing"
)

func main() {
	geojsonPath := flag.String("geojson", "", "Path to a GeoJSON FeatureCollection of LineStrings")
	osmPath := flag.String("osm-pbf", "", "Path to an OSM PBF extract")
	bbox := flag.String("bbox", "", "OSM bounding box filter: minLat,minLng,maxLat,maxLng")
	seed := flag.Int64("seed", 1, "random seed for query endpoint selection")
	numQueries := flag.Int("queries", 200, "number of random queries per heap variant")
	flag.Parse()

	if *geojsonPath == "" && *osmPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: bench --geojson <file> | --osm-pbf <file> [--queries 200] [--seed 1]")
		os.Exit(1)
	}

	polylines, err := ingest(*geojsonPath, *osmPath, *bbox)
	if err != nil {
		log.Fatalf("Failed to ingest network: %v", err)
	}

	baseGraph := graph.New(geo.HaversineCoord)
	baseGraph.Build(polylines)
	n := baseGraph.NumNodes()
	if n < 2 {
		log.Fatalf("network has %d nodes, need at least 2 to benchmark", n)
	}
	log.Printf("Network: %d nodes", n)

	rng := rand.New(rand.NewSource(*seed))
	pairs := make([][2]graph.Coordinate, *numQueries)
	for i := range pairs {
		pairs[i] = [2]graph.Coordinate{
			baseGraph.Coord(uint32(rng.Intn(int(n)))),
			baseGraph.Coord(uint32(rng.Intn(int(n)))),
		}
	}

	variants := []struct {
		name    string
		factory pq.Factory
	}{
		{"binary", func() pq.Interface { return pq.NewBinary() }},
		{"quad", func() pq.Interface { return pq.NewQuad() }},
		{"fibonacci", func() pq.Interface { return pq.NewFibonacci() }},
		{"pairing", func() pq.Interface { return pq.NewPairing() }},
	}

	for _, v := range variants {
		router := routing.NewRouter(routing.Config{DistanceFunc: geo.HaversineCoord, HeapFactory: v.factory})
		router.BuildRouteGraph(polylines)

		durations := make([]time.Duration, 0, len(pairs))
		found := 0
		ctx := context.Background()
		for _, p := range pairs {
			t0 := time.Now()
			_, err := router.GetRoute(ctx, p[0], p[1])
			durations = append(durations, time.Since(t0))
			if err == nil {
				found++
			}
		}

		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		p50 := durations[len(durations)/2]
		p99 := durations[len(durations)*99/100]
		log.Printf("%-10s routes_found=%d/%d p50=%s p99=%s max=%s",
			v.name, found, len(pairs), p50, p99, durations[len(durations)-1])
	}
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
