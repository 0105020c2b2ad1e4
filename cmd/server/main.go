package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"georoute/pkg/api"
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
	heapKind := flag.String("heap", "quad", "Priority queue variant: binary, quad, fibonacci, pairing")
	distKind := flag.String("dist", "haversine", "Edge-weight function: haversine, equirectangular")
	port := flag.Int("port", 8080, "HTTP port")
	corsOrigin := flag.String("cors-origin", "", "CORS allowed origin (empty = same-origin)")
	flag.Parse()

	if *geojsonPath == "" && *osmPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: server --geojson <file.geojson> | --osm-pbf <file.osm.pbf> [--bbox minLat,minLng,maxLat,maxLng] [--heap binary|quad|fibonacci|pairing] [--dist haversine|equirectangular] [--port 8080]")
		os.Exit(1)
	}

	factory, err := heapFactory(*heapKind)
	if err != nil {
		log.Fatalf("Failed to configure: %v", err)
	}
	distFunc, err := distanceFunc(*distKind)
	if err != nil {
		log.Fatalf("Failed to configure: %v", err)
	}

	start := time.Now()

	polylines, err := ingest(*geojsonPath, *osmPath, *bbox)
	if err != nil {
		log.Fatalf("Failed to ingest network: %v", err)
	}
	log.Printf("Ingested %d polylines", len(polylines))

	router := routing.NewRouter(routing.Config{DistanceFunc: distFunc, HeapFactory: factory})
	router.BuildRouteGraph(polylines)

	g := router.Graph()
	largest := graph.LargestComponent(g)
	log.Printf("Graph: %d nodes; largest connected component: %d nodes (%.1f%%)",
		g.NumNodes(), len(largest), float64(len(largest))/float64(max(1, g.NumNodes()))*100)

	log.Printf("Ready in %s", time.Since(start).Round(time.Millisecond))

	addr := fmt.Sprintf(":%d", *port)
	cfg := api.DefaultConfig(addr)
	cfg.CORSOrigin = *corsOrigin

	handlers := api.NewHandlers(router)
	srv := api.NewServer(cfg, handlers)

	if err := api.ListenAndServe(srv); err != nil {
		log.Printf("Server stopped: %v", err)
		os.Exit(1)
	}
}

// ingest loads a network from whichever source flag was given. GeoJSON
// and OSM PBF are mutually exclusive; the bbox flag only applies to OSM.
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

func heapFactory(kind string) (pq.Factory, error) {
	switch kind {
	case "binary":
		return func() pq.Interface { return pq.NewBinary() }, nil
	case "quad":
		return func() pq.Interface { return pq.NewQuad() }, nil
	case "fibonacci":
		return func() pq.Interface { return pq.NewFibonacci() }, nil
	case "pairing":
		return func() pq.Interface { return pq.NewPairing() }, nil
	default:
		return nil, fmt.Errorf("unknown heap variant %q", kind)
	}
}

func distanceFunc(kind string) (graph.DistanceFunc, error) {
	switch kind {
	case "haversine":
		return geo.HaversineCoord, nil
	case "equirectangular":
		return geo.EquirectangularCoord, nil
	default:
		return nil, fmt.Errorf("unknown distance function %q", kind)
	}
}

func max(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
