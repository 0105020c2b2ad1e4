// Command inspect answers "which network nodes are near this point"
// queries against a built graph, for debugging data quality and
// checking why a GetRoute query might fail. It is a read-only, offline
// companion to cmd/server: GetRoute itself never consults a spatial
// index, since the router works on exact interned coordinates only.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/tidwall/geoindex"
	"github.com/tidwall/rtree"

	"georoute/pkg/geo"
	"georoute/pkg/geojson"
	"georoute/pkg/graph"
	"georoute/pkg/osmnet"
)

// nodeItem adapts a network node to geoindex.Item, a degenerate
// (point) rectangle at the node's coordinate.
type nodeItem struct {
	idx uint32
	lng float64
	lat float64
}

func (n nodeItem) Rect(ctx interface{}) (min, max [2]float64) {
	pt := [2]float64{n.lng, n.lat}
	return pt, pt
}

func main() {
	geojsonPath := flag.String("geojson", "", "Path to a GeoJSON FeatureCollection of LineStrings")
	osmPath := flag.String("osm-pbf", "", "Path to an OSM PBF extract")
	bbox := flag.String("bbox", "", "OSM bounding box filter: minLat,minLng,maxLat,maxLng")
	lat := flag.Float64("lat", 0, "Query latitude")
	lng := flag.Float64("lng", 0, "Query longitude")
	radiusKm := flag.Float64("radius-km", 0, "Find every node within this many kilometers (box search via rtree)")
	k := flag.Int("k", 5, "Find the k nearest nodes (via geoindex.Nearby)")
	flag.Parse()

	if *geojsonPath == "" && *osmPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: inspect --geojson <file> | --osm-pbf <file> --lat <lat> --lng <lng> [--radius-km 0.5] [--k 5]")
		os.Exit(1)
	}

	polylines, err := ingest(*geojsonPath, *osmPath, *bbox)
	if err != nil {
		log.Fatalf("Failed to ingest network: %v", err)
	}

	g := graph.New(geo.HaversineCoord)
	g.Build(polylines)
	log.Printf("Indexed %d nodes", g.NumNodes())

	var tr rtree.RTree
	var ix geoindex.PointIndex
	for i := uint32(0); i < g.NumNodes(); i++ {
		c := g.Coord(i)
		pt := [2]float64{c.Lng, c.Lat}
		tr.Insert(pt, pt, i)
		ix.Insert(nodeItem{idx: i, lng: c.Lng, lat: c.Lat})
	}

	if *radiusKm > 0 {
		reportRadius(&tr, g, *lat, *lng, *radiusKm)
	}
	reportNearest(&ix, g, *lat, *lng, *k)
}

// reportRadius scans the rtree for every node inside a degree bounding
// box approximating radiusKm, then filters and sorts by true distance.
func reportRadius(tr *rtree.RTree, g *graph.Graph, lat, lng, radiusKm float64) {
	degPad := radiusKm / 111.0
	min := [2]float64{lng - degPad, lat - degPad}
	max := [2]float64{lng + degPad, lat + degPad}

	type hit struct {
		idx  uint32
		dist float64
	}
	var hits []hit
	target := graph.Coordinate{Lng: lng, Lat: lat}

	tr.Search(min, max, func(_, _ [2]float64, data interface{}) bool {
		idx := data.(uint32)
		d := geo.HaversineCoord(target, g.Coord(idx))
		if d <= radiusKm {
			hits = append(hits, hit{idx, d})
		}
		return true
	})
	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	fmt.Printf("Within %.3f km of (%.6f, %.6f): %d nodes\n", radiusKm, lat, lng, len(hits))
	for _, h := range hits {
		c := g.Coord(h.idx)
		fmt.Printf("  node %d at (%.6f, %.6f), %.4f km\n", h.idx, c.Lat, c.Lng, h.dist)
	}
}

// reportNearest walks the geoindex in nearest-first order and prints
// the first k results.
func reportNearest(ix *geoindex.PointIndex, g *graph.Graph, lat, lng float64, k int) {
	target := nodeItem{lng: lng, lat: lat}
	queryCoord := graph.Coordinate{Lng: lng, Lat: lat}

	fmt.Printf("Nearest %d nodes to (%.6f, %.6f):\n", k, lat, lng)
	found := 0
	ix.Nearby(target, func(item geoindex.Item, dist float64) bool {
		if found >= k {
			return false
		}
		ni := item.(nodeItem)
		c := g.Coord(ni.idx)
		fmt.Printf("  node %d at (%.6f, %.6f), %.4f km\n", ni.idx, c.Lat, c.Lng, geo.HaversineCoord(queryCoord, c))
		found++
		return true
	})
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
