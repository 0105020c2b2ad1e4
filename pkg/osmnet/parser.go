// Package osmnet reads OSM PBF extracts into the undirected polylines
// the router's BuildRouteGraph/ExpandRouteGraph expect. Adapted from a
// directed, oneway-aware parser: since directed edges and turn
// restrictions are explicit non-goals here, every accepted way
// contributes its polyline once, regardless of its oneway/junction tags.
package osmnet

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"georoute/pkg/graph"
)

// carHighways lists highway tag values accessible by car.
var carHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

// isCarAccessible returns true if the way is drivable by car.
func isCarAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !carHighways[hw] {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	// Skip restricted access.
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("motor_vehicle") == "no" {
		return false
	}

	return true
}

// BBox defines a geographic bounding box for filtering.
// If non-zero, only nodes inside the box contribute to polylines.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	BBox BBox // if non-zero, filter to nodes inside this bounding box
}

// ParseResult holds the polylines extracted from an OSM PBF file, ready
// for graph.Graph.Build/Expand.
type ParseResult struct {
	Polylines [][]graph.Coordinate
}

// Parse reads an OSM PBF file and returns undirected polylines for car
// routing. The reader is consumed twice (seeks back to start for the
// second pass), so it must implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, opts ...ParseOptions) (*ParseResult, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	useBBox := !opt.BBox.IsZero()

	// Pass 1: scan ways to collect referenced node IDs and way node lists.
	referencedNodes := make(map[osm.NodeID]struct{})
	var ways [][]osm.NodeID

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		w, ok := obj.(*osm.Way)
		if !ok {
			continue
		}
		if !isCarAccessible(w.Tags) || len(w.Nodes) < 2 {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referencedNodes[wn.ID] = struct{}{}
		}
		ways = append(ways, nodeIDs)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Printf("osmnet: pass 1 complete, %d ways, %d referenced nodes", len(ways), len(referencedNodes))

	// Pass 2: scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	coords := make(map[osm.NodeID]graph.Coordinate, len(referencedNodes))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		n, ok := obj.(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		if useBBox && !opt.BBox.Contains(n.Lat, n.Lon) {
			continue
		}
		coords[n.ID] = graph.Coordinate{Lng: n.Lon, Lat: n.Lat}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	log.Printf("osmnet: pass 2 complete, %d node coordinates collected", len(coords))

	// Build polylines from ways, splitting at any node whose coordinate
	// is missing (outside the bbox, or absent from the PBF).
	var polylines [][]graph.Coordinate
	var skippedNodes int

	for _, nodeIDs := range ways {
		var cur []graph.Coordinate
		for _, id := range nodeIDs {
			coord, ok := coords[id]
			if !ok {
				skippedNodes++
				if len(cur) >= 2 {
					polylines = append(polylines, cur)
				}
				cur = nil
				continue
			}
			cur = append(cur, coord)
		}
		if len(cur) >= 2 {
			polylines = append(polylines, cur)
		}
	}

	if skippedNodes > 0 {
		log.Printf("osmnet: skipped %d way nodes with no usable coordinate", skippedNodes)
	}
	log.Printf("osmnet: built %d polylines", len(polylines))

	return &ParseResult{Polylines: polylines}, nil
}
