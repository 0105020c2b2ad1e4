// Package geojson reads GeoJSON feature collections into the undirected
// polylines the router's BuildRouteGraph/ExpandRouteGraph expect. Every
// LineString or MultiLineString geometry contributes one polyline per
// line; other geometry types are skipped rather than rejected, matching
// the router's "invalid input is ignored at the segment level" policy.
package geojson

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"georoute/pkg/graph"
)

// Parse reads a GeoJSON FeatureCollection and returns one polyline per
// LineString (and per line of a MultiLineString).
func Parse(r io.Reader) ([][]graph.Coordinate, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("geojson: read: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("geojson: decode: %w", err)
	}

	var polylines [][]graph.Coordinate
	for _, feature := range fc.Features {
		polylines = append(polylines, linesFromGeometry(feature.Geometry)...)
	}
	return polylines, nil
}

func linesFromGeometry(g orb.Geometry) [][]graph.Coordinate {
	switch geom := g.(type) {
	case orb.LineString:
		return [][]graph.Coordinate{fromLineString(geom)}
	case orb.MultiLineString:
		lines := make([][]graph.Coordinate, 0, len(geom))
		for _, ls := range geom {
			lines = append(lines, fromLineString(ls))
		}
		return lines
	default:
		return nil
	}
}

func fromLineString(ls orb.LineString) []graph.Coordinate {
	coords := make([]graph.Coordinate, len(ls))
	for i, pt := range ls {
		coords[i] = graph.Coordinate{Lng: pt[0], Lat: pt[1]}
	}
	return coords
}
