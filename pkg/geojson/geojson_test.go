package geojson

import (
	"strings"
	"testing"
)

func TestParseLineString(t *testing.T) {
	const doc = `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {}, "geometry":
				{"type": "LineString", "coordinates": [[103.8, 1.3], [103.85, 1.35]]}}
		]
	}`

	lines, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lines) != 1 || len(lines[0]) != 2 {
		t.Fatalf("got %v, want one 2-point polyline", lines)
	}
	if lines[0][0].Lng != 103.8 || lines[0][0].Lat != 1.3 {
		t.Errorf("first point = %+v, want (103.8, 1.3)", lines[0][0])
	}
}

func TestParseMultiLineString(t *testing.T) {
	const doc = `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {}, "geometry":
				{"type": "MultiLineString", "coordinates": [
					[[0,0],[1,0]],
					[[1,0],[1,1]]
				]}}
		]
	}`

	lines, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d polylines, want 2", len(lines))
	}
}

func TestParseSkipsNonLineGeometry(t *testing.T) {
	const doc = `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {}, "geometry":
				{"type": "Point", "coordinates": [103.8, 1.3]}}
		]
	}`

	lines, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("got %d polylines, want 0 (Point geometry should be skipped)", len(lines))
	}
}

func TestParseInvalidJSON(t *testing.T) {
	_, err := Parse(strings.NewReader("not json"))
	if err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}
