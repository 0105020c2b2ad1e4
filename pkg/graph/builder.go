package graph

import "math"

// finite reports whether both fields of c are ordinary numbers (not
// NaN or ±Inf); segments touching a non-finite coordinate are skipped.
func finite(c Coordinate) bool {
	return !math.IsNaN(c.Lng) && !math.IsInf(c.Lng, 0) && !math.IsNaN(c.Lat) && !math.IsInf(c.Lat, 0)
}

// segment is a pair of already-interned node indices, kept around
// between Build's two passes so pass 2 can re-walk them in the exact
// order they were first seen (the router's neighbor-iteration order
// is defined by this insertion order).
type segment struct {
	u, v uint32
}

// Build resets the graph and constructs a fresh CSR adjacency from
// polylines. Polylines shorter than two coordinates are ignored, as are
// segments with a NaN or infinite endpoint. Consecutive duplicate coordinates within a polyline are kept as
// zero-weight self-edges; they never win a relaxation but are valid
// CSR entries.
func (g *Graph) Build(polylines [][]Coordinate) {
	g.coords = g.coords[:0]
	g.index = make(map[Coordinate]uint32)
	g.overlay = make(map[uint32][]OverlayEdge)
	g.offsets = nil
	g.neighbors = nil
	g.weights = nil
	g.csrNodes = 0
	g.built = false

	var segs []segment
	for _, line := range polylines {
		if len(line) < 2 {
			continue
		}
		for i := 0; i+1 < len(line); i++ {
			if !finite(line[i]) || !finite(line[i+1]) {
				continue
			}
			u := g.Intern(line[i])
			v := g.Intern(line[i+1])
			segs = append(segs, segment{u, v})
		}
	}

	n := uint32(len(g.coords))
	degree := make([]uint32, n)
	for _, s := range segs {
		degree[s.u]++
		degree[s.v]++
	}

	offsets := make([]uint32, n+1)
	for i := uint32(0); i < n; i++ {
		offsets[i+1] = offsets[i] + degree[i]
	}

	neighbors := make([]uint32, offsets[n])
	weights := make([]float64, offsets[n])
	cursor := make([]uint32, n)
	copy(cursor, offsets[:n])

	for _, s := range segs {
		w := g.dist(g.coords[s.u], g.coords[s.v])

		neighbors[cursor[s.u]] = s.v
		weights[cursor[s.u]] = w
		cursor[s.u]++

		neighbors[cursor[s.v]] = s.u
		weights[cursor[s.v]] = w
		cursor[s.v]++
	}

	g.offsets = offsets
	g.neighbors = neighbors
	g.weights = weights
	g.csrNodes = n
	g.built = true
}

// Expand merges additional polylines into an already-built graph: new
// coordinates are interned, new segments land in the sparse overlay,
// and the CSR is then fully rebuilt from the union of the old CSR and
// the overlay so subsequent queries never need to consult the overlay
// for nodes the rebuild has already absorbed.
func (g *Graph) Expand(polylines [][]Coordinate) error {
	if !g.built {
		return ErrNotBuilt
	}

	for _, line := range polylines {
		if len(line) < 2 {
			continue
		}
		for i := 0; i+1 < len(line); i++ {
			a, b := line[i], line[i+1]
			if !finite(a) || !finite(b) {
				continue
			}
			u := g.Intern(a)
			v := g.Intern(b)
			w := g.dist(a, b)
			g.overlay[u] = append(g.overlay[u], OverlayEdge{Neighbor: v, Weight: w})
			g.overlay[v] = append(g.overlay[v], OverlayEdge{Neighbor: u, Weight: w})
		}
	}

	g.rebuildFromOverlay()
	return nil
}

// rebuildFromOverlay implements the four-step CSR rebuild from §4.2:
// sum degrees from the existing CSR and the overlay, allocate new
// arrays, copy existing entries then append overlay entries (per
// node, each in its original relative order), and clear the overlay.
func (g *Graph) rebuildFromOverlay() {
	n := uint32(len(g.coords))

	degree := make([]uint32, n)
	for u := uint32(0); u < g.csrNodes; u++ {
		degree[u] += g.offsets[u+1] - g.offsets[u]
	}
	for u, edges := range g.overlay {
		degree[u] += uint32(len(edges))
	}

	offsets := make([]uint32, n+1)
	for i := uint32(0); i < n; i++ {
		offsets[i+1] = offsets[i] + degree[i]
	}

	neighbors := make([]uint32, offsets[n])
	weights := make([]float64, offsets[n])
	cursor := make([]uint32, n)
	copy(cursor, offsets[:n])

	for u := uint32(0); u < g.csrNodes; u++ {
		start, end := g.offsets[u], g.offsets[u+1]
		for e := start; e < end; e++ {
			idx := cursor[u]
			neighbors[idx] = g.neighbors[e]
			weights[idx] = g.weights[e]
			cursor[u]++
		}
	}
	for u, edges := range g.overlay {
		for _, oe := range edges {
			idx := cursor[u]
			neighbors[idx] = oe.Neighbor
			weights[idx] = oe.Weight
			cursor[u]++
		}
	}

	g.offsets = offsets
	g.neighbors = neighbors
	g.weights = weights
	g.csrNodes = n
	g.overlay = make(map[uint32][]OverlayEdge)
}
