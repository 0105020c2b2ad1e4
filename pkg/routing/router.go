// Package routing implements the bidirectional Dijkstra search driver
// over a graph.Graph: scratch buffers, predecessor/successor tracking,
// and the peek-based termination rule that makes bidirectional search
// sound with an arbitrary PQ implementation.
package routing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"georoute/pkg/geo"
	"georoute/pkg/graph"
	"georoute/pkg/pq"
)

// ErrNotBuilt is returned by GetRoute and ExpandRouteGraph when
// BuildRouteGraph has never been called.
var ErrNotBuilt = errors.New("routing: graph not built")

// ErrNoRoute is returned when start and end are not connected, or are
// the same point, or path reconstruction finds an inconsistent state.
// A search stopped by its context also returns ErrNoRoute, wrapped
// together with ctx.Err() so both match under errors.Is.
var ErrNoRoute = errors.New("routing: no route found")

// cancelCheckInterval is how often, in main-loop iterations (queue
// extractions), GetRoute polls the context for cancellation — matching
// the host's HTTP-handler timeout convention without blocking the
// search hot path.
const cancelCheckInterval = 256

// Path is a successful GetRoute result: the coordinate sequence from
// start to end, and its total cost under the router's DistanceFunc.
type Path struct {
	Coordinates []graph.Coordinate
	Cost        float64
}

// Config selects the router's edge-weight function and priority queue
// implementation. Zero-value fields fall back to DefaultConfig's choices.
type Config struct {
	DistanceFunc graph.DistanceFunc
	HeapFactory  pq.Factory
}

// DefaultConfig returns great-circle distance (haversine, kilometers)
// and the 4-ary heap, the engine's defaults.
func DefaultConfig() Config {
	return Config{
		DistanceFunc: geo.HaversineCoord,
		HeapFactory:  func() pq.Interface { return pq.NewQuad() },
	}
}

// Router owns a graph and the scratch state a bidirectional query
// needs. It is not safe for concurrent GetRoute calls; build one
// Router per goroutine that needs to query concurrently.
type Router struct {
	cfg Config
	g   *graph.Graph

	openForward pq.Interface
	openReverse pq.Interface

	scratch scratch
}

// NewRouter returns an unbuilt Router. Call BuildRouteGraph before GetRoute.
func NewRouter(cfg Config) *Router {
	if cfg.DistanceFunc == nil {
		cfg.DistanceFunc = geo.HaversineCoord
	}
	if cfg.HeapFactory == nil {
		cfg.HeapFactory = func() pq.Interface { return pq.NewQuad() }
	}
	return &Router{
		cfg:         cfg,
		g:           graph.New(cfg.DistanceFunc),
		openForward: cfg.HeapFactory(),
		openReverse: cfg.HeapFactory(),
	}
}

// BuildRouteGraph resets the router's graph and builds a fresh CSR
// adjacency from polylines.
func (r *Router) BuildRouteGraph(polylines [][]graph.Coordinate) {
	r.g.Build(polylines)
	r.scratch.grow(r.g.NumNodes())
}

// ExpandRouteGraph merges additional polylines into the existing graph.
func (r *Router) ExpandRouteGraph(polylines [][]graph.Coordinate) error {
	if err := r.g.Expand(polylines); err != nil {
		return ErrNotBuilt
	}
	r.scratch.grow(r.g.NumNodes())
	return nil
}

// GetRoute runs bidirectional Dijkstra between start and end, returning
// the shortest polyline connecting them under the router's DistanceFunc.
func (r *Router) GetRoute(ctx context.Context, start, end graph.Coordinate) (*Path, error) {
	if !r.g.Built() {
		return nil, ErrNotBuilt
	}

	startIdx := r.g.Intern(start)
	endIdx := r.g.Intern(end)
	if startIdx == endIdx {
		return nil, ErrNoRoute
	}

	n := r.g.NumNodes()
	r.scratch.grow(n)
	r.scratch.reset(n)
	r.openForward.Clear()
	r.openReverse.Clear()

	gF := r.scratch.gForward
	gR := r.scratch.gReverse
	prevF := r.scratch.prevForward
	nextR := r.scratch.nextReverse
	visF := r.scratch.visitedForward
	visR := r.scratch.visitedReverse

	gF[startIdx] = 0
	gR[endIdx] = 0
	r.openForward.Insert(0, startIdx)
	r.openReverse.Insert(0, endIdx)

	best := math.Inf(1)
	meeting := int32(-1)

	relax := 0
	for r.openForward.Size() > 0 && r.openReverse.Size() > 0 {
		relax++
		if relax%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrNoRoute, err)
			}
		}

		if meeting >= 0 && r.openForward.PeekMinKey()+r.openReverse.PeekMinKey() >= best {
			break
		}

		sizeF := r.openForward.Size()
		sizeR := r.openReverse.Size()
		var forward bool
		switch {
		case sizeF == 0:
			forward = false
		case sizeR == 0:
			forward = true
		default:
			forward = sizeF <= sizeR
		}

		if forward {
			u, ok := r.openForward.ExtractMin()
			if !ok {
				continue
			}
			if visF[u] != 0 {
				continue
			}
			visF[u] = 1

			if visR[u] != 0 {
				if total := gF[u] + gR[u]; total < best {
					best = total
					meeting = int32(u)
				}
			}

			r.g.ForEachNeighbor(u, func(v uint32, w float64) {
				tentative := gF[u] + w
				if tentative < gF[v] {
					gF[v] = tentative
					prevF[v] = int32(u)
					if !math.IsInf(gR[v], 1) {
						if total := tentative + gR[v]; total < best {
							best = total
							meeting = int32(v)
						}
					}
					r.openForward.Insert(tentative, v)
				}
			})
		} else {
			u, ok := r.openReverse.ExtractMin()
			if !ok {
				continue
			}
			if visR[u] != 0 {
				continue
			}
			visR[u] = 1

			if visF[u] != 0 {
				if total := gF[u] + gR[u]; total < best {
					best = total
					meeting = int32(u)
				}
			}

			r.g.ForEachNeighbor(u, func(v uint32, w float64) {
				tentative := gR[u] + w
				if tentative < gR[v] {
					gR[v] = tentative
					nextR[v] = int32(u)
					if !math.IsInf(gF[v], 1) {
						if total := tentative + gF[v]; total < best {
							best = total
							meeting = int32(v)
						}
					}
					r.openReverse.Insert(tentative, v)
				}
			})
		}
	}

	if meeting < 0 {
		return nil, ErrNoRoute
	}

	return r.reconstruct(startIdx, endIdx, uint32(meeting), best)
}

// reconstruct walks prev_forward from meeting back to start, then
// next_reverse from meeting forward to end, per §4.3's two-walk rule.
func (r *Router) reconstruct(startIdx, endIdx, meeting uint32, best float64) (*Path, error) {
	prevF := r.scratch.prevForward
	nextR := r.scratch.nextReverse

	fwd := []uint32{meeting}
	node := int32(meeting)
	for uint32(node) != startIdx {
		node = prevF[node]
		if node < 0 {
			return nil, ErrNoRoute
		}
		fwd = append(fwd, uint32(node))
	}
	for i, j := 0, len(fwd)-1; i < j; i, j = i+1, j-1 {
		fwd[i], fwd[j] = fwd[j], fwd[i]
	}

	node = int32(meeting)
	for uint32(node) != endIdx {
		node = nextR[node]
		if node < 0 {
			return nil, ErrNoRoute
		}
		fwd = append(fwd, uint32(node))
	}

	coords := make([]graph.Coordinate, len(fwd))
	for i, idx := range fwd {
		coords[i] = r.g.Coord(idx)
	}
	return &Path{Coordinates: coords, Cost: best}, nil
}

// Graph exposes the router's underlying graph for collaborators (stats,
// inspector) that need read access without participating in queries.
func (r *Router) Graph() *graph.Graph { return r.g }
