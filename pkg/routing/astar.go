package routing

import (
	"context"
	"fmt"

	"georoute/pkg/graph"
)

// GetRouteAStar runs a single-ended A* search toward end, using the
// router's DistanceFunc as an admissible heuristic. It shares the
// bidirectional search's forward scratch buffers and PQ but is not
// used by GetRoute; offered for hosts that prefer one-sided search.
func (r *Router) GetRouteAStar(ctx context.Context, start, end graph.Coordinate) (*Path, error) {
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

	gScore := r.scratch.gForward
	prev := r.scratch.prevForward
	visited := r.scratch.visitedForward

	endCoord := r.g.Coord(endIdx)
	gScore[startIdx] = 0
	r.openForward.Insert(r.cfg.DistanceFunc(start, endCoord), startIdx)

	relax := 0
	for r.openForward.Size() > 0 {
		relax++
		if relax%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrNoRoute, err)
			}
		}

		u, ok := r.openForward.ExtractMin()
		if !ok {
			break
		}
		if visited[u] != 0 {
			continue
		}
		visited[u] = 1

		if u == endIdx {
			return r.reconstructSingle(startIdx, endIdx, prev, gScore[endIdx])
		}

		r.g.ForEachNeighbor(u, func(v uint32, w float64) {
			tentative := gScore[u] + w
			if tentative < gScore[v] {
				gScore[v] = tentative
				prev[v] = int32(u)
				h := r.cfg.DistanceFunc(r.g.Coord(v), endCoord)
				r.openForward.Insert(tentative+h, v)
			}
		})
	}

	return nil, ErrNoRoute
}

func (r *Router) reconstructSingle(startIdx, endIdx uint32, prev []int32, cost float64) (*Path, error) {
	nodes := []uint32{endIdx}
	node := int32(endIdx)
	for uint32(node) != startIdx {
		node = prev[node]
		if node < 0 {
			return nil, ErrNoRoute
		}
		nodes = append(nodes, uint32(node))
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}

	coords := make([]graph.Coordinate, len(nodes))
	for i, idx := range nodes {
		coords[i] = r.g.Coord(idx)
	}
	return &Path{Coordinates: coords, Cost: cost}, nil
}
