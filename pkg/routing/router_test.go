package routing

import (
	"context"
	"math"
	"testing"

	"georoute/pkg/graph"
	"georoute/pkg/pq"
)

// euclidean is the dist function used throughout these tests for
// determinism, per the literal scenarios' "dist = Euclidean on the
// plane" convention.
func euclidean(a, b graph.Coordinate) float64 {
	dx := a.Lng - b.Lng
	dy := a.Lat - b.Lat
	return math.Sqrt(dx*dx + dy*dy)
}

func c(lng, lat float64) graph.Coordinate { return graph.Coordinate{Lng: lng, Lat: lat} }

func heapFactories() map[string]pq.Factory {
	return map[string]pq.Factory{
		"binary":    func() pq.Interface { return pq.NewBinary() },
		"quad":      func() pq.Interface { return pq.NewQuad() },
		"fibonacci": func() pq.Interface { return pq.NewFibonacci() },
		"pairing":   func() pq.Interface { return pq.NewPairing() },
	}
}

func newTestRouter(heap pq.Factory) *Router {
	return NewRouter(Config{DistanceFunc: euclidean, HeapFactory: heap})
}

func assertPath(t *testing.T, got *Path, wantCoords []graph.Coordinate, wantCost float64) {
	t.Helper()
	if len(got.Coordinates) != len(wantCoords) {
		t.Fatalf("Coordinates = %v, want %v", got.Coordinates, wantCoords)
	}
	for i := range wantCoords {
		if got.Coordinates[i] != wantCoords[i] {
			t.Fatalf("Coordinates[%d] = %v, want %v", i, got.Coordinates[i], wantCoords[i])
		}
	}
	if math.Abs(got.Cost-wantCost) > 1e-9 {
		t.Fatalf("Cost = %v, want %v", got.Cost, wantCost)
	}
}

func TestGetRouteLShape(t *testing.T) {
	for name, heap := range heapFactories() {
		t.Run(name, func(t *testing.T) {
			r := newTestRouter(heap)
			r.BuildRouteGraph([][]graph.Coordinate{
				{c(0, 0), c(0, 1), c(0, 2)},
				{c(0, 1), c(1, 1)},
			})

			got, err := r.GetRoute(context.Background(), c(0, 0), c(1, 1))
			if err != nil {
				t.Fatalf("GetRoute() error = %v", err)
			}
			assertPath(t, got, []graph.Coordinate{c(0, 0), c(0, 1), c(1, 1)}, 2)
		})
	}
}

func TestGetRouteDirectVsDetour(t *testing.T) {
	for name, heap := range heapFactories() {
		t.Run(name, func(t *testing.T) {
			r := newTestRouter(heap)
			r.BuildRouteGraph([][]graph.Coordinate{
				{c(0, 0), c(1, 0), c(2, 0)},
				{c(1, 0), c(1, 1), c(2, 0)},
			})

			got, err := r.GetRoute(context.Background(), c(0, 0), c(2, 0))
			if err != nil {
				t.Fatalf("GetRoute() error = %v", err)
			}
			assertPath(t, got, []graph.Coordinate{c(0, 0), c(1, 0), c(2, 0)}, 2)
		})
	}
}

func TestGetRouteDisconnected(t *testing.T) {
	for name, heap := range heapFactories() {
		t.Run(name, func(t *testing.T) {
			r := newTestRouter(heap)
			r.BuildRouteGraph([][]graph.Coordinate{
				{c(0, 0), c(1, 0)},
				{c(5, 5), c(6, 5)},
			})

			_, err := r.GetRoute(context.Background(), c(0, 0), c(6, 5))
			if err != ErrNoRoute {
				t.Fatalf("GetRoute() error = %v, want ErrNoRoute", err)
			}
		})
	}
}

func TestGetRouteIdenticalEndpoints(t *testing.T) {
	for name, heap := range heapFactories() {
		t.Run(name, func(t *testing.T) {
			r := newTestRouter(heap)
			r.BuildRouteGraph([][]graph.Coordinate{{c(0, 0), c(1, 0)}})

			_, err := r.GetRoute(context.Background(), c(0, 0), c(0, 0))
			if err != ErrNoRoute {
				t.Fatalf("GetRoute() error = %v, want ErrNoRoute", err)
			}
		})
	}
}

func TestGetRouteReverseSegmentOrientation(t *testing.T) {
	for name, heap := range heapFactories() {
		t.Run(name, func(t *testing.T) {
			r := newTestRouter(heap)
			r.BuildRouteGraph([][]graph.Coordinate{
				{c(1, 0), c(0, 0)},
				{c(2, 0), c(1, 0)},
			})

			got, err := r.GetRoute(context.Background(), c(0, 0), c(2, 0))
			if err != nil {
				t.Fatalf("GetRoute() error = %v", err)
			}
			assertPath(t, got, []graph.Coordinate{c(0, 0), c(1, 0), c(2, 0)}, 2)
		})
	}
}

func TestGetRouteSelfLoopTolerance(t *testing.T) {
	for name, heap := range heapFactories() {
		t.Run(name, func(t *testing.T) {
			r := newTestRouter(heap)
			r.BuildRouteGraph([][]graph.Coordinate{
				{c(0, 0), c(1, 0), c(1, 0), c(2, 0)},
			})

			got, err := r.GetRoute(context.Background(), c(0, 0), c(2, 0))
			if err != nil {
				t.Fatalf("GetRoute() error = %v", err)
			}
			if got.Coordinates[0] != c(0, 0) || got.Coordinates[len(got.Coordinates)-1] != c(2, 0) {
				t.Fatalf("endpoints = [%v, %v], want [(0,0), (2,0)]", got.Coordinates[0], got.Coordinates[len(got.Coordinates)-1])
			}
			for i := 0; i+1 < len(got.Coordinates); i++ {
				if got.Coordinates[i] == got.Coordinates[i+1] {
					t.Fatalf("consecutive duplicate at %d: %v", i, got.Coordinates[i])
				}
			}
			if math.Abs(got.Cost-2) > 1e-9 {
				t.Fatalf("Cost = %v, want 2", got.Cost)
			}
		})
	}
}

func TestGetRouteNotBuilt(t *testing.T) {
	r := newTestRouter(func() pq.Interface { return pq.NewQuad() })
	_, err := r.GetRoute(context.Background(), c(0, 0), c(1, 1))
	if err != ErrNotBuilt {
		t.Fatalf("GetRoute() error = %v, want ErrNotBuilt", err)
	}
}

func TestExpandRouteGraphRequiresBuild(t *testing.T) {
	r := newTestRouter(func() pq.Interface { return pq.NewQuad() })
	err := r.ExpandRouteGraph([][]graph.Coordinate{{c(0, 0), c(1, 1)}})
	if err != ErrNotBuilt {
		t.Fatalf("ExpandRouteGraph() error = %v, want ErrNotBuilt", err)
	}
}

func TestGetRouteReversibility(t *testing.T) {
	for name, heap := range heapFactories() {
		t.Run(name, func(t *testing.T) {
			r := newTestRouter(heap)
			r.BuildRouteGraph([][]graph.Coordinate{
				{c(0, 0), c(1, 0), c(2, 0)},
				{c(1, 0), c(1, 1), c(2, 0)},
			})

			fwd, err := r.GetRoute(context.Background(), c(0, 0), c(2, 0))
			if err != nil {
				t.Fatalf("forward GetRoute() error = %v", err)
			}
			bwd, err := r.GetRoute(context.Background(), c(2, 0), c(0, 0))
			if err != nil {
				t.Fatalf("reverse GetRoute() error = %v", err)
			}
			if math.Abs(fwd.Cost-bwd.Cost) > 1e-9 {
				t.Fatalf("forward cost %v != reverse cost %v", fwd.Cost, bwd.Cost)
			}
			if len(fwd.Coordinates) != len(bwd.Coordinates) {
				t.Fatalf("coordinate count mismatch: %d vs %d", len(fwd.Coordinates), len(bwd.Coordinates))
			}
			for i := range fwd.Coordinates {
				j := len(bwd.Coordinates) - 1 - i
				if fwd.Coordinates[i] != bwd.Coordinates[j] {
					t.Fatalf("fwd[%d]=%v != bwd[%d]=%v", i, fwd.Coordinates[i], j, bwd.Coordinates[j])
				}
			}
		})
	}
}

func TestGetRoutePQEquivalence(t *testing.T) {
	build := func(r *Router) {
		r.BuildRouteGraph([][]graph.Coordinate{
			{c(0, 0), c(1, 0), c(2, 0), c(3, 0)},
			{c(1, 0), c(1, 1), c(2, 1), c(3, 0)},
			{c(0, 0), c(0, 2), c(3, 0)},
		})
	}

	var costs []float64
	for _, heap := range heapFactories() {
		r := newTestRouter(heap)
		build(r)
		got, err := r.GetRoute(context.Background(), c(0, 0), c(3, 0))
		if err != nil {
			t.Fatalf("GetRoute() error = %v", err)
		}
		costs = append(costs, got.Cost)
	}
	for i := 1; i < len(costs); i++ {
		if math.Abs(costs[i]-costs[0]) > 1e-9 {
			t.Fatalf("PQ variants disagree on cost: %v", costs)
		}
	}
}

// plainDijkstra runs a reference single-source Dijkstra directly over
// the graph's CSR, used to check bidirectional search against a
// trusted oracle on a larger randomized network.
func plainDijkstra(g *graph.Graph, source, target uint32) float64 {
	n := g.NumNodes()
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[source] = 0

	type item struct {
		node uint32
		dist float64
	}
	queue := []item{{source, 0}}
	for len(queue) > 0 {
		minIdx := 0
		for i := 1; i < len(queue); i++ {
			if queue[i].dist < queue[minIdx].dist {
				minIdx = i
			}
		}
		cur := queue[minIdx]
		queue[minIdx] = queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		if cur.dist > dist[cur.node] {
			continue
		}
		g.ForEachNeighbor(cur.node, func(v uint32, w float64) {
			nd := cur.dist + w
			if nd < dist[v] {
				dist[v] = nd
				queue = append(queue, item{v, nd})
			}
		})
	}
	return dist[target]
}

func TestGetRouteAgainstPlainDijkstraGrid(t *testing.T) {
	// 4x4 grid of unit-spaced points, each connected to its right and
	// up neighbor — enough structure for many equally-short paths.
	const side = 4
	var points [side][side]graph.Coordinate
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			points[i][j] = c(float64(i), float64(j))
		}
	}

	var polylines [][]graph.Coordinate
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			if i+1 < side {
				polylines = append(polylines, []graph.Coordinate{points[i][j], points[i+1][j]})
			}
			if j+1 < side {
				polylines = append(polylines, []graph.Coordinate{points[i][j], points[i][j+1]})
			}
		}
	}

	for name, heap := range heapFactories() {
		t.Run(name, func(t *testing.T) {
			r := newTestRouter(heap)
			r.BuildRouteGraph(polylines)

			start := points[0][0]
			end := points[side-1][side-1]
			startIdx := r.g.Intern(start)
			endIdx := r.g.Intern(end)
			want := plainDijkstra(r.g, startIdx, endIdx)

			got, err := r.GetRoute(context.Background(), start, end)
			if err != nil {
				t.Fatalf("GetRoute() error = %v", err)
			}
			if math.Abs(got.Cost-want) > 1e-9 {
				t.Fatalf("GetRoute cost = %v, want %v (plainDijkstra)", got.Cost, want)
			}
		})
	}
}

func TestExpandConsistency(t *testing.T) {
	net1 := [][]graph.Coordinate{{c(0, 0), c(1, 0)}}
	net2 := [][]graph.Coordinate{{c(1, 0), c(2, 0)}}

	combined := newTestRouter(func() pq.Interface { return pq.NewQuad() })
	combined.BuildRouteGraph(append(append([][]graph.Coordinate{}, net1...), net2...))

	built := newTestRouter(func() pq.Interface { return pq.NewQuad() })
	built.BuildRouteGraph(net1)
	if err := built.ExpandRouteGraph(net2); err != nil {
		t.Fatalf("ExpandRouteGraph() error = %v", err)
	}

	a, err := combined.GetRoute(context.Background(), c(0, 0), c(2, 0))
	if err != nil {
		t.Fatalf("combined GetRoute() error = %v", err)
	}
	b, err := built.GetRoute(context.Background(), c(0, 0), c(2, 0))
	if err != nil {
		t.Fatalf("expanded GetRoute() error = %v", err)
	}
	if math.Abs(a.Cost-b.Cost) > 1e-9 {
		t.Fatalf("Build(net1+net2) cost %v != Build(net1);Expand(net2) cost %v", a.Cost, b.Cost)
	}
}

func TestGetRouteAStarMatchesBidirectional(t *testing.T) {
	r := newTestRouter(func() pq.Interface { return pq.NewQuad() })
	r.BuildRouteGraph([][]graph.Coordinate{
		{c(0, 0), c(1, 0), c(2, 0)},
		{c(1, 0), c(1, 1), c(2, 0)},
	})

	bi, err := r.GetRoute(context.Background(), c(0, 0), c(2, 0))
	if err != nil {
		t.Fatalf("GetRoute() error = %v", err)
	}
	uni, err := r.GetRouteAStar(context.Background(), c(0, 0), c(2, 0))
	if err != nil {
		t.Fatalf("GetRouteAStar() error = %v", err)
	}
	if math.Abs(bi.Cost-uni.Cost) > 1e-9 {
		t.Fatalf("bidirectional cost %v != A* cost %v", bi.Cost, uni.Cost)
	}
}
