package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte // byte is sufficient — max rank ~30 for realistic graphs
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	// Union by rank.
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// LargestComponent returns the node indices belonging to the largest
// connected component. The network is undirected, so one union per
// CSR/overlay entry already covers both directions.
func LargestComponent(g *Graph) []uint32 {
	n := g.NumNodes()
	if n == 0 {
		return nil
	}

	uf := NewUnionFind(n)
	for u := uint32(0); u < n; u++ {
		g.ForEachNeighbor(u, func(v uint32, _ float64) {
			uf.Union(u, v)
		})
	}

	bestRoot := uint32(0)
	bestSize := uint32(0)
	for i := uint32(0); i < n; i++ {
		root := uf.Find(i)
		if uf.size[root] > bestSize {
			bestRoot = root
			bestSize = uf.size[root]
		}
	}

	nodes := make([]uint32, 0, bestSize)
	for i := uint32(0); i < n; i++ {
		if uf.Find(i) == bestRoot {
			nodes = append(nodes, i)
		}
	}
	return nodes
}

// FilterToComponent returns a new graph containing only the given nodes
// and the edges between them, reusing g's distance function. Node
// indices are renumbered densely in the order nodes lists them.
func FilterToComponent(g *Graph, nodes []uint32) *Graph {
	out := New(g.dist)
	if len(nodes) == 0 {
		out.built = true
		return out
	}

	oldToNew := make(map[uint32]uint32, len(nodes))
	for newIdx, oldIdx := range nodes {
		oldToNew[oldIdx] = uint32(newIdx)
		out.Intern(g.Coord(oldIdx))
	}

	n := uint32(len(nodes))
	degree := make([]uint32, n)
	type edge struct {
		from, to uint32
		weight   float64
	}
	var edges []edge
	for _, oldU := range nodes {
		newU := oldToNew[oldU]
		g.ForEachNeighbor(oldU, func(oldV uint32, w float64) {
			if newV, ok := oldToNew[oldV]; ok {
				edges = append(edges, edge{from: newU, to: newV, weight: w})
				degree[newU]++
			}
		})
	}

	offsets := make([]uint32, n+1)
	for i := uint32(0); i < n; i++ {
		offsets[i+1] = offsets[i] + degree[i]
	}
	neighbors := make([]uint32, offsets[n])
	weights := make([]float64, offsets[n])
	cursor := make([]uint32, n)
	copy(cursor, offsets[:n])
	for _, e := range edges {
		idx := cursor[e.from]
		neighbors[idx] = e.to
		weights[idx] = e.weight
		cursor[e.from]++
	}

	out.offsets = offsets
	out.neighbors = neighbors
	out.weights = weights
	out.csrNodes = n
	out.built = true
	return out
}
