package pq

// pairNode is one arena slot: a node has at most a leftmost child and
// a next-sibling pointer. The child list is a singly-linked list
// terminated by -1, not a ring — pairing heaps never need circularity.
type pairNode struct {
	key     float64
	value   uint32
	seq     uint64
	child   int32
	sibling int32
}

// Pairing is an arena-backed pairing heap: O(1) amortized Insert,
// O(log n) amortized ExtractMin via two-pass pairing of the root's
// children.
type Pairing struct {
	nodes []pairNode
	root  int32 // -1 when empty
	size  int
	seq   uint64
}

// NewPairing returns an empty pairing heap.
func NewPairing() *Pairing {
	return &Pairing{root: -1}
}

func (p *Pairing) Size() int { return p.size }

func (p *Pairing) Clear() {
	p.nodes = p.nodes[:0]
	p.root = -1
	p.size = 0
	p.seq = 0
}

func (p *Pairing) PeekMinKey() float64 {
	if p.root < 0 {
		return PosInf
	}
	return p.nodes[p.root].key
}

func (p *Pairing) Insert(key float64, value uint32) {
	idx := int32(len(p.nodes))
	p.nodes = append(p.nodes, pairNode{key: key, value: value, seq: p.seq, child: -1, sibling: -1})
	p.seq++
	p.size++
	p.root = p.merge(p.root, idx)
}

func (p *Pairing) ExtractMin() (uint32, bool) {
	if p.root < 0 {
		return 0, false
	}
	value := p.nodes[p.root].value
	p.root = p.mergePairs(p.nodes[p.root].child)
	p.size--
	return value, true
}

// merge combines two heap-ordered trees by making the larger-key root
// (by (key,seq) order) the first child of the smaller-key root.
func (p *Pairing) merge(a, b int32) int32 {
	if a < 0 {
		return b
	}
	if b < 0 {
		return a
	}
	if less(p.nodes[b].key, p.nodes[b].seq, p.nodes[a].key, p.nodes[a].seq) {
		a, b = b, a
	}
	p.nodes[b].sibling = p.nodes[a].child
	p.nodes[a].child = b
	return a
}

// mergePairs implements two-pass pairing over a sibling list: pair up
// consecutive siblings left to right, then merge the resulting list of
// winners right to left. This recursive form produces the same result
// as the iterative two-pass description: each call pairs the first two
// siblings, recurses on the rest, then merges the pair's winner with
// whatever the rest of the list reduced to — which is exactly a
// right-to-left fold over the left-to-right pairing pass.
func (p *Pairing) mergePairs(first int32) int32 {
	if first < 0 {
		return -1
	}
	second := p.nodes[first].sibling
	if second < 0 {
		p.nodes[first].sibling = -1
		return first
	}
	rest := p.nodes[second].sibling
	p.nodes[first].sibling = -1
	p.nodes[second].sibling = -1

	pair := p.merge(first, second)
	return p.merge(pair, p.mergePairs(rest))
}
