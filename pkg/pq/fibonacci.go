package pq

import "math/bits"

// fibNode is one arena slot. Root and child lists are circular
// doubly-linked lists expressed as indices into the same arena, never
// as pointer-linked objects — this keeps the heap's working set
// contiguous and needs no GC graph walk to free.
type fibNode struct {
	key    float64
	value  uint32
	seq    uint64
	degree int32
	parent int32
	child  int32
	next   int32
	prev   int32
	mark   bool // unused: decrease_key is not exposed by this queue
}

// Fibonacci is an arena-backed Fibonacci heap: O(1) amortized Insert,
// O(log n) amortized ExtractMin via consolidation.
type Fibonacci struct {
	nodes   []fibNode
	min     int32 // -1 when empty
	size    int
	seq     uint64
	degTbl  []int32 // scratch degree table, reused across ExtractMin calls
}

// NewFibonacci returns an empty Fibonacci heap.
func NewFibonacci() *Fibonacci {
	return &Fibonacci{min: -1}
}

func (f *Fibonacci) Size() int { return f.size }

func (f *Fibonacci) Clear() {
	f.nodes = f.nodes[:0]
	f.min = -1
	f.size = 0
	f.seq = 0
}

func (f *Fibonacci) PeekMinKey() float64 {
	if f.min < 0 {
		return PosInf
	}
	return f.nodes[f.min].key
}

func (f *Fibonacci) Insert(key float64, value uint32) {
	idx := int32(len(f.nodes))
	f.nodes = append(f.nodes, fibNode{
		key: key, value: value, seq: f.seq,
		parent: -1, child: -1, next: idx, prev: idx,
	})
	f.seq++
	f.size++
	f.spliceRoot(idx)
}

func (f *Fibonacci) ExtractMin() (uint32, bool) {
	z := f.min
	if z < 0 {
		return 0, false
	}
	value := f.nodes[z].value

	if c := f.nodes[z].child; c >= 0 {
		// Promote every child of z to the root list. Snapshot the
		// child ring first since relinking mutates it in place.
		children := f.ringMembers(c)
		for _, ch := range children {
			f.nodes[ch].parent = -1
			f.nodes[ch].mark = false
			f.unlink(ch)
			f.spliceRoot(ch)
		}
	}

	if f.nodes[z].next == z {
		f.min = -1
	} else {
		next := f.nodes[z].next
		f.unlink(z)
		f.min = next
	}
	f.size--

	if f.min >= 0 {
		f.consolidate()
	}
	return value, true
}

// spliceRoot inserts an already-self-looped or freshly-detached node
// into the root list and updates the min pointer if it now leads.
func (f *Fibonacci) spliceRoot(idx int32) {
	if f.min < 0 {
		f.nodes[idx].next = idx
		f.nodes[idx].prev = idx
		f.min = idx
		return
	}
	m := f.min
	mNext := f.nodes[m].next
	f.nodes[m].next = idx
	f.nodes[idx].prev = m
	f.nodes[idx].next = mNext
	f.nodes[mNext].prev = idx

	if less(f.nodes[idx].key, f.nodes[idx].seq, f.nodes[m].key, f.nodes[m].seq) {
		f.min = idx
	}
}

// unlink removes idx from whatever circular list currently holds it,
// relinking its neighbors. idx's own next/prev are left stale until
// the caller re-splices it elsewhere.
func (f *Fibonacci) unlink(idx int32) {
	p, n := f.nodes[idx].prev, f.nodes[idx].next
	f.nodes[p].next = n
	f.nodes[n].prev = p
}

// ringMembers returns every index in the circular list containing start.
func (f *Fibonacci) ringMembers(start int32) []int32 {
	var out []int32
	cur := start
	for {
		out = append(out, cur)
		cur = f.nodes[cur].next
		if cur == start {
			break
		}
	}
	return out
}

// link makes y a child of x. Requires (x.key,x.seq) <= (y.key,y.seq).
func (f *Fibonacci) link(y, x int32) {
	f.unlink(y)
	f.nodes[y].parent = x
	f.nodes[y].mark = false

	if c := f.nodes[x].child; c < 0 {
		f.nodes[x].child = y
		f.nodes[y].next = y
		f.nodes[y].prev = y
	} else {
		cNext := f.nodes[c].next
		f.nodes[c].next = y
		f.nodes[y].prev = c
		f.nodes[y].next = cNext
		f.nodes[cNext].prev = y
	}
	f.nodes[x].degree++
}

// consolidate merges root-list trees of equal degree until at most one
// root per degree remains, then recomputes the min pointer.
func (f *Fibonacci) consolidate() {
	maxDeg := degreeBound(f.size)
	if cap(f.degTbl) < maxDeg {
		f.degTbl = make([]int32, maxDeg)
	}
	tbl := f.degTbl[:maxDeg]
	for i := range tbl {
		tbl[i] = -1
	}

	roots := f.ringMembers(f.min)
	for _, w := range roots {
		x := w
		d := int(f.nodes[x].degree)
		for d < len(tbl) && tbl[d] >= 0 {
			y := tbl[d]
			if less(f.nodes[y].key, f.nodes[y].seq, f.nodes[x].key, f.nodes[x].seq) {
				x, y = y, x
			}
			f.link(y, x)
			tbl[d] = -1
			d++
		}
		if d >= len(tbl) {
			grown := make([]int32, d+1)
			copy(grown, tbl)
			for i := len(tbl); i <= d; i++ {
				grown[i] = -1
			}
			tbl = grown
			f.degTbl = tbl
		}
		tbl[d] = x
	}

	f.min = -1
	for _, x := range tbl {
		if x < 0 {
			continue
		}
		if f.min < 0 || less(f.nodes[x].key, f.nodes[x].seq, f.nodes[f.min].key, f.nodes[f.min].seq) {
			f.min = x
		}
	}
}

// degreeBound returns the degree-table size sufficient for n nodes:
// floor(log2(n)) + 2.
func degreeBound(n int) int {
	if n < 1 {
		n = 1
	}
	return bits.Len(uint(n)) + 1
}
