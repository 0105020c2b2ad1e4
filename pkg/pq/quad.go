package pq

// Quad is an array-backed 4-ary min-heap: parent of index i is
// (i-1)/4, children are 4i+1..4i+4. Fewer levels and fewer comparisons
// per sift-down than a binary heap make it the default PQ for the
// router's workload (many small relaxations, shallow trees).
type Quad struct {
	items []heapItem
	seq   uint64
}

// NewQuad returns an empty 4-ary heap.
func NewQuad() *Quad {
	return &Quad{}
}

func (h *Quad) Size() int { return len(h.items) }

func (h *Quad) Clear() {
	h.items = h.items[:0]
	h.seq = 0
}

func (h *Quad) PeekMinKey() float64 {
	if len(h.items) == 0 {
		return PosInf
	}
	return h.items[0].key
}

func (h *Quad) Insert(key float64, value uint32) {
	h.items = append(h.items, heapItem{key: key, value: value, seq: h.seq})
	h.seq++
	h.siftUp(len(h.items) - 1)
}

func (h *Quad) ExtractMin() (uint32, bool) {
	n := len(h.items)
	if n == 0 {
		return 0, false
	}
	top := h.items[0]
	n--
	h.items[0] = h.items[n]
	h.items = h.items[:n]
	if n > 0 {
		h.siftDown(0)
	}
	return top.value, true
}

func (h *Quad) siftUp(i int) {
	it := h.items[i]
	for i > 0 {
		parent := (i - 1) / 4
		if !less(it.key, it.seq, h.items[parent].key, h.items[parent].seq) {
			break
		}
		h.items[i] = h.items[parent]
		i = parent
	}
	h.items[i] = it
}

func (h *Quad) siftDown(i int) {
	n := len(h.items)
	it := h.items[i]
	for {
		first := 4*i + 1
		if first >= n {
			break
		}
		smallest := first
		last := first + 4
		if last > n {
			last = n
		}
		for c := first + 1; c < last; c++ {
			if less(h.items[c].key, h.items[c].seq, h.items[smallest].key, h.items[smallest].seq) {
				smallest = c
			}
		}
		if !less(h.items[smallest].key, h.items[smallest].seq, it.key, it.seq) {
			break
		}
		h.items[i] = h.items[smallest]
		i = smallest
	}
	h.items[i] = it
}
