package pq

// Binary is an array-backed binary min-heap. Parent of index i is
// (i-1)/2; children are 2i+1 and 2i+2.
type Binary struct {
	items []heapItem
	seq   uint64
}

type heapItem struct {
	key   float64
	value uint32
	seq   uint64
}

// NewBinary returns an empty binary heap.
func NewBinary() *Binary {
	return &Binary{}
}

func (h *Binary) Size() int { return len(h.items) }

func (h *Binary) Clear() {
	h.items = h.items[:0]
	h.seq = 0
}

func (h *Binary) PeekMinKey() float64 {
	if len(h.items) == 0 {
		return PosInf
	}
	return h.items[0].key
}

func (h *Binary) Insert(key float64, value uint32) {
	h.items = append(h.items, heapItem{key: key, value: value, seq: h.seq})
	h.seq++
	h.siftUp(len(h.items) - 1)
}

func (h *Binary) ExtractMin() (uint32, bool) {
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

// siftUp uses hole-sift: hold the inserted item aside and shift parents
// down instead of swapping at every step.
func (h *Binary) siftUp(i int) {
	it := h.items[i]
	for i > 0 {
		parent := (i - 1) / 2
		if !less(it.key, it.seq, h.items[parent].key, h.items[parent].seq) {
			break
		}
		h.items[i] = h.items[parent]
		i = parent
	}
	h.items[i] = it
}

func (h *Binary) siftDown(i int) {
	n := len(h.items)
	it := h.items[i]
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		smallest := left
		if right := left + 1; right < n && less(h.items[right].key, h.items[right].seq, h.items[left].key, h.items[left].seq) {
			smallest = right
		}
		if !less(h.items[smallest].key, h.items[smallest].seq, it.key, it.seq) {
			break
		}
		h.items[i] = h.items[smallest]
		i = smallest
	}
	h.items[i] = it
}
