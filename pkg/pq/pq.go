// Package pq implements the family of min-priority queues used by the
// bidirectional search driver in pkg/routing. Every variant stores
// (key, value, seq) triples and breaks ties on the insertion sequence,
// so entries inserted with equal keys extract in FIFO order.
package pq

import "math"

// Interface is the capability set every variant implements. Keys are
// ordinary float64s (including +Inf); values are node indices.
type Interface interface {
	// Insert adds (key, value) to the queue.
	Insert(key float64, value uint32)
	// ExtractMin removes and returns the value with the smallest key.
	// ok is false iff the queue is empty.
	ExtractMin() (value uint32, ok bool)
	// PeekMinKey returns the smallest key without removing it, or +Inf
	// if the queue is empty.
	PeekMinKey() float64
	// Size returns the number of live entries.
	Size() int
	// Clear empties the queue while keeping its backing storage.
	Clear()
}

// Factory produces a fresh, empty queue of some concrete variant.
type Factory func() Interface

// less orders two (key, seq) pairs lexicographically: smaller key first,
// and among equal keys, smaller seq (earlier insertion) first.
func less(key1 float64, seq1 uint64, key2 float64, seq2 uint64) bool {
	if key1 != key2 {
		return key1 < key2
	}
	return seq1 < seq2
}

// PosInf is the sentinel key returned by PeekMinKey on an empty queue.
var PosInf = math.Inf(1)
