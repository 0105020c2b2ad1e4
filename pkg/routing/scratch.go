package routing

import "math"

// scratch holds the router's reusable per-query buffers. It is grown
// geometrically as the graph's node count grows, and only its first n
// elements are reset before each query — the node count is known
// exactly at query time, so there is no need for the touched-list
// trick of tracking which entries were dirtied.
type scratch struct {
	gForward       []float64
	gReverse       []float64
	prevForward    []int32
	nextReverse    []int32
	visitedForward []byte
	visitedReverse []byte
}

func (s *scratch) grow(n uint32) {
	if uint32(len(s.gForward)) >= n {
		return
	}
	newCap := uint32(len(s.gForward)) * 2
	if newCap < n {
		newCap = n
	}
	if newCap < 16 {
		newCap = 16
	}

	s.gForward = growFloat(s.gForward, newCap)
	s.gReverse = growFloat(s.gReverse, newCap)
	s.prevForward = growInt32(s.prevForward, newCap)
	s.nextReverse = growInt32(s.nextReverse, newCap)
	s.visitedForward = growByte(s.visitedForward, newCap)
	s.visitedReverse = growByte(s.visitedReverse, newCap)
}

// reset restores the sentinel values over [0, n) only.
func (s *scratch) reset(n uint32) {
	for i := uint32(0); i < n; i++ {
		s.gForward[i] = math.Inf(1)
		s.gReverse[i] = math.Inf(1)
		s.prevForward[i] = -1
		s.nextReverse[i] = -1
		s.visitedForward[i] = 0
		s.visitedReverse[i] = 0
	}
}

func growFloat(s []float64, n uint32) []float64 {
	out := make([]float64, n)
	copy(out, s)
	for i := len(s); i < int(n); i++ {
		out[i] = math.Inf(1)
	}
	return out
}

func growInt32(s []int32, n uint32) []int32 {
	out := make([]int32, n)
	copy(out, s)
	for i := len(s); i < int(n); i++ {
		out[i] = -1
	}
	return out
}

func growByte(s []byte, n uint32) []byte {
	out := make([]byte, n)
	copy(out, s)
	return out
}
