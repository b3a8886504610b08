package dictionary

import (
	"container/heap"
	"sort"
)

// candidate is a word index with its frequency. Candidates are ordered by
// decreasing frequency then increasing index, which is alphabetical order.
type candidate struct {
	freq  int
	index int
}

func (a candidate) better(b candidate) bool {
	if a.freq != b.freq {
		return a.freq > b.freq
	}
	return a.index < b.index
}

// worstFirst is a heap whose root is the worst candidate.
type worstFirst []candidate

func (q worstFirst) Len() int           { return len(q) }
func (q worstFirst) Less(i, j int) bool { return q[j].better(q[i]) }
func (q worstFirst) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *worstFirst) Push(x any)        { *q = append(*q, x.(candidate)) }
func (q *worstFirst) Pop() any {
	old := *q
	c := old[len(old)-1]
	*q = old[:len(old)-1]
	return c
}

// selector keeps the best candidates seen during a traversal, up to its
// capacity. A word index is kept at most once.
type selector struct {
	q        worstFirst
	capacity int
	kept     map[int]struct{}
}

func newSelector(capacity int) *selector {
	if capacity < 0 {
		capacity = 0
	}
	return &selector{
		q:        make(worstFirst, 0, min(capacity, 64)),
		capacity: capacity,
		kept:     make(map[int]struct{}),
	}
}

// accepts reports whether add(c) would keep c.
func (s *selector) accepts(c candidate) bool {
	if _, dup := s.kept[c.index]; dup || s.capacity == 0 {
		return false
	}
	return len(s.q) < s.capacity || c.better(s.q[0])
}

func (s *selector) add(freq, index int) {
	c := candidate{freq: freq, index: index}
	if !s.accepts(c) {
		return
	}
	if len(s.q) < s.capacity {
		heap.Push(&s.q, c)
	} else {
		delete(s.kept, s.q[0].index)
		s.q[0] = c
		heap.Fix(&s.q, 0)
	}
	s.kept[index] = struct{}{}
}

// drain returns at most n kept indexes, best first, and empties the selector.
func (s *selector) drain(n int) []int {
	sort.Slice(s.q, func(i, j int) bool { return s.q[i].better(s.q[j]) })
	n = max(0, min(n, len(s.q)))
	out := make([]int, n)
	for i := range out {
		out[i] = s.q[i].index
	}
	s.q = s.q[:0]
	clear(s.kept)
	return out
}
