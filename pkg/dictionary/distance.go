package dictionary

// Distance lists the count most frequent words that are exactly dist edits
// away from word, best first. Edits are Levenshtein insertions, deletions
// and substitutions, except that appending a suffix of any length to the
// query counts as a single edit. Closer words are never listed, so calling
// Distance with increasing dist gives tiers of suggestions.
func (d *Dictionary) Distance(word []byte, dist, count int) (out []int, err error) {
	if dist < 0 || count <= 0 {
		return []int{}, nil
	}
	defer recoverCorrupt(&err)
	s := &search{
		d:      d,
		query:  word,
		target: dist,
		sel:    newSelector(count),
	}
	s.distance(d.root, 0, word, 0, dist)
	return s.sel.drain(count), nil
}

// DistanceString is Distance for a string query.
func (d *Dictionary) DistanceString(word string, dist, count int) ([]int, error) {
	return d.Distance([]byte(word), dist, count)
}

// search is the state of one Distance call.
type search struct {
	d      *Dictionary
	query  []byte
	target int
	sel    *selector

	word   []byte
	v0, v1 []int
}

// distance explores the words below the transition p of parent that are
// exactly dist edits away from word.
func (s *search) distance(parent int, p ptr, word []byte, index, dist int) {
	if dist == 0 {
		if r := s.d.findFrom(parent, p, word, index); r.Found {
			s.add(r.Index)
		}
		return
	}
	node := s.d.resolve(parent, p)
	entered := index
	if p.final() {
		index++
	}
	if len(word) == 0 {
		// Adding a suffix of any length is a single edit. The node is entered
		// without the final flag so that the query itself is not listed.
		if dist == 1 {
			s.d.suffixes(node, 0, index, s.add, 0)
		}
		return
	}

	switch s.d.kindAt(node) {
	case KindBranches:
		// Remove a letter from the query. Staying on the incoming transition
		// keeps its final flag, a word ending here can still match.
		s.distance(parent, p, word[1:], entered, dist-1)

		b := s.d.branchesAt(node)
		c := word[0]
		for i := 0; i < b.len(); i++ {
			next, bi := index+b.number(i), b.branch(i)
			if b.labels[i] == c {
				s.distance(node, bi, word[1:], next, dist)
				continue
			}
			// Change a letter
			s.distance(node, bi, word[1:], next, dist-1)
			// Add a letter
			s.distance(node, bi, word, next, dist-1)
		}
	case KindPrefix:
		if p.final() && len(word) == dist {
			// The word ending before the run, the rest of the query removed.
			s.add(entered)
		}
		s.distancePrefix(node, s.d.prefixAt(node), word, index, dist)
	}
}

// distancePrefix aligns the run of a prefix node with every prefix of word.
// Row k of the table holds the distances between run[:k] and the prefixes of
// word, the last row gives the cost of each split point.
func (s *search) distancePrefix(node int, pr prefix, word []byte, index, dist int) {
	n, m := len(pr.run), len(word)
	rows := make([]int, 2*(m+1))
	prev, cur := rows[:m+1], rows[m+1:]
	for j := range prev {
		prev[j] = j
	}
	// Stopping after run[:k], k < n, then adding the rest of the word.
	harvest := m + 1
	for k := 0; k < n; k++ {
		harvest = min(harvest, prev[m]+1)
		cur[0] = k + 1
		low := cur[0]
		for j := 0; j < m; j++ {
			rpl := prev[j]
			if pr.run[k] != word[j] {
				rpl++
			}
			cur[j+1] = min(prev[j+1]+1, cur[j]+1, rpl)
			low = min(low, cur[j+1])
		}
		prev, cur = cur, prev
		if low > dist {
			// The row minimum never decreases, no split is affordable.
			if harvest == dist {
				s.d.suffixes(node, pr.next, index, s.add, 0)
			}
			return
		}
	}
	switch {
	case harvest == dist:
		s.d.suffixes(node, pr.next, index, s.add, 0)
		return
	case harvest < dist:
		// Every word below is closer than dist.
		return
	}
	for i := m; i >= 0; i-- {
		if c := prev[i]; c <= dist {
			s.distance(node, pr.next, word[i:], index, dist-c)
		}
	}
}

// add offers a word to the selector. Words reachable at a lower cost than
// the target through another edit path are dropped.
func (s *search) add(index int) {
	c := candidate{freq: s.d.freqAt(index), index: index}
	if !s.sel.accepts(c) {
		return
	}
	if s.target > 0 {
		w, ok := s.d.appendWord(s.word[:0], index, maxDepth)
		s.word = w
		if ok && s.editDistance(w) < s.target {
			return
		}
	}
	s.sel.add(c.freq, c.index)
}

func (s *search) rows(n int) ([]int, []int) {
	if cap(s.v0) < n {
		s.v0, s.v1 = make([]int, n), make([]int, n)
	}
	return s.v0[:n], s.v1[:n]
}

// editDistance is the distance between the query and w as counted by
// Distance: the Levenshtein distance, or one more than the distance to a
// proper prefix of w when that is smaller.
func (s *search) editDistance(w []byte) int {
	q := s.query
	v0, v1 := s.rows(len(q) + 1)
	for j := range v0 {
		v0[j] = j
	}
	best := len(q) + 1
	for i := range w {
		v1[0] = i + 1
		for j := range q {
			rpl := v0[j]
			if w[i] != q[j] {
				rpl++
			}
			v1[j+1] = min(v0[j+1]+1, v1[j]+1, rpl)
		}
		v0, v1 = v1, v0
		if i+1 < len(w) {
			best = min(best, v0[len(q)]+1)
		}
	}
	return min(best, v0[len(q)])
}
