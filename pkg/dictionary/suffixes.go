package dictionary

// Suffixes lists the count most frequent words starting with the query that
// produced r, best first, ties in alphabetical order. The query itself is
// listed when it is a word. Returns nothing when r has no valid prefix.
func (d *Dictionary) Suffixes(r Result, count int) (out []int, err error) {
	if !r.Prefix.Valid() || count <= 0 {
		return []int{}, nil
	}
	defer recoverCorrupt(&err)
	s := newSelector(count)
	var p ptr
	if r.Prefix.final {
		p = FlagFinal
	}
	d.suffixes(r.Prefix.node, p, r.Index, func(index int) {
		s.add(d.freqAt(index), index)
	}, 0)
	return s.drain(count), nil
}

// suffixes calls emit with the index of every word below the transition p of
// parent. index is the number of words ordered before the transition.
func (d *Dictionary) suffixes(parent int, p ptr, index int, emit func(int), depth int) {
	if depth > maxDepth {
		panic(corruptError{off: parent, what: "node cycle"})
	}
	node := d.resolve(parent, p)
	if p.final() {
		emit(index)
		index++
	}
	switch d.kindAt(node) {
	case KindBranches:
		b := d.branchesAt(node)
		for i := 0; i < b.len(); i++ {
			d.suffixes(node, b.branch(i), index+b.number(i), emit, depth+1)
		}
	case KindPrefix:
		d.suffixes(node, d.prefixAt(node).next, index, emit, depth+1)
	}
}

// Len counts the words of the dictionary. It walks every node.
func (d *Dictionary) Len() (n int, err error) {
	defer recoverCorrupt(&err)
	d.suffixes(d.root, 0, 0, func(int) { n++ }, 0)
	return n, nil
}
