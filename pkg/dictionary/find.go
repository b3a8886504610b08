package dictionary

// Cursor is the position where a lookup stopped. It is opaque and only
// meaningful for the dictionary that produced it. The zero Cursor means that
// the query is not the prefix of any word.
type Cursor struct {
	node  int
	final bool
}

// Valid reports whether some word starts with the query that produced c.
func (c Cursor) Valid() bool { return c.node > 0 }

// Result is the outcome of [Dictionary.Find].
type Result struct {
	// Found is true when the query is a word of the dictionary.
	Found bool
	// Index is the index of the query when Found. Otherwise it is the index of
	// the first word starting with the query, if any, and is only meaningful
	// to [Dictionary.Suffixes].
	Index int
	// Prefix is where the lookup stopped. Pass the whole Result to
	// [Dictionary.Suffixes] to list the words starting with the query.
	Prefix Cursor
}

// Find looks word up. It never fails on a well formed dictionary, unknown
// words and empty queries give Found == false.
func (d *Dictionary) Find(word []byte) (r Result, err error) {
	defer recoverCorrupt(&err)
	return d.findFrom(d.root, 0, word, 0), nil
}

// FindString is Find for a string query.
func (d *Dictionary) FindString(word string) (Result, error) {
	return d.Find([]byte(word))
}

// findFrom walks word starting with the transition p of the node at parent.
// index is the number of words ordered before that transition.
func (d *Dictionary) findFrom(parent int, p ptr, word []byte, index int) Result {
	for {
		if len(word) == 0 {
			return Result{
				Found:  p.final(),
				Index:  index,
				Prefix: Cursor{node: d.resolve(parent, p), final: p.final()},
			}
		}
		if p.final() {
			index++
		}
		node := d.resolve(parent, p)
		switch d.kindAt(node) {
		case KindBranches:
			b := d.branchesAt(node)
			i, ok := b.search(word[0])
			if !ok {
				return Result{}
			}
			index += b.number(i)
			parent, p, word = node, b.branch(i), word[1:]

		case KindPrefix:
			pr := d.prefixAt(node)
			n := len(pr.run)
			if len(word) < n {
				if string(word) != string(pr.run[:len(word)]) {
					return Result{}
				}
				// The query ends inside the run, resume from this node.
				return Result{Index: index, Prefix: Cursor{node: node}}
			}
			if string(word[:n]) != string(pr.run) {
				return Result{}
			}
			parent, p, word = node, pr.next, word[n:]
		}
	}
}
