package dictionary

import "fmt"

// DefaultMaxWordLength is the length limit of [Dictionary.Word].
const DefaultMaxWordLength = 256

// Word returns the word at index, truncated to DefaultMaxWordLength bytes.
func (d *Dictionary) Word(index int) ([]byte, error) {
	return d.AppendWord(nil, index, DefaultMaxWordLength)
}

// WordString is Word returning a string.
func (d *Dictionary) WordString(index int) (string, error) {
	w, err := d.Word(index)
	return string(w), err
}

// AppendWord appends the word at index to dst. At most maxLength bytes are
// appended, longer words are silently truncated. An index that does not name
// a word gives ErrRankOutOfRange.
func (d *Dictionary) AppendWord(dst []byte, index, maxLength int) (w []byte, err error) {
	if index < 0 {
		return dst, fmt.Errorf("%w: %d", ErrRankOutOfRange, index)
	}
	defer recoverCorrupt(&err)
	w, ok := d.appendWord(dst, index, maxLength)
	if !ok {
		return w, fmt.Errorf("%w: %d", ErrRankOutOfRange, index)
	}
	return w, nil
}

// appendWord replays the path of the word at index. At a branches node the
// chosen transition is the one with the largest number not exceeding the
// remaining index, numbers being ordered like labels.
func (d *Dictionary) appendWord(dst []byte, index, maxLength int) ([]byte, bool) {
	limit := len(dst) + maxLength
	parent, p := d.root, ptr(0)
	for len(dst) < limit {
		node := d.resolve(parent, p)
		if p.final() {
			if index == 0 {
				return dst, true
			}
			index--
		}
		switch d.kindAt(node) {
		case KindBranches:
			b := d.branchesAt(node)
			var (
				next   ptr
				number int
				label  byte
				found  bool
			)
			for i := 0; i < b.len(); {
				if n := b.number(i); n > index {
					i = i*2 + 1
				} else {
					next, number, label, found = b.branch(i), n, b.labels[i], true
					i = i*2 + 2
				}
			}
			if !found {
				return dst, false
			}
			dst = append(dst, label)
			index -= number
			parent, p = node, next

		case KindPrefix:
			pr := d.prefixAt(node)
			run := pr.run
			if room := limit - len(dst); len(run) > room {
				run = run[:room]
			}
			dst = append(dst, run...)
			parent, p = node, pr.next
		}
	}
	return dst, true
}
