// Package builder writes dictionary files for package dictionary.
//
// Words are collected per dictionary, then laid out bottom-up: every node is
// written after the nodes it points to, so that transitions are small
// negative offsets and the root of each tree is its last node.
package builder

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/ltomes/overboard/internal/utils"
	"github.com/ltomes/overboard/pkg/dictionary"
)

var (
	ErrEmptyWord           = errors.New("empty word")
	ErrFrequency           = errors.New("frequency out of range")
	ErrTooManyLabels       = errors.New("too many transitions in a node")
	ErrTooManyWords        = errors.New("too many words")
	ErrOffsetOverflow      = errors.New("offset does not fit its field")
	ErrDuplicateName       = errors.New("duplicate dictionary name")
	ErrInvalidName         = errors.New("invalid dictionary name")
	ErrTooManyDictionaries = errors.New("too many dictionaries")
)

// emptyReach is how far back a shared empty node may be before a new one is
// written.
const emptyReach = 1 << 20

// Entry is a word and its frequency, from 0 to 15.
type Entry struct {
	Word string
	Freq int
}

// Builder accumulates the dictionaries of one file.
type Builder struct {
	dicts []*Dict
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// Dict adds a dictionary to the file. Dictionaries are stored in the order
// they are added.
func (b *Builder) Dict(name string) (*Dict, error) {
	if len(b.dicts) >= dictionary.MaxDictionaries {
		return nil, ErrTooManyDictionaries
	}
	if name == "" || bytes.IndexByte([]byte(name), 0) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, d := range b.dicts {
		if d.name == name {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	d := &Dict{name: name, trie: patricia.NewTrie()}
	b.dicts = append(b.dicts, d)
	return d, nil
}

// Dict is a dictionary under construction.
type Dict struct {
	name string
	trie *patricia.Trie
	size int
}

// Name returns the dictionary name.
func (d *Dict) Name() string { return d.name }

// Len returns the number of distinct words added so far.
func (d *Dict) Len() int { return d.size }

// Add adds a word. Adding a word twice keeps the highest frequency.
func (d *Dict) Add(word []byte, freq int) error {
	if len(word) == 0 {
		return ErrEmptyWord
	}
	if freq < 0 || freq > utils.MaxFrequency {
		return fmt.Errorf("%w: %q has frequency %d", ErrFrequency, word, freq)
	}
	key := patricia.Prefix(bytes.Clone(word))
	if item := d.trie.Get(key); item != nil {
		if freq > item.(int) {
			d.trie.Set(key, freq)
		}
		return nil
	}
	d.trie.Insert(key, freq)
	d.size++
	return nil
}

// AddEntries adds every entry, stopping at the first error.
func (d *Dict) AddEntries(entries []Entry) error {
	for _, e := range entries {
		if err := d.Add([]byte(e.Word), e.Freq); err != nil {
			return err
		}
	}
	return nil
}

type entry struct {
	word []byte
	freq int
}

// sorted lists the words in byte order, the order of word indexes. The trie
// does not visit sparse children in byte order.
func (d *Dict) sorted() []entry {
	words := make([]entry, 0, d.size)
	d.trie.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		words = append(words, entry{word: bytes.Clone(prefix), freq: item.(int)})
		return nil
	})
	slices.SortFunc(words, func(a, b entry) int { return bytes.Compare(a.word, b.word) })
	return words
}

// Build encodes every dictionary into one blob.
func (b *Builder) Build() ([]byte, error) {
	buf := make([]byte, dictionary.PrologueSize+dictionary.RecordSize*len(b.dicts))
	copy(buf, dictionary.Magic)
	buf[len(dictionary.Magic)] = dictionary.FormatVersion
	buf[len(dictionary.Magic)+1] = byte(len(b.dicts))

	for i, d := range b.dicts {
		words := d.sorted()
		if len(words) >= 1<<dictionary.Format24Bits.Bits() {
			return nil, fmt.Errorf("%s: %w: %d", d.name, ErrTooManyWords, len(words))
		}
		name := len(buf)
		buf = append(buf, d.name...)
		buf = append(buf, 0)

		e := &encoder{buf: buf, words: words, empty: -1}
		root, err := e.node(0, len(words), 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.name, err)
		}
		buf = e.buf

		freq := len(buf)
		table := make([]byte, dictionary.Format4Bits.ArraySize(len(words)))
		for idx, w := range words {
			dictionary.PutInt(table, dictionary.Format4Bits, idx, w.freq)
		}
		buf = append(buf, table...)

		if len(buf) > math.MaxInt32 {
			return nil, fmt.Errorf("%s: %w: file size %d", d.name, ErrOffsetOverflow, len(buf))
		}
		rec := buf[dictionary.PrologueSize+i*dictionary.RecordSize:]
		dictionary.PutInt32(rec[0:], name)
		dictionary.PutInt32(rec[4:], root)
		dictionary.PutInt32(rec[8:], freq)
	}
	return buf, nil
}

// Build encodes a file holding a single dictionary.
func Build(name string, entries []Entry) ([]byte, error) {
	b := New()
	d, err := b.Dict(name)
	if err != nil {
		return nil, err
	}
	if err := d.AddEntries(entries); err != nil {
		return nil, err
	}
	return b.Build()
}

// encoder writes the nodes of one dictionary. words is sorted and every word
// in a range given to node is longer than depth.
type encoder struct {
	buf   []byte
	words []entry
	empty int
}

func (e *encoder) align() {
	if len(e.buf)&1 != 0 {
		e.buf = append(e.buf, 0)
	}
}

// node writes the subtree of words[lo:hi] sharing their first depth bytes and
// returns the offset of its root.
func (e *encoder) node(lo, hi, depth int) (int, error) {
	if lo == hi {
		return e.emptyNode(), nil
	}
	first, last := e.words[lo].word[depth:], e.words[hi-1].word[depth:]
	if n := commonPrefix(first, last); n >= 2 {
		return e.prefixNode(lo, hi, depth, min(n, dictionary.MaxPrefixLength))
	}
	return e.branchesNode(lo, hi, depth)
}

// emptyNode is a branches node without transitions, the target of final
// transitions ending a leaf word. One is shared while it is close enough.
func (e *encoder) emptyNode() int {
	if e.empty >= 0 && len(e.buf)-e.empty < emptyReach {
		return e.empty
	}
	e.align()
	e.empty = len(e.buf)
	e.buf = append(e.buf, dictionary.BranchesHeader(dictionary.Format4Bits, dictionary.Format4Bits), 0)
	return e.empty
}

func (e *encoder) prefixNode(lo, hi, depth, n int) (int, error) {
	end := depth + n
	final := len(e.words[lo].word) == end
	next := lo
	if final {
		next++
	}
	child, err := e.node(next, hi, end)
	if err != nil {
		return 0, err
	}

	e.align()
	off := len(e.buf)
	p := transition(child-off, final)
	if !dictionary.Format24Bits.FitsSigned(p) {
		return 0, fmt.Errorf("%w: prefix at %d points to %d", ErrOffsetOverflow, off, child)
	}
	var hdr [dictionary.PrefixHeaderSize]byte
	hdr[0] = dictionary.PrefixHeader(n)
	dictionary.PutInt24(hdr[1:], p)
	e.buf = append(e.buf, hdr[:]...)
	e.buf = append(e.buf, e.words[lo].word[depth:end]...)
	return off, nil
}

type branch struct {
	label  byte
	child  int
	final  bool
	number int
}

func (e *encoder) branchesNode(lo, hi, depth int) (int, error) {
	var bs []branch
	for i := lo; i < hi; {
		c := e.words[i].word[depth]
		j := i + 1
		for j < hi && e.words[j].word[depth] == c {
			j++
		}
		bs = append(bs, branch{label: c, number: i - lo})
		i = j
	}
	if len(bs) > dictionary.MaxBranches {
		return 0, fmt.Errorf("%w: %d", ErrTooManyLabels, len(bs))
	}

	for k := range bs {
		start := lo + bs[k].number
		end := hi
		if k+1 < len(bs) {
			end = lo + bs[k+1].number
		}
		if len(e.words[start].word) == depth+1 {
			bs[k].final = true
			start++
		}
		child, err := e.node(start, end, depth+1)
		if err != nil {
			return 0, err
		}
		bs[k].child = child
	}

	e.align()
	off := len(e.buf)
	ptrs := make([]int, len(bs))
	numbers := make([]int, len(bs))
	for k, b := range bs {
		ptrs[k] = transition(b.child-off, b.final)
		numbers[k] = b.number
	}
	pf, ok := narrowest(ptrs, dictionary.IntFormat.FitsSigned)
	if !ok {
		return 0, fmt.Errorf("%w: branches at %d", ErrOffsetOverflow, off)
	}
	nf, ok := narrowest(numbers, dictionary.IntFormat.FitsUnsigned)
	if !ok {
		return 0, fmt.Errorf("%w: branches at %d", ErrTooManyWords, off)
	}

	n := len(bs)
	node := make([]byte, dictionary.BranchesHeaderSize+n+pf.ArraySize(n)+nf.ArraySize(n))
	node[0] = dictionary.BranchesHeader(pf, nf)
	node[1] = byte(n)
	labels := node[dictionary.BranchesHeaderSize:]
	ptrArray := labels[n:]
	numArray := ptrArray[pf.ArraySize(n):]
	for pos, k := range searchOrder(n) {
		labels[pos] = bs[k].label
		dictionary.PutInt(ptrArray, pf, pos, ptrs[k])
		dictionary.PutInt(numArray, nf, pos, numbers[k])
	}
	e.buf = append(e.buf, node...)
	return off, nil
}

func transition(rel int, final bool) int {
	if final {
		return rel | dictionary.FlagFinal
	}
	return rel
}

// narrowest returns the narrowest format holding every value.
func narrowest(values []int, fits func(dictionary.IntFormat, int) bool) (dictionary.IntFormat, bool) {
next:
	for _, f := range dictionary.Formats {
		for _, v := range values {
			if !fits(f, v) {
				continue next
			}
		}
		return f, true
	}
	return 0, false
}

// searchOrder maps the positions of an implicit binary search tree of n
// nodes, children of i at 2i+1 and 2i+2, to ranks in sorted order.
func searchOrder(n int) []int {
	order := make([]int, n)
	rank := 0
	var fill func(i int)
	fill = func(i int) {
		if i >= n {
			return
		}
		fill(2*i + 1)
		order[i] = rank
		rank++
		fill(2*i + 2)
	}
	fill(0)
	return order
}

func commonPrefix(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
