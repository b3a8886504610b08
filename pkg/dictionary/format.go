/*
Package dictionary reads compact, read-only word dictionaries.

A dictionary file is a single byte blob holding one or more radix trees. The
blob is never parsed into objects: every operation walks the packed bytes
directly, so opening a dictionary costs one header check and no allocation.

# Layout

All integers are big-endian.

	+---------------------------+  "Dic", format version, dictionary count
	| prologue (5 bytes)        |
	+---------------------------+  per dictionary: name, root node and
	| records (12 bytes each)   |  frequency table absolute offsets (int32)
	+---------------------------+
	| names, nodes, freq tables |
	+---------------------------+

Nodes are either branches (several one-byte transitions, labels stored as an
implicit binary search tree) or prefixes (a literal run of bytes followed by a
single transition). The low bit of the first byte of a node is its kind.

A transition is a signed offset relative to the node that stores it. Its low
bit is the final flag: the path up to and including the transition spells a
word.

# Word indexes

Words are numbered in lexicographic order, starting at 0. The index is never
stored, it is accumulated while walking: each branch stores the number of words
reachable through the branches ordered before it and every final transition
passed on the way counts one more word. The index is the key into the 4-bit
frequency table and the argument of [Dictionary.Word].

# Safety

The blob must not be modified while a [Header] or [Dictionary] derived from it
is in use. Offsets read from the blob are checked against its bounds and
traversals report [ErrCorrupt] rather than reading outside of it.
*/
package dictionary

import (
	"bytes"
	"errors"
	"fmt"
)

const (
	// FormatVersion is the only format version this package reads.
	FormatVersion = 0

	// Magic starts every dictionary blob.
	Magic = "Dic"

	// PrologueSize is the size of the magic, version and count fields.
	PrologueSize = len(Magic) + 2

	// RecordSize is the size of a per-dictionary record.
	RecordSize = 12

	// MaxDictionaries is the largest count the prologue can store.
	MaxDictionaries = 255
)

var (
	ErrNotADictionary    = errors.New("dictionary: not a dictionary")
	ErrUnsupportedFormat = errors.New("dictionary: unsupported format")
	ErrCorrupt           = errors.New("dictionary: corrupt dictionary data")
	ErrDictionaryIndex   = errors.New("dictionary: dictionary index out of range")
	ErrRankOutOfRange    = errors.New("dictionary: word index out of range")
	ErrNotFound          = errors.New("dictionary: no dictionary with that name")
)

// Version returns the format version of the dictionaries this package can
// open. Dictionaries built for another version are rejected by [Open].
func Version() int { return FormatVersion }

// Header is an opened dictionary blob.
type Header struct {
	data  []byte
	count int
}

// Open checks the prologue of data and returns the header of the blob. The
// data is not copied. Offsets stored in the dictionary records are only
// resolved by [Header.Dictionary].
func Open(data []byte) (*Header, error) {
	if len(data) < PrologueSize || string(data[:len(Magic)]) != Magic {
		return nil, ErrNotADictionary
	}
	if v := data[len(Magic)]; v != FormatVersion {
		return nil, fmt.Errorf("%w: version %d, supported %d", ErrUnsupportedFormat, v, FormatVersion)
	}
	return &Header{
		data:  data,
		count: int(data[len(Magic)+1]),
	}, nil
}

// Count is the number of dictionaries stored in the blob.
func (h *Header) Count() int { return h.count }

// Size is the size of the blob in bytes.
func (h *Header) Size() int { return len(h.data) }

// Dictionary returns the i-th dictionary of the blob, i in [0, Count()).
func (h *Header) Dictionary(i int) (*Dictionary, error) {
	if i < 0 || i >= h.count {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrDictionaryIndex, i, h.count)
	}
	rec := PrologueSize + i*RecordSize
	if rec+RecordSize > len(h.data) {
		return nil, fmt.Errorf("%w: record %d is truncated", ErrCorrupt, i)
	}
	nameOff := decodeInt32(h.data[rec:])
	root := decodeInt32(h.data[rec+4:])
	freq := decodeInt32(h.data[rec+8:])

	if nameOff < 0 || nameOff >= len(h.data) {
		return nil, fmt.Errorf("%w: name offset %d", ErrCorrupt, nameOff)
	}
	end := bytes.IndexByte(h.data[nameOff:], 0)
	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated name at %d", ErrCorrupt, nameOff)
	}
	if root < PrologueSize || root >= len(h.data) {
		return nil, fmt.Errorf("%w: root offset %d", ErrCorrupt, root)
	}
	if freq < 0 || freq > len(h.data) {
		return nil, fmt.Errorf("%w: frequency table offset %d", ErrCorrupt, freq)
	}
	return &Dictionary{
		name: string(h.data[nameOff : nameOff+end]),
		data: h.data,
		root: root,
		freq: freq,
	}, nil
}

// Dictionaries returns every dictionary of the blob, in record order.
func (h *Header) Dictionaries() ([]*Dictionary, error) {
	dicts := make([]*Dictionary, 0, h.count)
	for i := 0; i < h.count; i++ {
		d, err := h.Dictionary(i)
		if err != nil {
			return nil, err
		}
		dicts = append(dicts, d)
	}
	return dicts, nil
}

// Lookup returns the first dictionary named name.
func (h *Header) Lookup(name string) (*Dictionary, error) {
	for i := 0; i < h.count; i++ {
		d, err := h.Dictionary(i)
		if err != nil {
			return nil, err
		}
		if d.name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Dictionary is a view of one radix tree of a blob. It owns no memory and is
// safe for concurrent use.
type Dictionary struct {
	name string
	data []byte
	root int
	freq int
}

// Name is the name stored in the dictionary record.
func (d *Dictionary) Name() string { return d.name }

// Freq returns the frequency, from 0 to 15, of the word at index. The index
// is not checked to name a word, only to be inside the frequency table's
// storage.
func (d *Dictionary) Freq(index int) (int, error) {
	if index < 0 {
		return 0, fmt.Errorf("%w: %d", ErrRankOutOfRange, index)
	}
	off := d.freq + index/2
	if off >= len(d.data) {
		return 0, fmt.Errorf("%w: frequency of %d at %d", ErrCorrupt, index, off)
	}
	return d.freqAt(index), nil
}

// freqAt is Freq for the indexes produced by a traversal; out of bounds
// reads panic with a corruptError, recovered by the public entry points.
func (d *Dictionary) freqAt(index int) int {
	off := d.freq + index/2
	if off < 0 || off >= len(d.data) {
		panic(corruptError{off: off, what: "frequency table"})
	}
	f := d.data[off]
	if index&1 != 0 {
		f >>= 4
	}
	return int(f & 0xF)
}
