package dictionary

import "fmt"

// Node kinds, stored in the low bit of the first byte of every node.
const (
	KindBranches = 0b0
	KindPrefix   = 0b1

	kindMask    = 0b1
	kindBitSize = 1
)

const (
	// FlagFinal is the low bit of a transition, set when it ends a word.
	FlagFinal = 0b1

	// BranchesHeaderSize is the header byte and the length byte of a
	// branches node. Labels, pointers and numbers follow.
	BranchesHeaderSize = 2

	// PrefixHeaderSize is the header byte and the 24-bit next pointer of a
	// prefix node. The literal run follows.
	PrefixHeaderSize = 4

	// MaxBranches is the largest number of transitions of a branches node.
	MaxBranches = 255

	// MaxPrefixLength is the longest literal run of a prefix node.
	MaxPrefixLength = 0xFF >> kindBitSize

	ptrFormatShift = kindBitSize
	numFormatShift = ptrFormatShift + formatBitSize

	// maxDepth bounds the recursion of traversals, reached only when offsets
	// form a cycle.
	maxDepth = 1 << 16
)

// BranchesHeader encodes the first byte of a branches node.
func BranchesHeader(ptrs, numbers IntFormat) byte {
	return byte(KindBranches | uint8(ptrs)<<ptrFormatShift | uint8(numbers)<<numFormatShift)
}

// PrefixHeader encodes the first byte of a prefix node.
func PrefixHeader(length int) byte {
	return byte(KindPrefix | length<<kindBitSize)
}

// ptr is a transition: an offset relative to the node that stores it,
// with the final flag in the low bit. The zero ptr designates the node itself.
type ptr int

func (p ptr) final() bool { return p&FlagFinal != 0 }

func (p ptr) offset() int { return int(p &^ FlagFinal) }

// corruptError is raised with panic by the bounds checks of the node decoders
// and turned into an error by recoverCorrupt at the API boundary.
type corruptError struct {
	off  int
	what string
}

func (e corruptError) Error() string {
	return fmt.Sprintf("%v: %s at offset %d", ErrCorrupt, e.what, e.off)
}

func (e corruptError) Unwrap() error { return ErrCorrupt }

func recoverCorrupt(err *error) {
	if r := recover(); r != nil {
		ce, ok := r.(corruptError)
		if !ok {
			panic(r)
		}
		*err = ce
	}
}

// resolve returns the absolute offset of the node targeted by p.
func (d *Dictionary) resolve(parent int, p ptr) int {
	off := parent + p.offset()
	if off < PrologueSize || off >= len(d.data) {
		panic(corruptError{off: off, what: "node pointer"})
	}
	return off
}

func (d *Dictionary) kindAt(off int) int {
	return int(d.data[off] & kindMask)
}

// branches is a decoded branches node. Its slices alias the blob.
type branches struct {
	labels  []byte
	ptrs    []byte
	numbers []byte
	ptrFmt  IntFormat
	numFmt  IntFormat
}

func (d *Dictionary) branchesAt(off int) branches {
	if off+BranchesHeaderSize > len(d.data) {
		panic(corruptError{off: off, what: "branches header"})
	}
	h := d.data[off]
	n := int(d.data[off+1])
	b := branches{
		ptrFmt: IntFormat(h >> ptrFormatShift & maxFormat),
		numFmt: IntFormat(h >> numFormatShift & maxFormat),
	}
	if !b.ptrFmt.Valid() || !b.numFmt.Valid() {
		panic(corruptError{off: off, what: "branches format"})
	}
	labels := off + BranchesHeaderSize
	ptrs := labels + n
	numbers := ptrs + b.ptrFmt.ArraySize(n)
	end := numbers + b.numFmt.ArraySize(n)
	if end > len(d.data) {
		panic(corruptError{off: off, what: "branches node"})
	}
	b.labels = d.data[labels:ptrs]
	b.ptrs = d.data[ptrs:numbers]
	b.numbers = d.data[numbers:end]
	return b
}

func (b *branches) len() int { return len(b.labels) }

func (b *branches) branch(i int) ptr { return ptr(signedAt(b.ptrs, b.ptrFmt, i)) }

func (b *branches) number(i int) int { return unsignedAt(b.numbers, b.numFmt, i) }

// search finds the transition labelled c. Labels are laid out as a binary
// search tree: the children of i are 2i+1 and 2i+2.
func (b *branches) search(c byte) (int, bool) {
	for i := 0; i < len(b.labels); {
		l := b.labels[i]
		switch {
		case c == l:
			return i, true
		case c < l:
			i = i*2 + 1
		default:
			i = i*2 + 2
		}
	}
	return 0, false
}

// prefix is a decoded prefix node.
type prefix struct {
	run  []byte
	next ptr
}

func (d *Dictionary) prefixAt(off int) prefix {
	if off+PrefixHeaderSize > len(d.data) {
		panic(corruptError{off: off, what: "prefix header"})
	}
	n := int(d.data[off] >> kindBitSize)
	start := off + PrefixHeaderSize
	if n == 0 || start+n > len(d.data) {
		panic(corruptError{off: off, what: "prefix node"})
	}
	return prefix{
		run:  d.data[start : start+n],
		next: ptr(decodeInt24(d.data[off+1:])),
	}
}
