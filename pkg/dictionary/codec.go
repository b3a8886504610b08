package dictionary

import "fmt"

// IntFormat is the width of the integers stored in a packed array, counted in
// half-bytes so that the byte offset of element i is (format*i)/2. Every
// packed integer is big-endian.
type IntFormat uint8

const (
	Format4Bits  IntFormat = 1
	Format8Bits  IntFormat = 2
	Format16Bits IntFormat = 4
	Format24Bits IntFormat = 6

	// maxFormat masks the 3-bit format fields of a branches node header.
	maxFormat     = 0b111
	formatBitSize = 3
)

// Formats lists the packed formats from the narrowest to the widest.
var Formats = [...]IntFormat{Format4Bits, Format8Bits, Format16Bits, Format24Bits}

// Valid reports whether f is one of the four packed formats.
func (f IntFormat) Valid() bool {
	switch f {
	case Format4Bits, Format8Bits, Format16Bits, Format24Bits:
		return true
	}
	return false
}

func (f IntFormat) String() string {
	if !f.Valid() {
		return fmt.Sprintf("IntFormat(%d)", uint8(f))
	}
	return fmt.Sprintf("%dbits", f.Bits())
}

// Bits is the width of one element.
func (f IntFormat) Bits() int { return int(f) * 4 }

// ArraySize is the size in bytes of an array of n integers.
func (f IntFormat) ArraySize(n int) int {
	return (int(f)*n + 1) >> 1
}

// FitsSigned reports whether v can be stored in a signed array of format f.
func (f IntFormat) FitsSigned(v int) bool {
	half := 1 << (f.Bits() - 1)
	return v >= -half && v < half
}

// FitsUnsigned reports whether v can be stored in an unsigned array of format f.
func (f IntFormat) FitsUnsigned(v int) bool {
	return v >= 0 && v < 1<<f.Bits()
}

// unsignedAt decodes the i-th unsigned integer of ar. The caller guarantees
// that ar holds at least f.ArraySize(i+1) bytes.
func unsignedAt(ar []byte, f IntFormat, i int) int {
	if f == Format8Bits {
		return int(ar[i])
	}
	ar = ar[(int(f)*i)>>1:]
	switch f {
	case Format4Bits:
		if i&1 != 0 {
			return int(ar[0] >> 4)
		}
		return int(ar[0] & 0xF)
	case Format16Bits:
		return int(ar[0])<<8 | int(ar[1])
	}
	return int(ar[0])<<16 | int(ar[1])<<8 | int(ar[2])
}

// signedAt decodes the i-th two's complement integer of ar.
func signedAt(ar []byte, f IntFormat, i int) int {
	if f == Format8Bits {
		return int(int8(ar[i]))
	}
	ar = ar[(int(f)*i)>>1:]
	switch f {
	case Format4Bits:
		if i&1 != 0 {
			return int(int8(ar[0]) >> 4)
		}
		return int(int8(ar[0]<<4) >> 4)
	case Format16Bits:
		return int(int16(uint16(ar[0])<<8 | uint16(ar[1])))
	}
	return decodeInt24(ar)
}

// PutInt stores the low f.Bits() bits of v as the i-th element of ar. Signed
// and unsigned values share the same encoding, the reader decides how to
// extend them. Nibbles are filled low half first.
func PutInt(ar []byte, f IntFormat, i, v int) {
	switch f {
	case Format4Bits:
		b := &ar[i>>1]
		if i&1 != 0 {
			*b = *b&0x0F | byte(v&0xF)<<4
		} else {
			*b = *b&0xF0 | byte(v&0xF)
		}
	case Format8Bits:
		ar[i] = byte(v)
	case Format16Bits:
		ar[2*i] = byte(v >> 8)
		ar[2*i+1] = byte(v)
	default:
		PutInt24(ar[3*i:], v)
	}
}

func decodeInt24(b []byte) int {
	return int(int32(uint32(b[0])<<24|uint32(b[1])<<16|uint32(b[2])<<8) >> 8)
}

func decodeInt32(b []byte) int {
	return int(int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])))
}

// PutInt24 writes v as a big-endian 24-bit integer.
func PutInt24(b []byte, v int) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

// PutInt32 writes v as a big-endian 32-bit integer.
func PutInt32(b []byte, v int) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
