package fulltext

import (
	"encoding/binary"
	"fmt"
	"iter"
)

// Compressed integers ("nums") store postings and per-document term streams.
//
// The two high bits of the first byte select the length class:
//
//	00xxxxxx                               0 .. 63
//	01xxxxxx xxxxxxxx                      64 .. 16383
//	10xxxxxx xxxxxxxx xxxxxxxx xxxxxxxx    16384 .. 2^30-1
//	11000000 + 4 bytes big endian          everything else, negatives included
//
// A num array prefixes a packed run of nums with a 4-byte big-endian header
// holding the total number of bytes written, header included. The header
// allows appending without rescanning the run.

// NumArrayHeader is the size of the length header of a num array.
const NumArrayHeader = 4

// NumLength returns the number of bytes needed to store v.
func NumLength(v int32) int {
	u := uint32(v)
	switch {
	case u < 1<<6:
		return 1
	case u < 1<<14:
		return 2
	case u < 1<<30:
		return 4
	default:
		return 5
	}
}

// EncodeNum returns the compressed representation of v.
func EncodeNum(v int32) []byte {
	buf := make([]byte, NumLength(v))
	PutNum(buf, 0, v)
	return buf
}

// AppendNum appends the compressed representation of v to dst.
func AppendNum(dst []byte, v int32) []byte {
	n := NumLength(v)
	off := len(dst)
	for i := 0; i < n; i++ {
		dst = append(dst, 0)
	}
	PutNum(dst, off, v)
	return dst
}

// PutNum writes v at off and returns the number of bytes written.
// The buffer must have room for NumLength(v) bytes.
func PutNum(buf []byte, off int, v int32) int {
	u := uint32(v)
	switch n := NumLength(v); n {
	case 1:
		buf[off] = byte(u)
		return 1
	case 2:
		buf[off] = byte(u>>8) | 0x40
		buf[off+1] = byte(u)
		return 2
	case 4:
		buf[off] = byte(u>>24) | 0x80
		buf[off+1] = byte(u >> 16)
		buf[off+2] = byte(u >> 8)
		buf[off+3] = byte(u)
		return 4
	default:
		buf[off] = 0xC0
		binary.BigEndian.PutUint32(buf[off+1:], u)
		return 5
	}
}

// DecodeNum reads the num stored at off and returns its value and length.
// Decoding outside the buffer is a programming error and panics.
func DecodeNum(buf []byte, off int) (int32, int) {
	if off < 0 || off >= len(buf) {
		panic(fmt.Sprintf("fulltext: num offset %d out of range [0,%d)", off, len(buf)))
	}
	b := buf[off]
	switch b >> 6 {
	case 0:
		return int32(b), 1
	case 1:
		return int32(b&0x3F)<<8 | int32(buf[off+1]), 2
	case 2:
		return int32(b&0x3F)<<24 | int32(buf[off+1])<<16 | int32(buf[off+2])<<8 | int32(buf[off+3]), 4
	default:
		return int32(binary.BigEndian.Uint32(buf[off+1 : off+5])), 5
	}
}

// NewNumArray creates a num array holding the given values.
func NewNumArray(values ...int32) []byte {
	size := NumArrayHeader
	for _, v := range values {
		size += NumLength(v)
	}
	arr := make([]byte, size)
	off := NumArrayHeader
	for _, v := range values {
		off += PutNum(arr, off, v)
	}
	binary.BigEndian.PutUint32(arr, uint32(size))
	return arr
}

// NumArraySize returns the number of bytes written to a num array,
// header included.
func NumArraySize(arr []byte) int {
	return int(binary.BigEndian.Uint32(arr))
}

// NumArrayAppend appends v to a num array and returns the array, which is
// reallocated if its capacity is exceeded. Growth is the larger of the
// appended length and an eighth of the current capacity.
func NumArrayAppend(arr []byte, v int32) []byte {
	if len(arr) < NumArrayHeader {
		return NewNumArray(v)
	}
	size := NumArraySize(arr)
	n := NumLength(v)
	if size+n > cap(arr) {
		grown := make([]byte, size, cap(arr)+max(n, cap(arr)>>3))
		copy(grown, arr[:size])
		arr = grown
	}
	arr = arr[:size+n]
	PutNum(arr, size, v)
	binary.BigEndian.PutUint32(arr, uint32(size+n))
	return arr
}

// NumArrayValues iterates over the values of a num array.
func NumArrayValues(arr []byte) iter.Seq[int32] {
	return func(yield func(int32) bool) {
		if len(arr) < NumArrayHeader {
			return
		}
		size := NumArraySize(arr)
		for off := NumArrayHeader; off < size; {
			v, n := DecodeNum(arr, off)
			off += n
			if !yield(v) {
				return
			}
		}
	}
}

// NumArrayLen returns the number of values stored in a num array.
func NumArrayLen(arr []byte) int {
	n := 0
	for range NumArrayValues(arr) {
		n++
	}
	return n
}
