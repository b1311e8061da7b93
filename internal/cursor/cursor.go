// Package cursor provides a bounds-checked, absolute-offset view over a
// byte slice.
//
// The TEF format is pointer-chased rather than streamed: a "debt" marker,
// found by searching the file, is followed by a pointer to the component
// region; an
// instrument table is found by scanning for name anchors and then walking
// backward from them. None of this fits the sequential io.Reader model
// mewkiz/flac's bufseekio wraps, so Cursor takes an explicit offset on
// every read instead of tracking a read position.
package cursor

import (
	"bytes"
	"fmt"
)

// OutOfBoundsError is returned whenever a read would overrun the
// underlying buffer.
type OutOfBoundsError struct {
	Requested int
	FileLen   int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("cursor: out of bounds; requested offset %d, file length %d", e.Requested, e.FileLen)
}

// A Cursor is an immutable, bounds-checked view over a byte slice.
type Cursor struct {
	data []byte
}

// New returns a Cursor over data. The Cursor does not copy data.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Bytes returns the underlying buffer. Callers must not mutate it.
func (c *Cursor) Bytes() []byte {
	return c.data
}

func (c *Cursor) checkRange(off, n int) error {
	if off < 0 || n < 0 || off+n > len(c.data) {
		return &OutOfBoundsError{Requested: off + n, FileLen: len(c.data)}
	}
	return nil
}

// U8 reads a single byte at off.
func (c *Cursor) U8(off int) (uint8, error) {
	if err := c.checkRange(off, 1); err != nil {
		return 0, err
	}
	return c.data[off], nil
}

// U16LE reads a little-endian 16-bit integer at off.
func (c *Cursor) U16LE(off int) (uint16, error) {
	if err := c.checkRange(off, 2); err != nil {
		return 0, err
	}
	return uint16(c.data[off]) | uint16(c.data[off+1])<<8, nil
}

// U32LE reads a little-endian 32-bit integer at off.
func (c *Cursor) U32LE(off int) (uint32, error) {
	if err := c.checkRange(off, 4); err != nil {
		return 0, err
	}
	return uint32(c.data[off]) |
		uint32(c.data[off+1])<<8 |
		uint32(c.data[off+2])<<16 |
		uint32(c.data[off+3])<<24, nil
}

// Slice returns a fixed-width view data[off:off+n]. The returned slice
// aliases the underlying buffer.
func (c *Cursor) Slice(off, n int) ([]byte, error) {
	if err := c.checkRange(off, n); err != nil {
		return nil, err
	}
	return c.data[off : off+n], nil
}

// Find returns the offset of the first occurrence of needle at or after
// start, or ok=false if needle does not occur.
func (c *Cursor) Find(needle []byte, start int) (off int, ok bool) {
	if start < 0 {
		start = 0
	}
	if start > len(c.data) {
		return 0, false
	}
	idx := indexFrom(c.data, needle, start)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

func indexFrom(haystack, needle []byte, start int) int {
	if len(needle) == 0 || start >= len(haystack) {
		return -1
	}
	idx := bytes.Index(haystack[start:], needle)
	if idx < 0 {
		return -1
	}
	return start + idx
}
