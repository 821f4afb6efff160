package parser

import (
	"encoding/binary"
	"fmt"
)

// Cursor reads fixed-width fields from a byte buffer and tracks the read position.
type Cursor struct {
	data []byte
	pos  int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) Len() int {
	return len(c.data)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

func (c *Cursor) Reset() {
	c.pos = 0
}

// Seek moves the cursor to pos, clamped into [0, len-1].
func (c *Cursor) Seek(pos int) {
	if pos >= len(c.data) {
		pos = len(c.data) - 1
	}
	if pos < 0 {
		pos = 0
	}
	c.pos = pos
}

func (c *Cursor) next(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrTruncatedInput, n, c.pos, c.Remaining())
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadBytes returns the next n bytes without copying them.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	return c.next(n)
}

func (c *Cursor) ReadASCII(n int) (string, error) {
	b, err := c.next(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadU16(order binary.ByteOrder) (uint16, error) {
	b, err := c.next(2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

func (c *Cursor) ReadU32(order binary.ByteOrder) (uint32, error) {
	b, err := c.next(4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

func (c *Cursor) ReadU64(order binary.ByteOrder) (uint64, error) {
	b, err := c.next(8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(b), nil
}
