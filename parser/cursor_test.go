package parser

import (
	"encoding/binary"
	"math"
	"testing"

	"gotest.tools/v3/assert"
)

func TestCursorReads(t *testing.T) {
	data := []byte{
		0x7F,
		0x01, 0x02,
		0x01, 0x02,
		0xDE, 0xAD, 0xBE, 0xEF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFE,
		'I', 'M', 'E', 'I',
	}
	c := NewCursor(data)

	u8, err := c.ReadU8()
	assert.NilError(t, err)
	assert.Equal(t, u8, uint8(0x7F))

	be16, err := c.ReadU16(binary.BigEndian)
	assert.NilError(t, err)
	assert.Equal(t, be16, uint16(0x0102))

	le16, err := c.ReadU16(binary.LittleEndian)
	assert.NilError(t, err)
	assert.Equal(t, le16, uint16(0x0201))

	u32, err := c.ReadU32(binary.BigEndian)
	assert.NilError(t, err)
	assert.Equal(t, u32, uint32(0xDEADBEEF))

	u64, err := c.ReadU64(binary.BigEndian)
	assert.NilError(t, err)
	assert.Equal(t, u64, uint64(math.MaxUint64-1))

	s, err := c.ReadASCII(4)
	assert.NilError(t, err)
	assert.Equal(t, s, "IMEI")
	assert.Equal(t, c.Pos(), len(data))
	assert.Equal(t, c.Remaining(), 0)
}

func TestCursorTruncated(t *testing.T) {
	tests := map[string]struct {
		data []byte
		read func(c *Cursor) error
	}{
		"u8 on empty": {
			data: nil,
			read: func(c *Cursor) error { _, err := c.ReadU8(); return err },
		},
		"u16 with one byte": {
			data: []byte{1},
			read: func(c *Cursor) error { _, err := c.ReadU16(binary.BigEndian); return err },
		},
		"u32 with three bytes": {
			data: []byte{1, 2, 3},
			read: func(c *Cursor) error { _, err := c.ReadU32(binary.BigEndian); return err },
		},
		"u64 with seven bytes": {
			data: []byte{1, 2, 3, 4, 5, 6, 7},
			read: func(c *Cursor) error { _, err := c.ReadU64(binary.LittleEndian); return err },
		},
		"ascii past end": {
			data: []byte("30023401000000"),
			read: func(c *Cursor) error { _, err := c.ReadASCII(15); return err },
		},
		"bytes past end": {
			data: []byte{1, 2},
			read: func(c *Cursor) error { _, err := c.ReadBytes(3); return err },
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewCursor(test.data)
			err := test.read(c)
			assert.ErrorIs(t, err, ErrTruncatedInput)
			assert.Equal(t, c.Pos(), 0)
		})
	}
}

func TestCursorSeek(t *testing.T) {
	tests := map[string]struct {
		size int
		seek int
		want int
	}{
		"inside":       {size: 10, seek: 4, want: 4},
		"negative":     {size: 10, seek: -3, want: 0},
		"at length":    {size: 10, seek: 10, want: 9},
		"past length":  {size: 10, seek: 100, want: 9},
		"empty buffer": {size: 0, seek: 5, want: 0},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewCursor(make([]byte, test.size))
			c.Seek(test.seek)
			assert.Equal(t, c.Pos(), test.want)
		})
	}
}
