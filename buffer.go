package classfile

import (
	"encoding/binary"
	"math"
)

// byteCursor is a thin, bounds-checked, absolute-offset view over a
// borrowed byte slice. It has no streaming position: every read names the
// offset it starts at, mirroring a class file's own random-access layout
// (attribute lengths and constant pool offsets are themselves absolute).
type byteCursor struct {
	data []byte
}

func newByteCursor(data []byte) byteCursor {
	return byteCursor{data: data}
}

func (c byteCursor) len() int { return len(c.data) }

func (c byteCursor) bytes(index, n int) ([]byte, error) {
	if index < 0 || n < 0 || index+n > len(c.data) {
		end := index + n - 1
		if end < index {
			end = index
		}
		return nil, errOutOfBounds(end, len(c.data))
	}
	return c.data[index : index+n], nil
}

func (c byteCursor) u8(index int) (uint8, error) {
	b, err := c.bytes(index, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c byteCursor) u16(index int) (uint16, error) {
	b, err := c.bytes(index, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c byteCursor) u32(index int) (uint32, error) {
	b, err := c.bytes(index, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c byteCursor) u64(index int) (uint64, error) {
	b, err := c.bytes(index, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (c byteCursor) i8(index int) (int8, error) {
	v, err := c.u8(index)
	return int8(v), err
}

func (c byteCursor) i16(index int) (int16, error) {
	v, err := c.u16(index)
	return int16(v), err
}

func (c byteCursor) i32(index int) (int32, error) {
	v, err := c.u32(index)
	return int32(v), err
}

func (c byteCursor) i64(index int) (int64, error) {
	v, err := c.u64(index)
	return int64(v), err
}

func (c byteCursor) f32(index int) (float32, error) {
	v, err := c.u32(index)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (c byteCursor) f64(index int) (float64, error) {
	v, err := c.u64(index)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// slice returns a bounds-checked sub-cursor over [lo, hi).
func (c byteCursor) slice(lo, hi int) (byteCursor, error) {
	if lo < 0 || hi < lo || hi > len(c.data) {
		end := hi - 1
		if end < lo {
			end = lo
		}
		return byteCursor{}, errOutOfBounds(end, len(c.data))
	}
	return byteCursor{data: c.data[lo:hi]}, nil
}
