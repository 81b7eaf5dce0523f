package wire

import (
	"encoding/binary"
)

// Scalar is the set of fixed-size values transferred by Write and Read.
type Scalar interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64
}

// Write writes v in little-endian byte order at the cursor. An unaligned
// cursor bit-splices the bytes.
func Write[T Scalar](e *Encoder, v T) {
	buf, err := binary.Append(nil, binary.LittleEndian, v)
	if err != nil {
		// Unreachable: every Scalar has a fixed size
		panic(err)
	}
	e.stream.WriteBytes(buf)
}

// WriteSlice writes each element of values with Write.
func WriteSlice[T Scalar](e *Encoder, values []T) {
	if len(values) == 0 {
		return
	}
	buf, err := binary.Append(nil, binary.LittleEndian, values)
	if err != nil {
		panic(err)
	}
	e.stream.WriteBytes(buf)
}

// Read reads a little-endian T at the cursor. On a read overrun the stream
// records the fault and the zero value is returned.
func Read[T Scalar](d *Decoder) T {
	return read[T](d, false)
}

// Peek is Read without moving the cursor.
func Peek[T Scalar](d *Decoder) T {
	return read[T](d, true)
}

func read[T Scalar](d *Decoder, peek bool) T {
	var v T
	buf := make([]byte, binary.Size(v))
	if peek {
		d.stream.PeekBytes(buf)
	} else {
		d.stream.ReadBytes(buf)
	}
	if _, err := binary.Decode(buf, binary.LittleEndian, &v); err != nil {
		panic(err)
	}
	return v
}

// ReadSlice reads count consecutive values of T. On a read overrun the
// stream records the fault and nil is returned.
func ReadSlice[T Scalar](d *Decoder, count int) []T {
	if count <= 0 {
		return []T{}
	}
	var (
		values = make([]T, count)
		buf    = make([]byte, binary.Size(values))
		before = d.stream.Pos()
	)
	d.stream.ReadBytes(buf)
	if d.stream.Pos() == before {
		return nil
	}
	if _, err := binary.Decode(buf, binary.LittleEndian, values); err != nil {
		panic(err)
	}
	return values
}
