package wire

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// EncodeStringLength writes a string length prefix.
//
// Lengths below 128 take one octet, 0x80|length. Longer lengths take two
// octets, high octet first, with the top bit clear; that is why lengths above
// MAX_STRING_LENGTH cannot be represented.
func (e *Encoder) EncodeStringLength(length int) error {
	if length < 0 || length > MAX_STRING_LENGTH {
		return fmt.Errorf("%w: %d", ErrStringTooLong, length)
	}
	if length <= MAX_SHORT_LENGTH {
		e.stream.WriteBytes([]byte{SHORT_LENGTH_FLAG | byte(length)})
		return nil
	}
	// NOTE: high octet first, the reverse of the scalar byte order
	e.stream.WriteBytes([]byte{byte(length >> 8), byte(length)})
	return nil
}

// DecodeStringLength reads a string length prefix. On a read overrun the
// stream records the fault and the partial result is returned.
func (d *Decoder) DecodeStringLength() int {
	first := make([]byte, 1)
	d.stream.ReadBits(first, 8)
	if first[0]&SHORT_LENGTH_FLAG != 0 {
		return int(first[0] &^ SHORT_LENGTH_FLAG)
	}
	second := make([]byte, 1)
	d.stream.ReadBits(second, 8)
	return int(first[0])<<8 | int(second[0])
}

// EncodeString writes a length prefix, aligns the cursor, then writes the
// string's bytes.
func (e *Encoder) EncodeString(s string) error {
	if err := e.EncodeStringLength(len(s)); err != nil {
		return err
	}
	e.stream.AlignPos()
	e.stream.WriteBytes([]byte(s))
	return nil
}

// DecodeString reads a string written by EncodeString. On a read overrun the
// stream records the fault and an empty string is returned.
func (d *Decoder) DecodeString() string {
	length := d.DecodeStringLength()
	d.stream.AlignPos()
	if length == 0 {
		return ""
	}
	buf := make([]byte, length)
	before := d.stream.Pos()
	d.stream.ReadBytes(buf)
	if d.stream.Pos() == before {
		return ""
	}
	return string(buf)
}

// EncodeWideString writes a length prefix counting UTF-16 code units, aligns
// the cursor, then writes two little-endian octets per unit.
func (e *Encoder) EncodeWideString(units []uint16) error {
	if err := e.EncodeStringLength(len(units)); err != nil {
		return err
	}
	e.stream.AlignPos()
	payload := make([]byte, 0, len(units)*2)
	for _, u := range units {
		payload = binary.LittleEndian.AppendUint16(payload, u)
	}
	e.stream.WriteBytes(payload)
	return nil
}

// DecodeWideString reads code units written by EncodeWideString. On a read
// overrun the stream records the fault and nil is returned.
func (d *Decoder) DecodeWideString() []uint16 {
	length := d.DecodeStringLength()
	d.stream.AlignPos()
	if length == 0 {
		return []uint16{}
	}
	var (
		payload = make([]byte, length*2)
		before  = d.stream.Pos()
	)
	d.stream.ReadBytes(payload)
	if d.stream.Pos() == before {
		return nil
	}
	units := make([]uint16, length)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(payload[i*2:])
	}
	return units
}

// EncodeUTF16 writes s as a wide string.
func (e *Encoder) EncodeUTF16(s string) error {
	return e.EncodeWideString(utf16.Encode([]rune(s)))
}

// DecodeUTF16 reads a wide string and converts it to UTF-8.
func (d *Decoder) DecodeUTF16() string {
	return string(utf16.Decode(d.DecodeWideString()))
}
