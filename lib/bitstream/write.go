package bitstream

import (
	"encoding/binary"
	"errors"

	"github.com/thebagchi/bitstream-go/internal/logger"
)

// WriteBytes writes data at the cursor and advances it by len(data)*8 bits.
// An aligned cursor copies the bytes over whatever is there; an unaligned
// cursor OR-merges them through WriteBits. The buffer grows by exactly the
// missing number of bytes.
func (s *Stream) WriteBytes(data []byte) {
	n := len(data)
	if n == 0 {
		return
	}
	if EnableTrace {
		s.Trace("ENTER", "WriteBytes", logger.KeyBytes, n)
		defer s.Trace("EXIT", "WriteBytes")
	}

	// Unaligned cursor: bytes straddle destination bytes
	if s.pos&7 != 0 {
		s.WriteBits(data, uint64(n)*BITS_PER_BYTE)
		return
	}

	if remaining := s.RemainingBytes(); remaining < n {
		s.grow(n - remaining)
	}

	head := s.pos >> 3
	copy((*s.buf)[head:], data)
	s.pos += uint64(n) * BITS_PER_BYTE
}

// WriteBit sets or clears the bit under the cursor and advances by one.
// Sibling bits in the same byte are left untouched. A cursor at the end grows
// the buffer by one zero byte first.
func (s *Stream) WriteBit(value bool) {
	if s.RemainingBits() < 1 {
		s.grow(1)
	}
	var (
		index = s.pos >> 3
		bit   = byte(0x80) >> (s.pos & 7)
	)
	if value {
		(*s.buf)[index] |= bit
	} else {
		(*s.buf)[index] &^= bit
	}
	s.pos++
}

// WriteBits writes the first num bits of data at the cursor.
//
// data is laid out the way ReadBits fills its output: full bytes in stream
// order, and when num is not a multiple of 8 the last byte contributes its
// low-order num%8 bits. Bits are OR-merged into the buffer, so the target
// bits are expected to be zero (fresh growth always is). The buffer grows to
// the minimum whole number of bytes that holds the run; it never shrinks.
//
// Implementation notes:
//   - Each iteration consumes one source byte. Its leading bits fill the
//     8 - pos%8 bits left in the current destination byte; bits that do not
//     fit are shifted to the top of the next destination byte.
//   - Source bits outside the requested run are masked off, so stray high
//     bits in a trailing partial byte never leak into neighbouring fields.
func (s *Stream) WriteBits(data []byte, num uint64) {
	if num == 0 {
		return
	}
	if EnableTrace {
		s.Trace("ENTER", "WriteBits", logger.KeyBits, num)
		defer s.Trace("EXIT", "WriteBits")
	}

	// Fast path: aligned cursor and whole bytes
	if s.pos&7 == 0 && num&7 == 0 {
		s.WriteBytes(data[:num>>3])
		return
	}

	if remaining := s.RemainingBits(); remaining < num {
		var (
			needed = s.SizeBits() + num - remaining
			total  = int((needed + 7) >> 3)
		)
		s.grow(total - len(*s.buf))
	}

	var (
		dst     = *s.buf
		pending = num
		i       = 0
	)
	for {
		var (
			index = s.pos >> 3
			left  = BITS_PER_BYTE - (s.pos & 7) // room left in the destination byte
		)

		if left >= pending {
			// The current destination byte finishes the run
			gap := left - pending
			dst[index] |= (data[i] & mask(pending)) << gap
			s.pos += pending
			break
		}

		var (
			take    = min(pending, BITS_PER_BYTE)
			overlap = take - left // bits that spill into the next byte
			chunk   = data[i] & mask(take)
		)
		dst[index] |= chunk >> overlap
		dst[index+1] |= chunk << (BITS_PER_BYTE - overlap)

		s.pos += take
		pending -= take
		if pending == 0 {
			break
		}
		i++
	}
}

// WriteUint writes the least significant num bits (1..64) of value.
// The value is laid out little-endian: low-order byte first, each byte
// MSB-first, and a trailing partial byte carrying the highest num%8 bits.
func (s *Stream) WriteUint(value uint64, num uint8) error {
	if num == 0 || num > 64 {
		return errors.New("bit count must be between 1 and 64")
	}
	tmp := [TMP_ARRAY_SIZE]byte{}
	binary.LittleEndian.PutUint64(tmp[:], value&umask(num))
	s.WriteBits(tmp[:], uint64(num))
	return nil
}
