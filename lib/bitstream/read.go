package bitstream

import (
	"encoding/binary"
	"errors"

	"github.com/thebagchi/bitstream-go/internal/logger"
)

// ReadBit returns the next bit and advances the cursor by one.
// Records FaultReadOverrun and returns false when no bit remains.
func (s *Stream) ReadBit() bool {
	return s.readBit(false)
}

// PeekBit returns the next bit without moving the cursor.
func (s *Stream) PeekBit() bool {
	return s.readBit(true)
}

func (s *Stream) readBit(peek bool) bool {
	if s.RemainingBits() < 1 {
		s.setFault(FaultReadOverrun, "ReadBit")
		return false
	}
	var (
		cur   = (*s.buf)[s.pos>>3]
		shift = 7 - (s.pos & 7)
	)
	if !peek {
		s.pos++
	}
	return (cur>>shift)&1 != 0
}

// ReadBytes copies the next len(out) bytes into out and advances the cursor.
// An unaligned cursor is handled by the bit-splice path.
// Records FaultReadOverrun, leaving out and the cursor untouched, when fewer
// than len(out) complete bytes remain.
func (s *Stream) ReadBytes(out []byte) {
	s.readBytes(out, false)
}

// PeekBytes is ReadBytes without moving the cursor.
func (s *Stream) PeekBytes(out []byte) {
	s.readBytes(out, true)
}

func (s *Stream) readBytes(out []byte, peek bool) {
	n := len(out)
	if n == 0 {
		return
	}
	if EnableTrace {
		s.Trace("ENTER", "ReadBytes", logger.KeyBytes, n)
		defer s.Trace("EXIT", "ReadBytes")
	}

	// Unaligned cursor: bytes straddle source bytes
	if s.pos&7 != 0 {
		s.readBits(out, uint64(n)*BITS_PER_BYTE, peek)
		return
	}

	if s.RemainingBytes() < n {
		s.setFault(FaultReadOverrun, "ReadBytes")
		return
	}

	head := s.pos >> 3
	copy(out, (*s.buf)[head:head+uint64(n)])
	if !peek {
		s.pos += uint64(n) * BITS_PER_BYTE
	}
}

// ReadBits reads the next num bits into out and advances the cursor.
//
// Full source bytes land in out[0], out[1], ... in stream order. When num is
// not a multiple of 8 the last destination byte receives the trailing
// num%8 bits right-aligned (in its low-order bits). out must hold at least
// ceil(num/8) bytes; destination bytes are overwritten, not merged.
//
// Records FaultReadOverrun, leaving the cursor unchanged, when fewer than num
// bits remain.
func (s *Stream) ReadBits(out []byte, num uint64) {
	s.readBits(out, num, false)
}

// PeekBits is ReadBits without moving the cursor.
func (s *Stream) PeekBits(out []byte, num uint64) {
	s.readBits(out, num, true)
}

// readBits is the general read path.
//
// Implementation notes:
//   - Each iteration produces one destination byte. It takes the
//     8 - pos%8 bits left in the current source byte, shifts them up to
//     leave room for the bits still missing, and pulls those from the top of
//     the next source byte.
//   - The final iteration may need fewer than 8 bits; they are shifted down
//     to be flush with the low end of the destination byte.
//   - Peek restores the cursor once, after the whole run.
func (s *Stream) readBits(out []byte, num uint64, peek bool) {
	if num == 0 {
		return
	}
	if EnableTrace {
		s.Trace("ENTER", "ReadBits", logger.KeyBits, num)
		defer s.Trace("EXIT", "ReadBits")
	}

	// Fast path: aligned cursor and whole bytes
	if s.pos&7 == 0 && num&7 == 0 {
		s.readBytes(out[:num>>3], peek)
		return
	}

	if s.RemainingBits() < num {
		s.setFault(FaultReadOverrun, "ReadBits")
		return
	}

	var (
		src     = *s.buf
		start   = s.pos
		pending = num
		i       = 0
	)
	for {
		var (
			index = s.pos >> 3
			left  = BITS_PER_BYTE - (s.pos & 7) // bits left in the source byte
		)

		if left >= pending {
			// The current source byte finishes the run
			gap := left - pending
			out[i] = (src[index] >> gap) & mask(pending)
			s.pos += pending
			break
		}

		var (
			take    = min(pending, BITS_PER_BYTE)
			reserve = take - left // bits to pull from the next source byte
		)
		out[i] = (src[index] & mask(left)) << reserve
		out[i] |= src[index+1] >> (BITS_PER_BYTE - reserve)

		s.pos += take
		pending -= take
		if pending == 0 {
			break
		}
		i++
	}

	if peek {
		s.pos = start
	}
}

// ReadUint reads num bits (1..64) as an unsigned value.
//
// The bits are interpreted the way WriteUint lays them out: the low-order
// byte of the value first, each byte MSB-first, and a trailing partial byte
// holding the value's highest num%8 bits. Returns 0 and records
// FaultReadOverrun when fewer than num bits remain.
func (s *Stream) ReadUint(num uint8) (uint64, error) {
	return s.readUint(num, false)
}

// PeekUint is ReadUint without moving the cursor.
func (s *Stream) PeekUint(num uint8) (uint64, error) {
	return s.readUint(num, true)
}

func (s *Stream) readUint(num uint8, peek bool) (uint64, error) {
	if num == 0 || num > 64 {
		return 0, errors.New("bit count must be between 1 and 64")
	}
	// Left zeroed on overrun
	tmp := [TMP_ARRAY_SIZE]byte{}
	s.readBits(tmp[:], uint64(num), peek)
	return binary.LittleEndian.Uint64(tmp[:]) & umask(num), nil
}

// mask returns a byte with the low n bits set (n <= 8).
func mask(n uint64) byte {
	return byte(uint64(1)<<n - 1)
}

// umask returns a uint64 with the low n bits set (n <= 64).
func umask(n uint8) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<n - 1
}
