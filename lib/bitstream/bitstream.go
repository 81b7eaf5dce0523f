// Package bitstream provides bit-level I/O over a caller-owned byte buffer.
//
// # Overview
//
// The Stream type keeps a single bit cursor over a borrowed []byte and reads
// or writes arbitrary run lengths of bits at that cursor. Bits are packed
// MSB-first within each byte. Multi-byte values are transferred byte by byte in
// the order the caller hands them over; the wire package fixes that order to
// little-endian for scalars.
//
// # Key Features
//
//   - Fast paths for byte-aligned transfers (plain copy)
//   - Bit-splice paths for runs that start or end mid-byte
//   - Additive, zero-filled buffer growth on write
//   - Peek variants that leave the cursor untouched
//   - Sticky fault reporting for position and overrun conditions
//
// # Faults
//
// Stream conditions (bad seek, reading past the end) do not return errors.
// The operation that detects one leaves the cursor where it was and records
// the fault on the stream. The fault is sticky: later successful operations
// do not clear it, only another faulting operation replaces it. Check Fault or
// Err after every call that can fail.
//
// # Thread Safety
//
// Stream is NOT thread-safe. A Stream, and the buffer it borrows, must be used
// from one goroutine at a time.
package bitstream

import (
	"fmt"

	"github.com/thebagchi/bitstream-go/internal/logger"
)

const (
	// BITS_PER_BYTE is the number of bits in a byte
	BITS_PER_BYTE = 8

	// TMP_ARRAY_SIZE is the size of the scratch arrays used for 64 bit values
	TMP_ARRAY_SIZE = 8
)

// EnableTrace turns on DEBUG tracing of engine operations and faults.
var EnableTrace = false

// InitialBufferSize is the initial capacity for the buffer in NewWriter.
var InitialBufferSize = 64

// Fault is the sticky stream error state.
type Fault uint8

const (
	// FaultNone means no fault has been recorded.
	FaultNone Fault = iota
	// FaultInvalidPosition is recorded when a seek lands outside [0, SizeBits].
	FaultInvalidPosition
	// FaultReadOverrun is recorded when a read asks for more than remains.
	FaultReadOverrun
)

func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultInvalidPosition:
		return "invalid stream position"
	case FaultReadOverrun:
		return "read overrun"
	default:
		return fmt.Sprintf("fault(%d)", uint8(f))
	}
}

// Error implements error so a Fault can be returned directly.
func (f Fault) Error() string {
	return "bitstream: " + f.String()
}

// Stream is a bit cursor over a borrowed buffer.
// Fields:
//
//	buf: pointer to the caller's slice; growth is written back through it
//	own: backing slice for streams created by NewReader / NewWriter
//	pos: cursor, in bits from the start of the buffer (0..len*8)
//	fault: sticky fault, see package documentation
type Stream struct {
	buf   *[]byte
	own   []byte
	pos   uint64
	fault Fault
}

// New creates a Stream over the caller's buffer. The stream never shrinks or
// reorders the buffer; writes past the end append zero bytes and store the
// grown slice back into *buf.
func New(buf *[]byte) *Stream {
	return &Stream{buf: buf}
}

// NewReader creates a Stream positioned at the first bit of data.
func NewReader(data []byte) *Stream {
	s := &Stream{own: data}
	s.buf = &s.own
	return s
}

// NewWriter creates a Stream over an empty buffer with InitialBufferSize
// bytes of capacity.
func NewWriter() *Stream {
	s := &Stream{own: make([]byte, 0, InitialBufferSize)}
	s.buf = &s.own
	return s
}

// Bytes returns the current buffer, including any partially written byte.
func (s *Stream) Bytes() []byte {
	return *s.buf
}

// Len returns the buffer length in bytes.
func (s *Stream) Len() int {
	return len(*s.buf)
}

// String implements the fmt.Stringer interface for Stream.
func (s *Stream) String() string {
	return fmt.Sprintf("Stream{len=%d, pos=%d, fault=%s}", len(*s.buf), s.pos, s.fault)
}

// Trace emits engine state at DEBUG when EnableTrace is set.
// Parameters:
//   - event: "ENTER" or "EXIT"
//   - function: name of the calling operation
//   - args: optional key/value pairs describing the call
func (s *Stream) Trace(event, function string, args ...any) {
	if !EnableTrace {
		return
	}
	attrs := []any{
		logger.KeyEvent, event,
		logger.KeyFunction, function,
		logger.KeyPos, s.pos,
		logger.KeySize, s.SizeBits(),
	}
	logger.Debug("bitstream", append(attrs, args...)...)
}

// Fault returns the last recorded fault.
func (s *Stream) Fault() Fault {
	return s.fault
}

// Err returns the last recorded fault as an error, or nil if none was ever
// recorded.
func (s *Stream) Err() error {
	if s.fault == FaultNone {
		return nil
	}
	return s.fault
}

func (s *Stream) setFault(f Fault, function string) {
	s.fault = f
	if EnableTrace {
		logger.Debug("bitstream fault",
			logger.KeyFunction, function,
			logger.KeyFault, f.String(),
			logger.KeyPos, s.pos,
			logger.KeySize, s.SizeBits(),
		)
	}
}

// SizeBits returns the total number of bits in the buffer.
func (s *Stream) SizeBits() uint64 {
	return uint64(len(*s.buf)) * BITS_PER_BYTE
}

// RemainingBits returns the number of bits after the cursor, never negative.
func (s *Stream) RemainingBits() uint64 {
	size := s.SizeBits()
	if s.pos >= size {
		return 0
	}
	return size - s.pos
}

// RemainingBytes returns the number of completely unread bytes after the
// cursor. A partially consumed byte does not count.
func (s *Stream) RemainingBytes() int {
	used := int((s.pos + 7) >> 3)
	if used >= len(*s.buf) {
		return 0
	}
	return len(*s.buf) - used
}

// Pos returns the cursor position in bits.
func (s *Stream) Pos() uint64 {
	return s.pos
}

// SetPos moves the cursor to pos. Positions beyond SizeBits record
// FaultInvalidPosition and leave the cursor unchanged.
func (s *Stream) SetPos(pos uint64) {
	if pos > s.SizeBits() {
		s.setFault(FaultInvalidPosition, "SetPos")
		return
	}
	s.pos = pos
}

// DeltaPos moves the cursor by delta bits. A result below zero or beyond
// SizeBits records FaultInvalidPosition and leaves the cursor unchanged.
func (s *Stream) DeltaPos(delta int64) {
	size := s.SizeBits()
	if delta < 0 {
		back := uint64(-delta)
		if back > s.pos {
			s.setFault(FaultInvalidPosition, "DeltaPos")
			return
		}
		s.pos -= back
		return
	}
	forward := uint64(delta)
	if forward > size || s.pos > size-forward {
		s.setFault(FaultInvalidPosition, "DeltaPos")
		return
	}
	s.pos += forward
}

// AlignPos rounds the cursor up to the next byte boundary, if it is not on
// one already.
func (s *Stream) AlignPos() {
	if in := s.pos & 7; in != 0 {
		s.DeltaPos(int64(BITS_PER_BYTE - in))
	}
}

// grow appends n zero bytes to the buffer.
func (s *Stream) grow(n int) {
	if n <= 0 {
		return
	}
	if EnableTrace {
		s.Trace("ENTER", "grow", logger.KeyBytes, n)
	}
	*s.buf = append(*s.buf, make([]byte, n)...)
}
