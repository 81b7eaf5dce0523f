package bitstream

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceWrite lays out value bit by bit the way WriteUint documents it.
func referenceWrite(buf []byte, pos uint64, value uint64, num uint8) {
	tmp := make([]byte, 8)
	binary.LittleEndian.PutUint64(tmp, value)
	pending := uint64(num)
	for i := 0; pending > 0; i++ {
		take := min(pending, 8)
		for j := int(take) - 1; j >= 0; j-- {
			if (tmp[i]>>uint(j))&1 != 0 {
				buf[pos>>3] |= 0x80 >> (pos & 7)
			}
			pos++
		}
		pending -= take
	}
}

func TestStream(t *testing.T) {
	w := NewWriter()

	// Initial state
	assert.Equal(t, uint64(0), w.Pos())
	assert.Equal(t, uint64(0), w.SizeBits())
	assert.Equal(t, FaultNone, w.Fault())
	assert.NoError(t, w.Err())

	// Write 16 bits of 0
	for range 16 {
		w.WriteBit(false)
	}
	assert.Equal(t, uint64(16), w.Pos())
	assert.Equal(t, 2, w.Len())

	w.WriteBytes([]byte{0x00})
	assert.Equal(t, uint64(24), w.Pos())

	// Already aligned, nothing moves
	w.AlignPos()
	assert.Equal(t, uint64(24), w.Pos())

	w.WriteBit(true)
	assert.Equal(t, uint64(25), w.Pos())
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x80}, w.Bytes())

	w.AlignPos()
	assert.Equal(t, uint64(32), w.Pos())
	assert.Equal(t, FaultNone, w.Fault())
}

func TestBorrowedBufferGrowth(t *testing.T) {
	var buf []byte
	s := New(&buf)

	s.WriteBits([]byte{0x05}, 3)
	require.Len(t, buf, 1)
	assert.Equal(t, byte(0xA0), buf[0])

	s.WriteBytes([]byte{0xFF, 0xFF})
	require.Len(t, buf, 3)
	assert.Equal(t, []byte{0xBF, 0xFF, 0xE0}, buf)
	assert.Equal(t, buf, s.Bytes())
}

func TestWriteBitsBasic(t *testing.T) {
	s := NewWriter()
	require.NoError(t, s.WriteUint(0, 4))
	require.NoError(t, s.WriteUint(0xABC, 12))
	assert.Equal(t, []byte{0x0B, 0xCA}, s.Bytes())
}

func TestWriteBitsMatchesReference(t *testing.T) {
	for n := uint8(1); n < 64; n++ {
		for offset := uint64(0); offset < 8; offset++ {
			var (
				value    = uint64(0x9E3779B97F4A7C15) & umask(n)
				expected = make([]byte, 16)
				actual   = make([]byte, 16)
				s        = New(&actual)
			)
			referenceWrite(expected, offset, value, n)

			s.SetPos(offset)
			require.NoError(t, s.WriteUint(value, n))
			require.Equal(t, FaultNone, s.Fault())
			assert.Equal(t, expected, actual, "n=%d offset=%d", n, offset)
			assert.Equal(t, offset+uint64(n), s.Pos())
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	patterns := []uint64{0, 1, 0x5555555555555555, 0xAAAAAAAAAAAAAAAA, math.MaxUint64}
	for n := uint8(1); n < 64; n++ {
		for offset := uint64(0); offset < 8; offset++ {
			for _, pattern := range patterns {
				value := pattern & umask(n)

				s := NewWriter()
				s.WriteBits(make([]byte, 1), offset)
				require.NoError(t, s.WriteUint(value, n))

				s.SetPos(offset)
				actual, err := s.ReadUint(n)
				require.NoError(t, err)
				require.Equal(t, FaultNone, s.Fault())
				assert.Equal(t, value, actual, "n=%d offset=%d", n, offset)
				assert.Equal(t, offset+uint64(n), s.Pos())
			}
		}
	}
}

func TestWriteReadSequence(t *testing.T) {
	// Write 1 to 64 bits with values 1 to 64, then read back
	w := NewWriter()
	for bit := uint8(1); bit <= 64; bit++ {
		require.NoError(t, w.WriteUint(uint64(bit), bit))
	}
	assert.Equal(t, uint64(2080), w.Pos())

	r := NewReader(w.Bytes())
	for bit := uint8(1); bit <= 64; bit++ {
		actual, err := r.ReadUint(bit)
		require.NoError(t, err)
		assert.Equal(t, uint64(bit)&umask(bit), actual, "bits=%d", bit)
	}
	assert.Equal(t, uint64(2080), r.Pos())
	assert.Equal(t, FaultNone, r.Fault())
}

func TestMixedBitsAndBytes(t *testing.T) {
	w := NewWriter()
	w.WriteBit(true)
	w.WriteBytes([]byte("abc"))
	require.NoError(t, w.WriteUint(0x3, 2))
	w.WriteBytes([]byte{0xDE, 0xAD})

	r := NewReader(w.Bytes())
	assert.True(t, r.ReadBit())
	out := make([]byte, 3)
	r.ReadBytes(out)
	assert.Equal(t, []byte("abc"), out)
	v, err := r.ReadUint(2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)
	out = make([]byte, 2)
	r.ReadBytes(out)
	assert.Equal(t, []byte{0xDE, 0xAD}, out)
	assert.Equal(t, FaultNone, r.Fault())
	assert.Equal(t, w.Pos(), r.Pos())
}

func TestReadBitsLayout(t *testing.T) {
	r := NewReader([]byte{0xB5, 0x6E})

	// 10110101 01101110, read 4 bits at offset 2: 1101
	r.SetPos(2)
	out := []byte{0xFF}
	r.ReadBits(out, 4)
	assert.Equal(t, byte(0x0D), out[0])

	// 12 bits at offset 3: 10101011 (full byte) then 0111 (right-aligned)
	r.SetPos(3)
	out = []byte{0xFF, 0xFF}
	r.ReadBits(out, 12)
	assert.Equal(t, []byte{0xAB, 0x07}, out)
	assert.Equal(t, uint64(15), r.Pos())
}

func TestReadBitsAlignedFastPath(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03})
	out := make([]byte, 2)
	r.ReadBits(out, 16)
	assert.Equal(t, []byte{0x01, 0x02}, out)
	assert.Equal(t, uint64(16), r.Pos())
}

func TestPeek(t *testing.T) {
	r := NewReader([]byte{0xC3, 0x5A, 0x0F})
	r.SetPos(5)

	peeked := make([]byte, 2)
	r.PeekBits(peeked, 13)
	assert.Equal(t, uint64(5), r.Pos())

	read := make([]byte, 2)
	r.ReadBits(read, 13)
	assert.Equal(t, peeked, read)
	assert.Equal(t, uint64(18), r.Pos())

	r.SetPos(8)
	assert.False(t, r.PeekBit())
	assert.Equal(t, uint64(8), r.Pos())
	assert.False(t, r.ReadBit())
	assert.True(t, r.ReadBit())
	assert.Equal(t, uint64(10), r.Pos())

	r.SetPos(8)
	b := make([]byte, 2)
	r.PeekBytes(b)
	assert.Equal(t, []byte{0x5A, 0x0F}, b)
	assert.Equal(t, uint64(8), r.Pos())

	v, err := r.PeekUint(12)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x05A), v)
	assert.Equal(t, uint64(8), r.Pos())
	assert.Equal(t, FaultNone, r.Fault())
}

func TestReadOverrun(t *testing.T) {
	t.Run("Bits", func(t *testing.T) {
		r := NewReader([]byte{0xFF, 0xFF})
		r.SetPos(3)
		out := []byte{0x11, 0x22}
		r.ReadBits(out, 14)
		assert.Equal(t, FaultReadOverrun, r.Fault())
		assert.ErrorIs(t, r.Err(), FaultReadOverrun)
		assert.Equal(t, uint64(3), r.Pos())
		assert.Equal(t, []byte{0x11, 0x22}, out)
	})

	t.Run("Bytes", func(t *testing.T) {
		r := NewReader([]byte{0xFF, 0xFF})
		r.SetPos(8)
		r.ReadBytes(make([]byte, 2))
		assert.Equal(t, FaultReadOverrun, r.Fault())
		assert.Equal(t, uint64(8), r.Pos())
	})

	t.Run("PartialByteDoesNotCount", func(t *testing.T) {
		r := NewReader([]byte{0xFF, 0xFF, 0xFF})
		r.SetPos(4)
		assert.Equal(t, 2, r.RemainingBytes())
		assert.Equal(t, uint64(20), r.RemainingBits())
	})

	t.Run("Bit", func(t *testing.T) {
		r := NewReader([]byte{0x80})
		r.SetPos(8)
		assert.False(t, r.ReadBit())
		assert.Equal(t, FaultReadOverrun, r.Fault())
		assert.Equal(t, uint64(8), r.Pos())
	})

	t.Run("Uint", func(t *testing.T) {
		r := NewReader([]byte{0xFF})
		v, err := r.ReadUint(9)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), v)
		assert.Equal(t, FaultReadOverrun, r.Fault())
		assert.Equal(t, uint64(0), r.Pos())
	})
}

func TestStickyFault(t *testing.T) {
	r := NewReader([]byte{0xAA})
	r.SetPos(9)
	assert.Equal(t, FaultInvalidPosition, r.Fault())

	// A successful read does not clear the fault
	assert.True(t, r.ReadBit())
	assert.Equal(t, FaultInvalidPosition, r.Fault())

	// A new fault replaces it
	r.ReadBits(make([]byte, 2), 12)
	assert.Equal(t, FaultReadOverrun, r.Fault())
	assert.EqualError(t, r.Err(), "bitstream: read overrun")
}

func TestPositionControl(t *testing.T) {
	s := NewReader(make([]byte, 4))
	assert.Equal(t, uint64(32), s.SizeBits())

	s.SetPos(32)
	assert.Equal(t, uint64(32), s.Pos())
	assert.Equal(t, uint64(0), s.RemainingBits())
	assert.Equal(t, 0, s.RemainingBytes())
	assert.Equal(t, FaultNone, s.Fault())

	s.SetPos(33)
	assert.Equal(t, FaultInvalidPosition, s.Fault())
	assert.Equal(t, uint64(32), s.Pos())

	s = NewReader(make([]byte, 4))
	s.DeltaPos(-1)
	assert.Equal(t, FaultInvalidPosition, s.Fault())
	assert.Equal(t, uint64(0), s.Pos())

	s = NewReader(make([]byte, 4))
	s.DeltaPos(10)
	s.DeltaPos(-3)
	assert.Equal(t, uint64(7), s.Pos())
	s.DeltaPos(26)
	assert.Equal(t, FaultInvalidPosition, s.Fault())
	assert.Equal(t, uint64(7), s.Pos())
	s.DeltaPos(math.MinInt64)
	assert.Equal(t, uint64(7), s.Pos())
	s.DeltaPos(math.MaxInt64)
	assert.Equal(t, uint64(7), s.Pos())

	s.AlignPos()
	assert.Equal(t, uint64(8), s.Pos())
	s.SetPos(31)
	s.AlignPos()
	assert.Equal(t, uint64(32), s.Pos())
}

func TestGrowthIsAdditive(t *testing.T) {
	for k := uint64(1); k <= 40; k++ {
		for offset := uint64(0); offset < 16; offset++ {
			buf := make([]byte, 2)
			s := New(&buf)
			s.SetPos(offset)
			var (
				before    = len(buf)
				remaining = s.RemainingBits()
				data      = bytes.Repeat([]byte{0xFF}, 8)
			)
			s.WriteBits(data, k)

			var expected int
			if remaining < k {
				expected = int((k - remaining + 7) / 8)
			}
			assert.Equal(t, before+expected, len(buf), "k=%d offset=%d", k, offset)
			assert.GreaterOrEqual(t, len(buf), before)
		}
	}
}

func TestWritePreservesNeighbours(t *testing.T) {
	buf := []byte{0x81, 0x00, 0x81}
	s := New(&buf)
	s.SetPos(1)
	require.NoError(t, s.WriteUint(0x3FFF, 14))
	assert.Equal(t, []byte{0xFF, 0xFE, 0x81}, buf)

	// Clearing a bit leaves its siblings alone
	s.SetPos(4)
	s.WriteBit(false)
	assert.Equal(t, []byte{0xF7, 0xFE, 0x81}, buf)
}

func TestWriteBitsMasksStrayBits(t *testing.T) {
	s := NewWriter()
	s.WriteBit(true)
	s.WriteBits([]byte{0xF2}, 3) // only 010 belongs to the run
	s.WriteBit(true)
	assert.Equal(t, []byte{0xA8}, s.Bytes())
}

func TestUintBitCount(t *testing.T) {
	s := NewWriter()
	assert.Error(t, s.WriteUint(1, 0))
	assert.Error(t, s.WriteUint(1, 65))
	_, err := s.ReadUint(0)
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.WriteUint(math.MaxUint64, 64))
	s.SetPos(0)
	v, err := s.ReadUint(64)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), v)
}

func TestFaultString(t *testing.T) {
	assert.Equal(t, "none", FaultNone.String())
	assert.Equal(t, "invalid stream position", FaultInvalidPosition.String())
	assert.Equal(t, "fault(9)", Fault(9).String())
	assert.Contains(t, NewReader(nil).String(), "pos=0")
}
