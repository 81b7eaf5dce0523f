// Package wire implements the field codecs of the legacy wire format on top of
// a bitstream.Stream: quantized reals, length-prefixed strings and fixed-size
// little-endian scalars.
//
// Stream conditions (overruns, bad seeks) stay on the stream as sticky faults,
// see bitstream.Stream.Err. Errors returned by this package are configuration
// errors: a bad field width, an inverted range, or an unrepresentable length.
package wire

import "github.com/thebagchi/bitstream-go/lib/bitstream"

// Encoder writes wire fields at the cursor of a stream.
type Encoder struct {
	stream *bitstream.Stream
}

// NewEncoder creates an Encoder over s.
func NewEncoder(s *bitstream.Stream) *Encoder {
	return &Encoder{stream: s}
}

// Stream returns the underlying stream.
func (e *Encoder) Stream() *bitstream.Stream {
	return e.stream
}

// Bytes returns the encoded bytes.
func (e *Encoder) Bytes() []byte {
	return e.stream.Bytes()
}

// Decoder reads wire fields at the cursor of a stream.
type Decoder struct {
	stream *bitstream.Stream
}

// NewDecoder creates a Decoder over s.
func NewDecoder(s *bitstream.Stream) *Decoder {
	return &Decoder{stream: s}
}

// Stream returns the underlying stream.
func (d *Decoder) Stream() *bitstream.Stream {
	return d.stream
}

// Err returns the stream's sticky fault, if any.
func (d *Decoder) Err() error {
	return d.stream.Err()
}
