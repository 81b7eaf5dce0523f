package wire

import (
	"fmt"
	"math"
)

// Quantizer maps a real value in [Min, Max] onto an unsigned field of Bits
// bits, linearly. It is lossy and saturating: the precision is
// (Max-Min)/(2^Bits-1), and values outside the range encode as the nearest
// end of the field.
type Quantizer struct {
	Bits    uint8
	Max     float64
	Min     float64
	Epsilon float64
}

// NewQuantizer returns a Quantizer with the default epsilon.
func NewQuantizer(bits uint8, max, min float64) Quantizer {
	return Quantizer{
		Bits:    bits,
		Max:     max,
		Min:     min,
		Epsilon: DEFAULT_EPSILON,
	}
}

// Validate reports configuration errors: a width outside 1..63 or a min
// greater than max beyond the epsilon tolerance.
func (q Quantizer) Validate() error {
	if q.Range()+q.Epsilon < 0 {
		return fmt.Errorf("%w: min=%g max=%g", ErrInvalidRange, q.Min, q.Max)
	}
	if q.Bits == 0 || q.Bits > MAX_QUANTIZED_BITS {
		return fmt.Errorf("%w: bits=%d", ErrInvalidBits, q.Bits)
	}
	return nil
}

// Range returns Max - Min.
func (q Quantizer) Range() float64 {
	return q.Max - q.Min
}

// FieldMax returns the largest field value, 2^Bits-1.
func (q Quantizer) FieldMax() uint64 {
	return uint64(1)<<q.Bits - 1
}

// Step returns the distance between two adjacent field values.
func (q Quantizer) Step() float64 {
	return q.Range() / float64(q.FieldMax())
}

// Encode returns the field value for v.
//
// Values at or below Min (within epsilon), NaN, and any value of a degenerate
// range encode as 0. Otherwise the scaled value is truncated toward zero and
// capped at FieldMax, so values above Max saturate.
func (q Quantizer) Encode(v float64) (uint64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	r := q.Range()
	if math.Abs(r) < q.Epsilon || v <= q.Min+q.Epsilon || math.IsNaN(v) {
		return 0, nil
	}
	var (
		fieldMax = q.FieldMax()
		scaled   = (v - q.Min) * float64(fieldMax) / r
	)
	if scaled >= float64(fieldMax) {
		return fieldMax, nil
	}
	return min(uint64(scaled), fieldMax), nil
}

// Decode returns the real value for field.
//
// A zero field or a degenerate range decodes as Min. Otherwise the scaled
// value is snapped into [0, range] with epsilon tolerance before Min is added.
func (q Quantizer) Decode(field uint64) (float64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	r := q.Range()
	if field == 0 || r < q.Epsilon {
		return q.Min, nil
	}
	value := float64(field) * r / float64(q.FieldMax())
	if value+q.Epsilon < 0 {
		value = 0
	} else if value+q.Epsilon > r {
		value = r
	}
	return value + q.Min, nil
}

// EncodeQuantized writes v as a q.Bits wide field.
// Configuration errors are returned before anything is written.
func (e *Encoder) EncodeQuantized(v float64, q Quantizer) error {
	field, err := q.Encode(v)
	if err != nil {
		return err
	}
	return e.stream.WriteUint(field, q.Bits)
}

// DecodeQuantized reads a q.Bits wide field and maps it back to a real value.
// On a read overrun the stream records the fault and Min is returned.
func (d *Decoder) DecodeQuantized(q Quantizer) (float64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	field, err := d.stream.ReadUint(q.Bits)
	if err != nil {
		return 0, err
	}
	return q.Decode(field)
}
