package wire

import "errors"

const (
	// SHORT_LENGTH_FLAG tags a one-octet string length (length < 128).
	SHORT_LENGTH_FLAG = 0x80

	// MAX_SHORT_LENGTH is the largest length carried by the one-octet form.
	MAX_SHORT_LENGTH = 0x7F

	// MAX_STRING_LENGTH is the largest length the two-octet form can carry
	// without its first octet colliding with SHORT_LENGTH_FLAG.
	MAX_STRING_LENGTH = 0x7FFF

	// MAX_QUANTIZED_BITS is the widest quantized field.
	MAX_QUANTIZED_BITS = 63

	// DEFAULT_EPSILON is the comparison tolerance used by NewQuantizer.
	DEFAULT_EPSILON = 0.001
)

var (
	// ErrInvalidBits is returned for a quantized field width outside 1..63.
	ErrInvalidBits = errors.New("quantized field width must be between 1 and 63 bits")

	// ErrInvalidRange is returned when a quantizer's min exceeds its max.
	ErrInvalidRange = errors.New("quantized range min is greater than max")

	// ErrStringTooLong is returned for string lengths outside 0..MAX_STRING_LENGTH.
	ErrStringTooLong = errors.New("string length not representable")
)
