// Package layout describes a bitstream record as an ordered list of fields
// and drives the wire codecs to decode or encode it.
package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/thebagchi/bitstream-go/lib/wire"
)

// Kind names the codec used for a field.
type Kind string

const (
	// KindBit is a single bit, decoded as bool.
	KindBit Kind = "bit"
	// KindUint is an unsigned integer of 1..64 bits, little-endian.
	KindUint Kind = "uint"
	// KindBytes is Count raw octets.
	KindBytes Kind = "bytes"
	// KindQuantized is a float packed into Bits bits over [Min, Max].
	KindQuantized Kind = "quantized"
	// KindString is a length-prefixed byte string.
	KindString Kind = "string"
	// KindWString is a length-prefixed string of UTF-16 units.
	KindWString Kind = "wstring"
	// KindAlign moves the cursor to the next byte boundary.
	KindAlign Kind = "align"
	// KindSkip moves the cursor over Count bits.
	KindSkip Kind = "skip"
)

// Kinds lists every supported kind in declaration order.
var Kinds = []Kind{
	KindBit, KindUint, KindBytes, KindQuantized,
	KindString, KindWString, KindAlign, KindSkip,
}

var (
	// ErrInvalidField is returned for a field whose parameters do not fit its kind.
	ErrInvalidField = errors.New("invalid field")

	// ErrMissingValue is returned by Encode when a named field has no value.
	ErrMissingValue = errors.New("missing value")
)

// Field is one entry of a Layout.
//
// Bits applies to uint (1..64) and quantized (1..63) fields. Count is the
// octet count of a bytes field and the bit count of a skip field. Max, Min and
// Epsilon configure quantized fields; a zero Epsilon means
// wire.DEFAULT_EPSILON.
type Field struct {
	Name    string  `mapstructure:"name" validate:"omitempty,max=64" yaml:"name" json:"name"`
	Kind    Kind    `mapstructure:"kind" validate:"required,oneof=bit uint bytes quantized string wstring align skip" yaml:"kind" json:"kind"`
	Bits    uint8   `mapstructure:"bits" validate:"omitempty,max=64" yaml:"bits,omitempty" json:"bits,omitempty"`
	Count   int     `mapstructure:"count" validate:"omitempty,gte=0" yaml:"count,omitempty" json:"count,omitempty"`
	Max     float64 `mapstructure:"max" yaml:"max,omitempty" json:"max,omitempty"`
	Min     float64 `mapstructure:"min" yaml:"min,omitempty" json:"min,omitempty"`
	Epsilon float64 `mapstructure:"epsilon" validate:"omitempty,gte=0" yaml:"epsilon,omitempty" json:"epsilon,omitempty"`
}

// String returns the shorthand form accepted by ParseField.
func (f Field) String() string {
	switch f.Kind {
	case KindUint:
		return fmt.Sprintf("%s:%s:%d", f.Name, f.Kind, f.Bits)
	case KindBytes, KindSkip:
		return fmt.Sprintf("%s:%s:%d", f.Name, f.Kind, f.Count)
	case KindQuantized:
		return fmt.Sprintf("%s:%s:%d:%g:%g", f.Name, f.Kind, f.Bits, f.Max, f.Min)
	default:
		return fmt.Sprintf("%s:%s", f.Name, f.Kind)
	}
}

// Named reports whether the field carries a value.
func (f Field) Named() bool {
	return f.Kind != KindAlign && f.Kind != KindSkip
}

// Label names the field in messages; unnamed fields use their kind.
func (f Field) Label() string {
	if f.Name == "" {
		return string(f.Kind)
	}
	return f.Name
}

// Quantizer returns the quantizer configured for a quantized field.
func (f Field) Quantizer() wire.Quantizer {
	q := wire.NewQuantizer(f.Bits, f.Max, f.Min)
	if f.Epsilon > 0 {
		q.Epsilon = f.Epsilon
	}
	return q
}

// Validate checks the field parameters against its kind.
func (f Field) Validate() error {
	if f.Named() && f.Name == "" {
		return fmt.Errorf("%w: %s field needs a name", ErrInvalidField, f.Kind)
	}
	switch f.Kind {
	case KindBit, KindString, KindWString, KindAlign:
	case KindUint:
		if f.Bits == 0 || f.Bits > 64 {
			return fmt.Errorf("%w: %q: uint width %d outside 1..64", ErrInvalidField, f.Name, f.Bits)
		}
	case KindBytes:
		if f.Count <= 0 {
			return fmt.Errorf("%w: %q: bytes count must be positive", ErrInvalidField, f.Name)
		}
	case KindSkip:
		if f.Count <= 0 {
			return fmt.Errorf("%w: skip count must be positive", ErrInvalidField)
		}
	case KindQuantized:
		if err := f.Quantizer().Validate(); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrInvalidField, f.Name, err)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidField, f.Kind)
	}
	return nil
}

// ParseField parses the shorthand "name:kind[:param...]".
//
//	flag:bit
//	id:uint:12
//	raw:bytes:4
//	x:quantized:20:8192:0
//	name:string
//	title:wstring
//	:align
//	:skip:5
func ParseField(shorthand string) (Field, error) {
	parts := strings.Split(strings.TrimSpace(shorthand), ":")
	if len(parts) < 2 {
		return Field{}, fmt.Errorf("%w: %q: expected name:kind", ErrInvalidField, shorthand)
	}
	f := Field{
		Name: strings.TrimSpace(parts[0]),
		Kind: Kind(strings.ToLower(strings.TrimSpace(parts[1]))),
	}
	params := parts[2:]

	want := 0
	switch f.Kind {
	case KindUint, KindBytes, KindSkip:
		want = 1
	case KindQuantized:
		want = 3
	}
	if len(params) != want {
		return Field{}, fmt.Errorf("%w: %q: %s takes %d parameters", ErrInvalidField, shorthand, f.Kind, want)
	}

	var err error
	switch f.Kind {
	case KindUint:
		f.Bits, err = parseBits(params[0])
	case KindBytes, KindSkip:
		f.Count, err = strconv.Atoi(strings.TrimSpace(params[0]))
	case KindQuantized:
		if f.Bits, err = parseBits(params[0]); err != nil {
			break
		}
		if f.Max, err = strconv.ParseFloat(strings.TrimSpace(params[1]), 64); err != nil {
			break
		}
		f.Min, err = strconv.ParseFloat(strings.TrimSpace(params[2]), 64)
	}
	if err != nil {
		return Field{}, fmt.Errorf("%w: %q: %w", ErrInvalidField, shorthand, err)
	}
	if err := f.Validate(); err != nil {
		return Field{}, err
	}
	return f, nil
}

func parseBits(s string) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	return uint8(v), err
}
