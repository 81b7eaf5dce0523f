package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	hex "github.com/tmthrgd/go-hex"

	"github.com/thebagchi/bitstream-go/internal/logger"
	"github.com/thebagchi/bitstream-go/lib/bitstream"
	"github.com/thebagchi/bitstream-go/lib/wire"
)

// ErrStreamFault wraps the sticky fault that stopped a Decode or Encode.
var ErrStreamFault = errors.New("stream fault")

// Layout is an ordered list of fields read or written back to back.
type Layout struct {
	Name   string  `mapstructure:"name" yaml:"name" json:"name"`
	Fields []Field `mapstructure:"fields" validate:"dive" yaml:"fields" json:"fields"`
}

// Value is one decoded field.
//
// Value holds bool for bit, uint64 for uint, float64 for quantized and string
// for string and wstring fields. Bytes fields are upper-case hex.
type Value struct {
	Name  string `json:"name" msgpack:"name" yaml:"name"`
	Kind  Kind   `json:"kind" msgpack:"kind" yaml:"kind"`
	Pos   uint64 `json:"pos" msgpack:"pos" yaml:"pos"`
	Width uint64 `json:"width" msgpack:"width" yaml:"width"`
	Value any    `json:"value" msgpack:"value" yaml:"value"`
}

// Text formats the value for display.
func (v Value) Text() string {
	switch x := v.Value.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// Parse builds a layout from shorthand field strings.
func Parse(name string, fields []string) (*Layout, error) {
	l := &Layout{Name: name, Fields: make([]Field, 0, len(fields))}
	for _, s := range fields {
		f, err := ParseField(s)
		if err != nil {
			return nil, err
		}
		l.Fields = append(l.Fields, f)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks every field and rejects duplicate names.
func (l *Layout) Validate() error {
	seen := make(map[string]struct{}, len(l.Fields))
	for i, f := range l.Fields {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
		if !f.Named() {
			continue
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("field %d: %w: duplicate name %q", i, ErrInvalidField, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// Decode reads every field from the cursor onwards.
//
// Decoding stops at the first field that leaves a fault on the stream; the
// values decoded so far are returned together with an error naming that
// field. A stream that is already faulted is rejected up front.
func (l *Layout) Decode(s *bitstream.Stream) ([]Value, error) {
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStreamFault, err)
	}
	var (
		decoder = wire.NewDecoder(s)
		values  = make([]Value, 0, len(l.Fields))
	)
	for _, f := range l.Fields {
		pos := s.Pos()
		value, err := decodeField(decoder, f)
		if err != nil {
			return values, fmt.Errorf("field %q: %w", f.Label(), err)
		}
		if err := s.Err(); err != nil {
			return values, fmt.Errorf("field %q at bit %d: %w: %w", f.Label(), pos, ErrStreamFault, err)
		}
		if !f.Named() {
			continue
		}
		v := Value{
			Name:  f.Name,
			Kind:  f.Kind,
			Pos:   pos,
			Width: s.Pos() - pos,
			Value: value,
		}
		logger.Debug("field decoded",
			logger.KeyField, v.Name,
			logger.KeyKind, string(v.Kind),
			logger.KeyPos, v.Pos,
			logger.KeyBits, v.Width,
		)
		values = append(values, v)
	}
	return values, nil
}

func decodeField(d *wire.Decoder, f Field) (any, error) {
	s := d.Stream()
	switch f.Kind {
	case KindBit:
		return s.ReadBit(), nil
	case KindUint:
		return s.ReadUint(f.Bits)
	case KindBytes:
		out := make([]byte, f.Count)
		s.ReadBytes(out)
		return strings.ToUpper(hex.EncodeToString(out)), nil
	case KindQuantized:
		return d.DecodeQuantized(f.Quantizer())
	case KindString:
		return d.DecodeString(), nil
	case KindWString:
		return d.DecodeUTF16(), nil
	case KindAlign:
		s.AlignPos()
		return nil, nil
	case KindSkip:
		s.DeltaPos(int64(f.Count))
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidField, f.Kind)
	}
}

// Encode writes every field at the cursor, taking the textual value of each
// named field from values. Align and skip fields write zero bits.
func (l *Layout) Encode(s *bitstream.Stream, values map[string]string) error {
	encoder := wire.NewEncoder(s)
	for _, f := range l.Fields {
		text, ok := values[f.Name]
		if f.Named() && !ok {
			return fmt.Errorf("field %q: %w", f.Name, ErrMissingValue)
		}
		pos := s.Pos()
		if err := encodeField(encoder, f, text); err != nil {
			return fmt.Errorf("field %q: %w", f.Label(), err)
		}
		logger.Debug("field encoded",
			logger.KeyField, f.Name,
			logger.KeyKind, string(f.Kind),
			logger.KeyPos, pos,
			logger.KeyBits, s.Pos()-pos,
		)
	}
	return nil
}

func encodeField(e *wire.Encoder, f Field, text string) error {
	var (
		s       = e.Stream()
		trimmed = strings.TrimSpace(text)
	)
	switch f.Kind {
	case KindBit:
		v, err := strconv.ParseBool(trimmed)
		if err != nil {
			return err
		}
		s.WriteBit(v)
	case KindUint:
		v, err := strconv.ParseUint(trimmed, 0, int(f.Bits))
		if err != nil {
			return err
		}
		return s.WriteUint(v, f.Bits)
	case KindBytes:
		data, err := hex.DecodeString(trimmed)
		if err != nil {
			return err
		}
		if len(data) != f.Count {
			return fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidField, f.Count, len(data))
		}
		s.WriteBytes(data)
	case KindQuantized:
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return err
		}
		return e.EncodeQuantized(v, f.Quantizer())
	case KindString:
		return e.EncodeString(text)
	case KindWString:
		return e.EncodeUTF16(text)
	case KindAlign:
		if in := s.Pos() & 7; in != 0 {
			writeZeros(s, bitstream.BITS_PER_BYTE-in)
		}
	case KindSkip:
		writeZeros(s, uint64(f.Count))
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidField, f.Kind)
	}
	return nil
}

func writeZeros(s *bitstream.Stream, num uint64) {
	s.WriteBits(make([]byte, (num+7)>>3), num)
}
