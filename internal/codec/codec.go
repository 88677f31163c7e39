// Package codec encodes and decodes the wire and storage messages exchanged
// with the network.
//
// Messages use the protobuf wire format (tag/value pairs) without generated
// code: a type implements Marshaler to write its fields and Unmarshaler to
// receive them one at a time. Every decoding failure is reported as *Error.
package codec

import (
	"errors"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	// ErrWireType is returned when a field arrives with an unexpected wire type.
	ErrWireType = errors.New("unexpected wire type")

	// ErrMissingField is returned by message validation when a required
	// field was absent from the buffer.
	ErrMissingField = errors.New("missing required field")
)

// Marshaler is implemented by messages that can write themselves to an Encoder.
type Marshaler interface {
	MarshalWire(e *Encoder)
}

// Unmarshaler is implemented by messages that can be populated field by field.
type Unmarshaler interface {
	UnmarshalField(f Field) error
}

// Validator is optionally implemented by an Unmarshaler to reject messages
// once every field has been consumed.
type Validator interface {
	Validate() error
}

// Encoder accumulates an encoded message.
type Encoder struct {
	buf []byte
}

// Uint appends a varint field. Zero values are omitted.
func (e *Encoder) Uint(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, v)
}

// Bool appends a boolean as a varint field. False is omitted.
func (e *Encoder) Bool(num protowire.Number, v bool) {
	if v {
		e.Uint(num, 1)
	}
}

// Bytes appends a length-delimited field. Nil slices are omitted; empty
// non-nil slices are written so they survive a round trip as present.
func (e *Encoder) Bytes(num protowire.Number, v []byte) {
	if v == nil {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)
}

// String appends a length-delimited string field. Empty strings are omitted.
func (e *Encoder) String(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
}

// Message appends a nested message field.
func (e *Encoder) Message(num protowire.Number, m Marshaler) {
	e.buf = protowire.AppendTag(e.buf, num, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, Marshal(m))
}

// Marshal encodes m.
func Marshal(m Marshaler) []byte {
	var e Encoder
	m.MarshalWire(&e)
	return e.buf
}

// Field is a single decoded field handed to Unmarshaler.UnmarshalField.
type Field struct {
	Num  protowire.Number
	Type protowire.Type

	v uint64
	b []byte
}

// Uint returns the varint value of the field.
func (f Field) Uint() (uint64, error) {
	if f.Type != protowire.VarintType {
		return 0, ErrWireType
	}
	return f.v, nil
}

// Bool returns the field as a boolean.
func (f Field) Bool() (bool, error) {
	v, err := f.Uint()
	return v != 0, err
}

// Bytes returns a copy of the length-delimited value of the field.
func (f Field) Bytes() ([]byte, error) {
	if f.Type != protowire.BytesType {
		return nil, ErrWireType
	}
	out := make([]byte, len(f.b))
	copy(out, f.b)
	return out, nil
}

// String returns the length-delimited value of the field as a string.
func (f Field) String() (string, error) {
	if f.Type != protowire.BytesType {
		return "", ErrWireType
	}
	return string(f.b), nil
}

// Message decodes the field as a nested message into m.
func (f Field) Message(m Unmarshaler) error {
	if f.Type != protowire.BytesType {
		return ErrWireType
	}
	return Unmarshal(f.b, m)
}

// Unmarshal decodes b into m. Fields with wire types other than varint and
// bytes are skipped.
func Unmarshal(b []byte, m Unmarshaler) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return &Error{Op: "decode tag", Err: protowire.ParseError(n)}
		}
		b = b[n:]

		f := Field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			f.v, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.b, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return &Error{Op: "decode field", Field: num, Err: protowire.ParseError(n)}
		}
		b = b[n:]

		if typ != protowire.VarintType && typ != protowire.BytesType {
			continue
		}
		if err := m.UnmarshalField(f); err != nil {
			return wrap("decode field", num, err)
		}
	}

	if v, ok := m.(Validator); ok {
		if err := v.Validate(); err != nil {
			return wrap("validate", 0, err)
		}
	}
	return nil
}

// wrap keeps an inner *Error intact so nested messages report the field
// that actually failed.
func wrap(op string, num protowire.Number, err error) error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return &Error{Op: op, Field: num, Err: err}
}
