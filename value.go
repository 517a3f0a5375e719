package dvcodec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// PayloadKind tells which variant a Payload holds.
type PayloadKind int

const (
	// KindJSON payloads are JSON-safe data and travel in a JSON frame.
	KindJSON PayloadKind = iota
	// KindBytes payloads are raw bytes and travel in a binary frame.
	KindBytes
)

func (k PayloadKind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindBytes:
		return "bytes"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Payload is either JSON-safe data or a raw byte sequence.
// The zero Payload is JSON null.
type Payload struct {
	kind  PayloadKind
	data  any
	bytes []byte
}

// JSON returns a payload holding JSON-safe data. The value is marshalled
// with encoding/json at encode time.
func JSON(v any) Payload {
	return Payload{kind: KindJSON, data: v}
}

// Bytes returns a payload holding raw bytes. A nil slice is treated as an
// empty payload.
func Bytes(b []byte) Payload {
	if b == nil {
		b = []byte{}
	}
	return Payload{kind: KindBytes, bytes: b}
}

// Kind returns the variant held by p.
func (p Payload) Kind() PayloadKind { return p.kind }

// IsBytes reports whether p holds raw bytes.
func (p Payload) IsBytes() bool { return p.kind == KindBytes }

// JSON returns the JSON-safe data, or nil for a byte payload.
func (p Payload) JSON() any {
	if p.kind != KindJSON {
		return nil
	}
	return p.data
}

// Bytes returns the raw bytes, or nil for a JSON payload.
func (p Payload) Bytes() []byte {
	if p.kind != KindBytes {
		return nil
	}
	return p.bytes
}

// As stores the payload in target.
//
// A byte payload can only be stored in a *[]byte. A JSON payload is
// round-tripped through encoding/json into target, so decoded generic data
// (maps, float64s) can be read back as a concrete type.
func (p Payload) As(target any) error {
	if p.kind == KindBytes {
		dst, ok := target.(*[]byte)
		if !ok {
			return &FieldTypeError{Field: "payload", Want: "*[]byte", Got: fmt.Sprintf("%T", target)}
		}
		*dst = append([]byte(nil), p.bytes...)
		return nil
	}
	data, err := json.Marshal(p.data)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// Equal reports whether p and o hold the same variant and content.
// Byte payloads compare by content, so nil and empty are equal.
func (p Payload) Equal(o Payload) bool {
	if p.kind != o.kind {
		return false
	}
	if p.kind == KindBytes {
		return bytes.Equal(p.bytes, o.bytes)
	}
	return reflect.DeepEqual(p.data, o.data)
}

// MarshalJSON encodes the JSON data, or the bytes as a base64 string.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.kind == KindBytes {
		return json.Marshal(p.bytes)
	}
	return json.Marshal(p.data)
}

// UnmarshalJSON sets p to a JSON payload holding the decoded value.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = JSON(v)
	return nil
}

func (p Payload) String() string {
	if p.kind == KindBytes {
		return fmt.Sprintf("bytes(%d)", len(p.bytes))
	}
	return fmt.Sprintf("json(%v)", p.data)
}

// Discriminated is implemented by types that can be encoded as a
// discriminated value without reflection.
type Discriminated interface {
	// DiscriminatorValue returns the discriminator, e.g. "order.created".
	DiscriminatorValue() string
	// PayloadValue returns the payload carried with the discriminator.
	PayloadValue() Payload
}

// Value is a discriminated value: a discriminator plus a payload.
type Value struct {
	Discriminator string
	Payload       Payload
}

// NewJSON returns a Value with a JSON payload.
func NewJSON(discriminator string, v any) Value {
	return Value{Discriminator: discriminator, Payload: JSON(v)}
}

// NewBytes returns a Value with a raw byte payload.
func NewBytes(discriminator string, b []byte) Value {
	return Value{Discriminator: discriminator, Payload: Bytes(b)}
}

// DiscriminatorValue implements Discriminated.
func (v Value) DiscriminatorValue() string { return v.Discriminator }

// PayloadValue implements Discriminated.
func (v Value) PayloadValue() Payload { return v.Payload }

// Compile-time check
var _ Discriminated = Value{}
