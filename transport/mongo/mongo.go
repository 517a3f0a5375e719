// Package mongo stores discriminated-value frames in BSON documents.
//
// A Frame marshals to a BSON binary value of subtype SubtypeFrame holding
// the encoded frame, so JSON and binary payloads share one field layout:
//
//	doc := bson.M{"_id": id, "event": mongo.NewFrame(nil, v)}
package mongo

import (
	"errors"
	"fmt"

	"github.com/rbaliyan/dvcodec"
	"github.com/rbaliyan/dvcodec/transport"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// SubtypeFrame is the user-defined BSON binary subtype used for frames.
const SubtypeFrame byte = 0x80

var (
	// ErrNotBinary is returned when a stored value is not BSON binary.
	ErrNotBinary = errors.New("mongo: frame is not a binary value")
	// ErrSubtype is returned when the binary subtype is not SubtypeFrame.
	ErrSubtype = errors.New("mongo: unexpected binary subtype")
)

// Frame is a dvcodec.Value that marshals itself as BSON.
type Frame struct {
	dvcodec.Value
	codec *dvcodec.Codec
}

// NewFrame wraps v for storage. A nil codec selects dvcodec.Default().
func NewFrame(c *dvcodec.Codec, v dvcodec.Value) Frame {
	return Frame{Value: v, codec: c}
}

// WithCodec returns a zero Frame that decodes with c. Use it to prepare a
// target bound to custom field names before unmarshalling.
func WithCodec(c *dvcodec.Codec) *Frame {
	return &Frame{codec: c}
}

// MarshalBSONValue implements bson.ValueMarshaler.
func (f Frame) MarshalBSONValue() (bsontype.Type, []byte, error) {
	data, err := transport.Codec(f.codec).Encode(f.Value)
	if err != nil {
		return 0, nil, err
	}
	return bson.TypeBinary, bsoncore.AppendBinary(nil, SubtypeFrame, data), nil
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (f *Frame) UnmarshalBSONValue(t bsontype.Type, raw []byte) error {
	if t != bson.TypeBinary {
		return fmt.Errorf("%w: got %s", ErrNotBinary, t)
	}
	subtype, data, _, ok := bsoncore.ReadBinary(raw)
	if !ok {
		return fmt.Errorf("%w: truncated", ErrNotBinary)
	}
	if subtype != SubtypeFrame {
		return fmt.Errorf("%w: 0x%02x", ErrSubtype, subtype)
	}
	v, err := transport.Codec(f.codec).Decode(data)
	if err != nil {
		return err
	}
	f.Value = v
	return nil
}

// Compile-time checks
var (
	_ bson.ValueMarshaler   = Frame{}
	_ bson.ValueUnmarshaler = (*Frame)(nil)
)
