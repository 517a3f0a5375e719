// Package grpc provides a gRPC codec that sends discriminated-value frames
// as message bodies.
//
// Importing the package registers the codec under Name with the default
// field configuration. Select it per call:
//
//	conn.Invoke(ctx, "/svc.Events/Publish", &in, &out, grpc.CallContentSubtype(dvgrpc.Name))
//
// Request and response messages may be dvcodec.Value, *dvcodec.Value, any
// dvcodec.Discriminated, or records accepted by dvcodec.Codec.Marshal.
package grpc

import (
	"github.com/rbaliyan/dvcodec"
	"github.com/rbaliyan/dvcodec/transport"
	"google.golang.org/grpc/encoding"
)

// Name is the content subtype of the codec ("application/grpc+dvcodec").
const Name = "dvcodec"

func init() {
	encoding.RegisterCodec(NewCodec(nil))
}

// Codec implements encoding.Codec on top of a dvcodec.Codec.
type Codec struct {
	codec *dvcodec.Codec
	name  string
}

// NewCodec returns a gRPC codec named Name. A nil codec selects
// dvcodec.Default().
func NewCodec(c *dvcodec.Codec) Codec {
	return Codec{codec: transport.Codec(c), name: Name}
}

// NewNamedCodec returns a gRPC codec with a custom content subtype, so
// codecs bound to different field names can be registered side by side.
func NewNamedCodec(name string, c *dvcodec.Codec) Codec {
	return Codec{codec: transport.Codec(c), name: name}
}

// Marshal encodes v as a frame.
func (c Codec) Marshal(v any) ([]byte, error) {
	return c.codec.Marshal(v)
}

// Unmarshal decodes a frame into v.
func (c Codec) Unmarshal(data []byte, v any) error {
	return c.codec.Unmarshal(data, v)
}

// Name returns the content subtype.
func (c Codec) Name() string {
	return c.name
}

// Compile-time check
var _ encoding.Codec = Codec{}
