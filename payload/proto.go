package payload

import (
	"errors"

	"google.golang.org/protobuf/proto"
)

// ErrNotProtoMessage is returned when a payload or decode target does not
// implement proto.Message.
var ErrNotProtoMessage = errors.New("payload must implement proto.Message")

// Proto encodes payloads as Protocol Buffers wire format in a binary
// frame. Payloads and decode targets must implement proto.Message.
//
//	registry.Register[pb.Order](r, "order.created", payload.Proto{Deterministic: true})
type Proto struct {
	// Deterministic orders map entries so equal messages produce equal
	// bytes within one binary.
	Deterministic bool
	// DiscardUnknown drops fields the target message does not declare.
	DiscardUnknown bool
}

func (p Proto) Encode(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, ErrNotProtoMessage
	}
	return proto.MarshalOptions{Deterministic: p.Deterministic}.Marshal(msg)
}

func (p Proto) Decode(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return ErrNotProtoMessage
	}
	return proto.UnmarshalOptions{DiscardUnknown: p.DiscardUnknown}.Unmarshal(data, msg)
}

func (Proto) ContentType() string {
	return "application/protobuf"
}

func (Proto) Binary() bool {
	return true
}

var _ Codec = Proto{}

func init() {
	Register(Proto{})
}
