// Package payload provides payload serialization for discriminated values.
//
// A payload codec turns a Go value into the bytes carried by a frame.
// Codecs whose Binary method reports false produce JSON text and travel
// in a JSON frame; the others produce opaque bytes and travel in a binary
// frame.
//
// Usage:
//
//	// JSON payloads (default), readable on the wire
//	registry.Register[Order](r, "order.created", payload.JSON{})
//
//	// MessagePack payloads in a binary frame
//	registry.Register[Order](r, "order.created", payload.MsgPack{})
//
//	// Protocol Buffers payloads in a binary frame
//	registry.Register[pb.Order](r, "order.created", payload.Proto{})
package payload

// Codec encodes/decodes payload data.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Encode serializes the payload to bytes.
	Encode(v any) ([]byte, error)

	// Decode deserializes bytes to the target type.
	// The target must be a pointer.
	Decode(data []byte, v any) error

	// ContentType returns the MIME type (e.g., "application/json").
	ContentType() string

	// Binary reports whether encoded payloads are opaque bytes that must
	// travel in a binary frame.
	Binary() bool
}

// Default returns the default codec (JSON).
func Default() Codec {
	return JSON{}
}
