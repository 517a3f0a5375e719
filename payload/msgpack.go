package payload

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPack encodes payloads as MessagePack in a binary frame.
//
// Struct fields are named by their json tags so a type can move between
// JSON and MsgPack registrations without changing field names. Integers
// use the smallest encoding that fits.
//
//	registry.Register[Order](r, "order.created", payload.MsgPack{})
type MsgPack struct{}

func (MsgPack) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (MsgPack) Decode(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

func (MsgPack) ContentType() string {
	return "application/msgpack"
}

func (MsgPack) Binary() bool {
	return true
}

var _ Codec = MsgPack{}

func init() {
	Register(MsgPack{})
}
