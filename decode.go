package dvcodec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	jsonStart   = '{'
	binaryStart = quote
	// minFrameSize is the size of the shortest binary frame, `"a"`.
	minFrameSize = 3
)

// FrameKind identifies the wire form of a frame.
type FrameKind int

const (
	// FrameJSON is a JSON object frame.
	FrameJSON FrameKind = iota + 1
	// FrameBinary is a quote-delimited binary frame.
	FrameBinary
)

func (k FrameKind) String() string {
	switch k {
	case FrameJSON:
		return "json"
	case FrameBinary:
		return "binary"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Inspect classifies data without decoding the payload. For binary
// frames it also returns the length of the discriminator; for JSON frames
// the JSON text is not validated.
func Inspect(data []byte) (FrameKind, int, error) {
	if len(data) < minFrameSize {
		return 0, 0, malformed(ReasonInvalidLength, data)
	}
	switch data[0] {
	case jsonStart:
		return FrameJSON, 0, nil
	case binaryStart:
		end, err := discriminatorEnd(data)
		if err != nil {
			return 0, 0, err
		}
		return FrameBinary, end - 1, nil
	default:
		return 0, 0, malformed(ReasonInvalidStartingCharacter, data)
	}
}

// RawValue is a decoded frame whose payload has not been interpreted.
type RawValue struct {
	Discriminator string
	Frame         FrameKind
	// Payload holds the JSON text of the payload field for JSON frames
	// ("null" when the field is absent) and the raw bytes for binary frames.
	Payload []byte
}

// DecodeRaw parses a frame like Decode but leaves the payload as bytes,
// so callers can unmarshal JSON payloads into their own types.
func (c *Codec) DecodeRaw(data []byte) (RawValue, error) {
	kind, _, err := Inspect(data)
	if err != nil {
		return RawValue{}, err
	}
	if kind == FrameJSON {
		return c.decodeJSON(data)
	}
	return decodeBinary(data)
}

func (c *Codec) decode(data []byte) (Value, error) {
	raw, err := c.DecodeRaw(data)
	if err != nil {
		return Value{}, err
	}
	if raw.Frame == FrameBinary {
		return Value{Discriminator: raw.Discriminator, Payload: Bytes(raw.Payload)}, nil
	}
	payload, err := c.unmarshalAny(raw.Payload)
	if err != nil {
		return Value{}, err
	}
	return Value{Discriminator: raw.Discriminator, Payload: JSON(payload)}, nil
}

// discriminatorEnd returns the index of the quote closing the
// discriminator of a binary frame.
func discriminatorEnd(data []byte) (int, error) {
	i := bytes.IndexByte(data[1:], quote)
	if i < 0 {
		return 0, malformed(ReasonInvalidDiscriminator, data)
	}
	if i == 0 {
		return 0, malformed(ReasonInvalidEmptyDiscriminator, data)
	}
	return i + 1, nil
}

func decodeBinary(data []byte) (RawValue, error) {
	end, err := discriminatorEnd(data)
	if err != nil {
		return RawValue{}, err
	}
	return RawValue{
		Discriminator: string(data[1:end]),
		Frame:         FrameBinary,
		Payload:       bytes.Clone(data[end+1:]),
	}, nil
}

func (c *Codec) decodeJSON(data []byte) (RawValue, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return RawValue{}, err
	}

	var discriminator string
	if raw, ok := obj[c.fields.Discriminator]; ok {
		if err := json.Unmarshal(raw, &discriminator); err != nil {
			return RawValue{}, err
		}
	}
	if discriminator == "" {
		return RawValue{}, malformed(ReasonInvalidEmptyDiscriminator, data)
	}

	payload, ok := obj[c.fields.Payload]
	if !ok {
		payload = json.RawMessage("null")
	}
	return RawValue{Discriminator: discriminator, Frame: FrameJSON, Payload: payload}, nil
}

// unmarshalAny decodes a JSON value into generic Go data.
func (c *Codec) unmarshalAny(raw []byte) (any, error) {
	var v any
	if !c.useNumber {
		err := json.Unmarshal(raw, &v)
		return v, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func malformed(reason string, data []byte) error {
	return &MalformedFrameError{Reason: reason, Size: len(data)}
}
