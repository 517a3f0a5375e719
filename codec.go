package dvcodec

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Codec encodes discriminated values into frames and decodes them back.
// A Codec is bound to one field configuration for its lifetime and is
// safe for concurrent use.
type Codec struct {
	fields Fields
	// discKey is `{"<discriminator field>":`
	discKey []byte
	// payloadKey is `,"<payload field>":`
	payloadKey []byte
	useNumber  bool
	logger     *slog.Logger
	inst       *instruments
	tracer     trace.Tracer
}

// std is the process-wide codec bound to DefaultFields.
var std = newCodec(newOptions())

// New creates a codec. Without options it behaves like Default().
func New(opts ...Option) (*Codec, error) {
	o := newOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.fields.Validate(); err != nil {
		return nil, err
	}
	c := newCodec(o)
	if o.metricsEnabled {
		inst, err := newInstruments(o.meter())
		if err != nil {
			return nil, err
		}
		c.inst = inst
	}
	return c, nil
}

// Bind creates a codec using the given discriminator and payload field
// names. The default codec is not affected.
func Bind(discriminatorField, payloadField string, opts ...Option) (*Codec, error) {
	return New(append(opts, WithFieldNames(discriminatorField, payloadField))...)
}

// Default returns the codec bound to the "type"/"value" field names.
func Default() *Codec {
	return std
}

func newCodec(o *options) *Codec {
	c := &Codec{
		fields:    o.fields,
		useNumber: o.useNumber,
		logger:    o.logger,
	}
	c.discKey = append(append([]byte{'{'}, quoteKey(o.fields.Discriminator)...), ':')
	c.payloadKey = append(append([]byte{','}, quoteKey(o.fields.Payload)...), ':')
	if o.tracingEnabled {
		c.tracer = o.tracer()
	}
	return c
}

// Fields returns the field configuration the codec is bound to.
func (c *Codec) Fields() Fields {
	return c.fields
}

// Encode serializes v into a frame.
//
// A byte payload produces a binary frame: '"', the discriminator, '"',
// then the raw bytes. Any other payload produces a JSON object holding
// the discriminator field followed by the payload field.
func (c *Codec) Encode(v Value) ([]byte, error) {
	return c.EncodeDiscriminated(v)
}

// EncodeDiscriminated serializes any Discriminated implementation.
func (c *Codec) EncodeDiscriminated(d Discriminated) ([]byte, error) {
	data, err := c.encode(d.DiscriminatorValue(), d.PayloadValue())
	if err != nil {
		var discErr *InvalidDiscriminatorError
		if errors.As(err, &discErr) {
			c.logger.Debug("failed to encode value", "fields", c.fields.String(), "reason", discErr.Reason)
		} else {
			c.logger.Debug("failed to encode value", "fields", c.fields.String(), "reason", "json", "error", err)
		}
		return nil, err
	}
	return data, nil
}

// Decode parses a frame produced by Encode.
//
// Frames starting with '{' are parsed as JSON objects; frames starting
// with '"' are binary frames. Anything else, or input shorter than three
// bytes, fails with a *MalformedFrameError.
func (c *Codec) Decode(data []byte) (Value, error) {
	v, err := c.decode(data)
	if err != nil {
		if reason := MalformedReason(err); reason != "" {
			c.logger.Debug("failed to decode frame", "reason", reason, "size", len(data))
		} else {
			c.logger.Debug("failed to decode frame", "size", len(data), "error", err)
		}
		return Value{}, err
	}
	return v, nil
}

// Encode serializes v with the default codec.
func Encode(v Value) ([]byte, error) {
	return std.Encode(v)
}

// Decode parses a frame with the default codec.
func Decode(data []byte) (Value, error) {
	return std.Decode(data)
}

// Marshal serializes a record with the default codec. See Codec.Marshal.
func Marshal(v any) ([]byte, error) {
	return std.Marshal(v)
}

// Unmarshal parses a frame into a record with the default codec.
// See Codec.Unmarshal.
func Unmarshal(data []byte, v any) error {
	return std.Unmarshal(data, v)
}
