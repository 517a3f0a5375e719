// Package transport places discriminated-value frames into the message
// types of messaging and storage clients and reads them back.
//
// The sub-packages (nats, kafka, redis, grpc, mongo) never open
// connections: each call fills or reads exactly one client message, and
// the caller publishes or stores it with its own client.
//
// Where the client supports headers, adapters set HeaderFrame to the frame
// kind ("json" or "binary") so consumers can route without parsing.
package transport

import (
	"errors"

	"github.com/rbaliyan/dvcodec"
)

// HeaderFrame is the message header carrying the frame kind.
const HeaderFrame = "Dv-Frame"

// Transport errors
var (
	ErrNilMessage    = errors.New("nil message")
	ErrMissingFrame  = errors.New("message carries no frame")
	ErrFrameMismatch = errors.New("frame header does not match frame")
)

// DecodeError represents a message that failed to decode.
type DecodeError struct {
	RawData []byte // The raw frame that failed to decode
	Err     error  // The decode error
	MsgID   string // Transport-specific message ID (e.g., Redis stream ID)
}

func (e *DecodeError) Error() string {
	if e.MsgID != "" {
		return "decode error (" + e.MsgID + "): " + e.Err.Error()
	}
	return "decode error: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Codec returns c, or the default codec when c is nil.
func Codec(c *dvcodec.Codec) *dvcodec.Codec {
	if c == nil {
		return dvcodec.Default()
	}
	return c
}

// Encode frames v and returns the frame with its kind.
func Encode(c *dvcodec.Codec, v dvcodec.Value) ([]byte, dvcodec.FrameKind, error) {
	data, err := Codec(c).Encode(v)
	if err != nil {
		return nil, 0, err
	}
	kind := dvcodec.FrameJSON
	if v.Payload.IsBytes() {
		kind = dvcodec.FrameBinary
	}
	return data, kind, nil
}

// Decode parses a frame read from a message. When header is not empty it
// must name the kind of the frame. Failures are returned as *DecodeError.
func Decode(c *dvcodec.Codec, data []byte, header, msgID string) (dvcodec.Value, error) {
	if header != "" {
		kind, _, err := dvcodec.Inspect(data)
		if err != nil {
			return dvcodec.Value{}, &DecodeError{RawData: data, Err: err, MsgID: msgID}
		}
		if kind.String() != header {
			return dvcodec.Value{}, &DecodeError{RawData: data, Err: ErrFrameMismatch, MsgID: msgID}
		}
	}
	v, err := Codec(c).Decode(data)
	if err != nil {
		return dvcodec.Value{}, &DecodeError{RawData: data, Err: err, MsgID: msgID}
	}
	return v, nil
}
