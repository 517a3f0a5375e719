// Package nats carries discriminated-value frames in NATS messages.
//
// The frame is the message data; the frame kind is set in the
// transport.HeaderFrame header.
//
//	msg, err := nats.NewMsg(codec, "orders", dvcodec.NewJSON("order.created", order))
//	err = conn.PublishMsg(msg)
//
//	// in a subscription handler
//	v, err := nats.Decode(codec, msg)
package nats

import (
	"github.com/nats-io/nats.go"
	"github.com/rbaliyan/dvcodec"
	"github.com/rbaliyan/dvcodec/transport"
)

// NewMsg returns a message for subject carrying v. A nil codec selects
// dvcodec.Default().
func NewMsg(c *dvcodec.Codec, subject string, v dvcodec.Value) (*nats.Msg, error) {
	data, kind, err := transport.Encode(c, v)
	if err != nil {
		return nil, err
	}
	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set(transport.HeaderFrame, kind.String())
	return msg, nil
}

// Decode reads the frame carried by msg.
func Decode(c *dvcodec.Codec, msg *nats.Msg) (dvcodec.Value, error) {
	if msg == nil {
		return dvcodec.Value{}, transport.ErrNilMessage
	}
	if len(msg.Data) == 0 {
		return dvcodec.Value{}, transport.ErrMissingFrame
	}
	var header string
	if msg.Header != nil {
		header = msg.Header.Get(transport.HeaderFrame)
	}
	return transport.Decode(c, msg.Data, header, msg.Subject)
}
