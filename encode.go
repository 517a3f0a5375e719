package dvcodec

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ValidateDiscriminator reports whether discriminator can be encoded. It
// returns an *InvalidDiscriminatorError for an empty discriminator or one
// containing '"'.
func ValidateDiscriminator(discriminator string) error {
	return checkDiscriminator(discriminator)
}

// checkDiscriminator validates a discriminator before anything is written.
func checkDiscriminator(discriminator string) error {
	if discriminator == "" {
		return &InvalidDiscriminatorError{Reason: ReasonDiscriminatorRequired}
	}
	if strings.IndexByte(discriminator, quote) >= 0 {
		return &InvalidDiscriminatorError{Discriminator: discriminator, Reason: ReasonQuoteNotAllowed}
	}
	return nil
}

func (c *Codec) encode(discriminator string, p Payload) ([]byte, error) {
	if err := checkDiscriminator(discriminator); err != nil {
		return nil, err
	}
	if p.IsBytes() {
		return appendBinaryFrame(nil, discriminator, p.bytes), nil
	}

	value, err := marshalJSON(p.data)
	if err != nil {
		return nil, err
	}
	disc, err := marshalJSON(discriminator)
	if err != nil {
		return nil, err
	}

	frame := make([]byte, 0, len(c.discKey)+len(disc)+len(c.payloadKey)+len(value)+1)
	frame = append(frame, c.discKey...)
	frame = append(frame, disc...)
	frame = append(frame, c.payloadKey...)
	frame = append(frame, value...)
	frame = append(frame, '}')
	return frame, nil
}

// appendBinaryFrame appends '"' discriminator '"' payload to dst.
func appendBinaryFrame(dst []byte, discriminator string, payload []byte) []byte {
	if dst == nil {
		dst = make([]byte, 0, len(discriminator)+2+len(payload))
	}
	dst = append(dst, quote)
	dst = append(dst, discriminator...)
	dst = append(dst, quote)
	return append(dst, payload...)
}

// marshalJSON encodes v the way a JSON.stringify would: compact and with
// '<', '>' and '&' left unescaped.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// quoteKey returns name as a JSON string literal.
func quoteKey(name string) []byte {
	key, err := marshalJSON(name)
	if err != nil {
		// strings always marshal
		panic("dvcodec: cannot quote field name: " + err.Error())
	}
	return key
}
