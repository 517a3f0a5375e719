package payload

import (
	"bytes"
	"encoding/json"
)

// JSON encodes payloads as JSON text carried inside a JSON frame. It is
// the default codec.
//
// Output is compact and leaves '<', '>' and '&' unescaped, matching the
// frame encoder. Set UseNumber to decode numbers into interface values as
// json.Number.
type JSON struct {
	UseNumber bool
}

// Encode returns the JSON text of v.
func (JSON) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// Decode unmarshals data into v, which must be a pointer.
func (j JSON) Decode(data []byte, v any) error {
	if !j.UseNumber {
		return json.Unmarshal(data, v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func (JSON) ContentType() string {
	return "application/json"
}

func (JSON) Binary() bool {
	return false
}

var _ Codec = JSON{}
