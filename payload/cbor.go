package payload

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2), so the same
// logical payload always produces identical bytes.
var encMode cbor.EncMode

// decMode decodes untyped maps as map[string]any to stay interchangeable
// with JSON payloads.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("payload: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("payload: CBOR decoder initialization failed: " + err.Error())
	}
	Register(CBOR{})
}

// CBOR implements Codec using deterministic CBOR serialization.
type CBOR struct{}

// Encode serializes the payload to CBOR bytes.
func (CBOR) Encode(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Decode deserializes CBOR bytes to the target type.
func (CBOR) Decode(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// ContentType returns the MIME type for CBOR.
func (CBOR) ContentType() string {
	return "application/cbor"
}

// Binary returns true.
func (CBOR) Binary() bool {
	return true
}

// Compile-time check.
var _ Codec = CBOR{}
