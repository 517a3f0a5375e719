// Package dvcodec encodes discriminated values, a string discriminator
// plus a payload, into a single byte frame and decodes them back.
//
// The wire form is picked per value:
//
//   - JSON-safe payloads produce a JSON object frame:
//     {"type":"<discriminator>","value":<payload>}
//   - Raw byte payloads produce a binary frame: the byte '"', the
//     discriminator, the byte '"', then the payload bytes verbatim.
//
// Decoding dispatches on the first byte ('{' or '"'), so JSON and binary
// payloads can share one channel without extra metadata.
//
// Basic example:
//
//	data, err := dvcodec.Encode(dvcodec.NewJSON("json", "hello, world"))
//	// data == []byte(`{"type":"json","value":"hello, world"}`)
//
//	data, err = dvcodec.Encode(dvcodec.NewBytes("binary", []byte("42")))
//	// data == []byte(`"binary"42`)
//
//	v, err := dvcodec.Decode(data)
//	// v.Discriminator == "binary", v.Payload.Bytes() == []byte("42")
//
// Field names:
//
// The default codec uses "type" and "value". Bind creates a codec with
// other names without affecting the default:
//
//	c, err := dvcodec.Bind("abra", "karabra")
//	data, err := c.Marshal(map[string]any{"abra": "json", "karabra": 1})
//	// data == []byte(`{"abra":"json","karabra":1}`)
//
// Records:
//
// Codec.Marshal and Codec.Unmarshal reflect into structs and maps using
// the configured names, matching struct fields by json tag:
//
//	type Event struct {
//	    Kind string `json:"abra"`
//	    Body []byte `json:"karabra"`
//	}
//
// Types that know their own discriminator can implement Discriminated
// and be encoded with Codec.EncodeDiscriminated.
//
// Errors:
//
// Encode fails with *InvalidDiscriminatorError when the discriminator is
// empty or contains '"'. Decode fails with *MalformedFrameError for input
// shorter than three bytes, an unknown first byte, an unterminated or
// empty discriminator. Errors from encoding/json are returned unwrapped.
//
// Codec Options:
//   - WithFields / WithFieldNames: discriminator and payload field names.
//   - WithUseNumber: decode JSON numbers as json.Number.
//   - WithLogger: logger for rejected input (Debug level). Default slog.Default().
//   - WithMetrics / WithMeterProvider: OpenTelemetry metrics in EncodeContext/DecodeContext.
//   - WithTracing / WithTracerProvider: OpenTelemetry spans in EncodeContext/DecodeContext.
//   - WithName: instrumentation scope name.
package dvcodec
