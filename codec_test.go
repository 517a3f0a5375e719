package dvcodec

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"syreclabs.com/go/faker"
)

func init() {
	faker.Seed(time.Now().UnixNano())
}

func TestEncodeDecodeJSON(t *testing.T) {
	data, err := Encode(NewJSON("json", "hello, world"))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := `{"type":"json","value":"hello, world"}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff(NewJSON("json", "hello, world"), decoded); diff != "" {
		t.Errorf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDecodeBinary(t *testing.T) {
	data, err := Encode(NewBytes("binary", []byte("42")))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if string(data) != `"binary"42` {
		t.Errorf("expected \"binary\"42, got %s", data)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if diff := cmp.Diff(NewBytes("binary", []byte("42")), decoded); diff != "" {
		t.Errorf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDecodeEmptyBinary(t *testing.T) {
	data, err := Encode(NewBytes("binary", []byte{}))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if string(data) != `"binary"` {
		t.Errorf("expected \"binary\", got %s", data)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !decoded.Payload.IsBytes() {
		t.Fatalf("expected bytes payload, got %s", decoded.Payload.Kind())
	}
	if got := decoded.Payload.Bytes(); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil payload, got %#v", got)
	}
	if decoded.Discriminator != "binary" {
		t.Errorf("expected binary, got %s", decoded.Discriminator)
	}
}

func TestEncodeJSONPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{name: "null", payload: nil, want: `{"type":"t","value":null}`},
		{name: "bool", payload: true, want: `{"type":"t","value":true}`},
		{name: "number", payload: 1.5, want: `{"type":"t","value":1.5}`},
		{name: "array", payload: []any{1, "a"}, want: `{"type":"t","value":[1,"a"]}`},
		{name: "object", payload: map[string]any{"b": 2, "a": 1}, want: `{"type":"t","value":{"a":1,"b":2}}`},
		{name: "html is not escaped", payload: "<a&b>", want: `{"type":"t","value":"<a&b>"}`},
		{name: "raw message", payload: json.RawMessage(`{"x":[1,2]}`), want: `{"type":"t","value":{"x":[1,2]}}`},
		{name: "struct", payload: struct {
			ID     string  `json:"id"`
			Amount float64 `json:"amount"`
		}{ID: "ORD-123", Amount: 99.99}, want: `{"type":"t","value":{"id":"ORD-123","amount":99.99}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(NewJSON("t", tt.payload))
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, data)
			}
		})
	}
}

func TestEncodeInvalidDiscriminator(t *testing.T) {
	tests := []struct {
		name          string
		value         Value
		wantReason    string
		discriminator string
	}{
		{name: "quote with json payload", value: NewJSON(`invalid"`, "whatever"), wantReason: ReasonQuoteNotAllowed, discriminator: `invalid"`},
		{name: "quote with bytes payload", value: NewBytes(`in"valid`, []byte("x")), wantReason: ReasonQuoteNotAllowed, discriminator: `in"valid`},
		{name: "empty with json payload", value: NewJSON("", "whatever"), wantReason: ReasonDiscriminatorRequired},
		{name: "empty with bytes payload", value: NewBytes("", nil), wantReason: ReasonDiscriminatorRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.value)
			if data != nil {
				t.Errorf("expected no output, got %q", data)
			}
			if !errors.Is(err, ErrInvalidDiscriminator) {
				t.Fatalf("expected ErrInvalidDiscriminator, got %v", err)
			}
			var discErr *InvalidDiscriminatorError
			if !errors.As(err, &discErr) {
				t.Fatalf("expected *InvalidDiscriminatorError, got %T", err)
			}
			if discErr.Reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, discErr.Reason)
			}
			if discErr.Discriminator != tt.discriminator {
				t.Errorf("expected discriminator %q, got %q", tt.discriminator, discErr.Discriminator)
			}
			if errors.Is(err, ErrMalformedFrame) {
				t.Error("encode error must not match ErrMalformedFrame")
			}
		})
	}
}

func TestEncodeUnsupportedJSON(t *testing.T) {
	_, err := Encode(NewJSON("t", make(chan int)))
	if err == nil {
		t.Fatal("expected error for channel payload")
	}
	var typeErr *json.UnsupportedTypeError
	if !errors.As(err, &typeErr) {
		t.Errorf("expected *json.UnsupportedTypeError, got %T: %v", err, err)
	}
	if IsInvalidDiscriminator(err) || IsMalformedFrame(err) {
		t.Error("json errors must not be wrapped in codec errors")
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantReason string
	}{
		{name: "empty input", input: "", wantReason: ReasonInvalidLength},
		{name: "single quote", input: `"`, wantReason: ReasonInvalidLength},
		{name: "two bytes", input: `""`, wantReason: ReasonInvalidLength},
		{name: "empty object", input: `{}`, wantReason: ReasonInvalidLength},
		{name: "unterminated discriminator", input: `"whatever is not closed`, wantReason: ReasonInvalidDiscriminator},
		{name: "unknown start", input: `??? whats this`, wantReason: ReasonInvalidStartingCharacter},
		{name: "array start", input: `[1,2,3]`, wantReason: ReasonInvalidStartingCharacter},
		{name: "empty binary discriminator", input: `""payload`, wantReason: ReasonInvalidEmptyDiscriminator},
		{name: "json without discriminator", input: `{"value":1}`, wantReason: ReasonInvalidEmptyDiscriminator},
		{name: "json with empty discriminator", input: `{"type":"","value":1}`, wantReason: ReasonInvalidEmptyDiscriminator},
		{name: "json with null discriminator", input: `{"type":null,"value":1}`, wantReason: ReasonInvalidEmptyDiscriminator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			if !errors.Is(err, ErrMalformedFrame) {
				t.Fatalf("expected ErrMalformedFrame, got %v", err)
			}
			if reason := MalformedReason(err); reason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, reason)
			}
			var frameErr *MalformedFrameError
			if errors.As(err, &frameErr) && frameErr.Size != len(tt.input) {
				t.Errorf("expected size %d, got %d", len(tt.input), frameErr.Size)
			}
		})
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "syntax error", input: `{invalid}`},
		{name: "truncated", input: `{"type":"json","value":`},
		{name: "trailing data", input: `{"type":"json"} extra`},
		{name: "non-string discriminator", input: `{"type":42,"value":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if IsMalformedFrame(err) {
				t.Errorf("json errors must not be reported as malformed frames: %v", err)
			}
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
				t.Errorf("expected an encoding/json error, got %T: %v", err, err)
			}
		})
	}
}

func TestDecodeBinaryEdgeCases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{name: "shortest frame", input: `"a"`, want: NewBytes("a", nil)},
		{name: "payload with quotes", input: `"t"a"b"`, want: NewBytes("t", []byte(`a"b"`))},
		{name: "payload looks like json", input: `"t"{"type":"x"}`, want: NewBytes("t", []byte(`{"type":"x"}`))},
		{name: "utf-8 discriminator", input: "\"héllo\"\x00\x01\xff", want: NewBytes("héllo", []byte{0x00, 0x01, 0xff})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("decoded mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeDoesNotAliasInput(t *testing.T) {
	input := []byte(`"bin"abc`)
	v, err := Decode(input)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	input[5] = 'X'
	if string(v.Payload.Bytes()) != "abc" {
		t.Errorf("payload changed with input: %q", v.Payload.Bytes())
	}
}

func TestDecodeJSONExtraFields(t *testing.T) {
	v, err := Decode([]byte(`{"value":{"n":1},"extra":true,"type":"json"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := NewJSON("json", map[string]any{"n": 1.0})
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("decoded mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeJSONMissingPayload(t *testing.T) {
	v, err := Decode([]byte(`{"type":"empty"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if v.Payload.IsBytes() || v.Payload.JSON() != nil {
		t.Errorf("expected null json payload, got %s", v.Payload)
	}
}

func TestRoundTripJSON(t *testing.T) {
	for i := 0; i < 50; i++ {
		original := NewJSON(faker.Lorem().Word()+uuid.NewString(), map[string]any{
			"sentence": faker.Lorem().Sentence(5),
			"count":    float64(faker.RandomInt(0, 1<<20)),
			"tags":     []any{faker.Lorem().Word(), faker.Lorem().Word()},
			"nested":   map[string]any{"ok": true, "none": nil},
		})

		data, err := Encode(original)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		decoded, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if diff := cmp.Diff(original, decoded); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestRoundTripBytes(t *testing.T) {
	for i := 0; i < 50; i++ {
		payload := []byte(faker.Lorem().Paragraph(2))
		if i%2 == 0 {
			payload = append(payload, '"', '{', 0x00, 0xff)
		}
		if i%10 == 0 {
			payload = []byte{}
		}
		original := NewBytes(uuid.NewString(), payload)

		data, err := Encode(original)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if len(data) != len(original.Discriminator)+2+len(payload) {
			t.Errorf("unexpected frame size %d", len(data))
		}
		decoded, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if diff := cmp.Diff(original, decoded); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestBindRenamesFields(t *testing.T) {
	c, err := Bind("abra", "karabra")
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	t.Run("JSON frame uses configured names", func(t *testing.T) {
		data, err := c.Encode(NewJSON("json", "hello, world"))
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		want := `{"abra":"json","karabra":"hello, world"}`
		if string(data) != want {
			t.Errorf("expected %s, got %s", want, data)
		}
		decoded, err := c.Decode(data)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if diff := cmp.Diff(NewJSON("json", "hello, world"), decoded); diff != "" {
			t.Errorf("decoded mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("binary frame is unchanged", func(t *testing.T) {
		renamed, err := c.Encode(NewBytes("binary", []byte("42")))
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		std, err := Encode(NewBytes("binary", []byte("42")))
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if string(renamed) != string(std) {
			t.Errorf("expected %s, got %s", std, renamed)
		}
	})

	t.Run("default codec is not affected", func(t *testing.T) {
		if diff := cmp.Diff(DefaultFields(), Default().Fields()); diff != "" {
			t.Errorf("default fields changed (-want +got):\n%s", diff)
		}
		_, err := Decode([]byte(`{"abra":"json","karabra":1}`))
		if MalformedReason(err) != ReasonInvalidEmptyDiscriminator {
			t.Errorf("expected default codec to ignore renamed fields, got %v", err)
		}
	})
}

func TestNewRejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
	}{
		{name: "empty discriminator", fields: Fields{Payload: "value"}},
		{name: "empty payload", fields: Fields{Discriminator: "type"}},
		{name: "same names", fields: Fields{Discriminator: "x", Payload: "x"}},
		{name: "quote in name", fields: Fields{Discriminator: `ty"pe`, Payload: "value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(WithFields(tt.fields))
			if c != nil {
				t.Error("expected nil codec")
			}
			if !errors.Is(err, ErrInvalidFields) {
				t.Errorf("expected ErrInvalidFields, got %v", err)
			}
		})
	}
}

func TestUseNumber(t *testing.T) {
	c, err := New(WithUseNumber(true))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v, err := c.Decode([]byte(`{"type":"n","value":12345678901234567890}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	n, ok := v.Payload.JSON().(json.Number)
	if !ok {
		t.Fatalf("expected json.Number, got %T", v.Payload.JSON())
	}
	if n.String() != "12345678901234567890" {
		t.Errorf("expected 12345678901234567890, got %s", n)
	}
}

func TestInspect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind FrameKind
		wantLen  int
		wantErr  string
	}{
		{name: "json", input: `{"type":"a"}`, wantKind: FrameJSON},
		{name: "binary", input: `"abc"payload`, wantKind: FrameBinary, wantLen: 3},
		{name: "short", input: `"a`, wantErr: ReasonInvalidLength},
		{name: "unterminated", input: `"abc`, wantErr: ReasonInvalidDiscriminator},
		{name: "garbage", input: `abc`, wantErr: ReasonInvalidStartingCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, n, err := Inspect([]byte(tt.input))
			if tt.wantErr != "" {
				if MalformedReason(err) != tt.wantErr {
					t.Fatalf("expected reason %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Inspect failed: %v", err)
			}
			if kind != tt.wantKind {
				t.Errorf("expected %s, got %s", tt.wantKind, kind)
			}
			if n != tt.wantLen {
				t.Errorf("expected discriminator length %d, got %d", tt.wantLen, n)
			}
		})
	}
}

func TestConcurrentUse(t *testing.T) {
	c, err := Bind("kind", "data")
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}

	done := make(chan error, 16)
	for i := 0; i < 16; i++ {
		go func(i int) {
			for j := 0; j < 100; j++ {
				v := NewBytes("w", []byte(strings.Repeat("x", i+j)))
				if j%2 == 0 {
					v = NewJSON("w", float64(i*j))
				}
				data, err := c.Encode(v)
				if err != nil {
					done <- err
					return
				}
				got, err := c.Decode(data)
				if err != nil {
					done <- err
					return
				}
				if !cmp.Equal(v, got) {
					done <- errors.New(cmp.Diff(v, got))
					return
				}
			}
			done <- nil
		}(i)
	}
	for i := 0; i < 16; i++ {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}

func TestDecodeRaw(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  RawValue
	}{
		{name: "json", input: `{"type":"order","value":{"id": 1}}`, want: RawValue{Discriminator: "order", Frame: FrameJSON, Payload: []byte(`{"id": 1}`)}},
		{name: "json without payload", input: `{"type":"order"}`, want: RawValue{Discriminator: "order", Frame: FrameJSON, Payload: []byte(`null`)}},
		{name: "binary", input: `"blob"raw`, want: RawValue{Discriminator: "blob", Frame: FrameBinary, Payload: []byte(`raw`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Default().DecodeRaw([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeRaw failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
