package dvcodec

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var (
	bytesType   = reflect.TypeOf([]byte(nil))
	payloadType = reflect.TypeOf(Payload{})
)

// Marshal encodes a record whose discriminator and payload live in the
// fields named by the codec's Fields.
//
// v may be a Value, a Discriminated, a map[string]any, or a struct (or
// pointer to struct) whose fields are matched by their json tag name, or
// by Go field name when untagged. A payload whose dynamic type is []byte
// produces a binary frame; anything else is marshalled as JSON.
func (c *Codec) Marshal(v any) ([]byte, error) {
	switch x := v.(type) {
	case Value:
		return c.Encode(x)
	case *Value:
		if x == nil {
			return nil, &FieldTypeError{Field: c.fields.Discriminator, Want: "value", Got: "nil *Value"}
		}
		return c.Encode(*x)
	case Discriminated:
		return c.EncodeDiscriminated(x)
	case map[string]any:
		val, err := c.valueFromMap(x)
		if err != nil {
			return nil, err
		}
		return c.Encode(val)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, &FieldTypeError{Field: c.fields.Discriminator, Want: "struct, map[string]any or Value", Got: fmt.Sprintf("%T", v)}
	}
	val, err := c.valueFromStruct(rv)
	if err != nil {
		return nil, err
	}
	return c.Encode(val)
}

// Unmarshal decodes a frame into v, which must be a *Value, a
// *map[string]any or a pointer to a struct.
//
// Binary frames set the discriminator field, which must be a string, and
// the payload field, which must be a []byte, a Payload or an interface.
// JSON frames are validated like Decode and then unmarshalled into v
// with encoding/json, so unrelated fields are preserved. A payload field
// of type Payload receives the decoded JSON payload.
func (c *Codec) Unmarshal(data []byte, v any) error {
	if dst, ok := v.(*Value); ok {
		val, err := c.Decode(data)
		if err != nil {
			return err
		}
		*dst = val
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &FieldTypeError{Field: c.fields.Discriminator, Want: "non-nil pointer", Got: fmt.Sprintf("%T", v)}
	}

	val, err := c.Decode(data)
	if err != nil {
		return err
	}
	if !val.Payload.IsBytes() {
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		// Payload fields hold the payload as decoded by the codec.
		elem := rv.Elem()
		if elem.Kind() == reflect.Struct {
			if layout, err := c.layoutOf(elem.Type()); err == nil && elem.FieldByIndex(layout.payload).Type() == payloadType {
				return c.setStruct(elem, val)
			}
		}
		return nil
	}

	if m, ok := v.(*map[string]any); ok {
		if *m == nil {
			*m = make(map[string]any, 2)
		}
		(*m)[c.fields.Discriminator] = val.Discriminator
		(*m)[c.fields.Payload] = val.Payload.Bytes()
		return nil
	}

	elem := rv.Elem()
	if elem.Kind() != reflect.Struct {
		return &FieldTypeError{Field: c.fields.Discriminator, Want: "pointer to struct", Got: fmt.Sprintf("%T", v)}
	}
	return c.setStruct(elem, val)
}

func (c *Codec) valueFromMap(m map[string]any) (Value, error) {
	raw, ok := m[c.fields.Discriminator]
	if !ok {
		return Value{}, &InvalidDiscriminatorError{Reason: ReasonDiscriminatorRequired}
	}
	discriminator, ok := raw.(string)
	if !ok {
		return Value{}, &FieldTypeError{Field: c.fields.Discriminator, Want: "string", Got: fmt.Sprintf("%T", raw)}
	}
	return Value{Discriminator: discriminator, Payload: payloadOf(m[c.fields.Payload])}, nil
}

func (c *Codec) valueFromStruct(rv reflect.Value) (Value, error) {
	layout, err := c.layoutOf(rv.Type())
	if err != nil {
		return Value{}, err
	}
	disc := rv.FieldByIndex(layout.discriminator)
	if disc.Kind() != reflect.String {
		return Value{}, &FieldTypeError{Field: c.fields.Discriminator, Want: "string", Got: disc.Type().String()}
	}
	payload := rv.FieldByIndex(layout.payload)
	if payload.Kind() == reflect.Interface {
		if payload.IsNil() {
			return Value{Discriminator: disc.String(), Payload: JSON(nil)}, nil
		}
		payload = payload.Elem()
	}
	return Value{Discriminator: disc.String(), Payload: payloadOf(payload.Interface())}, nil
}

func (c *Codec) setStruct(rv reflect.Value, val Value) error {
	layout, err := c.layoutOf(rv.Type())
	if err != nil {
		return err
	}
	disc := rv.FieldByIndex(layout.discriminator)
	if disc.Kind() != reflect.String {
		return &FieldTypeError{Field: c.fields.Discriminator, Want: "string", Got: disc.Type().String()}
	}

	payload := rv.FieldByIndex(layout.payload)
	b := val.Payload.Bytes()
	switch {
	case payload.Type() == bytesType:
		payload.SetBytes(b)
	case payload.Type() == payloadType:
		payload.Set(reflect.ValueOf(val.Payload))
	case payload.Kind() == reflect.Interface && bytesType.AssignableTo(payload.Type()):
		payload.Set(reflect.ValueOf(b))
	default:
		return &FieldTypeError{Field: c.fields.Payload, Want: "[]byte", Got: payload.Type().String()}
	}
	disc.SetString(val.Discriminator)
	return nil
}

// payloadOf picks the payload variant from a dynamic value.
func payloadOf(v any) Payload {
	switch p := v.(type) {
	case Payload:
		return p
	case []byte:
		return Bytes(p)
	default:
		return JSON(v)
	}
}

// recordLayout holds the field index paths of a struct type.
type recordLayout struct {
	discriminator []int
	payload       []int
}

type layoutKey struct {
	typ    reflect.Type
	fields Fields
}

var layouts sync.Map // layoutKey -> recordLayout

func (c *Codec) layoutOf(t reflect.Type) (recordLayout, error) {
	key := layoutKey{typ: t, fields: c.fields}
	if l, ok := layouts.Load(key); ok {
		return l.(recordLayout), nil
	}

	disc, ok := findField(t, c.fields.Discriminator)
	if !ok {
		return recordLayout{}, &FieldTypeError{Field: c.fields.Discriminator, Want: "field", Got: "no such field in " + t.String()}
	}
	payload, ok := findField(t, c.fields.Payload)
	if !ok {
		return recordLayout{}, &FieldTypeError{Field: c.fields.Payload, Want: "field", Got: "no such field in " + t.String()}
	}
	l := recordLayout{discriminator: disc, payload: payload}
	layouts.Store(key, l)
	return l, nil
}

// findField locates the exported field named name, preferring an exact
// match over a case-insensitive one like encoding/json does. Fields
// promoted through embedded pointers are ignored.
func findField(t reflect.Type, name string) ([]int, bool) {
	var fold []int
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() || f.Anonymous || !directPath(t, f.Index) {
			continue
		}
		fieldName := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				fieldName = tagName
			}
		}
		if fieldName == name {
			return f.Index, true
		}
		if fold == nil && strings.EqualFold(fieldName, name) {
			fold = f.Index
		}
	}
	return fold, fold != nil
}

func directPath(t reflect.Type, index []int) bool {
	for _, i := range index[:len(index)-1] {
		t = t.Field(i).Type
		if t.Kind() != reflect.Struct {
			return false
		}
	}
	return true
}
