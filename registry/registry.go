// Package registry maps discriminators to Go types and payload codecs.
//
// Each registered discriminator names a Go type and the payload.Codec that
// serializes it. JSON payloads travel in a JSON frame; binary payloads
// (MessagePack, CBOR, Protocol Buffers) travel in a binary frame.
//
// Usage:
//
//	r := registry.New()
//	registry.Register[Order](r, "order.created", payload.JSON{})
//	registry.Register[Snapshot](r, "snapshot", payload.MsgPack{})
//
//	data, err := r.Marshal("order.created", Order{ID: "1"})
//	// data == []byte(`{"type":"order.created","value":{"id":"1"}}`)
//
//	discriminator, v, err := r.Unmarshal(data)
//	order := v.(*Order)
//
//	// or, typed
//	order, err := registry.UnmarshalAs[Order](r, data)
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/rbaliyan/dvcodec"
	"github.com/rbaliyan/dvcodec/payload"
)

type entry struct {
	typ   reflect.Type
	codec payload.Codec
}

// Registry holds discriminator registrations.
// It is safe for concurrent use.
type Registry struct {
	codec  *dvcodec.Codec
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]entry
	byType  map[reflect.Type]string
}

// Option option function for registry configuration
type Option func(*Registry)

// WithCodec sets the frame codec. Default is dvcodec.Default().
func WithCodec(c *dvcodec.Codec) Option {
	return func(r *Registry) {
		if c != nil {
			r.codec = c
		}
	}
}

// WithLogger sets the logger for the registry
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		codec:   dvcodec.Default(),
		logger:  slog.Default(),
		entries: make(map[string]entry),
		byType:  make(map[reflect.Type]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register associates discriminator with type T and the payload codec used
// for it. A nil codec selects payload.Default().
func Register[T any](r *Registry, discriminator string, codec payload.Codec) error {
	if err := dvcodec.ValidateDiscriminator(discriminator); err != nil {
		return err
	}
	if codec == nil {
		codec = payload.Default()
	}
	typ := reflect.TypeOf((*T)(nil)).Elem()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[discriminator]; ok {
		return fmt.Errorf("discriminator %q: %w", discriminator, ErrAlreadyRegistered)
	}
	if other, ok := r.byType[typ]; ok {
		return fmt.Errorf("type %s (as %q): %w", typ, other, ErrAlreadyRegistered)
	}
	r.entries[discriminator] = entry{typ: typ, codec: codec}
	r.byType[typ] = discriminator
	return nil
}

// RegisterContentType is Register with the payload codec resolved from
// the payload content-type registry, e.g. "application/msgpack".
func RegisterContentType[T any](r *Registry, discriminator, contentType string) error {
	codec, err := payload.Lookup(contentType)
	if err != nil {
		return fmt.Errorf("discriminator %q: %w", discriminator, err)
	}
	return Register[T](r, discriminator, codec)
}

// MustRegister is like Register but panics on error.
func MustRegister[T any](r *Registry, discriminator string, codec payload.Codec) {
	if err := Register[T](r, discriminator, codec); err != nil {
		panic(err)
	}
}

// Codec returns the frame codec used by the registry.
func (r *Registry) Codec() *dvcodec.Codec {
	return r.codec
}

// Discriminators returns the registered discriminators, sorted.
func (r *Registry) Discriminators() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for d := range r.entries {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// DiscriminatorOf returns the discriminator registered for v's type.
// Values of type *T resolve like T.
func (r *Registry) DiscriminatorOf(v any) (string, bool) {
	typ := reflect.TypeOf(v)
	if typ == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.byType[typ]; ok {
		return d, true
	}
	if typ.Kind() == reflect.Pointer {
		d, ok := r.byType[typ.Elem()]
		return d, ok
	}
	return "", false
}

// ContentType returns the content type of the payload codec registered
// for discriminator.
func (r *Registry) ContentType(discriminator string) (string, bool) {
	e, ok := r.lookup(discriminator)
	if !ok {
		return "", false
	}
	return e.codec.ContentType(), true
}

func (r *Registry) lookup(discriminator string) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[discriminator]
	return e, ok
}

// Encode frames v under the discriminator registered for its type.
func (r *Registry) Encode(v any) ([]byte, error) {
	discriminator, ok := r.DiscriminatorOf(v)
	if !ok {
		return nil, fmt.Errorf("type %T: %w", v, ErrUnknownDiscriminator)
	}
	return r.Marshal(discriminator, v)
}

// Marshal frames v under discriminator. v must be of the registered type
// T or *T.
func (r *Registry) Marshal(discriminator string, v any) ([]byte, error) {
	e, ok := r.lookup(discriminator)
	if !ok {
		return nil, fmt.Errorf("discriminator %q: %w", discriminator, ErrUnknownDiscriminator)
	}
	if typ := reflect.TypeOf(v); typ != e.typ && typ != reflect.PointerTo(e.typ) {
		return nil, fmt.Errorf("discriminator %q expects %s, got %T: %w", discriminator, e.typ, v, ErrTypeMismatch)
	}

	data, err := e.codec.Encode(v)
	if err != nil {
		return nil, errors.Join(ErrEncodeFailure, err)
	}
	if e.codec.Binary() {
		return r.codec.Encode(dvcodec.NewBytes(discriminator, data))
	}
	return r.codec.Encode(dvcodec.NewJSON(discriminator, json.RawMessage(data)))
}

// Unmarshal decodes a frame into a new *T for the registered discriminator.
func (r *Registry) Unmarshal(data []byte) (string, any, error) {
	raw, err := r.codec.DecodeRaw(data)
	if err != nil {
		return "", nil, err
	}

	e, ok := r.lookup(raw.Discriminator)
	if !ok {
		r.logger.Debug("unknown discriminator", "discriminator", raw.Discriminator)
		return raw.Discriminator, nil, fmt.Errorf("discriminator %q: %w", raw.Discriminator, ErrUnknownDiscriminator)
	}
	if binary := raw.Frame == dvcodec.FrameBinary; binary != e.codec.Binary() {
		return raw.Discriminator, nil, fmt.Errorf("discriminator %q: %s frame for %s payload: %w",
			raw.Discriminator, raw.Frame, e.codec.ContentType(), ErrPayloadKind)
	}

	target := reflect.New(e.typ)
	if err := e.codec.Decode(raw.Payload, target.Interface()); err != nil {
		r.logger.Debug("failed to decode payload", "discriminator", raw.Discriminator, "error", err)
		return raw.Discriminator, nil, errors.Join(ErrDecodeFailure, err)
	}
	return raw.Discriminator, target.Interface(), nil
}

// UnmarshalAs decodes a frame whose discriminator is registered for T.
func UnmarshalAs[T any](r *Registry, data []byte) (*T, error) {
	discriminator, v, err := r.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	out, ok := v.(*T)
	if !ok {
		return nil, fmt.Errorf("discriminator %q decodes to %T, not *%s: %w",
			discriminator, v, reflect.TypeOf((*T)(nil)).Elem(), ErrTypeMismatch)
	}
	return out, nil
}
