package payload

import (
	"errors"
	"fmt"
	"mime"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownContentType is returned by Lookup for content types with no
// registered codec.
var ErrUnknownContentType = errors.New("unknown payload content type")

var (
	mu     sync.RWMutex
	codecs = map[string]Codec{
		"application/json": JSON{},
	}
	// aliases maps media types seen in the wild to the registered name.
	aliases = map[string]string{
		"text/json":               "application/json",
		"application/x-msgpack":   "application/msgpack",
		"application/vnd.msgpack": "application/msgpack",
		"application/x-protobuf":  "application/protobuf",
	}
)

// Register makes codec available under its ContentType. A later
// registration for the same content type replaces the earlier one.
func Register(codec Codec) {
	if codec == nil {
		return
	}
	ct := normalize(codec.ContentType())
	mu.Lock()
	defer mu.Unlock()
	codecs[ct] = codec
}

// Get returns the codec for contentType. Parameters such as
// "; charset=utf-8" and letter case are ignored, and common aliases
// resolve to their registered name.
func Get(contentType string) (Codec, bool) {
	ct := normalize(contentType)
	mu.RLock()
	defer mu.RUnlock()
	c, ok := codecs[ct]
	return c, ok
}

// Lookup is Get with an error naming the content type.
func Lookup(contentType string) (Codec, error) {
	if c, ok := Get(contentType); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownContentType, contentType)
}

// ContentTypes returns the registered content types, sorted.
func ContentTypes() []string {
	mu.RLock()
	defer mu.RUnlock()
	types := make([]string, 0, len(codecs))
	for ct := range codecs {
		types = append(types, ct)
	}
	slices.Sort(types)
	return types
}

func normalize(contentType string) string {
	ct, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		ct = strings.ToLower(strings.TrimSpace(contentType))
	}
	if alias, ok := aliases[ct]; ok {
		return alias
	}
	return ct
}
