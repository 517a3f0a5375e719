// Package redis carries discriminated-value frames in Redis Stream entries
// built for redis/go-redis.
//
// Each entry holds the frame under FieldFrame and its kind under FieldKind.
//
//	args, err := redis.XAddArgs(codec, "orders", v)
//	err = client.XAdd(ctx, args).Err()
//
//	// for each redis.XMessage read with XRead/XReadGroup
//	v, err := redis.DecodeXMessage(codec, msg)
package redis

import (
	"github.com/rbaliyan/dvcodec"
	"github.com/rbaliyan/dvcodec/transport"
	"github.com/redis/go-redis/v9"
)

// Stream entry fields
const (
	FieldFrame = "frame"
	FieldKind  = "kind"
)

// XAddArgs returns XADD arguments appending v to stream. Trimming options
// (MaxLen, MinID) are left for the caller to set. A nil codec selects
// dvcodec.Default().
func XAddArgs(c *dvcodec.Codec, stream string, v dvcodec.Value) (*redis.XAddArgs, error) {
	data, kind, err := transport.Encode(c, v)
	if err != nil {
		return nil, err
	}
	return &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			FieldFrame: data,
			FieldKind:  kind.String(),
		},
	}, nil
}

// DecodeXMessage reads the frame of a stream entry. Redis returns field
// values as strings; []byte values are accepted as well.
func DecodeXMessage(c *dvcodec.Codec, msg redis.XMessage) (dvcodec.Value, error) {
	var data []byte
	switch raw := msg.Values[FieldFrame].(type) {
	case string:
		data = []byte(raw)
	case []byte:
		data = raw
	}
	if len(data) == 0 {
		return dvcodec.Value{}, transport.ErrMissingFrame
	}
	kind, _ := msg.Values[FieldKind].(string)
	return transport.Decode(c, data, kind, msg.ID)
}
