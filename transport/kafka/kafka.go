// Package kafka carries discriminated-value frames in Kafka records
// built with IBM/sarama.
//
// The frame is the record value; the frame kind is set in the
// transport.HeaderFrame record header.
//
//	msg, err := kafka.NewProducerMessage(codec, "orders", key, v)
//	_, _, err = producer.SendMessage(msg)
//
//	// in a consumer group handler
//	v, err := kafka.DecodeConsumerMessage(codec, msg)
package kafka

import (
	"strconv"

	"github.com/IBM/sarama"
	"github.com/rbaliyan/dvcodec"
	"github.com/rbaliyan/dvcodec/transport"
)

// NewProducerMessage returns a record for topic carrying v. key may be nil.
// A nil codec selects dvcodec.Default().
func NewProducerMessage(c *dvcodec.Codec, topic string, key []byte, v dvcodec.Value) (*sarama.ProducerMessage, error) {
	data, kind, err := transport.Encode(c, v)
	if err != nil {
		return nil, err
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte(transport.HeaderFrame), Value: []byte(kind.String())},
		},
	}
	if key != nil {
		msg.Key = sarama.ByteEncoder(key)
	}
	return msg, nil
}

// DecodeConsumerMessage reads the frame carried by msg.
func DecodeConsumerMessage(c *dvcodec.Codec, msg *sarama.ConsumerMessage) (dvcodec.Value, error) {
	if msg == nil {
		return dvcodec.Value{}, transport.ErrNilMessage
	}
	if len(msg.Value) == 0 {
		return dvcodec.Value{}, transport.ErrMissingFrame
	}
	return transport.Decode(c, msg.Value, header(msg.Headers), msgID(msg))
}

func header(headers []*sarama.RecordHeader) string {
	for _, h := range headers {
		if h != nil && string(h.Key) == transport.HeaderFrame {
			return string(h.Value)
		}
	}
	return ""
}

// msgID formats the record position as topic/partition/offset.
func msgID(msg *sarama.ConsumerMessage) string {
	return msg.Topic + "/" + strconv.FormatInt(int64(msg.Partition), 10) + "/" + strconv.FormatInt(msg.Offset, 10)
}
