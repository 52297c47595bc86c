package relay

import (
	"context"
	"strconv"

	"github.com/Pasobeso/medbook-orderservice/internal/outbox"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher publishes each outbox entry under its event_type as topic,
// which is how routing keys are modeled on the broker.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, entry outbox.Entry) error {
	msg := kafka.Message{
		Topic: entry.EventType,
		Key:   []byte(strconv.FormatInt(entry.ID, 10)),
		Value: entry.Payload, // Already JSON from the outbox table
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(entry.EventType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
