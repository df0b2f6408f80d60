// Package kafka publishes domain events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/mbeoliero/kit/log"

	"github.com/viahme/viah/internal/entity"
)

// Event is a domain event envelope
type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"key"`
	OccurredAt int64       `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// NewEvent stamps an event with the current time
func NewEvent(eventType, key string, payload interface{}) *Event {
	return &Event{
		Type:       eventType,
		Key:        key,
		OccurredAt: entity.NowUnixMilli(),
		Payload:    payload,
	}
}

// Publisher publishes domain events
type Publisher interface {
	Publish(ctx context.Context, evt *Event) error
	Close() error
}

// Producer publishes events through a sarama SyncProducer
type Producer struct {
	sync  sarama.SyncProducer
	topic string
}

// NewProducer connects to brokers and returns a Producer writing to topic
func NewProducer(brokers []string, clientId, topic string) (*Producer, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientId
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1

	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka: create producer: %w", err)
	}
	return newProducer(sync, topic), nil
}

func newProducer(sync sarama.SyncProducer, topic string) *Producer {
	return &Producer{sync: sync, topic: topic}
}

// Publish encodes evt as JSON and sends it keyed by evt.Key, so events of one
// aggregate stay ordered within a partition.
func (p *Producer) Publish(ctx context.Context, evt *Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("kafka: encode event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.Key),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(evt.Type)},
		},
	}
	partition, offset, err := p.sync.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("kafka: send %s: %w", evt.Type, err)
	}

	log.CtxDebug(ctx, "event published: type=%s, key=%s, partition=%d, offset=%d", evt.Type, evt.Key, partition, offset)
	return nil
}

// Close closes the underlying producer
func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}

// NoopPublisher drops events when no broker is configured
type NoopPublisher struct{}

// Publish logs and discards evt
func (NoopPublisher) Publish(ctx context.Context, evt *Event) error {
	log.CtxDebug(ctx, "event dropped, kafka disabled: type=%s, key=%s", evt.Type, evt.Key)
	return nil
}

// Close is a no-op
func (NoopPublisher) Close() error { return nil }

var _ Publisher = (*Producer)(nil)
var _ Publisher = NoopPublisher{}
