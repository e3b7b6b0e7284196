package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/okian/staffing/pkg/logger"
)

const producerRetryBackoff = 200 * time.Millisecond

// NewSyncProducer dials brokers with an idempotent, all-replica-ack producer.
func NewSyncProducer(brokers []string, clientID string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Version = sarama.V3_3_2_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Retry.Backoff = producerRetryBackoff

	sp, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer for %v: %w", brokers, err)
	}
	return sp, nil
}

// KafkaDeliverer publishes each message as JSON to one topic. Keys are
// random UUIDs; headers carry the event kind and the producing run.
type KafkaDeliverer[T any] struct {
	sp     sarama.SyncProducer
	topic  string
	kind   string
	source string
	logger logger.Logger
}

// NewKafkaDeliverer creates a deliverer for topic. kind is sent in the
// event-kind header and source in the source header.
func NewKafkaDeliverer[T any](sp sarama.SyncProducer, topic, kind, source string, l logger.Logger) *KafkaDeliverer[T] {
	if l == nil {
		l = logger.Get().Named("kafka")
	}
	return &KafkaDeliverer[T]{
		sp:     sp,
		topic:  topic,
		kind:   kind,
		source: source,
		logger: l.With(logger.String("topic", topic)),
	}
}

// Deliver publishes msg and waits for the broker acknowledgement.
func (d *KafkaDeliverer[T]) Deliver(ctx context.Context, msg T) error {
	if d == nil || d.sp == nil {
		return ErrProducerNotInitialized
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: marshal %s payload: %w", ErrDeliveryFailed, d.kind, err)
	}

	key := uuid.NewString()
	pm := &sarama.ProducerMessage{
		Topic: d.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-kind"), Value: []byte(d.kind)},
			{Key: []byte("source"), Value: []byte(d.source)},
			{Key: []byte("content-type"), Value: []byte("application/json")},
		},
	}

	partition, offset, err := d.sp.SendMessage(pm)
	if err != nil {
		d.logger.Error(ctx, "failed to send kafka message",
			logger.String("key", key),
			logger.Int("bytes", len(body)),
			logger.Error(err),
		)
		return fmt.Errorf("%w: send to %s: %w", ErrDeliveryFailed, d.topic, err)
	}

	d.logger.Debug(ctx, "kafka message sent",
		logger.String("key", key),
		logger.Int("partition", int(partition)),
		logger.Any("offset", offset),
		logger.Int("bytes", len(body)),
	)
	return nil
}
