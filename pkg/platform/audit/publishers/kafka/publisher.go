// Package kafka publishes registry audit events to a Kafka topic.
//
// Delivery is synchronous per event but best effort from the registry's
// point of view: a failed publish is logged and reported to the caller,
// which may ignore it without rolling back the registry operation.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "sponsorreg/pkg/platform/audit"
)

// Publisher emits audit events as JSON records keyed by agreement id.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for publish failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New creates a publisher on top of an existing client. The caller owns
// the client lifecycle.
func New(client *kgo.Client, topic string, opts ...Option) *Publisher {
	p := &Publisher{client: client, topic: topic}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Connect dials the brokers and returns a publisher that owns its client.
func Connect(brokers []string, topic string, opts ...Option) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("connect audit brokers: %w", err)
	}
	return New(client, topic, opts...), nil
}

func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(strconv.FormatUint(event.AgreementID, 10)),
		Value: value,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "audit publish failed",
				"action", event.Action,
				"agreement_id", event.AgreementID,
				"error", err,
			)
		}
		return fmt.Errorf("publish audit event: %w", err)
	}
	return nil
}

// Close releases the underlying client. Only call when the publisher was
// built with Connect.
func (p *Publisher) Close() {
	p.client.Close()
}
