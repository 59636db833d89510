package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/tracing"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds the Kafka connection settings for the event producer.
type Config struct {
	// Brokers is the list of seed broker addresses.
	Brokers []string
	// StatusTopic receives one StatusChangedEvent per transition.
	StatusTopic string
	// StockReleaseTopic receives one StockReleaseEvent per cancellation.
	StockReleaseTopic string
	// ClientID identifies this service to the brokers.
	ClientID string
}

// Producer publishes order events over Kafka. It implements both the
// StatusNotifier and StockReleaser ports: the two collaborator contracts
// share one client and differ only in topic and payload.
//
// Publication is synchronous and waits for all in-sync replicas, but the
// command handlers treat the result as fire-and-forget; failures are logged
// here and never fail the business operation.
type Producer struct {
	client      *kgo.Client
	admin       *kadm.Client
	statusTopic string
	stockTopic  string
	logger      *slog.Logger
}

// NewProducer creates a Kafka producer and ensures both event topics exist.
func NewProducer(cfg Config, logger *slog.Logger) (*Producer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ProduceRequestTimeout(10 * time.Second),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ClientID(cfg.ClientID),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	producer := &Producer{
		client:      client,
		admin:       kadm.NewClient(client),
		statusTopic: cfg.StatusTopic,
		stockTopic:  cfg.StockReleaseTopic,
		logger:      logger.With("component", "kafka_producer"),
	}

	for _, topic := range []string{cfg.StatusTopic, cfg.StockReleaseTopic} {
		if err := producer.ensureTopicExists(topic); err != nil {
			client.Close()
			return nil, err
		}
	}

	return producer, nil
}

// ensureTopicExists creates the topic when the cluster does not have it yet.
func (p *Producer) ensureTopicExists(topic string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	topics, err := p.admin.ListTopics(ctx)
	if err != nil {
		return fmt.Errorf("failed to list kafka topics: %w", err)
	}

	if _, exists := topics[topic]; exists {
		return nil
	}

	minInSync := "1"
	_, err = p.admin.CreateTopics(ctx, 1, 1, map[string]*string{
		"min.insync.replicas": &minInSync,
	}, topic)
	if err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topic, err)
	}

	p.logger.InfoContext(ctx, "Kafka topic created", "topic", topic)
	return nil
}

// NotifyStatusChanged publishes a StatusChangedEvent for the order's current
// status.
func (p *Producer) NotifyStatusChanged(ctx context.Context, aggregate *order.Order) error {
	event := NewStatusChangedEvent(aggregate)

	ctx, span := tracing.StartSpan(ctx, "kafka.notify_status_changed",
		attribute.String("order.id", event.OrderID),
		attribute.String("order.status", event.Status),
	)
	defer span.End()

	if err := p.publish(ctx, p.statusTopic, event.OrderID, event); err != nil {
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "Status event publication failed",
			"order_id", event.OrderID, "status", event.Status, "error", err)
		return err
	}

	return nil
}

// ReleaseStock publishes a StockReleaseEvent for a cancelled order.
func (p *Producer) ReleaseStock(ctx context.Context, aggregate *order.Order) error {
	event := NewStockReleaseEvent(aggregate)

	ctx, span := tracing.StartSpan(ctx, "kafka.release_stock",
		attribute.String("order.id", event.OrderID),
	)
	defer span.End()

	if err := p.publish(ctx, p.stockTopic, event.OrderID, event); err != nil {
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "Stock release publication failed",
			"order_id", event.OrderID, "error", err)
		return err
	}

	return nil
}

// publish marshals the event and produces it synchronously, keyed by order
// id so per-order ordering is preserved across partitions.
func (p *Producer) publish(ctx context.Context, topic string, key string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	record := &kgo.Record{
		Topic:   topic,
		Key:     []byte(key),
		Value:   data,
		Headers: tracing.InjectTraceContext(ctx),
	}

	return p.client.ProduceSync(ctx, record).FirstErr()
}

// Close releases the underlying Kafka client.
func (p *Producer) Close() {
	p.client.Close()
}
