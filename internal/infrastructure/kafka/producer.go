package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/honeynil/player-service/internal/infrastructure/observability"
	"github.com/honeynil/player-service/internal/models"
	"github.com/segmentio/kafka-go"
)

// EventPublisher hands player events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, event models.PlayerEvent) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		Async:        true,
		RequiredAcks: kafka.RequireOne,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				slog.Error("failed to deliver Kafka messages", "topic", topic, "count", len(messages), "error", err)
			}
		},
	}
	return &Producer{writer: writer, topic: topic}
}

func (p *Producer) Publish(ctx context.Context, event models.PlayerEvent) error {
	msg, err := messageFor(event)
	if err != nil {
		observability.PlayerEvents.WithLabelValues(string(event.EventType), "error").Inc()
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		observability.PlayerEvents.WithLabelValues(string(event.EventType), "error").Inc()
		slog.Error("failed to send Kafka message", "topic", p.topic, "player_id", event.PlayerID, "error", err)
		return err
	}
	observability.PlayerEvents.WithLabelValues(string(event.EventType), "sent").Inc()
	slog.Info("Kafka message sent", "topic", p.topic, "event_type", event.EventType, "player_id", event.PlayerID)
	return nil
}

// messageFor keys the message by player id so all events of one player land
// on the same partition in order.
func messageFor(event models.PlayerEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal player event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.PlayerID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}, nil
}

func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		slog.Error("failed to close Kafka writer", "error", err)
		return err
	}
	slog.Info("Kafka writer closed")
	return nil
}

// NopPublisher drops events; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event models.PlayerEvent) error {
	observability.PlayerEvents.WithLabelValues(string(event.EventType), "dropped").Inc()
	return nil
}

func (NopPublisher) Close() error { return nil }
