package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// HandlerFunc processes one decoded event.
type HandlerFunc func(ctx context.Context, ev Event) error

type Consumer struct {
	reader *kafka.Reader
	logger *zap.Logger
}

func NewConsumer(brokers []string, topic, groupID string, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{reader: reader, logger: logger}
}

func (c *Consumer) Run(ctx context.Context, handle HandlerFunc) {
	for ctx.Err() == nil {
		if err := c.processMessage(ctx, handle); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.Error("failed to process message", zap.Error(err))
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func (c *Consumer) processMessage(ctx context.Context, handle HandlerFunc) error {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		return fmt.Errorf("read message: %w", err)
	}

	ev, err := decodeMessage(m)
	if err != nil {
		return err
	}
	return handle(ctx, ev)
}

func decodeMessage(m kafka.Message) (Event, error) {
	var ev Event
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		return Event{}, fmt.Errorf("decode message at offset %d: %w", m.Offset, err)
	}
	return ev, nil
}
