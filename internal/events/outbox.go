package events

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	defaultQueueSize  = 256
	defaultMaxPending = 1000
	defaultBatchSize  = 50
	flushInterval     = time.Second
	drainTimeout      = 5 * time.Second
)

// Publisher accepts events without blocking the caller.
type Publisher interface {
	Enqueue(ev Event)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Outbox buffers events in memory and ships them to Kafka from Run.
// Events that fail to publish are kept and retried on the next tick.
type Outbox struct {
	queue      chan Event
	pending    []Event
	writer     messageWriter
	tick       time.Duration
	batchSize  int
	maxPending int
	// dropped counts events discarded by a full queue or retry buffer.
	dropped    atomic.Int64
	logger     *zap.Logger
}

func NewKafkaOutbox(brokers []string, topic string, logger *zap.Logger) *Outbox {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return newOutbox(w, logger)
}

func newOutbox(w messageWriter, logger *zap.Logger) *Outbox {
	return &Outbox{
		queue:      make(chan Event, defaultQueueSize),
		writer:     w,
		tick:       flushInterval,
		batchSize:  defaultBatchSize,
		maxPending: defaultMaxPending,
		logger:     logger,
	}
}

func (o *Outbox) Enqueue(ev Event) {
	select {
	case o.queue <- ev:
	default:
		o.dropped.Add(1)
		o.logger.Warn("event queue full, dropping event",
			zap.String("event_id", ev.ID),
			zap.String("type", string(ev.Type)),
			zap.String("order_id", ev.OrderID))
	}
}

func (o *Outbox) Run(ctx context.Context) {
	ticker := time.NewTicker(o.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			o.drain()
			o.flush(ctx)
		case <-ctx.Done():
			o.drain()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
			o.flush(shutdownCtx)
			cancel()
			fields := []zap.Field{
				zap.Int("pending", len(o.pending)),
				zap.Int64("dropped", o.dropped.Load()),
			}
			if len(o.pending) > 0 || o.dropped.Load() > 0 {
				o.logger.Warn("outbox stopped with lost events", fields...)
			} else {
				o.logger.Info("outbox stopped", fields...)
			}
			return
		}
	}
}

func (o *Outbox) Close() error {
	return o.writer.Close()
}

func (o *Outbox) drain() {
	for {
		select {
		case ev := <-o.queue:
			o.pending = append(o.pending, ev)
		default:
			if over := len(o.pending) - o.maxPending; over > 0 {
				o.dropped.Add(int64(over))
				o.logger.Warn("outbox retry buffer full, dropping oldest events", zap.Int("dropped", over))
				o.pending = append([]Event(nil), o.pending[over:]...)
			}
			return
		}
	}
}

func (o *Outbox) flush(ctx context.Context) {
	for len(o.pending) > 0 {
		n := min(len(o.pending), o.batchSize)
		batch := o.pending[:n]

		msgs := make([]kafka.Message, 0, n)
		for _, ev := range batch {
			msg, err := toMessage(ev)
			if err != nil {
				o.logger.Error("failed to encode event", zap.String("event_id", ev.ID), zap.Error(err))
				continue
			}
			msgs = append(msgs, msg)
		}

		if err := o.writer.WriteMessages(ctx, msgs...); err != nil {
			o.logger.Warn("failed to publish events, will retry",
				zap.Int("batch", len(msgs)),
				zap.Int("pending", len(o.pending)),
				zap.Error(err))
			return
		}

		o.pending = o.pending[n:]
		o.logger.Debug("published events", zap.Int("count", len(msgs)))
	}
	o.pending = nil
}

func toMessage(ev Event) (kafka.Message, error) {
	value, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}, nil
}

// Noop discards events. It is used when no brokers are configured.
type Noop struct {
	logger *zap.Logger
}

func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) Enqueue(ev Event) {
	n.logger.Debug("event publishing disabled",
		zap.String("type", string(ev.Type)),
		zap.String("order_id", ev.OrderID))
}
