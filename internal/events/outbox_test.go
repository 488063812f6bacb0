package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafkaGo.Message
	failures int
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkaGo.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failures > 0 {
		w.failures--
		return errors.New("broker unavailable")
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) written() []kafkaGo.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafkaGo.Message(nil), w.messages...)
}

func mustEvent(t *testing.T, typ Type, orderID string) Event {
	t.Helper()
	ev, err := NewEvent(typ, orderID, StatusChange{Status: "processing"}, time.Now())
	require.NoError(t, err)
	return ev
}

func TestNewEvent(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("WAT", 3600))
	ev, err := NewEvent(TypeOrderStatusChanged, "CMD-1", StatusChange{Status: "completed"}, now)
	require.NoError(t, err)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "CMD-1", ev.OrderID)
	assert.Equal(t, time.UTC, ev.OccurredAt.Location())
	assert.JSONEq(t, `{"status":"completed"}`, string(ev.Payload))

	ev, err = NewEvent(TypeOrderDeleted, "CMD-2", nil, now)
	require.NoError(t, err)
	assert.Nil(t, ev.Payload)
}

func TestOutbox_FlushPublishesInOrder(t *testing.T) {
	w := &fakeWriter{}
	o := newOutbox(w, zap.NewNop())

	o.Enqueue(mustEvent(t, TypeOrderCreated, "CMD-1"))
	o.Enqueue(mustEvent(t, TypeOrderStatusChanged, "CMD-1"))
	o.drain()
	o.flush(context.Background())

	msgs := w.written()
	require.Len(t, msgs, 2)
	assert.Equal(t, []byte("CMD-1"), msgs[0].Key)
	assert.Equal(t, "event_type", msgs[0].Headers[0].Key)
	assert.Equal(t, []byte(TypeOrderCreated), msgs[0].Headers[0].Value)

	var ev Event
	require.NoError(t, json.Unmarshal(msgs[1].Value, &ev))
	assert.Equal(t, TypeOrderStatusChanged, ev.Type)
	assert.Empty(t, o.pending)
}

func TestOutbox_RetainsEventsOnFailure(t *testing.T) {
	w := &fakeWriter{failures: 1}
	o := newOutbox(w, zap.NewNop())

	o.Enqueue(mustEvent(t, TypeOrderCreated, "CMD-1"))
	o.drain()
	o.flush(context.Background())

	assert.Empty(t, w.written())
	assert.Len(t, o.pending, 1)

	o.flush(context.Background())
	assert.Len(t, w.written(), 1)
	assert.Empty(t, o.pending)
}

func TestOutbox_BatchesLargeBacklog(t *testing.T) {
	w := &fakeWriter{}
	o := newOutbox(w, zap.NewNop())
	o.batchSize = 3

	for i := 0; i < 7; i++ {
		o.Enqueue(mustEvent(t, TypeOrderUpdated, "CMD-1"))
	}
	o.drain()
	o.flush(context.Background())

	assert.Len(t, w.written(), 7)
}

func TestOutbox_EnqueueNeverBlocks(t *testing.T) {
	o := newOutbox(&fakeWriter{}, zap.NewNop())

	for i := 0; i < defaultQueueSize+10; i++ {
		o.Enqueue(mustEvent(t, TypeOrderCreated, "CMD-1"))
	}
	assert.Equal(t, int64(10), o.dropped.Load())
}

func TestOutbox_RetryBufferIsBounded(t *testing.T) {
	o := newOutbox(&fakeWriter{failures: 100}, zap.NewNop())
	o.maxPending = 2

	for i := 0; i < 4; i++ {
		ev := mustEvent(t, TypeOrderCreated, "CMD-"+string(rune('a'+i)))
		o.Enqueue(ev)
	}
	o.drain()

	require.Len(t, o.pending, 2)
	assert.Equal(t, "CMD-c", o.pending[0].OrderID)
	assert.Equal(t, int64(2), o.dropped.Load())
}

func TestOutbox_RunFlushesOnShutdown(t *testing.T) {
	w := &fakeWriter{}
	o := newOutbox(w, zap.NewNop())
	o.tick = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		o.Run(ctx)
		close(done)
	}()

	o.Enqueue(mustEvent(t, TypeOrderCreated, "CMD-1"))
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Len(t, w.written(), 1)
	require.NoError(t, o.Close())
	assert.True(t, w.closed)
}

func TestOutbox_ShutdownReportsLostEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	o := newOutbox(&fakeWriter{failures: 100}, zap.New(core))
	o.tick = time.Hour
	o.queue = make(chan Event, 1)

	o.Enqueue(mustEvent(t, TypeOrderCreated, "CMD-1"))
	o.Enqueue(mustEvent(t, TypeOrderCreated, "CMD-2"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	o.Run(ctx)

	entries := logs.FilterMessage("outbox stopped with lost events").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(1), fields["pending"])
	assert.Equal(t, int64(1), fields["dropped"])
}

func TestNoop_Enqueue(t *testing.T) {
	NewNoop(zap.NewNop()).Enqueue(mustEvent(t, TypeOrderCreated, "CMD-1"))
}

func TestKafkaOutbox_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping kafka container test in short mode")
	}
	ctx := context.Background()

	container, err := kafka.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err)
	defer func() { _ = container.Terminate(ctx) }()

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)

	topic := "storefront-orders-test"
	o := NewKafkaOutbox(brokers, topic, zap.NewNop())
	defer o.Close()

	o.Enqueue(mustEvent(t, TypeOrderCreated, "CMD-42"))
	o.drain()
	require.Eventually(t, func() bool {
		o.flush(ctx)
		return len(o.pending) == 0
	}, 30*time.Second, 500*time.Millisecond)

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  "storefront-test",
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	m, err := reader.ReadMessage(readCtx)
	require.NoError(t, err)

	ev, err := decodeMessage(m)
	require.NoError(t, err)
	assert.Equal(t, "CMD-42", ev.OrderID)
	assert.Equal(t, TypeOrderCreated, ev.Type)
}

func TestDecodeMessage_Invalid(t *testing.T) {
	_, err := decodeMessage(kafkaGo.Message{Value: []byte("{"), Offset: 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 7")
}
