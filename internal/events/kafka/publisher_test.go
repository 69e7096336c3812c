package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/synthetic-ledger-generator/internal/models/events"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishEncodesEvent(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	ev := events.EntryGenerated{
		RunID:        "run-1",
		EntryID:      12,
		ProcessLabel: "Sales12",
		Category:     "Sales",
		Time:         11,
		TrueLines:    3,
		NoiseLines:   1,
		NoiseLeft:    decimal.RequireFromString("1.5"),
		NoiseRight:   decimal.Zero,
	}
	require.NoError(t, p.Publish(context.Background(), events.EntryGeneratedTopic, "run-1", ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	require.Equal(t, events.EntryGeneratedTopic, msg.Topic)
	require.Equal(t, []byte("run-1"), msg.Key)

	var decoded events.EntryGenerated
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, int64(12), decoded.EntryID)
	require.Equal(t, "Sales12", decoded.ProcessLabel)
	require.True(t, ev.NoiseLeft.Equal(decoded.NoiseLeft))

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestPublishReturnsWriterError(t *testing.T) {
	boom := errors.New("no brokers")
	p := &Publisher{writer: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), "topic", "key", map[string]int{"a": 1})
	require.ErrorIs(t, err, boom)
}

func TestPublishRejectsUnencodableEvent(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	err := p.Publish(context.Background(), "topic", "key", make(chan int))
	require.Error(t, err)
	require.Empty(t, w.msgs)
}

func TestNewPublisherFlushesEachMessage(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"})
	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)

	require.Equal(t, 1, w.BatchSize)
	require.LessOrEqual(t, w.BatchTimeout, 10*time.Millisecond)
	require.NotZero(t, w.BatchTimeout)
	require.False(t, w.Async)
	require.Equal(t, kafka.RequireAll, w.RequiredAcks)
	require.NoError(t, p.Close())
}
