package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *memWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *memWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_PublishJSON(t *testing.T) {
	w := &memWriter{}
	p := NewProducerWithWriter(w, "forecasts", "snappy")

	require.NoError(t, p.Publish(context.Background(), "AAPL", map[string]float64{"price": 190.5}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "AAPL", string(w.msgs[0].Key))

	var body map[string]float64
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &body))
	assert.Equal(t, 190.5, body["price"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := NewProducerWithWriter(&memWriter{err: boom}, "forecasts", "snappy")
	err := p.Publish(context.Background(), "AAPL", struct{}{})
	assert.ErrorIs(t, err, boom)
}

func TestNewProducer_Validation(t *testing.T) {
	_, err := NewProducer(WithTopic("t"))
	assert.EqualError(t, err, "brokers are required")

	_, err = NewProducer(WithBrokers([]string{"localhost:9092"}))
	assert.EqualError(t, err, "topic is required")

	p, err := NewProducer(WithBrokers([]string{"localhost:9092"}), WithTopic("forecasts"))
	require.NoError(t, err)
	assert.Equal(t, "forecasts", p.Topic())
	require.NoError(t, p.Close())
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Gzip, parseCompression("gzip"))
	assert.Equal(t, kafka.Zstd, parseCompression("zstd"))
	assert.Equal(t, kafka.Snappy, parseCompression("unknown"))
}
