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

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNewProducer_Validation(t *testing.T) {
	_, err := NewProducer(WithTopic("xsp.analysis"))
	assert.Error(t, err)

	_, err = NewProducer(WithBrokers([]string{"localhost:9092"}))
	assert.Error(t, err)
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "xsp.analysis", "gzip")

	payload := map[string]interface{}{"kind": "NO_TRADE", "reason": "news blackout"}
	err := p.Publish(context.Background(), "2025-03-12", payload, map[string]string{"kind": "NO_TRADE"})
	require.NoError(t, err)

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, []byte("2025-03-12"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "kind", msg.Headers[0].Key)
	assert.Equal(t, []byte("NO_TRADE"), msg.Headers[0].Value)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "news blackout", decoded["reason"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishError(t *testing.T) {
	boom := errors.New("broker unreachable")
	p := newProducer(&fakeWriter{err: boom}, "xsp.analysis", "gzip")

	err := p.Publish(context.Background(), "k", "v", nil)
	assert.ErrorIs(t, err, boom)
}

func TestProducer_MarshalError(t *testing.T) {
	p := newProducer(&fakeWriter{}, "xsp.analysis", "gzip")
	err := p.Publish(context.Background(), "k", make(chan int), nil)
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Snappy, parseCompression("snappy"))
	assert.Equal(t, kafka.Zstd, parseCompression("zstd"))
	assert.Equal(t, kafka.Gzip, parseCompression("unknown"))
}
