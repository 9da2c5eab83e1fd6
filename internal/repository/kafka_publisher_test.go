package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"XSPMonitor/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	key     string
	value   interface{}
	headers map[string]string
	err     error
	closed  bool
}

func (p *recordingProducer) Publish(_ context.Context, key string, value interface{}, headers map[string]string) error {
	p.key, p.value, p.headers = key, value, headers
	return p.err
}

func (p *recordingProducer) Close() error {
	p.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	prod := &recordingProducer{}
	pub := NewKafkaPublisher(prod, nil)

	a := models.Analysis{
		Timestamp:      time.Date(2025, 3, 12, 16, 0, 0, 0, time.UTC),
		Recommendation: models.NoTrade{Reason: "news blackout"},
		News:           models.NewsWindowState{Status: models.CheckChecked, Blocked: true},
	}
	require.NoError(t, pub.Publish(context.Background(), a))

	assert.Equal(t, "2025-03-12", prod.key)
	assert.Equal(t, "NO_TRADE", prod.headers["kind"])
	assert.Equal(t, "CHECKED", prod.headers["news_status"])
	assert.Equal(t, a, prod.value)

	require.NoError(t, pub.Close())
	assert.True(t, prod.closed)
}

func TestKafkaPublisher_Error(t *testing.T) {
	boom := errors.New("leader not available")
	pub := NewKafkaPublisher(&recordingProducer{err: boom}, nil)

	err := pub.Publish(context.Background(), models.Analysis{})
	assert.ErrorIs(t, err, boom)
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), models.Analysis{}))
	assert.NoError(t, p.Close())
}
