package repository

import (
	"context"
	"fmt"

	"XSPMonitor/internal/domain/models"
	applogger "XSPMonitor/pkg/logger"
)

// Producer is the subset of pkg/kafka.Producer the publisher uses.
type Producer interface {
	Publish(ctx context.Context, key string, value interface{}, headers map[string]string) error
	Close() error
}

// KafkaPublisher emits every finished analysis as a JSON record keyed by
// its local trading date, so one day's runs land on one partition.
type KafkaPublisher struct {
	producer Producer
	log      *applogger.Logger
}

// NewKafkaPublisher wraps producer.
func NewKafkaPublisher(p Producer, l *applogger.Logger) *KafkaPublisher {
	if l == nil {
		l = applogger.Nop()
	}
	return &KafkaPublisher{producer: p, log: l.Component("kafka-publisher")}
}

// Publish implements AnalysisPublisher.
func (k *KafkaPublisher) Publish(ctx context.Context, a models.Analysis) error {
	kind := string(models.KindNoTrade)
	if a.Recommendation != nil {
		kind = string(a.Recommendation.Kind())
	}
	headers := map[string]string{
		"kind":        kind,
		"news_status": string(a.News.Status),
	}
	key := a.Timestamp.Format("2006-01-02")
	if err := k.producer.Publish(ctx, key, a, headers); err != nil {
		return fmt.Errorf("publish analysis: %w", err)
	}
	k.log.Debug("analysis published", applogger.String("key", key), applogger.String("kind", kind))
	return nil
}

// Close closes the producer.
func (k *KafkaPublisher) Close() error {
	return k.producer.Close()
}

// NoopPublisher drops every analysis. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, models.Analysis) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }
