package repository

import (
	"context"
	"time"

	"XSPMonitor/internal/domain/models"
)

// QuoteSource returns the latest quote for every instrument. Symbols it cannot
// price come back as zero quotes listed in MarketSnapshot.Missing; an error
// means the whole snapshot is unusable.
type QuoteSource interface {
	Snapshot(ctx context.Context, symbols []string) (models.MarketSnapshot, error)
	Name() string
}

// CalendarSource lists the macro events scheduled on day (UTC calendar date).
type CalendarSource interface {
	Events(ctx context.Context, day time.Time) ([]models.EconomicEvent, error)
}

// AnalysisPublisher forwards finished analyses to downstream consumers.
type AnalysisPublisher interface {
	Publish(ctx context.Context, a models.Analysis) error
	Close() error
}

type Metrics interface {
	RecordAnalysis(outcome string)
	RecordNewsCheck(status string, blocked bool)
	RecordQuote(symbol string, price float64)
	RecordMissingQuote(symbol string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
