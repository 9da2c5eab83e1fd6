package models

import "time"

// Analysis is everything one run produced: the recommendation and the inputs
// a presenter needs to explain it. It owns no resources and is not stored.
type Analysis struct {
	Timestamp      time.Time         `json:"timestamp"`
	Capital        float64           `json:"capital"`
	Recommendation Recommendation    `json:"recommendation"`
	Metrics        VolatilityMetrics `json:"metrics"`
	News           NewsWindowState   `json:"news"`
	Snapshot       MarketSnapshot    `json:"snapshot"`
	VVIX           float64           `json:"vvix"`
	TermStructure  [3]float64        `json:"term_structure"` // short, medium, long tenor vol
}
