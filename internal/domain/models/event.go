package models

import "time"

// Impact is the importance a calendar provider assigns to a macro release.
type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

// EconomicEvent is one scheduled macro release. Time is always UTC.
type EconomicEvent struct {
	Country string    `json:"country"`
	Impact  Impact    `json:"impact"`
	Name    string    `json:"event"`
	Time    time.Time `json:"time"`
}
