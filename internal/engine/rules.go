// Package engine holds the tactical decision logic for the 0DTE XSP monitor.
//
// Everything here is a pure function of its inputs and an immutable Rules value:
// no I/O, no clocks, no shared state. Quote and calendar collaborators resolve
// their data first and hand plain values in.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // venue zone must resolve on hosts without a zoneinfo database
)

// ErrInvalidInput is returned for inputs rejected before any computation runs.
var ErrInvalidInput = errors.New("invalid input")

// ErrDataUnavailable is returned when the snapshot lacks a quote the decision needs.
var ErrDataUnavailable = errors.New("data unavailable")

// Reasons carried by NoTrade recommendations.
const (
	ReasonNewsBlackout    = "news blackout"
	ReasonNewsCheckFailed = "news check failed"
	ReasonExtremeVolRisk  = "extreme volatility risk"
)

// Rules is the full set of constants the engine runs on. Build it once,
// validate it, and share it; nothing mutates it afterwards.
type Rules struct {
	// news
	Country            string
	RestrictedKeywords []string
	Location           *time.Location
	PreMarketCutoff    time.Duration // local clock offset from midnight
	PostEventCutoff    time.Duration
	FailClosedOnNews   bool

	// volatility
	TradingDays    float64
	FlipDivisor    float64
	ZeroGEXFactor  float64
	CallWallFactor float64
	PutWallFactor  float64

	// selection
	VVIXVeto           float64
	VVIXMax            float64
	LongVolMax         float64
	RangeRatioMax      float64
	NarrowMultiplier   float64
	WideMultiplier     float64
	StructureWidth     float64
	RiskFraction       float64
	ContractMultiplier float64
}

// DefaultRules returns the production thresholds.
func DefaultRules() Rules {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		loc = time.UTC
	}
	return Rules{
		Country:            "US",
		RestrictedKeywords: []string{"CPI", "FED", "FOMC", "NFP", "POWELL", "PPI", "INTEREST RATE", "JOBLESS"},
		Location:           loc,
		PreMarketCutoff:    15*time.Hour + 30*time.Minute,
		PostEventCutoff:    19*time.Hour + 30*time.Minute,

		TradingDays:    252,
		FlipDivisor:    1000,
		ZeroGEXFactor:  0.5,
		CallWallFactor: 1.005,
		PutWallFactor:  0.995,

		VVIXVeto:           125,
		VVIXMax:            95,
		LongVolMax:         18,
		RangeRatioMax:      0.45,
		NarrowMultiplier:   1.15,
		WideMultiplier:     1.30,
		StructureWidth:     2,
		RiskFraction:       0.02,
		ContractMultiplier: 100,
	}
}

// Validate checks that the rules can drive the engine without degenerate math.
func (r Rules) Validate() error {
	switch {
	case r.Location == nil:
		return fmt.Errorf("%w: location is required", ErrInvalidInput)
	case len(r.RestrictedKeywords) == 0:
		return fmt.Errorf("%w: restricted keywords cannot be empty", ErrInvalidInput)
	case r.PreMarketCutoff > r.PostEventCutoff:
		return fmt.Errorf("%w: pre-market cutoff %s is after post-event cutoff %s", ErrInvalidInput, r.PreMarketCutoff, r.PostEventCutoff)
	case r.TradingDays <= 0:
		return fmt.Errorf("%w: trading days must be positive", ErrInvalidInput)
	case r.FlipDivisor <= 0:
		return fmt.Errorf("%w: flip divisor must be positive", ErrInvalidInput)
	case r.StructureWidth <= 0:
		return fmt.Errorf("%w: structure width must be positive", ErrInvalidInput)
	case r.RiskFraction <= 0 || r.RiskFraction > 1:
		return fmt.Errorf("%w: risk fraction must be in (0, 1]", ErrInvalidInput)
	case r.ContractMultiplier <= 0:
		return fmt.Errorf("%w: contract multiplier must be positive", ErrInvalidInput)
	case r.NarrowMultiplier <= 0 || r.WideMultiplier <= 0:
		return fmt.Errorf("%w: tier multipliers must be positive", ErrInvalidInput)
	}
	return nil
}

// WithFailClosedNews returns a copy of r with the news failure policy set.
func (r Rules) WithFailClosedNews(failClosed bool) Rules {
	r.FailClosedOnNews = failClosed
	return r
}

// ParseClock converts "15:30" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		k = strings.ToUpper(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
