package models

import (
	"fmt"
	"strings"
)

// Tier picks how far from the money the short strikes go.
// NARROW sits closer to the money than WIDE.
type Tier string

const (
	TierNarrow Tier = "NARROW"
	TierWide   Tier = "WIDE"
)

// ParseTier accepts "narrow"/"wide" in any case.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToUpper(strings.TrimSpace(s))) {
	case TierNarrow:
		return TierNarrow, nil
	case TierWide:
		return TierWide, nil
	default:
		return "", fmt.Errorf("unknown tier %q", s)
	}
}

// LevelSet holds the four strikes of a condor built around one reference price.
type LevelSet struct {
	Tier      Tier    `json:"tier"`
	ShortCall float64 `json:"short_call"`
	LongCall  float64 `json:"long_call"`
	ShortPut  float64 `json:"short_put"`
	LongPut   float64 `json:"long_put"`
	Width     float64 `json:"width"`
}
