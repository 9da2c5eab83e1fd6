package engine

import (
	"math"

	"XSPMonitor/internal/domain/models"
)

// BuildLevels places short strikes at multiplier x one-day sigma from price and
// hedges each one StructureWidth further out. NARROW uses the smaller multiplier.
func BuildLevels(price, vol float64, tier models.Tier, r Rules) models.LevelSet {
	sigma := (vol / 100) / math.Sqrt(r.TradingDays)
	dist := price * sigma * r.multiplier(tier)
	width := r.StructureWidth
	shortCall := round(price + dist)
	shortPut := round(price - dist)
	return models.LevelSet{
		Tier:      tier,
		ShortCall: shortCall,
		LongCall:  shortCall + width,
		ShortPut:  shortPut,
		LongPut:   shortPut - width,
		Width:     width,
	}
}

func (r Rules) multiplier(tier models.Tier) float64 {
	if tier == models.TierNarrow {
		return r.NarrowMultiplier
	}
	return r.WideMultiplier
}
