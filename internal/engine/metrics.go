package engine

import (
	"math"

	"XSPMonitor/internal/domain/models"
)

// ComputeMetrics derives the expected-move band and gamma heuristics.
// shortVol must already carry any fallback the caller applies.
func ComputeMetrics(price, open, shortVol, longVol float64, r Rules) models.VolatilityMetrics {
	move := price * (shortVol / 100) / math.Sqrt(r.TradingDays)
	m := models.VolatilityMetrics{
		Price:      price,
		Open:       open,
		ShortVol:   shortVol,
		LongVol:    longVol,
		MovePoints: move,
		EMLower:    price - move,
		EMUpper:    price + move,
		GammaFlip:  round(price * (1 - longVol/r.FlipDivisor)),
		ZeroGEX:    round(price - move*r.ZeroGEXFactor),
		RangeRatio: RangeRatio(price, open),
	}
	m.CallWall = round(m.EMUpper * r.CallWallFactor)
	m.PutWall = round(m.EMLower * r.PutWallFactor)
	m.GammaSign = models.GammaNegative
	if price > m.GammaFlip {
		m.GammaSign = models.GammaPositive
	}
	return m
}

// RangeRatio is the absolute intraday move in percent of the open, or 0
// when the open is unavailable.
func RangeRatio(price, open float64) float64 {
	if open == 0 {
		return 0
	}
	return math.Abs((price-open)/open) * 100
}

// round rounds half to even.
func round(x float64) float64 { return math.RoundToEven(x) }
