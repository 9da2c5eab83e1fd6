package models

// GammaSign is the heuristic dealer gamma exposure label.
type GammaSign string

const (
	GammaPositive GammaSign = "POSITIVE"
	GammaNegative GammaSign = "NEGATIVE"
)

// VolatilityMetrics are the price levels derived from the underlying and its vol gauges.
type VolatilityMetrics struct {
	Price      float64   `json:"price"`
	Open       float64   `json:"open"`
	ShortVol   float64   `json:"short_vol"`
	LongVol    float64   `json:"long_vol"`
	MovePoints float64   `json:"move_points"`
	EMLower    float64   `json:"em_lower"`
	EMUpper    float64   `json:"em_upper"`
	GammaFlip  float64   `json:"gamma_flip"`
	ZeroGEX    float64   `json:"zero_gex"`
	GammaSign  GammaSign `json:"gamma_sign"`
	RangeRatio float64   `json:"range_ratio"` // intraday move, percent of open
	CallWall   float64   `json:"call_wall"`
	PutWall    float64   `json:"put_wall"`
}
