package engine

import "XSPMonitor/internal/domain/models"

// TermStructure is implied vol at three increasing tenors.
type TermStructure struct {
	Short  float64 `json:"short"`
	Medium float64 `json:"medium"`
	Long   float64 `json:"long"`
}

// Ascending reports short < medium < long, strictly.
func (t TermStructure) Ascending() bool {
	return t.Short < t.Medium && t.Medium < t.Long
}

// SelectionInput is everything the cascade looks at.
type SelectionInput struct {
	Metrics models.VolatilityMetrics
	News    models.NewsWindowState
	Term    TermStructure
	VVIX    float64
	Capital float64
}

// Selector runs the strategy cascade.
type Selector struct {
	rules Rules
}

// NewSelector builds a Selector on validated rules.
func NewSelector(r Rules) *Selector { return &Selector{rules: r} }

// Select walks the branches in order and returns at the first match:
// news blackout, failed news check (fail-closed only), vol-of-vol veto,
// aggressive condor, directional spread.
func (s *Selector) Select(in SelectionInput) models.Recommendation {
	r := s.rules
	if in.News.Blocked {
		return models.NoTrade{Reason: ReasonNewsBlackout}
	}
	if r.FailClosedOnNews && in.News.Status == models.CheckFailed {
		return models.NoTrade{Reason: ReasonNewsCheckFailed}
	}
	if in.VVIX > r.VVIXVeto {
		return models.NoTrade{Reason: ReasonExtremeVolRisk}
	}

	price := in.Metrics.Price
	if s.aggressive(in) {
		lv := BuildLevels(price, in.Metrics.ShortVol, models.TierNarrow, r)
		return models.FourLegStructure{Levels: lv, Contracts: r.contracts(in.Capital, lv.Width)}
	}

	lv := BuildLevels(price, in.Metrics.ShortVol, models.TierWide, r)
	out := models.TwoLegStructure{Width: lv.Width, Contracts: r.contracts(in.Capital, lv.Width)}
	if price > in.Metrics.Open {
		out.Direction = models.Bullish
		out.ShortStrike, out.LongStrike = lv.ShortPut, lv.LongPut
	} else {
		out.Direction = models.Bearish
		out.ShortStrike, out.LongStrike = lv.ShortCall, lv.LongCall
	}
	return out
}

func (s *Selector) aggressive(in SelectionInput) bool {
	if in.News.Window == models.WindowPostEvent {
		return true
	}
	r := s.rules
	return in.Term.Ascending() &&
		in.Term.Long < r.LongVolMax &&
		in.VVIX < r.VVIXMax &&
		in.Metrics.RangeRatio < r.RangeRatioMax
}
