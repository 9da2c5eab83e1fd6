package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"XSPMonitor/internal/domain/models"
)

func clearNews() models.NewsWindowState {
	return models.NewsWindowState{Window: models.WindowNormal, Status: models.CheckChecked}
}

// calm returns inputs that satisfy every aggressive condition.
func calm() SelectionInput {
	return SelectionInput{
		Metrics: ComputeMetrics(500, 498, 12, 14, DefaultRules()),
		News:    clearNews(),
		Term:    TermStructure{Short: 12, Medium: 13, Long: 14},
		VVIX:    80,
		Capital: 10000,
	}
}

func TestSelect_AggressiveCondor(t *testing.T) {
	rec := NewSelector(DefaultRules()).Select(calm())

	four, ok := rec.(models.FourLegStructure)
	require.True(t, ok, "got %T", rec)
	assert.Equal(t, 504.0, four.Levels.ShortCall)
	assert.Equal(t, 506.0, four.Levels.LongCall)
	assert.Equal(t, 496.0, four.Levels.ShortPut)
	assert.Equal(t, 494.0, four.Levels.LongPut)
	assert.Equal(t, 2.0, four.Levels.Width)
	assert.Equal(t, models.TierNarrow, four.Levels.Tier)
	assert.Equal(t, 1, four.Contracts)
}

func TestSelect_HardBlockWins(t *testing.T) {
	in := calm()
	in.News.Blocked = true
	in.News.Window = models.WindowPostEvent
	in.VVIX = 130

	assert.Equal(t, models.NoTrade{Reason: ReasonNewsBlackout}, NewSelector(DefaultRules()).Select(in))
}

func TestSelect_VVIXVetoPrecedesAggressive(t *testing.T) {
	in := calm()
	in.VVIX = 130
	assert.Equal(t, models.NoTrade{Reason: ReasonExtremeVolRisk}, NewSelector(DefaultRules()).Select(in))

	in.News.Window = models.WindowPostEvent
	assert.Equal(t, models.NoTrade{Reason: ReasonExtremeVolRisk}, NewSelector(DefaultRules()).Select(in))
}

func TestSelect_VVIXAtVetoIsNotVetoed(t *testing.T) {
	in := calm()
	in.VVIX = 125
	rec := NewSelector(DefaultRules()).Select(in)
	assert.Equal(t, models.KindTwoLeg, rec.Kind())
}

func TestSelect_PostEventForcesCondor(t *testing.T) {
	in := calm()
	in.News.Window = models.WindowPostEvent
	in.Term = TermStructure{Short: 20, Medium: 19, Long: 22}
	in.VVIX = 110

	rec := NewSelector(DefaultRules()).Select(in)
	assert.Equal(t, models.KindFourLeg, rec.Kind())
}

func TestSelect_EachAggressiveConditionRequired(t *testing.T) {
	sel := NewSelector(DefaultRules())
	mutations := map[string]func(*SelectionInput){
		"flat term":      func(in *SelectionInput) { in.Term.Medium = 12 },
		"inverted term":  func(in *SelectionInput) { in.Term = TermStructure{Short: 15, Medium: 14, Long: 13} },
		"long vol at 18": func(in *SelectionInput) { in.Term.Long = 18 },
		"vvix at 95":     func(in *SelectionInput) { in.VVIX = 95 },
		"range at limit": func(in *SelectionInput) { in.Metrics.RangeRatio = 0.45 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			in := calm()
			mutate(&in)
			assert.Equal(t, models.KindTwoLeg, sel.Select(in).Kind())
		})
	}
}

func TestSelect_BullishUsesPutSide(t *testing.T) {
	in := calm()
	in.Metrics = ComputeMetrics(500, 497, 12, 14, DefaultRules()) // range 0.60 > 0.45

	rec := NewSelector(DefaultRules()).Select(in)
	two, ok := rec.(models.TwoLegStructure)
	require.True(t, ok, "got %T", rec)
	assert.Equal(t, models.Bullish, two.Direction)
	assert.Equal(t, 495.0, two.ShortStrike)
	assert.Equal(t, 493.0, two.LongStrike)
	assert.Equal(t, 2.0, two.Width)
	assert.Equal(t, 1, two.Contracts)
}

func TestSelect_BearishUsesCallSide(t *testing.T) {
	in := calm()
	in.Metrics = ComputeMetrics(500, 502, 12, 14, DefaultRules())
	in.VVIX = 100
	in.Capital = 50000

	rec := NewSelector(DefaultRules()).Select(in)
	two, ok := rec.(models.TwoLegStructure)
	require.True(t, ok, "got %T", rec)
	assert.Equal(t, models.Bearish, two.Direction)
	assert.Equal(t, 505.0, two.ShortStrike)
	assert.Equal(t, 507.0, two.LongStrike)
	assert.Equal(t, 5, two.Contracts)
}

func TestSelect_PriceEqualToOpenIsBearish(t *testing.T) {
	in := calm()
	in.Metrics = ComputeMetrics(500, 500, 12, 14, DefaultRules())
	in.VVIX = 100

	two := NewSelector(DefaultRules()).Select(in).(models.TwoLegStructure)
	assert.Equal(t, models.Bearish, two.Direction)
}

func TestSelect_NewsFailurePolicy(t *testing.T) {
	in := calm()
	in.News = FailedState(assert.AnError)

	rec := NewSelector(DefaultRules()).Select(in)
	assert.Equal(t, models.KindFourLeg, rec.Kind(), "fail-open keeps trading")

	rec = NewSelector(DefaultRules().WithFailClosedNews(true)).Select(in)
	assert.Equal(t, models.NoTrade{Reason: ReasonNewsCheckFailed}, rec)
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	in := calm()
	in.News.Events = []models.MatchedEvent{{Name: "CPI MoM"}}
	before := in.Metrics
	_ = NewSelector(DefaultRules()).Select(in)
	assert.Equal(t, before, in.Metrics)
	assert.Len(t, in.News.Events, 1)
}
