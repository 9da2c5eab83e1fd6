package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"XSPMonitor/internal/domain/models"
)

// 2024-06-12 is in CEST (UTC+2) for Europe/Madrid.
var newsDay = time.Date(2024, time.June, 12, 9, 0, 0, 0, time.UTC)

func usHigh(name string, h, m, s int) models.EconomicEvent {
	return models.EconomicEvent{
		Country: "US",
		Impact:  models.ImpactHigh,
		Name:    name,
		Time:    time.Date(2024, time.June, 12, h, m, s, 0, time.UTC),
	}
}

func TestClassify_TimeBuckets(t *testing.T) {
	c := NewNewsClassifier(DefaultRules())

	tests := []struct {
		name    string
		ev      models.EconomicEvent
		window  models.WindowType
		blocked bool
	}{
		{"pre market", usHigh("CPI MoM", 12, 30, 0), models.WindowPreMarket, false},
		{"just before open", usHigh("CPI MoM", 13, 29, 59), models.WindowPreMarket, false},
		{"at pre cutoff blocks", usHigh("CPI MoM", 13, 30, 0), models.WindowNormal, true},
		{"inside window", usHigh("Fed Chair Powell Speaks", 16, 0, 0), models.WindowNormal, true},
		{"at post cutoff blocks", usHigh("FOMC Statement", 17, 30, 0), models.WindowNormal, true},
		{"after post cutoff", usHigh("FOMC Statement", 17, 30, 1), models.WindowPostEvent, false},
		{"evening", usHigh("Interest Rate Decision", 18, 0, 0), models.WindowPostEvent, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify([]models.EconomicEvent{tt.ev}, newsDay)
			assert.Equal(t, tt.window, got.Window)
			assert.Equal(t, tt.blocked, got.Blocked)
			assert.Equal(t, models.CheckChecked, got.Status)
			require.Len(t, got.Events, 1)
			assert.Equal(t, tt.ev.Name, got.Events[0].Name)
		})
	}
}

func TestClassify_Filters(t *testing.T) {
	c := NewNewsClassifier(DefaultRules())
	events := []models.EconomicEvent{
		{Country: "EU", Impact: models.ImpactHigh, Name: "ECB Interest Rate Decision", Time: usHigh("", 16, 0, 0).Time},
		{Country: "US", Impact: models.ImpactMedium, Name: "CPI MoM", Time: usHigh("", 16, 0, 0).Time},
		usHigh("GDP Growth Rate QoQ", 16, 0, 0),
		{Country: "US", Impact: models.ImpactHigh, Name: "CPI YoY", Time: usHigh("", 16, 0, 0).Time.AddDate(0, 0, 1)},
	}
	got := c.Classify(events, newsDay)
	assert.False(t, got.Blocked)
	assert.Equal(t, models.WindowNormal, got.Window)
	assert.Empty(t, got.Events)
	assert.True(t, got.Checked())
}

func TestClassify_KeywordMatchIsCaseInsensitiveSubstring(t *testing.T) {
	c := NewNewsClassifier(DefaultRules())
	got := c.Classify([]models.EconomicEvent{usHigh("Initial jobless claims", 12, 30, 0)}, newsDay)
	require.Len(t, got.Events, 1)
	assert.Equal(t, "Initial jobless claims (14:30)", got.Events[0].Description())
}

func TestClassify_LastWriteWins(t *testing.T) {
	c := NewNewsClassifier(DefaultRules())
	pre := usHigh("CPI MoM", 12, 30, 0)
	post := usHigh("FOMC Statement", 18, 0, 0)
	inside := usHigh("Fed Chair Powell Speaks", 15, 0, 0)

	got := c.Classify([]models.EconomicEvent{post, pre}, newsDay)
	assert.Equal(t, models.WindowPreMarket, got.Window)

	got = c.Classify([]models.EconomicEvent{pre, post}, newsDay)
	assert.Equal(t, models.WindowPostEvent, got.Window)

	got = c.Classify([]models.EconomicEvent{pre, inside}, newsDay)
	assert.True(t, got.Blocked)
	assert.Equal(t, models.WindowPreMarket, got.Window, "blocking event leaves the window as set before")
	assert.Equal(t, []string{"CPI MoM (14:30)", "Fed Chair Powell Speaks (17:00)"}, got.Descriptions())
}

func TestClassify_CustomRules(t *testing.T) {
	r := DefaultRules()
	r.Location = time.UTC
	r.RestrictedKeywords = []string{"retail sales"}
	c := NewNewsClassifier(r)

	got := c.Classify([]models.EconomicEvent{usHigh("Retail Sales MoM", 16, 0, 0), usHigh("CPI MoM", 16, 0, 0)}, newsDay)
	require.Len(t, got.Events, 1)
	assert.True(t, got.Blocked)
}

func TestFailedState(t *testing.T) {
	got := FailedState(errors.New("finnhub: 502"))
	assert.False(t, got.Blocked)
	assert.Equal(t, models.WindowNormal, got.Window)
	assert.Empty(t, got.Events)
	assert.Equal(t, models.CheckFailed, got.Status)
	assert.Equal(t, "finnhub: 502", got.Err)
	assert.False(t, got.Checked())

	clean := NewNewsClassifier(DefaultRules()).Classify(nil, newsDay)
	assert.NotEqual(t, clean.Status, got.Status)
}
