package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"XSPMonitor/internal/domain/models"
	"XSPMonitor/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCalendar struct {
	calls  int
	events []models.EconomicEvent
	err    error
}

func (s *stubCalendar) Events(_ context.Context, _ time.Time) ([]models.EconomicEvent, error) {
	s.calls++
	return s.events, s.err
}

func TestCachedCalendar_CachesPerDay(t *testing.T) {
	inner := &stubCalendar{events: []models.EconomicEvent{{
		Country: "US", Impact: models.ImpactHigh, Name: "CPI",
		Time: time.Date(2025, 3, 12, 12, 30, 0, 0, time.UTC),
	}}}
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	defer mc.Close()

	c := NewCachedCalendar(inner, mc, time.Minute, nil)
	day := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		events, err := c.Events(context.Background(), day)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "CPI", events[0].Name)
		assert.True(t, events[0].Time.Equal(inner.events[0].Time))
	}
	assert.Equal(t, 1, inner.calls)

	_, err := c.Events(context.Background(), day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedCalendar_ErrorsNotCached(t *testing.T) {
	inner := &stubCalendar{err: errors.New("timeout")}
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	defer mc.Close()

	c := NewCachedCalendar(inner, mc, time.Minute, nil)
	day := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

	_, err := c.Events(context.Background(), day)
	assert.Error(t, err)
	_, err = c.Events(context.Background(), day)
	assert.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedCalendar_Disabled(t *testing.T) {
	inner := &stubCalendar{}
	c := NewCachedCalendar(inner, nil, time.Minute, nil)

	_, _ = c.Events(context.Background(), time.Now())
	_, _ = c.Events(context.Background(), time.Now())
	assert.Equal(t, 2, inner.calls)
}
