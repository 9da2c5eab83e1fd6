package repository

import (
	"context"
	"time"

	"XSPMonitor/internal/domain/models"
	domrepo "XSPMonitor/internal/domain/repository"
	"XSPMonitor/pkg/cache"
	applogger "XSPMonitor/pkg/logger"
	"XSPMonitor/pkg/util"
)

// CachedCalendar memoises a CalendarSource per UTC day. Upstream failures
// are never cached.
type CachedCalendar struct {
	inner domrepo.CalendarSource
	cache cache.Service
	ttl   time.Duration
	log   *applogger.Logger
}

// NewCachedCalendar wraps inner. A nil cache or non-positive ttl disables caching.
func NewCachedCalendar(inner domrepo.CalendarSource, c cache.Service, ttl time.Duration, l *applogger.Logger) *CachedCalendar {
	if l == nil {
		l = applogger.Nop()
	}
	return &CachedCalendar{inner: inner, cache: c, ttl: ttl, log: l.Component("calendar-cache")}
}

// Events implements CalendarSource.
func (c *CachedCalendar) Events(ctx context.Context, day time.Time) ([]models.EconomicEvent, error) {
	if c.cache == nil || c.ttl <= 0 {
		return c.inner.Events(ctx, day)
	}

	key := cache.Key("calendar", day.UTC().Format(util.DayLayout))
	events, hit, err := cache.GetOrLoad(ctx, c.cache, key, c.ttl, func(ctx context.Context) ([]models.EconomicEvent, error) {
		return c.inner.Events(ctx, day)
	})
	if err != nil {
		return nil, err
	}
	c.log.Debug("calendar lookup",
		applogger.String("key", key),
		applogger.Bool("hit", hit),
		applogger.Int("events", len(events)))
	return events, nil
}
