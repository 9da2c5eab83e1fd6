package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"XSPMonitor/internal/domain/models"
	domrepo "XSPMonitor/internal/domain/repository"
	"XSPMonitor/pkg/cache"
	applogger "XSPMonitor/pkg/logger"
)

// CachedQuoteSource keeps the last complete snapshot for a short ttl so
// dashboard refreshes do not each hit the upstream. Partial snapshots
// (any symbol missing) are passed through uncached.
type CachedQuoteSource struct {
	inner domrepo.QuoteSource
	cache cache.Service
	ttl   time.Duration
	log   *applogger.Logger
}

// NewCachedQuoteSource wraps inner. A nil cache or non-positive ttl disables caching.
func NewCachedQuoteSource(inner domrepo.QuoteSource, c cache.Service, ttl time.Duration, l *applogger.Logger) *CachedQuoteSource {
	if l == nil {
		l = applogger.Nop()
	}
	return &CachedQuoteSource{inner: inner, cache: c, ttl: ttl, log: l.Component("quote-cache")}
}

// Name reports the wrapped source.
func (c *CachedQuoteSource) Name() string { return c.inner.Name() }

// Unwrap returns the wrapped source.
func (c *CachedQuoteSource) Unwrap() domrepo.QuoteSource { return c.inner }

// Snapshot implements QuoteSource.
func (c *CachedQuoteSource) Snapshot(ctx context.Context, symbols []string) (models.MarketSnapshot, error) {
	if c.cache == nil || c.ttl <= 0 {
		return c.inner.Snapshot(ctx, symbols)
	}

	key := quotesKey(c.inner.Name(), symbols)
	var snap models.MarketSnapshot
	if err := c.cache.Get(ctx, key, &snap); err == nil {
		c.log.Debug("quote cache hit", applogger.String("key", key))
		return snap, nil
	}

	snap, err := c.inner.Snapshot(ctx, symbols)
	if err != nil {
		return snap, err
	}
	if len(snap.Missing) == 0 {
		if err := c.cache.Set(ctx, key, snap, c.ttl); err != nil {
			c.log.Warn("quote cache set failed", applogger.String("key", key), applogger.Error(err))
		}
	}
	return snap, nil
}

func quotesKey(source string, symbols []string) string {
	s := append([]string(nil), symbols...)
	sort.Strings(s)
	return cache.Key("quotes", source, strings.Join(s, ","))
}
