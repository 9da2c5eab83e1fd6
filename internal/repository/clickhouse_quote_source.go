package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"XSPMonitor/internal/domain/models"
	applogger "XSPMonitor/pkg/logger"
	"XSPMonitor/pkg/util"

	"github.com/jmoiron/sqlx"
)

// ErrNoTicks is returned when the tick table holds nothing for the session.
var ErrNoTicks = errors.New("clickhouse: no ticks for session")

type sessionRow struct {
	Ticker string  `db:"symbol"`
	Open   float64 `db:"open"`
	Last   float64 `db:"last"`
}

// ClickHouseQuoteSource prices instruments from a raw ticks table
// (ts DateTime, symbol String, price Float64). The first tick of the
// session is the open and the latest one is the price.
type ClickHouseQuoteSource struct {
	db      *sqlx.DB
	table   string
	tickers map[string]string // engine symbol -> ticks.symbol
	session *time.Location
	log     *applogger.Logger
	now     func() time.Time
}

// NewClickHouseQuoteSource creates the source. Sessions start at midnight in session.
func NewClickHouseQuoteSource(db *sqlx.DB, table string, instruments map[string]string, session *time.Location, l *applogger.Logger) *ClickHouseQuoteSource {
	if l == nil {
		l = applogger.Nop()
	}
	if session == nil {
		session = time.UTC
	}
	return &ClickHouseQuoteSource{
		db:      db,
		table:   table,
		tickers: instruments,
		session: session,
		log:     l.Component("clickhouse-quotes"),
		now:     time.Now,
	}
}

// Name identifies the source in snapshots.
func (s *ClickHouseQuoteSource) Name() string { return "clickhouse" }

// Snapshot reads every symbol in one grouped query.
func (s *ClickHouseQuoteSource) Snapshot(ctx context.Context, symbols []string) (models.MarketSnapshot, error) {
	now := s.now()
	snap := models.NewMarketSnapshot(s.Name(), now)

	tickers := make([]string, 0, len(symbols))
	bySymbol := make(map[string]string, len(symbols))
	for _, sym := range symbols {
		if t, ok := s.tickers[sym]; ok {
			tickers = append(tickers, t)
			bySymbol[t] = sym
		}
	}
	if len(tickers) == 0 {
		for _, sym := range symbols {
			snap.MarkMissing(sym)
		}
		return snap, ErrNoTicks
	}

	q := fmt.Sprintf(`
        SELECT symbol, argMin(price, ts) AS open, argMax(price, ts) AS last
        FROM %s
        WHERE symbol IN (?) AND ts >= ?
        GROUP BY symbol`, s.table)
	q, args, err := sqlx.In(q, tickers, util.StartOfDay(now, s.session))
	if err != nil {
		return snap, fmt.Errorf("clickhouse quotes: %w", err)
	}

	var rows []sessionRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), args...); err != nil {
		return snap, fmt.Errorf("clickhouse quotes: %w", err)
	}
	if len(rows) == 0 {
		for _, sym := range symbols {
			snap.MarkMissing(sym)
		}
		return snap, ErrNoTicks
	}

	for _, r := range rows {
		if sym, ok := bySymbol[r.Ticker]; ok && r.Last > 0 {
			snap.Put(models.Quote{Symbol: sym, Price: r.Last, Open: r.Open})
		}
	}
	for _, sym := range symbols {
		if _, ok := snap.Quotes[sym]; !ok {
			snap.MarkMissing(sym)
		}
	}
	if len(snap.Missing) > 0 {
		s.log.Debug("symbols without ticks", applogger.Strings("symbols", snap.Missing))
	}
	return snap, nil
}
