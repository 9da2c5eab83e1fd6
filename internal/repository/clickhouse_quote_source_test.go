package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"XSPMonitor/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestClickHouseQuoteSource_Snapshot(t *testing.T) {
	db, mock := newMockDB(t)
	src := NewClickHouseQuoteSource(db, "rt_ticks_raw", map[string]string{
		models.SymbolXSP: "XSP",
		models.SymbolVIX: "VIX",
	}, time.UTC, nil)
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	src.now = func() time.Time { return now }

	mock.ExpectQuery(`SELECT symbol, argMin\(price, ts\) AS open, argMax\(price, ts\) AS last\s+FROM rt_ticks_raw`).
		WithArgs("XSP", "VIX", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(sqlmock.NewRows([]string{"symbol", "open", "last"}).
			AddRow("XSP", 498.0, 500.0))

	snap, err := src.Snapshot(context.Background(), []string{models.SymbolXSP, models.SymbolVIX, models.SymbolVVIX})
	require.NoError(t, err)

	assert.Equal(t, models.Quote{Symbol: models.SymbolXSP, Price: 500, Open: 498}, snap.Get(models.SymbolXSP))
	assert.ElementsMatch(t, []string{models.SymbolVIX, models.SymbolVVIX}, snap.Missing)
	assert.Equal(t, "clickhouse", snap.Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClickHouseQuoteSource_NoRows(t *testing.T) {
	db, mock := newMockDB(t)
	src := NewClickHouseQuoteSource(db, "rt_ticks_raw", map[string]string{models.SymbolXSP: "XSP"}, time.UTC, nil)

	mock.ExpectQuery(`SELECT symbol`).
		WillReturnRows(sqlmock.NewRows([]string{"symbol", "open", "last"}))

	snap, err := src.Snapshot(context.Background(), []string{models.SymbolXSP})
	assert.ErrorIs(t, err, ErrNoTicks)
	assert.Equal(t, []string{models.SymbolXSP}, snap.Missing)
}

func TestClickHouseQuoteSource_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	src := NewClickHouseQuoteSource(db, "rt_ticks_raw", map[string]string{models.SymbolXSP: "XSP"}, time.UTC, nil)

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT symbol`).WillReturnError(boom)

	_, err := src.Snapshot(context.Background(), []string{models.SymbolXSP})
	assert.ErrorIs(t, err, boom)
}
