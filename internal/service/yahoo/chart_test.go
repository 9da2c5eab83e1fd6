package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"XSPMonitor/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartJSON(symbol string, opens, closes string, regular float64) string {
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"symbol":%q,"regularMarketPrice":%v},
"timestamp":[1,2,3],"indicators":{"quote":[{"open":%s,"close":%s}]}}],"error":null}}`,
		symbol, regular, opens, closes)
}

func newServer(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1d", r.URL.Query().Get("range"))
		assert.Equal(t, "1m", r.URL.Query().Get("interval"))
		ticker := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		body, ok := bodies[ticker]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
}

func TestQuoteSource_Snapshot(t *testing.T) {
	srv := newServer(t, map[string]string{
		"^XSP": chartJSON("^XSP", `[null,498.0,499.0]`, `[498.5,500.0,null]`, 0),
		"^VIX": chartJSON("^VIX", `[]`, `[]`, 14.2),
	})
	defer srv.Close()

	src := NewQuoteSource(Config{BaseURL: srv.URL}, map[string]string{
		models.SymbolXSP:  "^XSP",
		models.SymbolVIX:  "^VIX",
		models.SymbolVVIX: "^VVIX",
	}, nil)

	snap, err := src.Snapshot(context.Background(), []string{models.SymbolXSP, models.SymbolVIX, models.SymbolVVIX})
	require.NoError(t, err)

	assert.Equal(t, "yahoo", snap.Source)
	assert.Equal(t, models.Quote{Symbol: models.SymbolXSP, Price: 500, Open: 498}, snap.Get(models.SymbolXSP))
	assert.Equal(t, 14.2, snap.Price(models.SymbolVIX))
	assert.Equal(t, 0.0, snap.Get(models.SymbolVIX).Open)
	assert.Equal(t, []string{models.SymbolVVIX}, snap.Missing)
	assert.Equal(t, 0.0, snap.Price(models.SymbolVVIX))
}

func TestQuoteSource_AllFailed(t *testing.T) {
	srv := newServer(t, nil)
	defer srv.Close()

	src := NewQuoteSource(Config{BaseURL: srv.URL}, map[string]string{models.SymbolXSP: "^XSP"}, nil)
	snap, err := src.Snapshot(context.Background(), []string{models.SymbolXSP})
	assert.ErrorIs(t, err, ErrAllFailed)
	assert.Equal(t, []string{models.SymbolXSP}, snap.Missing)
}

func TestQuoteSource_UnmappedSymbol(t *testing.T) {
	srv := newServer(t, map[string]string{"^XSP": chartJSON("^XSP", `[500]`, `[501]`, 0)})
	defer srv.Close()

	src := NewQuoteSource(Config{BaseURL: srv.URL}, map[string]string{models.SymbolXSP: "^XSP"}, nil)
	snap, err := src.Snapshot(context.Background(), []string{models.SymbolXSP, models.SymbolVIX1D})
	require.NoError(t, err)
	assert.Equal(t, []string{models.SymbolVIX1D}, snap.Missing)
	assert.Equal(t, 501.0, snap.Price(models.SymbolXSP))
}

func TestPriceAndOpen_NullsOnly(t *testing.T) {
	var r chartResult
	r.Meta.RegularMarketPrice = 0
	price, open := priceAndOpen(r)
	assert.Zero(t, price)
	assert.Zero(t, open)
}
