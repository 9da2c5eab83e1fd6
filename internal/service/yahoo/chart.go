// Package yahoo prices instruments from the Yahoo Finance chart endpoint.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"XSPMonitor/internal/domain/models"
	apphttp "XSPMonitor/pkg/http"
	applogger "XSPMonitor/pkg/logger"
)

// ErrNoData means the chart carried no usable price.
var ErrNoData = errors.New("no price data")

// ErrAllFailed is returned when no instrument could be priced.
var ErrAllFailed = errors.New("yahoo: every quote failed")

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open  []*float64 `json:"open"`
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// Config holds the chart endpoint settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// QuoteSource fetches one-minute intraday bars per instrument: the last
// close is the price and the first open is the session open.
type QuoteSource struct {
	baseURL string
	tickers map[string]string // engine symbol -> yahoo ticker
	client  *apphttp.BreakerClient
	log     *applogger.Logger
	now     func() time.Time
}

// NewQuoteSource builds a chart quote source for instruments (engine symbol -> Yahoo ticker).
func NewQuoteSource(cfg Config, instruments map[string]string, l *applogger.Logger) *QuoteSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if l == nil {
		l = applogger.Nop()
	}
	l = l.Component("yahoo")
	// Yahoo rejects the default Go user agent.
	httpc := apphttp.NewClient(
		apphttp.WithTimeout(cfg.Timeout),
		apphttp.WithUserAgent("Mozilla/5.0 (compatible; xsp-monitor/1.0)"),
	)
	tickers := make(map[string]string, len(instruments))
	for k, v := range instruments {
		tickers[k] = v
	}
	return &QuoteSource{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tickers: tickers,
		client:  apphttp.NewBreakerClient("yahoo-chart", httpc, 5, 30*time.Second, l),
		log:     l,
		now:     time.Now,
	}
}

// Name identifies the source in snapshots.
func (s *QuoteSource) Name() string { return "yahoo" }

// Snapshot fetches every symbol concurrently. Failed symbols come back as
// zero quotes listed in Missing.
func (s *QuoteSource) Snapshot(ctx context.Context, symbols []string) (models.MarketSnapshot, error) {
	snap := models.NewMarketSnapshot(s.Name(), s.now())

	type result struct {
		q   models.Quote
		err error
	}
	results := make([]result, len(symbols))

	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			q, err := s.quote(ctx, sym)
			results[i] = result{q: q, err: err}
		}(i, sym)
	}
	wg.Wait()

	for i, sym := range symbols {
		r := results[i]
		if r.err != nil {
			s.log.Warn("quote unavailable",
				applogger.String("symbol", sym),
				applogger.Error(r.err))
			snap.MarkMissing(sym)
			continue
		}
		snap.Put(r.q)
	}

	if len(symbols) > 0 && len(snap.Missing) == len(symbols) {
		return snap, ErrAllFailed
	}
	return snap, nil
}

func (s *QuoteSource) quote(ctx context.Context, symbol string) (models.Quote, error) {
	ticker, ok := s.tickers[symbol]
	if !ok {
		return models.Quote{}, fmt.Errorf("yahoo chart %s: no ticker mapped", symbol)
	}

	var resp chartResponse
	err := s.client.SendAndParse(ctx, &apphttp.RequestOptions{
		Method: apphttp.MethodGet,
		URL:    s.baseURL + "/v8/finance/chart/" + url.PathEscape(ticker),
		QueryParams: map[string][]string{
			"range":    {"1d"},
			"interval": {"1m"},
		},
	}, &resp)
	if err != nil {
		return models.Quote{}, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}
	if resp.Chart.Error != nil {
		return models.Quote{}, fmt.Errorf("yahoo chart %s: %s", ticker, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return models.Quote{}, fmt.Errorf("yahoo chart %s: %w", ticker, ErrNoData)
	}

	price, open := priceAndOpen(resp.Chart.Result[0])
	if price <= 0 {
		return models.Quote{}, fmt.Errorf("yahoo chart %s: %w", ticker, ErrNoData)
	}
	return models.Quote{Symbol: symbol, Price: price, Open: open}, nil
}

// priceAndOpen returns the last non-null close (falling back to the
// regular market price) and the first non-null open.
func priceAndOpen(r chartResult) (price, open float64) {
	if len(r.Indicators.Quote) > 0 {
		q := r.Indicators.Quote[0]
		for i := len(q.Close) - 1; i >= 0; i-- {
			if q.Close[i] != nil && *q.Close[i] > 0 {
				price = *q.Close[i]
				break
			}
		}
		for _, o := range q.Open {
			if o != nil && *o > 0 {
				open = *o
				break
			}
		}
	}
	if price == 0 {
		price = r.Meta.RegularMarketPrice
	}
	return price, open
}
