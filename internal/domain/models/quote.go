package models

import "time"

// Instrument symbols understood by the engine. Sources map them to their own tickers.
const (
	SymbolXSP   = "XSP"
	SymbolVIX   = "VIX"
	SymbolVIX9D = "VIX9D"
	SymbolVIX1D = "VIX1D"
	SymbolVVIX  = "VVIX"
)

// Instruments lists every symbol a MarketSnapshot is expected to carry.
var Instruments = []string{SymbolXSP, SymbolVIX, SymbolVIX9D, SymbolVIX1D, SymbolVVIX}

// Quote is the latest and session-opening price of one instrument.
// Open is zero when no trade has happened yet.
type Quote struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
	Open   float64 `json:"open"`
}

// MarketSnapshot holds one quote per instrument taken at the same moment.
type MarketSnapshot struct {
	Quotes  map[string]Quote `json:"quotes"`
	Missing []string         `json:"missing,omitempty"` // symbols the source could not fetch
	Source  string           `json:"source"`
	Taken   time.Time        `json:"taken"`
}

// NewMarketSnapshot returns an empty snapshot for source.
func NewMarketSnapshot(source string, taken time.Time) MarketSnapshot {
	return MarketSnapshot{Quotes: make(map[string]Quote, len(Instruments)), Source: source, Taken: taken}
}

// Put stores q under its symbol.
func (s *MarketSnapshot) Put(q Quote) {
	if s.Quotes == nil {
		s.Quotes = make(map[string]Quote, len(Instruments))
	}
	s.Quotes[q.Symbol] = q
}

// MarkMissing records symbol as unavailable and stores a zero quote for it.
func (s *MarketSnapshot) MarkMissing(symbol string) {
	s.Put(Quote{Symbol: symbol})
	s.Missing = append(s.Missing, symbol)
}

// Get returns the quote for symbol, or a zero quote.
func (s MarketSnapshot) Get(symbol string) Quote {
	if q, ok := s.Quotes[symbol]; ok {
		return q
	}
	return Quote{Symbol: symbol}
}

// Price is a shortcut for Get(symbol).Price.
func (s MarketSnapshot) Price(symbol string) float64 { return s.Get(symbol).Price }
