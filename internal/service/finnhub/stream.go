package finnhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"XSPMonitor/internal/domain/models"
	applogger "XSPMonitor/pkg/logger"

	"github.com/gorilla/websocket"
)

// ErrStreamNotReady is returned by Snapshot before any trade has arrived.
var ErrStreamNotReady = errors.New("finnhub stream: no trades received yet")

type fhTrade struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	V float64 `json:"v"`
	T int64   `json:"t"` // ms
}

type fhMessage struct {
	Type string    `json:"type"`
	Data []fhTrade `json:"data"`
}

// QuoteStream keeps the first and last trade price of each instrument for
// the current session, fed by the Finnhub trade WebSocket.
type QuoteStream struct {
	cfg     Config
	tickers map[string]string // engine symbol -> finnhub ticker
	symbols map[string]string // finnhub ticker -> engine symbol
	session *time.Location
	dialer  *websocket.Dialer
	log     *applogger.Logger

	mu     sync.RWMutex
	quotes map[string]models.Quote
	day    string

	connected atomic.Bool
}

// NewQuoteStream creates a stream for instruments (engine symbol -> Finnhub ticker).
// Session days roll over at midnight in session.
func NewQuoteStream(cfg Config, instruments map[string]string, session *time.Location, l *applogger.Logger) *QuoteStream {
	cfg.setDefaults()
	if l == nil {
		l = applogger.Nop()
	}
	if session == nil {
		session = time.UTC
	}
	s := &QuoteStream{
		cfg:     cfg,
		tickers: make(map[string]string, len(instruments)),
		symbols: make(map[string]string, len(instruments)),
		session: session,
		dialer:  websocket.DefaultDialer,
		log:     l.Component("finnhub-stream"),
		quotes:  make(map[string]models.Quote, len(instruments)),
	}
	for sym, ticker := range instruments {
		s.tickers[sym] = ticker
		s.symbols[ticker] = sym
	}
	return s
}

// Name identifies the source in snapshots.
func (s *QuoteStream) Name() string { return "finnhub" }

// IsConnected indicates status.
func (s *QuoteStream) IsConnected() bool { return s.connected.Load() }

// Snapshot returns the latest session quotes. Symbols without a trade in the
// current session are reported missing.
func (s *QuoteStream) Snapshot(_ context.Context, symbols []string) (models.MarketSnapshot, error) {
	now := time.Now()
	snap := models.NewMarketSnapshot(s.Name(), now)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.quotes) == 0 {
		return snap, ErrStreamNotReady
	}
	stale := s.day != sessionDay(now, s.session)
	for _, sym := range symbols {
		q, ok := s.quotes[sym]
		if !ok || stale {
			snap.MarkMissing(sym)
			continue
		}
		snap.Put(q)
	}
	return snap, nil
}

// Run connects and streams until ctx is cancelled, reconnecting after
// ReconnectDelay whenever the connection drops.
func (s *QuoteStream) Run(ctx context.Context) error {
	for {
		err := s.runOnce(ctx)
		s.connected.Store(false)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.log.Warn("stream disconnected, reconnecting",
			applogger.Error(err),
			applogger.Duration("delay", s.cfg.ReconnectDelay))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.ReconnectDelay):
		}
	}
}

func (s *QuoteStream) runOnce(ctx context.Context) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := s.subscribe(conn); err != nil {
		return err
	}
	s.connected.Store(true)
	s.log.Info("stream connected", applogger.Int("tickers", len(s.tickers)))

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var writeMu sync.Mutex
	go func() {
		ticker := time.NewTicker(s.cfg.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-connCtx.Done():
				// unblock ReadMessage
				writeMu.Lock()
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second))
				writeMu.Unlock()
				_ = conn.Close()
				return
			case <-ticker.C:
				writeMu.Lock()
				_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
				writeMu.Unlock()
			}
		}
	}()

	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("finnhub read: %w", err)
		}
		s.handle(b)
	}
}

func (s *QuoteStream) connect(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(s.cfg.WebSocketURL)
	if err != nil {
		return nil, fmt.Errorf("finnhub url: %w", err)
	}
	q := u.Query()
	q.Set("token", s.cfg.APIKey)
	u.RawQuery = q.Encode()

	conn, _, err := s.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("finnhub connect: %w", err)
	}
	return conn, nil
}

func (s *QuoteStream) subscribe(conn *websocket.Conn) error {
	for _, ticker := range s.tickers {
		msg := map[string]string{"type": "subscribe", "symbol": ticker}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", ticker, err)
		}
	}
	return nil
}

func (s *QuoteStream) handle(b []byte) {
	var m fhMessage
	if err := json.Unmarshal(b, &m); err != nil {
		// ignore non-JSON frames
		return
	}
	if m.Type != "trade" {
		return
	}
	for _, d := range m.Data {
		sym, ok := s.symbols[d.S]
		if !ok || d.P <= 0 {
			continue
		}
		s.apply(sym, d.P, time.UnixMilli(d.T))
	}
}

// apply records a trade, resetting every open when a new session day starts.
func (s *QuoteStream) apply(symbol string, price float64, at time.Time) {
	day := sessionDay(at, s.session)

	s.mu.Lock()
	defer s.mu.Unlock()

	if day < s.day {
		return
	}
	if day != s.day {
		s.day = day
		s.quotes = make(map[string]models.Quote, len(s.tickers))
	}
	q, ok := s.quotes[symbol]
	if !ok {
		q = models.Quote{Symbol: symbol, Open: price}
	}
	q.Price = price
	s.quotes[symbol] = q
}

func sessionDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
