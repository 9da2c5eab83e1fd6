// Package finnhub talks to Finnhub: the economic calendar over REST and
// live trades over WebSocket.
package finnhub

import "time"

// Config holds Finnhub endpoints and credentials.
type Config struct {
	APIKey         string
	BaseURL        string
	WebSocketURL   string
	Timeout        time.Duration
	ReconnectDelay time.Duration
	PingInterval   time.Duration
	// RequestsPerMinute caps REST calls; the free tier allows 60.
	RequestsPerMinute int
}

func (c *Config) setDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://finnhub.io/api/v1"
	}
	if c.WebSocketURL == "" {
		c.WebSocketURL = "wss://ws.finnhub.io"
	}
	if c.Timeout <= 0 {
		c.Timeout = 8 * time.Second
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = 5 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 20 * time.Second
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = 60
	}
}
