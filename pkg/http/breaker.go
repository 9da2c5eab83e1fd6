package http

import (
	"context"
	"errors"
	"time"

	applogger "XSPMonitor/pkg/logger"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned while an upstream is tripped.
var ErrCircuitOpen = errors.New("circuit open")

// BreakerClient sends requests through a circuit breaker that trips after
// consecutive upstream failures.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker
}

// NewBreakerClient wraps client with a breaker named name.
func NewBreakerClient(name string, client *Client, failures uint32, cooldown time.Duration, l *applogger.Logger) *BreakerClient {
	if l == nil {
		l = applogger.Nop()
	}
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// a cancelled caller says nothing about upstream health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l.Warn("circuit state change",
				applogger.String("breaker", name),
				applogger.String("from", from.String()),
				applogger.String("to", to.String()))
		},
	}
	return &BreakerClient{client: client, cb: gobreaker.NewCircuitBreaker(st)}
}

// SendAndParse behaves like Client.SendAndParse behind the breaker.
func (b *BreakerClient) SendAndParse(ctx context.Context, opts *RequestOptions, dest interface{}) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.client.SendAndParse(ctx, opts, dest)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

// State reports the breaker state name.
func (b *BreakerClient) State() string {
	return b.cb.State().String()
}
