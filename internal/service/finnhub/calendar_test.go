package finnhub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"XSPMonitor/internal/domain/models"
	"XSPMonitor/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calendarBody = `{"economicCalendar":[
 {"country":"US","event":"CPI MoM","impact":"high","time":"2025-03-12 12:30:00","actual":null,"estimate":0.3},
 {"country":"EU","event":"ECB Speech","impact":"Medium","time":"2025-03-12 09:00:00"}
]}`

func TestCalendar_Events(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendar/economic", r.URL.Path)
		assert.Equal(t, "2025-03-12", r.URL.Query().Get("from"))
		assert.Equal(t, "2025-03-12", r.URL.Query().Get("to"))
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte(calendarBody))
	}))
	defer srv.Close()

	c := NewCalendar(Config{APIKey: "secret", BaseURL: srv.URL}, nil)
	// 23:00 in Madrid on the 12th is still the 12th in UTC.
	day := time.Date(2025, 3, 12, 22, 0, 0, 0, time.UTC)

	events, err := c.Events(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, models.EconomicEvent{
		Country: "US",
		Impact:  models.ImpactHigh,
		Name:    "CPI MoM",
		Time:    time.Date(2025, 3, 12, 12, 30, 0, 0, time.UTC),
	}, events[0])
	assert.Equal(t, models.ImpactMedium, events[1].Impact)
}

func TestCalendar_UnparsableTimeFailsCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"economicCalendar":[
 {"country":"US","event":"CPI MoM","impact":"high","time":"2025-03-12 12:30:00"},
 {"country":"US","event":"FOMC Statement","impact":"high","time":"2025-03-12T18:00"}
]}`))
	}))
	defer srv.Close()

	eng, err := engine.New(engine.DefaultRules())
	require.NoError(t, err)
	c := NewCalendar(Config{APIKey: "secret", BaseURL: srv.URL}, nil)
	day := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

	events, err := c.Events(context.Background(), day)
	require.Error(t, err)
	assert.Nil(t, events)
	assert.Contains(t, err.Error(), "FOMC Statement")

	state := eng.ClassifyNews(events, err, day)
	assert.Equal(t, models.CheckFailed, state.Status)
	assert.Empty(t, state.Events)
}

func TestCalendar_MissingKey(t *testing.T) {
	c := NewCalendar(Config{}, nil)
	_, err := c.Events(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestCalendar_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewCalendar(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, err := c.Events(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finnhub calendar")
}
