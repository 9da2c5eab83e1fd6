package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerClient_TripsAfterFailures(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	b := NewBreakerClient("test", NewClient(WithTimeout(time.Second)), 2, time.Minute, nil)
	opts := &RequestOptions{Method: MethodGet, URL: srv.URL}

	var out map[string]interface{}
	for i := 0; i < 2; i++ {
		err := b.SendAndParse(context.Background(), opts, &out)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusBadGateway, se.Code)
	}

	err := b.SendAndParse(context.Background(), opts, &out)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.Equal(t, "open", b.State())
}

func TestBreakerClient_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "xsp-monitor/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	b := NewBreakerClient("test", NewClient(), 3, time.Minute, nil)
	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, b.SendAndParse(context.Background(), &RequestOptions{Method: MethodGet, URL: srv.URL}, &out))
	assert.True(t, out.OK)
	assert.Equal(t, "closed", b.State())
}
