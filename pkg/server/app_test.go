package server

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"XSPMonitor/internal/domain/models"
	"XSPMonitor/internal/domain/repository"
	"XSPMonitor/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct{}

func (staticSource) Name() string { return "static" }
func (staticSource) Snapshot(context.Context, []string) (models.MarketSnapshot, error) {
	return models.MarketSnapshot{}, nil
}

type streamSource struct {
	staticSource
	runs atomic.Int32
}

func (s *streamSource) Run(ctx context.Context) error {
	s.runs.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

type wrapped struct {
	staticSource
	inner repository.QuoteSource
}

func (w wrapped) Unwrap() repository.QuoteSource { return w.inner }

type fakeScheduler struct {
	started atomic.Bool
	stopped atomic.Bool
	spec    string
}

func (f *fakeScheduler) Start(spec string) error {
	f.spec = spec
	f.started.Store(true)
	return nil
}

func (f *fakeScheduler) Stop(context.Context) { f.stopped.Store(true) }

type noRoutes struct{}

func (noRoutes) RegisterRoutes(*echo.Echo) {}

func TestFindRunner(t *testing.T) {
	stream := &streamSource{}
	assert.Nil(t, FindRunner(staticSource{}))
	assert.Nil(t, FindRunner(nil))
	assert.Equal(t, Runner(stream), FindRunner(stream))
	assert.Equal(t, Runner(stream), FindRunner(wrapped{inner: stream}))
	assert.Nil(t, FindRunner(wrapped{inner: staticSource{}}))
}

func TestApp_RunContextLifecycle(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = 2 * time.Second
	cfg.Scheduler.Enabled = true
	cfg.Metrics.Enabled = false

	stream := &streamSource{}
	sched := &fakeScheduler{}
	app := New(cfg, nil, noRoutes{}, sched, wrapped{inner: stream})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	require.Eventually(t, func() bool { return stream.runs.Load() == 1 && sched.started.Load() }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.True(t, sched.stopped.Load())
	assert.Equal(t, cfg.Scheduler.Spec, sched.spec)
}
