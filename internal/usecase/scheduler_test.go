package usecase

import (
	"context"
	"testing"
	"time"

	"XSPMonitor/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOncePublishes(t *testing.T) {
	f := newFixture(t, engine.DefaultRules())
	s := NewScheduler(f.analyzer, 25000, time.UTC, nil)

	s.RunOnce()

	require.Len(t, f.pub.published, 1)
	assert.Equal(t, 25000.0, f.pub.published[0].Capital)
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	f := newFixture(t, engine.DefaultRules())
	s := NewScheduler(f.analyzer, 10000, time.UTC, nil)

	assert.Error(t, s.Start("every now and then"))
}

func TestScheduler_StartStop(t *testing.T) {
	f := newFixture(t, engine.DefaultRules())
	s := NewScheduler(f.analyzer, 10000, time.UTC, nil)

	require.NoError(t, s.Start("*/15 15-21 * * 1-5"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
