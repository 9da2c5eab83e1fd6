package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_BurstThenDeny(t *testing.T) {
	l := New(1, 2)
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	// another client has its own bucket
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestLimiter_Refills(t *testing.T) {
	l := New(1, 1)
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))

	now = now.Add(1100 * time.Millisecond)
	assert.True(t, l.Allow("k"))
}

func TestLimiter_SweepsIdleKeys(t *testing.T) {
	l := New(10, 1)
	now := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 256; i++ {
		l.Allow(fmt.Sprintf("client-%d", i))
	}
	assert.Equal(t, 256, l.Len())

	now = now.Add(time.Hour)
	l.Allow("fresh")
	assert.Equal(t, 1, l.Len())
}
