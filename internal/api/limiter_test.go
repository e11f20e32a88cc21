package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientLimiter_PerClient(t *testing.T) {
	t.Parallel()

	c := newClientLimiter(0.001, 1)
	assert.True(t, c.limiterFor("10.0.0.1").Allow())
	assert.False(t, c.limiterFor("10.0.0.1").Allow())
	assert.True(t, c.limiterFor("10.0.0.2").Allow(), "second client has its own bucket")
}

func TestClientLimiter_MinimumBurst(t *testing.T) {
	t.Parallel()

	c := newClientLimiter(5, 0)
	assert.Equal(t, 1, c.burst)
}

func TestClientLimiter_EvictsIdleClients(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := start
	c := newClientLimiter(0.001, 1)
	c.now = func() time.Time { return clock }
	c.lastSweep = start

	assert.True(t, c.limiterFor("10.0.0.1").Allow())
	assert.False(t, c.limiterFor("10.0.0.1").Allow())

	clock = start.Add(45 * time.Minute)
	c.limiterFor("10.0.0.2")
	assert.Len(t, c.clients, 2, "nobody idle past the threshold yet")

	clock = start.Add(100 * time.Minute)
	c.limiterFor("10.0.0.3")
	assert.Len(t, c.clients, 2)
	assert.NotContains(t, c.clients, "10.0.0.1")
	assert.Contains(t, c.clients, "10.0.0.2")

	assert.True(t, c.limiterFor("10.0.0.1").Allow(), "evicted client starts with a fresh bucket")
}

func TestClientLimiter_SweepWaitsForInterval(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := start
	c := newClientLimiter(1, 1)
	c.now = func() time.Time { return clock }
	c.lastSweep = start

	c.limiterFor("10.0.0.1")
	c.lastSweep = start.Add(90 * time.Minute)

	clock = start.Add(100 * time.Minute)
	c.limiterFor("10.0.0.2")
	assert.Contains(t, c.clients, "10.0.0.1", "no sweep inside the interval")
}

func TestClientKey(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.7:51234"
	assert.Equal(t, "192.0.2.7", clientKey(req))

	req.RemoteAddr = "not-a-hostport"
	assert.Equal(t, "not-a-hostport", clientKey(req))
}
