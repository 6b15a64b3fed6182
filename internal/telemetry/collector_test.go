package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotAverage(t *testing.T) {
	c := &Collector{uptime: func() (uint64, error) { return 3600, nil }}
	c.Observe(100 * time.Millisecond)
	c.Observe(300 * time.Millisecond)

	snap := c.Snapshot(time.Hour)
	assert.Equal(t, 200.0, snap.AvgResponseTimeMs)
}

func TestSnapshotNoObservations(t *testing.T) {
	c := &Collector{uptime: func() (uint64, error) { return 3600, nil }}
	snap := c.Snapshot(time.Hour)
	assert.Zero(t, snap.AvgResponseTimeMs)
}

func TestUptimePercent(t *testing.T) {
	c := &Collector{uptime: func() (uint64, error) { return 1800, nil }}
	snap := c.Snapshot(time.Hour)
	assert.Equal(t, 50.0, snap.UptimePercent)
}

func TestUptimePercentClamped(t *testing.T) {
	c := &Collector{uptime: func() (uint64, error) { return 7200, nil }}
	snap := c.Snapshot(time.Hour)
	assert.Equal(t, 100.0, snap.UptimePercent)
}

func TestUptimeReadErrorDefaultsToFull(t *testing.T) {
	c := &Collector{uptime: func() (uint64, error) { return 0, errors.New("unsupported") }}
	snap := c.Snapshot(time.Hour)
	assert.Equal(t, 100.0, snap.UptimePercent)
}

func TestMiddlewareObservesRequests(t *testing.T) {
	c := &Collector{uptime: func() (uint64, error) { return 3600, nil }}
	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clients", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Equal(t, int64(1), c.count)
}
