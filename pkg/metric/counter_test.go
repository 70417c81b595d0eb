package metric

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterSharedRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	a := NewCounterWithRegistry(reg, "test_events_total", "Test events.", "kind")
	b := NewCounterWithRegistry(reg, "test_events_total", "Test events.", "kind")

	a.Increment("timeout")
	b.Increment("timeout")
	b.Increment("permanent")

	assert.Equal(t, 2.0, testutil.ToFloat64(a.(*Counter).vec.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.(*Counter).vec.WithLabelValues("permanent")))
}

func TestCounterConflictingRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	NewCounterWithRegistry(reg, "test_conflict_total", "Test.", "kind")

	assert.Panics(t, func() {
		NewCounterWithRegistry(reg, "test_conflict_total", "Test.", "other")
	})
}

func TestHistogramServedByHandler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	h := NewHistogramWithRegistry(reg, "test_duration_seconds", "Test durations.", "operation")
	h.Observe(150*time.Millisecond, "load")

	rec := httptest.NewRecorder()
	GetHandlerForRegistry(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `agrodash_test_duration_seconds_count{operation="load"} 1`), body)
}
