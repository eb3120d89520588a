package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(bookingEvents.WithLabelValues("checked_in"))
	IncBookingEvent("checked_in")
	assert.Equal(t, before+1, testutil.ToFloat64(bookingEvents.WithLabelValues("checked_in")))

	ObserveHTTP("/api/v1/bookings", http.MethodGet, http.StatusOK, 15*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues("/api/v1/bookings", http.MethodGet, "200")))
}

func TestHandler_Exposes(t *testing.T) {
	Register()
	IncRateLimited()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "doggy_daycare_rate_limited_total"))
}
