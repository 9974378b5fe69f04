package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"condo/infras/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()

	m.ObserveHTTP("/v1/bookings", http.MethodPost, http.StatusCreated, 12*time.Millisecond)
	m.ObserveReservation("website", nil)
	m.ObserveReservation("website", errors.New("dates taken"))
	m.ObserveCalendarEvent("airbnb", metrics.ResultImported)
	m.ObserveJob("expiry", 3, time.Second, nil)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `condo_http_requests_total{method="POST",route="/v1/bookings",status="201"} 1`)
	assert.Contains(t, out, `condo_reservations_total{result="rejected",source="website"} 1`)
	assert.Contains(t, out, `condo_calendar_events_total{platform="airbnb",result="imported"} 1`)
	assert.Contains(t, out, `condo_job_processed_total{job="expiry"} 3`)
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.New()
		metrics.New()
	})
}
