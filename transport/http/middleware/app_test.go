package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"condo/config"
	"condo/infras/metrics"
	"condo/infras/otel/mocks"
	"condo/shared/cache"
	"condo/shared/constant"
	"condo/transport/http/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppMiddleware(t *testing.T, cfg *config.Config) (middleware.AppMiddleware, *metrics.Metrics, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() { _ = client.Close() })

	m := metrics.New()

	return middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cache.NewRedisCache(client, mocks.NewOtel()), m), m, server
}

func limitedConfig(maxRequests int) *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = maxRequests
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimit(t *testing.T) {
	t.Run("rejects once the window is spent", func(t *testing.T) {
		app, _, _ := newAppMiddleware(t, limitedConfig(2))
		handler := app.RateLimit()(http.HandlerFunc(ok))

		codes := make([]int, 0, 3)

		for range 3 {
			req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
			req.Header.Set(constant.RequestHeaderForwardedFor, "10.0.0.1, 172.16.0.1")

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			codes = append(codes, rr.Code)

			if rr.Code == http.StatusOK {
				assert.Equal(t, "2", rr.Header().Get(constant.RequestHeaderRateLimit))
			}
		}

		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("clients are counted separately", func(t *testing.T) {
		app, _, _ := newAppMiddleware(t, limitedConfig(1))
		handler := app.RateLimit()(http.HandlerFunc(ok))

		for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
			req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
			req.Header.Set(constant.RequestHeaderRealIP, ip)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code, ip)
		}
	})

	t.Run("cache outage lets traffic through", func(t *testing.T) {
		app, _, server := newAppMiddleware(t, limitedConfig(1))
		handler := app.RateLimit()(http.HandlerFunc(ok))

		server.Close()

		for range 3 {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/rooms", nil))

			assert.Equal(t, http.StatusOK, rr.Code)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		app, _, _ := newAppMiddleware(t, &config.Config{})
		next := http.HandlerFunc(ok)

		rr := httptest.NewRecorder()
		app.RateLimit()(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get(constant.RequestHeaderRateLimit))
	})
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	app, m, _ := newAppMiddleware(t, &config.Config{})

	router := chi.NewRouter()
	router.Use(app.Tracing)
	router.Use(app.Metrics)
	router.Get("/v1/bookings/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/bookings/abc", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(scrape.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `condo_http_requests_total{method="GET",route="/v1/bookings/{id}",status="404"} 1`)
}
