package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authwire/internal/cache"
	"github.com/dropDatabas3/authwire/internal/rate"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (rate.Result, error) {
	return rate.Result{}, errors.New("redis down")
}

func TestWithRateLimit(t *testing.T) {
	l := rate.NewFixedWindow(cache.NewMemory("t"), "", 1, time.Minute)
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), WithRateLimit(l, nil))

	req := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/v1/auth/google", nil)
		r.RemoteAddr = "10.0.0.1:5555"
		h.ServeHTTP(rec, r)
		return rec
	}

	first := req()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := req()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Contains(t, second.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestWithRateLimit_FailsOpen(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), WithRateLimit(failingLimiter{}, nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func rateLimited(t *testing.T, trust *ProxyTrust, max int) http.Handler {
	t.Helper()
	l := rate.NewFixedWindow(cache.NewMemory("t"), "", max, time.Minute)
	return Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		WithClientIP(trust), WithRateLimit(l, nil))
}

func hit(h http.Handler, remote, xff string) int {
	r := httptest.NewRequest(http.MethodGet, "/v1/auth/google", nil)
	r.RemoteAddr = remote
	if xff != "" {
		r.Header.Set("X-Forwarded-For", xff)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec.Code
}

func TestWithRateLimit_RotatingForwardedForDoesNotResetCount(t *testing.T) {
	h := rateLimited(t, nil, 2)

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		codes = append(codes, hit(h, "198.51.100.7:4000", fmt.Sprintf("203.0.113.%d", i)))
	}
	assert.Equal(t, []int{200, 200, 429, 429, 429}, codes)
}

func TestWithRateLimit_TrustedProxyKeysByForwardedClient(t *testing.T) {
	trust, err := NewProxyTrust([]string{"10.0.0.0/8"})
	require.NoError(t, err)
	h := rateLimited(t, trust, 1)

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:80", "203.0.113.5"))
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:80", "203.0.113.6"))
	// una entrada falsa a la izquierda no cambia el salto real
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.2:80", "1.2.3.4, 203.0.113.5"))
}
