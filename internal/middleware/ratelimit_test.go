// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableRedis fails every command immediately so limiters fall back
// to their in-process buckets.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()

	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "/v1/popups/{id}", normalizeEndpoint("/v1/popups/42"))
	assert.Equal(t, "/v1/auth/users/{id}/approve-supporter",
		normalizeEndpoint("/v1/auth/users/0b6f1c3e-2b1a-4c55-9a35-8b1f4f1f0a11/approve-supporter"))
	assert.Equal(t, "/", normalizeEndpoint("/"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	assert.Equal(t, "10.0.0.9", ClientIP(req))

	req.Header.Set("X-Real-IP", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.1, 203.0.113.8")
	assert.Equal(t, "203.0.113.8", ClientIP(req))
}

func TestRateTier(t *testing.T) {
	assert.Equal(t, rateTierAnonymous, rateTier(context.Background()))

	ctx := withClaims(context.Background(), &AccessTokenClaims{UserID: "m", Tier: "SUPPORTER"})
	assert.Equal(t, "SUPPORTER", rateTier(ctx))

	ctx = withClaims(context.Background(), &AccessTokenClaims{UserID: "s", Tier: "FREE", AdminLevel: "SUPER"})
	assert.Equal(t, rateTierAdmin, rateTier(ctx))
}

func TestKeyByUserAndEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Contains(t, KeyByUserAndEndpoint(req), "ip:192.0.2.1:endpoint:/v1/auth/login")

	ctx := withClaims(req.Context(), &AccessTokenClaims{UserID: "m-7"})
	assert.Contains(t, KeyByUserAndEndpoint(req.WithContext(ctx)), "user:m-7")
}

func TestRateLimiterFallsBackToLocalBucket(t *testing.T) {
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Limit: PerHour(2, 2),
	})
	h := rl.Handler(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/v1/contest/apply", nil)
		req.RemoteAddr = "192.0.2.50:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterBypass(t *testing.T) {
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Limit:      PerHour(1, 1),
		BypassFunc: func(*http.Request) bool { return true },
	})
	h := rl.Handler(http.HandlerFunc(okHandler))

	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestTieredRateLimiterHeaders(t *testing.T) {
	h := TieredRateLimiter(unreachableRedis(t), DefaultTiers)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(withClaims(req.Context(), &AccessTokenClaims{UserID: "m", Tier: "SUPPORTER"}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SUPPORTER", rec.Header().Get("X-RateLimit-Tier"))
	assert.Equal(t, "300", rec.Header().Get("X-RateLimit-Limit"))
}
