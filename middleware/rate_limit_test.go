package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/miniblog/miniblog/config"
)

func resetLimiters() {
	limitersMu.Lock()
	limiters = map[string]*rateLimiter{}
	limitersMu.Unlock()
}

func TestRateLimitExhaustionReturns429(t *testing.T) {
	os.Setenv("RATE_LIMIT_PER_MINUTE", "1")
	config.Reset()
	defer func() {
		os.Setenv("RATE_LIMIT_PER_MINUTE", "10000")
		config.Reset()
	}()
	resetLimiters()
	defer resetLimiters()

	r := gin.New()
	r.POST("/auth/login", RateLimitMiddleware(), func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	// One request per minute with burst 1: the first passes, the
	// immediate second from the same IP is rejected.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestLimiterSweepDropsExpiredEntries(t *testing.T) {
	resetLimiters()
	defer resetLimiters()

	stale := getLimiter("10.0.0.1", rate.Every(time.Second), 1)
	limitersMu.Lock()
	stale.expires = time.Now().Add(-time.Minute)
	limitersMu.Unlock()

	// Any later lookup sweeps expired entries before creating new ones.
	getLimiter("10.0.0.2", rate.Every(time.Second), 1)

	limitersMu.Lock()
	_, staleKept := limiters["10.0.0.1"]
	_, freshKept := limiters["10.0.0.2"]
	limitersMu.Unlock()
	assert.False(t, staleKept, "expired limiter must be swept")
	assert.True(t, freshKept)
}

func TestLimiterReuseSharesBucketPerIP(t *testing.T) {
	resetLimiters()
	defer resetLimiters()

	first := getLimiter("10.0.0.3", rate.Every(time.Second), 1)
	again := getLimiter("10.0.0.3", rate.Every(time.Second), 1)
	assert.Same(t, first, again, "repeat lookups must share one bucket per IP")
}
