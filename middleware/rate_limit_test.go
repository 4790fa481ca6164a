package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})

	assert.NotNil(t, rl)
	assert.Equal(t, 10, rl.config.Requests)
	assert.Equal(t, time.Minute, rl.config.Window)
	assert.NotNil(t, rl.config.KeyFunc)
	assert.Equal(t, "Too many requests. Please try again later.", rl.config.Message)
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error {
		return c.String(http.StatusOK, "success")
	}
	send := func(handler echo.HandlerFunc, ip string) (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		return rec, handler(e.NewContext(req, rec))
	}

	t.Run("WithinLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 2, Window: time.Second})
		handler := rl.Middleware()(ok)

		for i := 0; i < 2; i++ {
			rec, err := send(handler, "10.0.0.1")
			assert.NoError(t, err)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("ExceededLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: 30 * time.Second, Message: "slow down"})
		handler := rl.Middleware()(ok)

		_, err := send(handler, "10.0.0.1")
		require.NoError(t, err)

		rec, err := send(handler, "10.0.0.1")
		require.Error(t, err)
		he, isHTTP := err.(*echo.HTTPError)
		require.True(t, isHTTP)
		assert.Equal(t, http.StatusTooManyRequests, he.Code)
		assert.Equal(t, "slow down", he.Message)
		assert.Equal(t, "30", rec.Header().Get("Retry-After"))

		// Other clients keep their own bucket
		_, err = send(handler, "10.0.0.2")
		assert.NoError(t, err)
	})

	t.Run("WindowExpires", func(t *testing.T) {
		clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute})
		rl.now = func() time.Time { return clock }
		handler := rl.Middleware()(ok)

		_, err := send(handler, "10.0.0.1")
		require.NoError(t, err)
		_, err = send(handler, "10.0.0.1")
		require.Error(t, err)

		clock = clock.Add(time.Minute + time.Second)
		_, err = send(handler, "10.0.0.1")
		assert.NoError(t, err)
	})

	t.Run("Reset", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{Requests: 1, Window: time.Minute})
		handler := rl.Middleware()(ok)

		_, _ = send(handler, "10.0.0.1")
		rl.Reset()
		_, err := send(handler, "10.0.0.1")
		assert.NoError(t, err)
	})
}
