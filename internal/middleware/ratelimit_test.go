package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterStore_AllowAndBlock(t *testing.T) {
	// allow 5 events immediately then the 6th should be rejected
	s := NewLimiterStore(5, 5, 100*time.Millisecond)
	defer s.Stop()

	key := "10.0.0.1"
	for i := 0; i < 5; i++ {
		require.True(t, s.Allow(key), "expected allow at iteration %d", i)
	}
	require.False(t, s.Allow(key), "expected limiter to block after burst consumed")

	// a different key gets its own budget
	require.True(t, s.Allow("10.0.0.2"))
}

func TestRateLimit_Middleware(t *testing.T) {
	req := require.New(t)
	s := NewLimiterStore(1, 1, time.Minute)
	defer s.Stop()

	handler := RateLimit(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	do := func() int {
		r := httptest.NewRequest(http.MethodPost, "/api/messages", nil)
		r.RemoteAddr = "192.0.2.1:5000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	req.Equal(http.StatusCreated, do())
	req.Equal(http.StatusTooManyRequests, do())
}
