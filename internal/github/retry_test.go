package github

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackOffSchedule(t *testing.T) {
	base := 10 * time.Millisecond
	b := newBackOff(context.Background(), base)

	want := []time.Duration{base, 2 * base, backoff.Stop}
	for i, w := range want {
		if got := b.NextBackOff(); got != w {
			t.Fatalf("NextBackOff() #%d = %v, want %v", i+1, got, w)
		}
	}
}

func TestBackOffStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := newBackOff(ctx, time.Millisecond)
	assert.Equal(t, backoff.Stop, b.NextBackOff())
}

func TestRateLimitHitLowersRequestRate(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.Header().Set("X-RateLimit-Limit", "5000")
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", "1")
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
			return
		}
		fmt.Fprint(w, `{"login": "acme", "type": "Organization"}`)
	}))
	require.Equal(t, float64(1000), c.limiter.Limit())

	_, err := c.GetAccount(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, float64(250), c.limiter.Limit())
}

func TestOtherFailuresKeepRequestRate(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	}))

	_, err := c.GetAccount(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, float64(1000), c.limiter.Limit())
}
