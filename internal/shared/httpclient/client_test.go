package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurance-system/insurance-backend/internal/shared/apperr"
)

func testOptions() Options {
	return Options{
		MaxRetryAttempts:        3,
		BaseRetryDelay:          time.Millisecond,
		CircuitBreakerThreshold: 2,
		CircuitBreakerCooldown:  50 * time.Millisecond,
		Timeout:                 2 * time.Second,
	}
}

func TestClient_RetriesTransientFailuresUntilSuccess(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New(testOptions())

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	// Two retries after the first attempt.
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_DoesNotRetryNonRetryableStatus(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(testOptions())

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_ReturnsLastResponseWhenRetriesExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	opts := testOptions()
	opts.MaxRetryAttempts = 2
	client := New(opts)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	opts := testOptions()
	opts.MaxRetryAttempts = -1
	opts.CircuitBreakerThreshold = 2
	client := New(opts)

	for i := 0; i < 2; i++ {
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// Breaker is open now: no network call is made.
	_, err := client.Get(context.Background(), server.URL)
	assert.ErrorIs(t, err, apperr.ErrCircuitOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_CircuitHalfOpensAfterCooldownAndCloses(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	opts := testOptions()
	opts.MaxRetryAttempts = -1
	opts.CircuitBreakerThreshold = 1
	opts.CircuitBreakerCooldown = 20 * time.Millisecond
	client := New(opts)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	_, err = client.Get(context.Background(), server.URL)
	require.ErrorIs(t, err, apperr.ErrCircuitOpen)

	// After the cooldown the trial call goes through and closes the breaker.
	fail.Store(false)
	time.Sleep(30 * time.Millisecond)

	resp, err = client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClient_TimeoutYieldsTimeoutError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	opts := testOptions()
	opts.MaxRetryAttempts = -1
	opts.Timeout = 20 * time.Millisecond
	client := New(opts)

	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)

	var timeout *apperr.TimeoutError
	assert.ErrorAs(t, err, &timeout)
}
