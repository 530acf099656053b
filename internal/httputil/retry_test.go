// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

func rateLimitedServer(t *testing.T, successAfter int32) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) > successAfter {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func fetchReq(t *testing.T, url string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	return req
}

func TestFetchSucceedsFirstTry(t *testing.T) {
	ts, calls := rateLimitedServer(t, 0)

	resp, err := DoWithRetry(context.Background(), ts.Client(), fetchReq(t, ts.URL), 2, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestFetchRetriesRateLimits(t *testing.T) {
	ts, calls := rateLimitedServer(t, 2)

	var log bytes.Buffer
	resp, err := DoWithRetry(context.Background(), ts.Client(), fetchReq(t, ts.URL), 2, &log)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
	assert.Contains(t, log.String(), "rate limited, retrying")
}

func TestFetchReturnsLast429WhenRetriesRunOut(t *testing.T) {
	ts, calls := rateLimitedServer(t, 100)

	resp, err := DoWithRetry(context.Background(), ts.Client(), fetchReq(t, ts.URL), 2, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	// 1 initial call plus 2 retries.
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestFetchDefaultRetryCount(t *testing.T) {
	ts, calls := rateLimitedServer(t, 100)

	resp, err := DoWithRetry(context.Background(), ts.Client(), fetchReq(t, ts.URL), 0, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	// 1 initial call plus the 2 default retries.
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestFetchCancelledDuringBackoff(t *testing.T) {
	ts, _ := rateLimitedServer(t, 100)

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := DoWithRetry(ctx, ts.Client(), fetchReq(t, ts.URL), 2, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetchDoesNotRetryOtherStatuses(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)

	resp, err := DoWithRetry(context.Background(), ts.Client(), fetchReq(t, ts.URL), 2, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
