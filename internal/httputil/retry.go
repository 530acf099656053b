// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the rate-limit-aware HTTP fetch used by the
// enrichment scraper.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RetryBaseDelay is the first backoff after an HTTP 429; it doubles on each
// further 429. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 2

// DoWithRetry executes req and retries on HTTP 429 with exponential backoff
// starting at RetryBaseDelay. Article fetches are best effort (the analyst
// falls back to the next member URL on failure), so maxRetries stays small:
// default 2 when non-positive. Retry notices go to warn; nil discards them.
//
// Each 429 body is drained and closed before the wait. A context cancelled
// mid-wait returns ctx.Err(). When retries run out the last 429 response is
// returned unconsumed so the caller can report its status.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, warn io.Writer) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if warn == nil {
		warn = io.Discard
	}

	backoff := RetryBaseDelay
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		if attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		fmt.Fprintf(warn, "warning: %s rate limited, retrying in %v (attempt %d/%d)\n",
			req.URL.Host, backoff, attempt+1, maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
