// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"errors"
	"fmt"
	"strings"
)

// ErrQuotaExhausted marks a permanently exhausted (zero) quota. The gateway
// aborts immediately instead of retrying when a failure matches it.
var ErrQuotaExhausted = errors.New("generation quota permanently exhausted")

// ErrMalformedOutput marks structured output that survived no step of the
// salvage chain.
var ErrMalformedOutput = errors.New("malformed structured output")

// APIError is a failed generation API response.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Message is the response body, truncated by the backend.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("generation API returned HTTP %d: %s", e.StatusCode, e.Message)
}

// RateLimited reports whether this failure signature indicates rate
// limiting (HTTP 429 or a RESOURCE_EXHAUSTED status in the body).
func (e *APIError) RateLimited() bool {
	return e.StatusCode == 429 || strings.Contains(e.Message, "RESOURCE_EXHAUSTED")
}

// PermanentQuota reports whether the quota is hard-zero ("limit: 0" in the
// failure message), meaning no retry can ever succeed.
func (e *APIError) PermanentQuota() bool {
	return e.RateLimited() && strings.Contains(e.Message, "limit: 0")
}

// IsRateLimited reports whether err carries a rate-limit signature.
func IsRateLimited(err error) bool {
	var api *APIError
	return errors.As(err, &api) && api.RateLimited()
}

// isPermanentQuota reports whether err means retrying is pointless. Both the
// typed APIError signature and an explicit ErrQuotaExhausted wrap qualify.
func isPermanentQuota(err error) bool {
	if errors.Is(err, ErrQuotaExhausted) {
		return true
	}
	var api *APIError
	return errors.As(err, &api) && api.PermanentQuota()
}
