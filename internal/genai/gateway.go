// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genai wraps the outbound structured-generation call with pacing,
// retry, and output repair. One Gateway instance exists per pipeline run and
// owns the call counter and last-call timestamp.
package genai

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/curation-engine/pkg/types"
)

// Backend performs a single generation call. Implementations return the raw
// response text; classification of failures happens through APIError and
// ErrQuotaExhausted. Tests supply a mock.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Request carries one generation call's parameters to the backend.
type Request struct {
	Prompt      string
	Temperature float64

	// JSONOutput asks the backend to enforce structured output natively.
	// The gateway sets it only when grounding is off; a grounded call
	// cannot use native enforcement and relies on the salvage chain.
	JSONOutput bool

	// Grounding enables the backend's search-grounding tool.
	Grounding bool
}

// Options are the caller-facing knobs for one gateway call.
type Options struct {
	// Grounding enables search grounding for this call.
	Grounding bool

	// Temperature defaults to 0.2 when zero.
	Temperature float64
}

const defaultTemperature = 0.2

// Gateway paces, retries, and repairs outbound generation calls. Not safe
// for concurrent use; the pipeline is strictly sequential.
type Gateway struct {
	backend Backend
	warn    io.Writer

	minInterval    time.Duration
	maxAttempts    int
	initialBackoff time.Duration
	rateLimitCap   time.Duration

	calls    int
	lastCall time.Time
}

// NewGateway builds a gateway around backend. Zero config fields fall back
// to the documented defaults (2s interval, 5 attempts, 5s initial backoff,
// 15s rate-limit cap). Warnings about retries are written to warn.
func NewGateway(backend Backend, cfg types.GenAIConfig, warn io.Writer) *Gateway {
	if warn == nil {
		warn = io.Discard
	}
	g := &Gateway{
		backend:        backend,
		warn:           warn,
		minInterval:    cfg.MinCallInterval,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		rateLimitCap:   cfg.RateLimitBackoffCap,
	}
	if g.minInterval <= 0 {
		g.minInterval = 2 * time.Second
	}
	if g.maxAttempts <= 0 {
		g.maxAttempts = 5
	}
	if g.initialBackoff <= 0 {
		g.initialBackoff = 5 * time.Second
	}
	if g.rateLimitCap <= 0 {
		g.rateLimitCap = 15 * time.Second
	}
	return g
}

// CallCount returns the number of calls this instance has issued, including
// calls that ultimately failed.
func (g *Gateway) CallCount() int { return g.calls }

// GenerateText issues one paced, retried generation call and returns the
// raw response text.
func (g *Gateway) GenerateText(ctx context.Context, prompt string, opts Options) (string, error) {
	return g.generate(ctx, prompt, opts, false)
}

// GenerateInto issues one paced, retried generation call and decodes the
// response into out, salvaging loosely structured text if needed. A response
// that survives no salvage step fails with ErrMalformedOutput.
func (g *Gateway) GenerateInto(ctx context.Context, prompt string, opts Options, out any) error {
	text, err := g.generate(ctx, prompt, opts, true)
	if err != nil {
		return err
	}
	return DecodeStructured(text, out)
}

func (g *Gateway) generate(ctx context.Context, prompt string, opts Options, structured bool) (string, error) {
	temp := opts.Temperature
	if temp == 0 {
		temp = defaultTemperature
	}

	req := Request{
		Prompt:      prompt,
		Temperature: temp,
		JSONOutput:  structured && !opts.Grounding,
		Grounding:   opts.Grounding,
	}

	if err := g.pace(ctx); err != nil {
		return "", err
	}

	text, err := g.callWithRetry(ctx, req)
	g.lastCall = time.Now()
	g.calls++
	if err != nil {
		return "", err
	}
	return text, nil
}

// pace blocks until at least minInterval has elapsed since the previous
// call from this instance. The first call is never delayed.
func (g *Gateway) pace(ctx context.Context) error {
	if g.lastCall.IsZero() {
		return nil
	}
	elapsed := time.Since(g.lastCall)
	if elapsed >= g.minInterval {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(g.minInterval - elapsed):
		return nil
	}
}

// callWithRetry runs up to maxAttempts backend calls with exponential
// backoff. Rate-limited failures cap the wait at rateLimitCap; other
// failures back off uncapped. A permanently exhausted quota aborts at once.
func (g *Gateway) callWithRetry(ctx context.Context, req Request) (string, error) {
	backoff := g.initialBackoff
	var lastErr error

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		text, err := g.backend.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if isPermanentQuota(err) {
			fmt.Fprintf(g.warn, "warning: quota is zero, not retrying: %v\n", err)
			break
		}

		if attempt < g.maxAttempts-1 {
			wait := backoff
			if IsRateLimited(err) && wait > g.rateLimitCap {
				wait = g.rateLimitCap
			}
			fmt.Fprintf(g.warn, "warning: generation call failed (attempt %d/%d), retrying in %v: %v\n",
				attempt+1, g.maxAttempts, wait, err)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
			backoff *= 2
		}
	}

	return "", fmt.Errorf("generation call failed after retries: %w", lastErr)
}
