// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/curation-engine/pkg/types"
)

// generateBase is the generation API model endpoint prefix. Declared as a
// var so tests can substitute an httptest server.
var generateBase = "https://generativelanguage.googleapis.com/v1beta/models"

// HTTPBackend posts generateContent requests to the generation API.
type HTTPBackend struct {
	Client *http.Client
	Model  string
	APIKey string
}

// NewHTTPBackend builds the bundled backend from configuration.
func NewHTTPBackend(cfg types.GenAIConfig) *HTTPBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPBackend{
		Client: &http.Client{Timeout: timeout},
		Model:  cfg.Model,
		APIKey: cfg.APIKey,
	}
}

// generateRequest is the wire shape of a generateContent call.
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
	Tools            []tool            `json:"tools,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type tool struct {
	GoogleSearch struct{} `json:"google_search"`
}

// generateResponse is the subset of the response the backend consumes.
type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate performs one generateContent call and returns the concatenated
// response text. Non-2xx responses become an *APIError carrying the body so
// the gateway can classify the failure.
func (b *HTTPBackend) Generate(ctx context.Context, req Request) (string, error) {
	gc := &generationConfig{Temperature: req.Temperature}
	if req.JSONOutput {
		gc.ResponseMimeType = "application/json"
	}

	body := generateRequest{
		Contents:         []content{{Parts: []part{{Text: req.Prompt}}}},
		GenerationConfig: gc,
	}
	if req.Grounding {
		body.Tools = []tool{{}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling generation request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s:generateContent", generateBase, b.Model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", b.APIKey)

	resp, err := b.Client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("generation API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("parsing generation response: %w", err)
	}

	var sb strings.Builder
	for _, c := range gr.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	return sb.String(), nil
}
