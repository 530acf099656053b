// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeStructured parses raw model output into out through an ordered
// fallback chain: decode the text as-is, strip a fenced block and decode,
// decode the substring between the first { and last }, then between the
// first [ and last ]. When every step fails the error wraps
// ErrMalformedOutput.
func DecodeStructured(raw string, out any) error {
	cleaned := strings.TrimSpace(raw)

	if json.Unmarshal([]byte(cleaned), out) == nil {
		return nil
	}

	if inner, ok := stripFences(cleaned); ok {
		if json.Unmarshal([]byte(inner), out) == nil {
			return nil
		}
		cleaned = inner
	}

	if obj, ok := between(cleaned, '{', '}'); ok {
		if json.Unmarshal([]byte(obj), out) == nil {
			return nil
		}
	}

	if arr, ok := between(cleaned, '[', ']'); ok {
		if json.Unmarshal([]byte(arr), out) == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: no decodable JSON in %d bytes of response", ErrMalformedOutput, len(raw))
}

// stripFences extracts the body of the first markdown code fence. Returns
// false when the text does not start with a fence.
func stripFences(text string) (string, bool) {
	if !strings.HasPrefix(text, "```") {
		return "", false
	}
	var inner []string
	inFence := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !inFence && strings.HasPrefix(trimmed, "```") {
			inFence = true
			continue
		}
		if inFence && trimmed == "```" {
			break
		}
		if inFence {
			inner = append(inner, line)
		}
	}
	return strings.Join(inner, "\n"), true
}

// between returns the substring spanning the first open byte through the
// last close byte, inclusive.
func between(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
