// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/curation-engine/internal/genai"
	"github.com/pdiddy/curation-engine/pkg/types"
)

var languageNames = map[string]string{
	"en": "English",
	"fr": "French",
	"es": "Spanish",
	"de": "German",
	"zh": "Chinese",
	"ja": "Japanese",
	"ar": "Arabic",
	"pt": "Portuguese",
	"ru": "Russian",
}

// GroundedSource discovers candidates through search-grounded generation,
// one gateway call per interest and language. The first grounding failure
// disables the source for the rest of the run: without grounding the calls
// would only produce stale results, and retrying per interest pair burns
// quota for nothing.
type GroundedSource struct {
	Gateway   *genai.Gateway
	Languages []string

	disabled bool
}

// Name identifies the source.
func (g *GroundedSource) Name() string { return "grounded-generation" }

// groundedResponse is the wire shape of one grounded discovery call.
type groundedResponse struct {
	Candidates []types.Candidate `json:"candidates"`
}

// Fetch runs one grounded generation call per configured language and
// collects the returned candidates.
func (g *GroundedSource) Fetch(ctx context.Context, interest string, _ time.Time) ([]types.Candidate, error) {
	if g.disabled {
		return nil, nil
	}

	languages := g.Languages
	if len(languages) == 0 {
		languages = []string{"en"}
	}

	var all []types.Candidate
	for _, lang := range languages {
		var resp groundedResponse
		err := g.Gateway.GenerateInto(ctx, buildScoutPrompt(interest, lang), genai.Options{Grounding: true}, &resp)
		if err != nil {
			g.disabled = true
			return all, fmt.Errorf("grounded discovery unavailable, disabling source: %w", err)
		}
		for _, c := range resp.Candidates {
			c.InterestQuery = interest
			c.SourceLanguage = lang
			all = append(all, c)
		}
	}
	return all, nil
}

func buildScoutPrompt(interest, lang string) string {
	name, ok := languageNames[lang]
	if !ok {
		name = lang
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a news scout. Find the latest significant news stories about: %s\n\n", interest)
	fmt.Fprintf(&sb, "Search in %s language sources.\n\n", name)
	sb.WriteString(`For each story found, return a JSON object with this structure:
{
  "candidates": [
    {"title": "headline in English", "url": "source URL", "snippet": "1-2 sentence summary in English", "source_language": "` + lang + `"}
  ]
}

Find 3-5 recent, high-quality news stories. Focus on breaking news and significant developments. Translate all titles and snippets to English. Return valid JSON only.`)
	return sb.String()
}
