// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyst

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/curation-engine/internal/httputil"
)

// maxScrapedChars caps scraped article text before it enters a batched
// analysis prompt.
const maxScrapedChars = 4000

// Scraper fetches a page and extracts its article text. Rate-limit retry
// notices are written to the warn writer.
type Scraper struct {
	Client    *http.Client
	UserAgent string

	warn io.Writer
}

// NewScraper wires an HTTP client; a nil client gets a 20 s timeout default
// and a nil warn discards retry notices.
func NewScraper(client *http.Client, warn io.Writer) *Scraper {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if warn == nil {
		warn = io.Discard
	}
	return &Scraper{Client: client, UserAgent: "curation-engine/0.1", warn: warn}
}

// Fetch downloads url and returns its paragraph text, capped at
// maxScrapedChars. Pages with no extractable paragraphs are an error so the
// caller can try the next member URL.
func (s *Scraper) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 2, s.warn)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", url, err)
	}

	text := extractText(doc)
	if text == "" {
		return "", fmt.Errorf("no article text in %s", url)
	}
	return truncateText(text, maxScrapedChars), nil
}

// extractText collects paragraph text, preferring paragraphs inside an
// <article> element over the whole page.
func extractText(doc *goquery.Document) string {
	scope := doc.Find("article p")
	if scope.Length() == 0 {
		scope = doc.Find("p")
	}

	var parts []string
	scope.Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n\n")
}
