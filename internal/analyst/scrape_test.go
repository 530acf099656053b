package analyst

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/curation-engine/internal/httputil"
)

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestScraperPrefersArticleParagraphs(t *testing.T) {
	ts := serveHTML(t, `<html><body>
		<p>navigation junk</p>
		<article><p>First paragraph.</p><p>Second paragraph.</p></article>
	</body></html>`)

	s := NewScraper(ts.Client(), nil)
	text, err := s.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", text)
}

func TestScraperFallsBackToAllParagraphs(t *testing.T) {
	ts := serveHTML(t, `<html><body><div><p>Only paragraph.</p></div></body></html>`)

	s := NewScraper(ts.Client(), nil)
	text, err := s.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "Only paragraph.", text)
}

func TestScraperCapsLength(t *testing.T) {
	long := strings.Repeat("a", 2*maxScrapedChars)
	ts := serveHTML(t, "<html><body><p>"+long+"</p></body></html>")

	s := NewScraper(ts.Client(), nil)
	text, err := s.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Len(t, text, maxScrapedChars)
}

func TestScraperCapKeepsRunesIntact(t *testing.T) {
	// Multibyte runes only: a byte-boundary cut would leave a broken
	// trailing sequence.
	long := strings.Repeat("日本語のニュース記事。", maxScrapedChars/10)
	ts := serveHTML(t, "<html><body><p>"+long+"</p></body></html>")

	s := NewScraper(ts.Client(), nil)
	text, err := s.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(text), maxScrapedChars)
	assert.True(t, utf8.ValidString(text), "cap must not split a rune")
}

func TestScraperRetriesRateLimitedFetch(t *testing.T) {
	old := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	defer func() { httputil.RetryBaseDelay = old }()

	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><p>Recovered.</p></body></html>"))
	}))
	t.Cleanup(ts.Close)

	var log bytes.Buffer
	s := NewScraper(ts.Client(), &log)
	text, err := s.Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "Recovered.", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Contains(t, log.String(), "rate limited, retrying")
}

func TestScraperErrors(t *testing.T) {
	t.Run("no paragraphs", func(t *testing.T) {
		ts := serveHTML(t, "<html><body><div>no paragraphs here</div></body></html>")
		s := NewScraper(ts.Client(), nil)
		_, err := s.Fetch(context.Background(), ts.URL)
		assert.Error(t, err)
	})

	t.Run("http error status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(ts.Close)
		s := NewScraper(ts.Client(), nil)
		_, err := s.Fetch(context.Background(), ts.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
	})
}
