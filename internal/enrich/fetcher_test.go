package enrich

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const articlePage = `<!DOCTYPE html>
<html><head><title>Churn benchmarks for vertical SaaS</title>
<script>window.tracker = true;</script></head>
<body>
<nav>Home | Pricing</nav>
<article>
<h1>Churn benchmarks for vertical SaaS</h1>
<p>Vertical SaaS companies typically see monthly churn between two and four percent.</p>
<p>Best-in-class operators hold churn under one percent by owning the workflow.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func TestStripHTML(t *testing.T) {
	got := StripHTML(`<p>Hello <b>world</b></p><script>alert(1)</script><style>.x{}</style>`)
	if got != "Hello world" {
		t.Fatalf("StripHTML = %q", got)
	}
}

func TestStripHTMLDropsChrome(t *testing.T) {
	got := StripHTML(`<nav>menu</nav><p>body text</p><footer>legal</footer>`)

	if strings.Contains(got, "menu") || strings.Contains(got, "legal") {
		t.Fatalf("chrome text leaked: %q", got)
	}

	if !strings.Contains(got, "body text") {
		t.Fatalf("body text missing: %q", got)
	}
}

func TestFetchExtractsArticle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer server.Close()

	logger := zerolog.Nop()
	f := NewFetcher(FetcherConfig{RequestsPerSec: 100, MaxContentLength: 8000}, &logger)

	article, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if !strings.Contains(article.TextContent, "monthly churn") {
		t.Fatalf("article text missing content: %q", article.TextContent)
	}

	if strings.Contains(article.TextContent, "tracker") {
		t.Fatalf("script leaked into article text: %q", article.TextContent)
	}
}

func TestFetchRejectsNonHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	logger := zerolog.Nop()
	f := NewFetcher(FetcherConfig{RequestsPerSec: 100}, &logger)

	if _, err := f.Fetch(context.Background(), server.URL); !errors.Is(err, ErrNotHTML) {
		t.Fatalf("expected ErrNotHTML, got %v", err)
	}
}

func TestFetchClipsLongContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><article><p>" + strings.Repeat("word ", 2000) + "</p></article></body></html>"))
	}))
	defer server.Close()

	logger := zerolog.Nop()
	f := NewFetcher(FetcherConfig{RequestsPerSec: 100, MaxContentLength: 100}, &logger)

	article, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(article.TextContent) > 100 {
		t.Fatalf("content not clipped: %d bytes", len(article.TextContent))
	}
}

func TestClipStopsOnRuneBoundary(t *testing.T) {
	f := &Fetcher{maxContentLength: 4}

	// "aé" is three bytes followed by a three-byte rune; a byte cut at 4
	// would land inside "漢".
	got := f.clip("aé漢字")
	if got != "aé" {
		t.Fatalf("clip = %q, want %q", got, "aé")
	}

	if !utf8.ValidString(f.clip(strings.Repeat("é", 50))) {
		t.Fatal("clipped text must stay valid UTF-8")
	}
}
