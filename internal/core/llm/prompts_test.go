package llm

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateKeepsShortText(t *testing.T) {
	if got := truncate("short", 100); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}

func TestTruncateStopsOnRuneBoundary(t *testing.T) {
	// A byte cut at 4 would land inside the three-byte rune.
	got := truncate("aé漢字", 4)
	if got != "aé…" {
		t.Fatalf("truncate = %q, want %q", got, "aé…")
	}

	long := strings.Repeat("é", 5000)
	if !utf8.ValidString(truncate(long, 4097)) {
		t.Fatal("truncated text must stay valid UTF-8")
	}
}
