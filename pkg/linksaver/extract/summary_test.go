package extract

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveReader(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
}

func TestSummaryTakesFirstSixSentences(t *testing.T) {
	body := "Markdown Content:\n" +
		"One. Two. Three! Four? Five. Six. Seven. Eight."
	srv := serveReader(body)
	defer srv.Close()

	summary := newTestExtractor(srv.URL + "/").Summary("https://example.com/article")

	want := "One. Two. Three! Four? Five. Six."
	if summary != want {
		t.Errorf("Expected %q, got %q", want, summary)
	}
	if strings.Contains(summary, "Seven") || strings.Contains(summary, "Eight") {
		t.Errorf("Summary should not contain sentences past the sixth: %q", summary)
	}
}

func TestSummaryDiscardsContentBeforeMarker(t *testing.T) {
	body := "Title: Some Article\nURL Source: https://example.com\n" +
		"Markdown Content:\nThe actual article starts here."
	srv := serveReader(body)
	defer srv.Close()

	summary := newTestExtractor(srv.URL + "/").Summary("https://example.com")

	if summary != "The actual article starts here." {
		t.Errorf("Expected article text only, got %q", summary)
	}
}

func TestSummaryWithoutMarkerUsesWholeBody(t *testing.T) {
	srv := serveReader("Plain text body with a sentence. And another one.")
	defer srv.Close()

	summary := newTestExtractor(srv.URL + "/").Summary("https://example.com")

	if summary != "Plain text body with a sentence. And another one." {
		t.Errorf("Unexpected summary %q", summary)
	}
}

func TestSummaryFiltersNoisyLines(t *testing.T) {
	body := strings.Join([]string{
		"Markdown Content:",
		"[Home](https://example.com/home)",
		"![logo](https://example.com/logo.png)",
		"Sign in to continue reading",
		"Open in App for the best experience",
		"Visit our sitemap for more",
		"https://example.com/login?redirect=/article",
		"favicon fetch instructions",
		"",
		"   ",
		"Real content survives the filter.",
	}, "\n")
	srv := serveReader(body)
	defer srv.Close()

	summary := newTestExtractor(srv.URL + "/").Summary("https://example.com")

	if summary != "Real content survives the filter." {
		t.Errorf("Expected only real content, got %q", summary)
	}
}

func TestSummaryNoSentences(t *testing.T) {
	srv := serveReader("Markdown Content:\njust a fragment with no terminator")
	defer srv.Close()

	summary := newTestExtractor(srv.URL + "/").Summary("https://example.com")

	if summary != SummaryUnavailable {
		t.Errorf("Expected %q, got %q", SummaryUnavailable, summary)
	}
}

func TestSummaryFetchFailure(t *testing.T) {
	summary := newTestExtractor("http://127.0.0.1:1/").Summary("https://example.com")

	if summary != SummaryFailed {
		t.Errorf("Expected %q, got %q", SummaryFailed, summary)
	}
}

func TestSummaryServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	summary := newTestExtractor(srv.URL + "/").Summary("https://example.com")

	if summary != SummaryFailed {
		t.Errorf("Expected %q, got %q", SummaryFailed, summary)
	}
}

func TestSummaryPercentEncodesTarget(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte("Some content here."))
	}))
	defer srv.Close()

	newTestExtractor(srv.URL + "/").Summary("https://example.com/a/b")

	if !strings.Contains(gotPath, "%2F") {
		t.Errorf("Expected percent-encoded target URL in request path, got %q", gotPath)
	}
}

func TestSummaryTruncatesLongBodies(t *testing.T) {
	// A sentence beyond the 10000-character cutoff must never appear.
	body := "Markdown Content:\n" + strings.Repeat("x", 12000) + " Hidden sentence."
	srv := serveReader(body)
	defer srv.Close()

	summary := newTestExtractor(srv.URL + "/").Summary("https://example.com")

	if strings.Contains(summary, "Hidden") {
		t.Errorf("Summary leaked content past the truncation limit: %q", summary)
	}
}
