package extract

import (
	"io"
	"net/url"
	"strings"

	"github.com/mpearce/linksaver/pkg/linksaver/logger"
)

const (
	// SummaryFailed is returned when the reader endpoint cannot be reached.
	SummaryFailed = "Summary could not be generated."
	// SummaryUnavailable is returned when the fetched content yields no sentences.
	SummaryUnavailable = "No summary available."

	markdownMarker  = "Markdown Content:"
	maxSummaryChars = 10000
	maxSentences    = 6
)

// Lines containing any of these (case-insensitively) are navigation or
// account chrome, not article content.
var noisyFragments = []string{
	"sign in",
	"sign up",
	"open in app",
	"sitemap",
	"redirect=",
	"favicon",
}

// Summary fetches a readable-content rendering of pageURL and reduces it
// to at most six sentences of plain text. On any failure it returns
// SummaryFailed.
func (e *Extractor) Summary(pageURL string) string {
	readerURL := e.readerBaseURL + url.PathEscape(pageURL)

	resp, err := e.get(readerURL)
	if err != nil {
		e.log.Warn("summary fetch failed",
			logger.String("url", pageURL), logger.Error(err))
		return SummaryFailed
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*maxSummaryChars))
	if err != nil {
		e.log.Warn("summary read failed",
			logger.String("url", pageURL), logger.Error(err))
		return SummaryFailed
	}

	raw := string(body)
	if runes := []rune(raw); len(runes) > maxSummaryChars {
		raw = string(runes[:maxSummaryChars])
	}

	// The reader output prefixes the article with a metadata block that
	// ends at the marker; everything before it is discarded.
	if idx := strings.Index(raw, markdownMarker); idx >= 0 {
		raw = strings.TrimSpace(raw[idx+len(markdownMarker):])
	}

	cleaned := cleanLines(raw)

	sentences := splitSentences(cleaned)
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}

	summary := strings.TrimSpace(strings.Join(sentences, " "))
	if summary == "" {
		return SummaryUnavailable
	}
	return summary
}

// cleanLines drops blank lines, markdown link/image lines, and known
// navigation noise, then rejoins the survivors with single spaces.
func cleanLines(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.HasPrefix(line, "[") || strings.HasPrefix(line, "![") {
			continue
		}
		lower := strings.ToLower(line)
		noisy := false
		for _, fragment := range noisyFragments {
			if strings.Contains(lower, fragment) {
				noisy = true
				break
			}
		}
		if noisy {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}

// splitSentences scans text for maximal runs of non-terminator
// characters followed by '.', '!', or '?'. Trailing text without a
// terminator is not a sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if strings.TrimSpace(current.String()) != "" {
				sentences = append(sentences, strings.TrimSpace(current.String())+string(r))
			}
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	return sentences
}
