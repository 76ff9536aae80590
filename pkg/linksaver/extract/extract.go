// Package extract derives bookmark metadata and summaries from remote
// pages. Every fetch or parse failure is absorbed into a fallback value
// and logged as a warning; nothing here ever fails outward.
package extract

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mpearce/linksaver/pkg/linksaver/logger"
)

// Config controls extractor behavior.
type Config struct {
	// Timeout bounds each outbound fetch.
	Timeout time.Duration
	// ReaderBaseURL is the readable-content endpoint; the target URL is
	// appended percent-encoded.
	ReaderBaseURL string
	UserAgent     string
}

// Extractor fetches remote pages to derive titles, favicons, and
// plain-text summaries.
type Extractor struct {
	client        *http.Client
	readerBaseURL string
	userAgent     string
	log           logger.Logger
}

// New builds an Extractor.
func New(cfg Config, log logger.Logger) *Extractor {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Extractor{
		client:        &http.Client{Timeout: timeout},
		readerBaseURL: cfg.ReaderBaseURL,
		userAgent:     cfg.UserAgent,
		log:           log,
	}
}

func (e *Extractor) get(u string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp, nil
}

// originOf returns scheme://host for a URL, or "" if it cannot be parsed.
func originOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
