package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mpearce/linksaver/pkg/linksaver/logger"
)

// Metadata is the display metadata derived from a page.
type Metadata struct {
	Title   string
	Favicon string
}

// Metadata fetches pageURL and derives a title and favicon URL. On any
// failure it returns {Title: pageURL, Favicon: ""}.
func (e *Extractor) Metadata(pageURL string) Metadata {
	fallback := Metadata{Title: pageURL, Favicon: ""}

	resp, err := e.get(pageURL)
	if err != nil {
		e.log.Warn("metadata fetch failed",
			logger.String("url", pageURL), logger.Error(err))
		return fallback
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		e.log.Warn("metadata parse failed",
			logger.String("url", pageURL), logger.Error(err))
		return fallback
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = pageURL
	}

	favicon, ok := doc.Find(`link[rel="icon"]`).First().Attr("href")
	if !ok || favicon == "" {
		favicon, _ = doc.Find(`link[rel="shortcut icon"]`).First().Attr("href")
	}
	if favicon == "" {
		favicon, _ = doc.Find(`meta[property="og:image"]`).First().Attr("content")
	}

	origin := originOf(pageURL)
	switch {
	case favicon == "":
		favicon = origin + "/favicon.ico"
	case !strings.HasPrefix(favicon, "http"):
		// Rebase relative paths onto the page's origin.
		if strings.HasPrefix(favicon, "/") {
			favicon = origin + favicon
		} else {
			favicon = origin + "/" + favicon
		}
	}

	return Metadata{Title: title, Favicon: favicon}
}
