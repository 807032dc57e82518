package checker

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html/charset"

	"records-atlas/internal/usecase/linkcheck"
	"records-atlas/internal/utils/text"
)

const maxPreviewLength = 300

// extractMeta pulls the page title and, when enabled, a short readability
// preview out of a live GET response. Extraction is best effort and never
// affects the liveness verdict.
func (c *Checker) extractMeta(resp *http.Response, out *linkcheck.Result) {
	ct := resp.Header.Get("Content-Type")
	if ct != "" && !strings.Contains(ct, "html") && !strings.Contains(ct, "xml") {
		return
	}

	limited := io.LimitReader(resp.Body, c.config.MaxBodySize)
	reader, err := charset.NewReader(limited, ct)
	if err != nil {
		c.logger.Debug("charset detection failed", slog.String("error", err.Error()))
		reader = limited
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err == nil {
		out.Title = normalizeSpace(doc.Find("title").First().Text())
	}

	if !c.config.FetchPreviews {
		return
	}
	article, err := readability.FromReader(strings.NewReader(string(body)), resp.Request.URL)
	if err != nil {
		c.logger.Debug("readability extraction failed",
			slog.String("url", resp.Request.URL.String()),
			slog.String("error", err.Error()))
		return
	}
	preview := article.Excerpt
	if preview == "" {
		preview = article.TextContent
	}
	out.Preview = text.TruncateRunes(normalizeSpace(preview), maxPreviewLength, "…")
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
