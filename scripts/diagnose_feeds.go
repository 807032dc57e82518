// Command diagnose_feeds probes every gazette feed declared in the
// corpus index and reports which ones are healthy. It reads the corpus
// directly, without a database, so it can be run against a checkout
// before importing.
//
// Usage:
//
//	go run ./scripts/diagnose_feeds.go
//
// CORPUS_DIR selects the corpus directory (default "corpus"). Reports
// are written to feed_diagnostic_report.txt and
// feed_diagnostic_report.json in the working directory.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"

	"records-atlas/internal/infra/corpus"
)

// FeedDiagnostic is the diagnostic result for a single gazette feed.
type FeedDiagnostic struct {
	Jurisdiction string `json:"jurisdiction"`
	ResourceURL  string `json:"resource_url"`
	FeedURL      string `json:"feed_url"`
	Status       string `json:"status"` // "OK", "HTTP_ERROR", "PARSE_ERROR", "EMPTY", "TIMEOUT"
	HTTPCode     int    `json:"http_code"`
	ItemCount    int    `json:"item_count"`
	LatestDate   string `json:"latest_date"`
	FeedType     string `json:"feed_type"` // "rss", "atom", "json", or ""
	ErrorMessage string `json:"error_message,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

// watchedFeed is one feed declaration pulled from the corpus index.
type watchedFeed struct {
	code        string
	resourceURL string
	feedURL     string
}

func main() {
	dir := os.Getenv("CORPUS_DIR")
	if dir == "" {
		dir = "corpus"
		log.Println("CORPUS_DIR not set, using ./corpus")
	}

	loader, err := corpus.NewLoader(dir)
	if err != nil {
		log.Fatalf("Failed to open corpus: %v", err)
	}

	feeds := collectFeeds(loader)
	if len(feeds) == 0 {
		log.Println("No gazette feeds declared in the corpus index; nothing to diagnose.")
		return
	}

	log.Printf("Diagnosing %d gazette feeds...\n", len(feeds))

	diagnostics := make([]FeedDiagnostic, 0, len(feeds))
	for i, feed := range feeds {
		log.Printf("[%d/%d] %s: %s", i+1, len(feeds), feed.code, feed.feedURL)
		diagnostics = append(diagnostics, diagnoseFeed(feed, 30*time.Second))

		// Rate limiting to be nice to servers
		time.Sleep(500 * time.Millisecond)
	}

	generateReport(diagnostics)
	generateJSONReport(diagnostics)
}

// collectFeeds gathers every (jurisdiction, resource URL, feed URL)
// triple from the index, in stable order.
func collectFeeds(loader *corpus.Loader) []watchedFeed {
	var feeds []watchedFeed
	for _, code := range loader.Codes() {
		meta, err := loader.Entry(code)
		if err != nil {
			log.Printf("Skipping %s: %v", code, err)
			continue
		}
		urls := make([]string, 0, len(meta.Feeds))
		for resourceURL := range meta.Feeds {
			urls = append(urls, resourceURL)
		}
		sort.Strings(urls)
		for _, resourceURL := range urls {
			feeds = append(feeds, watchedFeed{
				code:        code,
				resourceURL: resourceURL,
				feedURL:     meta.Feeds[resourceURL],
			})
		}
	}
	return feeds
}

func diagnoseFeed(feed watchedFeed, timeout time.Duration) FeedDiagnostic {
	diag := FeedDiagnostic{
		Jurisdiction: feed.code,
		ResourceURL:  feed.resourceURL,
		FeedURL:      feed.feedURL,
	}

	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.feedURL, nil)
	if err != nil {
		diag.Status = "REQUEST_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}
	req.Header.Set("User-Agent", "records-atlas-diagnostic/1.0")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	resp, err := client.Do(req)
	diag.ResponseTime = time.Since(startTime).Milliseconds()

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			diag.Status = "TIMEOUT"
			diag.ErrorMessage = fmt.Sprintf("request timeout after %v", timeout)
		} else {
			diag.Status = "HTTP_ERROR"
			diag.ErrorMessage = err.Error()
		}
		return diag
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Failed to close response body: %v", err)
		}
	}()

	diag.HTTPCode = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		diag.Status = "HTTP_ERROR"
		diag.ErrorMessage = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status)
		return diag
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		diag.Status = "PARSE_ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.FeedType = parsed.FeedType
	diag.ItemCount = len(parsed.Items)
	if diag.ItemCount == 0 {
		diag.Status = "EMPTY"
		diag.ErrorMessage = "feed has no items"
		return diag
	}
	if latest := parsed.Items[0]; latest.PublishedParsed != nil {
		diag.LatestDate = latest.PublishedParsed.Format(time.RFC3339)
	} else if latest.UpdatedParsed != nil {
		diag.LatestDate = latest.UpdatedParsed.Format(time.RFC3339)
	}

	diag.Status = "OK"
	return diag
}

// writef is a helper to write to file and handle errors
func writef(f *os.File, format string, args ...interface{}) error {
	_, err := fmt.Fprintf(f, format, args...)
	return err
}

func generateReport(diagnostics []FeedDiagnostic) {
	f, err := os.Create("feed_diagnostic_report.txt")
	if err != nil {
		log.Printf("Failed to create report file: %v", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close report file: %v", err)
		}
	}()

	_ = writef(f, "===============================================\n")
	_ = writef(f, "Gazette Feed Diagnostic Report\n")
	_ = writef(f, "Generated: %s\n", time.Now().Format(time.RFC3339))
	_ = writef(f, "Total Feeds: %d\n", len(diagnostics))
	_ = writef(f, "===============================================\n\n")

	statusCount := make(map[string]int)
	var okCount, errorCount int
	for _, d := range diagnostics {
		statusCount[d.Status]++
		if d.Status == "OK" {
			okCount++
		} else {
			errorCount++
		}
	}

	_ = writef(f, "SUMMARY:\n")
	_ = writef(f, "  Working: %d (%.1f%%)\n", okCount, float64(okCount)/float64(len(diagnostics))*100)
	_ = writef(f, "  Broken: %d (%.1f%%)\n", errorCount, float64(errorCount)/float64(len(diagnostics))*100)
	_ = writef(f, "\nSTATUS BREAKDOWN:\n")
	for status, count := range statusCount {
		_ = writef(f, "  %s: %d\n", status, count)
	}
	_ = writef(f, "\n")

	_ = writef(f, "DETAILED RESULTS:\n")
	_ = writef(f, "===============================================\n\n")

	_ = writef(f, "WORKING FEEDS (%d):\n", okCount)
	_ = writef(f, "-------------------------------------------\n")
	for _, d := range diagnostics {
		if d.Status == "OK" {
			_ = writef(f, "Jurisdiction: %s\n", d.Jurisdiction)
			_ = writef(f, "  Feed: %s\n", d.FeedURL)
			_ = writef(f, "  Type: %s | Items: %d | Latest: %s\n", d.FeedType, d.ItemCount, d.LatestDate)
			_ = writef(f, "  Response: %dms | HTTP: %d\n", d.ResponseTime, d.HTTPCode)
			_ = writef(f, "\n")
		}
	}

	_ = writef(f, "\nBROKEN FEEDS (%d):\n", errorCount)
	_ = writef(f, "-------------------------------------------\n")
	for _, d := range diagnostics {
		if d.Status != "OK" {
			_ = writef(f, "Jurisdiction: %s\n", d.Jurisdiction)
			_ = writef(f, "  Feed: %s\n", d.FeedURL)
			_ = writef(f, "  Resource: %s\n", d.ResourceURL)
			_ = writef(f, "  Status: %s | HTTP: %d\n", d.Status, d.HTTPCode)
			_ = writef(f, "  Error: %s\n", d.ErrorMessage)
			_ = writef(f, "\n")
		}
	}

	log.Println("Text report generated: feed_diagnostic_report.txt")
}

func generateJSONReport(diagnostics []FeedDiagnostic) {
	f, err := os.Create("feed_diagnostic_report.json")
	if err != nil {
		log.Printf("Failed to create JSON report: %v", err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close JSON report file: %v", err)
		}
	}()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(diagnostics); err != nil {
		log.Printf("Failed to write JSON report: %v", err)
		return
	}

	log.Println("JSON report generated: feed_diagnostic_report.json")
}
