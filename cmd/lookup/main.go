// Package main provides a CLI for looking up public-records resources for a
// jurisdiction straight from the corpus, without a database or server.
// Usage: atlas-lookup <code> [--section NAME] [--tag TAG] [--urls] [--check] [--output json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"records-atlas/internal/infra/checker"
	"records-atlas/internal/infra/corpus"
	"records-atlas/internal/observability/logging"
	"records-atlas/internal/wikitext"
	"records-atlas/pkg/config"
)

// EntryOutput is one catalogued link in the JSON output.
type EntryOutput struct {
	Section    string   `json:"section,omitempty"`
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	Tags       []string `json:"tags,omitempty"`
	Note       string   `json:"note,omitempty"`
	StatusCode int      `json:"status_code,omitempty"`
	Alive      *bool    `json:"alive,omitempty"`
	PageTitle  string   `json:"page_title,omitempty"`
}

// LookupOutput is the JSON output format.
type LookupOutput struct {
	Code    string        `json:"code"`
	Name    string        `json:"name"`
	Region  string        `json:"region,omitempty"`
	Entries []EntryOutput `json:"entries"`
}

func main() {
	var (
		sectionFilter string
		tagFilter     string
		urlsOnly      bool
		check         bool
		outputFormat  string
		corpusDir     string
	)

	flag.StringVar(&sectionFilter, "section", "", "Only show entries under this heading")
	flag.StringVar(&tagFilter, "tag", "", "Only show entries carrying this tag (e.g. pub, paid, reg)")
	flag.BoolVar(&urlsOnly, "urls", false, "Print bare URLs only, one per line")
	flag.BoolVar(&check, "check", false, "Probe each URL and report liveness")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.StringVar(&corpusDir, "corpus", "", "Corpus directory (default $CORPUS_DIR or ./corpus)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Error: jurisdiction code is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: atlas-lookup <code> [--section NAME] [--tag TAG] [--urls] [--check] [--output json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  atlas-lookup uk")
		fmt.Fprintln(os.Stderr, "  atlas-lookup us-de --tag pub")
		fmt.Fprintln(os.Stderr, "  atlas-lookup fr --check --output json")
		os.Exit(1)
	}
	code := strings.ToLower(strings.TrimSpace(args[0]))

	logger := logging.NewTextLogger()
	slog.SetDefault(logger)

	if corpusDir == "" {
		corpusDir = config.GetEnvString("CORPUS_DIR", "corpus")
	}

	loader, err := corpus.NewLoader(corpusDir)
	if err != nil {
		fatalf("failed to open corpus %s: %v", corpusDir, err)
	}

	meta, err := loader.Entry(code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown jurisdiction %q\n", code)
		fmt.Fprintf(os.Stderr, "Known codes: %s\n", strings.Join(loader.Codes(), ", "))
		os.Exit(1)
	}

	raw, err := loader.Page(code)
	if err != nil {
		fatalf("failed to load page for %s: %v", code, err)
	}
	page := wikitext.Parse(raw)

	entries := collectEntries(page, sectionFilter, tagFilter)
	if check {
		probeEntries(logger, entries)
	}

	out := LookupOutput{
		Code:    code,
		Name:    meta.Name,
		Region:  meta.Region,
		Entries: entries,
	}

	switch {
	case urlsOnly:
		for _, e := range out.Entries {
			fmt.Println(e.URL)
		}
	case outputFormat == "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fatalf("failed to encode output: %v", err)
		}
	default:
		printText(out)
	}
}

// collectEntries flattens the page into output entries, applying the
// section and tag filters. Filters match case-insensitively.
func collectEntries(page *wikitext.Page, sectionFilter, tagFilter string) []EntryOutput {
	entries := make([]EntryOutput, 0)
	for _, sec := range page.Sections {
		if sectionFilter != "" && !strings.EqualFold(sec.Heading, sectionFilter) {
			continue
		}
		for _, e := range sec.Entries {
			if tagFilter != "" && !hasTag(e, tagFilter) {
				continue
			}
			entries = append(entries, EntryOutput{
				Section: sec.Heading,
				Title:   e.Title,
				URL:     e.URL,
				Tags:    e.Tags,
				Note:    e.Note,
			})
		}
	}
	return entries
}

func hasTag(e wikitext.Entry, tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// probeEntries checks each URL in sequence and fills in the liveness
// fields. The CLI probes serially; a lookup touches one page's worth of
// URLs, not the whole corpus.
func probeEntries(logger *slog.Logger, entries []EntryOutput) {
	cfg := checker.LoadConfigFromEnv()
	prober := checker.NewChecker(cfg, logger)

	for i := range entries {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		result, err := prober.Check(ctx, entries[i].URL)
		cancel()
		if err != nil {
			dead := false
			entries[i].Alive = &dead
			continue
		}
		alive := result.Alive
		entries[i].StatusCode = result.StatusCode
		entries[i].Alive = &alive
		entries[i].PageTitle = result.Title
	}
}

// printText renders the human-readable listing grouped by section.
func printText(out LookupOutput) {
	header := out.Name
	if out.Region != "" {
		header = fmt.Sprintf("%s (%s)", out.Name, out.Region)
	}
	fmt.Printf("%s [%s]\n", header, out.Code)

	if len(out.Entries) == 0 {
		fmt.Println("  no matching entries")
		return
	}

	lastSection := "\x00"
	for _, e := range out.Entries {
		if e.Section != lastSection {
			if e.Section != "" {
				fmt.Printf("\n== %s ==\n", e.Section)
			} else {
				fmt.Println()
			}
			lastSection = e.Section
		}

		line := fmt.Sprintf("  %s\n    %s", e.Title, e.URL)
		if len(e.Tags) > 0 {
			line += fmt.Sprintf("  [%s]", strings.Join(e.Tags, ", "))
		}
		if e.Alive != nil {
			if *e.Alive {
				line += fmt.Sprintf("  (alive, %d)", e.StatusCode)
			} else if e.StatusCode > 0 {
				line += fmt.Sprintf("  (DEAD, %d)", e.StatusCode)
			} else {
				line += "  (DEAD)"
			}
		}
		fmt.Println(line)
		if e.PageTitle != "" && !strings.EqualFold(e.PageTitle, e.Title) {
			fmt.Printf("    page title: %s\n", e.PageTitle)
		}
		if e.Note != "" {
			fmt.Printf("    %s\n", e.Note)
		}
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
