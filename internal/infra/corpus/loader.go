// Package corpus reads the on-disk page corpus: one wikitext file per
// jurisdiction plus a YAML index mapping codes to display metadata.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"records-atlas/internal/domain/entity"
	"records-atlas/internal/usecase/ingest"
)

// indexFile is the corpus index name inside the corpus directory.
const indexFile = "atlas.yaml"

// pageExt is the wikitext page file extension.
const pageExt = ".wiki"

// Index is the parsed corpus index.
type Index struct {
	Jurisdictions map[string]IndexEntry `yaml:"jurisdictions"`
}

// IndexEntry carries display metadata for one jurisdiction and, optionally,
// gazette feeds to watch keyed by resource URL.
type IndexEntry struct {
	Name   string            `yaml:"name"`
	Region string            `yaml:"region,omitempty"`
	Feeds  map[string]string `yaml:"feeds,omitempty"` // resource URL -> feed URL
}

// Loader resolves jurisdiction pages from a corpus directory.
type Loader struct {
	dir   string
	index Index
}

// NewLoader opens a corpus directory and parses its index.
func NewLoader(dir string) (*Loader, error) {
	data, err := os.ReadFile(filepath.Join(dir, indexFile))
	if err != nil {
		return nil, fmt.Errorf("read corpus index: %w", err)
	}

	var idx Index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse corpus index: %w", err)
	}
	if len(idx.Jurisdictions) == 0 {
		return nil, fmt.Errorf("corpus index %s lists no jurisdictions", indexFile)
	}

	return &Loader{dir: dir, index: idx}, nil
}

// Codes returns all jurisdiction codes in the index, sorted.
func (l *Loader) Codes() []string {
	codes := make([]string, 0, len(l.index.Jurisdictions))
	for code := range l.index.Jurisdictions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Entry returns the index metadata for a code.
// Returns entity.ErrNotFound for unknown codes.
func (l *Loader) Entry(code string) (ingest.PageMeta, error) {
	e, ok := l.index.Jurisdictions[code]
	if !ok {
		return ingest.PageMeta{}, fmt.Errorf("jurisdiction %q: %w", code, entity.ErrNotFound)
	}
	return ingest.PageMeta{
		Name:   e.Name,
		Region: e.Region,
		Feeds:  e.Feeds,
	}, nil
}

// Page reads the raw wikitext page for a jurisdiction code.
// Unknown codes and missing page files both yield entity.ErrNotFound;
// a present but empty page is an error because the catalogue guarantees
// known keys resolve to non-empty content.
func (l *Loader) Page(code string) (string, error) {
	if _, ok := l.index.Jurisdictions[code]; !ok {
		return "", fmt.Errorf("jurisdiction %q: %w", code, entity.ErrNotFound)
	}

	path := filepath.Join(l.dir, code+pageExt)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("page file for %q: %w", code, entity.ErrNotFound)
		}
		return "", fmt.Errorf("read page %s: %w", path, err)
	}

	raw := string(data)
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("page file for %q is empty", code)
	}
	return raw, nil
}
