// Package wikitext parses the MediaWiki-style markup used by the corpus pages.
// Pages are prose documents: the parser never fails on malformed markup, it
// degrades to plain text and surfaces whatever structure it can recognise.
package wikitext

// Page is the parsed view of one jurisdiction page.
type Page struct {
	Sections []Section
}

// Section is one headed block of a page. Content that appears before the
// first heading lands in an implicit section with an empty heading.
type Section struct {
	Heading string
	Notes   []string // flattened guidance blocks and free-text lines
	Entries []Entry
}

// Entry is a single catalogued link with its annotation tags.
type Entry struct {
	URL   string
	Title string
	Tags  []string
	Note  string
}

// IsEmpty reports whether the page carries no recognisable content.
func (p *Page) IsEmpty() bool {
	for _, s := range p.Sections {
		if s.Heading != "" || len(s.Notes) > 0 || len(s.Entries) > 0 {
			return false
		}
	}
	return true
}

// AllEntries returns every entry on the page in document order.
func (p *Page) AllEntries() []Entry {
	var out []Entry
	for _, s := range p.Sections {
		out = append(out, s.Entries...)
	}
	return out
}
