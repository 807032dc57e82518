package wikitext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// headingRe matches `== Heading ==` with one to six equals signs.
	headingRe = regexp.MustCompile(`^(={1,6})\s*(.*?)\s*=+\s*$`)

	// linkRe matches `[https://url display text]` external links.
	// Only absolute http(s) URLs are link-parsed; anything else stays prose.
	linkRe = regexp.MustCompile(`\[(https?://[^\s\]]+)(?:\s+([^\]]*))?\]`)

	// tagRe matches the ''tag'' annotation convention inside parentheticals.
	tagRe = regexp.MustCompile(`''([^']+)''`)

	// parenRe matches a parenthetical group on an entry line.
	parenRe = regexp.MustCompile(`\(([^()]*)\)`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Parse parses a page of corpus wikitext. It never returns an error: the
// corpus is hand-written prose and the parser's contract is to degrade
// gracefully, keeping unrecognised markup as note text.
func Parse(raw string) *Page {
	p := &parser{}
	p.open("") // implicit leading section

	lines := strings.Split(raw, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t\r")

		if strings.Contains(line, `<div class="mw-collapsible"`) {
			block, consumed := collectBlock(lines[i:])
			p.addGuidance(block)
			i += consumed - 1
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			if m[2] == "" {
				// empty heading, skip the line entirely
				continue
			}
			p.open(m[2])
			continue
		}

		p.addLine(line)
	}

	return &Page{Sections: p.finish()}
}

type parser struct {
	sections []Section
	current  *Section
}

func (p *parser) open(heading string) {
	p.sections = append(p.sections, Section{Heading: heading})
	p.current = &p.sections[len(p.sections)-1]
}

func (p *parser) finish() []Section {
	// Drop the implicit leading section when it gathered nothing.
	if len(p.sections) > 0 {
		lead := p.sections[0]
		if lead.Heading == "" && len(lead.Notes) == 0 && len(lead.Entries) == 0 {
			return p.sections[1:]
		}
	}
	return p.sections
}

// addLine extracts entries from a content line. Lines without links become
// note text; trailing prose around a link becomes that entry's note.
func (p *parser) addLine(line string) {
	trimmed := strings.TrimSpace(strings.TrimLeft(line, "*#: "))
	if trimmed == "" {
		return
	}

	locs := linkRe.FindAllStringSubmatchIndex(trimmed, -1)
	if len(locs) == 0 {
		p.current.Notes = append(p.current.Notes, normalize(trimmed))
		return
	}

	for n, loc := range locs {
		url := trimmed[loc[2]:loc[3]]
		title := ""
		if loc[4] >= 0 {
			title = normalize(trimmed[loc[4]:loc[5]])
		}
		if title == "" {
			// bare [url] link, use the URL itself as display title
			title = url
		}

		// The tail between this link and the next carries tags and notes.
		end := len(trimmed)
		if n+1 < len(locs) {
			end = locs[n+1][0]
		}
		tags, note := parseTail(trimmed[loc[1]:end])

		p.current.Entries = append(p.current.Entries, Entry{
			URL:   url,
			Title: title,
			Tags:  tags,
			Note:  note,
		})
	}
}

// parseTail splits the text following a link into annotation tags and a note.
// Tags live inside parentheticals as ''tag'' runs; whatever is left after
// stripping tag parentheticals becomes the note.
func parseTail(tail string) (tags []string, note string) {
	rest := parenRe.ReplaceAllStringFunc(tail, func(paren string) string {
		matches := tagRe.FindAllStringSubmatch(paren, -1)
		if len(matches) == 0 {
			// parenthetical without tags is note text
			return paren
		}
		for _, m := range matches {
			tags = append(tags, strings.ToLower(strings.TrimSpace(m[1])))
		}
		return ""
	})

	// Tags occasionally appear mid-sentence outside parentheses.
	rest = tagRe.ReplaceAllStringFunc(rest, func(run string) string {
		m := tagRe.FindStringSubmatch(run)
		tags = append(tags, strings.ToLower(strings.TrimSpace(m[1])))
		return ""
	})

	note = strings.Trim(normalize(rest), " -–—,;:")
	return tags, note
}

// addGuidance flattens a collapsible HTML block into note text. Wiki links
// inside the block are still extracted so guidance-embedded resources are
// not lost.
func (p *parser) addGuidance(block string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(block))
	if err != nil {
		p.current.Notes = append(p.current.Notes, normalize(block))
		return
	}

	text := normalize(doc.Text())
	if text == "" {
		return
	}

	if locs := linkRe.FindAllStringIndex(text, -1); len(locs) > 0 {
		p.addLine(text)
		return
	}
	p.current.Notes = append(p.current.Notes, text)
}

// collectBlock gathers lines until the collapsible div's closing tag,
// tolerating nested divs. Returns the block and the number of lines consumed.
func collectBlock(lines []string) (string, int) {
	depth := 0
	var b strings.Builder
	for i, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
		depth += strings.Count(line, "<div")
		depth -= strings.Count(line, "</div>")
		if depth <= 0 {
			return b.String(), i + 1
		}
	}
	// unclosed block, consume everything
	return b.String(), len(lines)
}

func normalize(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
