package jurisdiction

import "time"

type DTO struct {
	ID         int64      `json:"id"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	Region     string     `json:"region,omitempty"`
	Overview   string     `json:"overview,omitempty"`
	ImportedAt *time.Time `json:"imported_at,omitempty"`
	Active     bool       `json:"active"`
}

// DetailDTO is the single-jurisdiction response: the catalog entry, the
// page's parsed section structure and every resource listed on it.
type DetailDTO struct {
	DTO
	Sections  []SectionDTO  `json:"sections,omitempty"`
	Resources []ResourceDTO `json:"resources"`
}

// SectionDTO is one headed block of the stored page, parsed on demand.
// Entries live in the flat resource list; sections carry the headings
// and the free-text guidance notes around them.
type SectionDTO struct {
	Heading string   `json:"heading,omitempty"`
	Notes   []string `json:"notes,omitempty"`
}

type ResourceDTO struct {
	ID            int64      `json:"id"`
	Section       string     `json:"section,omitempty"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Tags          []string   `json:"tags,omitempty"`
	Note          string     `json:"note,omitempty"`
	FeedURL       string     `json:"feed_url,omitempty"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
	LastStatus    int        `json:"last_status,omitempty"`
	Alive         bool       `json:"alive"`
	PageTitle     string     `json:"page_title,omitempty"`
	Preview       string     `json:"preview,omitempty"`
}
