package entity

import "time"

// Access tags recognised across the corpus. Pages apply them inconsistently,
// so repositories store whatever tags the parser surfaced, known or not.
const (
	TagPublic       = "pub"
	TagPaid         = "paid"
	TagRegistration = "reg"
)

// Resource represents a single catalogued link: a government or commercial
// records website listed under one section of a jurisdiction page.
// Liveness fields are updated by the link-check sweep.
type Resource struct {
	ID             int64
	JurisdictionID int64
	Section        string // heading the entry appeared under, may be empty
	Title          string
	URL            string
	Tags           []string
	Note           string
	FeedURL        string // optional gazette/announcement feed to watch
	LastCheckedAt  *time.Time
	LastStatus     int    // last observed HTTP status, 0 for transport errors
	Alive          bool
	PageTitle      string // <title> observed on the last live check
	Preview        string // readability excerpt from the last live check
	CreatedAt      time.Time
}

// HasTag reports whether the resource carries the given access tag.
func (r *Resource) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Validate checks the Resource entity fields.
func (r *Resource) Validate() error {
	if r.Title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if err := ValidateURL(r.URL); err != nil {
		return err
	}
	if r.FeedURL != "" {
		if err := ValidateURL(r.FeedURL); err != nil {
			return err
		}
	}
	return nil
}
