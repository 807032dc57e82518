// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Jurisdiction and Resource, along
// with their validation rules and domain-specific errors.
package entity

import (
	"fmt"
	"regexp"
	"time"
)

// Jurisdiction represents one country or sub-national region catalogued by the atlas.
// It carries the raw wikitext page the jurisdiction was imported from, so the
// parsed view can be rebuilt on demand without re-reading the corpus directory.
type Jurisdiction struct {
	ID         int64
	Code       string // lowercase key, e.g. "uk", "us-de"
	Name       string
	Region     string
	Overview   string // optional generated synopsis of the page's guidance notes
	RawPage    string // original wikitext as imported
	ImportedAt *time.Time
	Active     bool
}

// codePattern matches a two-letter country code with an optional sub-national suffix.
var codePattern = regexp.MustCompile(`^[a-z]{2}(-[a-z0-9]{1,8})?$`)

// Validate checks the Jurisdiction entity fields.
func (j *Jurisdiction) Validate() error {
	if j.Code == "" {
		return &ValidationError{Field: "code", Message: "is required"}
	}
	if !codePattern.MatchString(j.Code) {
		return &ValidationError{
			Field:   "code",
			Message: fmt.Sprintf("%q must match %s", j.Code, codePattern.String()),
		}
	}
	if j.Name == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	return nil
}
