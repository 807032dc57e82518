package pathutil

import (
	"regexp"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns defines the list of patterns for dynamic routes.
// Patterns are evaluated in order from most specific to least specific.
// Pre-compiled at initialization.
var pathPatterns = []*PathPattern{
	// Jurisdiction pages are addressed by code, not numeric ID
	{Pattern: regexp.MustCompile(`^/jurisdictions/[a-z]{2}(-[a-z0-9]{1,8})?$`), Template: "/jurisdictions/:code"},
	{Pattern: regexp.MustCompile(`^/jurisdictions/\d+$`), Template: "/jurisdictions/:id"},

	// Resource routes with IDs
	{Pattern: regexp.MustCompile(`^/resources/\d+$`), Template: "/resources/:id"},
	{Pattern: regexp.MustCompile(`^/resources/\d+/notices$`), Template: "/resources/:id/notices"},
	{Pattern: regexp.MustCompile(`^/checks/\d+$`), Template: "/checks/:id"},
}

// NormalizePath replaces dynamic path segments with placeholders so
// metric labels stay low-cardinality.
// Example: /resources/123 -> /resources/:id
func NormalizePath(path string) string {
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
