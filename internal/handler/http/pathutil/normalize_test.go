package pathutil

import "testing"

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"jurisdiction by code", "/jurisdictions/uk", "/jurisdictions/:code"},
		{"subdivision code", "/jurisdictions/us-de", "/jurisdictions/:code"},
		{"jurisdiction by id", "/jurisdictions/17", "/jurisdictions/:id"},
		{"resource by id", "/resources/42", "/resources/:id"},
		{"resource notices", "/resources/42/notices", "/resources/:id/notices"},
		{"check by id", "/checks/3", "/checks/:id"},
		{"static list", "/resources", "/resources"},
		{"search", "/api/search", "/api/search"},
		{"unknown path untouched", "/metrics", "/metrics"},
		{"uppercase code not matched", "/jurisdictions/UK", "/jurisdictions/UK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePath(tt.path); got != tt.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
