package pagination_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"records-atlas/internal/common/pagination"
)

func TestParseQueryParams(t *testing.T) {
	t.Parallel()

	config := pagination.Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}

	tests := []struct {
		name      string
		query     string
		want      pagination.Params
		wantError bool
	}{
		{
			name:      "valid parameters",
			query:     "page=2&limit=30",
			want:      pagination.Params{Page: 2, Limit: 30},
			wantError: false,
		},
		{
			name:      "no parameters use defaults",
			query:     "",
			want:      pagination.Params{Page: 1, Limit: 20},
			wantError: false,
		},
		{
			name:      "page only",
			query:     "page=5",
			want:      pagination.Params{Page: 5, Limit: 20},
			wantError: false,
		},
		{
			name:      "limit only",
			query:     "limit=50",
			want:      pagination.Params{Page: 1, Limit: 50},
			wantError: false,
		},
		{
			name:      "limit at maximum",
			query:     "limit=100",
			want:      pagination.Params{Page: 1, Limit: 100},
			wantError: false,
		},
		{
			name:      "page zero",
			query:     "page=0",
			wantError: true,
		},
		{
			name:      "negative page",
			query:     "page=-1",
			wantError: true,
		},
		{
			name:      "non-numeric page",
			query:     "page=first",
			wantError: true,
		},
		{
			name:      "limit zero",
			query:     "limit=0",
			wantError: true,
		},
		{
			name:      "limit over maximum",
			query:     "limit=101",
			wantError: true,
		},
		{
			name:      "non-numeric limit",
			query:     "limit=all",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/api/search?"+tt.query, nil)
			got, err := pagination.ParseQueryParams(r, config)

			if tt.wantError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("want %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestParams_Validate(t *testing.T) {
	t.Parallel()

	config := pagination.DefaultConfig()

	tests := []struct {
		name      string
		params    pagination.Params
		wantError bool
	}{
		{"valid", pagination.Params{Page: 1, Limit: 20}, false},
		{"page zero", pagination.Params{Page: 0, Limit: 20}, true},
		{"limit zero", pagination.Params{Page: 1, Limit: 0}, true},
		{"limit over max", pagination.Params{Page: 1, Limit: 101}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.params.Validate(config)
			if tt.wantError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParams_WithDefaults(t *testing.T) {
	t.Parallel()

	config := pagination.DefaultConfig()

	tests := []struct {
		name   string
		params pagination.Params
		want   pagination.Params
	}{
		{"valid unchanged", pagination.Params{Page: 3, Limit: 50}, pagination.Params{Page: 3, Limit: 50}},
		{"zero page replaced", pagination.Params{Page: 0, Limit: 50}, pagination.Params{Page: 1, Limit: 50}},
		{"zero limit replaced", pagination.Params{Page: 3, Limit: 0}, pagination.Params{Page: 3, Limit: 20}},
		{"limit capped at max", pagination.Params{Page: 3, Limit: 500}, pagination.Params{Page: 3, Limit: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.params.WithDefaults(config)
			if got != tt.want {
				t.Errorf("want %+v, got %+v", tt.want, got)
			}
		})
	}
}
