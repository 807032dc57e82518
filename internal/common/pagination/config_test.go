package pagination_test

import (
	"testing"

	"records-atlas/internal/common/pagination"
)

func TestDefaultConfig(t *testing.T) {
	config := pagination.DefaultConfig()

	if config.DefaultPage != 1 {
		t.Errorf("want DefaultPage 1, got %d", config.DefaultPage)
	}
	if config.DefaultLimit != 20 {
		t.Errorf("want DefaultLimit 20, got %d", config.DefaultLimit)
	}
	if config.MaxLimit != 100 {
		t.Errorf("want MaxLimit 100, got %d", config.MaxLimit)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PAGINATION_DEFAULT_PAGE", "2")
	t.Setenv("PAGINATION_DEFAULT_LIMIT", "50")
	t.Setenv("PAGINATION_MAX_LIMIT", "200")

	config := pagination.LoadFromEnv()

	if config.DefaultPage != 2 {
		t.Errorf("want DefaultPage 2, got %d", config.DefaultPage)
	}
	if config.DefaultLimit != 50 {
		t.Errorf("want DefaultLimit 50, got %d", config.DefaultLimit)
	}
	if config.MaxLimit != 200 {
		t.Errorf("want MaxLimit 200, got %d", config.MaxLimit)
	}
}

func TestLoadFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("PAGINATION_DEFAULT_LIMIT", "twenty")
	t.Setenv("PAGINATION_MAX_LIMIT", "")

	config := pagination.LoadFromEnv()

	if config.DefaultLimit != 20 {
		t.Errorf("want fallback DefaultLimit 20, got %d", config.DefaultLimit)
	}
	if config.MaxLimit != 100 {
		t.Errorf("want fallback MaxLimit 100, got %d", config.MaxLimit)
	}
}
