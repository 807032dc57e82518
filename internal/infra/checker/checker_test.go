package checker

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

// testConfig allows loopback targets and disables per-host throttling so
// httptest servers can be probed quickly.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.DenyPrivateIPs = false
	cfg.HostRPS = 1000
	cfg.HostBurst = 1000
	cfg.Timeout = 2 * time.Second
	return cfg
}

func newTestChecker() *Checker {
	return NewChecker(testConfig(), slog.Default())
}

func TestCheck_aliveOn2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res, err := newTestChecker().Check(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Check err=%v", err)
	}
	if !res.Alive || res.StatusCode != http.StatusOK {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCheck_deadOn404(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	res, err := newTestChecker().Check(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Check err=%v", err)
	}
	if res.Alive {
		t.Fatalf("404 must be dead: %+v", res)
	}
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.StatusCode)
	}
}

func TestCheck_headRejectedFallsBackToGet(t *testing.T) {
	var sawGet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			sawGet = true
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	res, err := newTestChecker().Check(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Check err=%v", err)
	}
	if !sawGet {
		t.Fatalf("expected GET fallback after 405 on HEAD")
	}
	if !res.Alive || res.StatusCode != http.StatusOK {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestCheck_deadOnConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	res, err := newTestChecker().Check(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Check err=%v", err)
	}
	if res.Alive {
		t.Fatalf("unreachable server must be dead: %+v", res)
	}
	if res.StatusCode != 0 {
		t.Fatalf("transport failure should report status 0, got %d", res.StatusCode)
	}
}

func TestCheck_rejectsBadScheme(t *testing.T) {
	if _, err := newTestChecker().Check(context.Background(), "ftp://example.gov"); err == nil {
		t.Fatalf("want error for ftp scheme")
	}
}

func TestCheck_rejectsPrivateTarget(t *testing.T) {
	cfg := testConfig()
	cfg.DenyPrivateIPs = true
	c := NewChecker(cfg, slog.Default())

	for _, u := range []string{"http://127.0.0.1/admin", "http://localhost/admin", "http://192.168.1.10/"} {
		if _, err := c.Check(context.Background(), u); err == nil {
			t.Fatalf("want SSRF rejection for %s", u)
		}
	}
}

func TestCheck_extractsPageMeta(t *testing.T) {
	const page = `<!DOCTYPE html>
<html><head>
<title>Find and update company information</title>
<meta name="description" content="Search the register of companies.">
</head><body><p>Search the register of companies incorporated in the United Kingdom.</p></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.FetchPreviews = true
	res, err := NewChecker(cfg, slog.Default()).Check(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Check err=%v", err)
	}
	if !res.Alive {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Title != "Find and update company information" {
		t.Fatalf("title = %q", res.Title)
	}
	if !strings.Contains(res.Preview, "register of companies") {
		t.Fatalf("preview = %q", res.Preview)
	}
}

func TestCheck_previewTruncationKeepsRunesIntact(t *testing.T) {
	// A long description of multi-byte runes must be cut on a rune
	// boundary, never mid-sequence.
	long := strings.Repeat("ü", 400)
	page := `<!DOCTYPE html>
<html><head>
<title>Handelsregister</title>
<meta name="description" content="` + long + `">
</head><body><p>` + long + `</p></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.FetchPreviews = true
	res, err := NewChecker(cfg, slog.Default()).Check(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Check err=%v", err)
	}
	if res.Preview == "" {
		t.Fatalf("expected a preview")
	}
	if !utf8.ValidString(res.Preview) {
		t.Fatalf("preview is not valid UTF-8: %q", res.Preview)
	}
	if n := utf8.RuneCountInString(res.Preview); n > maxPreviewLength+1 {
		t.Fatalf("preview too long: %d runes", n)
	}
	if strings.ContainsRune(res.Preview, utf8.RuneError) {
		t.Fatalf("preview contains a broken rune: %q", res.Preview)
	}
	if !strings.HasSuffix(res.Preview, "…") {
		t.Fatalf("truncated preview should carry the ellipsis: %q", res.Preview)
	}
}

func TestCheck_canceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestChecker().Check(ctx, srv.URL); err == nil {
		t.Fatalf("want error for canceled context")
	}
}
