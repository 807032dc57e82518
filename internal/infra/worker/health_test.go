package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

func startHealthServer(t *testing.T, addr string) (*HealthServer, context.CancelFunc) {
	t.Helper()

	server := NewHealthServer(addr, testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := server.Start(ctx); err != nil && err != http.ErrServerClosed {
			t.Errorf("unexpected server error: %v", err)
		}
	}()

	// Give the listener a moment to come up.
	time.Sleep(100 * time.Millisecond)

	return server, cancel
}

func TestHealthServer_Liveness(t *testing.T) {
	_, cancel := startHealthServer(t, "localhost:19191")
	defer cancel()

	resp, err := http.Get("http://localhost:19191/health")
	if err != nil {
		t.Fatalf("failed to call /health: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("failed to close response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status 'ok', got '%s'", body.Status)
	}
}

func TestHealthServer_ReadinessBeforeReady(t *testing.T) {
	_, cancel := startHealthServer(t, "localhost:19192")
	defer cancel()

	resp, err := http.Get("http://localhost:19192/health/ready")
	if err != nil {
		t.Fatalf("failed to call /health/ready: %v", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Errorf("failed to close response body: %v", err)
		}
	}()

	// Server starts not ready until the scheduler is wired up.
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", resp.StatusCode)
	}

	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body.Status != "not ready" {
		t.Errorf("expected status 'not ready', got '%s'", body.Status)
	}
}

func TestHealthServer_ReadinessAfterSetReady(t *testing.T) {
	server, cancel := startHealthServer(t, "localhost:19193")
	defer cancel()

	server.SetReady(true)

	resp, err := http.Get("http://localhost:19193/health/ready")
	if err != nil {
		t.Fatalf("failed to call /health/ready: %v", err)
	}
	if err := resp.Body.Close(); err != nil {
		t.Errorf("failed to close response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	// Flipping back makes readiness fail again.
	server.SetReady(false)

	resp, err = http.Get("http://localhost:19193/health/ready")
	if err != nil {
		t.Fatalf("failed to call /health/ready: %v", err)
	}
	if err := resp.Body.Close(); err != nil {
		t.Errorf("failed to close response body: %v", err)
	}

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", resp.StatusCode)
	}
}

func TestHealthServer_GracefulShutdown(t *testing.T) {
	server := NewHealthServer("localhost:19194", testLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- server.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != http.ErrServerClosed {
			t.Errorf("expected http.ErrServerClosed, got %v", err)
		}
	case <-time.After(6 * time.Second):
		t.Fatal("server did not shut down within the graceful deadline")
	}
}
