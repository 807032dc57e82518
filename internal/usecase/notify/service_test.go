package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"records-atlas/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResource() *entity.Resource {
	checkedAt := time.Now()
	return &entity.Resource{
		ID:             1,
		JurisdictionID: 1,
		Title:          "Handelsregister",
		URL:            "https://www.handelsregister.de",
		LastStatus:     503,
		LastCheckedAt:  &checkedAt,
	}
}

func testJurisdiction() *entity.Jurisdiction {
	return &entity.Jurisdiction{ID: 1, Code: "de", Name: "Germany"}
}

// TestNotifyDeadLink_NoChannelsEnabled verifies no-op when all channels are disabled
func TestNotifyDeadLink_NoChannelsEnabled(t *testing.T) {
	channels := []Channel{
		&mockChannel{name: "discord", enabled: false},
		&mockChannel{name: "slack", enabled: false},
	}
	svc := NewService(channels, 10)

	err := svc.NotifyDeadLink(context.Background(), testResource(), testJurisdiction())
	assert.NoError(t, err)

	// Wait for potential goroutines
	time.Sleep(100 * time.Millisecond)

	for _, ch := range channels {
		mock := ch.(*mockChannel)
		assert.Equal(t, 0, mock.getSendCalledCount(), "Send should not be called for disabled channel")
	}
}

// TestNotifyDeadLink_SingleChannel verifies the alert reaches one enabled channel
func TestNotifyDeadLink_SingleChannel(t *testing.T) {
	mock := &mockChannel{name: "discord", enabled: true}
	svc := NewService([]Channel{mock}, 10)

	err := svc.NotifyDeadLink(context.Background(), testResource(), testJurisdiction())
	assert.NoError(t, err)

	// Wait for goroutine to complete
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, mock.getSendCalledCount())
}

// TestNotifyDeadLink_MultipleChannels verifies fan-out to enabled channels only
func TestNotifyDeadLink_MultipleChannels(t *testing.T) {
	mock1 := &mockChannel{name: "discord", enabled: true}
	mock2 := &mockChannel{name: "slack", enabled: true}
	mock3 := &mockChannel{name: "email", enabled: false}
	svc := NewService([]Channel{mock1, mock2, mock3}, 10)

	err := svc.NotifyDeadLink(context.Background(), testResource(), testJurisdiction())
	assert.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, mock1.getSendCalledCount(), "discord should receive the alert")
	assert.Equal(t, 1, mock2.getSendCalledCount(), "slack should receive the alert")
	assert.Equal(t, 0, mock3.getSendCalledCount(), "disabled channel must be skipped")
}

// TestNotifyDeadLink_NilInputs verifies nil resource or jurisdiction never panics
func TestNotifyDeadLink_NilInputs(t *testing.T) {
	mock := &mockChannel{name: "discord", enabled: true}
	svc := NewService([]Channel{mock}, 10)

	assert.NoError(t, svc.NotifyDeadLink(context.Background(), nil, testJurisdiction()))
	assert.NoError(t, svc.NotifyDeadLink(context.Background(), testResource(), nil))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, mock.getSendCalledCount())
}

// TestNotifyDeadLink_ChannelFailureIsolated verifies one failing channel
// does not stop delivery to the others
func TestNotifyDeadLink_ChannelFailureIsolated(t *testing.T) {
	failing := &mockChannel{name: "slack", enabled: true, sendError: errors.New("webhook down")}
	healthy := &mockChannel{name: "discord", enabled: true}
	svc := NewService([]Channel{failing, healthy}, 10)

	err := svc.NotifyDeadLink(context.Background(), testResource(), testJurisdiction())
	assert.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, 1, failing.getSendCalledCount())
	assert.Equal(t, 1, healthy.getSendCalledCount())
}

// TestNotifyDeadLink_PanicRecovered verifies a panicking channel is contained
func TestNotifyDeadLink_PanicRecovered(t *testing.T) {
	panicking := &mockChannel{name: "slack", enabled: true, panicOnSend: true}
	healthy := &mockChannel{name: "discord", enabled: true}
	svc := NewService([]Channel{panicking, healthy}, 10)

	require.NotPanics(t, func() {
		_ = svc.NotifyDeadLink(context.Background(), testResource(), testJurisdiction())
		time.Sleep(100 * time.Millisecond)
	})
	assert.Equal(t, 1, healthy.getSendCalledCount())
}

// TestCircuitBreaker_OpensAfterConsecutiveFailures verifies the per-channel breaker
func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	mock := &mockChannel{name: "slack", enabled: true, sendError: errors.New("webhook down")}
	svc := NewService([]Channel{mock}, 10)

	// Drive the channel to the failure threshold
	for i := 0; i < circuitBreakerThreshold; i++ {
		_ = svc.NotifyDeadLink(context.Background(), testResource(), testJurisdiction())
		time.Sleep(50 * time.Millisecond)
	}

	statuses := svc.GetChannelHealth()
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].CircuitBreakerOpen, "breaker should open after %d failures", circuitBreakerThreshold)
	require.NotNil(t, statuses[0].DisabledUntil)
	assert.True(t, statuses[0].DisabledUntil.After(time.Now()))

	// Alerts while open are dropped without calling Send
	before := mock.getSendCalledCount()
	_ = svc.NotifyDeadLink(context.Background(), testResource(), testJurisdiction())
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, mock.getSendCalledCount(), "open breaker must drop alerts")
}

// TestCircuitBreaker_ResetOnSuccess verifies success clears the failure streak
func TestCircuitBreaker_ResetOnSuccess(t *testing.T) {
	mock := &mockChannel{name: "slack", enabled: true}
	svc := NewService([]Channel{mock}, 10)

	mock.setSendError(errors.New("webhook down"))
	for i := 0; i < circuitBreakerThreshold-1; i++ {
		_ = svc.NotifyDeadLink(context.Background(), testResource(), testJurisdiction())
		time.Sleep(50 * time.Millisecond)
	}

	mock.setSendError(nil)
	_ = svc.NotifyDeadLink(context.Background(), testResource(), testJurisdiction())
	time.Sleep(100 * time.Millisecond)

	mock.setSendError(errors.New("webhook down"))
	_ = svc.NotifyDeadLink(context.Background(), testResource(), testJurisdiction())
	time.Sleep(100 * time.Millisecond)

	statuses := svc.GetChannelHealth()
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].CircuitBreakerOpen, "a success must reset the failure streak")
}

// TestGetChannelHealth reports every channel with its enabled state
func TestGetChannelHealth(t *testing.T) {
	channels := []Channel{
		&mockChannel{name: "slack", enabled: true},
		&mockChannel{name: "discord", enabled: false},
	}
	svc := NewService(channels, 10)

	statuses := svc.GetChannelHealth()
	require.Len(t, statuses, 2)
	assert.Equal(t, "slack", statuses[0].Name)
	assert.True(t, statuses[0].Enabled)
	assert.False(t, statuses[0].CircuitBreakerOpen)
	assert.Equal(t, "discord", statuses[1].Name)
	assert.False(t, statuses[1].Enabled)
}

// TestShutdown_WaitsForInFlight verifies Shutdown blocks until sends finish
func TestShutdown_WaitsForInFlight(t *testing.T) {
	mock := &mockChannel{name: "discord", enabled: true, sendDelay: 200 * time.Millisecond}
	svc := NewService([]Channel{mock}, 10)

	_ = svc.NotifyDeadLink(context.Background(), testResource(), testJurisdiction())
	time.Sleep(50 * time.Millisecond) // let the goroutine start its send

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := svc.Shutdown(ctx)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, mock.getSendCalledCount(), 1)
	assert.Less(t, time.Since(start), 2*time.Second)
}

// stuckChannel ignores context cancellation, simulating a send stuck in
// a non-cancellable library call.
type stuckChannel struct {
	delay time.Duration
}

func (c *stuckChannel) Name() string    { return "stuck" }
func (c *stuckChannel) IsEnabled() bool { return true }
func (c *stuckChannel) Send(_ context.Context, _ *entity.Resource, _ *entity.Jurisdiction) error {
	time.Sleep(c.delay)
	return nil
}

// TestShutdown_Timeout verifies Shutdown returns the context error when
// sends outlive the deadline
func TestShutdown_Timeout(t *testing.T) {
	svc := NewService([]Channel{&stuckChannel{delay: 2 * time.Second}}, 10)

	_ = svc.NotifyDeadLink(context.Background(), testResource(), testJurisdiction())
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := svc.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
