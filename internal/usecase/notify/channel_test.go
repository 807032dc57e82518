package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"records-atlas/internal/domain/entity"
)

// mockChannel is a test implementation of the Channel interface
type mockChannel struct {
	name        string
	enabled     bool
	sendError   error
	sendDelay   time.Duration
	panicOnSend bool
	sendCalled  int
	mu          sync.Mutex
}

func (m *mockChannel) Name() string {
	return m.name
}

func (m *mockChannel) IsEnabled() bool {
	return m.enabled
}

func (m *mockChannel) Send(ctx context.Context, resource *entity.Resource, jurisdiction *entity.Jurisdiction) error {
	m.mu.Lock()
	m.sendCalled++
	shouldPanic := m.panicOnSend
	m.mu.Unlock()

	if shouldPanic {
		panic("mock panic in Send()")
	}

	if !m.enabled {
		return ErrChannelDisabled
	}
	if resource == nil {
		return ErrInvalidResource
	}
	if jurisdiction == nil {
		return ErrInvalidJurisdiction
	}

	if m.sendDelay > 0 {
		select {
		case <-time.After(m.sendDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	err := m.sendError
	m.mu.Unlock()
	return err
}

func (m *mockChannel) getSendCalledCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sendCalled
}

func (m *mockChannel) setSendError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendError = err
}

// TestChannelInterface verifies that mockChannel implements Channel interface
func TestChannelInterface(t *testing.T) {
	var _ Channel = (*mockChannel)(nil)
}

func TestMockChannel_Send(t *testing.T) {
	ctx := context.Background()
	validResource := &entity.Resource{
		ID:         1,
		Title:      "Companies House",
		URL:        "https://find-and-update.company-information.service.gov.uk",
		LastStatus: 503,
	}
	validJurisdiction := &entity.Jurisdiction{
		ID:   1,
		Code: "uk",
		Name: "United Kingdom",
	}

	tests := []struct {
		name         string
		enabled      bool
		resource     *entity.Resource
		jurisdiction *entity.Jurisdiction
		sendError    error
		wantErr      error
	}{
		{
			name:         "successful send",
			enabled:      true,
			resource:     validResource,
			jurisdiction: validJurisdiction,
		},
		{
			name:         "disabled channel",
			enabled:      false,
			resource:     validResource,
			jurisdiction: validJurisdiction,
			wantErr:      ErrChannelDisabled,
		},
		{
			name:         "nil resource",
			enabled:      true,
			jurisdiction: validJurisdiction,
			wantErr:      ErrInvalidResource,
		},
		{
			name:     "nil jurisdiction",
			enabled:  true,
			resource: validResource,
			wantErr:  ErrInvalidJurisdiction,
		},
		{
			name:         "send error",
			enabled:      true,
			resource:     validResource,
			jurisdiction: validJurisdiction,
			sendError:    errors.New("network error"),
			wantErr:      errors.New("network error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &mockChannel{
				enabled:   tt.enabled,
				sendError: tt.sendError,
			}

			err := ch.Send(ctx, tt.resource, tt.jurisdiction)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Send() error = %v, want nil", err)
				}
			} else {
				if err == nil {
					t.Errorf("Send() error = nil, want %v", tt.wantErr)
				} else if !errors.Is(err, tt.wantErr) && err.Error() != tt.wantErr.Error() {
					t.Errorf("Send() error = %v, want %v", err, tt.wantErr)
				}
			}
		})
	}
}
