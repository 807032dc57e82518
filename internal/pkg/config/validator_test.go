package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{"daily sweep", "30 5 * * *", false},
		{"hourly poll", "0 * * * *", false},
		{"every fifteen minutes", "*/15 * * * *", false},
		{"weekday mornings", "0 7 * * 1-5", false},
		{"empty", "", true},
		{"too few fields", "30 5 * *", true},
		{"six fields with seconds", "0 30 5 * * *", true},
		{"nonsense", "soon", true},
		{"minute out of range", "75 5 * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{"utc", "UTC", false},
		{"london", "Europe/London", false},
		{"berlin", "Europe/Berlin", false},
		{"empty", "", true},
		{"unknown", "Atlantis/Capital", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimezone(tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDuration(t *testing.T) {
	validate := ValidateDuration(time.Minute, time.Hour)

	assert.NoError(t, validate(time.Minute))
	assert.NoError(t, validate(30*time.Minute))
	assert.NoError(t, validate(time.Hour))
	assert.Error(t, validate(time.Second))
	assert.Error(t, validate(2*time.Hour))
	assert.Error(t, validate(0))
}

func TestValidateIntRange(t *testing.T) {
	validate := ValidateIntRange(1, 64)

	assert.NoError(t, validate(1))
	assert.NoError(t, validate(8))
	assert.NoError(t, validate(64))
	assert.Error(t, validate(0))
	assert.Error(t, validate(65))
	assert.Error(t, validate(-3))
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Millisecond))
	assert.NoError(t, ValidatePositiveDuration(24*time.Hour))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.Error(t, ValidatePositiveDuration(-time.Minute))
}
