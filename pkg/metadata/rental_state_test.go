package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRentalState(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected RentalState
		wantErr  bool
	}{
		{
			name:     "Available",
			value:    "available",
			expected: StateAvailable,
		},
		{
			name:     "Pending",
			value:    "pending",
			expected: StatePending,
		},
		{
			name:     "Confirmed",
			value:    "confirmed",
			expected: StateConfirmed,
		},
		{
			name:    "Unknown value",
			value:   "rented",
			wantErr: true,
		},
		{
			name:    "Empty value",
			value:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := NewRentalState(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, state)
		})
	}
}

func TestRentalStateOpen(t *testing.T) {
	assert.False(t, StateAvailable.Open())
	assert.True(t, StatePending.Open())
	assert.True(t, StateConfirmed.Open())
}
