package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQRLabelPayload(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		serial   string
		expected string
	}{
		{
			name:     "Basic Case",
			baseURL:  "https://rent.example.com",
			serial:   "SN-001",
			expected: "https://rent.example.com/laptop/SN-001",
		},
		{
			name:     "Trailing slash trimmed",
			baseURL:  "https://rent.example.com/",
			serial:   "SN-002",
			expected: "https://rent.example.com/laptop/SN-002",
		},
		{
			name:     "Default base URL",
			baseURL:  "",
			serial:   "SN-003",
			expected: DefaultQRBaseURL + "/laptop/SN-003",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label := NewQRLabel(tt.baseURL, tt.serial)
			assert.Equal(t, tt.expected, label.Payload())
		})
	}
}
