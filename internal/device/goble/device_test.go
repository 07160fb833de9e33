package goble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAdapterID(t *testing.T) {
	// GOAL: Verify hciN adapter identifiers parse to numeric indices
	//
	// TEST SCENARIO: Valid, default, and malformed identifiers → index,
	// platform default, or a descriptive error

	tests := []struct {
		name      string
		input     string
		expected  int
		shouldErr bool
	}{
		{
			name:     "default adapter on empty",
			input:    "",
			expected: -1,
		},
		{
			name:     "hci0",
			input:    "hci0",
			expected: 0,
		},
		{
			name:     "hci1",
			input:    "hci1",
			expected: 1,
		},
		{
			name:     "uppercase accepted",
			input:    "HCI2",
			expected: 2,
		},
		{
			name:     "bare index accepted",
			input:    "3",
			expected: 3,
		},
		{
			name:      "garbage rejected",
			input:     "bluetooth0",
			shouldErr: true,
		},
		{
			name:      "negative index rejected",
			input:     "hci-1",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := parseAdapterID(tt.input)
			if tt.shouldErr {
				assert.Error(t, err, "MUST reject malformed adapter identifier")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}
