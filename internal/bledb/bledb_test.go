package bledb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUUID(t *testing.T) {
	// GOAL: Verify UUID normalization handles every accepted input form
	//
	// TEST SCENARIO: Normalize various formats → lowercase, dash-free,
	// SIG base UUIDs reduced to 16-bit short form

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "short form passes through",
			input:    "2a19",
			expected: "2a19",
		},
		{
			name:     "uppercase short form is lowercased",
			input:    "2A19",
			expected: "2a19",
		},
		{
			name:     "0x prefix is stripped",
			input:    "0x2902",
			expected: "2902",
		},
		{
			name:     "SIG base UUID reduced to short form",
			input:    "0000180f-0000-1000-8000-00805f9b34fb",
			expected: "180f",
		},
		{
			name:     "vendor UUID keeps full 128 bits",
			input:    "00010203-0405-0607-0809-0a0b0c0d2b11",
			expected: "000102030405060708090a0b0c0d2b11",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  2a00 ",
			expected: "2a00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeUUID(tt.input))
		})
	}
}

func TestNormalizeUUIDs(t *testing.T) {
	result := NormalizeUUIDs([]string{"2A19", "0000180F-0000-1000-8000-00805F9B34FB"})
	assert.Equal(t, []string{"2a19", "180f"}, result)
}

func TestLookupService(t *testing.T) {
	assert.Equal(t, "Battery Service", LookupService("180f"))
	assert.Equal(t, "Battery Service", LookupService("0000180F-0000-1000-8000-00805F9B34FB"))
	assert.Equal(t, "Govee LED Control", LookupService("00010203-0405-0607-0809-0a0b0c0d1910"))
	assert.Empty(t, LookupService("ffff"))
}

func TestLookupCharacteristic(t *testing.T) {
	assert.Equal(t, "Battery Level", LookupCharacteristic("2a19"))
	assert.Equal(t, "Govee Command", LookupCharacteristic("00010203-0405-0607-0809-0a0b0c0d2b11"))
	assert.Equal(t, "Govee Status", LookupCharacteristic("00010203-0405-0607-0809-0a0b0c0d2b10"))
	assert.Empty(t, LookupCharacteristic("beef"))
}
