package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "Valid date",
			input:    "2026-01-27",
			expected: time.Date(2026, 1, 27, 0, 0, 0, 0, time.UTC),
			wantErr:  false,
		},
		{
			name:     "RFC 3339 timestamp",
			input:    "2026-01-27T09:30:00Z",
			expected: time.Date(2026, 1, 27, 9, 30, 0, 0, time.UTC),
		},
		{
			name:     "Datetime-local value",
			input:    "2026-01-27T09:30",
			expected: time.Date(2026, 1, 27, 9, 30, 0, 0, time.UTC),
		},
		{
			name:     "Offset timestamp is normalized to UTC",
			input:    "2025-06-09T23:30:00-02:00",
			expected: time.Date(2025, 6, 10, 1, 30, 0, 0, time.UTC),
		},
		{
			name:    "Invalid format",
			input:   "27-01-2026",
			wantErr: true,
		},
		{
			name:    "Invalid day",
			input:   "2026-01-32",
			wantErr: true,
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.True(t, tt.expected.Equal(got))
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestParseOptionalDate(t *testing.T) {
	got, err := parseOptionalDate("  ")
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseOptionalDate("1980-05-01")
	assert.NoError(t, err)
	if assert.NotNil(t, got) {
		assert.Equal(t, 1980, got.Year())
	}
}
