package ty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLast(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"15m", 15 * time.Minute, false},
		{"1h", time.Hour, false},
		{"1h30m", 90 * time.Minute, false},
		{" 2d ", 48 * time.Hour, false},
		{"0d", 0, true},
		{"0s", 0, true},
		{"", 0, true},
		{"yesterday", 0, true},
		{"-1h", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLast(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFormatLast(t *testing.T) {
	assert.Equal(t, "15m", FormatLast(15*time.Minute))
	assert.Equal(t, "10m", FormatLast(10*time.Minute))
	assert.Equal(t, "1h", FormatLast(time.Hour))
	assert.Equal(t, "1h30m", FormatLast(90*time.Minute))
	assert.Equal(t, "2d", FormatLast(48*time.Hour))
	assert.Equal(t, "45s", FormatLast(45*time.Second))
}
