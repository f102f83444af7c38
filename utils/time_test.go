package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidClock(t *testing.T) {
	valid := []string{"00:00", "09:30", "9:30", "14:00", "23:59"}
	for _, s := range valid {
		assert.True(t, IsValidClock(s), s)
	}

	invalid := []string{"", "24:00", "12:60", "1400", "14:0", "2pm", "14:00:00"}
	for _, s := range invalid {
		assert.False(t, IsValidClock(s), s)
	}
}

func TestNormalizeClock(t *testing.T) {
	got, err := NormalizeClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", got)

	got, err = NormalizeClock("14:30")
	require.NoError(t, err)
	assert.Equal(t, "14:30", got)

	_, err = NormalizeClock("25:00")
	assert.Error(t, err)
}

func TestComputeEndTime(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		duration int
		want     string
	}{
		{"two hours", "14:00", 120, "16:00"},
		{"partial hour", "09:45", 30, "10:15"},
		{"minimum duration", "23:00", 15, "23:15"},
		{"unpadded start", "9:00", 60, "10:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeEndTime(tt.start, tt.duration)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// An appointment running past midnight wraps within the 24h clock; the
// end time comes out smaller than the start time. This documents the
// current behavior rather than asserting cross-midnight correctness.
func TestComputeEndTimeWrapsPastMidnight(t *testing.T) {
	got, err := ComputeEndTime("23:30", 60)
	require.NoError(t, err)
	assert.Equal(t, "00:30", got)
}

func TestComputeEndTimeRejectsBadStart(t *testing.T) {
	_, err := ComputeEndTime("nope", 60)
	assert.Error(t, err)
}
