package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected int
	}{
		{
			name:     "same month",
			from:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			to:       time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC),
			expected: 0,
		},
		{
			name:     "adjacent months ignore day of month",
			from:     time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			to:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "two months apart",
			from:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			to:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			expected: 2,
		},
		{
			name:     "across a year boundary",
			from:     time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC),
			to:       time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			expected: 3,
		},
		{
			name:     "negative when to precedes from",
			from:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			to:       time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			expected: -2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MonthsBetween(tt.from, tt.to))
		})
	}
}

func TestEndOfMonth(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "31-day month",
			input:    time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
			expected: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "leap February",
			input:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "non-leap February",
			input:    time.Date(2023, 2, 15, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "December rolls within the year",
			input:    time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EndOfMonth(tt.input))
		})
	}
}

func TestIsLastDayOfMonth(t *testing.T) {
	assert.True(t, IsLastDayOfMonth(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.True(t, IsLastDayOfMonth(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsLastDayOfMonth(time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsLastDayOfMonth(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	c := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, c))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-03-15")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseDate("15-03-2024")
	assert.Error(t, err)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2024-03-05", FormatDate(time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)))
}
