package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddOneMonthPreservingDay(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "leap year end of january",
			input:    date(2024, time.January, 31),
			expected: date(2024, time.February, 29),
		},
		{
			name:     "common year end of january",
			input:    date(2023, time.January, 31),
			expected: date(2023, time.February, 28),
		},
		{
			name:     "mid month",
			input:    date(2024, time.March, 15),
			expected: date(2024, time.April, 15),
		},
		{
			name:     "thirty first into thirty day month",
			input:    date(2024, time.March, 31),
			expected: date(2024, time.April, 30),
		},
		{
			name:     "december rolls the year",
			input:    date(2024, time.December, 31),
			expected: date(2025, time.January, 31),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddOneMonthPreservingDay(tt.input))
		})
	}
}

func TestAddMonthsPreservingDay_KeepsClockAndLocation(t *testing.T) {
	loc := time.FixedZone("PET", -5*60*60)
	input := time.Date(2024, time.January, 31, 13, 45, 0, 0, loc)

	result := AddMonthsPreservingDay(input, 1)

	assert.Equal(t, time.Date(2024, time.February, 29, 13, 45, 0, 0, loc), result)
	assert.Equal(t, loc, result.Location())
}

func TestAddMonthsPreservingDay_MultipleAndNegative(t *testing.T) {
	assert.Equal(t, date(2025, time.February, 28), AddMonthsPreservingDay(date(2024, time.August, 31), 6))
	assert.Equal(t, date(2023, time.November, 30), AddMonthsPreservingDay(date(2024, time.January, 30), -2))
	assert.Equal(t, date(2026, time.March, 10), AddMonthsPreservingDay(date(2024, time.March, 10), 24))
}

func TestWholeMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected int
	}{
		{name: "same day", from: date(2024, 1, 10), to: date(2024, 1, 10), expected: 0},
		{name: "day before anniversary", from: date(2024, 1, 10), to: date(2024, 2, 9), expected: 0},
		{name: "on anniversary", from: date(2024, 1, 10), to: date(2024, 2, 10), expected: 1},
		{name: "clamped anniversary", from: date(2024, 1, 31), to: date(2024, 2, 29), expected: 1},
		{name: "several months", from: date(2024, 1, 15), to: date(2024, 6, 20), expected: 5},
		{name: "reversed", from: date(2024, 6, 1), to: date(2024, 1, 1), expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WholeMonthsBetween(tt.from, tt.to))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	today := time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(today, date(2024, 3, 10)))
	assert.Equal(t, 5, DaysBetween(today, date(2024, 3, 15)))
	assert.Equal(t, -10, DaysBetween(today, date(2024, 2, 29)))
}

func TestPaymentCode(t *testing.T) {
	assert.Equal(t, "PGJD-0001", PaymentCode("Jane", "Doe", 1))
	assert.Equal(t, "PGJD-0002", PaymentCode("jane", "doe", 2))
	assert.Equal(t, "PGAX-0123", PaymentCode("  Ana", "", 123))
	assert.Equal(t, "PGMN-12345", PaymentCode("Maria", "Núñez", 12345))
}
