package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name     string
		today    time.Time
		last     *time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "simple month add",
			today:    date(2024, time.February, 1),
			last:     ptr(date(2024, time.January, 15)),
			months:   2,
			expected: date(2024, time.March, 15),
		},
		{
			name:     "january 31 plus two months keeps day 31",
			today:    date(2024, time.February, 1),
			last:     ptr(date(2024, time.January, 31)),
			months:   2,
			expected: date(2024, time.March, 31),
		},
		{
			name:     "january 31 plus three months clamps to april 30",
			today:    date(2024, time.February, 1),
			last:     ptr(date(2024, time.January, 31)),
			months:   3,
			expected: date(2024, time.April, 30),
		},
		{
			name:     "december 31 plus two months clamps to february 28",
			today:    date(2024, time.January, 5),
			last:     ptr(date(2023, time.December, 31)),
			months:   2,
			expected: date(2024, time.February, 28),
		},
		{
			name:     "february 28 clamp even in a leap year",
			today:    date(2024, time.January, 5),
			last:     ptr(date(2023, time.December, 29)),
			months:   2,
			expected: date(2024, time.February, 28),
		},
		{
			name:     "year rollover",
			today:    date(2024, time.November, 20),
			last:     ptr(date(2024, time.November, 15)),
			months:   3,
			expected: date(2025, time.February, 15),
		},
		{
			name:     "interval of twelve months",
			today:    date(2024, time.June, 1),
			last:     ptr(date(2024, time.May, 10)),
			months:   12,
			expected: date(2025, time.May, 10),
		},
		{
			name:     "no history counts from today",
			today:    date(2024, time.March, 10),
			last:     nil,
			months:   2,
			expected: date(2024, time.May, 10),
		},
		{
			name:     "stale last service stays in the past",
			today:    date(2024, time.June, 1),
			last:     ptr(date(2024, time.January, 10)),
			months:   2,
			expected: date(2024, time.March, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDueDate(tt.today, tt.last, tt.months)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNextDueDistance(t *testing.T) {
	tests := []struct {
		name      string
		currentKM int
		lastKM    *int
		interval  int
		expected  int
	}{
		{name: "from last service", currentKM: 5000, lastKM: ptr(4200), interval: 2000, expected: 6200},
		{name: "no history counts from current reading", currentKM: 1000, lastKM: nil, interval: 2000, expected: 3000},
		{name: "last service beyond current reading", currentKM: 5000, lastKM: ptr(5500), interval: 2000, expected: 7500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextDueDistance(tt.currentKM, tt.lastKM, tt.interval))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		daysLeft int
		kmLeft   int
		expected Status
	}{
		{name: "plenty of both", daysLeft: 60, kmLeft: 1500, expected: StatusOK},
		{name: "date due soon", daysLeft: 14, kmLeft: 1500, expected: StatusDueSoon},
		{name: "distance due soon", daysLeft: 60, kmLeft: 500, expected: StatusDueSoon},
		{name: "date overdue wins over healthy distance", daysLeft: 0, kmLeft: 1500, expected: StatusOverdue},
		{name: "distance overdue wins over healthy date", daysLeft: 60, kmLeft: -10, expected: StatusOverdue},
		{name: "both overdue", daysLeft: -5, kmLeft: 0, expected: StatusOverdue},
		{name: "boundary one over due soon", daysLeft: 15, kmLeft: 501, expected: StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.daysLeft, tt.kmLeft, 14, 500))
		})
	}
}

func TestNeedsAttention(t *testing.T) {
	assert.False(t, NeedsAttention(nil))
	assert.False(t, NeedsAttention([]Status{StatusOK, StatusOK}))
	assert.True(t, NeedsAttention([]Status{StatusOK, StatusDueSoon}))
	assert.True(t, NeedsAttention([]Status{StatusOverdue}))
}

func TestDaysUntil(t *testing.T) {
	assert.Equal(t, 10, DaysUntil(date(2024, time.March, 1), date(2024, time.March, 11)))
	assert.Equal(t, 0, DaysUntil(date(2024, time.March, 1), date(2024, time.March, 1)))
	assert.Equal(t, -3, DaysUntil(date(2024, time.March, 4), date(2024, time.March, 1)))
}

func ptr[T any](v T) *T {
	return &v
}
