package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBusinessDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"single weekday", date(2025, time.June, 2), date(2025, time.June, 2), 1},       // Monday
		{"single saturday", date(2025, time.June, 7), date(2025, time.June, 7), 0},
		{"full week mon-sun", date(2025, time.June, 2), date(2025, time.June, 8), 5},
		{"two full weeks", date(2025, time.June, 2), date(2025, time.June, 15), 10},
		{"fri to mon", date(2025, time.June, 6), date(2025, time.June, 9), 2},
		{"start after end", date(2025, time.June, 9), date(2025, time.June, 6), 0},
		{"zero start", time.Time{}, date(2025, time.June, 9), 0},
		{"zero end", date(2025, time.June, 9), time.Time{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BusinessDays(tt.start, tt.end))
		})
	}
}

func TestWeekendDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"full week mon-sun", date(2025, time.June, 2), date(2025, time.June, 8), 2},
		{"weekday only", date(2025, time.June, 2), date(2025, time.June, 6), 0},
		{"saturday only", date(2025, time.June, 7), date(2025, time.June, 7), 1},
		{"start after end", date(2025, time.June, 9), date(2025, time.June, 6), 0},
		{"zero bound", time.Time{}, time.Time{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekendDays(tt.start, tt.end))
		})
	}
}

func TestBusinessPlusWeekendCoversRange(t *testing.T) {
	start := date(2025, time.January, 1)
	end := date(2025, time.March, 31)
	total := int(end.Sub(start).Hours()/24) + 1
	assert.Equal(t, total, BusinessDays(start, end)+WeekendDays(start, end))
}

func TestCalendarDays(t *testing.T) {
	assert.Equal(t, 0, CalendarDays(date(2025, time.June, 2), date(2025, time.June, 2)))
	assert.Equal(t, 7, CalendarDays(date(2025, time.June, 2), date(2025, time.June, 9)))
	assert.Equal(t, -7, CalendarDays(date(2025, time.June, 9), date(2025, time.June, 2)))
	assert.Equal(t, 0, CalendarDays(time.Time{}, date(2025, time.June, 2)))
}
