package utils

import "time"

// BusinessDays counts the Monday-to-Friday dates in [start, end], both bounds
// inclusive. It returns 0 when either bound is the zero time or when start is
// after end. Only the calendar date of each bound is considered.
func BusinessDays(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	start = truncateToDate(start)
	end = truncateToDate(end)
	if start.After(end) {
		return 0
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}

// WeekendDays counts the Saturday and Sunday dates in [start, end], inclusive.
// Same bounds handling as BusinessDays.
func WeekendDays(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	start = truncateToDate(start)
	end = truncateToDate(end)
	if start.After(end) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1 - BusinessDays(start, end)
}

// CalendarDays returns the number of whole days from start to end (end − start),
// negative when end precedes start.
func CalendarDays(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	return int(truncateToDate(end).Sub(truncateToDate(start)).Hours() / 24)
}

// MinDate returns the earlier of two dates.
func MinDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
