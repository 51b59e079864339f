package calendar

import "time"

// WorkingDays counts the Monday-to-Friday days from start to end, both inclusive.
// Public holidays are not excluded. It returns 0 when end is before start or
// either date is unset.
func WorkingDays(start, end Date) int {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return 0
	}

	span := int(end.dayNumber()-start.dayNumber()) + 1
	count := span / 7 * 5

	d := start
	for i := 0; i < span%7; i++ {
		if IsWorkingDay(d) {
			count++
		}
		d = d.AddDays(1)
	}
	return count
}

// IsWorkingDay reports whether d falls on Monday to Friday
func IsWorkingDay(d Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

func (d Date) dayNumber() int64 {
	return d.Time(time.UTC).Unix() / 86400
}
