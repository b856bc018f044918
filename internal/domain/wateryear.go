package domain

import "time"

// WaterYearStart returns Oct 1 of the calendar year before y.
func WaterYearStart(y int) time.Time {
	return time.Date(y-1, time.October, 1, 0, 0, 0, 0, time.UTC)
}

// WaterYearEnd returns the exclusive end of water year y (Oct 1 of y).
func WaterYearEnd(y int) time.Time {
	return time.Date(y, time.October, 1, 0, 0, 0, 0, time.UTC)
}

// WaterYear labels t with the water year containing it.
func WaterYear(t time.Time) int {
	t = t.UTC()
	if t.Month() >= time.October {
		return t.Year() + 1
	}
	return t.Year()
}
