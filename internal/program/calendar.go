package program

import "time"

const secondsPerDay = 24 * 60 * 60

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfCurrentWeek returns Monday 00:00 of the ISO-8601 week containing
// now, in now's location.
func StartOfCurrentWeek(now time.Time) time.Time {
	day := StartOfDay(now)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// calendarDaysBetween counts calendar days from the date of from (read in
// its own location) to the date of to (read in to's location). Dates carry
// no time of day, so the result is unaffected by DST transitions. Unix
// seconds keep the count exact beyond the range of time.Duration.
func calendarDaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int((b.Unix() - a.Unix()) / secondsPerDay)
}

// countInRange counts timestamps t with from <= t < to.
func countInRange(events []time.Time, from, to time.Time) int {
	n := 0
	for _, t := range events {
		if !t.Before(from) && t.Before(to) {
			n++
		}
	}
	return n
}
