package program

import (
	"math"
	"time"
)

// weeksPerMonth models a month as exactly four planning weeks.
const weeksPerMonth = 4

// TotalWeeks returns the number of program weeks for durationMonths, never
// less than one.
func TotalWeeks(durationMonths int) int {
	return max(1, durationMonths*weeksPerMonth)
}

// CurrentWeekNumber returns the 1-based program week containing now. Dates
// before startDate fall in week 1. The result is not clamped to the
// program length.
func CurrentWeekNumber(startDate, now time.Time) int {
	days := calendarDaysBetween(startDate, now)
	if days < 0 {
		return 1
	}
	return max(1, days/7+1)
}

// LimitForWeek linearly interpolates the allowed daily quantity from
// startValue at week 0 to targetValue at week totalWeeks. Weeks past the
// end clamp to targetValue and negative weeks clamp to startValue. Halves
// round away from zero.
func LimitForWeek(week, startValue, targetValue, totalWeeks int) (int, error) {
	if err := validateValues(startValue, targetValue); err != nil {
		return 0, err
	}
	if totalWeeks < 1 {
		return 0, invalidf("total weeks %d, want >= 1", totalWeeks)
	}

	w := min(max(week, 0), totalWeeks)
	reduction := float64(startValue-targetValue) * float64(w) / float64(totalWeeks)
	limit := int(math.Round(float64(startValue) - reduction))
	return max(targetValue, limit), nil
}

// CurrentDailyLimit returns the quantity allowed on the day containing now.
func CurrentDailyLimit(startValue, targetValue, durationMonths int, startDate, now time.Time) (int, error) {
	p := Parameters{
		StartValue:     startValue,
		TargetValue:    targetValue,
		DurationMonths: durationMonths,
		StartDate:      startDate,
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return LimitForWeek(CurrentWeekNumber(startDate, now), startValue, targetValue, TotalWeeks(durationMonths))
}
