package program

import "time"

const daysPerWeek = 7

// DaysInPlanThisWeek walks the seven calendar days starting at startOfWeek
// and skips any day that begins after now. total is the number of days
// considered and inPlan the number of those whose event count stayed at or
// below limit.
func DaysInPlanThisWeek(events []time.Time, limit int, startOfWeek, now time.Time) (inPlan, total int, err error) {
	if limit < 0 {
		return 0, 0, invalidf("limit %d is negative", limit)
	}
	for i := 0; i < daysPerWeek; i++ {
		dayStart := startOfWeek.AddDate(0, 0, i)
		if dayStart.After(now) {
			break
		}
		total++
		if countInRange(events, dayStart, startOfWeek.AddDate(0, 0, i+1)) <= limit {
			inPlan++
		}
	}
	return inPlan, total, nil
}

// WeekComplianceRate returns the share of considered days in the week that
// stayed within limit. It is 0 when no day has started yet.
func WeekComplianceRate(events []time.Time, limit int, startOfWeek, now time.Time) (float64, error) {
	inPlan, total, err := DaysInPlanThisWeek(events, limit, startOfWeek, now)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	return float64(inPlan) / float64(total), nil
}

// AveragePerDay returns the number of events since midnight days days
// before today, divided by days.
func AveragePerDay(events []time.Time, days int, now time.Time) float64 {
	if days <= 0 {
		return 0
	}
	cutoff := StartOfDay(now).AddDate(0, 0, -days)
	n := 0
	for _, t := range events {
		if !t.Before(cutoff) {
			n++
		}
	}
	return float64(n) / float64(days)
}
