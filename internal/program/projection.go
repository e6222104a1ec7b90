package program

import (
	"math"
	"time"
)

// MaxProjectionDays bounds how far ahead a completion date is projected.
// Slower trends report ProjectionNone.
const MaxProjectionDays = 3650

// ProjectionStatus classifies a projection result.
type ProjectionStatus string

// Projection statuses.
const (
	ProjectionGoalMet   ProjectionStatus = "goal-met"
	ProjectionProjected ProjectionStatus = "projected"
	ProjectionNone      ProjectionStatus = "no-projection"
)

// Projection is the outcome of ProjectedCompletionDate. Date is zero when
// Status is ProjectionNone.
type Projection struct {
	Status ProjectionStatus `json:"status"`
	Date   time.Time        `json:"date,omitzero"`
}

// HasDate reports whether the projection carries a date.
func (p Projection) HasDate() bool {
	return p.Status != ProjectionNone
}

// ProjectedCompletionDate extrapolates the reduction observed since
// startDate to the day currentAverage would reach targetValue.
func ProjectedCompletionDate(currentAverage float64, targetValue int, startDate time.Time, startValue int, now time.Time) (Projection, error) {
	if err := validateValues(startValue, targetValue); err != nil {
		return Projection{}, err
	}
	if math.IsNaN(currentAverage) || math.IsInf(currentAverage, 0) || currentAverage < 0 {
		return Projection{}, invalidf("average %v is not a non-negative number", currentAverage)
	}

	if currentAverage <= float64(targetValue) {
		return Projection{Status: ProjectionGoalMet, Date: now}, nil
	}

	daysElapsed := max(1, calendarDaysBetween(startDate, now))
	dailyReduction := (float64(startValue) - currentAverage) / float64(daysElapsed)
	if dailyReduction <= 0 {
		return Projection{Status: ProjectionNone}, nil
	}

	daysNeeded := math.Floor((currentAverage - float64(targetValue)) / dailyReduction)
	if daysNeeded > MaxProjectionDays {
		return Projection{Status: ProjectionNone}, nil
	}
	return Projection{Status: ProjectionProjected, Date: now.AddDate(0, 0, int(daysNeeded))}, nil
}
