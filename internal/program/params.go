// Package program implements the reduction-plan calculator: the allowed
// daily limit for an active program, weekly compliance, and a trend-based
// completion projection. Every function is pure and takes the current time
// as an argument.
package program

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidProgramParameters is returned when program inputs fall outside
// their documented domain. Callers match it with errors.Is.
var ErrInvalidProgramParameters = errors.New("invalid program parameters")

// MaxDurationMonths bounds the program length.
const MaxDurationMonths = 120

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidProgramParameters, fmt.Sprintf(format, args...))
}

// Parameters describes an active reduction program.
type Parameters struct {
	StartValue     int       `json:"startValue"`
	TargetValue    int       `json:"targetValue"`
	DurationMonths int       `json:"durationMonths"`
	StartDate      time.Time `json:"startDate"`
}

// Status is the program summary shown for "today".
type Status struct {
	CurrentLimit int `json:"currentLimit"`
	CurrentWeek  int `json:"currentWeek"`
	TotalWeeks   int `json:"totalWeeks"`
}

// Validate reports whether p is within the calculator's domain.
func (p Parameters) Validate() error {
	if err := validateValues(p.StartValue, p.TargetValue); err != nil {
		return err
	}
	if p.DurationMonths < 1 || p.DurationMonths > MaxDurationMonths {
		return invalidf("duration %d months, want 1..%d", p.DurationMonths, MaxDurationMonths)
	}
	if p.StartDate.IsZero() {
		return invalidf("start date is not set")
	}
	return nil
}

// TotalWeeks returns the program length in weeks.
func (p Parameters) TotalWeeks() int {
	return TotalWeeks(p.DurationMonths)
}

// Status computes the current limit, week and program length at now.
func (p Parameters) Status(now time.Time) (Status, error) {
	limit, err := CurrentDailyLimit(p.StartValue, p.TargetValue, p.DurationMonths, p.StartDate, now)
	if err != nil {
		return Status{}, err
	}
	return Status{
		CurrentLimit: limit,
		CurrentWeek:  CurrentWeekNumber(p.StartDate, now),
		TotalWeeks:   p.TotalWeeks(),
	}, nil
}

// LimitOn returns the allowed quantity for the calendar day containing day.
func (p Parameters) LimitOn(day time.Time) (int, error) {
	return CurrentDailyLimit(p.StartValue, p.TargetValue, p.DurationMonths, p.StartDate, day)
}

func validateValues(startValue, targetValue int) error {
	if startValue < 0 {
		return invalidf("start value %d is negative", startValue)
	}
	if targetValue < 0 {
		return invalidf("target value %d is negative", targetValue)
	}
	if targetValue > startValue {
		return invalidf("target value %d exceeds start value %d", targetValue, startValue)
	}
	return nil
}
