package app

import (
	"context"
	"fmt"
	"time"

	"quitplan/internal/domain"
	"quitplan/internal/program"
)

// averageWindowDays is the trailing window used for the projection average.
const averageWindowDays = 7

// TodayProgress is the "allowed today" view.
type TodayProgress struct {
	Day           string          `json:"day"`
	ProgramActive bool            `json:"programActive"`
	Program       *program.Status `json:"program,omitempty"`
	Limit         *int            `json:"limit"`
	Count         int             `json:"count"`
	Remaining     *int            `json:"remaining"`
}

// WeekProgress reports compliance for the current ISO week.
type WeekProgress struct {
	StartOfWeek string  `json:"startOfWeek"`
	Limit       *int    `json:"limit"`
	InPlan      int     `json:"inPlan"`
	Total       int     `json:"total"`
	Rate        float64 `json:"rate"`
}

// ProjectionProgress pairs the trailing average with the completion
// projection. Projection is nil without an active program.
type ProjectionProgress struct {
	AveragePerDay float64             `json:"averagePerDay"`
	WindowDays    int                 `json:"windowDays"`
	Projection    *program.Projection `json:"projection"`
}

// ProgressService derives program figures from the profile and the event log.
type ProgressService struct {
	profiles domain.ProfileRepository
	events   domain.ConsumptionRepository
	now      Clock
}

// NewProgressService creates a ProgressService backed by the given repositories.
func NewProgressService(profiles domain.ProfileRepository, events domain.ConsumptionRepository) *ProgressService {
	return &ProgressService{profiles: profiles, events: events, now: time.Now}
}

// WithClock replaces time.Now.
func (s *ProgressService) WithClock(c Clock) *ProgressService {
	s.now = c
	return s
}

// Today returns the current limit, today's count and what is left.
func (s *ProgressService) Today(ctx context.Context, userID int64) (*TodayProgress, error) {
	now, profile, err := userNow(ctx, s.profiles, s.now, userID)
	if err != nil {
		return nil, err
	}
	dayStart := program.StartOfDay(now)
	events, err := s.events.ListConsumptionEventsBetween(ctx, userID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list today's events: %w", err)
	}

	out := &TodayProgress{Day: now.Format(dayLayout), Count: len(events)}
	if params, ok := profile.Program(); ok {
		st, err := params.Status(now)
		if err != nil {
			return nil, err
		}
		out.ProgramActive = true
		out.Program = &st
		out.Limit = &st.CurrentLimit
	} else if profile.DailyBaseline != nil {
		v := *profile.DailyBaseline
		out.Limit = &v
	}
	if out.Limit != nil {
		left := max(0, *out.Limit-out.Count)
		out.Remaining = &left
	}
	return out, nil
}

// Week returns day-by-day compliance for the current ISO week against
// today's limit.
func (s *ProgressService) Week(ctx context.Context, userID int64) (*WeekProgress, error) {
	now, profile, err := userNow(ctx, s.profiles, s.now, userID)
	if err != nil {
		return nil, err
	}
	weekStart := program.StartOfCurrentWeek(now)
	out := &WeekProgress{StartOfWeek: weekStart.Format(dayLayout)}

	limit, ok, err := currentLimit(profile, now)
	if err != nil || !ok {
		return out, err
	}
	out.Limit = &limit

	events, err := s.events.ListConsumptionEventsBetween(ctx, userID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("list week events: %w", err)
	}
	times := domain.OccurredTimes(events)
	out.InPlan, out.Total, err = program.DaysInPlanThisWeek(times, limit, weekStart, now)
	if err != nil {
		return nil, err
	}
	out.Rate, err = program.WeekComplianceRate(times, limit, weekStart, now)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Projection returns the trailing daily average and, with an active
// program, the projected completion date.
func (s *ProgressService) Projection(ctx context.Context, userID int64) (*ProjectionProgress, error) {
	now, profile, err := userNow(ctx, s.profiles, s.now, userID)
	if err != nil {
		return nil, err
	}
	today := program.StartOfDay(now)
	events, err := s.events.ListConsumptionEventsBetween(ctx, userID, today.AddDate(0, 0, -averageWindowDays), today.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list recent events: %w", err)
	}
	avg := program.AveragePerDay(domain.OccurredTimes(events), averageWindowDays, now)

	out := &ProjectionProgress{AveragePerDay: avg, WindowDays: averageWindowDays}
	params, ok := profile.Program()
	if !ok {
		return out, nil
	}
	proj, err := program.ProjectedCompletionDate(avg, params.TargetValue, params.StartDate, params.StartValue, now)
	if err != nil {
		return nil, err
	}
	out.Projection = &proj
	return out, nil
}

// currentLimit returns the program limit at now, falling back to the
// baseline when no program is active.
func currentLimit(profile *domain.Profile, now time.Time) (int, bool, error) {
	if params, ok := profile.Program(); ok {
		limit, err := params.LimitOn(now)
		if err != nil {
			return 0, false, err
		}
		return limit, true, nil
	}
	if profile.DailyBaseline != nil {
		return *profile.DailyBaseline, true, nil
	}
	return 0, false, nil
}
