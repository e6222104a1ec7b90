package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"quitplan/internal/domain"
	"quitplan/internal/program"
)

const maxStatsDays = 366

// DailyStat is one day of the history chart.
type DailyStat struct {
	Day        string          `json:"day"`
	Count      int             `json:"count"`
	Spend      decimal.Decimal `json:"spend"`
	NicotineMg float64         `json:"nicotineMg"`
	Limit      *int            `json:"limit"`
	InPlan     *bool           `json:"inPlan"`
}

// TriggerStat is the share of events carrying one trigger tag.
type TriggerStat struct {
	Trigger string  `json:"trigger"`
	Count   int     `json:"count"`
	Share   float64 `json:"share"`
}

// StatsService aggregates the event log into chart series.
type StatsService struct {
	profiles domain.ProfileRepository
	events   domain.ConsumptionRepository
	now      Clock
}

// NewStatsService creates a StatsService backed by the given repositories.
func NewStatsService(profiles domain.ProfileRepository, events domain.ConsumptionRepository) *StatsService {
	return &StatsService{profiles: profiles, events: events, now: time.Now}
}

// WithClock replaces time.Now.
func (s *StatsService) WithClock(c Clock) *StatsService {
	s.now = c
	return s
}

// Daily returns one point per local day for the last days days, oldest
// first, with the limit that applied on each day.
func (s *StatsService) Daily(ctx context.Context, userID int64, days int) ([]DailyStat, error) {
	if days < 1 {
		return nil, invalidInput("days must be >= 1")
	}
	days = min(days, maxStatsDays)

	now, profile, err := userNow(ctx, s.profiles, s.now, userID)
	if err != nil {
		return nil, err
	}
	loc := now.Location()
	today := program.StartOfDay(now)
	first := today.AddDate(0, 0, -(days - 1))

	events, err := s.events.ListConsumptionEventsBetween(ctx, userID, first, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	points := make([]DailyStat, days)
	index := make(map[string]int, days)
	for i := range points {
		d := first.AddDate(0, 0, i)
		points[i] = DailyStat{Day: d.Format(dayLayout), Spend: decimal.Zero}
		index[points[i].Day] = i
	}
	for _, e := range events {
		i, ok := index[e.OccurredAt.In(loc).Format(dayLayout)]
		if !ok {
			continue
		}
		points[i].Count++
		points[i].Spend = points[i].Spend.Add(e.Price)
		points[i].NicotineMg += e.NicotineMg
	}

	for i := range points {
		limit, ok, err := limitOnDay(profile, first.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		inPlan := points[i].Count <= limit
		points[i].Limit = &limit
		points[i].InPlan = &inPlan
	}
	return points, nil
}

// Triggers returns event counts per trigger tag over the last days days,
// most frequent first.
func (s *StatsService) Triggers(ctx context.Context, userID int64, days int) ([]TriggerStat, error) {
	if days < 1 {
		return nil, invalidInput("days must be >= 1")
	}
	days = min(days, maxStatsDays)

	now, _, err := userNow(ctx, s.profiles, s.now, userID)
	if err != nil {
		return nil, err
	}
	today := program.StartOfDay(now)
	events, err := s.events.ListConsumptionEventsBetween(ctx, userID, today.AddDate(0, 0, -(days-1)), today.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	counts := make(map[string]int)
	for _, e := range events {
		counts[e.Trigger]++
	}
	out := make([]TriggerStat, 0, len(counts))
	for tag, n := range counts {
		out = append(out, TriggerStat{Trigger: tag, Count: n, Share: float64(n) / float64(len(events))})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Trigger < out[j].Trigger
	})
	return out, nil
}

// limitOnDay returns the program limit for day, or the baseline for days
// before the program started or when there is no program.
func limitOnDay(profile *domain.Profile, day time.Time) (int, bool, error) {
	if params, ok := profile.Program(); ok && day.Format(dayLayout) >= params.StartDate.Format(dayLayout) {
		limit, err := params.LimitOn(day)
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
