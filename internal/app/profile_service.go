package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"quitplan/internal/domain"
	"quitplan/internal/metrics"
	"quitplan/internal/program"
)

// SettingsInput carries profile settings to change. Nil fields are left
// untouched.
type SettingsInput struct {
	DailyBaseline *int
	PricePerUnit  *decimal.Decimal
	TimeZone      *string
}

// ProgramInput describes a program to start. A nil StartDate means today
// in the user's time zone.
type ProgramInput struct {
	StartValue     int
	TargetValue    int
	DurationMonths int
	StartDate      *time.Time
}

// ProfileService manages profile settings and the reduction program.
type ProfileService struct {
	repo    domain.ProfileRepository
	metrics *metrics.Metrics
	now     Clock
}

// NewProfileService creates a ProfileService backed by the given repository.
func NewProfileService(repo domain.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo, now: time.Now}
}

// WithMetrics counts program changes in m.
func (s *ProfileService) WithMetrics(m *metrics.Metrics) *ProfileService {
	s.metrics = m
	return s
}

// WithClock replaces time.Now.
func (s *ProfileService) WithClock(c Clock) *ProfileService {
	s.now = c
	return s
}

// Get returns the user's profile, or an empty one if none is stored.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*domain.Profile, error) {
	return loadProfile(ctx, s.repo, userID)
}

// UpdateSettings validates and applies in.
func (s *ProfileService) UpdateSettings(ctx context.Context, userID int64, in SettingsInput) (*domain.Profile, error) {
	p, err := loadProfile(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	if in.DailyBaseline != nil {
		if *in.DailyBaseline < 0 || *in.DailyBaseline > 200 {
			return nil, invalidInput("dailyBaseline must be within [0, 200]")
		}
		v := *in.DailyBaseline
		p.DailyBaseline = &v
	}
	if in.PricePerUnit != nil {
		if in.PricePerUnit.IsNegative() {
			return nil, invalidInput("pricePerUnit must be >= 0")
		}
		p.PricePerUnit = *in.PricePerUnit
	}
	if in.TimeZone != nil {
		if _, err := time.LoadLocation(*in.TimeZone); err != nil || *in.TimeZone == "" {
			return nil, invalidInput("unknown time zone %q", *in.TimeZone)
		}
		p.TimeZone = *in.TimeZone
	}

	return s.save(ctx, p)
}

// SetProgram starts (or replaces) the user's reduction program.
func (s *ProfileService) SetProgram(ctx context.Context, userID int64, in ProgramInput) (*domain.Profile, error) {
	p, err := loadProfile(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}

	start := s.now().In(p.Location())
	if in.StartDate != nil {
		start = *in.StartDate
	}
	params := program.Parameters{
		StartValue:     in.StartValue,
		TargetValue:    in.TargetValue,
		DurationMonths: in.DurationMonths,
		StartDate:      dateOnly(start),
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	p.SetProgram(params)
	if p.DailyBaseline == nil {
		v := in.StartValue
		p.DailyBaseline = &v
	}
	saved, err := s.save(ctx, p)
	if err != nil {
		return nil, err
	}
	s.metrics.ProgramChanged("started")
	return saved, nil
}

// ClearProgram removes the program, leaving the user in observe-only mode.
func (s *ProfileService) ClearProgram(ctx context.Context, userID int64) (*domain.Profile, error) {
	p, err := loadProfile(ctx, s.repo, userID)
	if err != nil {
		return nil, err
	}
	if _, ok := p.Program(); !ok {
		return p, nil
	}
	p.ClearProgram()
	saved, err := s.save(ctx, p)
	if err != nil {
		return nil, err
	}
	s.metrics.ProgramChanged("cleared")
	return saved, nil
}

func (s *ProfileService) save(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.SaveProfile(ctx, *p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}
