package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"quitplan/internal/program"
)

// Profile holds a user's settings and optional reduction program.
type Profile struct {
	UserID        int64           `json:"userId"`
	DailyBaseline *int            `json:"dailyBaseline"`
	PricePerUnit  decimal.Decimal `json:"pricePerUnit"`
	TimeZone      string          `json:"timeZone"`

	ProgramStartValue     *int       `json:"programStartValue"`
	ProgramTargetValue    *int       `json:"programTargetValue"`
	ProgramDurationMonths *int       `json:"programDurationMonths"`
	ProgramStartDate      *time.Time `json:"programStartDate"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Program returns the active program. ok is false unless all four program
// fields are set.
func (p *Profile) Program() (params program.Parameters, ok bool) {
	if p == nil || p.ProgramStartValue == nil || p.ProgramTargetValue == nil ||
		p.ProgramDurationMonths == nil || p.ProgramStartDate == nil {
		return program.Parameters{}, false
	}
	return program.Parameters{
		StartValue:     *p.ProgramStartValue,
		TargetValue:    *p.ProgramTargetValue,
		DurationMonths: *p.ProgramDurationMonths,
		StartDate:      *p.ProgramStartDate,
	}, true
}

// SetProgram stores params in the program fields.
func (p *Profile) SetProgram(params program.Parameters) {
	start, target, months := params.StartValue, params.TargetValue, params.DurationMonths
	date := params.StartDate
	p.ProgramStartValue = &start
	p.ProgramTargetValue = &target
	p.ProgramDurationMonths = &months
	p.ProgramStartDate = &date
}

// ClearProgram switches the profile to observe-only mode.
func (p *Profile) ClearProgram() {
	p.ProgramStartValue = nil
	p.ProgramTargetValue = nil
	p.ProgramDurationMonths = nil
	p.ProgramStartDate = nil
}

// Location resolves the profile's time zone, falling back to UTC.
func (p *Profile) Location() *time.Location {
	if p == nil || p.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ProfileRepository is the port for profile persistence. GetProfile
// returns nil, nil when the user has no stored profile.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	SaveProfile(ctx context.Context, p Profile) error
}
