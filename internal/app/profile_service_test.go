package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"quitplan/internal/adapter/memory"
	"quitplan/internal/app"
	"quitplan/internal/program"
)

func TestProfileGet_Empty(t *testing.T) {
	svc := app.NewProfileService(&mockProfileRepo{})
	p, err := svc.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.UserID != 3 || p.TimeZone != "UTC" {
		t.Errorf("unexpected empty profile: %+v", p)
	}
	if _, ok := p.Program(); ok {
		t.Error("expected no program on empty profile")
	}
}

func TestUpdateSettings(t *testing.T) {
	db := memory.New()
	svc := app.NewProfileService(db).WithClock(fixedClock(clockNow))
	ctx := context.Background()

	baseline := 18
	price := decimal.RequireFromString("0.55")
	zone := "UTC"
	p, err := svc.UpdateSettings(ctx, 1, app.SettingsInput{DailyBaseline: &baseline, PricePerUnit: &price, TimeZone: &zone})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *p.DailyBaseline != 18 || !p.PricePerUnit.Equal(price) {
		t.Errorf("settings not applied: %+v", p)
	}

	stored, _ := db.GetProfile(ctx, 1)
	if stored == nil || !stored.UpdatedAt.Equal(clockNow) {
		t.Fatalf("expected stored profile updated at %v, got %+v", clockNow, stored)
	}
}

func TestUpdateSettings_Validation(t *testing.T) {
	svc := app.NewProfileService(memory.New())
	negative := -1
	badPrice := decimal.NewFromInt(-2)
	badZone := "Mars/Olympus"

	tests := []struct {
		name string
		in   app.SettingsInput
	}{
		{"negative baseline", app.SettingsInput{DailyBaseline: &negative}},
		{"negative price", app.SettingsInput{PricePerUnit: &badPrice}},
		{"unknown zone", app.SettingsInput{TimeZone: &badZone}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.UpdateSettings(context.Background(), 1, tc.in); !errors.Is(err, app.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSetProgram(t *testing.T) {
	db := memory.New()
	svc := app.NewProfileService(db).WithClock(fixedClock(clockNow))
	ctx := context.Background()

	p, err := svc.SetProgram(ctx, 1, app.ProgramInput{StartValue: 20, TargetValue: 5, DurationMonths: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	params, ok := p.Program()
	if !ok {
		t.Fatal("expected active program")
	}
	wantStart := time.Date(2026, 4, 8, 0, 0, 0, 0, time.UTC)
	if !params.StartDate.Equal(wantStart) {
		t.Errorf("start date = %v; want %v", params.StartDate, wantStart)
	}
	if p.DailyBaseline == nil || *p.DailyBaseline != 20 {
		t.Errorf("expected baseline to default to start value, got %v", p.DailyBaseline)
	}

	cleared, err := svc.ClearProgram(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := cleared.Program(); ok {
		t.Error("expected program cleared")
	}
	if cleared.DailyBaseline == nil {
		t.Error("expected baseline kept in observe-only mode")
	}
}

func TestSetProgram_Invalid(t *testing.T) {
	svc := app.NewProfileService(memory.New()).WithClock(fixedClock(clockNow))
	tests := []struct {
		name string
		in   app.ProgramInput
	}{
		{"target above start", app.ProgramInput{StartValue: 5, TargetValue: 10, DurationMonths: 2}},
		{"zero duration", app.ProgramInput{StartValue: 20, TargetValue: 5}},
		{"negative target", app.ProgramInput{StartValue: 20, TargetValue: -1, DurationMonths: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SetProgram(context.Background(), 1, tc.in)
			if !errors.Is(err, program.ErrInvalidProgramParameters) {
				t.Fatalf("expected ErrInvalidProgramParameters, got %v", err)
			}
		})
	}
}
