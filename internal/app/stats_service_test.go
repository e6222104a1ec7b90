package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quitplan/internal/adapter/memory"
	"quitplan/internal/app"
	"quitplan/internal/domain"
)

func TestStatsDaily(t *testing.T) {
	db := memory.New()
	baseline := 12
	seedProgram(t, db, 1, utcDay(4, 7, 0), &baseline)
	seedEvents(t, db, 1, utcDay(4, 6, 9), 13, domain.TriggerCoffee)
	seedEvents(t, db, 1, utcDay(4, 8, 9), 2, domain.TriggerCoffee)
	seedEvents(t, db, 1, utcDay(4, 1, 9), 5, domain.TriggerCoffee)

	svc := app.NewStatsService(db, db).WithClock(fixedClock(clockNow))
	points, err := svc.Daily(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	want := []struct {
		day    string
		count  int
		limit  int
		inPlan bool
		spend  string
	}{
		{"2026-04-06", 13, 12, false, "6.5"},
		{"2026-04-07", 0, 18, true, "0"},
		{"2026-04-08", 2, 18, true, "1"},
	}
	for i, w := range want {
		p := points[i]
		if p.Day != w.day || p.Count != w.count {
			t.Errorf("point %d: got day=%s count=%d; want %s %d", i, p.Day, p.Count, w.day, w.count)
		}
		if p.Limit == nil || *p.Limit != w.limit {
			t.Errorf("point %d: limit = %v; want %d", i, p.Limit, w.limit)
		}
		if p.InPlan == nil || *p.InPlan != w.inPlan {
			t.Errorf("point %d: inPlan = %v; want %v", i, p.InPlan, w.inPlan)
		}
		if !p.Spend.Equal(decimal.RequireFromString(w.spend)) {
			t.Errorf("point %d: spend = %s; want %s", i, p.Spend, w.spend)
		}
	}
}

func TestStatsDaily_UserTimeZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	db := memory.New()
	_ = db.SaveProfile(context.Background(), domain.Profile{UserID: 1, TimeZone: ny.String()})
	// 02:00 UTC on the 8th is still the evening of the 7th in New York.
	_ = db.AddConsumptionEvent(context.Background(), domain.ConsumptionEvent{
		ID: uuid.New(), UserID: 1, OccurredAt: utcDay(4, 8, 2), Trigger: domain.TriggerOther,
	})

	svc := app.NewStatsService(db, db).WithClock(fixedClock(clockNow))
	points, err := svc.Daily(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if points[0].Day != "2026-04-07" || points[0].Count != 1 || points[1].Count != 0 {
		t.Errorf("unexpected bucketing: %+v", points)
	}
	if points[0].Limit != nil {
		t.Errorf("expected no limit without program or baseline")
	}
}

func TestStatsDaily_Validation(t *testing.T) {
	svc := app.NewStatsService(&mockProfileRepo{}, &mockConsumptionRepo{})
	if _, err := svc.Daily(context.Background(), 1, 0); !errors.Is(err, app.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStatsDaily_ClampsDays(t *testing.T) {
	svc := app.NewStatsService(&mockProfileRepo{}, &mockConsumptionRepo{}).WithClock(fixedClock(clockNow))
	points, err := svc.Daily(context.Background(), 1, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 366 {
		t.Fatalf("expected 366 points, got %d", len(points))
	}
}

func TestStatsTriggers(t *testing.T) {
	db := memory.New()
	seedEvents(t, db, 1, utcDay(4, 8, 6), 3, domain.TriggerCoffee)
	seedEvents(t, db, 1, utcDay(4, 7, 6), 1, domain.TriggerStress)
	seedEvents(t, db, 1, utcDay(3, 1, 6), 9, domain.TriggerAlcohol)

	svc := app.NewStatsService(db, db).WithClock(fixedClock(clockNow))
	stats, err := svc.Triggers(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 triggers, got %+v", stats)
	}
	if stats[0].Trigger != domain.TriggerCoffee || stats[0].Count != 3 || stats[0].Share != 0.75 {
		t.Errorf("unexpected top trigger: %+v", stats[0])
	}
}
