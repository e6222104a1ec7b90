package program_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"quitplan/internal/program"
)

// t0 is a Monday.
var t0 = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

func TestTotalWeeks(t *testing.T) {
	tests := []struct {
		months int
		want   int
	}{
		{-3, 1},
		{0, 1},
		{1, 4},
		{2, 8},
		{12, 48},
	}
	for _, tc := range tests {
		if got := program.TotalWeeks(tc.months); got != tc.want {
			t.Errorf("TotalWeeks(%d) = %d; want %d", tc.months, got, tc.want)
		}
	}
}

func TestCurrentWeekNumber(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before start", t0.Add(-days(3)), 1},
		{"start day", t0, 1},
		{"end of first week", t0.Add(days(6) + 23*time.Hour), 1},
		{"second week", t0.Add(days(7)), 2},
		{"third week", t0.Add(days(14)), 3},
		{"past program end", t0.Add(days(56)), 9},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := program.CurrentWeekNumber(t0, tc.now); got != tc.want {
				t.Errorf("CurrentWeekNumber = %d; want %d", got, tc.want)
			}
		})
	}
}

func TestCurrentWeekNumber_StartDateReadAsCalendarDate(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// The start date is stored as UTC midnight; an evening in LA seven
	// days later is still the eighth calendar day of the program.
	now := time.Date(2026, 3, 9, 20, 0, 0, 0, la)
	if got := program.CurrentWeekNumber(t0, now); got != 2 {
		t.Errorf("CurrentWeekNumber = %d; want 2", got)
	}
}

func TestCurrentWeekNumber_DistantStartDate(t *testing.T) {
	// 2000 years span 730485 days, exactly 104355 weeks.
	start := time.Date(1, time.January, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2001, time.January, 2, 12, 0, 0, 0, time.UTC)
	if got := program.CurrentWeekNumber(start, now); got != 104356 {
		t.Errorf("CurrentWeekNumber = %d; want 104356", got)
	}
	if got := program.CurrentWeekNumber(start, now.AddDate(0, 0, -1)); got != 104355 {
		t.Errorf("CurrentWeekNumber day before = %d; want 104355", got)
	}
}

func TestParametersValidate_MaxDuration(t *testing.T) {
	p := program.Parameters{StartValue: 20, TargetValue: 5, DurationMonths: program.MaxDurationMonths, StartDate: t0}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate at maximum: %v", err)
	}
	if got := p.TotalWeeks(); got != program.MaxDurationMonths*4 {
		t.Errorf("TotalWeeks = %d; want %d", got, program.MaxDurationMonths*4)
	}
	p.DurationMonths++
	if err := p.Validate(); !errors.Is(err, program.ErrInvalidProgramParameters) {
		t.Fatalf("expected ErrInvalidProgramParameters, got %v", err)
	}
}

func TestLimitForWeek_Properties(t *testing.T) {
	for start := 0; start <= 30; start++ {
		for target := 0; target <= start; target++ {
			for _, total := range []int{1, 4, 8, 13} {
				first, err := program.LimitForWeek(0, start, target, total)
				if err != nil {
					t.Fatalf("LimitForWeek(0, %d, %d, %d): %v", start, target, total, err)
				}
				if first != start {
					t.Fatalf("week 0: got %d; want %d", first, start)
				}
				prev := first
				for w := 1; w <= total+2; w++ {
					got, err := program.LimitForWeek(w, start, target, total)
					if err != nil {
						t.Fatalf("LimitForWeek(%d, ...): %v", w, err)
					}
					if got > prev {
						t.Fatalf("start=%d target=%d total=%d: week %d limit %d > previous %d", start, target, total, w, got, prev)
					}
					if got < target || got > start {
						t.Fatalf("limit %d outside [%d, %d]", got, target, start)
					}
					if w >= total && got != target {
						t.Fatalf("week %d of %d: got %d; want target %d", w, total, got, target)
					}
					prev = got
				}
			}
		}
	}
}

func TestLimitForWeek_Rounding(t *testing.T) {
	tests := []struct {
		name                       string
		week, start, target, total int
		want                       int
	}{
		{"14.375 rounds down", 3, 20, 5, 8, 14},
		{"half rounds away from zero", 1, 10, 9, 2, 10},
		{"17.5 rounds up", 1, 20, 10, 4, 18},
		{"negative week clamps to start", -2, 20, 5, 8, 20},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := program.LimitForWeek(tc.week, tc.start, tc.target, tc.total)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %d; want %d", got, tc.want)
			}
		})
	}
}

func TestLimitForWeek_InvalidParameters(t *testing.T) {
	tests := []struct {
		name                       string
		week, start, target, total int
	}{
		{"target above start", 1, 5, 10, 8},
		{"negative start", 1, -1, 0, 8},
		{"negative target", 1, 10, -2, 8},
		{"zero total weeks", 1, 10, 5, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := program.LimitForWeek(tc.week, tc.start, tc.target, tc.total)
			if !errors.Is(err, program.ErrInvalidProgramParameters) {
				t.Fatalf("expected ErrInvalidProgramParameters, got %v", err)
			}
		})
	}
}

func TestCurrentDailyLimit_Scenarios(t *testing.T) {
	got, err := program.CurrentDailyLimit(20, 5, 2, t0, t0.Add(days(14)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 14 {
		t.Errorf("week 3 limit = %d; want 14", got)
	}

	got, err = program.CurrentDailyLimit(20, 5, 2, t0, t0.Add(days(56)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 5 {
		t.Errorf("limit after 8 weeks = %d; want 5", got)
	}
}

func TestCurrentDailyLimit_WithinRange(t *testing.T) {
	for d := 0; d <= 400; d++ {
		now := t0.Add(days(d) + 9*time.Hour)
		got, err := program.CurrentDailyLimit(25, 3, 3, t0, now)
		if err != nil {
			t.Fatalf("day %d: %v", d, err)
		}
		if got < 3 || got > 25 {
			t.Fatalf("day %d: limit %d outside [3, 25]", d, got)
		}
	}
}

func TestCurrentDailyLimit_InvalidParameters(t *testing.T) {
	tests := []struct {
		name                   string
		start, target, months int
		startDate              time.Time
	}{
		{"target above start", 5, 6, 2, t0},
		{"zero duration", 20, 5, 0, t0},
		{"duration above maximum", 20, 5, program.MaxDurationMonths + 1, t0},
		{"duration overflowing weeks", 20, 5, math.MaxInt / 2, t0},
		{"negative start", -1, 0, 2, t0},
		{"missing start date", 20, 5, 2, time.Time{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := program.CurrentDailyLimit(tc.start, tc.target, tc.months, tc.startDate, t0)
			if !errors.Is(err, program.ErrInvalidProgramParameters) {
				t.Fatalf("expected ErrInvalidProgramParameters, got %v", err)
			}
		})
	}
}

func TestParametersStatus(t *testing.T) {
	p := program.Parameters{StartValue: 20, TargetValue: 5, DurationMonths: 2, StartDate: t0}
	st, err := p.Status(t0.Add(days(14)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := program.Status{CurrentLimit: 14, CurrentWeek: 3, TotalWeeks: 8}
	if st != want {
		t.Errorf("Status = %+v; want %+v", st, want)
	}

	again, _ := p.Status(t0.Add(days(14)))
	if again != st {
		t.Errorf("second call returned %+v; want %+v", again, st)
	}
}

func TestStartOfCurrentWeek(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"monday midnight", t0, t0},
		{"wednesday", time.Date(2026, 3, 4, 13, 30, 0, 0, time.UTC), t0},
		{"sunday night", time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC), t0},
		{"next monday", time.Date(2026, 3, 9, 0, 0, 1, 0, time.UTC), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"local zone", time.Date(2026, 3, 8, 22, 0, 0, 0, ny), time.Date(2026, 3, 2, 0, 0, 0, 0, ny)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := program.StartOfCurrentWeek(tc.now); !got.Equal(tc.want) {
				t.Errorf("StartOfCurrentWeek = %v; want %v", got, tc.want)
			}
		})
	}
}

func at(day int, hour int) time.Time {
	return t0.Add(days(day) + time.Duration(hour)*time.Hour)
}

func TestDaysInPlanThisWeek(t *testing.T) {
	// Monday 3, Tuesday 1, Wednesday 5, Thursday 1 (after now).
	events := []time.Time{
		at(0, 8), at(0, 12), at(0, 18),
		at(1, 9),
		at(2, 7), at(2, 8), at(2, 9), at(2, 10), at(2, 11),
		at(3, 0),
	}
	now := at(2, 12)

	inPlan, total, err := program.DaysInPlanThisWeek(events, 3, t0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || inPlan != 2 {
		t.Errorf("got inPlan=%d total=%d; want 2/3", inPlan, total)
	}

	rate, err := program.WeekComplianceRate(events, 3, t0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 2.0/3.0 {
		t.Errorf("rate = %v; want %v", rate, 2.0/3.0)
	}
}

func TestDaysInPlanThisWeek_FullWeek(t *testing.T) {
	now := at(9, 0)
	inPlan, total, err := program.DaysInPlanThisWeek(nil, 0, t0, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 7 || inPlan != 7 {
		t.Errorf("got inPlan=%d total=%d; want 7/7", inPlan, total)
	}
}

func TestWeekComplianceRate_FutureWeek(t *testing.T) {
	events := []time.Time{at(0, 1)}
	rate, err := program.WeekComplianceRate(events, 5, t0.Add(time.Hour), t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 0 {
		t.Errorf("rate = %v; want 0", rate)
	}
	inPlan, total, _ := program.DaysInPlanThisWeek(events, 5, t0.Add(time.Hour), t0)
	if inPlan != 0 || total != 0 {
		t.Errorf("got %d/%d; want 0/0", inPlan, total)
	}
}

func TestWeekComplianceRate_Bounds(t *testing.T) {
	var events []time.Time
	for d := 0; d < 7; d++ {
		for i := 0; i < d*2; i++ {
			events = append(events, at(d, i))
		}
	}
	for limit := 0; limit <= 14; limit++ {
		for d := -1; d <= 8; d++ {
			now := at(d, 6)
			rate, err := program.WeekComplianceRate(events, limit, t0, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rate < 0 || rate > 1 {
				t.Fatalf("limit=%d day=%d: rate %v outside [0,1]", limit, d, rate)
			}
			inPlan, total, _ := program.DaysInPlanThisWeek(events, limit, t0, now)
			if inPlan > total {
				t.Fatalf("limit=%d day=%d: inPlan %d > total %d", limit, d, inPlan, total)
			}
		}
	}
}

func TestWeekComplianceRate_NegativeLimit(t *testing.T) {
	_, err := program.WeekComplianceRate(nil, -1, t0, at(3, 0))
	if !errors.Is(err, program.ErrInvalidProgramParameters) {
		t.Fatalf("expected ErrInvalidProgramParameters, got %v", err)
	}
}

func TestAveragePerDay(t *testing.T) {
	now := at(20, 15)
	var events []time.Time
	for d := 1; d <= 10; d++ {
		events = append(events, now.Add(-days(d)))
	}

	tests := []struct {
		name string
		days int
		want float64
	}{
		{"last week", 7, 1.0},
		{"all ten days", 10, 1.0},
		{"wider window", 20, 0.5},
		{"zero days", 0, 0},
		{"negative days", -4, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := program.AveragePerDay(events, tc.days, now); got != tc.want {
				t.Errorf("AveragePerDay(%d) = %v; want %v", tc.days, got, tc.want)
			}
		})
	}
}

func TestProjectedCompletionDate(t *testing.T) {
	now := t0.Add(days(10) + 8*time.Hour)

	tests := []struct {
		name       string
		average    float64
		target     int
		start      int
		wantStatus program.ProjectionStatus
		wantDate   time.Time
	}{
		{"goal met", 4.5, 5, 20, program.ProjectionGoalMet, now},
		{"goal met exactly", 5, 5, 20, program.ProjectionGoalMet, now},
		{"no improvement", 20, 5, 20, program.ProjectionNone, time.Time{}},
		{"regression", 23, 5, 20, program.ProjectionNone, time.Time{}},
		{"steady decline", 15, 5, 20, program.ProjectionProjected, now.AddDate(0, 0, 20)},
		{"fractional days floor", 16, 5, 20, program.ProjectionProjected, now.AddDate(0, 0, 27)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := program.ProjectedCompletionDate(tc.average, tc.target, t0, tc.start, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tc.wantStatus {
				t.Fatalf("status = %s; want %s", got.Status, tc.wantStatus)
			}
			if !got.Date.Equal(tc.wantDate) {
				t.Errorf("date = %v; want %v", got.Date, tc.wantDate)
			}
		})
	}
}

func TestProjectedCompletionDate_SameDayCountsAsOneDay(t *testing.T) {
	got, err := program.ProjectedCompletionDate(18, 0, t0, 20, t0.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := t0.Add(5*time.Hour).AddDate(0, 0, 9)
	if got.Status != program.ProjectionProjected || !got.Date.Equal(want) {
		t.Errorf("got %+v; want projected %v", got, want)
	}
}

func TestProjectedCompletionDate_BeyondHorizon(t *testing.T) {
	got, err := program.ProjectedCompletionDate(19.999, 0, t0, 20, t0.Add(days(1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != program.ProjectionNone || got.HasDate() {
		t.Errorf("got %+v; want no-projection", got)
	}
}

func TestProjectedCompletionDate_InvalidInput(t *testing.T) {
	if _, err := program.ProjectedCompletionDate(3, 10, t0, 5, t0); !errors.Is(err, program.ErrInvalidProgramParameters) {
		t.Errorf("target above start: expected ErrInvalidProgramParameters, got %v", err)
	}
	if _, err := program.ProjectedCompletionDate(-1, 0, t0, 5, t0); !errors.Is(err, program.ErrInvalidProgramParameters) {
		t.Errorf("negative average: expected ErrInvalidProgramParameters, got %v", err)
	}
}
