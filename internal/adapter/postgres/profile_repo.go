package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"quitplan/internal/domain"
)

// GetProfile returns the stored profile, or nil when the user has none.
func (d *DB) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	var (
		p         domain.Profile
		startDate sql.NullTime
	)
	err := d.sql.QueryRowContext(ctx,
		`SELECT user_id, daily_baseline, price_per_unit, time_zone,
		        program_start_value, program_target_value, program_duration_months, program_start_date,
		        updated_at
		   FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.DailyBaseline, &p.PricePerUnit, &p.TimeZone,
		&p.ProgramStartValue, &p.ProgramTargetValue, &p.ProgramDurationMonths, &startDate,
		&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if startDate.Valid {
		// DATE columns carry no zone; keep the calendar fields only.
		y, m, day := startDate.Time.Date()
		t := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
		p.ProgramStartDate = &t
	}
	return &p, nil
}

// SaveProfile inserts or replaces the user's profile.
func (d *DB) SaveProfile(ctx context.Context, p domain.Profile) error {
	var startDate any
	if p.ProgramStartDate != nil {
		startDate = p.ProgramStartDate.Format(time.DateOnly)
	}
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO profiles (user_id, daily_baseline, price_per_unit, time_zone,
		                       program_start_value, program_target_value, program_duration_months, program_start_date,
		                       updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (user_id) DO UPDATE SET
		   daily_baseline = EXCLUDED.daily_baseline,
		   price_per_unit = EXCLUDED.price_per_unit,
		   time_zone = EXCLUDED.time_zone,
		   program_start_value = EXCLUDED.program_start_value,
		   program_target_value = EXCLUDED.program_target_value,
		   program_duration_months = EXCLUDED.program_duration_months,
		   program_start_date = EXCLUDED.program_start_date,
		   updated_at = EXCLUDED.updated_at`,
		p.UserID, p.DailyBaseline, p.PricePerUnit, p.TimeZone,
		p.ProgramStartValue, p.ProgramTargetValue, p.ProgramDurationMonths, startDate,
		p.UpdatedAt.UTC(),
	)
	return err
}
