package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"quitplan/internal/domain"
)

const consumptionColumns = "id, user_id, occurred_at, trigger, price, nicotine_mg"

// AddConsumptionEvent inserts a new consumption event.
func (d *DB) AddConsumptionEvent(ctx context.Context, e domain.ConsumptionEvent) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO consumption_events("+consumptionColumns+") VALUES($1, $2, $3, $4, $5, $6);",
		e.ID, e.UserID, e.OccurredAt.UTC(), e.Trigger, e.Price, e.NicotineMg,
	)
	return err
}

// DeleteConsumptionEvent removes an event by ID, scoped to a user. It
// reports whether a row was removed.
func (d *DB) DeleteConsumptionEvent(ctx context.Context, userID int64, id uuid.UUID) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM consumption_events WHERE id=$1 AND user_id=$2;", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListRecentConsumptionEvents returns the most recent events up to limit for a user.
func (d *DB) ListRecentConsumptionEvents(ctx context.Context, userID int64, limit int) ([]domain.ConsumptionEvent, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+consumptionColumns+" FROM consumption_events WHERE user_id=$1 ORDER BY occurred_at DESC, id DESC LIMIT $2;",
		userID, limit)
	if err != nil {
		return nil, err
	}
	return scanConsumptionEvents(rows, limit)
}

// ListConsumptionEventsBetween returns a user's events in [from, to), oldest first.
func (d *DB) ListConsumptionEventsBetween(ctx context.Context, userID int64, from, to time.Time) ([]domain.ConsumptionEvent, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+consumptionColumns+" FROM consumption_events WHERE user_id=$1 AND occurred_at >= $2 AND occurred_at < $3 ORDER BY occurred_at ASC;",
		userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	return scanConsumptionEvents(rows, 0)
}

func scanConsumptionEvents(rows *sql.Rows, capHint int) ([]domain.ConsumptionEvent, error) {
	defer rows.Close() //nolint:errcheck

	out := make([]domain.ConsumptionEvent, 0, capHint)
	for rows.Next() {
		var e domain.ConsumptionEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.OccurredAt, &e.Trigger, &e.Price, &e.NicotineMg); err != nil {
			return nil, err
		}
		e.OccurredAt = e.OccurredAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
