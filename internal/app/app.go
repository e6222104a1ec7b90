// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quitplan/internal/domain"
)

var (
	// ErrInvalidInput marks request data that failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEventNotFound indicates that the consumption event does not exist.
	ErrEventNotFound = errors.New("consumption event not found")
)

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Clock returns the current time. Services read "now" only through it.
type Clock func() time.Time

const dayLayout = "2006-01-02"

// loadProfile returns the stored profile or an empty one in UTC.
func loadProfile(ctx context.Context, repo domain.ProfileRepository, userID int64) (*domain.Profile, error) {
	p, err := repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p == nil {
		p = &domain.Profile{UserID: userID, TimeZone: "UTC"}
	}
	return p, nil
}

// userNow returns the current time in the user's zone, plus the profile it
// was resolved from.
func userNow(ctx context.Context, repo domain.ProfileRepository, clock Clock, userID int64) (time.Time, *domain.Profile, error) {
	p, err := loadProfile(ctx, repo, userID)
	if err != nil {
		return time.Time{}, nil, err
	}
	return clock().In(p.Location()), p, nil
}

// dateOnly keeps the calendar date of t and drops everything else.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
