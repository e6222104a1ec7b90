// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"quitplan/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	events   []domain.ConsumptionEvent
	profiles map[int64]domain.Profile
	users    []*domain.User
	sessions map[string]*domain.Session

	userIDCounter int64
	now           func() time.Time
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		profiles: make(map[int64]domain.Profile),
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
}

// Ensure interfaces are met.
var _ domain.ConsumptionRepository = (*DB)(nil)
var _ domain.ProfileRepository = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- ConsumptionRepository ---

// AddConsumptionEvent stores e.
func (db *DB) AddConsumptionEvent(ctx context.Context, e domain.ConsumptionEvent) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.events {
		if existing.ID == e.ID {
			return errors.New("event already exists")
		}
	}
	e.OccurredAt = e.OccurredAt.UTC()
	db.events = append(db.events, e)
	return nil
}

// DeleteConsumptionEvent removes an event by ID, scoped to a user.
func (db *DB) DeleteConsumptionEvent(ctx context.Context, userID int64, id uuid.UUID) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, e := range db.events {
		if e.ID == id && e.UserID == userID {
			db.events = append(db.events[:i], db.events[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ListRecentConsumptionEvents lists a user's most recent events, newest first.
func (db *DB) ListRecentConsumptionEvents(ctx context.Context, userID int64, limit int) ([]domain.ConsumptionEvent, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := db.userEvents(userID)
	sort.Slice(result, func(i, j int) bool {
		return result[i].OccurredAt.After(result[j].OccurredAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListConsumptionEventsBetween lists a user's events in [from, to), oldest first.
func (db *DB) ListConsumptionEventsBetween(ctx context.Context, userID int64, from, to time.Time) ([]domain.ConsumptionEvent, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var result []domain.ConsumptionEvent
	for _, e := range db.events {
		// Compare in UTC as that's how events are stored.
		if e.UserID == userID && !e.OccurredAt.Before(from.UTC()) && e.OccurredAt.Before(to.UTC()) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OccurredAt.Before(result[j].OccurredAt)
	})
	return result, nil
}

func (db *DB) userEvents(userID int64) []domain.ConsumptionEvent {
	out := make([]domain.ConsumptionEvent, 0, len(db.events))
	for _, e := range db.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// --- ProfileRepository ---

// GetProfile returns a copy of the user's profile, or nil if none is stored.
func (db *DB) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	p, ok := db.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// SaveProfile inserts or replaces the user's profile.
func (db *DB) SaveProfile(ctx context.Context, p domain.Profile) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.profiles[p.UserID] = p
	return nil
}

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    db.now().UTC(),
	}
	db.users = append(db.users, u)
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt,
		CreatedAt: r.db.now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token. Expired sessions are dropped.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		if r.db.now().After(s.ExpiresAt) {
			delete(r.db.sessions, token)
			return nil, nil
		}
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := r.db.now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
