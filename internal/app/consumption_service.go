package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quitplan/internal/domain"
	"quitplan/internal/metrics"
)

// maxClockSkew is how far in the future an OccurredAt may lie.
const maxClockSkew = 5 * time.Minute

// ConsumptionInput is the data a client supplies when logging an event.
// Nil fields take defaults: now, and the profile's price per unit.
type ConsumptionInput struct {
	OccurredAt *time.Time
	Trigger    string
	Price      *decimal.Decimal
	NicotineMg float64
}

// ConsumptionService encapsulates consumption-logging use cases.
type ConsumptionService struct {
	repo      domain.ConsumptionRepository
	profiles  domain.ProfileRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	log       *slog.Logger
	now       Clock
}

// NewConsumptionService creates a ConsumptionService backed by the given
// repositories.
func NewConsumptionService(repo domain.ConsumptionRepository, profiles domain.ProfileRepository) *ConsumptionService {
	return &ConsumptionService{
		repo:     repo,
		profiles: profiles,
		log:      slog.Default(),
		now:      time.Now,
	}
}

// WithPublisher forwards recorded and deleted events to p.
func (s *ConsumptionService) WithPublisher(p domain.EventPublisher) *ConsumptionService {
	s.publisher = p
	return s
}

// WithMetrics counts events in m.
func (s *ConsumptionService) WithMetrics(m *metrics.Metrics) *ConsumptionService {
	s.metrics = m
	return s
}

// WithLogger replaces the default logger.
func (s *ConsumptionService) WithLogger(l *slog.Logger) *ConsumptionService {
	s.log = l
	return s
}

// WithClock replaces time.Now.
func (s *ConsumptionService) WithClock(c Clock) *ConsumptionService {
	s.now = c
	return s
}

// Record validates and stores a consumption event.
func (s *ConsumptionService) Record(ctx context.Context, userID int64, in ConsumptionInput) (*domain.ConsumptionEvent, error) {
	now := s.now()

	trigger := in.Trigger
	if trigger == "" {
		trigger = domain.TriggerOther
	}
	if !domain.ValidTrigger(trigger) {
		return nil, invalidInput("unknown trigger %q", in.Trigger)
	}
	if in.NicotineMg < 0 || in.NicotineMg > 100 {
		return nil, invalidInput("nicotineMg must be within [0, 100]")
	}
	occurredAt := now
	if in.OccurredAt != nil {
		occurredAt = *in.OccurredAt
		if occurredAt.After(now.Add(maxClockSkew)) {
			return nil, invalidInput("occurredAt lies in the future")
		}
	}

	var price decimal.Decimal
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, invalidInput("price must be >= 0")
		}
		price = *in.Price
	} else {
		p, err := loadProfile(ctx, s.profiles, userID)
		if err != nil {
			return nil, err
		}
		price = p.PricePerUnit
	}

	e := domain.ConsumptionEvent{
		ID:         uuid.New(),
		UserID:     userID,
		OccurredAt: occurredAt.UTC(),
		Trigger:    trigger,
		Price:      price,
		NicotineMg: in.NicotineMg,
	}
	if err := s.repo.AddConsumptionEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("add consumption event: %w", err)
	}
	s.metrics.EventLogged(trigger)

	if s.publisher != nil {
		if err := s.publisher.PublishLogged(ctx, e); err != nil {
			s.metrics.PublishFailed()
			s.log.Warn("publish consumption event", "id", e.ID, "user", userID, "err", err)
		}
	}
	return &e, nil
}

// ListRecent returns the most recent consumption events up to limit.
func (s *ConsumptionService) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.ConsumptionEvent, error) {
	return s.repo.ListRecentConsumptionEvents(ctx, userID, limit)
}

// UndoLast deletes the most recent consumption event.
func (s *ConsumptionService) UndoLast(ctx context.Context, userID int64) (bool, uuid.UUID, error) {
	items, err := s.repo.ListRecentConsumptionEvents(ctx, userID, 1)
	if err != nil {
		return false, uuid.Nil, err
	}
	if len(items) == 0 {
		return false, uuid.Nil, nil
	}
	if err := s.Delete(ctx, userID, items[0].ID); err != nil {
		return false, uuid.Nil, err
	}
	return true, items[0].ID, nil
}

// Delete removes one event owned by userID.
func (s *ConsumptionService) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	deleted, err := s.repo.DeleteConsumptionEvent(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete consumption event: %w", err)
	}
	if !deleted {
		return ErrEventNotFound
	}
	s.metrics.EventDeleted()

	if s.publisher != nil {
		if err := s.publisher.PublishDeleted(ctx, userID, id); err != nil {
			s.metrics.PublishFailed()
			s.log.Warn("publish consumption delete", "id", id, "user", userID, "err", err)
		}
	}
	return nil
}
