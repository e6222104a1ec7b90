package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trigger tags describe what prompted a consumption event.
const (
	TriggerStress    = "stress"
	TriggerCoffee    = "coffee"
	TriggerAlcohol   = "alcohol"
	TriggerSocial    = "social"
	TriggerBoredom   = "boredom"
	TriggerAfterMeal = "after_meal"
	TriggerCraving   = "craving"
	TriggerOther     = "other"
)

var triggers = map[string]bool{
	TriggerStress:    true,
	TriggerCoffee:    true,
	TriggerAlcohol:   true,
	TriggerSocial:    true,
	TriggerBoredom:   true,
	TriggerAfterMeal: true,
	TriggerCraving:   true,
	TriggerOther:     true,
}

// ValidTrigger reports whether tag is a known trigger.
func ValidTrigger(tag string) bool {
	return triggers[tag]
}

// ConsumptionEvent is one logged consumption occurrence.
type ConsumptionEvent struct {
	ID         uuid.UUID       `json:"id"`
	UserID     int64           `json:"userId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Trigger    string          `json:"trigger"`
	Price      decimal.Decimal `json:"price"`
	NicotineMg float64         `json:"nicotineMg"`
}

// OccurredTimes extracts the timestamps the program calculator works on.
func OccurredTimes(events []ConsumptionEvent) []time.Time {
	out := make([]time.Time, len(events))
	for i, e := range events {
		out[i] = e.OccurredAt
	}
	return out
}

// ConsumptionRepository is the port for consumption event persistence.
type ConsumptionRepository interface {
	AddConsumptionEvent(ctx context.Context, e ConsumptionEvent) error
	DeleteConsumptionEvent(ctx context.Context, userID int64, id uuid.UUID) (bool, error)
	ListRecentConsumptionEvents(ctx context.Context, userID int64, limit int) ([]ConsumptionEvent, error)
	// ListConsumptionEventsBetween returns events with from <= OccurredAt < to,
	// oldest first.
	ListConsumptionEventsBetween(ctx context.Context, userID int64, from, to time.Time) ([]ConsumptionEvent, error)
}

// EventPublisher forwards consumption changes to downstream consumers.
type EventPublisher interface {
	PublishLogged(ctx context.Context, e ConsumptionEvent) error
	PublishDeleted(ctx context.Context, userID int64, id uuid.UUID) error
}
