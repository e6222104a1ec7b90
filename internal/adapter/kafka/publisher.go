// Package adaptkafka publishes consumption changes to a Kafka topic.
package adaptkafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"quitplan/internal/domain"
)

// Message types carried in the envelope's type field.
const (
	TypeLogged  = "consumption.logged"
	TypeDeleted = "consumption.deleted"
)

const writeTimeout = 5 * time.Second

// Config selects the brokers and topic.
type Config struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether any broker is configured.
func (c Config) Enabled() bool {
	return len(c.Brokers) > 0
}

// Message is the JSON value written for every change.
type Message struct {
	Type       string           `json:"type"`
	EventID    uuid.UUID        `json:"eventId"`
	UserID     int64            `json:"userId"`
	OccurredAt *time.Time       `json:"occurredAt,omitempty"`
	Trigger    string           `json:"trigger,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	NicotineMg *float64         `json:"nicotineMg,omitempty"`
	SentAt     time.Time        `json:"sentAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements domain.EventPublisher on a kafka.Writer.
type Publisher struct {
	writer messageWriter
	log    *slog.Logger
	now    func() time.Time
}

var _ domain.EventPublisher = (*Publisher)(nil)

// NewPublisher builds a publisher for cfg. Messages are keyed by user so
// one user's changes stay ordered within a partition.
func NewPublisher(cfg Config, log *slog.Logger) (*Publisher, error) {
	if !cfg.Enabled() {
		return nil, errors.New("at least one broker is required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, errors.New("kafka topic must not be empty")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
	}
	return newPublisher(w, log), nil
}

func newPublisher(w messageWriter, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{
		writer: w,
		log:    log.With(slog.String("component", "kafka-publisher")),
		now:    time.Now,
	}
}

// PublishLogged announces a newly recorded event.
func (p *Publisher) PublishLogged(ctx context.Context, e domain.ConsumptionEvent) error {
	occurred := e.OccurredAt.UTC()
	price := e.Price
	mg := e.NicotineMg
	return p.write(ctx, Message{
		Type:       TypeLogged,
		EventID:    e.ID,
		UserID:     e.UserID,
		OccurredAt: &occurred,
		Trigger:    e.Trigger,
		Price:      &price,
		NicotineMg: &mg,
	})
}

// PublishDeleted announces that an event was removed.
func (p *Publisher) PublishDeleted(ctx context.Context, userID int64, id uuid.UUID) error {
	return p.write(ctx, Message{Type: TypeDeleted, EventID: id, UserID: userID})
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) write(ctx context.Context, m Message) error {
	m.SentAt = p.now().UTC()
	value, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(m.UserID, 10)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(m.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", m.Type, err)
	}
	p.log.Debug("published", slog.String("type", m.Type), slog.String("event", m.EventID.String()))
	return nil
}
