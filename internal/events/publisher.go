// Package events announces card lifecycle changes on NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const (
	SubjectCardsGenerated    = "selfaspect.cards.generated"
	SubjectCardStatusChanged = "selfaspect.card.status_changed"
)

// CardsGeneratedEvent is published after a generation produced cards.
type CardsGeneratedEvent struct {
	UserID     uuid.UUID   `json:"user_id"`
	Source     string      `json:"source"`
	CardIDs    []uuid.UUID `json:"card_ids"`
	Titles     []string    `json:"titles"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// CardStatusChangedEvent is published after a card moved between statuses.
type CardStatusChangedEvent struct {
	UserID     uuid.UUID         `json:"user_id"`
	CardID     uuid.UUID         `json:"card_id"`
	From       domain.CardStatus `json:"from"`
	To         domain.CardStatus `json:"to"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// conn is the part of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Publisher publishes card events as JSON. Publish on a NATS connection only
// buffers the message, so calls do not block on the network.
type Publisher struct {
	conn   conn
	now    func() time.Time
	logger *zap.Logger
}

// Connect dials NATS and returns a publisher. The connection retries in the
// background when the server is not reachable yet.
func Connect(url, token string, logger *zap.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("augmented-self"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return newPublisher(nc, logger), nil
}

func newPublisher(c conn, logger *zap.Logger) *Publisher {
	return &Publisher{
		conn:   c,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

func (p *Publisher) CardsGenerated(ctx context.Context, userID uuid.UUID, source string, cards []domain.SelfAspectCard) error {
	ev := CardsGeneratedEvent{
		UserID:     userID,
		Source:     source,
		CardIDs:    make([]uuid.UUID, len(cards)),
		Titles:     make([]string, len(cards)),
		OccurredAt: p.now(),
	}
	for i, c := range cards {
		ev.CardIDs[i] = c.ID
		ev.Titles[i] = c.Title
	}
	return p.publish(ctx, SubjectCardsGenerated, ev)
}

func (p *Publisher) CardStatusChanged(ctx context.Context, card domain.SelfAspectCard, from domain.CardStatus) error {
	return p.publish(ctx, SubjectCardStatusChanged, CardStatusChangedEvent{
		UserID:     card.UserID,
		CardID:     card.ID,
		From:       from,
		To:         card.Status,
		OccurredAt: p.now(),
	})
}

func (p *Publisher) publish(ctx context.Context, subject string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.logger.Debug("event published", zap.String("subject", subject), zap.Int("bytes", len(payload)))
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}

// Noop discards events. It is used when NATS is not configured.
type Noop struct{}

func (Noop) CardsGenerated(context.Context, uuid.UUID, string, []domain.SelfAspectCard) error {
	return nil
}

func (Noop) CardStatusChanged(context.Context, domain.SelfAspectCard, domain.CardStatus) error {
	return nil
}
