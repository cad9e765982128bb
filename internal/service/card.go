package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCardNotFound      = errors.New("card not found")
	ErrInvalidCardStatus = errors.New("status must be one of: new, collected, rejected")
	ErrInvalidTransition = domain.ErrInvalidTransition
)

type CardService struct {
	store  domain.CardStore
	events domain.EventPublisher
	now    func() time.Time
	logger *zap.Logger
}

func NewCardService(s domain.CardStore, ev domain.EventPublisher, logger *zap.Logger) *CardService {
	return &CardService{
		store:  s,
		events: ev,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// List returns the user's cards. An empty status lists every card.
func (s *CardService) List(ctx context.Context, userID uuid.UUID, status string) ([]domain.SelfAspectCard, error) {
	var filter *domain.CardStatus
	if status != "" {
		if !domain.ValidCardStatus(status) {
			return nil, ErrInvalidCardStatus
		}
		st := domain.CardStatus(status)
		filter = &st
	}

	cards, err := s.store.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []domain.SelfAspectCard{}
	}
	return cards, nil
}

// UpdateStatus records the user's decision on a card. Repeating the current
// status is a no-op.
func (s *CardService) UpdateStatus(ctx context.Context, userID, cardID uuid.UUID, status string) (*domain.SelfAspectCard, error) {
	if !domain.ValidCardStatus(status) {
		return nil, ErrInvalidCardStatus
	}
	to := domain.CardStatus(status)

	card, err := s.store.GetByID(ctx, cardID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	from := card.Status
	if from == to {
		return card, nil
	}
	if err := card.Transition(to, s.now()); err != nil {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	if err := s.store.UpsertStatus(ctx, card); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	if err := s.events.CardStatusChanged(ctx, *card, from); err != nil {
		s.logger.Warn("failed to publish card status event", zap.String("card_id", card.ID.String()), zap.Error(err))
	}
	return card, nil
}
