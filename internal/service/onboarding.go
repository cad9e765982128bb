package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoCardsProcessed      = errors.New("no cards processed")
	ErrOnboardingNotFound    = errors.New("onboarding data not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrTooManyContexts       = fmt.Errorf("at most %d personal contexts are allowed", domain.MaxPersonalContexts)
	ErrInvalidContextType    = errors.New("context type must be text or file")
	ErrInvalidOnboardingCard = errors.New("card title is required")
	ErrCardsAlreadySaved     = errors.New("cards already saved")
)

// CompleteInput is the final onboarding submission: the questionnaire plus
// the generated cards with the user's decisions.
type CompleteInput struct {
	Data  domain.OnboardingData   `json:"data"`
	Cards []domain.SelfAspectCard `json:"cards"`
}

type CompleteResult struct {
	Record   *domain.OnboardingRecord `json:"onboarding"`
	Cards    []domain.SelfAspectCard  `json:"cards"`
	Contexts []domain.StoredContext   `json:"contexts"`
}

type OnboardingService struct {
	onboarding domain.OnboardingStore
	events     domain.EventPublisher
	now        func() time.Time
	newID      func() uuid.UUID
	logger     *zap.Logger
}

func NewOnboardingService(obs domain.OnboardingStore, ev domain.EventPublisher, logger *zap.Logger) *OnboardingService {
	return &OnboardingService{
		onboarding: obs,
		events:     ev,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      newCardID,
		logger:     logger,
	}
}

// Complete persists the onboarding outcome: personal contexts, the cards
// the user collected or rejected, the questionnaire, and the user's
// completion flag, all or nothing. Cards still marked new are dropped.
func (s *OnboardingService) Complete(ctx context.Context, userID uuid.UUID, in CompleteInput) (*CompleteResult, error) {
	now := s.now()

	cards := make([]domain.SelfAspectCard, 0, len(in.Cards))
	for _, c := range in.Cards {
		if !c.Status.IsDecided() {
			continue
		}
		if strings.TrimSpace(c.Title) == "" {
			return nil, ErrInvalidOnboardingCard
		}
		if c.ID == uuid.Nil {
			c.ID = s.newID()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = now
		}
		c.UserID = userID
		cards = append(cards, c)
	}
	if len(cards) == 0 {
		return nil, ErrNoCardsProcessed
	}

	contexts, err := storedContexts(userID, in.Data.Context)
	if err != nil {
		return nil, err
	}

	rec := &domain.OnboardingRecord{
		UserID:   userID,
		Social:   in.Data.Social,
		Personal: in.Data.Personal,
	}
	err = s.onboarding.Complete(ctx, &domain.OnboardingCompletion{
		Record:   rec,
		Contexts: contexts,
		Cards:    cards,
		At:       now,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, store.ErrConflict):
			return nil, ErrCardsAlreadySaved
		}
		return nil, fmt.Errorf("save onboarding: %w", err)
	}

	if err := s.events.CardsGenerated(ctx, userID, "onboarding", cards); err != nil {
		s.logger.Warn("failed to publish cards generated event", zap.Error(err))
	}

	s.logger.Info("onboarding completed",
		zap.String("user_id", userID.String()),
		zap.Int("cards", len(cards)),
		zap.Int("contexts", len(contexts)),
	)
	return &CompleteResult{Record: rec, Cards: cards, Contexts: contexts}, nil
}

// Get returns the stored questionnaire for the user.
func (s *OnboardingService) Get(ctx context.Context, userID uuid.UUID) (*domain.OnboardingRecord, error) {
	rec, err := s.onboarding.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOnboardingNotFound
		}
		return nil, err
	}
	return rec, nil
}

// storedContexts turns the context step into rows. A legacy diary string
// becomes a single text context.
func storedContexts(userID uuid.UUID, data domain.ContextData) ([]domain.StoredContext, error) {
	src := data.Contexts
	if len(src) == 0 && strings.TrimSpace(data.Diary) != "" {
		src = []domain.PersonalContext{{Type: domain.ContextTypeText, Content: data.Diary}}
	}
	if len(src) > domain.MaxPersonalContexts {
		return nil, ErrTooManyContexts
	}

	out := make([]domain.StoredContext, 0, len(src))
	for _, c := range src {
		typ := c.Type
		if typ == "" {
			typ = domain.ContextTypeText
		}
		if typ != domain.ContextTypeText && typ != domain.ContextTypeFile {
			return nil, ErrInvalidContextType
		}
		content := strings.TrimSpace(c.Content)
		if content == "" && c.FileURL == "" {
			continue
		}
		out = append(out, domain.StoredContext{
			UserID:  userID,
			Type:    typ,
			Content: content,
			FileURL: c.FileURL,
			Source:  domain.ContextSourceOnboarding,
		})
	}
	return out, nil
}
