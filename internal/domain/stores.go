package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserStore interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type CardStore interface {
	CreateBatch(ctx context.Context, cards []SelfAspectCard) error
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*SelfAspectCard, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *CardStatus) ([]SelfAspectCard, error)
	// UpsertStatus writes the card's status and updated_at keyed by ID.
	UpsertStatus(ctx context.Context, c *SelfAspectCard) error
}

// OnboardingCompletion is everything a finished onboarding writes.
type OnboardingCompletion struct {
	Record   *OnboardingRecord
	Contexts []StoredContext
	Cards    []SelfAspectCard
	At       time.Time
}

type OnboardingStore interface {
	Upsert(ctx context.Context, r *OnboardingRecord) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*OnboardingRecord, error)
	// Complete stores the completion atomically and marks the user as
	// onboarded. An unknown user is a not-found error. On error nothing is
	// stored.
	Complete(ctx context.Context, c *OnboardingCompletion) error
}

// CompletionRequest is a two-message (system + user) completion call.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Completer sends a prompt to a language model and returns its raw text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// EventPublisher announces card lifecycle changes to other services.
type EventPublisher interface {
	CardsGenerated(ctx context.Context, userID uuid.UUID, source string, cards []SelfAspectCard) error
	CardStatusChanged(ctx context.Context, card SelfAspectCard, from CardStatus) error
}
