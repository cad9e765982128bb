package domain

import (
	"time"

	"github.com/google/uuid"
)

type CardStatus string

const (
	CardStatusNew       CardStatus = "new"
	CardStatusCollected CardStatus = "collected"
	CardStatusRejected  CardStatus = "rejected"
)

func ValidCardStatus(s string) bool {
	switch CardStatus(s) {
	case CardStatusNew, CardStatusCollected, CardStatusRejected:
		return true
	}
	return false
}

// IsDecided reports whether the user has acted on the card.
func (s CardStatus) IsDecided() bool {
	return s == CardStatusCollected || s == CardStatusRejected
}

// CanTransition reports whether a card may move from one status to another.
// A card leaves "new" through a user decision and never returns to it;
// collected and rejected may swap freely. Same-status moves are allowed so
// that status updates stay idempotent.
func CanTransition(from, to CardStatus) bool {
	if from == to {
		return ValidCardStatus(string(to))
	}
	switch from {
	case CardStatusNew:
		return to.IsDecided()
	case CardStatusCollected, CardStatusRejected:
		return to.IsDecided()
	}
	return false
}

// SelfAspectCard is a model-generated unit of self-description.
type SelfAspectCard struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Traits      []string   `json:"traits"`
	Status      CardStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Transition moves the card to the given status and bumps UpdatedAt.
func (c *SelfAspectCard) Transition(to CardStatus, at time.Time) error {
	if !CanTransition(c.Status, to) {
		return ErrInvalidTransition
	}
	c.Status = to
	c.UpdatedAt = at
	return nil
}
