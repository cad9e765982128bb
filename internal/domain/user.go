package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                    uuid.UUID  `json:"id"`
	Email                 string     `json:"email"`
	PassHash              []byte     `json:"-"`
	OnboardingCompleted   bool       `json:"onboarding_completed"`
	OnboardingCompletedAt *time.Time `json:"onboarding_completed_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// OnboardingRecord is the stored questionnaire for a user.
type OnboardingRecord struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Social    SocialIdentity   `json:"social_data"`
	Personal  PersonalIdentity `json:"personal_data"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Snapshot converts the stored record into prompt input. Stored records do
// not carry the onboarding context; journal prompts supply their own.
func (r OnboardingRecord) Snapshot() PersonSnapshot {
	return PersonSnapshot{
		Social:           r.Social,
		PersonalityItems: r.Personal.PersonalityItems,
		ValueItems:       r.Personal.ValueItems,
	}
}

// StoredContext is a persisted PersonalContext.
type StoredContext struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Type      ContextType `json:"type"`
	Content   string      `json:"content"`
	FileURL   string      `json:"file_url,omitempty"`
	Source    string      `json:"source"`
	CreatedAt time.Time   `json:"created_at"`
}

const ContextSourceOnboarding = "onboarding"
