package service

import (
	"time"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/google/uuid"
)

var mockDeck = []struct {
	title       string
	description string
	traits      []string
}{
	{
		title:       "Growth Mindset Explorer",
		description: "Consistently seeks opportunities for personal development and learning from experiences.",
		traits:      []string{"Growth-oriented", "Self-reflective"},
	},
	{
		title:       "Empathetic Connector",
		description: "Values deep emotional connections and understanding others' perspectives.",
		traits:      []string{"Empathy", "Social awareness"},
	},
	{
		title:       "Creative Problem Solver",
		description: "Approaches challenges with innovative thinking and adaptability.",
		traits:      []string{"Creativity", "Adaptability"},
	},
}

// MockCards returns a fresh copy of the static three-card deck used for
// mock mode and as the fallback when the model is unreachable.
func MockCards(now time.Time, newID func() uuid.UUID) []domain.SelfAspectCard {
	cards := make([]domain.SelfAspectCard, len(mockDeck))
	for i, m := range mockDeck {
		cards[i] = domain.SelfAspectCard{
			ID:          newID(),
			Title:       m.title,
			Description: m.description,
			Traits:      append([]string(nil), m.traits...),
			Status:      domain.CardStatusNew,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	return cards
}
