package prompt

import "github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"

type Tier string

const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
)

const (
	// NeutralScore is the midpoint of the 1-7 scale, used when a family has
	// no answered items.
	NeutralScore = 4.0
	// HighThreshold is the inclusive lower bound of the high tier.
	HighThreshold = 5.5
	// ModerateThreshold is the inclusive lower bound of the moderate tier.
	ModerateThreshold = 4.0

	minScore = 1
	maxScore = 7
)

// TierFor buckets an aggregate score.
func TierFor(score float64) Tier {
	switch {
	case score >= HighThreshold:
		return TierHigh
	case score >= ModerateThreshold:
		return TierModerate
	default:
		return TierLow
	}
}

type TraitFamily string

const (
	Extraversion      TraitFamily = "extraversion"
	Conscientiousness TraitFamily = "conscientiousness"
	Neuroticism       TraitFamily = "neuroticism"
	Openness          TraitFamily = "openness"
)

type ValueFamily string

const (
	Autonomy    ValueFamily = "autonomy"
	Benevolence ValueFamily = "benevolence"
	Achievement ValueFamily = "achievement"
	Security    ValueFamily = "security"
	Conformity  ValueFamily = "conformity"
)

// ValueFamilies lists value families in prompt order.
var ValueFamilies = []ValueFamily{Autonomy, Benevolence, Achievement, Security, Conformity}

// TraitScore averages the effective scores of all items whose alphabetic ID
// prefix equals the family name. Items with a score outside 1-7 are treated as unanswered.
// Returns NeutralScore when nothing was answered.
func TraitScore(items []domain.SurveyItem, family TraitFamily) float64 {
	var sum, n int
	for _, it := range items {
		if it.Family() != string(family) || !inRange(it.Score) {
			continue
		}
		sum += it.EffectiveScore()
		n++
	}
	if n == 0 {
		return NeutralScore
	}
	return float64(sum) / float64(n)
}

// EmotionalStability mirrors the neuroticism aggregate onto the same scale.
func EmotionalStability(items []domain.SurveyItem) float64 {
	return 8 - TraitScore(items, Neuroticism)
}

// ValueScore returns the score of the item whose ID equals the family name,
// or NeutralScore when it is missing or unanswered.
func ValueScore(items []domain.SurveyItem, family ValueFamily) float64 {
	for _, it := range items {
		if it.ID == string(family) && inRange(it.Score) {
			return float64(it.Score)
		}
	}
	return NeutralScore
}

func inRange(score int) bool {
	return score >= minScore && score <= maxScore
}
