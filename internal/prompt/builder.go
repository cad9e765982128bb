// Package prompt renders the system and user instructions sent to the
// language model from a person's questionnaire answers and free text.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
)

type Mode string

const (
	ModeOnboarding Mode = "onboarding"
	ModeJournal    Mode = "journal"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidMode     = fmt.Errorf("%w: unknown prompt mode", ErrInvalidArgument)
)

// Prompt is the rendered message pair for one completion call.
type Prompt struct {
	System string
	User   string
}

// Build renders the prompt for the given mode. content is only used in
// journal mode and is embedded exactly as given; callers own truncation.
func Build(s domain.PersonSnapshot, mode Mode, content string) (Prompt, error) {
	var header, closing string
	switch mode {
	case ModeOnboarding:
		header = onboardingHeader
		ctx := s.ContextText()
		if ctx == "" {
			ctx = noContextDefault
		}
		closing = "Personal Context (C):\n" + ctx
	case ModeJournal:
		header = journalHeader
		closing = "Journal Entry Content (C):\n" + content
	default:
		return Prompt{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n\n")
	writeSocialIdentity(&sb, s.Social)
	sb.WriteString("\n")
	writePersonality(&sb, s.PersonalityItems)
	sb.WriteString("\n")
	writeValues(&sb, s.ValueItems)
	sb.WriteString("\n")
	sb.WriteString(closing)
	sb.WriteString("\n")

	return Prompt{System: SystemPrompt, User: sb.String()}, nil
}

func writeSocialIdentity(sb *strings.Builder, s domain.SocialIdentity) {
	sb.WriteString("Social Identity (S):\n")
	lines := []struct{ label, value string }{
		{"Age", s.Age},
		{"Biological Sex", s.BiologicalSex},
		{"Gender Identity", s.GenderIdentity},
		{"Sexual Orientation", s.SexualOrientation},
		{"Relationship Status", s.RelationshipStatus},
		{"Occupation", firstNonEmpty(s.Occupation, s.JobTitle)},
		{"Education Level", firstNonEmpty(s.EducationLevel, s.Education)},
		{"Cultural Background", firstNonEmpty(s.CulturalBackground, s.Ethnicity)},
		{"Religious/Spiritual Beliefs", firstNonEmpty(s.ReligiousBeliefs, s.ReligiousAffiliation)},
		{"Primary Language", s.PrimaryLanguage},
		{"Geographic Location", firstNonEmpty(s.Location, s.Residence)},
	}
	for _, l := range lines {
		v := l.value
		if v == "" {
			v = notSpecified
		}
		fmt.Fprintf(sb, "- %s: %s\n", l.label, v)
	}
}

func writePersonality(sb *strings.Builder, items []domain.SurveyItem) {
	sb.WriteString("Personal Identity (P):\nPersonality Traits:\n")
	fmt.Fprintf(sb, "- Extraversion: %s\n", extraversionCopy.pick(TierFor(TraitScore(items, Extraversion))))
	fmt.Fprintf(sb, "- Conscientiousness: %s\n", conscientiousnessCopy.pick(TierFor(TraitScore(items, Conscientiousness))))
	fmt.Fprintf(sb, "- Emotional Stability: %s\n", emotionalStabilityCopy.pick(TierFor(EmotionalStability(items))))
	fmt.Fprintf(sb, "- Openness: %s\n", opennessCopy.pick(TierFor(TraitScore(items, Openness))))
}

func writeValues(sb *strings.Builder, items []domain.SurveyItem) {
	sb.WriteString("Values:\n")
	for _, v := range ValueFamilies {
		fmt.Fprintf(sb, "- %s: %s\n", valueLabels[v], valueCopy[v].pick(TierFor(ValueScore(items, v))))
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
