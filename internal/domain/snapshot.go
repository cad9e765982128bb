package domain

import (
	"encoding/json"
	"strings"
	"unicode"
)

// SurveyItem is a single 1-7 Likert response. The item family is the
// leading alphabetic prefix of ID ("extraversion2" -> "extraversion").
type SurveyItem struct {
	ID           string `json:"id"`
	Text         string `json:"text,omitempty"`
	Score        int    `json:"score"`
	ReverseCoded bool   `json:"isReverseCoded,omitempty"`
}

// EffectiveScore returns the score used in aggregation.
func (i SurveyItem) EffectiveScore() int {
	if i.ReverseCoded {
		return 8 - i.Score
	}
	return i.Score
}

// Family returns the alphabetic prefix of the item ID.
func (i SurveyItem) Family() string {
	end := strings.IndexFunc(i.ID, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		return i.ID
	}
	return i.ID[:end]
}

// Disclosure is a yes/no questionnaire answer with optional detail.
type Disclosure struct {
	Has     bool   `json:"has"`
	Details string `json:"details,omitempty"`
}

// SocialIdentity holds the free-form social attributes from onboarding.
// Every field is optional.
type SocialIdentity struct {
	Age                  string      `json:"age,omitempty"`
	BiologicalSex        string      `json:"biologicalSex,omitempty"`
	GenderIdentity       string      `json:"genderIdentity,omitempty"`
	SexualOrientation    string      `json:"sexualOrientation,omitempty"`
	RelationshipStatus   string      `json:"relationshipStatus,omitempty"`
	Occupation           string      `json:"occupation,omitempty"`
	JobTitle             string      `json:"jobTitle,omitempty"`
	EducationLevel       string      `json:"educationLevel,omitempty"`
	Education            string      `json:"education,omitempty"`
	FieldOfStudy         string      `json:"fieldOfStudy,omitempty"`
	CulturalBackground   string      `json:"culturalBackground,omitempty"`
	Ethnicity            string      `json:"ethnicity,omitempty"`
	Race                 string      `json:"race,omitempty"`
	Nationality          string      `json:"nationality,omitempty"`
	DualNationality      *Disclosure `json:"dualNationality,omitempty"`
	Disabilities         *Disclosure `json:"disabilities,omitempty"`
	ReligiousBeliefs     string      `json:"religiousBeliefs,omitempty"`
	ReligiousAffiliation string      `json:"religiousAffiliation,omitempty"`
	PrimaryLanguage      string      `json:"primaryLanguage,omitempty"`
	Location             string      `json:"location,omitempty"`
	Residence            string      `json:"residence,omitempty"`
	PerceivedIncome      string      `json:"perceivedIncome,omitempty"`
	SubjectiveIncome     string      `json:"subjectiveIncome,omitempty"`
	IncomeSatisfaction   string      `json:"incomeSatisfaction,omitempty"`
	SocialClass          string      `json:"socialClass,omitempty"`
	LivingArrangement    string      `json:"livingArrangement,omitempty"`
	PoliticalAffiliation string      `json:"politicalAffiliation,omitempty"`
}

// PersonalIdentity holds the personality and value questionnaire items.
type PersonalIdentity struct {
	PersonalityItems []SurveyItem `json:"personalityItems"`
	ValueItems       []SurveyItem `json:"valueItems"`
}

type ContextType string

const (
	ContextTypeText ContextType = "text"
	ContextTypeFile ContextType = "file"
)

// MaxPersonalContexts is the number of context entries onboarding accepts.
const MaxPersonalContexts = 3

// PersonalContext is one free-text (or uploaded file) entry from onboarding.
type PersonalContext struct {
	ID      string      `json:"id,omitempty"`
	Type    ContextType `json:"type"`
	Content string      `json:"content"`
	FileURL string      `json:"fileUrl,omitempty"`
}

// ContextData is the personal-context step of onboarding. Older clients send
// a single diary string instead of a list.
type ContextData struct {
	Diary    string            `json:"diary,omitempty"`
	Contexts []PersonalContext `json:"contexts,omitempty"`
}

// OnboardingData is the questionnaire payload as sent by clients.
// Both the "social"/"personal" and the stored "social_data"/"personal_data"
// key names are accepted.
type OnboardingData struct {
	Social   SocialIdentity   `json:"social"`
	Personal PersonalIdentity `json:"personal"`
	Context  ContextData      `json:"context"`
}

func (d *OnboardingData) UnmarshalJSON(b []byte) error {
	var raw struct {
		Social       *SocialIdentity   `json:"social"`
		SocialData   *SocialIdentity   `json:"social_data"`
		Personal     *PersonalIdentity `json:"personal"`
		PersonalData *PersonalIdentity `json:"personal_data"`
		Context      *ContextData      `json:"context"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*d = OnboardingData{}
	switch {
	case raw.Social != nil:
		d.Social = *raw.Social
	case raw.SocialData != nil:
		d.Social = *raw.SocialData
	}
	switch {
	case raw.Personal != nil:
		d.Personal = *raw.Personal
	case raw.PersonalData != nil:
		d.Personal = *raw.PersonalData
	}
	if raw.Context != nil {
		d.Context = *raw.Context
	}
	return nil
}

// Snapshot converts the payload into prompt input.
func (d OnboardingData) Snapshot() PersonSnapshot {
	return PersonSnapshot{
		Social:           d.Social,
		PersonalityItems: d.Personal.PersonalityItems,
		ValueItems:       d.Personal.ValueItems,
		Diary:            d.Context.Diary,
		Contexts:         d.Context.Contexts,
	}
}

// PersonSnapshot is everything the prompt builder needs about a person.
// It is built fresh for each request.
type PersonSnapshot struct {
	Social           SocialIdentity
	PersonalityItems []SurveyItem
	ValueItems       []SurveyItem
	Diary            string
	Contexts         []PersonalContext
}

// ContextText returns the free-text context used in onboarding prompts,
// or "" when the person supplied none.
func (s PersonSnapshot) ContextText() string {
	if d := strings.TrimSpace(s.Diary); d != "" {
		return d
	}
	var parts []string
	for _, c := range s.Contexts {
		if len(parts) == MaxPersonalContexts {
			break
		}
		if t := strings.TrimSpace(c.Content); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}
