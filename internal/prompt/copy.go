package prompt

type tierCopy struct {
	high, moderate, low string
}

func (c tierCopy) pick(t Tier) string {
	switch t {
	case TierHigh:
		return c.high
	case TierLow:
		return c.low
	default:
		return c.moderate
	}
}

var extraversionCopy = tierCopy{
	high:     "Highly extraverted, sociable, and outgoing",
	moderate: "Moderately extraverted, balancing sociability with alone time",
	low:      "More introverted, preferring smaller social settings or solitude",
}

var conscientiousnessCopy = tierCopy{
	high:     "Highly organized, detail-oriented, and disciplined",
	moderate: "Moderately organized, balancing structure with flexibility",
	low:      "More spontaneous and flexible, preferring less structure",
}

var emotionalStabilityCopy = tierCopy{
	high:     "Very emotionally stable and calm under pressure",
	moderate: "Moderately emotionally stable with balanced emotional responses",
	low:      "More emotionally sensitive and reactive to stressors",
}

var opennessCopy = tierCopy{
	high:     "Highly curious, imaginative, and open to new experiences",
	moderate: "Moderately open to new experiences while valuing some familiarity",
	low:      "More conventional, preferring familiar routines and practical thinking",
}

var valueCopy = map[ValueFamily]tierCopy{
	Autonomy: {
		high:     "Strongly values independence and making own decisions",
		moderate: "Moderately values autonomy while accepting guidance when helpful",
		low:      "Less emphasis on autonomy, comfortable with shared decision-making",
	},
	Benevolence: {
		high:     "Strongly values helping others and community welfare",
		moderate: "Moderately values helping others while balancing personal needs",
		low:      "More selective about helping others, focusing on immediate concerns",
	},
	Achievement: {
		high:     "Strongly driven by success and accomplishment",
		moderate: "Moderately values achievement alongside other priorities",
		low:      "Less focused on conventional success markers",
	},
	Security: {
		high:     "Strongly values safety, stability, and predictability",
		moderate: "Moderately values security while accepting some change",
		low:      "Comfortable with uncertainty and changing situations",
	},
	Conformity: {
		high:     "Strongly values following social norms and expectations",
		moderate: "Respects social norms while maintaining some independence",
		low:      "Less concerned with conventional expectations",
	},
}

var valueLabels = map[ValueFamily]string{
	Autonomy:    "Autonomy",
	Benevolence: "Benevolence",
	Achievement: "Achievement",
	Security:    "Security",
	Conformity:  "Conformity",
}
