// Package interpret turns a language model's free-text reply into
// self-aspect cards.
package interpret

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/google/uuid"
)

const (
	DefaultTitle       = "Untitled Aspect"
	DefaultDescription = "No description available"
	DefaultTrait       = "Unknown"

	ErrorCardTitle       = "Error Processing Response"
	ErrorCardDescription = "We could not read the analysis this time. Please try again."
	ErrorCardTrait       = "Error"

	// MaxTraits caps the traits kept per card.
	MaxTraits = 3
)

type ErrorKind string

const (
	NoJSONFound      ErrorKind = "no_json_found"
	InvalidJSON      ErrorKind = "invalid_json"
	InvalidStructure ErrorKind = "invalid_structure"
)

// ParseError describes why a reply could not be turned into cards.
type ParseError struct {
	Kind ErrorKind
	// Fragment is the extracted text that failed to decode, if any.
	Fragment string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse response: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("parse response: %s", e.Kind)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Interpreter converts model replies into cards. It holds no mutable state
// and is safe for concurrent use.
type Interpreter struct {
	now   func() time.Time
	newID func() uuid.UUID
}

type Option func(*Interpreter)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(i *Interpreter) { i.now = now }
}

// WithIDGen overrides card ID generation.
func WithIDGen(gen func() uuid.UUID) Option {
	return func(i *Interpreter) { i.newID = gen }
}

func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		now:   func() time.Time { return time.Now().UTC() },
		newID: newCardID,
	}
	for _, o := range opts {
		o(i)
	}
	return i
}

// newCardID returns a UUIDv7: a millisecond timestamp followed by random bits.
func newCardID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

var defaultInterpreter = New()

// Interpret is Interpreter.Interpret on a default interpreter.
func Interpret(raw string) []domain.SelfAspectCard {
	return defaultInterpreter.Interpret(raw)
}

// Parse is Interpreter.Parse on a default interpreter.
func Parse(raw string) ([]domain.SelfAspectCard, error) {
	return defaultInterpreter.Parse(raw)
}

// Interpret never fails: an unreadable reply yields a single error card.
func (i *Interpreter) Interpret(raw string) []domain.SelfAspectCard {
	cards, err := i.Parse(raw)
	if err != nil {
		return []domain.SelfAspectCard{i.ErrorCard()}
	}
	return cards
}

// ErrorCard returns the sentinel card shown when a reply cannot be parsed.
func (i *Interpreter) ErrorCard() domain.SelfAspectCard {
	now := i.now()
	return domain.SelfAspectCard{
		ID:          i.newID(),
		Title:       ErrorCardTitle,
		Description: ErrorCardDescription,
		Traits:      []string{ErrorCardTrait},
		Status:      domain.CardStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Parse extracts and validates the cards in a reply, preserving the model's
// order. Errors are always *ParseError.
func (i *Interpreter) Parse(raw string) ([]domain.SelfAspectCard, error) {
	fragment, ok := extractJSON(raw)
	if !ok {
		return nil, &ParseError{Kind: NoJSONFound}
	}

	var decoded any
	if err := json.Unmarshal([]byte(fragment), &decoded); err != nil {
		return nil, &ParseError{Kind: InvalidJSON, Fragment: fragment, Err: err}
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, &ParseError{Kind: InvalidStructure, Fragment: fragment}
	}
	items, ok := obj["cards"].([]any)
	if !ok {
		return nil, &ParseError{Kind: InvalidStructure, Fragment: fragment}
	}

	now := i.now()
	cards := make([]domain.SelfAspectCard, 0, len(items))
	for _, item := range items {
		fields, _ := item.(map[string]any)
		cards = append(cards, domain.SelfAspectCard{
			ID:          i.newID(),
			Title:       stringOr(fields["title"], DefaultTitle),
			Description: stringOr(fields["description"], DefaultDescription),
			Traits:      traitsOf(fields["traits"]),
			Status:      domain.CardStatusNew,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return cards, nil
}

func stringOr(v any, def string) string {
	s, ok := v.(string)
	if !ok {
		return def
	}
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func traitsOf(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{DefaultTrait}
	}
	traits := make([]string, 0, len(list))
	for _, t := range list {
		s, ok := t.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			traits = append(traits, s)
		}
		if len(traits) == MaxTraits {
			break
		}
	}
	if len(traits) == 0 {
		return []string{DefaultTrait}
	}
	return traits
}
