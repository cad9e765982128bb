package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/interpret"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/prompt"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrContentEmpty        = errors.New("content is required")
	ErrOnboardingRequired  = errors.New("onboarding must be completed before analyzing content")
	ErrGenerationCancelled = errors.New("generation cancelled")
)

// Source says where a generation's cards came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceMock     Source = "mock"
	SourceFallback Source = "fallback"
	SourceError    Source = "parse_error"
)

const (
	DefaultLLMTimeout      = 30 * time.Second
	DefaultLLMMaxRetries   = 1
	DefaultLLMMaxTokens    = 2000
	DefaultLLMTemperature  = 0.7
	DefaultJournalMaxChars = 3000
)

// GenerationConfig tunes completion calls.
type GenerationConfig struct {
	Timeout         time.Duration
	MaxRetries      int
	MaxTokens       int
	Temperature     float64
	JournalMaxChars int
}

func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Timeout:         DefaultLLMTimeout,
		MaxRetries:      DefaultLLMMaxRetries,
		MaxTokens:       DefaultLLMMaxTokens,
		Temperature:     DefaultLLMTemperature,
		JournalMaxChars: DefaultJournalMaxChars,
	}
}

// GenerateInput is one card generation request. A non-blank Content selects
// journal mode; otherwise the snapshot's onboarding context is used.
type GenerateInput struct {
	UserID   uuid.UUID
	Snapshot domain.PersonSnapshot
	Content  string
	Mock     bool
}

type GenerateResult struct {
	Cards  []domain.SelfAspectCard `json:"cards"`
	Source Source                  `json:"source"`
}

type GenerationService struct {
	completer   domain.Completer
	cardStore   domain.CardStore
	onboarding  domain.OnboardingStore
	events      domain.EventPublisher
	interpreter *interpret.Interpreter
	cfg         GenerationConfig
	now         func() time.Time
	newID       func() uuid.UUID
	logger      *zap.Logger
}

func NewGenerationService(c domain.Completer, cs domain.CardStore, obs domain.OnboardingStore, ev domain.EventPublisher, cfg GenerationConfig, logger *zap.Logger) *GenerationService {
	return &GenerationService{
		completer:   c,
		cardStore:   cs,
		onboarding:  obs,
		events:      ev,
		interpreter: interpret.New(),
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       newCardID,
		logger:      logger,
	}
}

func newCardID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Generate builds a prompt from the input, asks the model for cards and
// interprets the reply. Journal content longer than JournalMaxChars is cut
// at that many characters. Cards are not persisted.
func (s *GenerationService) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	if in.Mock {
		return s.mockResult(in.UserID, SourceMock), nil
	}

	mode := prompt.ModeOnboarding
	content := in.Content
	if strings.TrimSpace(content) != "" {
		mode = prompt.ModeJournal
		content = truncateRunes(content, s.cfg.JournalMaxChars)
	}
	p, err := prompt.Build(in.Snapshot, mode, content)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	raw, err := s.complete(ctx, p)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerationCancelled, ctx.Err())
		}
		s.logger.Warn("completion failed, using mock deck",
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		return s.mockResult(in.UserID, SourceFallback), nil
	}

	cards, err := s.interpreter.Parse(raw)
	if err != nil {
		var perr *interpret.ParseError
		kind := ""
		if errors.As(err, &perr) {
			kind = string(perr.Kind)
		}
		s.logger.Warn("could not parse model reply",
			zap.String("mode", string(mode)),
			zap.String("kind", kind),
			zap.Int("reply_len", len(raw)),
		)
		card := s.interpreter.ErrorCard()
		card.UserID = in.UserID
		return &GenerateResult{Cards: []domain.SelfAspectCard{card}, Source: SourceError}, nil
	}

	for i := range cards {
		cards[i].UserID = in.UserID
	}
	return &GenerateResult{Cards: cards, Source: SourceModel}, nil
}

// AnalyzeJournal generates cards for a journal entry against the user's
// stored questionnaire and saves them as new cards.
func (s *GenerationService) AnalyzeJournal(ctx context.Context, userID uuid.UUID, content string) (*GenerateResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentEmpty
	}

	rec, err := s.onboarding.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOnboardingRequired
		}
		return nil, fmt.Errorf("load onboarding data: %w", err)
	}

	res, err := s.Generate(ctx, GenerateInput{
		UserID:   userID,
		Snapshot: rec.Snapshot(),
		Content:  content,
	})
	if err != nil {
		return nil, err
	}

	// The error card is shown but never stored.
	if res.Source == SourceError {
		return res, nil
	}

	if err := s.cardStore.CreateBatch(ctx, res.Cards); err != nil {
		return nil, fmt.Errorf("save cards: %w", err)
	}

	if err := s.events.CardsGenerated(ctx, userID, string(prompt.ModeJournal), res.Cards); err != nil {
		s.logger.Warn("failed to publish cards generated event", zap.Error(err))
	}

	s.logger.Info("journal analyzed",
		zap.String("user_id", userID.String()),
		zap.String("source", string(res.Source)),
		zap.Int("cards", len(res.Cards)),
	)
	return res, nil
}

// complete calls the model with a per-attempt timeout, retrying up to
// MaxRetries times.
func (s *GenerationService) complete(ctx context.Context, p prompt.Prompt) (string, error) {
	req := domain.CompletionRequest{
		System:      p.System,
		User:        p.User,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		raw, err := s.attempt(ctx, req)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		s.logger.Debug("completion attempt failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return "", fmt.Errorf("completion failed after %d attempts: %w", s.cfg.MaxRetries+1, lastErr)
}

func (s *GenerationService) attempt(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	return s.completer.Complete(ctx, req)
}

func (s *GenerationService) mockResult(userID uuid.UUID, src Source) *GenerateResult {
	cards := MockCards(s.now(), s.newID)
	for i := range cards {
		cards[i].UserID = userID
	}
	return &GenerateResult{Cards: cards, Source: src}
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
