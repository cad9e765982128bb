package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// mockCardStore implements domain.CardStore for testing.
type mockCardStore struct {
	cards     map[uuid.UUID]domain.SelfAspectCard
	createErr error
	upserts   int
}

func newMockCardStore() *mockCardStore {
	return &mockCardStore{cards: make(map[uuid.UUID]domain.SelfAspectCard)}
}

func (m *mockCardStore) CreateBatch(ctx context.Context, cards []domain.SelfAspectCard) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, c := range cards {
		if _, ok := m.cards[c.ID]; ok {
			return store.ErrConflict
		}
	}
	for _, c := range cards {
		m.cards[c.ID] = c
	}
	return nil
}

func (m *mockCardStore) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.SelfAspectCard, error) {
	c, ok := m.cards[id]
	if !ok || c.UserID != userID {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (m *mockCardStore) ListByUser(ctx context.Context, userID uuid.UUID, status *domain.CardStatus) ([]domain.SelfAspectCard, error) {
	var out []domain.SelfAspectCard
	for _, c := range m.cards {
		if c.UserID != userID {
			continue
		}
		if status != nil && c.Status != *status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *mockCardStore) UpsertStatus(ctx context.Context, c *domain.SelfAspectCard) error {
	m.upserts++
	existing, ok := m.cards[c.ID]
	if ok && existing.UserID != c.UserID {
		return store.ErrNotFound
	}
	if ok {
		existing.Status = c.Status
		existing.UpdatedAt = c.UpdatedAt
		m.cards[c.ID] = existing
		return nil
	}
	m.cards[c.ID] = *c
	return nil
}

// mockOnboardingStore implements domain.OnboardingStore for testing.
// Complete writes through to the user and card fakes, all or nothing.
type mockOnboardingStore struct {
	records  map[uuid.UUID]*domain.OnboardingRecord
	contexts []domain.StoredContext
	users    *mockUserStore
	cards    *mockCardStore
	getErr   error
}

func newMockOnboardingStore() *mockOnboardingStore {
	return &mockOnboardingStore{
		records: make(map[uuid.UUID]*domain.OnboardingRecord),
		users:   newMockUserStore(),
		cards:   newMockCardStore(),
	}
}

func (m *mockOnboardingStore) Complete(ctx context.Context, c *domain.OnboardingCompletion) error {
	u, ok := m.users.users[c.Record.UserID]
	if !ok {
		return store.ErrNotFound
	}
	if m.cards.createErr != nil {
		return m.cards.createErr
	}
	for _, card := range c.Cards {
		if _, ok := m.cards.cards[card.ID]; ok {
			return store.ErrConflict
		}
	}

	for i := range c.Contexts {
		c.Contexts[i].ID = uuid.New()
		c.Contexts[i].CreatedAt = c.At
	}
	m.contexts = append(m.contexts, c.Contexts...)
	for _, card := range c.Cards {
		m.cards.cards[card.ID] = card
	}
	if err := m.Upsert(ctx, c.Record); err != nil {
		return err
	}
	at := c.At
	u.OnboardingCompleted = true
	u.OnboardingCompletedAt = &at
	return nil
}

func (m *mockOnboardingStore) Upsert(ctx context.Context, r *domain.OnboardingRecord) error {
	if existing, ok := m.records[r.UserID]; ok {
		r.ID = existing.ID
		r.CreatedAt = existing.CreatedAt
	} else {
		r.ID = uuid.New()
		r.CreatedAt = time.Now()
	}
	r.UpdatedAt = time.Now()
	cp := *r
	m.records[r.UserID] = &cp
	return nil
}

func (m *mockOnboardingStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.OnboardingRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.records[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return r, nil
}

// mockUserStore implements domain.UserStore for testing.
type mockUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserStore) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return store.ErrConflict
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

// MockOnboardingStore mocks the OnboardingStore interface.
type MockOnboardingStore struct {
	mock.Mock
}

func (m *MockOnboardingStore) Upsert(ctx context.Context, r *domain.OnboardingRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockOnboardingStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.OnboardingRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OnboardingRecord), args.Error(1)
}

func (m *MockOnboardingStore) Complete(ctx context.Context, c *domain.OnboardingCompletion) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type statusEvent struct {
	card domain.SelfAspectCard
	from domain.CardStatus
}

type generatedEvent struct {
	userID uuid.UUID
	source string
	cards  []domain.SelfAspectCard
}

// recordingPublisher implements domain.EventPublisher for testing.
type recordingPublisher struct {
	mu        sync.Mutex
	generated []generatedEvent
	changed   []statusEvent
	err       error
}

func (p *recordingPublisher) CardsGenerated(ctx context.Context, userID uuid.UUID, source string, cards []domain.SelfAspectCard) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generated = append(p.generated, generatedEvent{userID, source, cards})
	return p.err
}

func (p *recordingPublisher) CardStatusChanged(ctx context.Context, card domain.SelfAspectCard, from domain.CardStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changed = append(p.changed, statusEvent{card, from})
	return p.err
}
