package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/store"
	"github.com/google/uuid"
)

// memStore is an in-memory implementation of every store the handlers need.
type memStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*domain.User
	cards      map[uuid.UUID]domain.SelfAspectCard
	onboarding map[uuid.UUID]domain.OnboardingRecord
	contexts   []domain.StoredContext
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uuid.UUID]*domain.User),
		cards:      make(map[uuid.UUID]domain.SelfAspectCard),
		onboarding: make(map[uuid.UUID]domain.OnboardingRecord),
	}
}

type memUsers struct{ *memStore }
type memCards struct{ *memStore }
type memOnboarding struct{ *memStore }

func (m memUsers) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return store.ErrConflict
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m memUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memCards) CreateBatch(ctx context.Context, cards []domain.SelfAspectCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
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

func (m memCards) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.SelfAspectCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cards[id]
	if !ok || c.UserID != userID {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (m memCards) ListByUser(ctx context.Context, userID uuid.UUID, status *domain.CardStatus) ([]domain.SelfAspectCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SelfAspectCard
	for _, c := range m.cards {
		if c.UserID != userID || (status != nil && c.Status != *status) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m memCards) UpsertStatus(ctx context.Context, c *domain.SelfAspectCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.cards[c.ID]
	if !ok || existing.UserID != c.UserID {
		return store.ErrNotFound
	}
	existing.Status = c.Status
	existing.UpdatedAt = c.UpdatedAt
	m.cards[c.ID] = existing
	return nil
}

func (m memOnboarding) Upsert(ctx context.Context, r *domain.OnboardingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := m.onboarding[r.UserID]; ok {
		r.ID = existing.ID
		r.CreatedAt = existing.CreatedAt
	} else {
		r.ID = uuid.New()
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	m.onboarding[r.UserID] = *r
	return nil
}

func (m memOnboarding) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.OnboardingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.onboarding[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

// Complete applies every write under one lock, after every check has passed.
func (m memOnboarding) Complete(ctx context.Context, c *domain.OnboardingCompletion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[c.Record.UserID]
	if !ok {
		return store.ErrNotFound
	}
	for _, card := range c.Cards {
		if _, ok := m.cards[card.ID]; ok {
			return store.ErrConflict
		}
	}

	for i := range c.Contexts {
		c.Contexts[i].ID = uuid.New()
		c.Contexts[i].CreatedAt = c.At
	}
	m.contexts = append(m.contexts, c.Contexts...)
	for _, card := range c.Cards {
		m.cards[card.ID] = card
	}
	r := c.Record
	if existing, ok := m.onboarding[r.UserID]; ok {
		r.ID = existing.ID
		r.CreatedAt = existing.CreatedAt
	} else {
		r.ID = uuid.New()
		r.CreatedAt = c.At
	}
	r.UpdatedAt = c.At
	m.onboarding[r.UserID] = *r
	at := c.At
	u.OnboardingCompleted = true
	u.OnboardingCompletedAt = &at
	return nil
}
