package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of *pgxpool.Pool and pgx.Tx the stores write through.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type OnboardingStore struct {
	db *pgxpool.Pool
}

func NewOnboardingStore(db *pgxpool.Pool) *OnboardingStore {
	return &OnboardingStore{db: db}
}

// Upsert stores the questionnaire keyed by user; a repeat onboarding
// replaces the previous answers.
func (s *OnboardingStore) Upsert(ctx context.Context, r *domain.OnboardingRecord) error {
	return upsertOnboarding(ctx, s.db, r)
}

func upsertOnboarding(ctx context.Context, q querier, r *domain.OnboardingRecord) error {
	return q.QueryRow(ctx,
		`INSERT INTO onboarding_data (user_id, social_data, personal_data)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE
		 SET social_data = EXCLUDED.social_data,
		     personal_data = EXCLUDED.personal_data,
		     updated_at = now()
		 RETURNING id, created_at, updated_at`,
		r.UserID, r.Social, r.Personal,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// Complete writes the personal contexts, the decided cards, the
// questionnaire and the user's completion flag in one transaction. On any
// error nothing is stored, so the caller can retry without duplicating
// contexts.
func (s *OnboardingStore) Complete(ctx context.Context, c *domain.OnboardingCompletion) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The user row goes first: an unknown user fails as ErrNotFound before
	// any foreign key does, and the row lock serializes repeat submissions.
	if err := markOnboardingCompleted(ctx, tx, c.Record.UserID, c.At); err != nil {
		return err
	}
	if err := insertContexts(ctx, tx, c.Contexts); err != nil {
		return err
	}
	if err := insertCards(ctx, tx, c.Cards); err != nil {
		return err
	}
	if err := upsertOnboarding(ctx, tx, c.Record); err != nil {
		return fmt.Errorf("upsert onboarding data: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *OnboardingStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.OnboardingRecord, error) {
	r := &domain.OnboardingRecord{}
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, social_data, personal_data, created_at, updated_at
		 FROM onboarding_data WHERE user_id = $1`,
		userID,
	).Scan(&r.ID, &r.UserID, &r.Social, &r.Personal, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}
