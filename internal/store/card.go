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

type CardStore struct {
	db *pgxpool.Pool
}

func NewCardStore(db *pgxpool.Pool) *CardStore {
	return &CardStore{db: db}
}

const cardColumns = `id, user_id, title, description, traits, status, created_at, updated_at`

func scanCard(row pgx.Row) (domain.SelfAspectCard, error) {
	var c domain.SelfAspectCard
	var status string
	err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.Traits, &status, &c.CreatedAt, &c.UpdatedAt)
	c.Status = domain.CardStatus(status)
	return c, err
}

const insertCardSQL = `INSERT INTO self_aspect_cards (` + cardColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// upsertCardStatusSQL only touches an existing row when it belongs to the
// same user; otherwise no row is affected.
const upsertCardStatusSQL = insertCardSQL + `
	ON CONFLICT (id) DO UPDATE
	SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
	WHERE self_aspect_cards.user_id = EXCLUDED.user_id`

func cardArgs(c *domain.SelfAspectCard) []any {
	return []any{c.ID, c.UserID, c.Title, c.Description, c.Traits, string(c.Status), c.CreatedAt, c.UpdatedAt}
}

func insertCards(ctx context.Context, q querier, cards []domain.SelfAspectCard) error {
	for i := range cards {
		if _, err := q.Exec(ctx, insertCardSQL, cardArgs(&cards[i])...); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrConflict
			}
			return fmt.Errorf("insert card: %w", err)
		}
	}
	return nil
}

// CreateBatch inserts all cards in one transaction.
func (s *CardStore) CreateBatch(ctx context.Context, cards []domain.SelfAspectCard) error {
	if len(cards) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertCards(ctx, tx, cards); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.SelfAspectCard, error) {
	c, err := scanCard(s.db.QueryRow(ctx,
		`SELECT `+cardColumns+` FROM self_aspect_cards WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByUser returns the user's cards, newest first, optionally filtered by
// status.
func (s *CardStore) ListByUser(ctx context.Context, userID uuid.UUID, status *domain.CardStatus) ([]domain.SelfAspectCard, error) {
	query, args := listCardsQuery(userID, status)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []domain.SelfAspectCard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func listCardsQuery(userID uuid.UUID, status *domain.CardStatus) (string, []any) {
	query := `SELECT ` + cardColumns + ` FROM self_aspect_cards WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	return query + ` ORDER BY created_at DESC, id DESC`, args
}

// UpsertStatus inserts the card if it is not stored yet, otherwise updates
// its status and updated_at. A card owned by another user is ErrNotFound.
func (s *CardStore) UpsertStatus(ctx context.Context, c *domain.SelfAspectCard) error {
	tag, err := s.db.Exec(ctx, upsertCardStatusSQL, cardArgs(c)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
