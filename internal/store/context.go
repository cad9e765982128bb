package store

import (
	"context"
	"fmt"

	"github.com/SeoyeongHwang/AugmentedSelf-v0/internal/domain"
	"github.com/jackc/pgx/v5"
)

const insertContextSQL = `INSERT INTO personal_contexts (user_id, type, content, file_url, source)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at`

// insertContexts queues one insert per context in a single batch and fills
// in the generated IDs and timestamps.
func insertContexts(ctx context.Context, q querier, contexts []domain.StoredContext) error {
	if len(contexts) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range contexts {
		c := &contexts[i]
		batch.Queue(insertContextSQL,
			c.UserID, string(c.Type), c.Content, c.FileURL, c.Source,
		).QueryRow(func(row pgx.Row) error {
			return row.Scan(&c.ID, &c.CreatedAt)
		})
	}

	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert contexts: %w", err)
	}
	return nil
}
