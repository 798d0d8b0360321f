package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shubh-37/social-strategist/internal/models"
)

type ChatRepository struct {
	db *DB
}

func NewChatRepository(db *DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// Append stores messages in order. The history is append-only.
func (r *ChatRepository) Append(ctx context.Context, msgs ...models.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, m := range msgs {
		batch.Queue(`INSERT INTO chat_messages (id, role, text, timestamp) VALUES ($1, $2, $3, $4)`,
			m.ID, string(m.Role), m.Text, m.Timestamp)
	}

	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()

	for range msgs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to append chat message: %w", err)
		}
	}

	return nil
}

// GetAll returns the whole history, oldest first.
func (r *ChatRepository) GetAll(ctx context.Context) ([]models.ChatMessage, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, role, text, timestamp FROM chat_messages ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		var role string
		if err := rows.Scan(&m.ID, &role, &m.Text, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		m.Role = models.ChatRole(role)
		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}
