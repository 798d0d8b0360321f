package database

import (
	"context"
	"fmt"
)

// CreateTables creates all necessary database tables
func (db *DB) CreateTables(ctx context.Context) error {
	db.logger.Info("Creating database tables...")

	personasTable := `
	CREATE TABLE IF NOT EXISTS personas (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		brand_name VARCHAR(255) NOT NULL,
		industry VARCHAR(255) NOT NULL,
		target_audience TEXT,
		tone VARCHAR(255),
		goals TEXT,
		content_pillars TEXT[],
		brand_voice_guide JSONB,
		updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_personas_updated ON personas(updated_at DESC);
	`

	// Post ids are nanoids, not UUIDs. created_at doubles as the scheduled date;
	// position carries the collection order.
	postsTable := `
	CREATE TABLE IF NOT EXISTS posts (
		id VARCHAR(64) PRIMARY KEY,
		platform VARCHAR(50) NOT NULL,
		content TEXT NOT NULL,
		hashtags TEXT[],
		rationale TEXT,
		visual_suggestion TEXT,
		image_url TEXT,
		estimated_engagement VARCHAR(255),
		suggested_time VARCHAR(100),
		status VARCHAR(50) DEFAULT 'draft',
		created_at TIMESTAMPTZ NOT NULL,
		position BIGINT NOT NULL DEFAULT 0
	);
	ALTER TABLE posts ADD COLUMN IF NOT EXISTS position BIGINT NOT NULL DEFAULT 0;
	CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status);
	CREATE INDEX IF NOT EXISTS idx_posts_position ON posts(position);
	`

	chatTable := `
	CREATE TABLE IF NOT EXISTS chat_messages (
		id UUID PRIMARY KEY,
		seq BIGSERIAL,
		role VARCHAR(20) NOT NULL,
		text TEXT NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_seq ON chat_messages(seq);
	`

	tables := []string{personasTable, postsTable, chatTable}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, table); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	db.logger.Info("✅ All tables created successfully")
	return nil
}
