package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/session"
)

type PostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id, platform, content, hashtags, rationale, visual_suggestion,
	image_url, estimated_engagement, suggested_time, status, created_at`

// Upsert writes posts in one batch, replacing rows with the same id. New rows
// get a position ahead of or behind every stored post depending on place;
// existing rows keep theirs.
func (r *PostRepository) Upsert(ctx context.Context, place session.Placement, posts ...*models.GeneratedPost) error {
	if len(posts) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := upsertPostQuery(place)
	for _, p := range queueOrder(place, posts) {
		batch.Queue(query,
			p.ID,
			string(p.Platform),
			p.Content,
			p.Hashtags,
			p.Rationale,
			p.VisualSuggestion,
			p.ImageURL,
			p.EstimatedEngagement,
			p.SuggestedTime,
			string(p.Status),
			p.CreatedAt,
		)
	}

	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, p := range queueOrder(place, posts) {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to save post %s: %w", p.ID, err)
		}
	}

	return nil
}

func upsertPostQuery(place session.Placement) string {
	position := `(SELECT COALESCE(MAX(position), 0) + 1 FROM posts)`
	if place == session.PlaceFront {
		position = `(SELECT COALESCE(MIN(position), 0) - 1 FROM posts)`
	}

	return `
		INSERT INTO posts (` + postColumns + `, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, ` + position + `)
		ON CONFLICT (id) DO UPDATE SET
			platform = EXCLUDED.platform,
			content = EXCLUDED.content,
			hashtags = EXCLUDED.hashtags,
			rationale = EXCLUDED.rationale,
			visual_suggestion = EXCLUDED.visual_suggestion,
			image_url = EXCLUDED.image_url,
			estimated_engagement = EXCLUDED.estimated_engagement,
			suggested_time = EXCLUDED.suggested_time,
			status = EXCLUDED.status,
			created_at = EXCLUDED.created_at
	`
}

// queueOrder returns posts in the order their rows must be written so that
// the stored collection lists them in argument order. Each front insert lands
// ahead of the previous one, so those are written last to first.
func queueOrder(place session.Placement, posts []*models.GeneratedPost) []*models.GeneratedPost {
	if place != session.PlaceFront {
		return posts
	}
	out := make([]*models.GeneratedPost, len(posts))
	for i, p := range posts {
		out[len(posts)-1-i] = p
	}
	return out
}

// GetAll retrieves every post in collection order
func (r *PostRepository) GetAll(ctx context.Context) ([]*models.GeneratedPost, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY position, id`
	return r.list(ctx, query)
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]*models.GeneratedPost, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.GeneratedPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func scanPost(row pgx.Row) (*models.GeneratedPost, error) {
	post := &models.GeneratedPost{}
	var platform, status string
	var imageURL *string

	err := row.Scan(
		&post.ID,
		&platform,
		&post.Content,
		&post.Hashtags,
		&post.Rationale,
		&post.VisualSuggestion,
		&imageURL,
		&post.EstimatedEngagement,
		&post.SuggestedTime,
		&status,
		&post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.Platform = models.Platform(platform)
	post.Status = models.PostStatus(status)
	if imageURL != nil {
		post.ImageURL = *imageURL
	}
	if post.Hashtags == nil {
		post.Hashtags = []string{}
	}

	return post, nil
}
