package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shubh-37/social-strategist/internal/models"
)

type PersonaRepository struct {
	db *DB
}

func NewPersonaRepository(db *DB) *PersonaRepository {
	return &PersonaRepository{db: db}
}

// Save inserts or replaces the persona, assigning an id when it has none.
func (r *PersonaRepository) Save(ctx context.Context, p *models.Persona) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	var guideJSON []byte
	if p.BrandVoiceGuide != nil {
		var err error
		guideJSON, err = json.Marshal(p.BrandVoiceGuide)
		if err != nil {
			return fmt.Errorf("failed to marshal brand voice guide: %w", err)
		}
	}

	query := `
		INSERT INTO personas (id, brand_name, industry, target_audience, tone, goals,
		                      content_pillars, brand_voice_guide, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (id) DO UPDATE SET
			brand_name = EXCLUDED.brand_name,
			industry = EXCLUDED.industry,
			target_audience = EXCLUDED.target_audience,
			tone = EXCLUDED.tone,
			goals = EXCLUDED.goals,
			content_pillars = EXCLUDED.content_pillars,
			brand_voice_guide = EXCLUDED.brand_voice_guide,
			updated_at = NOW()
	`

	_, err := r.db.Pool.Exec(ctx, query,
		p.ID,
		p.BrandName,
		p.Industry,
		p.TargetAudience,
		p.Tone,
		p.Goals,
		p.ContentPillars,
		guideJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save persona: %w", err)
	}

	return nil
}

// GetLatest returns the most recently saved persona, or nil if there is none.
func (r *PersonaRepository) GetLatest(ctx context.Context) (*models.Persona, error) {
	query := `
		SELECT id, brand_name, industry, target_audience, tone, goals,
		       content_pillars, brand_voice_guide
		FROM personas
		ORDER BY updated_at DESC
		LIMIT 1
	`

	p := &models.Persona{}
	var guideJSON []byte

	err := r.db.Pool.QueryRow(ctx, query).Scan(
		&p.ID,
		&p.BrandName,
		&p.Industry,
		&p.TargetAudience,
		&p.Tone,
		&p.Goals,
		&p.ContentPillars,
		&guideJSON,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get persona: %w", err)
	}

	if len(guideJSON) > 0 {
		p.BrandVoiceGuide = &models.BrandVoiceGuide{}
		if err := json.Unmarshal(guideJSON, p.BrandVoiceGuide); err != nil {
			return nil, fmt.Errorf("failed to unmarshal brand voice guide: %w", err)
		}
	}
	if p.ContentPillars == nil {
		p.ContentPillars = []string{}
	}

	return p, nil
}
