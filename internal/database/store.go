package database

import (
	"context"
	"fmt"

	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/session"
)

// Store persists a planning session in Postgres.
type Store struct {
	personas *PersonaRepository
	posts    *PostRepository
	chat     *ChatRepository
}

func NewStore(db *DB) *Store {
	return &Store{
		personas: NewPersonaRepository(db),
		posts:    NewPostRepository(db),
		chat:     NewChatRepository(db),
	}
}

func (s *Store) SavePersona(ctx context.Context, p *models.Persona) error {
	return s.personas.Save(ctx, p)
}

func (s *Store) SavePosts(ctx context.Context, place session.Placement, posts ...*models.GeneratedPost) error {
	return s.posts.Upsert(ctx, place, posts...)
}

func (s *Store) SaveChatMessages(ctx context.Context, msgs ...models.ChatMessage) error {
	return s.chat.Append(ctx, msgs...)
}

// Load reads the last saved session. Posts come back in collection order.
func (s *Store) Load(ctx context.Context) (*session.Snapshot, error) {
	persona, err := s.personas.GetLatest(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	chat, err := s.chat.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat: %w", err)
	}

	return &session.Snapshot{Persona: persona, Posts: posts, Chat: chat}, nil
}
