package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shubh-37/social-strategist/internal/llm"
	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/prompts"
	"github.com/shubh-37/social-strategist/internal/schedule"
)

// ErrBusy is returned when the same action already has a call outstanding.
var ErrBusy = errors.New("a request for this action is already in progress")

// SuggestedPillarLimit caps how many suggested pillars are kept.
const SuggestedPillarLimit = 3

// Strategist runs the generative operations.
type Strategist interface {
	GeneratePost(ctx context.Context, persona *models.Persona, platform models.Platform, topic, extra string) (*models.GeneratedPost, error)
	RefinePost(ctx context.Context, persona *models.Persona, prior *models.GeneratedPost, topic, feedback string) (*models.GeneratedPost, error)
	GenerateMedia(ctx context.Context, visualSuggestion string) (*llm.Image, error)
	AnalyzeVoice(ctx context.Context, pastPosts []string) (*models.BrandVoiceGuide, error)
	SuggestAudience(ctx context.Context, brandName, industry, tone string) (string, error)
	SuggestPillars(ctx context.Context, persona *models.Persona) ([]string, error)
	ProposeSchedule(ctx context.Context, persona *models.Persona, request string, calendar time.Time) (*models.ScheduleProposal, error)
	ChatTurn(ctx context.Context, persona *models.Persona, history []models.ChatMessage, message, liveData string) (string, bool)
}

// Placement says where a newly stored post sits in the collection. Posts
// that already exist keep their place whatever the placement.
type Placement int

const (
	PlaceFront Placement = iota
	PlaceBack
)

// Store persists state changes. Writes happen after the in-memory state is
// known to change, never for failed calls.
type Store interface {
	SavePersona(ctx context.Context, p *models.Persona) error
	SavePosts(ctx context.Context, place Placement, posts ...*models.GeneratedPost) error
	SaveChatMessages(ctx context.Context, msgs ...models.ChatMessage) error
}

// MediaStore turns generated image bytes into a URL a post can reference.
type MediaStore interface {
	Put(ctx context.Context, img *llm.Image) (string, error)
}

// Planner exposes the session commands. Each command is one logical action;
// at most one call per action is outstanding at a time.
type Planner struct {
	state      *State
	strategist Strategist
	store      Store
	media      MediaStore
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.Mutex
	inflight map[string]bool
}

type Option func(*Planner)

func WithStore(s Store) Option {
	return func(p *Planner) { p.store = s }
}

func WithMediaStore(m MediaStore) Option {
	return func(p *Planner) { p.media = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Planner) { p.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

func NewPlanner(state *State, strategist Strategist, opts ...Option) *Planner {
	p := &Planner{
		state:      state,
		strategist: strategist,
		logger:     zap.NewNop(),
		now:        time.Now,
		inflight:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Planner) State() *State {
	return p.state
}

func (p *Planner) begin(action string) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inflight[action] {
		return nil, fmt.Errorf("%s: %w", action, ErrBusy)
	}
	p.inflight[action] = true
	return func() {
		p.mu.Lock()
		delete(p.inflight, action)
		p.mu.Unlock()
	}, nil
}

// GeneratePost drafts a post and adds it to the front of the collection.
func (p *Planner) GeneratePost(ctx context.Context, platform models.Platform, topic, extra string) (*models.GeneratedPost, error) {
	done, err := p.begin(prompts.OpGeneratePost)
	if err != nil {
		return nil, err
	}
	defer done()

	post, err := p.strategist.GeneratePost(ctx, p.state.Persona(), platform, topic, extra)
	if err != nil {
		return nil, err
	}
	if err := p.savePosts(ctx, PlaceFront, post); err != nil {
		return nil, err
	}
	p.state.AddPost(post)

	p.logger.Info("Generated post", zap.String("post_id", post.ID), zap.String("platform", string(platform)))
	return post, nil
}

// RefinePost revises an existing post into a new draft. The original stays
// in the collection unchanged.
func (p *Planner) RefinePost(ctx context.Context, postID, topic, feedback string) (*models.GeneratedPost, error) {
	done, err := p.begin(prompts.OpRefinePost)
	if err != nil {
		return nil, err
	}
	defer done()

	prior, ok := p.state.Post(postID)
	if !ok {
		return nil, ErrPostNotFound
	}

	post, err := p.strategist.RefinePost(ctx, p.state.Persona(), prior, topic, feedback)
	if err != nil {
		return nil, err
	}
	if err := p.savePosts(ctx, PlaceFront, post); err != nil {
		return nil, err
	}
	p.state.AddPost(post)

	p.logger.Info("Refined post", zap.String("from", postID), zap.String("post_id", post.ID))
	return post, nil
}

// GenerateMedia renders the post's visual suggestion and attaches the stored
// image URL to the post.
func (p *Planner) GenerateMedia(ctx context.Context, postID string) (*models.GeneratedPost, error) {
	done, err := p.begin(prompts.OpGenerateMedia)
	if err != nil {
		return nil, err
	}
	defer done()

	post, ok := p.state.Post(postID)
	if !ok {
		return nil, ErrPostNotFound
	}

	img, err := p.strategist.GenerateMedia(ctx, post.VisualSuggestion)
	if err != nil {
		return nil, err
	}
	if p.media == nil {
		return nil, fmt.Errorf("no media store configured")
	}
	url, err := p.media.Put(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	post.ImageURL = url
	if err := p.savePosts(ctx, PlaceBack, post); err != nil {
		return nil, err
	}
	return p.state.AttachImage(postID, url)
}

// ProposeSchedule returns a proposal without touching the collection;
// AcceptProposal merges it.
func (p *Planner) ProposeSchedule(ctx context.Context, request string, calendar time.Time) (*models.ScheduleProposal, error) {
	done, err := p.begin(prompts.OpProposeSchedule)
	if err != nil {
		return nil, err
	}
	defer done()

	return p.strategist.ProposeSchedule(ctx, p.state.Persona(), request, calendar)
}

// AcceptProposal appends the proposal's posts to the collection and returns
// them as stored. Every accepted post gets a fresh id and scheduled status,
// so the same proposal accepted twice yields distinct posts and a proposal
// echoed back by a client can never overwrite an existing post.
func (p *Planner) AcceptProposal(ctx context.Context, proposal *models.ScheduleProposal) ([]*models.GeneratedPost, error) {
	if proposal == nil {
		return nil, nil
	}

	accepted := make([]*models.GeneratedPost, 0, len(proposal.Posts))
	for _, proposed := range proposal.Posts {
		if proposed == nil {
			continue
		}
		post := copyPost(proposed)
		post.ID = models.NewPostID()
		post.Status = models.StatusScheduled
		if post.Hashtags == nil {
			post.Hashtags = []string{}
		}
		accepted = append(accepted, post)
	}
	if len(accepted) == 0 {
		return nil, nil
	}

	if err := p.savePosts(ctx, PlaceBack, accepted...); err != nil {
		return nil, err
	}
	p.state.MergeProposal(accepted)

	p.logger.Info("Merged schedule proposal", zap.Int("posts", len(accepted)))
	return copyPosts(accepted), nil
}

// SchedulePost moves a draft onto the calendar at the current time.
func (p *Planner) SchedulePost(ctx context.Context, postID string) (*models.GeneratedPost, error) {
	post, ok := p.state.Post(postID)
	if !ok {
		return nil, ErrPostNotFound
	}
	post.Status = models.StatusScheduled
	post.CreatedAt = p.now()
	if err := p.savePosts(ctx, PlaceBack, post); err != nil {
		return nil, err
	}
	return p.state.SchedulePost(postID, post.CreatedAt)
}

// AnalyzeVoice extracts a voice guide without saving it.
func (p *Planner) AnalyzeVoice(ctx context.Context, pastPosts []string) (*models.BrandVoiceGuide, error) {
	done, err := p.begin(prompts.OpAnalyzeVoice)
	if err != nil {
		return nil, err
	}
	defer done()

	return p.strategist.AnalyzeVoice(ctx, pastPosts)
}

// SaveVoiceGuide attaches guide to the persona, replacing any previous one.
func (p *Planner) SaveVoiceGuide(ctx context.Context, guide models.BrandVoiceGuide) (*models.Persona, error) {
	return p.updatePersona(ctx, func(persona *models.Persona) { persona.ApplyVoiceGuide(guide) })
}

func (p *Planner) SuggestAudience(ctx context.Context, brandName, industry, tone string) (string, error) {
	done, err := p.begin(prompts.OpSuggestAudience)
	if err != nil {
		return "", err
	}
	defer done()

	return p.strategist.SuggestAudience(ctx, brandName, industry, tone)
}

// SuggestPillars asks for pillars for draft, or for the session persona when
// draft is nil.
func (p *Planner) SuggestPillars(ctx context.Context, draft *models.Persona) ([]string, error) {
	done, err := p.begin(prompts.OpSuggestPillars)
	if err != nil {
		return nil, err
	}
	defer done()

	if draft == nil {
		draft = p.state.Persona()
	}
	return p.strategist.SuggestPillars(ctx, draft)
}

// AddSuggestedPillars merges the first few suggestions into the persona.
func (p *Planner) AddSuggestedPillars(ctx context.Context, pillars []string) (*models.Persona, error) {
	return p.updatePersona(ctx, func(persona *models.Persona) {
		persona.MergeSuggestedPillars(pillars, SuggestedPillarLimit)
	})
}

// SetPersona replaces the persona after normalising it.
func (p *Planner) SetPersona(ctx context.Context, persona *models.Persona) (*models.Persona, error) {
	if persona == nil {
		return nil, fmt.Errorf("persona is required")
	}
	next := persona.Clone()
	next.Normalize()
	if next.ID == "" {
		next.ID = p.state.Persona().ID
	}
	if p.store != nil {
		if err := p.store.SavePersona(ctx, next); err != nil {
			return nil, fmt.Errorf("failed to save persona: %w", err)
		}
	}
	p.state.SetPersona(next)
	return next.Clone(), nil
}

func (p *Planner) updatePersona(ctx context.Context, fn func(*models.Persona)) (*models.Persona, error) {
	next := p.state.Persona()
	fn(next)
	if p.store != nil {
		if err := p.store.SavePersona(ctx, next); err != nil {
			return nil, fmt.Errorf("failed to save persona: %w", err)
		}
	}
	p.state.SetPersona(next)
	return next, nil
}

// ChatTurn answers message. The live data block is recomputed from the
// current posts and metrics on every turn and the full history is sent.
// Model failures degrade to a fixed reply; both messages are appended only
// once the reply is known.
func (p *Planner) ChatTurn(ctx context.Context, message string) (models.ChatMessage, error) {
	done, err := p.begin(prompts.OpChatTurn)
	if err != nil {
		return models.ChatMessage{}, err
	}
	defer done()

	now := p.now()
	userMsg := models.NewChatMessage(models.RoleUser, message, now)

	text, degraded := p.strategist.ChatTurn(ctx, p.state.Persona(), p.state.Chat(), message, p.state.LiveData(now))
	if degraded {
		p.logger.Warn("Chat turn degraded to fallback reply")
	}
	reply := models.NewChatMessage(models.RoleModel, text, p.now())

	if p.store != nil {
		if err := p.store.SaveChatMessages(ctx, userMsg, reply); err != nil {
			return models.ChatMessage{}, fmt.Errorf("failed to save chat messages: %w", err)
		}
	}
	p.state.AppendChat(userMsg, reply)
	return reply, nil
}

// Upcoming lists posts dated at or after now, earliest first.
func (p *Planner) Upcoming(limit int) []*models.GeneratedPost {
	return schedule.Upcoming(p.state.Posts(), p.now(), limit)
}

func (p *Planner) savePosts(ctx context.Context, place Placement, posts ...*models.GeneratedPost) error {
	if p.store == nil {
		return nil
	}
	if err := p.store.SavePosts(ctx, place, posts...); err != nil {
		return fmt.Errorf("failed to save posts: %w", err)
	}
	return nil
}
