// Package session owns the planner's single-writer state: the persona, the
// post collection, the chat history and the headline metrics.
package session

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/prompts"
	"github.com/shubh-37/social-strategist/internal/schedule"
)

var ErrPostNotFound = errors.New("post not found")

// State is the session's single owner of mutable data. Readers get copies;
// writers go through the methods below.
type State struct {
	mu      sync.RWMutex
	persona *models.Persona
	posts   []*models.GeneratedPost
	chat    []models.ChatMessage
	metrics []models.AnalyticsMetric
}

// Snapshot is a point-in-time copy of the state, used for persistence.
type Snapshot struct {
	Persona *models.Persona
	Posts   []*models.GeneratedPost
	Chat    []models.ChatMessage
	Metrics []models.AnalyticsMetric
}

func NewState(persona *models.Persona) *State {
	if persona == nil {
		persona = models.NewPersona("", "")
	}
	return &State{persona: persona.Clone()}
}

// Restore builds a state from a stored snapshot.
func Restore(snap *Snapshot) *State {
	s := NewState(snap.Persona)
	s.posts = copyPosts(snap.Posts)
	s.chat = slices.Clone(snap.Chat)
	s.metrics = slices.Clone(snap.Metrics)
	return s
}

func (s *State) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Snapshot{
		Persona: s.persona.Clone(),
		Posts:   copyPosts(s.posts),
		Chat:    slices.Clone(s.chat),
		Metrics: slices.Clone(s.metrics),
	}
}

func (s *State) Persona() *models.Persona {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persona.Clone()
}

func (s *State) SetPersona(p *models.Persona) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persona = p.Clone()
}

// Posts returns copies of all posts, newest drafts first.
func (s *State) Posts() []*models.GeneratedPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyPosts(s.posts)
}

func (s *State) Post(id string) (*models.GeneratedPost, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return copyPost(s.posts[i]), true
	}
	return nil, false
}

// AddPost puts a new post at the front of the collection.
func (s *State) AddPost(p *models.GeneratedPost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append([]*models.GeneratedPost{copyPost(p)}, s.posts...)
}

// MergeProposal appends proposed posts after the existing ones.
func (s *State) MergeProposal(proposed []*models.GeneratedPost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = schedule.Merge(s.posts, copyPosts(proposed))
}

// SchedulePost marks a post scheduled and dates it at now.
func (s *State) SchedulePost(id string, now time.Time) (*models.GeneratedPost, error) {
	return s.updatePost(id, func(p *models.GeneratedPost) {
		p.Status = models.StatusScheduled
		p.CreatedAt = now
	})
}

func (s *State) AttachImage(id, url string) (*models.GeneratedPost, error) {
	return s.updatePost(id, func(p *models.GeneratedPost) { p.ImageURL = url })
}

func (s *State) updatePost(id string, fn func(*models.GeneratedPost)) (*models.GeneratedPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrPostNotFound
	}
	fn(s.posts[i])
	return copyPost(s.posts[i]), nil
}

func (s *State) indexOf(id string) int {
	return slices.IndexFunc(s.posts, func(p *models.GeneratedPost) bool { return p.ID == id })
}

func (s *State) AppendChat(msgs ...models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = append(s.chat, msgs...)
}

func (s *State) Chat() []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.chat)
}

func (s *State) SetMetrics(m []models.AnalyticsMetric) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = slices.Clone(m)
}

func (s *State) Metrics() []models.AnalyticsMetric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.metrics)
}

// LiveData renders the metrics and upcoming schedule as of now.
func (s *State) LiveData(now time.Time) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return prompts.LiveDataContext(s.metrics, s.posts, now)
}

func copyPost(p *models.GeneratedPost) *models.GeneratedPost {
	cp := *p
	cp.Hashtags = slices.Clone(p.Hashtags)
	return &cp
}

func copyPosts(posts []*models.GeneratedPost) []*models.GeneratedPost {
	out := make([]*models.GeneratedPost, len(posts))
	for i, p := range posts {
		out[i] = copyPost(p)
	}
	return out
}
