package agents

import (
	"context"
	"strings"

	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/prompts"
)

// Chat replies used when a turn cannot be answered.
const (
	ChatErrorReply = "I apologize, I encountered an error connecting to my thought engine."
	ChatEmptyReply = "I'm having trouble thinking right now."
)

// ChatTurn answers message given the full history and the live data block
// computed for this turn. Failures never block the conversation: the reply
// degrades to a fixed message and degraded is set.
func (s *Strategist) ChatTurn(ctx context.Context, persona *models.Persona, history []models.ChatMessage, message, liveData string) (reply string, degraded bool) {
	if persona == nil {
		persona = models.NewPersona("", "")
	}
	text, err := s.complete(ctx, prompts.ChatTurn(persona, history, message, liveData), nil)
	if err != nil {
		return ChatErrorReply, true
	}
	if strings.TrimSpace(text) == "" {
		return ChatEmptyReply, true
	}
	return text, false
}
