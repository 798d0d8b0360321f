package slack

import (
	"context"
	"fmt"
	"sync"

	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"

	"github.com/shubh-37/social-strategist/internal/session"
)

type ApprovalHandler struct {
	client     Messenger
	planner    *session.Planner
	logger     *zap.Logger
	mu         sync.Mutex
	draftCache map[string]string // messageTS -> postID
}

func NewApprovalHandler(client Messenger, planner *session.Planner, logger *zap.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		client:     client,
		planner:    planner,
		logger:     logger,
		draftCache: make(map[string]string),
	}
}

// StoreDraftMessage stores the mapping between a Slack message and its post
func (h *ApprovalHandler) StoreDraftMessage(messageTS, postID string) {
	h.mu.Lock()
	h.draftCache[messageTS] = postID
	h.mu.Unlock()
	h.logger.Debug("📌 Stored draft message mapping", zap.String("ts", messageTS), zap.String("post_id", postID))
}

func (h *ApprovalHandler) draftFor(messageTS string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id, ok := h.draftCache[messageTS]
	return id, ok
}

// HandleReaction schedules the draft behind a message on ✅ or 📅.
func (h *ApprovalHandler) HandleReaction(ctx context.Context, event *slackevents.ReactionAddedEvent) error {
	postID, exists := h.draftFor(event.Item.Timestamp)
	if !exists {
		return nil
	}

	switch event.Reaction {
	case "white_check_mark", "heavy_check_mark", "calendar", "date", "spiral_calendar_pad":
		return h.scheduleDraft(ctx, event.Item.Channel, postID)
	}
	return nil
}

func (h *ApprovalHandler) scheduleDraft(ctx context.Context, channelID, postID string) error {
	post, err := h.planner.SchedulePost(ctx, postID)
	if err != nil {
		h.logger.Warn("⚠️ Failed to schedule draft", zap.String("post_id", postID), zap.Error(err))
		return h.client.SendMessage(channelID, "❌ Couldn't schedule that draft.")
	}

	h.logger.Info("📅 Scheduled draft", zap.String("post_id", postID))
	return h.client.SendMessage(channelID, fmt.Sprintf("📅 Scheduled your %s post for %s.",
		post.Platform.DisplayName(), post.CreatedAt.Format("Jan 02 at 3:04 PM")))
}
