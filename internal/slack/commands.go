package slack

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shubh-37/social-strategist/internal/agents"
	"github.com/shubh-37/social-strategist/internal/errs"
	"github.com/shubh-37/social-strategist/internal/models"
	"github.com/shubh-37/social-strategist/internal/session"
)

type CommandKind string

const (
	CommandGenerate CommandKind = "generate"
	CommandSchedule CommandKind = "schedule"
	CommandUpcoming CommandKind = "upcoming"
	CommandDrafts   CommandKind = "drafts"
	CommandHelp     CommandKind = "help"
)

// Command is a parsed bot command. Anything that does not parse is a chat
// message for the strategist.
type Command struct {
	Kind     CommandKind
	Platform models.Platform
	Topic    string
	Request  string
}

// ParseCommand recognises:
//
//	generate <platform> <topic>
//	schedule <request>
//	upcoming
//	drafts
//	help
func ParseCommand(text string) (Command, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Command{}, false
	}

	switch CommandKind(strings.ToLower(fields[0])) {
	case CommandGenerate:
		if len(fields) < 3 {
			return Command{}, false
		}
		platform := models.ParsePlatform(fields[1])
		if !platform.Valid() {
			return Command{}, false
		}
		return Command{Kind: CommandGenerate, Platform: platform, Topic: strings.Join(fields[2:], " ")}, true
	case CommandSchedule:
		if len(fields) < 2 {
			return Command{}, false
		}
		return Command{Kind: CommandSchedule, Request: strings.Join(fields[1:], " ")}, true
	case CommandUpcoming, CommandDrafts, CommandHelp:
		if len(fields) != 1 {
			return Command{}, false
		}
		return Command{Kind: CommandKind(strings.ToLower(fields[0]))}, true
	}
	return Command{}, false
}

type CommandHandler struct {
	client   Messenger
	planner  *session.Planner
	approval *ApprovalHandler
	logger   *zap.Logger
	now      func() time.Time
}

func NewCommandHandler(client Messenger, planner *session.Planner, approval *ApprovalHandler, logger *zap.Logger) *CommandHandler {
	return &CommandHandler{
		client:   client,
		planner:  planner,
		approval: approval,
		logger:   logger,
		now:      time.Now,
	}
}

func (h *CommandHandler) Handle(ctx context.Context, channelID string, cmd Command) error {
	switch cmd.Kind {
	case CommandGenerate:
		return h.HandleGenerate(ctx, channelID, cmd.Platform, cmd.Topic)
	case CommandSchedule:
		return h.HandleSchedule(ctx, channelID, cmd.Request)
	case CommandUpcoming:
		return h.HandleUpcoming(channelID)
	case CommandDrafts:
		return h.HandleListDrafts(channelID)
	default:
		return h.client.SendMessage(channelID, helpText)
	}
}

// HandleGenerate drafts a post and registers the message for reactions.
func (h *CommandHandler) HandleGenerate(ctx context.Context, channelID string, platform models.Platform, topic string) error {
	h.logger.Info("📝 Generating draft", zap.String("platform", string(platform)), zap.String("topic", topic))
	h.client.SendMessage(channelID, fmt.Sprintf("✨ Drafting a %s post... This may take a moment.", platform.DisplayName()))

	post, err := h.planner.GeneratePost(ctx, platform, topic, "")
	if err != nil {
		h.logger.Error("❌ Failed to generate post", zap.Error(err))
		return h.client.SendMessage(channelID, failureMessage("generate post", err))
	}

	ts, err := h.client.PostMessage(channelID, formatDraft(post))
	if err != nil {
		return err
	}
	h.approval.StoreDraftMessage(ts, post.ID)
	return nil
}

// HandleSchedule asks for a schedule proposal anchored on the current month
// and merges it.
func (h *CommandHandler) HandleSchedule(ctx context.Context, channelID, request string) error {
	h.logger.Info("📅 Handling schedule request", zap.String("request", request))
	h.client.SendMessage(channelID, "📅 Planning your calendar... This may take a moment.")

	proposal, err := h.planner.ProposeSchedule(ctx, request, h.now())
	if err != nil {
		h.logger.Error("❌ Failed to propose schedule", zap.Error(err))
		return h.client.SendMessage(channelID, failureMessage("plan the schedule", err))
	}

	accepted, err := h.planner.AcceptProposal(ctx, proposal)
	if err != nil {
		h.logger.Error("❌ Failed to merge proposal", zap.Error(err))
		return h.client.SendMessage(channelID, "❌ Failed to save the schedule. Please try again.")
	}
	proposal.Posts = accepted

	return h.client.SendMessage(channelID, formatProposal(proposal))
}

func (h *CommandHandler) HandleUpcoming(channelID string) error {
	upcoming := h.planner.Upcoming(10)
	if len(upcoming) == 0 {
		return h.client.SendMessage(channelID, "📭 No posts scheduled. Try `schedule 3 posts for next week`!")
	}
	return h.client.SendMessage(channelID, formatUpcoming(upcoming))
}

func (h *CommandHandler) HandleListDrafts(channelID string) error {
	var drafts []*models.GeneratedPost
	for _, p := range h.planner.State().Posts() {
		if p.Status == models.StatusDraft {
			drafts = append(drafts, p)
		}
	}

	if len(drafts) == 0 {
		return h.client.SendMessage(channelID, "📭 No pending drafts. Use `generate <platform> <topic>` to create one!")
	}

	message := fmt.Sprintf("📝 *Pending Drafts* (%d)\n\n", len(drafts))
	for i, draft := range drafts {
		if i >= 5 {
			message += fmt.Sprintf("_...and %d more_\n", len(drafts)-5)
			break
		}
		message += fmt.Sprintf("*%d. [%s]* %s\n\n", i+1, draft.Platform.DisplayName(), preview(draft.Content, 100))
	}

	return h.client.SendMessage(channelID, message)
}

func formatDraft(post *models.GeneratedPost) string {
	message := fmt.Sprintf("🎯 *%s Draft*\n\n", post.Platform.DisplayName())
	message += "━━━━━━━━━━━━━━━━━━\n"
	message += post.Content + "\n\n"
	if len(post.Hashtags) > 0 {
		message += strings.Join(post.Hashtags, " ") + "\n\n"
	}
	message += "━━━━━━━━━━━━━━━━━━\n"
	message += fmt.Sprintf("*Why it works:* %s\n", post.Rationale)
	message += fmt.Sprintf("*Visual:* %s\n", post.VisualSuggestion)
	message += fmt.Sprintf("*Best time:* %s | *Est. engagement:* %s\n\n", post.SuggestedTime, post.EstimatedEngagement)
	message += "💡 React with ✅ or 📅 to schedule this draft."
	return message
}

func formatProposal(proposal *models.ScheduleProposal) string {
	if len(proposal.Posts) == 0 {
		return "📭 The strategist did not propose any posts. " + proposal.Explanation
	}

	message := fmt.Sprintf("✅ *Added %d posts to your calendar*\n\n", len(proposal.Posts))
	message += "_" + proposal.Explanation + "_\n\n"
	for i, post := range proposal.Posts {
		message += fmt.Sprintf("%d. *%s* [%s] %s\n   %s\n",
			i+1, post.CreatedAt.Format("Jan 02"), post.Platform.DisplayName(), post.SuggestedTime, preview(post.Content, 80))
	}
	return message
}

func formatUpcoming(posts []*models.GeneratedPost) string {
	message := "📅 *Upcoming Posts*\n\n"
	for i, post := range posts {
		message += fmt.Sprintf("*%d. %s* [%s]\n%s\n\n",
			i+1, post.CreatedAt.Format("Mon Jan 02"), post.Platform.DisplayName(), preview(post.Content, 80))
	}
	message += fmt.Sprintf("_Total: %d upcoming posts_", len(posts))
	return message
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// failureMessage turns an error into something a user can act on.
func failureMessage(action string, err error) string {
	var classified *errs.Error
	switch {
	case errors.Is(err, session.ErrBusy):
		return "⏳ I'm still working on your previous request. Give me a moment."
	case errors.Is(err, agents.ErrInvalidInput):
		return "❌ " + err.Error()
	case errors.As(err, &classified):
		return "❌ " + classified.Message()
	}
	return fmt.Sprintf("❌ Failed to %s. Please try again.", action)
}

const helpText = `*Social Strategist*

I draft posts, plan your calendar and answer strategy questions.

*Commands:*
- generate <platform> <topic> - Draft a post (instagram, linkedin, twitter, tiktok, threads)
- schedule <request> - Plan posts, e.g. ` + "`schedule 3 posts for Black Friday`" + `
- upcoming - Show the next scheduled posts
- drafts - Show pending drafts
- help - Show this help

Anything else is a question for the strategist.
React with ✅ or 📅 on a draft to schedule it.`
