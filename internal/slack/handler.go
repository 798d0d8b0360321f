package slack

import (
	"context"
	"strings"

	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"

	"github.com/shubh-37/social-strategist/internal/session"
)

// MessageHandler routes messages to commands or to the strategist chat.
type MessageHandler struct {
	client         Messenger
	planner        *session.Planner
	commandHandler *CommandHandler
	logger         *zap.Logger
}

func NewMessageHandler(client Messenger, planner *session.Planner, commandHandler *CommandHandler, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		client:         client,
		planner:        planner,
		commandHandler: commandHandler,
		logger:         logger,
	}
}

func (h *MessageHandler) HandleMessage(ctx context.Context, event *slackevents.MessageEvent) error {
	if event.BotID != "" || event.User == h.client.BotID() || event.SubType != "" {
		return nil
	}

	if event.ThreadTimeStamp != "" && event.ThreadTimeStamp != event.TimeStamp {
		return nil
	}

	// Mentions arrive again as app_mention events.
	if strings.HasPrefix(strings.TrimSpace(event.Text), "<@") {
		return nil
	}

	return h.dispatch(ctx, event.Channel, event.Text)
}

func (h *MessageHandler) HandleAppMention(ctx context.Context, event *slackevents.AppMentionEvent) error {
	text := strings.Replace(event.Text, "<@"+h.client.BotID()+">", "", 1)
	return h.dispatch(ctx, event.Channel, text)
}

func (h *MessageHandler) dispatch(ctx context.Context, channelID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if cmd, ok := ParseCommand(text); ok {
		return h.commandHandler.Handle(ctx, channelID, cmd)
	}

	reply, err := h.planner.ChatTurn(ctx, text)
	if err != nil {
		h.logger.Error("❌ Chat turn failed", zap.Error(err))
		return h.client.SendMessage(channelID, failureMessage("answer", err))
	}
	return h.client.SendMessage(channelID, reply.Text)
}
