package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"
)

// Server verifies and routes Slack Events API callbacks.
type Server struct {
	messageHandler  *MessageHandler
	approvalHandler *ApprovalHandler
	signingSecret   string
	logger          *zap.Logger
}

func NewServer(messageHandler *MessageHandler, approvalHandler *ApprovalHandler, signingSecret string, logger *zap.Logger) *Server {
	logger.Info("🔐 Slack signing secret configured", zap.Int("length", len(signingSecret)))
	return &Server{
		messageHandler:  messageHandler,
		approvalHandler: approvalHandler,
		signingSecret:   signingSecret,
		logger:          logger,
	}
}

// HandleEvents is the /slack/events endpoint.
func (s *Server) HandleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error("❌ Error reading body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	sv, err := slack.NewSecretsVerifier(r.Header, s.signingSecret)
	if err != nil {
		s.logger.Error("❌ Error creating secrets verifier", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if _, err := sv.Write(body); err != nil {
		s.logger.Error("❌ Error writing to verifier", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := sv.Ensure(); err != nil {
		s.logger.Warn("❌ Error verifying signature", zap.Error(err))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// Generation outlives Slack's retry window; a retry would run it twice.
	if r.Header.Get("X-Slack-Retry-Num") != "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	eventsAPIEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		s.logger.Error("❌ Error parsing event", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if eventsAPIEvent.Type == slackevents.URLVerification {
		var challenge *slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			s.logger.Error("❌ Error unmarshaling challenge", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		s.logger.Info("✅ Responding to URL verification challenge")
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(challenge.Challenge))
		return
	}

	if eventsAPIEvent.Type == slackevents.CallbackEvent {
		s.dispatch(context.WithoutCancel(r.Context()), eventsAPIEvent.InnerEvent)
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) dispatch(ctx context.Context, innerEvent slackevents.EventsAPIInnerEvent) {
	s.logger.Debug("📬 Inner event", zap.String("type", innerEvent.Type))

	var err error
	switch ev := innerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		err = s.messageHandler.HandleMessage(ctx, ev)
	case *slackevents.AppMentionEvent:
		err = s.messageHandler.HandleAppMention(ctx, ev)
	case *slackevents.ReactionAddedEvent:
		err = s.approvalHandler.HandleReaction(ctx, ev)
	default:
		s.logger.Debug("⚠️ Unsupported event type", zap.String("type", innerEvent.Type))
	}

	if err != nil {
		s.logger.Error("❌ Error handling event", zap.String("type", innerEvent.Type), zap.Error(err))
	}
}
