// Package companion runs the chat exchange between a user and the AI companion
// on top of a profile store.
package companion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zenify/companion/internal/model"
	"github.com/zenify/companion/internal/profile"
	"github.com/zenify/companion/internal/text"
)

// DefaultTimeout bounds a single AI call.
const DefaultTimeout = 60 * time.Second

// ErrEmptyMessage is returned when the message has no visible text.
var ErrEmptyMessage = errors.New("message is empty")

// Replier produces the assistant reply that follows a conversation.
type Replier interface {
	GenerateReply(ctx context.Context, messages []model.ChatMessage) (string, error)
}

// Service sends user messages to the Replier and stores both sides.
type Service struct {
	replier Replier
	log     *slog.Logger
	timeout time.Duration
	window  *text.Window
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each AI call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxContextTokens limits how much history is sent to the Replier.
// Zero sends the whole conversation.
func WithMaxContextTokens(n int) Option {
	return func(s *Service) { s.window = text.NewWindow(n) }
}

// NewService creates a Service around replier.
func NewService(replier Replier, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		replier: replier,
		log:     log.With("component", "companion"),
		timeout: DefaultTimeout,
		window:  text.NewWindow(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Exchange is the outcome of one SendMessage call.
type Exchange struct {
	Conversation *model.Conversation
	UserMessage  model.ChatMessage
	Reply        model.ChatMessage
	// Fallback is set when Reply is the apology stored after an AI failure.
	Fallback bool
}

// StartConversation returns the most recently updated conversation, creating
// one when the profile has none.
func (s *Service) StartConversation(ctx context.Context, store *profile.Store) (*model.Conversation, error) {
	convs, err := store.GetConversations(ctx)
	if err != nil {
		return nil, err
	}
	if latest := Latest(convs); latest != nil {
		return latest, nil
	}
	conv, err := store.CreateConversation(ctx, "")
	if err != nil {
		return nil, err
	}
	s.log.DebugContext(ctx, "Conversation started", "namespace", store.Namespace(), "conversation_id", conv.ID)
	return conv, nil
}

// Latest returns the conversation with the newest UpdatedAt, or nil.
func Latest(convs []model.Conversation) *model.Conversation {
	var latest *model.Conversation
	for i := range convs {
		if latest == nil || convs[i].UpdatedAt.After(latest.UpdatedAt) {
			latest = &convs[i]
		}
	}
	if latest == nil {
		return nil
	}
	c := *latest
	return &c
}

// SendMessage stores content as a user message in the conversation, asks the
// Replier for an answer and stores it as the assistant message. The system
// prompt is added first, in the same write, when the conversation is still
// empty, so concurrent first sends seed it once. The store lock
// is not held during the AI call. A failed call stores ApologyMessage instead.
// It returns nil when the conversation does not exist.
func (s *Service) SendMessage(ctx context.Context, store *profile.Store, conversationID, content string) (*Exchange, error) {
	content = text.NormalizeInput(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	log := s.log.With("namespace", store.Namespace(), "conversation_id", conversationID)

	conv, err := store.AppendMessage(ctx, conversationID, profile.MessageInput{
		Role:        model.RoleUser,
		Content:     content,
		SeedIfEmpty: &profile.MessageInput{Role: model.RoleSystem, Content: TherapistSystemPrompt},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}
	if conv == nil {
		return nil, nil
	}
	userMsg := conv.Messages[len(conv.Messages)-1]
	if userMsg.Flagged {
		log.WarnContext(ctx, "User message flagged", "message_id", userMsg.ID, "reason", userMsg.FlagReason)
	}

	reply, fallback := s.generate(ctx, log, conv.Messages)

	conv, err = store.AppendMessage(ctx, conversationID, profile.MessageInput{Role: model.RoleAssistant, Content: reply})
	if err != nil {
		return nil, fmt.Errorf("failed to store reply: %w", err)
	}
	if conv == nil {
		log.InfoContext(ctx, "Conversation deleted while waiting for reply")
		return nil, nil
	}

	log.DebugContext(ctx, "Exchange stored", "messages", len(conv.Messages), "fallback", fallback)
	return &Exchange{
		Conversation: conv,
		UserMessage:  userMsg,
		Reply:        conv.Messages[len(conv.Messages)-1],
		Fallback:     fallback,
	}, nil
}

// generate calls the Replier under the service timeout and maps failures and
// empty answers to the fixed fallback texts.
func (s *Service) generate(ctx context.Context, log *slog.Logger, history []model.ChatMessage) (string, bool) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	raw, err := s.replier.GenerateReply(callCtx, s.window.Select(history))
	if err != nil {
		log.ErrorContext(ctx, "AI reply failed", "error", err, "duration", time.Since(started))
		return ApologyMessage, true
	}

	reply := text.PlainText(raw)
	if reply == "" {
		log.WarnContext(ctx, "AI reply was empty", "duration", time.Since(started))
		return EmptyReplyMessage, false
	}
	log.DebugContext(ctx, "AI reply received", "chars", len(reply), "duration", time.Since(started))
	return reply, false
}
