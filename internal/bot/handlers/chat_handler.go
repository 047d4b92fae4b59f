package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/zenify/companion/internal/companion"
)

// NewDefaultHandler returns the handler for updates no command matched: plain
// text goes to the companion, an exported profile with an /import caption is
// imported, and unknown commands get a hint.
func NewDefaultHandler(deps HandlerDeps) bot.HandlerFunc {
	chat := chatHandler{deps}
	imp := importHandler{deps}
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		msg := update.Message
		switch {
		case msg == nil || msg.From == nil:
			return
		case msg.Document != nil && strings.HasPrefix(strings.TrimSpace(msg.Caption), "/import"):
			imp.Handle(ctx, b, update)
		case strings.HasPrefix(strings.TrimSpace(msg.Text), "/"):
			sendText(ctx, b, deps.Logger, msg.Chat.ID, "Unknown command. Use /help to see what I can do.")
		case msg.Text != "":
			chat.Handle(ctx, b, update)
		}
	}
}

// chatHandler sends a plain message to the companion and relays the reply.
type chatHandler struct {
	deps HandlerDeps
}

func (h chatHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "chat")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	store, err := h.deps.userStore(update)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	conv, err := h.deps.Companion.StartConversation(ctx, store)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}

	typingCtx, stopTyping := context.WithCancel(ctx)
	go keepTyping(typingCtx, b, log, chatID)
	ex, err := h.deps.Companion.SendMessage(ctx, store, conv.ID, update.Message.Text)
	stopTyping()

	switch {
	case errors.Is(err, companion.ErrEmptyMessage):
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ProvideMessage)
		return
	case err != nil:
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	case ex == nil:
		h.deps.sendError(ctx, b, log, chatID, errors.New("conversation disappeared during send"))
		return
	}

	if ex.UserMessage.Flagged {
		log.WarnContext(ctx, "Sending support message for flagged chat", "namespace", store.Namespace(), "message_id", ex.UserMessage.ID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.FlaggedSupport)
	}
	sendText(ctx, b, log, chatID, ex.Reply.Content)
}
