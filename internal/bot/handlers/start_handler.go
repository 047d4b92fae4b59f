package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/zenify/companion/internal/quotes"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler creates the user's profile and greets them with the quote of the day.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	store, err := h.deps.userStore(update)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	p, err := store.Initialize(ctx)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	if p.Name == "" && update.Message.From.FirstName != "" {
		if _, err := store.SetName(ctx, update.Message.From.FirstName); err != nil {
			log.WarnContext(ctx, "Failed to store display name", "error", err, "namespace", store.Namespace())
		}
	}

	log.InfoContext(ctx, "Handling /start command", "chat_id", chatID, "namespace", store.Namespace())
	sendText(ctx, b, log, chatID, h.deps.Config.Messages.Welcome+"\n\n"+quotes.ForDay(h.deps.now()).String())
}
