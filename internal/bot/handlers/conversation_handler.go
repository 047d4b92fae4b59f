package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/zenify/companion/internal/text"
)

// NewConversationHandler returns a handler for /new [title]. The new
// conversation becomes the one plain messages go to.
func NewConversationHandler(deps HandlerDeps) bot.HandlerFunc {
	return newConversationHandler{deps}.Handle
}

type newConversationHandler struct {
	deps HandlerDeps
}

func (h newConversationHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "new")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	store, err := h.deps.userStore(update)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	conv, err := store.CreateConversation(ctx, text.NormalizeInput(CommandArgs(update.Message.Text)))
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	log.InfoContext(ctx, "Conversation created", "namespace", store.Namespace(), "conversation_id", conv.ID)
	sendText(ctx, b, log, chatID, h.deps.Config.Messages.ConversationNew)
}

// NewClearHandler returns a handler for /clear, which empties the current conversation.
func NewClearHandler(deps HandlerDeps) bot.HandlerFunc {
	return clearHandler{deps}.Handle
}

type clearHandler struct {
	deps HandlerDeps
}

func (h clearHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "clear")
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
	if _, err := store.ClearConversation(ctx, conv.ID); err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	log.InfoContext(ctx, "Conversation cleared", "namespace", store.Namespace(), "conversation_id", conv.ID)
	sendText(ctx, b, log, chatID, h.deps.Config.Messages.ConversationCleared)
}
