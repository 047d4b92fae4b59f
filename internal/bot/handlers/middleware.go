// Package handlers contains the Telegram command and message handlers of the
// companion bot, along with their registration and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly lets the update through only when the sender's profile has
// isAdmin set. Everyone else gets the unauthorized message.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			log := deps.Logger.With("middleware", "admin_only")
			if !validMessage(ctx, log, update) {
				return
			}
			chatID := update.Message.Chat.ID

			store, err := deps.userStore(update)
			if err != nil {
				deps.sendError(ctx, b, log, chatID, err)
				return
			}
			p, err := store.GetProfile(ctx)
			if err != nil {
				deps.sendError(ctx, b, log, chatID, err)
				return
			}
			if !p.IsAdmin {
				log.WarnContext(ctx, "Unauthorized access attempt", "user_id", update.Message.From.ID, "chat_id", chatID)
				sendText(ctx, b, log, chatID, deps.Config.Messages.Unauthorized)
				return
			}

			next(ctx, b, update)
		}
	}
}
