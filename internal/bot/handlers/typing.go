package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// typingInterval re-sends the typing action before Telegram's 5s expiry.
const typingInterval = 4 * time.Second

// keepTyping shows the typing indicator in chatID until ctx is done.
func keepTyping(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64) {
	ticker := time.NewTicker(typingInterval)
	defer ticker.Stop()

	for {
		_, err := b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.DebugContext(ctx, "Typing action failed", "error", err, "chat_id", chatID)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
