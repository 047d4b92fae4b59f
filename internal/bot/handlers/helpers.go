package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/zenify/companion/internal/profile"
	"github.com/zenify/companion/internal/text"
)

// namespacePrefix marks storage namespaces owned by Telegram users.
const namespacePrefix = "tg-"

// maxMessageRunes keeps replies under Telegram's 4096 character limit.
const maxMessageRunes = 4000

// Namespace returns the storage namespace of a Telegram user.
func Namespace(userID int64) string {
	return namespacePrefix + strconv.FormatInt(userID, 10)
}

// ParseNamespace extracts the Telegram user id from a namespace created by Namespace.
func ParseNamespace(ns string) (int64, bool) {
	rest, ok := strings.CutPrefix(ns, namespacePrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// CommandArgs returns the text after the leading /command (with an optional
// @botname suffix), trimmed.
func CommandArgs(msg string) string {
	msg = strings.TrimSpace(msg)
	if !strings.HasPrefix(msg, "/") {
		return msg
	}
	i := strings.IndexFunc(msg, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(msg[i:])
}

// userStore returns the profile store of the message sender.
func (d HandlerDeps) userStore(update *models.Update) (*profile.Store, error) {
	if update.Message == nil || update.Message.From == nil {
		return nil, fmt.Errorf("update %d has no sender", update.ID)
	}
	return d.Registry.Get(Namespace(update.Message.From.ID))
}

// validMessage reports whether update carries a message with a sender.
func validMessage(ctx context.Context, log *slog.Logger, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Handler received update with nil message or sender", "update_id", update.ID)
		return false
	}
	return true
}

// sendText sends msg to chatID, cut to Telegram's size limit.
func sendText(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, msg string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text.Truncate(msg, maxMessageRunes),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}

// sendError logs err and tells the user something went wrong.
func (d HandlerDeps) sendError(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, err error) {
	log.ErrorContext(ctx, "Handler failed", "error", err, "chat_id", chatID)
	sendText(ctx, b, log, chatID, d.Config.Messages.GeneralError)
}
