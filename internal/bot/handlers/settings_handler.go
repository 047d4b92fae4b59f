package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/zenify/companion/internal/model"
	"github.com/zenify/companion/internal/profile"
)

// NewSettingsHandler returns a handler for /settings. Without arguments it
// shows the current settings.
func NewSettingsHandler(deps HandlerDeps) bot.HandlerFunc {
	return settingsHandler{deps}.Handle
}

type settingsHandler struct {
	deps HandlerDeps
}

func (h settingsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "settings")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	store, err := h.deps.userStore(update)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	p, err := store.GetProfile(ctx)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}

	args := CommandArgs(update.Message.Text)
	if args == "" {
		sendText(ctx, b, log, chatID, formatSettings(p)+"\n\n"+h.deps.Config.Messages.SettingsUsage)
		return
	}

	change, err := ParseSettings(args, p.Settings)
	if err != nil {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.SettingsUsage)
		return
	}
	p, err = store.UpdateProfile(ctx, profile.Patch{Name: change.Name, Settings: &change.Settings})
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	log.InfoContext(ctx, "Settings updated", "namespace", store.Namespace())
	sendText(ctx, b, log, chatID, "Settings saved.\n\n"+formatSettings(p))
}

func formatSettings(p *model.UserProfile) string {
	notify := "off"
	if p.Settings.Notifications {
		notify = "on"
	}
	name := p.Name
	if name == "" {
		name = "(not set)"
	}
	return fmt.Sprintf("Name: %s\nTheme: %s\nFont size: %s\nMood reminders: %s",
		name, p.Settings.Theme, p.Settings.FontSize, notify)
}
