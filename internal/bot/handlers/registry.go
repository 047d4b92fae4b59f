package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler describes a command: how it is matched, its handler, its
// middleware and the description shown in the Telegram command menu.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
	// Description is empty for commands hidden from the menu.
	Description string
}

func command(pattern, description string, h tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
	return RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     pattern,
		Handler:     h,
		Middleware:  mw,
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Description: description,
	}
}

// RegisterAllCommands returns every bot command keyed by its name.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := map[string]RegisteredHandler{
		"start":      command("start", "Start Zenify", NewStartHandler(deps)),
		"help":       command("help", "What I can do", NewHelpHandler(deps)),
		"journal":    command("journal", "Write a journal entry", NewJournalHandler(deps)),
		"journals":   command("journals", "List or search your journal", NewJournalsHandler(deps)),
		"deljournal": command("deljournal", "Delete a journal entry", NewDeleteJournalHandler(deps)),
		"mood":       command("mood", "Track your mood", NewMoodHandler(deps)),
		"moods":      command("moods", "Your recent moods", NewMoodsHandler(deps)),
		"stats":      command("stats", "Your progress", NewStatsHandler(deps)),
		"new":        command("new", "Start a new conversation", NewConversationHandler(deps)),
		"clear":      command("clear", "Clear the current conversation", NewClearHandler(deps)),
		"settings":   command("settings", "Show or change settings", NewSettingsHandler(deps)),
		"export":     command("export", "Download your data", NewExportHandler(deps)),
	}

	adminOnly := AdminOnly(deps)
	handlers["flagged"] = command("flagged", "", NewFlaggedHandler(deps), adminOnly)
	handlers["review"] = command("review", "", NewReviewHandler(deps), adminOnly)

	return handlers
}
