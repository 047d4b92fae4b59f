package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/zenify/companion/internal/model"
)

// NewJournalHandler returns a handler for /journal, which writes an entry.
func NewJournalHandler(deps HandlerDeps) bot.HandlerFunc {
	return journalHandler{deps}.Handle
}

type journalHandler struct {
	deps HandlerDeps
}

func (h journalHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "journal")
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

	in, err := ParseJournal(CommandArgs(update.Message.Text), p.Mood.Current)
	if err != nil {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.JournalUsage)
		return
	}

	entry, err := store.AddJournal(ctx, in)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	log.InfoContext(ctx, "Journal entry saved", "namespace", store.Namespace(), "journal_id", entry.ID, "flagged", entry.Flagged)

	reply := fmt.Sprintf("Saved %q (%s).", entry.Title, entry.Mood.Label())
	if entry.Flagged {
		reply += "\n\n" + h.deps.Config.Messages.FlaggedSupport
	}
	sendText(ctx, b, log, chatID, reply)
}

// NewJournalsHandler returns a handler for /journals [query|#tag].
func NewJournalsHandler(deps HandlerDeps) bot.HandlerFunc {
	return journalsHandler{deps}.Handle
}

type journalsHandler struct {
	deps HandlerDeps
}

func (h journalsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "journals")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	store, err := h.deps.userStore(update)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}

	query := CommandArgs(update.Message.Text)
	tag := ""
	if strings.HasPrefix(query, "#") {
		tag, query = strings.ToLower(strings.TrimPrefix(query, "#")), ""
	}

	var entries []model.JournalEntry
	if query == "" && tag == "" {
		entries, err = store.GetJournalEntries(ctx)
	} else {
		entries, err = store.SearchJournals(ctx, query, tag)
	}
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}

	reply := FormatJournals(entries)
	if query == "" && tag == "" && len(entries) > 0 {
		if tags, err := store.JournalTags(ctx); err == nil && len(tags) > 0 {
			reply += "\n\nTags: #" + strings.Join(tags, " #")
		}
	}
	sendText(ctx, b, log, chatID, reply)
}

// NewDeleteJournalHandler returns a handler for /deljournal <id>.
func NewDeleteJournalHandler(deps HandlerDeps) bot.HandlerFunc {
	return deleteJournalHandler{deps}.Handle
}

type deleteJournalHandler struct {
	deps HandlerDeps
}

func (h deleteJournalHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "deljournal")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	id := CommandArgs(update.Message.Text)
	if id == "" {
		sendText(ctx, b, log, chatID, "Usage: /deljournal <id>")
		return
	}

	store, err := h.deps.userStore(update)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	removed, err := store.DeleteJournal(ctx, id)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	if !removed {
		sendText(ctx, b, log, chatID, "No journal entry with that id.")
		return
	}
	log.InfoContext(ctx, "Journal entry deleted", "namespace", store.Namespace(), "journal_id", id)
	sendText(ctx, b, log, chatID, "Journal entry deleted.")
}
