package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// moodDays is how many days /moods looks back.
const moodDays = 7

// NewMoodHandler returns a handler for /mood <mood> [note].
func NewMoodHandler(deps HandlerDeps) bot.HandlerFunc {
	return moodHandler{deps}.Handle
}

type moodHandler struct {
	deps HandlerDeps
}

func (h moodHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "mood")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	mood, note, err := ParseMoodArgs(CommandArgs(update.Message.Text))
	if err != nil {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.MoodUsage)
		return
	}

	store, err := h.deps.userStore(update)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	if _, err := store.AddMood(ctx, mood, note); err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}

	st, err := store.Stats(ctx, h.deps.now())
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	sendText(ctx, b, log, chatID, fmt.Sprintf("Mood tracked: %s. Day streak: %d.", mood.Label(), st.Streak))
}

// NewMoodsHandler returns a handler for /moods.
func NewMoodsHandler(deps HandlerDeps) bot.HandlerFunc {
	return moodsHandler{deps}.Handle
}

type moodsHandler struct {
	deps HandlerDeps
}

func (h moodsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "moods")
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
	days, err := store.MoodByDay(ctx, h.deps.now(), moodDays)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	sendText(ctx, b, log, chatID, FormatMoods(p.Mood.Current, days))
}

// NewStatsHandler returns a handler for /stats.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	store, err := h.deps.userStore(update)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	st, err := store.Stats(ctx, h.deps.now())
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	sendText(ctx, b, log, chatID, FormatStats(st))
}
