package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/zenify/companion/internal/model"
)

// NewFlaggedHandler returns the admin handler for /flagged [all|pending|reviewed] [user].
func NewFlaggedHandler(deps HandlerDeps) bot.HandlerFunc {
	return flaggedHandler{deps}.Handle
}

type flaggedHandler struct {
	deps HandlerDeps
}

func (h flaggedHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "flagged")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	filter, namespace, err := ParseFlaggedArgs(CommandArgs(update.Message.Text))
	if err != nil {
		sendText(ctx, b, log, chatID, "Usage: /flagged [all|pending|reviewed] [user id]")
		return
	}

	namespaces, err := h.deps.targetNamespaces(ctx, namespace)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}

	groups := make([]UserFlags, 0, len(namespaces))
	for _, ns := range namespaces {
		store, err := h.deps.Registry.Get(ns)
		if err != nil {
			h.deps.sendError(ctx, b, log, chatID, err)
			return
		}
		items, err := store.ListFlaggedFiltered(ctx, filter)
		if err != nil {
			log.ErrorContext(ctx, "Failed to list flagged content", "error", err, "namespace", ns)
			continue
		}
		groups = append(groups, UserFlags{Namespace: ns, Items: items})
	}
	sendText(ctx, b, log, chatID, FormatFlagged(groups, filter))
}

// NewReviewHandler returns the admin handler for /review <id> [user].
func NewReviewHandler(deps HandlerDeps) bot.HandlerFunc {
	return reviewHandler{deps}.Handle
}

type reviewHandler struct {
	deps HandlerDeps
}

func (h reviewHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "review")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	id, namespace, err := ParseReviewArgs(CommandArgs(update.Message.Text))
	if err != nil {
		sendText(ctx, b, log, chatID, "Usage: /review <flag id> [user id]")
		return
	}

	namespaces, err := h.deps.targetNamespaces(ctx, namespace)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}

	reviewer := Namespace(update.Message.From.ID)
	if update.Message.From.Username != "" {
		reviewer = "@" + update.Message.From.Username
	}

	var reviewed *model.FlaggedContent
	for _, ns := range namespaces {
		store, err := h.deps.Registry.Get(ns)
		if err != nil {
			h.deps.sendError(ctx, b, log, chatID, err)
			return
		}
		reviewed, err = store.MarkReviewed(ctx, id, reviewer)
		if err != nil {
			h.deps.sendError(ctx, b, log, chatID, err)
			return
		}
		if reviewed != nil {
			log.InfoContext(ctx, "Flagged content reviewed", "flag_id", id, "namespace", ns, "reviewer", reviewer)
			break
		}
	}

	if reviewed == nil {
		sendText(ctx, b, log, chatID, "No flagged content with that id.")
		return
	}
	sendText(ctx, b, log, chatID, fmt.Sprintf("Marked %s as reviewed by %s.", reviewed.ID, reviewed.ReviewedBy))
}

// targetNamespaces returns namespace alone, or every stored namespace when it is empty.
func (d HandlerDeps) targetNamespaces(ctx context.Context, namespace string) ([]string, error) {
	if namespace != "" {
		return []string{namespace}, nil
	}
	namespaces, err := d.Registry.Namespaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}
	return namespaces, nil
}
