package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/zenify/companion/internal/profile"
)

const (
	exportFilename  = "zenify-profile.json"
	// maxImportBytes bounds the size of an uploaded export.
	maxImportBytes  = 5 << 20
	downloadTimeout = 30 * time.Second
)

// NewExportHandler returns a handler for /export, which sends the profile as a JSON document.
func NewExportHandler(deps HandlerDeps) bot.HandlerFunc {
	return exportHandler{deps}.Handle
}

type exportHandler struct {
	deps HandlerDeps
}

func (h exportHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "export")
	if !validMessage(ctx, log, update) {
		return
	}
	chatID := update.Message.Chat.ID

	store, err := h.deps.userStore(update)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	data, err := store.Export(ctx)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: exportFilename, Data: bytes.NewReader(data)},
		Caption:  "Your Zenify data. Send this file back with the caption /import to restore it.",
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send export", "error", err, "chat_id", chatID)
		return
	}
	log.InfoContext(ctx, "Profile exported", "namespace", store.Namespace(), "bytes", len(data))
}

// importHandler restores a profile from an uploaded export.
type importHandler struct {
	deps HandlerDeps
}

func (h importHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "import")
	if !validMessage(ctx, log, update) || update.Message.Document == nil {
		return
	}
	chatID := update.Message.Chat.ID
	doc := update.Message.Document

	if doc.FileSize > maxImportBytes {
		sendText(ctx, b, log, chatID, "That file is too large to import.")
		return
	}

	data, err := downloadFile(ctx, b, doc.FileID)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}

	store, err := h.deps.userStore(update)
	if err != nil {
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	if _, err := store.Import(ctx, data); err != nil {
		if errors.Is(err, profile.ErrInvalidImport) {
			log.WarnContext(ctx, "Rejected import", "error", err, "namespace", store.Namespace())
			sendText(ctx, b, log, chatID, "That file is not a valid Zenify export.")
			return
		}
		h.deps.sendError(ctx, b, log, chatID, err)
		return
	}
	sendText(ctx, b, log, chatID, "Your data has been imported.")
}

// downloadFile fetches a file that a user uploaded to the bot.
func downloadFile(ctx context.Context, b *bot.Bot, fileID string) ([]byte, error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.FileDownloadLink(file), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImportBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > maxImportBytes {
		return nil, errors.New("file exceeds import size limit")
	}
	return data, nil
}
