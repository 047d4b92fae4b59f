package gemini

import (
	"log/slog"

	"github.com/zenify/companion/internal/config"
)

// NewTestClient builds a Client over a fake generator.
func NewTestClient(models contentGenerator, cfg config.GeminiConfig, log *slog.Logger) *Client {
	return newClient(models, cfg, log)
}

// ContentGenerator exposes the generator interface to tests.
type ContentGenerator = contentGenerator
