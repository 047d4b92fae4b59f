// Package tasks implements the scheduled jobs of the companion bot.
package tasks

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/zenify/companion/internal/config"
	"github.com/zenify/companion/internal/database"
	"github.com/zenify/companion/internal/profile"
)

// MessageSender delivers a Telegram message. *bot.Bot implements it.
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// TaskDeps contains the dependencies of scheduled tasks.
type TaskDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Backend  database.Store
	Registry *profile.Registry
	Sender   MessageSender
	// Location decides what "today" means for reminders. Nil means UTC.
	Location *time.Location
	// Now replaces time.Now in tests.
	Now func() time.Time
}

func (d TaskDeps) now() time.Time {
	clock := d.Now
	if clock == nil {
		clock = time.Now
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return clock().In(loc)
}
