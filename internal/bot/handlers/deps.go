package handlers

import (
	"log/slog"
	"time"

	"github.com/zenify/companion/internal/companion"
	"github.com/zenify/companion/internal/config"
	"github.com/zenify/companion/internal/profile"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Registry  *profile.Registry
	Companion *companion.Service
	// Location decides calendar days for moods and streaks. Nil means UTC.
	Location *time.Location
	// Now replaces time.Now in tests.
	Now func() time.Time
}

// now returns the current time in the configured location.
func (d HandlerDeps) now() time.Time {
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
