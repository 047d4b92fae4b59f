package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-telegram/bot"

	"github.com/zenify/companion/internal/bot/handlers"
)

// reminderTimeout bounds one full reminder run.
const reminderTimeout = 5 * time.Minute

// newMoodReminderTask reminds every user with notifications on who has not
// tracked a mood today.
func newMoodReminderTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", TaskMoodReminder)

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting mood reminders")
		started := time.Now()

		ctx, cancel := context.WithTimeout(ctx, reminderTimeout)
		defer cancel()

		namespaces, err := deps.Registry.Namespaces(ctx)
		if err != nil {
			log.ErrorContext(ctx, "Failed to list namespaces", "error", err)
			return fmt.Errorf("failed to list namespaces: %w", err)
		}

		now := deps.now()
		var sent, failed int
		var errs []error
		for _, ns := range namespaces {
			if ctx.Err() != nil {
				errs = append(errs, ctx.Err())
				break
			}
			chatID, ok := handlers.ParseNamespace(ns)
			if !ok {
				continue
			}

			due, err := reminderDue(ctx, deps, ns, now)
			if err != nil {
				log.WarnContext(ctx, "Skipping namespace", "namespace", ns, "error", err)
				failed++
				errs = append(errs, err)
				continue
			}
			if !due {
				continue
			}

			_, err = deps.Sender.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   deps.Config.Messages.MoodReminder,
			})
			if err != nil {
				log.WarnContext(ctx, "Failed to send mood reminder", "namespace", ns, "error", err)
				failed++
				errs = append(errs, fmt.Errorf("%s: %w", ns, err))
				continue
			}
			sent++
		}

		log.InfoContext(ctx, "Mood reminders finished",
			"namespaces", len(namespaces), "sent", sent, "failed", failed, "duration", time.Since(started))
		if len(errs) > 0 {
			return fmt.Errorf("mood reminders incomplete: %w", errors.Join(errs...))
		}
		return nil
	}
}

// reminderDue reports whether ns wants reminders and has no mood tracked on now's day.
func reminderDue(ctx context.Context, deps TaskDeps, ns string, now time.Time) (bool, error) {
	store, err := deps.Registry.Get(ns)
	if err != nil {
		return false, err
	}
	p, err := store.GetProfile(ctx)
	if err != nil {
		return false, err
	}
	if !p.Settings.Notifications {
		return false, nil
	}
	today, err := store.TodayMood(ctx, now)
	if err != nil {
		return false, err
	}
	return today == nil, nil
}
