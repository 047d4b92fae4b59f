package profile

import (
	"context"

	"github.com/zenify/companion/internal/model"
)

// GetMoodEntries returns the mood history in insertion order.
func (s *Store) GetMoodEntries(ctx context.Context) ([]model.MoodEntry, error) {
	p, err := s.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	return p.Mood.History, nil
}

// AddMood appends a mood entry and makes mood the current mood.
func (s *Store) AddMood(ctx context.Context, mood model.Mood, note string) (*model.MoodEntry, error) {
	if !mood.Valid() {
		return nil, invalidInput("unknown mood %q", mood)
	}
	var entry model.MoodEntry
	_, err := s.mutateProfile(ctx, func(p *model.UserProfile) error {
		entry = model.MoodEntry{
			ID:   s.newID(),
			Mood: mood,
			Note: note,
			Date: s.timestamp(),
		}
		p.Mood = model.MoodState{
			Current: mood,
			History: append(p.Mood.History, entry),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Mood entry added", "mood_id", entry.ID, "mood", mood)
	return &entry, nil
}
