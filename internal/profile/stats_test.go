package profile_test

import (
	"context"
	"testing"
	"time"

	"github.com/zenify/companion/internal/model"
	"github.com/zenify/companion/internal/profile"
)

func TestAddMood(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newStore(t)

	before := time.Now()
	if _, err := s.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if _, err := s.AddMood(ctx, model.MoodGreat, "felt productive"); err != nil {
		t.Fatalf("AddMood() error = %v", err)
	}
	after := time.Now()

	entries, err := s.GetMoodEntries(ctx)
	if err != nil {
		t.Fatalf("GetMoodEntries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("GetMoodEntries() = %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Mood != model.MoodGreat || e.Note != "felt productive" {
		t.Errorf("entry = %+v", e)
	}
	if e.Date.Before(before) || e.Date.After(after) {
		t.Errorf("date %v outside [%v, %v]", e.Date, before, after)
	}

	p, _ := s.GetProfile(ctx)
	if p.Mood.Current != model.MoodGreat {
		t.Errorf("current mood = %q, want great", p.Mood.Current)
	}

	if _, err := s.AddMood(ctx, "fine", ""); err == nil {
		t.Error("AddMood() with unknown mood succeeded")
	}
}

func moodAt(m model.Mood, t time.Time) model.MoodEntry {
	return model.MoodEntry{ID: t.String(), Mood: m, Date: t}
}

func TestStreak(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 10, 20, 0, 0, 0, time.UTC)
	day := func(offset int, hour int) time.Time {
		return time.Date(2025, 6, 10+offset, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name    string
		entries []model.MoodEntry
		want    int
	}{
		{name: "No entries", want: 0},
		{name: "Only today", entries: []model.MoodEntry{moodAt(model.MoodGood, day(0, 8))}, want: 1},
		{
			name: "Ending today",
			entries: []model.MoodEntry{
				moodAt(model.MoodGood, day(-2, 8)),
				moodAt(model.MoodGood, day(-1, 8)),
				moodAt(model.MoodGood, day(0, 8)),
			},
			want: 3,
		},
		{
			name: "Ending yesterday",
			entries: []model.MoodEntry{
				moodAt(model.MoodGood, day(-2, 8)),
				moodAt(model.MoodGood, day(-1, 8)),
			},
			want: 2,
		},
		{
			name:    "Broken before yesterday",
			entries: []model.MoodEntry{moodAt(model.MoodGood, day(-2, 8))},
			want:    0,
		},
		{
			name: "Gap stops the run",
			entries: []model.MoodEntry{
				moodAt(model.MoodGood, day(-4, 8)),
				moodAt(model.MoodGood, day(-1, 8)),
				moodAt(model.MoodGood, day(0, 8)),
			},
			want: 2,
		},
		{
			name: "Same day counts once",
			entries: []model.MoodEntry{
				moodAt(model.MoodGood, day(-1, 8)),
				moodAt(model.MoodBad, day(0, 7)),
				moodAt(model.MoodGood, day(0, 9)),
			},
			want: 2,
		},
		{
			name: "Unordered history",
			entries: []model.MoodEntry{
				moodAt(model.MoodGood, day(0, 8)),
				moodAt(model.MoodGood, day(-2, 8)),
				moodAt(model.MoodGood, day(-1, 8)),
			},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := profile.Streak(tt.entries, now); got != tt.want {
				t.Errorf("Streak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStreakUsesLocalDays(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("UTC-5", -5*3600)
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, loc)
	entries := []model.MoodEntry{
		// 02:00 UTC on the 10th is the evening of the 9th in UTC-5.
		moodAt(model.MoodGood, time.Date(2025, 6, 10, 2, 0, 0, 0, time.UTC)),
		moodAt(model.MoodGood, time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)),
	}
	if got := profile.Streak(entries, now); got != 2 {
		t.Errorf("Streak() = %d, want 2", got)
	}
}

func TestAverageMood(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-24 * time.Hour)
	old := now.Add(-15 * 24 * time.Hour)

	tests := []struct {
		name  string
		moods []model.Mood
		when  time.Time
		want  string
	}{
		{name: "Empty", want: profile.NoAverage},
		{name: "Only old entries", moods: []model.Mood{model.MoodGreat}, when: old, want: profile.NoAverage},
		{name: "Great boundary", moods: []model.Mood{model.MoodGreat, model.MoodGood}, when: recent, want: "Great"},
		{name: "Good", moods: []model.Mood{model.MoodGreat, model.MoodGood, model.MoodGood}, when: recent, want: "Good"},
		{name: "Neutral boundary", moods: []model.Mood{model.MoodGood, model.MoodBad}, when: recent, want: "Neutral"},
		{name: "Bad boundary", moods: []model.Mood{model.MoodBad, model.MoodAwful}, when: recent, want: "Bad"},
		{name: "Awful", moods: []model.Mood{model.MoodAwful, model.MoodAwful, model.MoodBad}, when: recent, want: "Awful"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			entries := make([]model.MoodEntry, 0, len(tt.moods))
			for _, m := range tt.moods {
				entries = append(entries, moodAt(m, tt.when))
			}
			if got := profile.AverageMood(entries, now); got != tt.want {
				t.Errorf("AverageMood() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatsAndMoodByDay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	start := time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC)
	s, _ := newStore(t, profile.WithClock(steppingClock(start, 12*time.Hour)))

	// Entries at 06-08 09:00, 06-08 21:00, 06-09 09:00, 06-09 21:00.
	for _, m := range []model.Mood{model.MoodBad, model.MoodGood, model.MoodNeutral, model.MoodGreat} {
		if _, err := s.AddMood(ctx, m, ""); err != nil {
			t.Fatalf("AddMood() error = %v", err)
		}
	}
	if _, err := s.AddJournal(ctx, profile.JournalInput{Title: "t", Content: "c", Mood: model.MoodGood}); err != nil {
		t.Fatalf("AddJournal() error = %v", err)
	}
	if _, err := s.CreateConversation(ctx, ""); err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}

	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	stats, err := s.Stats(ctx, now)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	want := profile.Stats{JournalCount: 1, ConversationCount: 1, MoodCount: 4, Streak: 2, AverageMood: "Good"}
	if *stats != want {
		t.Errorf("Stats() = %+v, want %+v", *stats, want)
	}

	days, err := s.MoodByDay(ctx, now, 7)
	if err != nil {
		t.Fatalf("MoodByDay() error = %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("MoodByDay() = %+v, want 2 days", days)
	}
	if days[0].Mood != model.MoodGood || days[1].Mood != model.MoodGreat {
		t.Errorf("MoodByDay() = %+v, want latest mood per day", days)
	}
	if !days[0].Day.Equal(time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first day = %v", days[0].Day)
	}

	today, err := s.TodayMood(ctx, now)
	if err != nil || today != nil {
		t.Errorf("TodayMood() = %v, %v, want nil", today, err)
	}
	yesterday, err := s.TodayMood(ctx, now.AddDate(0, 0, -1))
	if err != nil || yesterday == nil || yesterday.Mood != model.MoodGreat {
		t.Errorf("TodayMood(yesterday) = %+v, %v, want great", yesterday, err)
	}
}
